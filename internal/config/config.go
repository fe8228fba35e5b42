// Package config provides configuration types and defaults for hilex.
package config

import (
	"fmt"
	"time"

	"github.com/kwatters/hilex/internal/basic"
)

// ThemeConfig holds the color tokens used to render each style class.
// Values are hex colors such as "#7AA2F7".
type ThemeConfig struct {
	Comment       string `mapstructure:"comment"`
	DocComment    string `mapstructure:"doc_comment"`
	XMLTag        string `mapstructure:"xml_tag"`
	TaskMarker    string `mapstructure:"task_marker"`
	String        string `mapstructure:"string"`
	Escape        string `mapstructure:"escape"`
	Placeholder   string `mapstructure:"placeholder"`
	Number        string `mapstructure:"number"`
	Operator      string `mapstructure:"operator"`
	Keyword       string `mapstructure:"keyword"`
	TypeName      string `mapstructure:"type_name"`
	ClassName     string `mapstructure:"class_name"`
	Function      string `mapstructure:"function"`
	Label         string `mapstructure:"label"`
	Preprocessor  string `mapstructure:"preprocessor"`
	Date          string `mapstructure:"date"`
	FoldGutter    string `mapstructure:"fold_gutter"`
	LineNumber    string `mapstructure:"line_number"`
	StatusBar     string `mapstructure:"status_bar"`
	StatusBarText string `mapstructure:"status_bar_text"`
}

// WatchConfig holds file-watching options.
type WatchConfig struct {
	// Debounce is how long to coalesce bursts of file events, in
	// milliseconds.
	Debounce int `mapstructure:"debounce"`
	// Trace enables OpenTelemetry span export to stdout.
	Trace bool `mapstructure:"trace"`
}

// CacheConfig holds document-cache options for the watch service.
type CacheConfig struct {
	// TTL is how long a lexed document stays cached, in seconds.
	TTL int `mapstructure:"ttl"`
}

// KeywordOverrides lets a config file replace individual keyword tables.
// Keys are table names ("keyword", "type", "preprocessor", ...), values are
// whitespace-separated word lists.
type KeywordOverrides map[string]string

// Config holds all configuration options for hilex.
type Config struct {
	// Dialect selects the BASIC-family variant: 0 modern, 1 classic,
	// 2 scripting.
	Dialect     int              `mapstructure:"dialect"`
	TaskMarkers []string         `mapstructure:"task_markers"`
	Theme       ThemeConfig      `mapstructure:"theme"`
	Watch       WatchConfig      `mapstructure:"watch"`
	Cache       CacheConfig      `mapstructure:"cache"`
	CSharpLists KeywordOverrides `mapstructure:"csharp_keywords"`
	BasicLists  KeywordOverrides `mapstructure:"basic_keywords"`
	StateDB     string           `mapstructure:"state_db"`
}

// Defaults returns the stock configuration.
func Defaults() Config {
	return Config{
		Dialect:     int(basic.DialectModern),
		TaskMarkers: []string{"todo", "fixme", "hack", "note", "xxx"},
		Theme: ThemeConfig{
			Comment:       "#616E88",
			DocComment:    "#8A9BBF",
			XMLTag:        "#81A1C1",
			TaskMarker:    "#EBCB8B",
			String:        "#A3BE8C",
			Escape:        "#D08770",
			Placeholder:   "#D08770",
			Number:        "#B48EAD",
			Operator:      "#ECEFF4",
			Keyword:       "#81A1C1",
			TypeName:      "#8FBCBB",
			ClassName:     "#8FBCBB",
			Function:      "#88C0D0",
			Label:         "#EBCB8B",
			Preprocessor:  "#D08770",
			Date:          "#B48EAD",
			FoldGutter:    "#4C566A",
			LineNumber:    "#4C566A",
			StatusBar:     "#3B4252",
			StatusBarText: "#D8DEE9",
		},
		Watch: WatchConfig{Debounce: 250},
		Cache: CacheConfig{TTL: 600},
	}
}

// DebounceDuration returns the watch debounce as a duration.
func (c Config) DebounceDuration() time.Duration {
	d := c.Watch.Debounce
	if d <= 0 {
		d = 250
	}
	return time.Duration(d) * time.Millisecond
}

// CacheTTL returns the cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	ttl := c.Cache.TTL
	if ttl <= 0 {
		ttl = 600
	}
	return time.Duration(ttl) * time.Second
}

// BasicDialect returns the configured dialect, validated.
func (c Config) BasicDialect() (basic.Dialect, error) {
	switch d := basic.Dialect(c.Dialect); d {
	case basic.DialectModern, basic.DialectClassic, basic.DialectScripting:
		return d, nil
	default:
		return basic.DialectModern, fmt.Errorf("invalid dialect %d (want 0, 1 or 2)", c.Dialect)
	}
}

// Validate checks values a config file could get wrong.
func (c Config) Validate() error {
	if _, err := c.BasicDialect(); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}
