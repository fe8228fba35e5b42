package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with yaml tags for writing default files.
type fileConfig struct {
	Dialect     int             `yaml:"dialect"`
	TaskMarkers []string        `yaml:"task_markers"`
	Theme       fileTheme       `yaml:"theme"`
	Watch       fileWatch       `yaml:"watch"`
	Cache       fileCache       `yaml:"cache"`
}

type fileTheme struct {
	Comment       string `yaml:"comment"`
	DocComment    string `yaml:"doc_comment"`
	XMLTag        string `yaml:"xml_tag"`
	TaskMarker    string `yaml:"task_marker"`
	String        string `yaml:"string"`
	Escape        string `yaml:"escape"`
	Placeholder   string `yaml:"placeholder"`
	Number        string `yaml:"number"`
	Operator      string `yaml:"operator"`
	Keyword       string `yaml:"keyword"`
	TypeName      string `yaml:"type_name"`
	ClassName     string `yaml:"class_name"`
	Function      string `yaml:"function"`
	Label         string `yaml:"label"`
	Preprocessor  string `yaml:"preprocessor"`
	Date          string `yaml:"date"`
	FoldGutter    string `yaml:"fold_gutter"`
	LineNumber    string `yaml:"line_number"`
	StatusBar     string `yaml:"status_bar"`
	StatusBarText string `yaml:"status_bar_text"`
}

type fileWatch struct {
	Debounce int  `yaml:"debounce"`
	Trace    bool `yaml:"trace"`
}

type fileCache struct {
	TTL int `yaml:"ttl"`
}

const configHeader = `# hilex configuration
#
# dialect selects the BASIC-family variant: 0 modern, 1 classic, 2 scripting.
# task_markers are highlighted inside comments.
# csharp_keywords / basic_keywords may override individual keyword tables,
# e.g.
#   csharp_keywords:
#     type: "bool byte char int long string"
`

// WriteDefaultConfig writes the default configuration to path, creating
// parent directories as needed. Fails if the file already exists.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	d := Defaults()
	fc := fileConfig{
		Dialect:     d.Dialect,
		TaskMarkers: d.TaskMarkers,
		Theme: fileTheme{
			Comment:       d.Theme.Comment,
			DocComment:    d.Theme.DocComment,
			XMLTag:        d.Theme.XMLTag,
			TaskMarker:    d.Theme.TaskMarker,
			String:        d.Theme.String,
			Escape:        d.Theme.Escape,
			Placeholder:   d.Theme.Placeholder,
			Number:        d.Theme.Number,
			Operator:      d.Theme.Operator,
			Keyword:       d.Theme.Keyword,
			TypeName:      d.Theme.TypeName,
			ClassName:     d.Theme.ClassName,
			Function:      d.Theme.Function,
			Label:         d.Theme.Label,
			Preprocessor:  d.Theme.Preprocessor,
			Date:          d.Theme.Date,
			FoldGutter:    d.Theme.FoldGutter,
			LineNumber:    d.Theme.LineNumber,
			StatusBar:     d.Theme.StatusBar,
			StatusBarText: d.Theme.StatusBarText,
		},
		Watch: fileWatch{Debounce: d.Watch.Debounce, Trace: d.Watch.Trace},
		Cache: fileCache{TTL: d.Cache.TTL},
	}

	body, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), body...), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
