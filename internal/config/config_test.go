package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwatters/hilex/internal/basic"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	dialect, err := cfg.BasicDialect()
	require.NoError(t, err)
	assert.Equal(t, basic.DialectModern, dialect)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDuration())
	assert.Equal(t, 600*time.Second, cfg.CacheTTL())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Dialect = 7
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Watch.Debounce = -1
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Cache.TTL = -5
	assert.Error(t, cfg.Validate())
}

func TestCSharpKeywords_Overrides(t *testing.T) {
	cfg := Defaults()
	cfg.TaskMarkers = []string{"urgent"}
	cfg.CSharpLists = KeywordOverrides{"type": "quux"}

	kw := cfg.CSharpKeywords()
	assert.True(t, kw.TaskMarker.Contains("urgent"))
	assert.False(t, kw.TaskMarker.Contains("todo"))
	assert.True(t, kw.Type.Contains("quux"))
	assert.False(t, kw.Type.Contains("int"), "override replaces the table")
	assert.True(t, kw.Keyword.Contains("class"), "untouched tables keep defaults")
}

func TestBasicKeywords_Overrides(t *testing.T) {
	cfg := Defaults()
	cfg.BasicLists = KeywordOverrides{"function": "frobnicate("}

	kw := cfg.BasicKeywords()
	assert.True(t, kw.BasicFunction.ContainsPrefixed("frobnicate", '('))
	assert.False(t, kw.BasicFunction.ContainsPrefixed("len", '('))
	assert.True(t, kw.Keyword.Contains("dim"))
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, Defaults().Dialect, cfg.Dialect)
	assert.Equal(t, Defaults().Theme.Keyword, cfg.Theme.Keyword)
	assert.Equal(t, Defaults().TaskMarkers, cfg.TaskMarkers)
	require.NoError(t, cfg.Validate())

	// refuses to clobber an existing file
	assert.Error(t, WriteDefaultConfig(path))
}
