package highlight

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwatters/hilex/internal/basic"
	"github.com/kwatters/hilex/internal/config"
	"github.com/kwatters/hilex/internal/csharp"
	"github.com/kwatters/hilex/internal/document"
)

func newHighlighter(t *testing.T) *Highlighter {
	t.Helper()
	hl, err := New(config.Defaults())
	require.NoError(t, err)
	return hl
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path    string
		want    Language
		wantErr bool
	}{
		{path: "main.cs", want: LangCSharp},
		{path: "lib.vala", want: LangCSharp},
		{path: "form.VB", want: LangBasic},
		{path: "legacy.bas", want: LangBasic},
		{path: "script.vbs", want: LangBasic},
		{path: "readme.md", wantErr: true},
		{path: "noext", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectLanguage(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexDocument(t *testing.T) {
	hl := newHighlighter(t)
	doc := document.New([]byte("class C { }\n"))
	hl.LexDocument(doc, LangCSharp)
	assert.Equal(t, csharp.StyleKeyword, doc.StyleAt(0))

	vb := document.New([]byte("Dim x\n"))
	hl.LexDocument(vb, LangBasic)
	assert.Equal(t, basic.StyleKeyword, vb.StyleAt(0))
}

func TestRenderLine_PreservesText(t *testing.T) {
	hl := newHighlighter(t)
	src := "class C { int x = 1; } // done\n"
	doc := document.New([]byte(src))
	hl.LexDocument(doc, LangCSharp)

	rendered := hl.RenderLine(doc, LangCSharp, 0)
	assert.Equal(t, strings.TrimRight(src, "\n"), ansi.Strip(rendered),
		"rendering only adds color, never changes text")
}

func TestRenderLine_ExpandsTabs(t *testing.T) {
	hl := newHighlighter(t)
	doc := document.New([]byte("\tx = 1;\n"))
	hl.LexDocument(doc, LangCSharp)
	assert.Equal(t, "    x = 1;", ansi.Strip(hl.RenderLine(doc, LangCSharp, 0)))
}

func TestRenderAll(t *testing.T) {
	hl := newHighlighter(t)
	doc := document.New([]byte("a\nb\n"))
	hl.LexDocument(doc, LangCSharp)
	lines := hl.RenderAll(doc, LangCSharp)
	require.Len(t, lines, 3)
	assert.Equal(t, "a", ansi.Strip(lines[0]))
	assert.Equal(t, "b", ansi.Strip(lines[1]))
	assert.Equal(t, "", lines[2])
}

func TestRelex_MatchesFullLex(t *testing.T) {
	hl := newHighlighter(t)
	src := "class C {\n  void M() { s = \"a\"; }\n}\n"

	full := document.New([]byte(src))
	hl.LexDocument(full, LangCSharp)

	edited := document.New([]byte("class C {\n  void M() { s = 1; }\n}\n"))
	hl.LexDocument(edited, LangCSharp)

	// mutate back to the original text and relex incrementally
	diff := edited.UpdateText([]byte(src))
	require.GreaterOrEqual(t, diff, 0)
	hl.Relex(edited, LangCSharp, diff)

	assert.Equal(t, full.Styles(), edited.Styles())
	for l := 0; l < full.LineCount(); l++ {
		assert.Equal(t, full.LineState(l), edited.LineState(l), "line %d", l)
		assert.Equal(t, full.Level(l), edited.Level(l), "level %d", l)
	}
}

func TestTheme_For(t *testing.T) {
	theme := NewTheme(config.Defaults().Theme)
	assert.NotNil(t, theme.For(LangCSharp, csharp.StyleKeyword))
	// out-of-range style codes fall back to a plain style
	assert.Equal(t, "x", theme.For(LangCSharp, 9999).Render("x"))
}
