// Package highlight turns styled documents into ANSI-colored terminal lines.
// It owns the mapping from engine style codes to lipgloss styles and the
// full-lex / incremental-relex entry points the CLI and viewer share.
package highlight

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kwatters/hilex/internal/basic"
	"github.com/kwatters/hilex/internal/config"
	"github.com/kwatters/hilex/internal/csharp"
	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/log"
)

// Language identifies which lexer pair drives a document.
type Language int

const (
	LangCSharp Language = iota
	LangBasic
)

func (l Language) String() string {
	switch l {
	case LangCSharp:
		return "csharp"
	case LangBasic:
		return "basic"
	default:
		return "unknown"
	}
}

// DetectLanguage picks a language from a file extension.
func DetectLanguage(path string) (Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cs", ".csx", ".vala":
		return LangCSharp, nil
	case ".vb", ".bas", ".cls", ".frm", ".ctl", ".vbs":
		return LangBasic, nil
	default:
		return LangCSharp, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

// Highlighter binds keyword tables, dialect and theme together.
type Highlighter struct {
	cfg      config.Config
	csharpKw *csharp.Keywords
	basicKw  *basic.Keywords
	dialect  basic.Dialect
	theme    *Theme
}

// New builds a highlighter from configuration.
func New(cfg config.Config) (*Highlighter, error) {
	dialect, err := cfg.BasicDialect()
	if err != nil {
		return nil, err
	}
	return &Highlighter{
		cfg:      cfg,
		csharpKw: cfg.CSharpKeywords(),
		basicKw:  cfg.BasicKeywords(),
		dialect:  dialect,
		theme:    NewTheme(cfg.Theme),
	}, nil
}

// Dialect returns the configured BASIC dialect.
func (h *Highlighter) Dialect() basic.Dialect { return h.dialect }

// Theme returns the color theme.
func (h *Highlighter) Theme() *Theme { return h.theme }

// LexDocument lexes and folds the whole document from scratch.
func (h *Highlighter) LexDocument(doc *document.Document, lang Language) {
	length := doc.Length()
	switch lang {
	case LangBasic:
		basic.Lex(doc, 0, length, basic.StyleDefault, h.dialect, h.basicKw)
		basic.Fold(doc, 0, length, basic.StyleDefault)
	default:
		csharp.Lex(doc, 0, length, csharp.StyleDefault, h.csharpKw)
		csharp.Fold(doc, 0, length, csharp.StyleDefault)
	}
	log.Debug(log.CatLex, "full lex", "lang", lang, "bytes", length, "lines", doc.LineCount())
}

// Relex re-lexes the document suffix starting at the line containing
// fromPos, resuming from the style and per-line state already stored. The
// engine's resumption guarantee makes the result identical to a full lex.
func (h *Highlighter) Relex(doc *document.Document, lang Language, fromPos int) {
	line := doc.LineOfPos(fromPos)
	startPos := doc.LineStart(line)
	initStyle := 0
	if startPos > 0 {
		initStyle = doc.StyleAt(startPos - 1)
	}
	length := doc.Length() - startPos
	switch lang {
	case LangBasic:
		basic.Lex(doc, startPos, length, initStyle, h.dialect, h.basicKw)
		basic.Fold(doc, startPos, length, initStyle)
	default:
		csharp.Lex(doc, startPos, length, initStyle, h.csharpKw)
		csharp.Fold(doc, startPos, length, initStyle)
	}
	log.Debug(log.CatLex, "relex", "lang", lang, "from_line", line, "bytes", length)
}

// RenderLine renders one document line as an ANSI string, tabs expanded.
func (h *Highlighter) RenderLine(doc *document.Document, lang Language, line int) string {
	start := doc.LineStart(line)
	end := doc.LineEnd(line)
	if start >= end {
		return ""
	}

	var b strings.Builder
	runStart := start
	runStyle := doc.StyleAt(start)
	flush := func(upto int) {
		if upto <= runStart {
			return
		}
		text := strings.ReplaceAll(string(doc.Text()[runStart:upto]), "\t", "    ")
		b.WriteString(h.theme.For(lang, runStyle).Render(text))
	}
	for pos := start + 1; pos < end; pos++ {
		if style := doc.StyleAt(pos); style != runStyle {
			flush(pos)
			runStart = pos
			runStyle = style
		}
	}
	flush(end)
	return b.String()
}

// RenderAll renders every document line.
func (h *Highlighter) RenderAll(doc *document.Document, lang Language) []string {
	lines := make([]string, doc.LineCount())
	for i := range lines {
		lines[i] = h.RenderLine(doc, lang, i)
	}
	return lines
}
