package csharp

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kwatters/hilex/internal/document"
)

// snippets the generator assembles into documents; chosen to exercise every
// state that crosses line boundaries.
var sourceLines = []string{
	"using System;",
	"class Widget {",
	"  void M() {",
	"    var a = $\"x={x,4:N2}!\";",
	"    var b = @\"verbatim",
	"continued\";",
	"    var c = \"\"\"",
	"raw body \"q\"",
	"\"\"\";",
	"    var d = $$\"\"\"he{{re}} {{{x}}}\"\"\";",
	"    var e = $\"{1 +",
	"2}\";",
	"    goto retry;",
	"retry: x = 'c';",
	"  } // TODO cleanup",
	"}",
	"/* block",
	"   comment */",
	"/// <summary>Doc</summary>",
	"#region Zone",
	"#endregion",
	"#pragma warning disable",
	"",
	"  [MyAttr] int n = 0x1F;",
}

func lexFull(src string) *document.Document {
	doc := document.New([]byte(src))
	Lex(doc, 0, doc.Length(), StyleDefault, DefaultKeywords())
	return doc
}

func styleDiff(a, b []byte) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(fmt.Sprintf("% x", a), fmt.Sprintf("% x", b), false)
	return dmp.DiffPrettyText(diffs)
}

// TestLex_ResumptionEquivalence is the core incremental guarantee: lexing a
// suffix from any line boundary, with the preceding per-line state intact,
// reproduces the full lex byte for byte.
func TestLex_ResumptionEquivalence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "lines")
		picks := rapid.SliceOfN(rapid.IntRange(0, len(sourceLines)-1), n, n).Draw(rt, "picks")

		var b strings.Builder
		for _, p := range picks {
			b.WriteString(sourceLines[p])
			b.WriteString("\n")
		}
		src := b.String()

		full := lexFull(src)
		line := rapid.IntRange(0, full.LineCount()-1).Draw(rt, "resumeLine")
		startPos := full.LineStart(line)

		// partial relex over a document that kept the prefix styles and
		// line states but lost everything from the resume point on
		partial := document.New([]byte(src))
		for l := 0; l < line; l++ {
			partial.SetLineState(l, full.LineState(l))
		}
		partial.SetStyleRange(0, partial.Length(), 0)
		for pos := 0; pos < startPos; pos++ {
			partial.SetStyleRange(pos, 1, full.StyleAt(pos))
		}
		initStyle := 0
		if startPos > 0 {
			initStyle = full.StyleAt(startPos - 1)
		}
		Lex(partial, startPos, partial.Length()-startPos, initStyle, DefaultKeywords())

		fullStyles := full.Styles()[startPos:]
		partialStyles := partial.Styles()[startPos:]
		if string(fullStyles) != string(partialStyles) {
			rt.Fatalf("styles diverge resuming at line %d:\n%s\nsource:\n%s",
				line, styleDiff(fullStyles, partialStyles), src)
		}
		for l := line; l < full.LineCount(); l++ {
			if full.LineState(l) != partial.LineState(l) {
				rt.Fatalf("line state diverges at line %d: %#x vs %#x",
					l, full.LineState(l), partial.LineState(l))
			}
		}
	})
}

// TestFold_ResumptionEquivalence checks the folder half of the guarantee.
func TestFold_ResumptionEquivalence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "lines")
		picks := rapid.SliceOfN(rapid.IntRange(0, len(sourceLines)-1), n, n).Draw(rt, "picks")

		var b strings.Builder
		for _, p := range picks {
			b.WriteString(sourceLines[p])
			b.WriteString("\n")
		}
		src := b.String()

		full := lexFull(src)
		Fold(full, 0, full.Length(), StyleDefault)

		partial := lexFull(src)
		Fold(partial, 0, partial.Length(), StyleDefault)
		line := rapid.IntRange(0, partial.LineCount()-1).Draw(rt, "resumeLine")
		startPos := partial.LineStart(line)
		initStyle := 0
		if startPos > 0 {
			initStyle = partial.StyleAt(startPos - 1)
		}
		Fold(partial, startPos, partial.Length()-startPos, initStyle)

		for l := 0; l < full.LineCount(); l++ {
			if full.Level(l) != partial.Level(l) {
				rt.Fatalf("fold level diverges at line %d: %#x vs %#x (resume line %d)\nsource:\n%s",
					l, full.Level(l), partial.Level(l), line, src)
			}
		}
	})
}

// TestLex_StyleCoverageProperty: every byte receives exactly one style
// assignment regardless of input shape.
func TestLex_StyleCoverageProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.StringOfN(rapid.RuneFrom([]rune("ab{}()\"$@#/*'\\\n \t=;:,.0123")), 0, 64, -1).Draw(rt, "src")
		doc := document.New([]byte(src))
		doc.SetStyleRange(0, doc.Length(), 0xEE)
		Lex(doc, 0, doc.Length(), StyleDefault, DefaultKeywords())
		for pos := 0; pos < doc.Length(); pos++ {
			require.NotEqual(t, 0xEE, doc.StyleAt(pos), "byte %d skipped in %q", pos, src)
		}
	})
}
