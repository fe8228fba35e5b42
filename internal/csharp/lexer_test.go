package csharp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwatters/hilex/internal/document"
)

func lexSource(t *testing.T, src string) *document.Document {
	t.Helper()
	doc := document.New([]byte(src))
	Lex(doc, 0, doc.Length(), StyleDefault, DefaultKeywords())
	return doc
}

// spanStyle asserts that every byte of the first occurrence of substr in src
// carries the wanted style.
func spanStyle(t *testing.T, doc *document.Document, src, substr string, want int) {
	t.Helper()
	start := strings.Index(src, substr)
	require.GreaterOrEqual(t, start, 0, "substring %q not in source", substr)
	for pos := start; pos < start+len(substr); pos++ {
		assert.Equal(t, want, doc.StyleAt(pos),
			"style of byte %d (%q) in %q", pos, src[pos], substr)
	}
}

func TestStyleOrderingInvariants(t *testing.T) {
	// the predicates are single comparisons only because of the numeric
	// assignment; pin it down
	assert.Equal(t, StyleString+1, StyleInterpolatedString)
	assert.Equal(t, StyleRawStringSL+1, StyleInterpolatedRawStringSL)
	assert.Equal(t, StyleRawStringML+1, StyleInterpolatedRawStringML)
	assert.Equal(t, StyleVerbatimString+1, StyleInterpolatedVerbatimString)
	assert.Equal(t, StyleRawStringSL+2, StyleRawStringML)

	for _, s := range []int{StyleCharacter, StyleString, StyleInterpolatedString} {
		assert.True(t, hasEscapeChar(s), "style %d should take escapes", s)
	}
	for _, s := range []int{StyleVerbatimString, StyleInterpolatedVerbatimString, StyleRawStringSL, StyleRawStringML} {
		assert.False(t, hasEscapeChar(s), "style %d should not take escapes", s)
	}
	for _, s := range []int{StyleInterpolatedString, StyleInterpolatedVerbatimString, StyleInterpolatedRawStringSL, StyleInterpolatedRawStringML} {
		assert.True(t, isInterpolatedString(s), "style %d is interpolated", s)
	}
	for _, s := range []int{StyleString, StyleVerbatimString, StyleRawStringSL, StyleRawStringML} {
		assert.False(t, isInterpolatedString(s), "style %d is not interpolated", s)
	}
	for _, s := range []int{StyleCharacter, StyleString, StyleInterpolatedString, StyleRawStringSL, StyleInterpolatedRawStringSL} {
		assert.True(t, isSingleLineString(s), "style %d ends at the line", s)
	}
	for _, s := range []int{StyleRawStringML, StyleInterpolatedRawStringML, StyleVerbatimString, StyleInterpolatedVerbatimString} {
		assert.False(t, isSingleLineString(s), "style %d spans lines", s)
	}
	for _, s := range []int{StyleRawStringSL, StyleInterpolatedRawStringSL, StyleRawStringML, StyleInterpolatedRawStringML} {
		assert.False(t, isPlainString(s), "style %d is raw", s)
	}
	assert.True(t, isPlainString(StyleVerbatimString))
	assert.True(t, isVerbatimString(StyleInterpolatedVerbatimString))
	assert.False(t, isVerbatimString(StyleRawStringML))
}

func TestLex_InterpolatedString(t *testing.T) {
	src := `$"hello {name}!"`
	doc := lexSource(t, src)

	spanStyle(t, doc, src, `$"hello `, StyleInterpolatedString)
	spanStyle(t, doc, src, "{", StyleOperator2)
	spanStyle(t, doc, src, "name", StyleIdentifier)
	spanStyle(t, doc, src, "}", StyleOperator2)
	spanStyle(t, doc, src, `!"`, StyleInterpolatedString)
}

func TestLex_RawInterpolatedString(t *testing.T) {
	// two dollar signs: two braces open an expression hole; in a longer
	// brace run the extra braces stay string content
	src := `$$"""he{{re}} is {{{x}}}"""`
	doc := lexSource(t, src)

	spanStyle(t, doc, src, `$$"""he`, StyleInterpolatedRawStringSL)

	idx := strings.Index(src, "{{re")
	// both braces of the hole opener are interpolation operators
	assert.Equal(t, StyleOperator2, doc.StyleAt(idx))
	assert.Equal(t, StyleOperator2, doc.StyleAt(idx+1))
	spanStyle(t, doc, src, "re", StyleIdentifier)
	idx = strings.Index(src, "}} is")
	assert.Equal(t, StyleOperator2, doc.StyleAt(idx))
	assert.Equal(t, StyleOperator2, doc.StyleAt(idx+1))

	// in {{{x}}} the extra brace stays string content
	idx = strings.Index(src, "{{{")
	assert.Equal(t, StyleInterpolatedRawStringSL, doc.StyleAt(idx))
	assert.Equal(t, StyleOperator2, doc.StyleAt(idx+1))
	assert.Equal(t, StyleOperator2, doc.StyleAt(idx+2))
	spanStyle(t, doc, src, "x", StyleIdentifier)
	idx = strings.Index(src, "}}}")
	assert.Equal(t, StyleOperator2, doc.StyleAt(idx))
	assert.Equal(t, StyleOperator2, doc.StyleAt(idx+1))
	assert.Equal(t, StyleInterpolatedRawStringSL, doc.StyleAt(idx+2))
	spanStyle(t, doc, src, `"""`, StyleInterpolatedRawStringSL)
}

func TestLex_VerbatimString(t *testing.T) {
	src := `@"C:\path\to\file"`
	doc := lexSource(t, src)
	// backslashes are not escapes in verbatim strings
	spanStyle(t, doc, src, src, StyleVerbatimString)
}

func TestLex_VerbatimQuoteEscape(t *testing.T) {
	src := `@"a""b"`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, `@"a`, StyleVerbatimString)
	spanStyle(t, doc, src, `""`, StyleEscapeChar)
	spanStyle(t, doc, src, `b"`, StyleVerbatimString)
}

func TestLex_StringEscapes(t *testing.T) {
	src := `s = "a\n\x41\u0041b";`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, `\n`, StyleEscapeChar)
	spanStyle(t, doc, src, `\x41`, StyleEscapeChar)
	spanStyle(t, doc, src, `\u0041`, StyleEscapeChar)
	spanStyle(t, doc, src, `b"`, StyleString)
}

func TestLex_UTF8Suffix(t *testing.T) {
	src := `var s = "abc"u8;`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, `"abc"u8`, StyleString)
	spanStyle(t, doc, src, ";", StyleOperator)
}

func TestLex_RawString(t *testing.T) {
	src := `var s = """raw "q" text""";`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, `"""raw "q" text"""`, StyleRawStringSL)
	spanStyle(t, doc, src, ";", StyleOperator)
}

func TestLex_RawStringDelimiterLaw(t *testing.T) {
	// opened with five quotes: a run of three stays content, only the run
	// of five closes
	src := `x = """""ab"""cd""""" y`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, `"""""ab"""cd"""""`, StyleRawStringSL)
	spanStyle(t, doc, src, "y", StyleIdentifier)
}

func TestLex_RawStringMultiLine(t *testing.T) {
	src := "var s = \"\"\"\nline1\nline2\n\"\"\";\n"
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "\"\"\"\nline1\nline2\n\"\"\"", StyleRawStringML)
	spanStyle(t, doc, src, ";", StyleOperator)

	// the open delimiter count is carried in per-line state
	assert.Equal(t, 3, (doc.LineState(0)>>4)&0xff)
	assert.Equal(t, 3, (doc.LineState(1)>>4)&0xff)
	assert.Equal(t, 0, (doc.LineState(3)>>4)&0xff, "cleared after the close")
}

func TestLex_PlaceholderFormat(t *testing.T) {
	src := `s = "value: {0,-8:N2} end";`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "{0", StylePlaceholder)
	spanStyle(t, doc, src, ",-8:N2", StyleFormatSpecifier)
	spanStyle(t, doc, src, "}", StylePlaceholder)
	spanStyle(t, doc, src, " end", StyleString)
}

func TestLex_PlaceholderRejected(t *testing.T) {
	// `{a b}` has no valid specifier after the identifier: the placeholder
	// is abandoned and the braces stay string content
	src := `s = "x {a b} y";`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "{a b}", StyleString)
}

func TestLex_BraceEscapes(t *testing.T) {
	src := `s = $"a {{b}} c";`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "{{", StyleEscapeChar)
	spanStyle(t, doc, src, "}}", StyleEscapeChar)
	spanStyle(t, doc, src, "a ", StyleInterpolatedString)
}

func TestLex_FormatSpecifierInInterpolation(t *testing.T) {
	src := `s = $"n={x:D4}!";`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "{", StyleOperator2)
	spanStyle(t, doc, src, "x", StyleIdentifier)
	spanStyle(t, doc, src, ":D4", StyleFormatSpecifier)
	spanStyle(t, doc, src, "}", StyleOperator2)
	spanStyle(t, doc, src, "!", StyleInterpolatedString)
}

func TestLex_NestedInterpolation(t *testing.T) {
	src := `s = $"outer {Fn($"inner {x}")} done";`
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "outer ", StyleInterpolatedString)
	spanStyle(t, doc, src, "Fn", StyleFunction)
	spanStyle(t, doc, src, "inner ", StyleInterpolatedString)
	spanStyle(t, doc, src, "x", StyleIdentifier)
	spanStyle(t, doc, src, " done", StyleInterpolatedString)

	// the stack drained: no interpolation bit on the only line
	assert.Equal(t, 0, doc.LineState(0)&0x4)
}

func TestLex_Comments(t *testing.T) {
	src := "// plain\n/// doc\n/* block */\n/** blockdoc */\n"
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "// plain", StyleCommentLine)
	spanStyle(t, doc, src, "/// doc", StyleCommentLineDoc)
	spanStyle(t, doc, src, "/* block */", StyleCommentBlock)
	spanStyle(t, doc, src, "/** blockdoc */", StyleCommentBlockDoc)

	// line-comment lines carry the comment line-type bit
	assert.Equal(t, 1, doc.LineState(0)&1)
	assert.Equal(t, 1, doc.LineState(1)&1)
	assert.Equal(t, 0, doc.LineState(2)&1)
}

func TestLex_DocCommentXMLTags(t *testing.T) {
	src := "/// <summary>Text</summary>\n"
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "/// ", StyleCommentLineDoc)
	spanStyle(t, doc, src, "<summary>", StyleCommentTagXML)
	spanStyle(t, doc, src, "Text", StyleCommentLineDoc)
	spanStyle(t, doc, src, "</summary>", StyleCommentTagXML)
}

func TestLex_TaskMarker(t *testing.T) {
	src := "// TODO fix this\n"
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "TODO", StyleTaskMarker)
	spanStyle(t, doc, src, " fix this", StyleCommentLine)
}

func TestLex_Preprocessor(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		spans map[string]int
	}{
		{
			name: "region with message",
			src:  "#region Notes and more\n",
			spans: map[string]int{
				"#region":        StylePreprocessor,
				"Notes and more": StylePreprocessorMessage,
			},
		},
		{
			name: "pragma word",
			src:  "#pragma warning disable\n",
			spans: map[string]int{
				"#pragma": StylePreprocessor,
				"warning": StylePreprocessorWord,
				"disable": StyleIdentifier,
			},
		},
		{
			name: "plain directive leaves rest default",
			src:  "#if DEBUG\n",
			spans: map[string]int{
				"#if":   StylePreprocessor,
				"DEBUG": StyleIdentifier,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := lexSource(t, tt.src)
			for substr, style := range tt.spans {
				spanStyle(t, doc, tt.src, substr, style)
			}
		})
	}
}

func TestLex_Shebang(t *testing.T) {
	src := "#!/usr/bin/dotnet run\nvar x = 1;\n"
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "#!/usr/bin/dotnet run", StyleCommentLine)
	spanStyle(t, doc, src, "var", StyleKeyword)
}

func TestLex_KeywordClassification(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		spans map[string]int
	}{
		{
			name: "class declaration",
			src:  "class Widget { }\n",
			spans: map[string]int{
				"class":  StyleKeyword,
				"Widget": StyleClass,
			},
		},
		{
			name: "struct and enum hints",
			src:  "struct Point { }\nenum Color { }\n",
			spans: map[string]int{
				"Point": StyleStruct,
				"Color": StyleEnum,
			},
		},
		{
			name: "interface name heuristic",
			src:  "IWidget w;\n",
			spans: map[string]int{
				"IWidget": StyleInterface,
				"w":       StyleIdentifier,
			},
		},
		{
			name: "function definition vs call",
			src:  "void Main() { Run(); }\n",
			spans: map[string]int{
				"void": StyleKeyword,
				"Main": StyleFunctionDefinition,
				"Run":  StyleFunction,
			},
		},
		{
			name: "goto label hint",
			src:  "goto retry;\nretry: x = 1;\n",
			spans: map[string]int{
				"goto":  StyleKeyword,
				"retry": StyleLabel,
			},
		},
		{
			name: "label at statement start",
			src:  "done: return;\n",
			spans: map[string]int{
				"done":   StyleLabel,
				"return": StyleKeyword,
			},
		},
		{
			name: "attribute in brackets",
			src:  "[MyAttr]\nclass C { }\n",
			spans: map[string]int{
				"MyAttr": StyleAttribute,
			},
		},
		{
			name: "built-in type",
			src:  "int x = 1;\n",
			spans: map[string]int{
				"int": StyleKeyword2,
				"x":   StyleIdentifier,
			},
		},
		{
			name: "verbatim identifier skips keyword lookup",
			src:  "var @class = 1;\n",
			spans: map[string]int{
				"@class": StyleIdentifier,
			},
		},
		{
			name: "using import",
			src:  "using System;\n",
			spans: map[string]int{
				"using":  StyleKeyword,
				"System": StyleIdentifier,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := lexSource(t, tt.src)
			for substr, style := range tt.spans {
				spanStyle(t, doc, tt.src, substr, style)
			}
		})
	}
}

func TestLex_UsingLineType(t *testing.T) {
	src := "using System;\nvar x = 1;\n"
	doc := lexSource(t, src)
	assert.Equal(t, 2, doc.LineState(0)&2, "using bit set")
	assert.Equal(t, 0, doc.LineState(1)&2)
}

func TestLex_Numbers(t *testing.T) {
	src := "x = 0x1F + 1_000 + 1.5e-3 + .5f;\n"
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "0x1F", StyleNumber)
	spanStyle(t, doc, src, "1_000", StyleNumber)
	spanStyle(t, doc, src, "1.5e-3", StyleNumber)
	spanStyle(t, doc, src, ".5f", StyleNumber)
}

func TestLex_CharacterLiteral(t *testing.T) {
	src := `c = 'a'; d = '\n';` + "\n"
	doc := lexSource(t, src)
	spanStyle(t, doc, src, "'a'", StyleCharacter)
	spanStyle(t, doc, src, `\n`, StyleEscapeChar)
}

func TestLex_ParenDepthInLineState(t *testing.T) {
	src := "Call(a,\nb);\n"
	doc := lexSource(t, src)
	assert.Equal(t, 1, doc.LineState(0)>>20, "one paren open at end of line 0")
	assert.Equal(t, 0, doc.LineState(1)>>20)
}

func TestLex_InterpolationAcrossLines(t *testing.T) {
	src := "var s = $\"{1 +\n2}\";\n"
	doc := lexSource(t, src)
	assert.NotZero(t, doc.LineState(0)&0x4, "interpolation spans line 0")
	assert.Zero(t, doc.LineState(1)&0x4)
	spanStyle(t, doc, src, "2", StyleNumber)
}

func TestLex_StyleCoverage(t *testing.T) {
	// every byte must be restyled: prefill with a sentinel the lexer never
	// produces
	src := "class C {\n  void M() { var s = $\"a{b}c\"; } // end\n}\n"
	doc := document.New([]byte(src))
	doc.SetStyleRange(0, doc.Length(), 0xEE)
	Lex(doc, 0, doc.Length(), StyleDefault, DefaultKeywords())
	for pos := 0; pos < doc.Length(); pos++ {
		assert.NotEqual(t, 0xEE, doc.StyleAt(pos), "byte %d never styled", pos)
	}
}
