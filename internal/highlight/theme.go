package highlight

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kwatters/hilex/internal/basic"
	"github.com/kwatters/hilex/internal/config"
	"github.com/kwatters/hilex/internal/csharp"
)

// Theme maps engine style codes to lipgloss styles, one table per language.
type Theme struct {
	csharpStyles [csharp.StyleCount]lipgloss.Style
	basicStyles  [basic.StyleCount]lipgloss.Style

	FoldGutter    lipgloss.Style
	LineNumber    lipgloss.Style
	StatusBar     lipgloss.Style
	StatusBarText lipgloss.Style
}

func colored(hex string) lipgloss.Style {
	if hex == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// NewTheme builds the style tables from config colors.
func NewTheme(tc config.ThemeConfig) *Theme {
	t := &Theme{}

	comment := colored(tc.Comment)
	docComment := colored(tc.DocComment)
	str := colored(tc.String)
	escape := colored(tc.Escape)
	placeholder := colored(tc.Placeholder)
	number := colored(tc.Number)
	operator := colored(tc.Operator)
	keyword := colored(tc.Keyword).Bold(true)
	typeName := colored(tc.TypeName)
	className := colored(tc.ClassName)
	function := colored(tc.Function)
	label := colored(tc.Label)
	pre := colored(tc.Preprocessor)

	cs := &t.csharpStyles
	cs[csharp.StyleCommentLine] = comment
	cs[csharp.StyleCommentBlock] = comment
	cs[csharp.StyleCommentLineDoc] = docComment
	cs[csharp.StyleCommentBlockDoc] = docComment
	cs[csharp.StyleCommentTagXML] = colored(tc.XMLTag)
	cs[csharp.StyleTaskMarker] = colored(tc.TaskMarker).Bold(true)
	for s := csharp.StyleCharacter; s <= csharp.StyleInterpolatedVerbatimString; s++ {
		cs[s] = str
	}
	cs[csharp.StyleEscapeChar] = escape
	cs[csharp.StyleFormatSpecifier] = escape
	cs[csharp.StylePlaceholder] = placeholder
	cs[csharp.StyleNumber] = number
	cs[csharp.StyleOperator] = operator
	cs[csharp.StyleOperator2] = escape
	cs[csharp.StyleKeyword] = keyword
	cs[csharp.StyleKeyword2] = typeName
	cs[csharp.StyleClass] = className
	cs[csharp.StyleStruct] = className
	cs[csharp.StyleInterface] = className
	cs[csharp.StyleEnum] = className
	cs[csharp.StyleRecord] = className
	cs[csharp.StyleAttribute] = label
	cs[csharp.StyleConstant] = number
	cs[csharp.StyleFunction] = function
	cs[csharp.StyleFunctionDefinition] = function.Bold(true)
	cs[csharp.StyleLabel] = label
	cs[csharp.StylePreprocessor] = pre
	cs[csharp.StylePreprocessorWord] = pre
	cs[csharp.StylePreprocessorMessage] = comment

	vb := &t.basicStyles
	vb[basic.StyleCommentLine] = comment
	vb[basic.StyleLineContinuation] = operator
	vb[basic.StyleNumber] = number
	vb[basic.StyleString] = str
	vb[basic.StyleInterpolatedString] = str
	vb[basic.StyleDate] = colored(tc.Date)
	vb[basic.StyleFileNumber] = number
	vb[basic.StyleFormatSpecifier] = escape
	vb[basic.StyleOperator] = operator
	vb[basic.StyleOperator2] = escape
	vb[basic.StyleKeyword] = keyword
	vb[basic.StyleTypeKeyword] = typeName
	vb[basic.StyleKeywordAlt] = colored(tc.Keyword)
	vb[basic.StyleAttribute] = label
	vb[basic.StyleClass] = className
	vb[basic.StyleInterface] = className
	vb[basic.StyleEnum] = className
	vb[basic.StyleConstant] = number
	vb[basic.StyleBasicFunction] = function
	vb[basic.StyleFunctionDefinition] = function.Bold(true)
	vb[basic.StyleLabel] = label
	vb[basic.StylePreprocessor] = pre
	vb[basic.StylePreprocessorWord] = pre

	t.FoldGutter = colored(tc.FoldGutter)
	t.LineNumber = colored(tc.LineNumber)
	t.StatusBar = lipgloss.NewStyle().Background(lipgloss.Color(tc.StatusBar))
	t.StatusBarText = lipgloss.NewStyle().
		Background(lipgloss.Color(tc.StatusBar)).
		Foreground(lipgloss.Color(tc.StatusBarText))

	return t
}

// For returns the style for a language/style-code pair.
func (t *Theme) For(lang Language, style int) lipgloss.Style {
	switch lang {
	case LangBasic:
		if style >= 0 && style < basic.StyleCount {
			return t.basicStyles[style]
		}
	default:
		if style >= 0 && style < csharp.StyleCount {
			return t.csharpStyles[style]
		}
	}
	return lipgloss.NewStyle()
}
