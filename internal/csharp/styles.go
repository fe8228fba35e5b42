// Package csharp implements the incremental lexer and folder for the
// C-family language: nested interpolated strings, raw multi-line string
// literals, XML documentation comments, and a preprocessor.
package csharp

// Style codes. The numeric assignment is load-bearing: the string-state
// predicates below compile down to single comparisons because interpolated
// variants sit at plain+1, the raw range is contiguous, and verbatim strings
// sort above the raw multi-line pair.
const (
	StyleDefault = iota
	StyleCommentLine
	StyleCommentLineDoc
	StyleCommentBlock
	StyleCommentBlockDoc
	StyleCommentTagXML
	StyleTaskMarker

	StyleCharacter
	StyleString
	StyleInterpolatedString
	StyleRawStringSL
	StyleInterpolatedRawStringSL
	StyleRawStringML
	StyleInterpolatedRawStringML
	StyleVerbatimString
	StyleInterpolatedVerbatimString

	StyleEscapeChar
	StyleFormatSpecifier
	StylePlaceholder
	StyleNumber
	StyleOperator
	StyleOperator2
	StyleIdentifier
	StyleKeyword
	StyleKeyword2
	StyleClass
	StyleStruct
	StyleInterface
	StyleEnum
	StyleRecord
	StyleAttribute
	StyleConstant
	StyleFunction
	StyleFunctionDefinition
	StyleLabel
	StylePreprocessor
	StylePreprocessorWord
	StylePreprocessorMessage

	StyleCount
)

// Per-line state packing, LSB to MSB:
//
//	1 bit  line-type is line comment
//	1 bit  line-type is using import
//	1 bit  a string interpolation crosses the line boundary
//	1 bit  reserved
//	8 bits raw-string delimiter count
//	8 bits interpolator count
//	12 bits paren/bracket depth outside interpolation
//
// Host tools inspect this layout; changing it is a breaking change.
const (
	lineStateLineComment   = 1
	lineStateUsing         = 1 << 1
	lineStateInterpolation = 1 << 2
)

func hasEscapeChar(state int) bool { return state <= StyleInterpolatedString }

func isVerbatimString(state int) bool { return state >= StyleVerbatimString }

func isInterpolatedString(state int) bool { return state&1 == StyleInterpolatedString&1 }

func isSingleLineString(state int) bool { return state < StyleRawStringML }

func isPlainString(state int) bool {
	return state < StyleRawStringSL || state > StyleInterpolatedRawStringML
}

func isSpaceEquiv(state int) bool { return state <= StyleTaskMarker }
