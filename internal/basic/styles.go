// Package basic implements the incremental lexer and folder for the
// line-oriented BASIC family: classic, scripting and modern dialects, with
// line continuation, type-suffix characters, date literals and interpolated
// strings.
package basic

// Dialect selects the language variant, the engine's only runtime knob.
type Dialect int

const (
	DialectModern    Dialect = iota // modern .NET dialect
	DialectClassic                  // classic VB/VBA
	DialectScripting                // scripting dialect
)

func (d Dialect) String() string {
	switch d {
	case DialectModern:
		return "modern"
	case DialectClassic:
		return "classic"
	case DialectScripting:
		return "scripting"
	default:
		return "unknown"
	}
}

// Style codes. Everything at or below StyleLineContinuation counts as
// whitespace-equivalent for lookback and fold purposes.
const (
	StyleDefault = iota
	StyleCommentLine
	StyleLineContinuation

	StyleNumber
	StyleString
	StyleInterpolatedString
	StyleDate
	StyleFileNumber
	StyleFormatSpecifier
	StyleOperator
	StyleOperator2
	StyleIdentifier
	StyleKeyword
	StyleTypeKeyword
	StyleKeywordAlt
	StyleAttribute
	StyleClass
	StyleInterface
	StyleEnum
	StyleConstant
	StyleBasicFunction
	StyleFunctionDefinition
	StyleLabel
	StylePreprocessor
	StylePreprocessorWord

	StyleCount
)

// Per-line state. The low bits carry the line type (values, not flags: the
// folder groups on the low two bits and tests the VB6 Type flag as the value
// itself); bit 3 marks an active line continuation, bit 4 an interpolation
// crossing the line boundary, and the high half the paren depth.
const (
	lineTypeComment = 1
	lineTypeDim     = 2
	lineTypeConst   = 3
	lineTypeVB6Type = 4

	lineStateLineContinuation    = 1 << 3
	lineStateStringInterpolation = 1 << 4
)

func isSpaceEquiv(state int) bool { return state <= StyleLineContinuation }
