package csharp

import (
	"strings"

	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/scan"
)

// keywordType is the classification hint a keyword leaves for the identifier
// that follows it. Values below kwReturn double as style codes.
type keywordType int

const (
	kwNone      = keywordType(StyleDefault)
	kwAttribute = keywordType(StyleAttribute)
	kwClass     = keywordType(StyleClass)
	kwInterface = keywordType(StyleInterface)
	kwStruct    = keywordType(StyleStruct)
	kwEnum      = keywordType(StyleEnum)
	kwRecord    = keywordType(StyleRecord)
	kwLabel     = keywordType(StyleLabel)
	kwReturn    = keywordType(0x40)
	kwWhile     = keywordType(0x41)
)

type ppKind int

const (
	ppNone ppKind = iota
	ppInit
	ppPragma
	ppMessage
	ppOther
)

type docTagState int

const (
	docTagNone docTagState = iota
	docTagXMLOpen
	docTagXMLClose
)

// escapeSequence tracks how many bytes of the current escape remain valid.
// outerState doubles as the stash for the state to restore after an XML tag,
// format specifier, or placeholder.
type escapeSequence struct {
	outerState int
	digitsLeft int
}

// reset starts an escape at a backslash followed by chNext. A backslash at
// end of line is not an escape.
func (e *escapeSequence) reset(state, chNext int) bool {
	if scan.IsEOLChar(chNext) {
		return false
	}
	e.outerState = state
	e.digitsLeft = 1
	if chNext == 'x' || chNext == 'u' {
		e.digitsLeft = 5
	} else if chNext == 'U' {
		e.digitsLeft = 9
	}
	return true
}

func (e *escapeSequence) atEnd(ch int) bool {
	e.digitsLeft--
	return e.digitsLeft <= 0 || !scan.IsHexDigit(ch)
}

// interpolatedStringState is one frame of the nested-interpolation stack:
// the string state to restore when the expression hole closes, the hole's
// paren depth, and the delimiter/interpolator counters of the string.
type interpolatedStringState struct {
	state             int
	parenCount        int
	delimiterCount    int
	interpolatorCount int
}

func isUnicodeEscape(ch, chNext int) bool {
	return ch == '\\' && scan.ToLower(chNext) == 'u'
}

func isCsIdentifierStart(ch, chNext int) bool {
	return scan.IsIdentifierStartEx(ch) || isUnicodeEscape(ch, chNext)
}

func isCsIdentifierChar(ch, chNext int) bool {
	return scan.IsIdentifierCharEx(ch) || isUnicodeEscape(ch, chNext)
}

func isXMLCommentTagChar(ch int) bool {
	return scan.IsIdentifierChar(ch) || ch == '-' || ch == ':'
}

// preferArrayIndex reports whether a '[' after ch indexes a value rather than
// starting an attribute.
func preferArrayIndex(ch int) bool {
	return ch == ')' || ch == ']' || scan.IsIdentifierCharEx(ch)
}

func isJumpLabelPrevChar(ch int) bool {
	return ch == 0 || ch == ';' || ch == ':' || ch == '{' || ch == '}'
}

// isInterfaceName: an uppercase letter after a leading 'I'.
func isInterfaceName(s string) bool {
	return len(s) >= 2 && s[0] == 'I' && scan.IsUpperCase(int(s[1]))
}

// composite format specifiers allow any character except controls, quotes
// and braces
func isInvalidFormatSpecifier(ch int) bool {
	return (ch >= 0 && ch < ' ') || ch == '"' || ch == '{' || ch == '}'
}

func isInterpolatedStringEnd(sc *scan.StyleContext) bool {
	return sc.Ch == '}' || sc.Ch == ':' ||
		(sc.Ch == ',' && (scan.IsADigit(sc.ChNext) || (sc.ChNext == '-' && scan.IsADigit(sc.GetRelative(2)))))
}

// checkFormatSpecifier validates `[,[-]digits][:format]}` ahead of the cursor
// and returns the specifier length, or 0 when the tail is not a specifier.
func checkFormatSpecifier(sc *scan.StyleContext, doc document.Accessor) int {
	pos := sc.CurrentPos()
	ch := int(doc.ByteAt(pos))
	// [,alignment]
	if ch == ',' {
		pos++
		ch = int(doc.ByteAt(pos))
		if ch == '-' {
			pos++
			ch = int(doc.ByteAt(pos))
		}
		for scan.IsADigit(ch) {
			pos++
			ch = int(doc.ByteAt(pos))
		}
	}
	// [:formatString]
	if ch == ':' {
		pos++
		ch = int(doc.ByteAt(pos))
		endPos := pos + 32
		for pos < endPos && !isInvalidFormatSpecifier(ch) {
			pos++
			ch = int(doc.ByteAt(pos))
		}
	}
	if ch == '}' {
		return pos - sc.CurrentPos()
	}
	return 0
}

// Lex styles the byte range [startPos, startPos+length) and records per-line
// state, resuming from initStyle and the preceding line's packed state.
func Lex(doc document.Accessor, startPos, length, initStyle int, keywords *Keywords) {
	lineStateLineType := 0

	kwType := kwNone
	chBeforeIdentifier := 0
	parenCount := 0
	stringDelimiterCount := 0
	stringInterpolatorCount := 0
	pp := ppNone

	visibleChars := 0
	chBefore := 0
	chPrevNonWhite := 0
	docTag := docTagNone
	var escSeq escapeSequence
	closeBrace := false

	var nestedState []interpolatedStringState

	if startPos != 0 {
		// back up to the line that starts the expression inside an
		// interpolated string literal
		startPos, length, initStyle = scan.BacktrackToStart(doc, lineStateInterpolation, startPos, length, initStyle)
	}

	sc := scan.NewStyleContext(doc, startPos, length, initStyle)
	if sc.CurrentLine() > 0 {
		lineState := doc.LineState(sc.CurrentLine() - 1)
		stringDelimiterCount = (lineState >> 4) & 0xff
		stringInterpolatorCount = (lineState >> 12) & 0xff
		parenCount = lineState >> 20
	}
	if startPos == 0 {
		if sc.Match('#', '!') {
			// shell shebang at the beginning of the file
			sc.SetState(StyleCommentLine)
			sc.Forward()
			lineStateLineType = lineStateLineComment
		}
	} else if isSpaceEquiv(initStyle) {
		chPrevNonWhite, _ = scan.LookbackNonWhite(doc, startPos, StyleTaskMarker)
	}

	for sc.More() {
		switch sc.State {
		case StyleOperator, StyleOperator2:
			sc.SetState(StyleDefault)

		case StyleNumber:
			if !scan.IsDecimalNumber(sc.ChPrev, sc.Ch, sc.ChNext) {
				sc.SetState(StyleDefault)
			}

		case StyleIdentifier, StylePreprocessor:
			if !isCsIdentifierChar(sc.Ch, sc.ChNext) {
				s := sc.Current()
				switch pp {
				case ppNone:
					if s != "" && s[0] != '@' {
						if keywords.Keyword.Contains(s) {
							sc.ChangeState(StyleKeyword)
							switch s {
							case "using":
								if visibleChars == sc.LengthCurrent() {
									lineStateLineType = lineStateUsing
								}
							case "class", "new", "as", "is":
								kwType = kwClass
							case "struct":
								kwType = kwStruct
							case "interface":
								kwType = kwInterface
							case "enum":
								kwType = kwEnum
							case "record":
								kwType = kwRecord
							case "goto":
								kwType = kwLabel
							case "return", "await", "yield":
								kwType = kwReturn
							case "if", "while":
								// avoid treating the following code as a
								// type cast: if (identifier) expression
								kwType = kwWhile
							}
							if kwType > kwNone && kwType < kwReturn {
								chNext := sc.GetDocNextChar(false)
								if !scan.IsIdentifierStartEx(chNext) {
									kwType = kwNone
								}
							}
						} else if keywords.Type.Contains(s) || keywords.TypeExtra.Contains(s) {
							sc.ChangeState(StyleKeyword2)
						} else if keywords.Class.Contains(s) {
							sc.ChangeState(StyleClass)
						} else if keywords.Struct.Contains(s) {
							sc.ChangeState(StyleStruct)
						} else if keywords.Interface.Contains(s) {
							sc.ChangeState(StyleInterface)
						} else if keywords.Enum.Contains(s) {
							sc.ChangeState(StyleEnum)
						} else if keywords.Attribute.Contains(s) {
							sc.ChangeState(StyleAttribute)
						} else if keywords.Constant.Contains(s) {
							sc.ChangeState(StyleConstant)
						}
					}

				case ppInit:
					if sc.State == StyleIdentifier {
						sc.ChangeState(StylePreprocessor)
					}
					if sc.LengthCurrent() > 1 {
						word := strings.TrimPrefix(s, "#")
						switch word {
						case "pragma", "line", "nullable":
							pp = ppPragma
						case "error", "warning", "region", "endregion":
							pp = ppMessage
						default:
							pp = ppOther
						}
					} else if !scan.IsSpaceOrTab(sc.Ch) {
						pp = ppOther
					}

				case ppPragma:
					pp = ppOther
					sc.ChangeState(StylePreprocessorWord)
				}

				if pp == ppNone && sc.State == StyleIdentifier {
					if sc.Ch == ':' {
						if parenCount == 0 && isJumpLabelPrevChar(chBefore) {
							sc.ChangeState(StyleLabel)
						} else if chBefore == '[' {
							// [target: Attribute]
							sc.ChangeState(StyleAttribute)
							kwType = kwAttribute
						}
					} else if sc.Ch != '.' {
						if kwType > kwNone && kwType < kwReturn {
							sc.ChangeState(int(kwType))
						} else {
							chNext := sc.GetDocNextChar(sc.Ch == '?' || sc.Ch == ')')
							if sc.Ch == ')' {
								if chBeforeIdentifier == '(' && (chNext == '(' || (kwType != kwWhile && scan.IsIdentifierCharEx(chNext))) {
									// (type)(expression)
									// (type)expression, (type)++identifier
									sc.ChangeState(StyleClass)
								}
							} else if chNext == '(' {
								if kwType != kwReturn && len(nestedState) == 0 && (scan.IsIdentifierCharEx(chBefore) || chBefore == ']') {
									// type method()
									// type[] method()
									// type<type> method()
									sc.ChangeState(StyleFunctionDefinition)
								} else {
									sc.ChangeState(StyleFunction)
								}
							} else if (sc.Ch == '[' && (sc.ChNext == ']' || sc.ChNext == ',')) ||
								(chBeforeIdentifier == '<' && (chNext == '>' || chNext == '<')) ||
								scan.IsIdentifierStartEx(chNext) {
								// type[] identifier
								// type<type, type>
								// class type: type, interface {}
								// type identifier
								if isInterfaceName(s) {
									sc.ChangeState(StyleInterface)
								} else {
									sc.ChangeState(StyleClass)
								}
							}
						}
					}
				}
				if sc.State != StyleKeyword && sc.State != StyleAttribute && sc.Ch != '.' {
					kwType = kwNone
				}
				sc.SetState(StyleDefault)
			}

		case StylePreprocessorMessage:
			if sc.AtLineStart {
				sc.SetState(StyleDefault)
			}

		case StyleCommentLine, StyleCommentLineDoc, StyleCommentBlock, StyleCommentBlockDoc:
			if sc.AtLineStart && (sc.State == StyleCommentLine || sc.State == StyleCommentLineDoc) {
				sc.SetState(StyleDefault)
				break
			}
			if docTag != docTagNone {
				if sc.Match('/', '>') || sc.Ch == '>' {
					docTag = docTagNone
					sc.SetState(StyleCommentTagXML)
					if sc.Ch == '/' {
						sc.Advance(2)
					} else {
						sc.Advance(1)
					}
					sc.SetState(escSeq.outerState)
				}
			}
			if (sc.State == StyleCommentBlock || sc.State == StyleCommentBlockDoc) && sc.Match('*', '/') {
				sc.Forward()
				sc.ForwardSetState(StyleDefault)
				break
			}
			if docTag == docTagNone {
				if sc.Ch == '<' && (sc.State == StyleCommentLineDoc || sc.State == StyleCommentBlockDoc) {
					if scan.IsAlpha(sc.ChNext) {
						docTag = docTagXMLOpen
						escSeq.outerState = sc.State
						sc.SetState(StyleCommentTagXML)
					} else if sc.ChNext == '/' && scan.IsAlpha(sc.GetRelative(2)) {
						docTag = docTagXMLClose
						escSeq.outerState = sc.State
						sc.SetState(StyleCommentTagXML)
						sc.Forward()
					}
				} else if scan.HighlightTaskMarker(sc, keywords.TaskMarker, StyleTaskMarker) {
					continue
				}
			}

		case StyleCommentTagXML:
			if !isXMLCommentTagChar(sc.Ch) {
				sc.SetState(escSeq.outerState)
				continue
			}

		case StyleCharacter, StyleString, StyleInterpolatedString,
			StyleVerbatimString, StyleInterpolatedVerbatimString,
			StyleRawStringSL, StyleInterpolatedRawStringSL,
			StyleRawStringML, StyleInterpolatedRawStringML:
			if sc.AtLineStart && isSingleLineString(sc.State) {
				if !closeBrace {
					sc.SetState(StyleDefault)
					break
				}
			}
			if sc.Ch == '\\' {
				if hasEscapeChar(sc.State) {
					if escSeq.reset(sc.State, sc.ChNext) {
						sc.SetState(StyleEscapeChar)
						sc.Forward()
					}
				}
			} else if sc.Ch == '\'' && sc.State == StyleCharacter {
				sc.ForwardSetState(StyleDefault)
			} else if sc.State != StyleCharacter {
				if sc.Ch == '"' {
					if sc.ChNext == '"' && isVerbatimString(sc.State) {
						escSeq.outerState = sc.State
						escSeq.digitsLeft = 1
						sc.SetState(StyleEscapeChar)
						sc.Forward()
					} else {
						sc.Forward()
						handled := isPlainString(sc.State)
						if !handled && sc.Match('"', '"') && (visibleChars == 0 || isSingleLineString(sc.State)) {
							delimiterCount := scan.MatchedDelimiterCount(doc, sc.CurrentPos()+1, '"') + 2
							if delimiterCount == stringDelimiterCount {
								handled = true
								stringDelimiterCount = 0
								stringInterpolatorCount = 0
								sc.Advance(delimiterCount - 1)
							}
						}
						if handled {
							if sc.ChNext == '8' && scan.ToLower(sc.Ch) == 'u' {
								sc.Advance(2) // UTF-8 string literal suffix
							}
							sc.SetState(StyleDefault)
							if len(nestedState) > 0 && nestedState[len(nestedState)-1].state == sc.State {
								nestedState = nestedState[:len(nestedState)-1]
							}
						} else {
							continue
						}
					}
				} else if sc.Ch == '{' {
					if sc.ChNext == '{' && isPlainString(sc.State) {
						escSeq.outerState = sc.State
						escSeq.digitsLeft = 1
						sc.SetState(StyleEscapeChar)
						sc.Forward()
						break
					}
					if isInterpolatedString(sc.State) {
						interpolatorCount := scan.MatchedDelimiterCount(doc, sc.CurrentPos(), '{')
						if isPlainString(sc.State) || interpolatorCount >= stringInterpolatorCount {
							nestedState = append(nestedState, interpolatedStringState{
								state:             sc.State,
								delimiterCount:    stringDelimiterCount,
								interpolatorCount: stringInterpolatorCount,
							})
							sc.Advance(interpolatorCount - stringInterpolatorCount) // outer content
							sc.SetState(StyleOperator2)
							sc.Advance(stringInterpolatorCount - 1) // inner interpolation
							sc.ForwardSetState(StyleDefault)
							stringDelimiterCount = 0
							stringInterpolatorCount = 0
							break
						}
					}
					if scan.IsIdentifierCharEx(sc.ChNext) || sc.ChNext == '@' || sc.ChNext == '$' {
						// standard format: {index,alignment:format}
						// string template libraries: {@identifier} {$identifier}
						escSeq.outerState = sc.State
						sc.SetState(StylePlaceholder)
						if sc.ChNext == '@' || sc.ChNext == '$' {
							sc.Forward()
						}
					}
				} else if sc.Ch == '}' {
					closeBrace = false
					if isInterpolatedString(sc.State) {
						interpolatorCount := 1
						if !isPlainString(sc.State) {
							interpolatorCount = scan.MatchedDelimiterCount(doc, sc.CurrentPos(), '}')
						}
						interpolating := len(nestedState) > 0 && interpolatorCount >= stringInterpolatorCount
						if interpolating {
							nestedState = nestedState[:len(nestedState)-1]
						}
						if interpolating || (sc.ChNext != '}' && isPlainString(sc.State)) {
							state := sc.State
							sc.SetState(StyleOperator2)
							sc.Advance(stringInterpolatorCount - 1) // inner interpolation
							sc.ForwardSetState(state)
							sc.Advance(interpolatorCount - stringInterpolatorCount) // outer content
							continue
						}
					}
					if sc.ChNext == '}' && isPlainString(sc.State) {
						escSeq.outerState = sc.State
						escSeq.digitsLeft = 1
						sc.SetState(StyleEscapeChar)
						sc.Forward()
					}
				}
			}

		case StyleFormatSpecifier:
			if isInvalidFormatSpecifier(sc.Ch) {
				sc.SetState(escSeq.outerState)
				continue
			}

		case StylePlaceholder:
			if !scan.IsIdentifierCharEx(sc.Ch) {
				if sc.Ch != '}' {
					n := checkFormatSpecifier(sc, doc)
					if n == 0 {
						sc.Rewind()
						sc.ChangeState(escSeq.outerState)
					} else {
						sc.SetState(StyleFormatSpecifier)
						sc.Advance(n)
						sc.SetState(StylePlaceholder)
					}
				}
				sc.ForwardSetState(escSeq.outerState)
				continue
			}

		case StyleEscapeChar:
			if escSeq.atEnd(sc.Ch) {
				sc.SetState(escSeq.outerState)
				continue
			}
		}

		if sc.State == StyleDefault {
			if pp == ppMessage && !scan.IsASpace(sc.Ch) {
				sc.SetState(StylePreprocessorMessage)
			} else if sc.Ch == '/' && (sc.ChNext == '/' || sc.ChNext == '*') {
				docTag = docTagNone
				chNext := sc.ChNext
				if chNext == '/' && visibleChars == 0 {
					lineStateLineType = lineStateLineComment
				}
				if chNext == '/' {
					sc.SetState(StyleCommentLine)
				} else {
					sc.SetState(StyleCommentBlock)
				}
				sc.Advance(2)
				if sc.Ch == chNext && sc.ChNext != chNext {
					// third '/' or second '*': documentation comment; the
					// doc style sits directly after the plain one
					sc.ChangeState(sc.State + 1)
				}
				continue
			} else if sc.Ch == '"' || sc.Ch == '$' || sc.Ch == '@' {
				chNext := sc.GetRelative(2)
				// verbatim interpolated string: @$"" or $@""
				if chNext == '"' && (sc.Match('$', '@') || sc.Match('@', '$')) {
					stringDelimiterCount = 0
					stringInterpolatorCount = 1
					sc.SetState(StyleInterpolatedVerbatimString)
					sc.Advance(2)
				} else if sc.Ch == '@' {
					state := StyleDefault
					if sc.ChNext == '"' {
						state = StyleVerbatimString
						stringDelimiterCount = 0
						stringInterpolatorCount = 0
					} else if isCsIdentifierStart(sc.ChNext, chNext) {
						state = StyleIdentifier
						chBefore = chPrevNonWhite
						if chPrevNonWhite != '.' {
							chBeforeIdentifier = chPrevNonWhite
						}
					}
					if state != StyleDefault {
						sc.SetState(state)
						sc.Forward()
					}
				} else {
					interpolatorCount := 0
					pos := sc.CurrentPos()
					chNext = sc.Ch
					if chNext == '$' {
						interpolatorCount = 1
						if sc.ChNext == '"' {
							chNext = '"'
							pos++
						} else if sc.ChNext == '$' {
							interpolatorCount += scan.MatchedDelimiterCount(doc, pos+1, '$')
							pos += interpolatorCount
							chNext = int(doc.ByteAt(pos))
						}
					}
					if chNext == '"' {
						delimiterCount := scan.MatchedDelimiterCount(doc, pos, '"')
						var state int
						if delimiterCount >= 3 {
							next := scan.NextLineChar(doc, pos+delimiterCount, sc.LineStartNext())
							stringDelimiterCount = delimiterCount
							stringInterpolatorCount = interpolatorCount
							if next == 0 {
								state = StyleRawStringML
							} else {
								state = StyleRawStringSL
							}
							if interpolatorCount != 0 {
								delimiterCount += interpolatorCount
								state += StyleInterpolatedRawStringSL - StyleRawStringSL
							}
						} else {
							delimiterCount = 1 + interpolatorCount
							stringDelimiterCount = 0
							stringInterpolatorCount = interpolatorCount
							state = interpolatorCount + StyleString
						}
						sc.SetState(state)
						sc.Advance(delimiterCount - 1)
					}
				}
			} else if sc.Ch == '\'' {
				sc.SetState(StyleCharacter)
			} else if visibleChars == 0 && sc.Ch == '#' {
				pp = ppInit
				sc.SetState(StylePreprocessor)
			} else if scan.IsNumberStart(sc.Ch, sc.ChNext) {
				sc.SetState(StyleNumber)
			} else if isCsIdentifierStart(sc.Ch, sc.ChNext) {
				chBefore = chPrevNonWhite
				if chPrevNonWhite != '.' {
					chBeforeIdentifier = chPrevNonWhite
				}
				sc.SetState(StyleIdentifier)
			} else if scan.IsAGraphic(sc.Ch) && sc.Ch != '\\' {
				interpolating := len(nestedState) > 0
				if interpolating {
					sc.SetState(StyleOperator2)
				} else {
					sc.SetState(StyleOperator)
				}
				if sc.Ch == '(' || sc.Ch == '[' {
					if interpolating {
						nestedState[len(nestedState)-1].parenCount++
					} else {
						parenCount++
					}
				} else if sc.Ch == ')' || sc.Ch == ']' {
					if interpolating {
						nestedState[len(nestedState)-1].parenCount--
					} else if parenCount > 0 {
						parenCount--
					}
				}
				if interpolating {
					top := nestedState[len(nestedState)-1]
					if top.parenCount <= 0 && isInterpolatedStringEnd(sc) {
						escSeq.outerState = top.state
						stringDelimiterCount = top.delimiterCount
						stringInterpolatorCount = top.interpolatorCount
						closeBrace = sc.Ch == '}'
						if closeBrace {
							sc.ChangeState(top.state)
						} else {
							sc.ChangeState(StyleFormatSpecifier)
						}
						continue
					}
				} else {
					if kwType == kwNone && sc.Ch == '[' {
						if visibleChars == 0 || !preferArrayIndex(chPrevNonWhite) {
							kwType = kwAttribute
						}
					} else if kwType == kwAttribute && (sc.Ch == '(' || sc.Ch == ']') {
						kwType = kwNone
					}
				}
			}
		}

		if !scan.IsASpace(sc.Ch) {
			visibleChars++
			if !isSpaceEquiv(sc.State) {
				chPrevNonWhite = sc.Ch
			}
		}
		if sc.AtLineEnd {
			lineState := lineStateLineType |
				stringDelimiterCount<<4 |
				stringInterpolatorCount<<12 |
				parenCount<<20
			if len(nestedState) > 0 {
				// interpolation holes may span line breaks
				lineState |= lineStateInterpolation
			}
			doc.SetLineState(sc.CurrentLine(), lineState)
			lineStateLineType = 0
			visibleChars = 0
			docTag = docTagNone
			pp = ppNone
			kwType = kwNone
		}
		sc.Forward()
	}

	sc.Complete()
}
