package basic

import (
	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/scan"
)

type keywordType int

const (
	kwNone keywordType = iota
	kwEnd
	kwAccessModifier
	kwFunction
	kwPreprocessor
)

// isTypeCharacter reports whether ch is a type-suffix character: Integer,
// Long, LongLong, Decimal/Currency, Single, Double, String.
func isTypeCharacter(ch int) bool {
	switch ch {
	case '%', '&', '^', '@', '!', '#', '$':
		return true
	}
	return false
}

// isNumberPrefix reports whether ch selects a typed number base after '&':
// hexadecimal, octal or binary.
func isNumberPrefix(ch int) bool {
	switch scan.ToLower(ch) {
	case 'h', 'o', 'b':
		return true
	}
	return false
}

// preferStringConcat decides that an '&' continues a string concatenation
// rather than opening a typed number: the previous significant byte closes a
// value, or is a non-keyword identifier character.
func preferStringConcat(chPrevNonWhite, stylePrevNonWhite int) bool {
	return chPrevNonWhite == '"' || chPrevNonWhite == ')' || chPrevNonWhite == ']' ||
		(stylePrevNonWhite != StyleKeyword && scan.IsIdentifierChar(chPrevNonWhite))
}

func isInvalidFormatSpecifier(ch int) bool {
	return (ch >= 0 && ch < ' ') || ch == '"' || ch == '{' || ch == '}'
}

func isInterpolatedStringEnd(sc *scan.StyleContext) bool {
	return sc.Ch == '}' || sc.Ch == ':' ||
		(sc.Ch == ',' && (scan.IsADigit(sc.ChNext) || (sc.ChNext == '-' && scan.IsADigit(sc.GetRelative(2)))))
}

// Lex styles the byte range [startPos, startPos+length) for the given
// dialect and records per-line state, resuming from initStyle and the
// preceding line's packed state.
func Lex(doc document.Accessor, startPos, length, initStyle int, dialect Dialect, keywords *Keywords) {
	kwType := kwNone
	preprocessor := false
	lineType := 0
	lineCont := false    // current line ends with a continuation
	contCarried := false // previous line ended with a continuation
	parenCount := 0
	fileNbDigits := 0
	visibleChars := 0
	chBefore := 0
	chPrevNonWhite := 0
	stylePrevNonWhite := StyleDefault
	var nestedState []int

	if startPos != 0 {
		// back up to the line that starts the expression inside an
		// interpolated string literal
		startPos, length, initStyle = scan.BacktrackToStart(doc, lineStateStringInterpolation, startPos, length, initStyle)
	}

	sc := scan.NewStyleContext(doc, startPos, length, initStyle)
	if sc.CurrentLine() > 0 {
		prev := doc.LineState(sc.CurrentLine() - 1)
		parenCount = prev >> 16
		contCarried = prev&lineStateLineContinuation != 0
	}
	if startPos != 0 && isSpaceEquiv(initStyle) {
		chPrevNonWhite, stylePrevNonWhite = scan.LookbackNonWhite(doc, startPos, StyleLineContinuation)
	}

	for sc.More() {
		switch sc.State {
		case StyleOperator, StyleOperator2, StyleLineContinuation:
			sc.SetState(StyleDefault)

		case StyleIdentifier:
			if !scan.IsIdentifierCharEx(sc.Ch) {
				// outside the scripting dialect an identifier may end with a
				// type character; a ']' closes a bracketed [keyword]
				// identifier
				skipType := false
				if sc.Ch == ']' || (dialect != DialectScripting && isTypeCharacter(sc.Ch)) {
					skipType = sc.Ch != ']'
					visibleChars++
					sc.Forward()
				}
				s := sc.CurrentLowered()
				lenCur := sc.LengthCurrent()
				if skipType && len(s) > 0 {
					s = s[:len(s)-1]
				}
				if s == "rem" {
					// type character after rem is still a comment
					sc.ChangeState(StyleCommentLine)
					break
				}

				kwPrev := kwType
				kwType = kwNone
				if len(s) > 0 && s[0] == '#' {
					if keywords.Preprocessor.Contains(s[1:]) {
						preprocessor = true
						sc.ChangeState(StylePreprocessor)
						if s[1:] == "end" {
							kwType = kwPreprocessor
						}
					} else {
						sc.ChangeState(StyleDate)
						continue
					}
				} else if kwPrev == kwPreprocessor {
					sc.ChangeState(StylePreprocessorWord)
				} else {
					chNext := sc.GetLineNextChar(false)
					if len(s) > 0 && s[0] != '[' {
						if keywords.Keyword.ContainsPrefixed(s, '(') {
							sc.ChangeState(StyleKeywordAlt)
							if !skipType && chBefore != '.' {
								sc.ChangeState(StyleKeyword)
								switch s {
								case "if":
									if dialect == DialectModern && chNext == '(' && (parenCount != 0 || visibleChars > 2) {
										sc.ChangeState(StyleKeywordAlt) // If operator
									}
								case "then":
									if preprocessor {
										sc.ChangeState(StylePreprocessorWord)
									}
								case "dim":
									if !contCarried {
										lineType = lineTypeDim
									}
								case "const":
									if !contCarried {
										lineType = lineTypeConst
									}
								case "type":
									if (visibleChars == lenCur || kwPrev == kwAccessModifier) && !contCarried {
										lineType = lineTypeVB6Type
									}
								case "end":
									kwType = kwEnd
								case "sub", "function":
									if kwPrev != kwEnd {
										kwType = kwFunction
									}
								case "public", "private":
									kwType = kwAccessModifier
								}
							}
						} else if keywords.ClassicKeyword.Contains(s) {
							sc.ChangeState(StyleKeywordAlt)
							if dialect == DialectClassic && !skipType && chBefore != '.' {
								sc.ChangeState(StyleKeyword)
							}
						} else if keywords.TypeKeyword.Contains(s) {
							sc.ChangeState(StyleTypeKeyword)
						} else if keywords.Class.Contains(s) {
							sc.ChangeState(StyleClass)
						} else if keywords.Interface.Contains(s) {
							sc.ChangeState(StyleInterface)
						} else if keywords.Enum.Contains(s) {
							sc.ChangeState(StyleEnum)
						} else if keywords.Attribute.ContainsPrefixed(s, '(') {
							sc.ChangeState(StyleAttribute)
						} else if keywords.Constant.Contains(s) {
							sc.ChangeState(StyleConstant)
						} else if keywords.BasicFunction.ContainsPrefixed(s, '(') {
							sc.ChangeState(StyleBasicFunction)
						}
					}
					if sc.State == StyleIdentifier {
						// a continuation line never starts a label
						if visibleChars == lenCur && chNext == ':' && !contCarried {
							sc.ChangeState(StyleLabel)
						} else if kwPrev == kwFunction {
							sc.ChangeState(StyleFunctionDefinition)
						}
					}
				}
				stylePrevNonWhite = sc.State
				sc.SetState(StyleDefault)
			}

		case StyleNumber:
			if !scan.IsDecimalNumber(sc.ChPrev, sc.Ch, sc.ChNext) {
				if dialect != DialectScripting && isTypeCharacter(sc.Ch) {
					sc.Forward()
				}
				sc.SetState(StyleDefault)
			}

		case StyleString, StyleInterpolatedString:
			if sc.AtLineStart && dialect != DialectModern {
				// only the modern dialect allows multiline strings
				sc.SetState(StyleDefault)
			} else if sc.Ch == '"' {
				if sc.ChNext == '"' {
					sc.Forward()
				} else {
					if sc.ChNext == 'c' || sc.ChNext == 'C' || sc.ChNext == '$' {
						sc.Forward()
					}
					chPrevNonWhite = sc.Ch
					sc.ForwardSetState(StyleDefault)
				}
			} else if sc.State == StyleInterpolatedString {
				if sc.Ch == '{' {
					if sc.ChNext == '{' {
						sc.Forward()
					} else {
						parenCount++
						nestedState = append(nestedState, 0)
						sc.SetState(StyleOperator2)
						sc.ForwardSetState(StyleDefault)
					}
				} else if sc.Ch == '}' {
					if len(nestedState) > 0 {
						parenCount--
						nestedState = nestedState[:len(nestedState)-1]
						sc.SetState(StyleOperator2)
						sc.ForwardSetState(StyleInterpolatedString)
						continue
					}
					if sc.ChNext == '}' {
						sc.Forward()
					}
				}
			}

		case StyleCommentLine:
			if sc.AtLineStart {
				if contCarried {
					lineType = lineTypeComment
				} else {
					sc.SetState(StyleDefault)
				}
			} else if dialect == DialectClassic && sc.Ch == '_' && sc.ChPrev <= ' ' {
				if sc.GetLineNextChar(true) == 0 {
					// continuation inside a comment carries the comment to
					// the next line
					lineCont = true
					sc.SetState(StyleLineContinuation)
					sc.ForwardSetState(StyleCommentLine)
				}
			}

		case StyleFileNumber:
			if scan.IsADigit(sc.Ch) {
				fileNbDigits++
				if fileNbDigits > 3 {
					sc.ChangeState(StyleDate)
				}
			} else if sc.Ch == '\r' || sc.Ch == '\n' || sc.Ch == ',' {
				// regular uses: Close #1; Put #1, ...; Get #1, ...
				sc.ChangeState(StyleNumber)
				sc.SetState(StyleDefault)
			} else {
				sc.ChangeState(StyleDate)
				continue
			}

		case StyleDate:
			if sc.AtLineStart {
				sc.SetState(StyleDefault)
			} else if sc.Ch == '#' {
				chPrevNonWhite = sc.Ch
				sc.ForwardSetState(StyleDefault)
			}

		case StyleFormatSpecifier:
			if isInvalidFormatSpecifier(sc.Ch) {
				sc.SetState(StyleInterpolatedString)
				continue
			}
		}

		if sc.State == StyleDefault {
			if sc.Ch == '\'' {
				sc.SetState(StyleCommentLine)
				if visibleChars == 0 {
					lineType = lineTypeComment
				}
			} else if sc.Ch == '"' {
				sc.SetState(StyleString)
			} else if dialect == DialectModern && sc.Match('$', '"') {
				sc.SetState(StyleInterpolatedString)
				sc.Forward()
			} else if sc.Ch == '#' {
				if visibleChars == 0 && dialect != DialectScripting && scan.IsAlpha(sc.ChNext) {
					sc.SetState(StyleIdentifier)
				} else {
					fileNbDigits = 0
					sc.SetState(StyleFileNumber)
				}
			} else if sc.Ch == '&' && isNumberPrefix(sc.ChNext) && !preferStringConcat(chPrevNonWhite, stylePrevNonWhite) {
				sc.SetState(StyleNumber)
				sc.Forward()
			} else if scan.IsNumberStart(sc.Ch, sc.ChNext) {
				sc.SetState(StyleNumber)
			} else if sc.Ch == '_' && sc.ChNext <= ' ' {
				sc.SetState(StyleLineContinuation)
				if sc.GetLineNextChar(true) == 0 {
					lineCont = true
				}
			} else if scan.IsIdentifierStartEx(sc.Ch) || sc.Ch == '[' {
				// '[' opens a bracketed [keyword] identifier
				chBefore = chPrevNonWhite
				sc.SetState(StyleIdentifier)
			} else if scan.IsAGraphic(sc.Ch) {
				sc.SetState(StyleOperator)
				if len(nestedState) == 0 {
					if sc.Ch == '(' {
						parenCount++
					} else if sc.Ch == ')' && parenCount > 0 {
						parenCount--
					}
				} else {
					sc.ChangeState(StyleOperator2)
					if sc.Ch == '(' {
						nestedState[len(nestedState)-1]++
					} else if sc.Ch == ')' {
						nestedState[len(nestedState)-1]--
					}
					if nestedState[len(nestedState)-1] <= 0 && isInterpolatedStringEnd(sc) {
						if sc.Ch == '}' {
							sc.ChangeState(StyleInterpolatedString)
						} else {
							sc.ChangeState(StyleFormatSpecifier)
						}
						continue
					}
				}
			}
		}

		if !scan.IsASpace(sc.Ch) {
			visibleChars++
			if !isSpaceEquiv(sc.State) {
				chPrevNonWhite = sc.Ch
				stylePrevNonWhite = sc.State
			}
		}
		if sc.AtLineEnd {
			lineState := lineType
			if lineCont {
				lineState |= lineStateLineContinuation
			}
			if len(nestedState) > 0 {
				lineState |= lineStateStringInterpolation
			}
			doc.SetLineState(sc.CurrentLine(), lineState|parenCount<<16)
			contCarried = lineCont
			lineCont = false
			lineType = 0
			visibleChars = 0
			kwType = kwNone
			preprocessor = false
		}
		sc.Forward()
	}

	sc.Complete()
}
