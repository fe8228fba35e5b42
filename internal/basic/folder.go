package basic

import (
	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/scan"
)

// matchNextWord reports whether the next word after optional blanks starting
// at startPos is word followed by whitespace.
func matchNextWord(doc document.Accessor, startPos, endPos int, word string) bool {
	pos := scan.SkipSpaceTab(doc, startPos, endPos)
	return scan.IsASpace(int(doc.ByteAt(pos+len(word)))) && scan.MatchLowerCase(doc, pos, word)
}

// propertyLineKind classifies a Property statement: 1 when the line carries a
// parameter list (a property block), 2 when a Get/Set/Let keyword makes it a
// block header, 0 for auto-properties.
func propertyLineKind(doc document.Accessor, line, startPos int) int {
	endPos := doc.LineStart(line+1) - 1
	visibleChars := false
	for i := startPos; i < endPos; i++ {
		ch := scan.ToLower(int(doc.ByteAt(i)))
		style := doc.StyleAt(i)
		if style == StyleOperator && ch == '(' {
			return 1
		}
		if style == StyleKeyword && !visibleChars &&
			(ch == 'g' || ch == 'l' || ch == 's') &&
			scan.ToLower(int(doc.ByteAt(i+1))) == 'e' &&
			scan.ToLower(int(doc.ByteAt(i+2))) == 't' &&
			scan.IsASpace(int(doc.ByteAt(i+3))) {
			return 2
		}
		if ch > ' ' {
			visibleChars = true
		}
	}
	return 0
}

func lineType(lineState int) int { return lineState & 3 }

// Fold assigns packed fold levels over [startPos, startPos+length), driven by
// the keyword spans Lex produced. Block keywords open and their matching
// enders close; runs of comment, dim, const and type lines fold as soft
// groups.
func Fold(doc document.Accessor, startPos, length, initStyle int) {
	endPos := startPos + length
	if endPos > doc.Length() {
		endPos = doc.Length()
	}
	lineCurrent := doc.LineOfPos(startPos)
	foldPrev := 0
	levelCurrent := document.FoldLevelBase
	if lineCurrent > 0 {
		levelCurrent = doc.Level(lineCurrent-1) >> 16
		foldPrev = doc.LineState(lineCurrent - 1)
	}

	levelNext := levelCurrent
	foldCurrent := doc.LineState(lineCurrent)
	lineStartNext := doc.LineStart(lineCurrent + 1)

	style := initStyle
	styleNext := doc.StyleAt(startPos)

	visibleChars := 0
	numBegin := 0         // nested Begin ... End in VB6 forms
	isEnd := false        // End {Function Sub If Class Module Structure ...}
	isInterface := false  // inside an Interface block
	isProperty := false   // Property: Get Set
	isCustom := false     // Custom Event
	isExit := false       // Exit {Function Sub Property}
	isDeclare := false    // Declare, Delegate {Function Sub}
	ifThenMask := 0       // If ... Then ... End If on one line

	for startPos < endPos {
		i := startPos
		stylePrev := style
		style = styleNext
		ch := int(doc.ByteAt(startPos))
		startPos++
		styleNext = doc.StyleAt(startPos)

		if style == StyleKeyword && stylePrev != StyleKeyword {
			// not a member access, not a bracketed [keyword] identifier
			match := func(word string) bool { return scan.MatchLowerCase(doc, i, word) }
			matchNext := func(pos int, word string) bool { return matchNextWord(doc, pos, endPos, word) }
			if visibleChars == 0 && (match("for") ||
				(match("do") && scan.IsASpace(int(doc.ByteAt(i+2)))) || // not Double
				match("while") ||
				(match("try") && scan.IsASpace(int(doc.ByteAt(i+3)))) || // not TryCast
				(match("select") && matchNext(i+6, "case")) || // Select Case
				(match("with") && scan.IsASpace(int(doc.ByteAt(i+4)))) || // not WithEvents, not With {...}
				match("namespace") || match("synclock") || match("using") ||
				(isProperty && (match("set") || (match("get") && scan.IsASpace(int(doc.ByteAt(i+3)))))) || // not GetType
				(isCustom && (match("raiseevent") || match("addhandler") || match("removehandler")))) {
				levelNext++
			} else if visibleChars == 0 && (match("next") || match("loop") || match("wend")) {
				levelNext--
			} else if match("exit") && (matchNext(i+4, "function") || matchNext(i+4, "sub") || matchNext(i+4, "property")) {
				isExit = true
			} else if match("begin") {
				levelNext++
				if scan.IsASpace(int(doc.ByteAt(i + 5))) {
					numBegin++
				}
			} else if match("end") {
				levelNext--
				chEnd := int(doc.ByteAt(i + 3))
				if chEnd == ' ' || chEnd == '\t' {
					pos := scan.SkipSpaceTab(doc, i+3, endPos)
					chEnd = int(doc.ByteAt(pos))
					// check whether End terminates a block statement
					if scan.IsAlpha(chEnd) && (matchNext(pos, "function") || matchNext(pos, "sub") ||
						matchNext(pos, "if") || matchNext(pos, "class") || matchNext(pos, "structure") ||
						matchNext(pos, "module") || matchNext(pos, "enum") || matchNext(pos, "interface") ||
						matchNext(pos, "operator") || matchNext(pos, "property") || matchNext(pos, "event") ||
						matchNext(pos, "type")) {
						isEnd = true
					}
				}
				if chEnd == '\r' || chEnd == '\n' || chEnd == '\'' {
					// a bare End terminates the program, not a block
					isEnd = false
					if numBegin == 0 {
						levelNext++
					}
					if numBegin > 0 {
						numBegin--
					}
				}
				if ifThenMask == 3 {
					// one line: If ... Then ... End If
					levelNext++
				}
				ifThenMask = 0
			} else if match("if") {
				if isEnd {
					isEnd = false
				} else {
					ifThenMask = 1
					levelNext++
				}
			} else if match("then") {
				if ifThenMask&1 != 0 {
					ifThenMask |= 2
					pos := scan.SkipSpaceTab(doc, i+4, endPos)
					chEnd := int(doc.ByteAt(pos))
					if !(chEnd == '\r' || chEnd == '\n' || chEnd == '\'') {
						levelNext--
					}
				}
			} else if (!isInterface && (match("class") || match("structure"))) ||
				match("module") || match("enum") || match("operator") {
				if isEnd {
					isEnd = false
				} else {
					levelNext++
				}
			} else if match("interface") {
				if !(isEnd || isInterface) {
					levelNext++
				}
				isInterface = true
				if isEnd {
					isEnd = false
					isInterface = false
				}
			} else if match("declare") || match("delegate") {
				isDeclare = true
			} else if !isInterface && (match("sub") || match("function")) {
				if !(isEnd || isExit || isDeclare) {
					levelNext++
				}
				if isEnd {
					isEnd = false
				}
				if isExit {
					isExit = false
				}
				if isDeclare {
					isDeclare = false
				}
			} else if !isInterface && match("property") {
				isProperty = true
				if !(isEnd || isExit) {
					result := propertyLineKind(doc, lineCurrent, i+8)
					if result != 0 {
						levelNext++
					}
					isProperty = result&1 != 0
				}
				if isEnd {
					isEnd = false
					isProperty = false
				}
				if isExit {
					isExit = false
				}
			} else if match("custom") {
				isCustom = true
			} else if !isInterface && isCustom && match("event") {
				if isEnd {
					isEnd = false
					isCustom = false
				} else {
					levelNext++
				}
			} else if match("type") && scan.IsASpace(int(doc.ByteAt(i+4))) {
				// not TypeOf; VB6: [...] Type ... End Type
				if !isEnd && foldCurrent&lineTypeVB6Type != 0 {
					levelNext++
				}
				if isEnd {
					isEnd = false
				}
			}
		} else if style == StylePreprocessor && stylePrev != StylePreprocessor {
			if scan.MatchLowerCase(doc, i, "#if") || scan.MatchLowerCase(doc, i, "#region") ||
				scan.MatchLowerCase(doc, i, "#externalsource") {
				levelNext++
			} else if scan.MatchLowerCase(doc, i, "#end") {
				levelNext--
			}
		} else if style == StyleOperator {
			// anonymous With { ... }
			if ch == '{' {
				levelNext++
			} else if ch == '}' {
				levelNext--
			}
		}

		if visibleChars == 0 && !scan.IsASpace(ch) {
			visibleChars++
		}
		if startPos == lineStartNext {
			foldNext := doc.LineState(lineCurrent + 1)
			if levelNext < document.FoldLevelBase {
				levelNext = document.FoldLevelBase
			}
			if lineType(foldCurrent) != 0 {
				if lineType(foldCurrent) != lineType(foldPrev) {
					levelNext++
				}
				if lineType(foldCurrent) != lineType(foldNext) {
					levelNext--
				}
			}

			lev := levelCurrent | levelNext<<16
			if levelCurrent < levelNext {
				lev |= document.FoldLevelHeaderFlag
			}
			doc.SetLevel(lineCurrent, lev)

			lineCurrent++
			lineStartNext = doc.LineStart(lineCurrent + 1)
			levelCurrent = levelNext
			foldPrev = foldCurrent
			foldCurrent = foldNext
			visibleChars = 0
			ifThenMask = 0
		}
	}
}
