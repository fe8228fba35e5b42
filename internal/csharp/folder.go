package csharp

import (
	"strings"

	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/scan"
)

type foldLineState struct {
	lineComment int
	usingName   int
}

func newFoldLineState(lineState int) foldLineState {
	return foldLineState{
		lineComment: lineState & lineStateLineComment,
		usingName:   (lineState >> 1) & 1,
	}
}

// Fold assigns packed fold levels over [startPos, startPos+length), reading
// the styles written by Lex. Brace, bracket and paren operators nest; block
// comments and multi-line strings fold as a unit; #if/#region directives
// open and #end... closes; runs of line-comment or using-import lines fold
// as soft groups.
func Fold(doc document.Accessor, startPos, length, initStyle int) {
	endPos := startPos + length
	if endPos > doc.Length() {
		endPos = doc.Length()
	}
	lineCurrent := doc.LineOfPos(startPos)
	foldPrev := foldLineState{}
	levelCurrent := document.FoldLevelBase
	if lineCurrent > 0 {
		levelCurrent = doc.Level(lineCurrent-1) >> 16
		foldPrev = newFoldLineState(doc.LineState(lineCurrent - 1))
		bracePos := scan.CheckBraceOnNextLine(doc, lineCurrent-1, StyleOperator, StyleTaskMarker, StylePreprocessor)
		if bracePos > 0 {
			startPos = bracePos + 1 // the brace folded with the previous line
		}
	}

	levelNext := levelCurrent
	foldCurrent := newFoldLineState(doc.LineState(lineCurrent))
	lineStartNext := doc.LineStart(lineCurrent + 1)
	if lineStartNext > endPos {
		lineStartNext = endPos
	}

	var buf [12]byte // "#endregion" plus slack
	wordLen := 0
	styleNext := doc.StyleAt(startPos)
	style := initStyle
	visibleChars := 0

	for startPos < endPos {
		stylePrev := style
		style = styleNext
		styleNext = doc.StyleAt(startPos + 1)

		switch style {
		case StyleCommentBlock, StyleCommentBlockDoc,
			StyleVerbatimString, StyleInterpolatedVerbatimString,
			StyleRawStringML, StyleInterpolatedRawStringML:
			if style != stylePrev {
				levelNext++
			}
			if style != styleNext {
				levelNext--
			}

		case StyleOperator, StyleOperator2:
			switch doc.ByteAt(startPos) {
			case '{', '[', '(':
				levelNext++
			case '}', ']', ')':
				levelNext--
			}

		case StylePreprocessor:
			if wordLen < len(buf) {
				buf[wordLen] = doc.ByteAt(startPos)
				wordLen++
			}
			if styleNext != style {
				word := strings.TrimPrefix(string(buf[:wordLen]), "#")
				wordLen = 0
				if word == "if" || word == "region" {
					levelNext++
				} else if strings.HasPrefix(word, "end") {
					levelNext--
				}
			}
		}

		if visibleChars == 0 && !isSpaceEquiv(style) {
			visibleChars++
		}
		startPos++
		if startPos == lineStartNext {
			foldNext := newFoldLineState(doc.LineState(lineCurrent + 1))
			if levelNext < document.FoldLevelBase {
				levelNext = document.FoldLevelBase
			}
			if foldCurrent.lineComment != 0 {
				levelNext += foldNext.lineComment - foldPrev.lineComment
			} else if foldCurrent.usingName != 0 {
				levelNext += foldNext.usingName - foldPrev.usingName
			} else if visibleChars != 0 {
				bracePos := scan.CheckBraceOnNextLine(doc, lineCurrent, StyleOperator, StyleTaskMarker, StylePreprocessor)
				if bracePos > 0 {
					levelNext++
					startPos = bracePos + 1 // skip the brace
					style = StyleOperator
					styleNext = doc.StyleAt(startPos)
				}
			}

			lev := levelCurrent | levelNext<<16
			if levelCurrent < levelNext {
				lev |= document.FoldLevelHeaderFlag
			}
			doc.SetLevel(lineCurrent, lev)

			lineCurrent++
			lineStartNext = doc.LineStart(lineCurrent + 1)
			if lineStartNext > endPos {
				lineStartNext = endPos
			}
			levelCurrent = levelNext
			foldPrev = foldCurrent
			foldCurrent = foldNext
			visibleChars = 0
		}
	}
}
