package scan

import "github.com/kwatters/hilex/internal/document"

// BacktrackToStart moves a lex start position back to the first line of a
// construct that spans line boundaries. While the line before the start line
// carries stateMask in its per-line state, the start retreats one line; the
// returned range covers the widened span and the initial style resets to the
// default so the construct is rebuilt from its first byte.
func BacktrackToStart(doc document.Accessor, stateMask, startPos, length, initStyle int) (int, int, int) {
	line := doc.LineOfPos(startPos)
	if line > 0 && doc.LineState(line-1)&stateMask != 0 {
		for line > 0 && doc.LineState(line-1)&stateMask != 0 {
			line--
		}
		newStart := doc.LineStart(line)
		length += startPos - newStart
		startPos = newStart
		initStyle = 0
	}
	return startPos, length, initStyle
}

// LookbackNonWhite scans backwards from startPos for the most recent byte
// whose style is above maxSpaceStyle, returning that byte and its style.
func LookbackNonWhite(doc document.Accessor, startPos, maxSpaceStyle int) (chPrevNonWhite, stylePrevNonWhite int) {
	for pos := startPos - 1; pos >= 0; pos-- {
		style := doc.StyleAt(pos)
		if style > maxSpaceStyle {
			return int(doc.ByteAt(pos)), style
		}
	}
	return 0, 0
}

// MatchedDelimiterCount counts the run of ch starting at pos, pos included.
func MatchedDelimiterCount(doc document.Accessor, pos int, ch byte) int {
	count := 0
	for pos+count < doc.Length() && doc.ByteAt(pos+count) == ch {
		count++
	}
	return count
}

// NextLineChar returns the first byte in [pos, lineEnd) that is not a space
// or tab, or 0 when the rest of the line is blank.
func NextLineChar(doc document.Accessor, pos, lineEnd int) int {
	for ; pos < lineEnd; pos++ {
		ch := int(doc.ByteAt(pos))
		if IsEOLChar(ch) {
			return 0
		}
		if !IsSpaceOrTab(ch) {
			return ch
		}
	}
	return 0
}

// SkipSpaceTab returns the first position at or after pos whose byte is not a
// space or tab, bounded by endPos.
func SkipSpaceTab(doc document.Accessor, pos, endPos int) int {
	for pos < endPos && IsSpaceOrTab(int(doc.ByteAt(pos))) {
		pos++
	}
	return pos
}

// MatchLowerCase reports whether the document bytes at pos spell word when
// lowered byte-wise. word must already be lowercase.
func MatchLowerCase(doc document.Accessor, pos int, word string) bool {
	for i := 0; i < len(word); i++ {
		if byte(ToLower(int(doc.ByteAt(pos+i)))) != word[i] {
			return false
		}
	}
	return true
}

// CheckBraceOnNextLine implements the "brace on next line" fold heuristic:
// when line ends without an opener and the following line's first visible
// byte is an opening brace styled as an operator, the brace folds with line.
// Returns the brace position, or 0 when the heuristic does not apply.
// Lines whose last significant byte carries ignoreStyle (preprocessor
// directives) never attach a brace.
func CheckBraceOnNextLine(doc document.Accessor, line, operatorStyle, maxSpaceStyle, ignoreStyle int) int {
	// first visible byte of the next line must be '{'
	pos := doc.LineStart(line + 1)
	end := doc.LineStart(line + 2)
	for pos < end && IsSpaceOrTab(int(doc.ByteAt(pos))) {
		pos++
	}
	if pos >= end || doc.ByteAt(pos) != '{' || doc.StyleAt(pos) != operatorStyle {
		return 0
	}
	bracePos := pos

	// last significant byte of the current line must not already open or
	// continue a bracketed construct
	lineStart := doc.LineStart(line)
	p := doc.LineStart(line+1) - 1
	for p >= lineStart {
		ch := int(doc.ByteAt(p))
		if IsEOLChar(ch) || IsSpaceOrTab(ch) || doc.StyleAt(p) <= maxSpaceStyle {
			p--
			continue
		}
		break
	}
	if p < lineStart {
		return 0 // blank or comment-only line
	}
	if doc.StyleAt(p) == ignoreStyle {
		return 0
	}
	switch doc.ByteAt(p) {
	case '{', '[', '(', ',', ';':
		return 0
	}
	return bracePos
}

// HighlightTaskMarker styles a task-marker word (TODO, FIXME, ...) inside a
// comment. Called with the cursor on a word-start byte; when the word is in
// markers the whole word is styled markerStyle and the cursor lands on the
// byte after it. Reports whether a marker was consumed.
func HighlightTaskMarker(sc *StyleContext, markers document.WordList, markerStyle int) bool {
	if markers.Len() == 0 {
		return false
	}
	if !IsAlpha(sc.Ch) || IsIdentifierChar(sc.ChPrev) {
		return false
	}
	var word [16]byte
	n := 0
	for ; n < len(word); n++ {
		ch := sc.GetRelative(n)
		if !IsIdentifierChar(ch) {
			break
		}
		word[n] = byte(ToLower(ch))
	}
	if n == 0 || n == len(word) || IsIdentifierChar(sc.GetRelative(n)) {
		return false
	}
	if !markers.Contains(string(word[:n])) {
		return false
	}
	outer := sc.State
	sc.SetState(markerStyle)
	sc.Advance(n)
	sc.SetState(outer)
	return true
}
