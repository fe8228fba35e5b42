package scan

import "github.com/kwatters/hilex/internal/document"

const maxCurrentLength = 128

// StyleContext is a forward cursor over a document range. It tracks the
// current, previous and next byte, the running style, and the start of the
// segment that will receive that style when the state changes.
//
// Styles are written lazily: SetState closes the open segment by writing the
// running style over it, then opens a new segment at the current position.
type StyleContext struct {
	doc    document.Accessor
	endPos int

	currentPos    int
	currentLine   int
	lineStartNext int
	startSeg      int

	// State is the running style for the open segment.
	State int
	// Ch is the byte under the cursor, ChPrev and ChNext its neighbors.
	Ch, ChPrev, ChNext int
	// AtLineStart and AtLineEnd frame the current byte within its line.
	AtLineStart, AtLineEnd bool
}

// NewStyleContext positions a cursor at startPos with the given initial
// style, covering length bytes.
func NewStyleContext(doc document.Accessor, startPos, length, initStyle int) *StyleContext {
	endPos := startPos + length
	if endPos > doc.Length() {
		endPos = doc.Length()
	}
	sc := &StyleContext{
		doc:        doc,
		endPos:     endPos,
		currentPos: startPos,
		startSeg:   startPos,
		State:      initStyle,
	}
	sc.currentLine = doc.LineOfPos(startPos)
	sc.lineStartNext = doc.LineStart(sc.currentLine + 1)
	sc.AtLineStart = startPos == doc.LineStart(sc.currentLine)
	sc.Ch = int(doc.ByteAt(startPos))
	sc.ChPrev = int(doc.ByteAt(startPos - 1))
	sc.ChNext = int(doc.ByteAt(startPos + 1))
	sc.updateLineEnd()
	return sc
}

func (sc *StyleContext) updateLineEnd() {
	sc.AtLineEnd = sc.currentPos >= sc.lineStartNext-1 || sc.currentPos >= sc.endPos-1
}

// More reports whether bytes remain in the range.
func (sc *StyleContext) More() bool { return sc.currentPos < sc.endPos }

// CurrentPos returns the cursor position.
func (sc *StyleContext) CurrentPos() int { return sc.currentPos }

// CurrentLine returns the line index of the cursor.
func (sc *StyleContext) CurrentLine() int { return sc.currentLine }

// LineStartNext returns the start offset of the line after the cursor's.
func (sc *StyleContext) LineStartNext() int { return sc.lineStartNext }

// Forward advances the cursor one byte.
func (sc *StyleContext) Forward() {
	sc.currentPos++
	if sc.currentPos >= sc.lineStartNext {
		sc.currentLine++
		sc.lineStartNext = sc.doc.LineStart(sc.currentLine + 1)
		sc.AtLineStart = true
	} else {
		sc.AtLineStart = false
	}
	sc.ChPrev = sc.Ch
	sc.Ch = sc.ChNext
	sc.ChNext = int(sc.doc.ByteAt(sc.currentPos + 1))
	sc.updateLineEnd()
}

// Advance moves the cursor n bytes forward without changing the state.
func (sc *StyleContext) Advance(n int) {
	for i := 0; i < n; i++ {
		sc.Forward()
	}
}

// Rewind steps the cursor back one byte so the byte just visited is
// dispatched again.
func (sc *StyleContext) Rewind() {
	sc.currentPos--
	sc.currentLine = sc.doc.LineOfPos(sc.currentPos)
	sc.lineStartNext = sc.doc.LineStart(sc.currentLine + 1)
	sc.AtLineStart = sc.currentPos == sc.doc.LineStart(sc.currentLine)
	sc.Ch = int(sc.doc.ByteAt(sc.currentPos))
	sc.ChPrev = int(sc.doc.ByteAt(sc.currentPos - 1))
	sc.ChNext = int(sc.doc.ByteAt(sc.currentPos + 1))
	sc.updateLineEnd()
}

// SetState writes the running style over the open segment and starts a new
// segment at the current position with the new state.
func (sc *StyleContext) SetState(state int) {
	if sc.currentPos > sc.startSeg {
		sc.doc.SetStyleRange(sc.startSeg, sc.currentPos-sc.startSeg, sc.State)
	}
	sc.State = state
	sc.startSeg = sc.currentPos
}

// ForwardSetState advances one byte, then changes state, so the current byte
// is included in the closed segment.
func (sc *StyleContext) ForwardSetState(state int) {
	sc.Forward()
	sc.SetState(state)
}

// ChangeState retags the open segment without closing it.
func (sc *StyleContext) ChangeState(state int) {
	sc.State = state
}

// Match reports whether the current and next byte equal a and b.
func (sc *StyleContext) Match(a, b byte) bool {
	return sc.Ch == int(a) && sc.ChNext == int(b)
}

// GetRelative returns the byte n positions away from the cursor.
func (sc *StyleContext) GetRelative(n int) int {
	return int(sc.doc.ByteAt(sc.currentPos + n))
}

// LengthCurrent returns the open segment's length.
func (sc *StyleContext) LengthCurrent() int { return sc.currentPos - sc.startSeg }

// Current returns the open segment's text, capped at 128 bytes.
func (sc *StyleContext) Current() string {
	n := sc.LengthCurrent()
	if n > maxCurrentLength {
		n = maxCurrentLength
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = sc.doc.ByteAt(sc.startSeg + i)
	}
	return string(buf)
}

// CurrentLowered returns the open segment's text lowered byte-wise.
func (sc *StyleContext) CurrentLowered() string {
	n := sc.LengthCurrent()
	if n > maxCurrentLength {
		n = maxCurrentLength
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = byte(ToLower(int(sc.doc.ByteAt(sc.startSeg + i))))
	}
	return string(buf)
}

// GetDocNextChar returns the next visible byte at or after the cursor,
// skipping whitespace; with skipCurrent the scan starts one byte later.
// Returns 0 at end of document.
func (sc *StyleContext) GetDocNextChar(skipCurrent bool) int {
	pos := sc.currentPos
	if skipCurrent {
		pos++
	}
	for pos < sc.doc.Length() {
		ch := int(sc.doc.ByteAt(pos))
		if !IsASpace(ch) {
			return ch
		}
		pos++
	}
	return 0
}

// GetLineNextChar returns the next visible byte on the current line at or
// after the cursor, or 0 when only whitespace remains.
func (sc *StyleContext) GetLineNextChar(skipCurrent bool) int {
	pos := sc.currentPos
	if skipCurrent {
		pos++
	}
	for pos < sc.lineStartNext {
		ch := int(sc.doc.ByteAt(pos))
		if IsEOLChar(ch) {
			return 0
		}
		if !IsSpaceOrTab(ch) {
			return ch
		}
		pos++
	}
	return 0
}

// Complete flushes the open segment through the end of the range.
func (sc *StyleContext) Complete() {
	if sc.endPos > sc.startSeg {
		sc.doc.SetStyleRange(sc.startSeg, sc.endPos-sc.startSeg, sc.State)
	}
}
