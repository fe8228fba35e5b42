// Package document provides the host-side collaborators of the lexing engine:
// byte and style storage, per-line integer state, packed fold levels, and
// keyword lists. The lexers and folders only ever talk to the Accessor
// interface, so an editor can supply its own buffer implementation.
package document

import "sort"

// Fold level packing. The low 16 bits of a level value carry the current
// line's level, the high 16 bits carry the next line's level, and the header
// flag marks lines that open a region.
const (
	FoldLevelBase       = 0x400
	FoldLevelHeaderFlag = 0x2000
	FoldLevelNumberMask = 0x0FFF
)

// Accessor is the engine's view of a styled document. Bytes past the end of
// the document read as 0.
type Accessor interface {
	// Length returns the document size in bytes.
	Length() int
	// ByteAt returns the byte at pos, or 0 when pos is out of range.
	ByteAt(pos int) byte
	// StyleAt returns the style assigned to the byte at pos.
	StyleAt(pos int) int
	// LineOfPos returns the line index containing pos.
	LineOfPos(pos int) int
	// LineStart returns the byte offset of the first byte of line. Lines at
	// or past the end return the document length.
	LineStart(line int) int
	// LineCount returns the number of lines in the document (at least 1).
	LineCount() int
	// LineState returns the packed per-line lexer state for line.
	LineState(line int) int
	// SetLineState stores the packed per-line lexer state for line.
	SetLineState(line, state int)
	// Level returns the packed fold level for line.
	Level(line int) int
	// SetLevel stores the packed fold level for line.
	SetLevel(line, level int)
	// SetStyleRange assigns style to the length bytes starting at from.
	SetStyleRange(from, length, style int)
}

// Document is the in-memory Accessor implementation used by the CLI, the
// viewer, and the watch service.
type Document struct {
	text       []byte
	styles     []byte
	lineStarts []int
	lineStates []int
	levels     []int
}

// New creates a document holding text, with all bytes styled 0, all line
// states cleared, and all fold levels at FoldLevelBase.
func New(text []byte) *Document {
	d := &Document{}
	d.SetText(text)
	return d
}

// SetText replaces the document contents and resets styles, line states and
// fold levels.
func (d *Document) SetText(text []byte) {
	d.text = text
	d.styles = make([]byte, len(text))
	d.lineStarts = d.lineStarts[:0]
	d.lineStarts = append(d.lineStarts, 0)
	for i, ch := range text {
		if ch == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
	n := len(d.lineStarts)
	d.lineStates = make([]int, n)
	d.levels = make([]int, n)
	for i := range d.levels {
		d.levels[i] = FoldLevelBase
	}
}

// Text returns the raw document bytes.
func (d *Document) Text() []byte { return d.text }

// UpdateText replaces the document contents while preserving styles, line
// states and fold levels for everything before the first differing byte, so
// an incremental re-lex can resume there. Returns the offset of the first
// difference, or -1 when the text is unchanged.
func (d *Document) UpdateText(text []byte) int {
	firstDiff := 0
	limit := len(d.text)
	if len(text) < limit {
		limit = len(text)
	}
	for firstDiff < limit && d.text[firstDiff] == text[firstDiff] {
		firstDiff++
	}
	if firstDiff == len(d.text) && firstDiff == len(text) {
		return -1
	}

	diffLine := d.LineOfPos(firstDiff)
	oldStyles := d.styles
	oldStates := d.lineStates
	oldLevels := d.levels

	d.SetText(text)

	copy(d.styles, oldStyles[:min(firstDiff, len(oldStyles))])
	keepLines := diffLine // lines fully before the edited one
	if keepLines > len(d.lineStates) {
		keepLines = len(d.lineStates)
	}
	if keepLines > len(oldStates) {
		keepLines = len(oldStates)
	}
	copy(d.lineStates[:keepLines], oldStates[:keepLines])
	copy(d.levels[:keepLines], oldLevels[:keepLines])

	return firstDiff
}

func (d *Document) Length() int { return len(d.text) }

func (d *Document) ByteAt(pos int) byte {
	if pos < 0 || pos >= len(d.text) {
		return 0
	}
	return d.text[pos]
}

func (d *Document) StyleAt(pos int) int {
	if pos < 0 || pos >= len(d.styles) {
		return 0
	}
	return int(d.styles[pos])
}

func (d *Document) LineOfPos(pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(d.text) {
		return len(d.lineStarts) - 1
	}
	// first line whose start is beyond pos, minus one
	i := sort.Search(len(d.lineStarts), func(i int) bool { return d.lineStarts[i] > pos })
	return i - 1
}

func (d *Document) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.lineStarts) {
		return len(d.text)
	}
	return d.lineStarts[line]
}

// LineEnd returns the offset one past the last content byte of line,
// excluding the end-of-line characters.
func (d *Document) LineEnd(line int) int {
	end := d.LineStart(line + 1)
	for end > d.LineStart(line) {
		ch := d.ByteAt(end - 1)
		if ch != '\r' && ch != '\n' {
			break
		}
		end--
	}
	return end
}

func (d *Document) LineCount() int { return len(d.lineStarts) }

func (d *Document) LineState(line int) int {
	if line < 0 || line >= len(d.lineStates) {
		return 0
	}
	return d.lineStates[line]
}

func (d *Document) SetLineState(line, state int) {
	if line >= 0 && line < len(d.lineStates) {
		d.lineStates[line] = state
	}
}

func (d *Document) Level(line int) int {
	if line < 0 || line >= len(d.levels) {
		return FoldLevelBase
	}
	return d.levels[line]
}

func (d *Document) SetLevel(line, level int) {
	if line >= 0 && line < len(d.levels) {
		d.levels[line] = level
	}
}

func (d *Document) SetStyleRange(from, length, style int) {
	if from < 0 {
		from = 0
	}
	end := from + length
	if end > len(d.styles) {
		end = len(d.styles)
	}
	for i := from; i < end; i++ {
		d.styles[i] = byte(style)
	}
}

// Styles returns the style byte for every document byte.
func (d *Document) Styles() []byte { return d.styles }

// SetStyles replaces the style bytes wholesale, e.g. from a persisted
// snapshot. Reports whether styles matched the document length.
func (d *Document) SetStyles(styles []byte) bool {
	if len(styles) != len(d.styles) {
		return false
	}
	copy(d.styles, styles)
	return true
}
