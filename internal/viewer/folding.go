package viewer

import "github.com/kwatters/hilex/internal/document"

// levelNumber extracts a line's own nesting level from the packed value.
func levelNumber(doc *document.Document, line int) int {
	return doc.Level(line) & document.FoldLevelNumberMask
}

// isHeader reports whether line opens a foldable region.
func isHeader(doc *document.Document, line int) bool {
	return doc.Level(line)&document.FoldLevelHeaderFlag != 0
}

// regionEnd returns the last line of the region opened at header: the run of
// following lines whose level stays above the header's.
func regionEnd(doc *document.Document, header int) int {
	base := levelNumber(doc, header)
	last := header
	for line := header + 1; line < doc.LineCount(); line++ {
		if levelNumber(doc, line) <= base {
			break
		}
		last = line
	}
	return last
}

// visibleLines lists the document lines not hidden inside a collapsed
// region.
func visibleLines(doc *document.Document, collapsed map[int]bool) []int {
	lines := make([]int, 0, doc.LineCount())
	skipUntil := -1
	for line := 0; line < doc.LineCount(); line++ {
		if line <= skipUntil {
			continue
		}
		lines = append(lines, line)
		if collapsed[line] && isHeader(doc, line) {
			skipUntil = regionEnd(doc, line)
		}
	}
	return lines
}
