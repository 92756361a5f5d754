package yamlls

import "sort"

// LineCounter maps byte offsets to 0-based line/column pairs (UTF-16 code
// units are not computed here; callers serving LSP clients that need
// UTF-16 columns convert at the edge, not in this shared core).
type LineCounter struct {
	text        string
	lineOffsets []int // byte offset of the start of each line
}

// NewLineCounter indexes text's line starts once, up front, so later
// offset lookups are a binary search rather than a re-scan.
func NewLineCounter(text string) *LineCounter {
	lc := &LineCounter{text: text, lineOffsets: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lc.lineOffsets = append(lc.lineOffsets, i+1)
		}
	}
	return lc
}

// Position converts a byte offset to a 0-based (line, column) pair. An
// offset past the end of the text clamps to the last valid position.
func (lc *LineCounter) Position(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(lc.text) {
		offset = len(lc.text)
	}
	idx := sort.Search(len(lc.lineOffsets), func(i int) bool { return lc.lineOffsets[i] > offset }) - 1
	if idx < 0 {
		idx = 0
	}
	return idx, offset - lc.lineOffsets[idx]
}

// Offset converts a 0-based (line, column) pair back to a byte offset.
func (lc *LineCounter) Offset(line, column int) int {
	if line < 0 {
		line = 0
	}
	if line >= len(lc.lineOffsets) {
		line = len(lc.lineOffsets) - 1
	}
	return lc.lineOffsets[line] + column
}

// EndsAtColumnZero reports whether offset lands exactly at the start of a
// line — used by the converter's trailing-newline trim rule (spec 4.B):
// a collection range that spans multiple lines and ends at column 0
// should not swallow the next line's leading indentation.
func (lc *LineCounter) EndsAtColumnZero(offset int) bool {
	_, col := lc.Position(offset)
	return col == 0
}
