package jsonedit

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Position is a zero-based line and UTF-16 column within a document.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineTable maps between byte offsets and positions for one text.
// It is built once per text and never updated.
type LineTable struct {
	text   string
	starts []int
}

// NewLineTable records the start offset of every line in text.
// The first entry is always 0, so empty text has exactly one line.
func NewLineTable(text string) *LineTable {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &LineTable{text: text, starts: starts}
}

// Lines returns the number of lines.
func (t *LineTable) Lines() int {
	return len(t.starts)
}

// LineStart returns the byte offset at which line begins.
func (t *LineTable) LineStart(line int) int {
	return t.starts[line]
}

// Break returns the line break ending line. The last line has none, so it
// borrows the break of the first line, and single-line text uses "\n".
func (t *LineTable) Break(line int) string {
	if line < 0 || line+1 >= len(t.starts) {
		if len(t.starts) == 1 {
			return "\n"
		}
		line = 0
	}
	end := t.starts[line+1]
	if end >= 2 && t.text[end-2:end] == "\r\n" {
		return "\r\n"
	}
	return t.text[end-1 : end]
}

// lineEnd returns the offset bounding line: the next line start, or the text
// length for the last line.
func (t *LineTable) lineEnd(line int) int {
	if line+1 < len(t.starts) {
		return t.starts[line+1]
	}
	return len(t.text)
}

// Offset converts pos to a byte offset.
// It fails with ErrOutOfRange when the line does not exist, the column runs
// past the line, or the column falls inside a surrogate pair.
func (t *LineTable) Offset(pos Position) (int, error) {
	if pos.Line < 0 || pos.Line >= len(t.starts) {
		return 0, errors.Wrapf(ErrOutOfRange, "line %d not in [0, %d)", pos.Line, len(t.starts))
	}
	if pos.Column < 0 {
		return 0, errors.Wrapf(ErrOutOfRange, "negative column %d", pos.Column)
	}

	off := t.starts[pos.Line]
	end := t.lineEnd(pos.Line)
	units := 0
	for units < pos.Column {
		if off >= end {
			return 0, errors.Wrapf(ErrOutOfRange, "column %d past end of line %d", pos.Column, pos.Line)
		}
		r, size := utf8.DecodeRuneInString(t.text[off:end])
		n := utf16Len(r)
		if units+n > pos.Column {
			return 0, errors.Wrapf(ErrOutOfRange, "column %d splits a surrogate pair on line %d", pos.Column, pos.Line)
		}
		units += n
		off += size
	}
	return off, nil
}

// Position converts a byte offset to a position. Offsets are clamped to the
// text. An offset inside a multi-byte character maps to that character's
// column.
func (t *LineTable) Position(offset int) Position {
	offset = max(0, min(offset, len(t.text)))
	line := sort.Search(len(t.starts), func(i int) bool { return t.starts[i] > offset }) - 1
	return Position{Line: line, Column: t.columnOf(line, offset)}
}

// End returns the position just past the last character of the text.
func (t *LineTable) End() Position {
	return t.Position(len(t.text))
}

func (t *LineTable) columnOf(line, offset int) int {
	col := 0
	for off := t.starts[line]; off < offset; {
		r, size := utf8.DecodeRuneInString(t.text[off:])
		if off+size > offset {
			break
		}
		col += utf16Len(r)
		off += size
	}
	return col
}

// utf16Len reports how many UTF-16 code units encode r. Invalid bytes decode
// as utf8.RuneError and count as one unit.
func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
