package source

import "unicode/utf8"

// Buffer exposes file content as lines of runes. Every line except possibly
// the last keeps its trailing '\n'; an empty input still has one empty line.
type Buffer struct {
	lines [][]rune
}

// NewBuffer splits content into rune lines.
func NewBuffer(content []byte) *Buffer {
	lines := make([][]rune, 0, 16)
	cur := make([]rune, 0, 64)
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		content = content[size:]
		cur = append(cur, r)
		if r == '\n' {
			lines = append(lines, cur)
			cur = make([]rune, 0, 64)
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return &Buffer{lines: lines}
}

// NewBufferString is a shorthand for tests and virtual inputs.
func NewBufferString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// LineCount returns the number of lines, never zero.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the 0-based line i, including its newline. Out of range -> nil.
func (b *Buffer) Line(i int) []rune {
	if i < 0 || i >= len(b.lines) {
		return nil
	}
	return b.lines[i]
}
