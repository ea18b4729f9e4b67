package lexer

import (
	"dfalex/internal/source"
)

// Cursor представляет собой позицию (строка, колонка) в буфере.
// Shared by reference between successive Tokenizer.Next calls, so
// consumption is cumulative over the whole input.
type Cursor struct {
	buf  *source.Buffer
	line int // 0-based
	col  int // 0-based, следующий непрочитанный символ
	off  int // сколько символов потреблено всего
}

// NewCursor creates a cursor at the start of buf.
func NewCursor(buf *source.Buffer) *Cursor {
	return &Cursor{buf: buf}
}

// Next returns the character at the current position and advances one
// column. Moving to the next line happens lazily, right before reading past
// the end of the current one, so a rewind after reading '\n' stays on the
// same line. At end of input it returns false and does not move.
func (c *Cursor) Next() (rune, bool) {
	line := c.buf.Line(c.line)
	for c.col >= len(line) {
		if c.line+1 >= c.buf.LineCount() {
			return 0, false
		}
		c.line++
		c.col = 0
		line = c.buf.Line(c.line)
	}
	r := line[c.col]
	c.col++
	c.off++
	return r, true
}

// Rewind gives back exactly one character. Column never goes below 0.
func (c *Cursor) Rewind() {
	if c.col > 0 {
		c.col--
		c.off--
	}
}

// EOF проверяет, что впереди не осталось символов.
func (c *Cursor) EOF() bool {
	if c.col < len(c.buf.Line(c.line)) {
		return false
	}
	for l := c.line + 1; l < c.buf.LineCount(); l++ {
		if len(c.buf.Line(l)) > 0 {
			return false
		}
	}
	return true
}

// Line returns the 0-based line.
func (c *Cursor) Line() int { return c.line }

// Col returns the 0-based column of the next unread character.
func (c *Cursor) Col() int { return c.col }

// Offset returns the number of characters consumed so far.
func (c *Cursor) Offset() int { return c.off }

// Pos returns the 1-based position of the next unread character.
func (c *Cursor) Pos() source.Pos {
	return source.Pos{Line: toU32(c.line + 1), Col: toU32(c.col + 1)}
}
