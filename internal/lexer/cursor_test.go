package lexer

import (
	"testing"

	"dfalex/internal/source"
)

func TestCursorLazyLineAdvance(t *testing.T) {
	c := NewCursor(source.NewBufferString("ab\ncd"))

	for _, want := range "ab\n" {
		r, ok := c.Next()
		if !ok || r != want {
			t.Fatalf("Next = %q,%v want %q", r, ok, want)
		}
	}
	// ещё на первой строке, за '\n'
	if c.Line() != 0 || c.Col() != 3 {
		t.Fatalf("after newline at %d:%d", c.Line(), c.Col())
	}
	c.Rewind()
	if c.Line() != 0 || c.Col() != 2 {
		t.Fatalf("rewind at %d:%d", c.Line(), c.Col())
	}
	if r, _ := c.Next(); r != '\n' {
		t.Fatalf("re-read %q", r)
	}
	if r, _ := c.Next(); r != 'c' || c.Line() != 1 || c.Col() != 1 {
		t.Fatalf("got %q at %d:%d", r, c.Line(), c.Col())
	}
}

func TestCursorEOFDoesNotMove(t *testing.T) {
	c := NewCursor(source.NewBufferString("x"))
	c.Next()
	for range 3 {
		if _, ok := c.Next(); ok {
			t.Fatal("expected end of input")
		}
	}
	if c.Line() != 0 || c.Col() != 1 || c.Offset() != 1 {
		t.Fatalf("moved to %d:%d off %d", c.Line(), c.Col(), c.Offset())
	}
	if !c.EOF() {
		t.Fatal("EOF() = false")
	}
}

func TestCursorRewindClamps(t *testing.T) {
	c := NewCursor(source.NewBufferString("x"))
	c.Rewind()
	c.Rewind()
	if c.Col() != 0 || c.Offset() != 0 {
		t.Fatalf("col %d off %d", c.Col(), c.Offset())
	}
	if r, ok := c.Next(); !ok || r != 'x' {
		t.Fatalf("Next = %q,%v", r, ok)
	}
}

func TestCursorEmptyInput(t *testing.T) {
	c := NewCursor(source.NewBufferString(""))
	if !c.EOF() {
		t.Fatal("empty input not at EOF")
	}
	if _, ok := c.Next(); ok {
		t.Fatal("Next on empty input")
	}
	if got := c.Pos(); got != (source.Pos{Line: 1, Col: 1}) {
		t.Fatalf("Pos = %v", got)
	}
}

func TestCursorEOFLookahead(t *testing.T) {
	c := NewCursor(source.NewBufferString("a\n"))
	if c.EOF() {
		t.Fatal("EOF before reading")
	}
	c.Next()
	if c.EOF() {
		t.Fatal("newline still unread")
	}
	c.Next()
	if !c.EOF() {
		t.Fatal("expected EOF")
	}
}
