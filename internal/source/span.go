package source

import (
	"fmt"
)

// Span covers Len characters of a single line starting at Start.
type Span struct {
	File  FileID
	Start Pos
	Len   uint32 // в символах (рунах), не в байтах
}

func (s Span) Empty() bool {
	return s.Len == 0
}

// End returns the position just past the last covered character.
func (s Span) End() Pos {
	return Pos{Line: s.Start.Line, Col: s.Start.Col + s.Len}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%s+%d", s.File, s.Start, s.Len)
}

// Before orders spans by file, then line, then column.
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.Start.Line != other.Start.Line {
		return s.Start.Line < other.Start.Line
	}
	if s.Start.Col != other.Start.Col {
		return s.Start.Col < other.Start.Col
	}
	return s.Len < other.Len
}
