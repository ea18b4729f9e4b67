package token

import (
	"fmt"

	"dfalex/internal/source"
)

// Token is one classified lexeme.
type Token struct {
	Kind Kind
	// Label is the reserved word for Reserved and the final-state kind for Final.
	Label  string
	Lexeme string
	Pos    source.Pos
	// State is the numeric state code: the accepting automaton state, a fixed
	// error code, or 0 for strings and end of file.
	State int
	Err   *LexError
}

// Name returns the compatibility tag: TK_<word>, TK_STRING, the final-state
// kind, ERROR or END_OF_FILE.
func (t Token) Name() string {
	switch t.Kind {
	case Reserved:
		return ReservedPrefix + t.Label
	case String:
		return NameString
	case Final:
		return t.Label
	case Error:
		return NameError
	case EOF:
		return NameEOF
	default:
		return "INVALID"
	}
}

// Code returns the state code, mirroring Err.Code() for errors.
func (t Token) Code() int {
	if t.Err != nil {
		return t.Err.Code()
	}
	return t.State
}

// Truncated reports an end-of-file token that swallowed a partial lexeme.
func (t Token) Truncated() bool {
	return t.Kind == EOF && t.Lexeme != ""
}

func (t Token) String() string {
	return fmt.Sprintf("(%s, %q, %s, %d)", t.Name(), t.Lexeme, t.Pos, t.Code())
}
