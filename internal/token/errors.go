package token

import "fmt"

// ErrorKind enumerates the lexical errors the tokenizer can report.
type ErrorKind uint8

const (
	// IllegalStart: the first character may not start any token.
	IllegalStart ErrorKind = iota + 1
	// UnterminatedString: a newline or end of input before the closing quote.
	UnterminatedString
	// BadOperator: a multi-character operator missing a valid second character.
	BadOperator
	// IllegalIdentTail: a character outside the identifier-tail alphabet.
	IllegalIdentTail
	// NoTransition: the automaton has no edge for the character.
	NoTransition
)

// Fixed state codes kept for tooling that reads numeric codes.
const (
	CodeIllegalStart       = 31
	CodeUnterminatedString = 27
	CodeBadOperator        = 20
)

func (k ErrorKind) String() string {
	switch k {
	case IllegalStart:
		return "illegal-start"
	case UnterminatedString:
		return "unterminated-string"
	case BadOperator:
		return "bad-operator"
	case IllegalIdentTail:
		return "illegal-ident-tail"
	case NoTransition:
		return "no-transition"
	default:
		return "unknown"
	}
}

// LexError is the diagnostic payload of an Error token.
type LexError struct {
	Kind ErrorKind
	// State is the automaton state involved: the operator state for
	// BadOperator, the failing state for IllegalIdentTail, the raw sentinel for
	// NoTransition. Unused for the fixed-code kinds.
	State int
	// Char is the offending character, when there is one.
	Char rune
}

// Code returns the numeric state code reported alongside the token.
func (e *LexError) Code() int {
	switch e.Kind {
	case IllegalStart:
		return CodeIllegalStart
	case UnterminatedString:
		return CodeUnterminatedString
	case BadOperator:
		return CodeBadOperator
	default:
		return e.State
	}
}

func (e *LexError) Error() string {
	switch e.Kind {
	case IllegalStart:
		return fmt.Sprintf("identifier cannot start with %q", e.Char)
	case UnterminatedString:
		return "unterminated string literal"
	case BadOperator:
		if e.Char != 0 {
			return fmt.Sprintf("malformed operator: unexpected %q after operator prefix", e.Char)
		}
		return "malformed operator"
	case IllegalIdentTail:
		return fmt.Sprintf("illegal character %q in identifier", e.Char)
	case NoTransition:
		if e.Char != 0 {
			return fmt.Sprintf("unexpected character %q", e.Char)
		}
		return "unexpected character"
	default:
		return "lexical error"
	}
}
