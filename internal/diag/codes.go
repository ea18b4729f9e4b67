package diag

import "fmt"

// Code identifies a diagnostic. The thousands digit selects the family:
// 1xxx lexer, 2xxx transition table, 4xxx input/output.
type Code uint16

const (
	UnknownCode Code = 0

	LexIllegalStart     Code = 1001
	LexUnterminatedStr  Code = 1002
	LexBadOperator      Code = 1003
	LexIllegalIdentTail Code = 1004
	LexNoTransition     Code = 1005
	LexTruncatedToken   Code = 1006

	TableInvalid Code = 2001
	TableCache   Code = 2002

	IOLoadFileError Code = 4001
)

var codeTitle = map[Code]string{
	UnknownCode:         "Unknown error",
	LexIllegalStart:     "Illegal token start",
	LexUnterminatedStr:  "Unterminated string literal",
	LexBadOperator:      "Malformed operator",
	LexIllegalIdentTail: "Illegal character in identifier",
	LexNoTransition:     "Unexpected character",
	LexTruncatedToken:   "Input ended inside a token",
	TableInvalid:        "Invalid automaton table",
	TableCache:          "Compiled table cache problem",
	IOLoadFileError:     "I/O load file error",
}

var familyPrefix = map[int]string{1: "LEX", 2: "TBL", 4: "IO"}

// ID renders the stable identifier, e.g. LEX1001.
func (c Code) ID() string {
	if p, ok := familyPrefix[int(c)/1000]; ok {
		return fmt.Sprintf("%s%04d", p, int(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	if t, ok := codeTitle[c]; ok {
		return t
	}
	return codeTitle[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
