package token

// Kind represents the category of a token.
type Kind uint8

const (
	// Invalid is the zero Kind; the tokenizer never returns it.
	Invalid Kind = iota
	// Reserved is an exact reserved-word match.
	Reserved
	// String is a quoted string literal.
	String
	// Final is a token accepted by a final automaton state.
	Final
	// Error is a lexical error; see Token.Err.
	Error
	// EOF marks the end of the source input.
	EOF
)

func (k Kind) String() string {
	switch k {
	case Reserved:
		return "reserved"
	case String:
		return "string"
	case Final:
		return "final"
	case Error:
		return "error"
	case EOF:
		return "eof"
	default:
		return "invalid"
	}
}

// IsEOF reports whether k terminates the token stream.
func (k Kind) IsEOF() bool { return k == EOF }

const (
	// NameString is the compatibility tag of string literals.
	NameString = "TK_STRING"
	// NameError is the compatibility tag of error tokens.
	NameError = "ERROR"
	// NameEOF is the compatibility tag of the end-of-file token.
	NameEOF = "END_OF_FILE"
	// ReservedPrefix prefixes reserved words: "while" -> "TK_while".
	ReservedPrefix = "TK_"
)
