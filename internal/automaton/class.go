package automaton

import (
	"fmt"
	"strconv"
)

// State identifies an automaton state. State 0 is the conventional initial state.
type State int

// NoTransition is the sentinel returned by Step when no edge exists. It is
// also the raw state code reported for "no transition" errors.
const NoTransition State = -1

func (s State) String() string {
	if s == NoTransition {
		return "-"
	}
	return strconv.Itoa(int(s))
}

// Class is the lookup key the transition table is indexed by: either a digit
// class carrying the digit value, or a literal character.
type Class struct {
	Digit bool
	R     rune // значение цифры 0..9 при Digit, иначе сам символ
}

// DigitClass returns the class for digit value d (0..9).
func DigitClass(d int) Class {
	return Class{Digit: true, R: rune(d)}
}

// RuneClass returns the literal class for r without reclassification.
func RuneClass(r rune) Class {
	return Class{R: r}
}

// Classify maps a raw character to its table key: decimal digits become their
// numeric value, everything else is used as is.
func Classify(r rune) Class {
	if r >= '0' && r <= '9' {
		return DigitClass(int(r - '0'))
	}
	return RuneClass(r)
}

// Rune returns the source character the class was built from.
func (c Class) Rune() rune {
	if c.Digit {
		return '0' + c.R
	}
	return c.R
}

func (c Class) String() string {
	if c.Digit {
		return fmt.Sprintf("digit(%d)", c.R)
	}
	return strconv.QuoteRune(c.R)
}

// IsSpace reports the characters skipped between tokens.
func IsSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Classifier maps raw characters to table keys.
type Classifier interface {
	Classify(r rune) Class
}

// Transitioner is the transition function of the automaton.
type Transitioner interface {
	// Step returns the next state or NoTransition.
	Step(from State, c Class) State
}

// Acceptor answers the acceptance questions: reserved words, final states and
// back states (final states that must give back their lookahead character).
type Acceptor interface {
	Reserved(lexeme string) bool
	Final(s State) (kind string, ok bool)
	Back(s State) bool
}

// ReservedBound is optionally implemented by an Acceptor to give the length
// in runes of its longest reserved word. Longer lexemes skip the reserved
// lookup, keeping a long comment linear. A type that embeds a Table and
// overrides Reserved must override MaxReservedLen as well.
type ReservedBound interface {
	MaxReservedLen() int
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(r rune) Class

// Classify implements Classifier.
func (f ClassifierFunc) Classify(r rune) Class { return f(r) }

// DefaultClassifier applies Classify.
var DefaultClassifier Classifier = ClassifierFunc(Classify)
