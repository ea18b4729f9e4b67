package automaton

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// Rules are the per-language constants the tokenizer applies around the
// automaton proper.
type Rules struct {
	Initial State
	// Quote opens and closes string literals.
	Quote rune
	// InvalidStart lists characters that may never start a token.
	InvalidStart Charset
	// IdentTailState is the state whose next character must belong to
	// IdentTailChars. NoTransition disables the guard.
	IdentTailState State
	IdentTailChars Charset
	// OperatorStates need a second character; a missing edge out of them is
	// reported as a malformed operator.
	OperatorStates []State
}

// IsOperatorState reports whether s is listed in OperatorStates.
func (r Rules) IsOperatorState(s State) bool {
	return slices.Contains(r.OperatorStates, s)
}

// DefaultRules returns the rules of the builtin language.
func DefaultRules() Rules {
	return Rules{
		Initial:        0,
		Quote:          '"',
		InvalidStart:   MustCharset("A-Z"),
		IdentTailState: 34,
		IdentTailChars: MustCharset("a-z_"),
		OperatorStates: []State{16, 18, 23, 24},
	}
}

// FinalState is the acceptance record of a final state.
type FinalState struct {
	Kind string
	Back bool
}

// Table is an immutable-after-build DFA with its acceptance sets. It
// implements Classifier, Transitioner and Acceptor.
type Table struct {
	Name  string
	Rules Rules

	edges     map[State]map[Class]State
	otherwise map[State]State
	final     map[State]FinalState
	reserved  map[string]struct{}
	// длина самого длинного зарезервированного слова в рунах
	maxReserved int
}

// NewTable returns an empty table with the given rules.
func NewTable(name string, rules Rules) *Table {
	return &Table{
		Name:      name,
		Rules:     rules,
		edges:     make(map[State]map[Class]State),
		otherwise: make(map[State]State),
		final:     make(map[State]FinalState),
		reserved:  make(map[string]struct{}),
	}
}

// AddEdge adds from -c-> to for every class in cs.
func (t *Table) AddEdge(from State, cs Charset, to State) *Table {
	row, ok := t.edges[from]
	if !ok {
		row = make(map[Class]State)
		t.edges[from] = row
	}
	for c := range cs.set {
		row[c] = to
	}
	return t
}

// AddOtherwise sets the edge used when no explicit edge leaves from.
func (t *Table) AddOtherwise(from, to State) *Table {
	t.otherwise[from] = to
	return t
}

// AddFinal marks s as final with the given token kind.
func (t *Table) AddFinal(s State, kind string, back bool) *Table {
	t.final[s] = FinalState{Kind: kind, Back: back}
	return t
}

// AddReserved registers reserved words.
func (t *Table) AddReserved(words ...string) *Table {
	for _, w := range words {
		t.reserved[w] = struct{}{}
		t.maxReserved = max(t.maxReserved, utf8.RuneCountInString(w))
	}
	return t
}

// Classify implements Classifier.
func (t *Table) Classify(r rune) Class {
	return Classify(r)
}

// Step implements Transitioner.
func (t *Table) Step(from State, c Class) State {
	if row, ok := t.edges[from]; ok {
		if to, ok := row[c]; ok {
			return to
		}
	}
	if to, ok := t.otherwise[from]; ok {
		return to
	}
	return NoTransition
}

// Reserved implements Acceptor.
func (t *Table) Reserved(lexeme string) bool {
	_, ok := t.reserved[lexeme]
	return ok
}

// MaxReservedLen implements ReservedBound.
func (t *Table) MaxReservedLen() int { return t.maxReserved }

// Final implements Acceptor.
func (t *Table) Final(s State) (string, bool) {
	f, ok := t.final[s]
	return f.Kind, ok
}

// Back implements Acceptor.
func (t *Table) Back(s State) bool {
	return t.final[s].Back
}

// ReservedWords returns the reserved words sorted.
func (t *Table) ReservedWords() []string {
	return slices.Sorted(maps.Keys(t.reserved))
}

// States returns every state mentioned by the table, sorted.
func (t *Table) States() []State {
	seen := map[State]struct{}{t.Rules.Initial: {}}
	for from, row := range t.edges {
		seen[from] = struct{}{}
		for _, to := range row {
			seen[to] = struct{}{}
		}
	}
	for from, to := range t.otherwise {
		seen[from] = struct{}{}
		seen[to] = struct{}{}
	}
	for s := range t.final {
		seen[s] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// FinalStates returns the final states sorted by id.
func (t *Table) FinalStates() []State {
	return slices.Sorted(maps.Keys(t.final))
}

// FinalState returns the acceptance record of s.
func (t *Table) FinalState(s State) (FinalState, bool) {
	f, ok := t.final[s]
	return f, ok
}

// Validate checks structural consistency. All problems are reported at once.
func (t *Table) Validate() error {
	var errs []error

	if len(t.edges[t.Rules.Initial]) == 0 {
		if _, ok := t.otherwise[t.Rules.Initial]; !ok {
			errs = append(errs, fmt.Errorf("initial state %s has no edges", t.Rules.Initial))
		}
	}

	known := make(map[State]bool)
	known[t.Rules.Initial] = true
	for from := range t.edges {
		known[from] = true
	}
	for from := range t.otherwise {
		known[from] = true
	}
	for s := range t.final {
		known[s] = true
	}

	for _, from := range slices.Sorted(maps.Keys(t.edges)) {
		if _, ok := t.final[from]; ok {
			errs = append(errs, fmt.Errorf("final state %s has outgoing edges", from))
		}
		for c, to := range t.edges[from] {
			if to < 0 {
				errs = append(errs, fmt.Errorf("edge %s -%s-> %d: negative target", from, c, to))
				continue
			}
			if !known[to] {
				errs = append(errs, fmt.Errorf("edge %s -%s-> %s: target state is never left nor accepted", from, c, to))
			}
		}
	}
	for _, from := range slices.Sorted(maps.Keys(t.otherwise)) {
		if _, ok := t.final[from]; ok && len(t.edges[from]) == 0 {
			errs = append(errs, fmt.Errorf("final state %s has outgoing edges", from))
		}
		to := t.otherwise[from]
		if to < 0 || !known[to] {
			errs = append(errs, fmt.Errorf("otherwise edge %s -> %s: unknown target", from, to))
		}
	}

	for _, s := range t.FinalStates() {
		if strings.TrimSpace(t.final[s].Kind) == "" {
			errs = append(errs, fmt.Errorf("final state %s has empty kind", s))
		}
	}

	// back-состояние сразу из начального дало бы пустую лексему
	initial := slices.Collect(maps.Values(t.edges[t.Rules.Initial]))
	if to, ok := t.otherwise[t.Rules.Initial]; ok {
		initial = append(initial, to)
	}
	slices.Sort(initial)
	for _, to := range slices.Compact(initial) {
		if t.final[to].Back {
			errs = append(errs, fmt.Errorf("back state %s is reachable from the initial state in one step", to))
		}
	}

	if ts := t.Rules.IdentTailState; ts != NoTransition && !known[ts] {
		errs = append(errs, fmt.Errorf("ident tail state %s is not part of the automaton", ts))
	}
	for _, s := range t.Rules.OperatorStates {
		if !known[s] {
			errs = append(errs, fmt.Errorf("operator state %s is not part of the automaton", s))
		}
	}
	if t.Rules.Quote == 0 {
		errs = append(errs, errors.New("quote rune is not set"))
	}

	for _, w := range t.ReservedWords() {
		if w == "" {
			errs = append(errs, errors.New("empty reserved word"))
			continue
		}
		if w != strings.ToLower(w) {
			errs = append(errs, fmt.Errorf("reserved word %q must be lowercase", w))
		}
	}

	return errors.Join(errs...)
}
