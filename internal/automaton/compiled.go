package automaton

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// compiledSchemaVersion - increment when Compiled changes shape.
const compiledSchemaVersion uint16 = 1

// Compiled is a flat, serialisable snapshot of a Table.
type Compiled struct {
	Schema uint16
	Name   string

	Initial        int
	Quote          rune
	InvalidStart   string
	IdentTailState int
	IdentTailChars string
	OperatorStates []int

	Edges     []CompiledEdge
	Otherwise map[int]int
	Final     []CompiledFinal
	Reserved  []string
}

// CompiledEdge is one explicit transition.
type CompiledEdge struct {
	From  int
	Digit bool
	R     rune
	To    int
}

// CompiledFinal is one acceptance record.
type CompiledFinal struct {
	State int
	Kind  string
	Back  bool
}

// Compile flattens t in a deterministic order.
func Compile(t *Table) *Compiled {
	c := &Compiled{
		Schema:         compiledSchemaVersion,
		Name:           t.Name,
		Initial:        int(t.Rules.Initial),
		Quote:          t.Rules.Quote,
		InvalidStart:   t.Rules.InvalidStart.String(),
		IdentTailState: int(t.Rules.IdentTailState),
		IdentTailChars: t.Rules.IdentTailChars.String(),
		Otherwise:      make(map[int]int, len(t.otherwise)),
		Reserved:       t.ReservedWords(),
	}
	for _, s := range t.Rules.OperatorStates {
		c.OperatorStates = append(c.OperatorStates, int(s))
	}
	for _, from := range slices.Sorted(maps.Keys(t.edges)) {
		row := t.edges[from]
		classes := slices.SortedFunc(maps.Keys(row), func(a, b Class) int {
			return int(a.Rune()) - int(b.Rune())
		})
		for _, cl := range classes {
			c.Edges = append(c.Edges, CompiledEdge{From: int(from), Digit: cl.Digit, R: cl.R, To: int(row[cl])})
		}
	}
	for from, to := range t.otherwise {
		c.Otherwise[int(from)] = int(to)
	}
	for _, s := range t.FinalStates() {
		f := t.final[s]
		c.Final = append(c.Final, CompiledFinal{State: int(s), Kind: f.Kind, Back: f.Back})
	}
	return c
}

// Table rebuilds and validates the table described by the snapshot.
func (c *Compiled) Table() (*Table, error) {
	if c.Schema != compiledSchemaVersion {
		return nil, fmt.Errorf("compiled table schema %d, want %d", c.Schema, compiledSchemaVersion)
	}
	invalid, err := ParseCharset(c.InvalidStart)
	if err != nil {
		return nil, err
	}
	tail, err := ParseCharset(c.IdentTailChars)
	if err != nil {
		return nil, err
	}
	rules := Rules{
		Initial:        State(c.Initial),
		Quote:          c.Quote,
		InvalidStart:   invalid,
		IdentTailState: State(c.IdentTailState),
		IdentTailChars: tail,
	}
	for _, s := range c.OperatorStates {
		rules.OperatorStates = append(rules.OperatorStates, State(s))
	}

	t := NewTable(c.Name, rules)
	for _, e := range c.Edges {
		row, ok := t.edges[State(e.From)]
		if !ok {
			row = make(map[Class]State)
			t.edges[State(e.From)] = row
		}
		row[Class{Digit: e.Digit, R: e.R}] = State(e.To)
	}
	for from, to := range c.Otherwise {
		t.AddOtherwise(State(from), State(to))
	}
	for _, f := range c.Final {
		t.AddFinal(State(f.State), f.Kind, f.Back)
	}
	t.AddReserved(c.Reserved...)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Encode serialises the snapshot with msgpack.
func (c *Compiled) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCompiled is the inverse of Encode.
func DecodeCompiled(data []byte) (*Compiled, error) {
	var c Compiled
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode compiled table: %w", err)
	}
	return &c, nil
}
