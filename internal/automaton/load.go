package automaton

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultTOML []byte

// DefaultSource returns the TOML text of the builtin table.
func DefaultSource() []byte {
	return defaultTOML
}

// Default parses the builtin table. It panics if the embedded asset is broken,
// which the package tests rule out.
func Default() *Table {
	t, err := Parse("builtin", defaultTOML)
	if err != nil {
		panic(fmt.Errorf("builtin table: %w", err))
	}
	return t
}

type tableFile struct {
	Name           string      `toml:"name,omitempty"`
	Initial        *int        `toml:"initial"`
	Quote          string      `toml:"quote"`
	InvalidStart   string      `toml:"invalid_start,omitempty"`
	Reserved       []string    `toml:"reserved,omitempty"`
	OperatorStates []int       `toml:"operator_states,omitempty"`
	IdentTail      *identTail  `toml:"ident_tail"`
	Final          []finalSpec `toml:"final"`
	Edge           []edgeSpec  `toml:"edge"`
}

type identTail struct {
	State int    `toml:"state"`
	Chars string `toml:"chars"`
}

type finalSpec struct {
	State int    `toml:"state"`
	Kind  string `toml:"kind"`
	Back  bool   `toml:"back,omitempty"`
}

type edgeSpec struct {
	From      int    `toml:"from"`
	On        string `toml:"on,omitempty"`
	Otherwise bool   `toml:"otherwise,omitempty"`
	To        int    `toml:"to"`
}

// LoadFile reads and parses a TOML table from disk.
func LoadFile(path string) (*Table, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a TOML table, rejects unknown keys and validates the result.
func Parse(name string, data []byte) (*Table, error) {
	var tf tableFile
	meta, err := toml.Decode(string(data), &tf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	rules, err := tf.rules()
	if err != nil {
		return nil, err
	}
	if tf.Name != "" {
		name = tf.Name
	}
	t := NewTable(name, rules)

	var errs []error
	for i, e := range tf.Edge {
		switch {
		case e.Otherwise && e.On != "":
			errs = append(errs, fmt.Errorf("edge #%d (from %d): on and otherwise are exclusive", i+1, e.From))
		case e.Otherwise:
			t.AddOtherwise(State(e.From), State(e.To))
		case e.On == "":
			errs = append(errs, fmt.Errorf("edge #%d (from %d): missing on", i+1, e.From))
		default:
			cs, err := ParseCharset(e.On)
			if err != nil {
				errs = append(errs, fmt.Errorf("edge #%d: %w", i+1, err))
				continue
			}
			t.AddEdge(State(e.From), cs, State(e.To))
		}
	}
	seen := make(map[int]bool, len(tf.Final))
	for _, f := range tf.Final {
		if seen[f.State] {
			errs = append(errs, fmt.Errorf("final state %d declared twice", f.State))
		}
		seen[f.State] = true
		t.AddFinal(State(f.State), f.Kind, f.Back)
	}
	t.AddReserved(tf.Reserved...)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (tf *tableFile) rules() (Rules, error) {
	rules := Rules{IdentTailState: NoTransition}
	if tf.Initial != nil {
		rules.Initial = State(*tf.Initial)
	}

	quote := tf.Quote
	if quote == "" {
		quote = `"`
	}
	if utf8.RuneCountInString(quote) != 1 {
		return Rules{}, fmt.Errorf("quote must be a single character, got %q", quote)
	}
	rules.Quote, _ = utf8.DecodeRuneInString(quote)

	var err error
	if rules.InvalidStart, err = ParseCharset(tf.InvalidStart); err != nil {
		return Rules{}, fmt.Errorf("invalid_start: %w", err)
	}
	if tf.IdentTail != nil {
		rules.IdentTailState = State(tf.IdentTail.State)
		if rules.IdentTailChars, err = ParseCharset(tf.IdentTail.Chars); err != nil {
			return Rules{}, fmt.Errorf("ident_tail.chars: %w", err)
		}
	}
	for _, s := range tf.OperatorStates {
		rules.OperatorStates = append(rules.OperatorStates, State(s))
	}
	return rules, nil
}
