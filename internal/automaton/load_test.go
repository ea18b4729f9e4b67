package automaton

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefaultTableParses(t *testing.T) {
	tab := Default()
	if tab.Name != "builtin" {
		t.Fatalf("Name = %q", tab.Name)
	}

	want := DefaultRules()
	got := tab.Rules
	if got.Initial != want.Initial || got.Quote != want.Quote || got.IdentTailState != want.IdentTailState {
		t.Fatalf("rules mismatch: got %+v want %+v", got, want)
	}
	if !slices.Equal(got.OperatorStates, want.OperatorStates) {
		t.Fatalf("operator states %v, want %v", got.OperatorStates, want.OperatorStates)
	}
	if got.InvalidStart.String() != want.InvalidStart.String() || got.IdentTailChars.String() != want.IdentTailChars.String() {
		t.Fatalf("charset mismatch: %q/%q", got.InvalidStart, got.IdentTailChars)
	}

	for _, w := range []string{"if", "while", "begin", "end", "int"} {
		if !tab.Reserved(w) {
			t.Errorf("%q should be reserved", w)
		}
	}
	if kind, ok := tab.Final(33); !ok || kind != "TK_id" || !tab.Back(33) {
		t.Errorf("state 33 should be back-final TK_id")
	}
	if s := tab.Step(0, Classify('5')); s != 10 {
		t.Errorf("Step(0, '5') = %s, want 10", s)
	}
	if s := tab.Step(16, Classify('x')); s != NoTransition {
		t.Errorf("Step(16, 'x') = %s, want no transition", s)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	src := `
initial = 0
colour = "red"

[[edge]]
from = 0
on = "a"
to = 1

[[final]]
state = 1
kind = "TK_a"
`
	_, err := Parse("t", []byte(src))
	if err == nil || !strings.Contains(err.Error(), "unknown keys: colour") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParseEdgeErrors(t *testing.T) {
	src := `
[[edge]]
from = 0
on = "a"
otherwise = true
to = 1

[[edge]]
from = 0
to = 1

[[edge]]
from = 0
on = "z-a"
to = 1

[[final]]
state = 1
kind = "TK_a"

[[final]]
state = 1
kind = "TK_b"
`
	_, err := Parse("t", []byte(src))
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"exclusive", "missing on", "inverted range", "declared twice"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %v", want, err)
		}
	}
}

func TestParseDefaultsAndQuote(t *testing.T) {
	src := `
quote = "'"

[[edge]]
from = 0
on = "a"
to = 1

[[final]]
state = 1
kind = "TK_a"
`
	tab, err := Parse("mini", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tab.Name != "mini" || tab.Rules.Quote != '\'' || tab.Rules.IdentTailState != NoTransition {
		t.Fatalf("unexpected rules %+v", tab.Rules)
	}

	if _, err := Parse("bad", []byte(`quote = "ab"`)); err == nil {
		t.Fatal("multi-character quote must be rejected")
	}
	if _, err := Parse("bad", []byte(`initial = `)); err == nil {
		t.Fatal("broken TOML must be rejected")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lang.toml")
	if err := os.WriteFile(path, DefaultSource(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	tab, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(tab.ReservedWords()) != len(Default().ReservedWords()) {
		t.Fatal("reserved words differ from builtin")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
