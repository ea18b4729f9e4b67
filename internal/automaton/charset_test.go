package automaton

import "testing"

func TestParseCharset(t *testing.T) {
	tests := []struct {
		expr string
		in   string
		out  string
		size int
	}{
		{"a-z_", "amz_", "A0-", 27},
		{"0-9", "0189", "a", 10},
		{`\-+`, "-+", "\\", 2},
		{"a-", "a-", "b", 2},
		{`\s\t\n`, " \t\n", "s", 3},
		{`\\`, "\\", "", 1},
		{"", "", "a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			cs, err := ParseCharset(tt.expr)
			if err != nil {
				t.Fatalf("ParseCharset(%q): %v", tt.expr, err)
			}
			if cs.Len() != tt.size {
				t.Errorf("Len = %d, want %d", cs.Len(), tt.size)
			}
			for _, r := range tt.in {
				if !cs.ContainsRune(r) {
					t.Errorf("%q should contain %q", tt.expr, r)
				}
			}
			for _, r := range tt.out {
				if cs.ContainsRune(r) {
					t.Errorf("%q should not contain %q", tt.expr, r)
				}
			}
			if cs.String() != tt.expr {
				t.Errorf("String = %q, want %q", cs.String(), tt.expr)
			}
		})
	}
}

func TestParseCharsetErrors(t *testing.T) {
	for _, expr := range []string{"z-a", `ab\`} {
		if _, err := ParseCharset(expr); err == nil {
			t.Errorf("ParseCharset(%q) should fail", expr)
		}
	}
}

func TestCharsetDigitsAreDigitClasses(t *testing.T) {
	cs := MustCharset("0-9")
	if !cs.Contains(DigitClass(7)) {
		t.Fatal("digit class 7 missing")
	}
	if cs.Contains(RuneClass('7')) {
		t.Fatal("literal '7' class must not be present")
	}
	classes := cs.Classes()
	if len(classes) != 10 || classes[0] != DigitClass(0) || classes[9] != DigitClass(9) {
		t.Fatalf("unexpected ordering %v", classes)
	}
}
