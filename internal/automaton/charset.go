package automaton

import (
	"fmt"
	"slices"
	"strings"
)

// Charset is a set of classes written as a compact range string, e.g.
// "a-z_", "0-9", `\-+`. Escapes: `\\`, `\-`, `\n`, `\t`, `\s` (space).
// Digits inside a charset denote digit classes.
type Charset struct {
	src string
	set map[Class]struct{}
}

// ParseCharset parses a charset expression.
func ParseCharset(expr string) (Charset, error) {
	cs := Charset{src: expr, set: make(map[Class]struct{})}
	runes := []rune(expr)
	next := func(i int) (rune, int, error) {
		if runes[i] != '\\' {
			return runes[i], i + 1, nil
		}
		if i+1 >= len(runes) {
			return 0, 0, fmt.Errorf("charset %q: dangling escape", expr)
		}
		switch runes[i+1] {
		case 'n':
			return '\n', i + 2, nil
		case 't':
			return '\t', i + 2, nil
		case 's':
			return ' ', i + 2, nil
		default:
			return runes[i+1], i + 2, nil
		}
	}

	for i := 0; i < len(runes); {
		lo, j, err := next(i)
		if err != nil {
			return Charset{}, err
		}
		if j < len(runes)-1 && runes[j] == '-' {
			hi, k, err := next(j + 1)
			if err != nil {
				return Charset{}, err
			}
			if hi < lo {
				return Charset{}, fmt.Errorf("charset %q: inverted range %q-%q", expr, lo, hi)
			}
			for r := lo; r <= hi; r++ {
				cs.set[Classify(r)] = struct{}{}
			}
			i = k
			continue
		}
		cs.set[Classify(lo)] = struct{}{}
		i = j
	}
	return cs, nil
}

// MustCharset is ParseCharset for literals known to be valid.
func MustCharset(expr string) Charset {
	cs, err := ParseCharset(expr)
	if err != nil {
		panic(err)
	}
	return cs
}

// Contains reports membership of an already classified character.
func (cs Charset) Contains(c Class) bool {
	_, ok := cs.set[c]
	return ok
}

// ContainsRune classifies r and tests membership.
func (cs Charset) ContainsRune(r rune) bool {
	return cs.Contains(Classify(r))
}

// Len returns the number of classes in the set.
func (cs Charset) Len() int {
	return len(cs.set)
}

// Classes returns the members ordered by source character.
func (cs Charset) Classes() []Class {
	out := make([]Class, 0, len(cs.set))
	for c := range cs.set {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Class) int {
		return int(a.Rune()) - int(b.Rune())
	})
	return out
}

func (cs Charset) String() string {
	if cs.src != "" || len(cs.set) == 0 {
		return cs.src
	}
	var sb strings.Builder
	for _, c := range cs.Classes() {
		sb.WriteRune(c.Rune())
	}
	return sb.String()
}
