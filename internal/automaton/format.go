package automaton

import (
	"bytes"
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Format renders t in the TOML asset format accepted by Parse. Explicit
// edges are grouped per (from, to) pair into one charset.
func Format(t *Table) ([]byte, error) {
	initial := int(t.Rules.Initial)
	tf := tableFile{
		Name:         t.Name,
		Initial:      &initial,
		Quote:        string(t.Rules.Quote),
		InvalidStart: charsetExpr(t.Rules.InvalidStart.Classes()),
		Reserved:     t.ReservedWords(),
	}
	for _, s := range t.Rules.OperatorStates {
		tf.OperatorStates = append(tf.OperatorStates, int(s))
	}
	if t.Rules.IdentTailState != NoTransition {
		tf.IdentTail = &identTail{
			State: int(t.Rules.IdentTailState),
			Chars: charsetExpr(t.Rules.IdentTailChars.Classes()),
		}
	}
	for _, s := range t.FinalStates() {
		f := t.final[s]
		tf.Final = append(tf.Final, finalSpec{State: int(s), Kind: f.Kind, Back: f.Back})
	}

	froms := slices.Collect(maps.Keys(t.edges))
	for from := range t.otherwise {
		if _, ok := t.edges[from]; !ok {
			froms = append(froms, from)
		}
	}
	slices.Sort(froms)
	for _, from := range froms {
		byTarget := make(map[State][]Class)
		for c, to := range t.edges[from] {
			byTarget[to] = append(byTarget[to], c)
		}
		for _, to := range slices.Sorted(maps.Keys(byTarget)) {
			tf.Edge = append(tf.Edge, edgeSpec{From: int(from), On: charsetExpr(byTarget[to]), To: int(to)})
		}
		if to, ok := t.otherwise[from]; ok {
			tf.Edge = append(tf.Edge, edgeSpec{From: int(from), Otherwise: true, To: int(to)})
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// charsetExpr writes classes as a range string, collapsing runs of three or
// more consecutive characters.
func charsetExpr(classes []Class) string {
	runes := make([]rune, len(classes))
	for i, c := range classes {
		runes[i] = c.Rune()
	}
	slices.Sort(runes)
	runes = slices.Compact(runes)

	var sb strings.Builder
	for i := 0; i < len(runes); {
		j := i
		for j+1 < len(runes) && runes[j+1] == runes[j]+1 {
			j++
		}
		if j-i >= 2 {
			sb.WriteString(escapeCharsetRune(runes[i]))
			sb.WriteByte('-')
			sb.WriteString(escapeCharsetRune(runes[j]))
			i = j + 1
			continue
		}
		sb.WriteString(escapeCharsetRune(runes[i]))
		i++
	}
	return sb.String()
}

func escapeCharsetRune(r rune) string {
	switch r {
	case '\\':
		return `\\`
	case '-':
		return `\-`
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case ' ':
		return `\s`
	default:
		return string(r)
	}
}
