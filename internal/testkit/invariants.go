package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"dfalex/internal/automaton"
	"dfalex/internal/source"
	"dfalex/internal/token"
)

// CheckTokenInvariants runs the token stream invariants on a tokenized file:
// 1) the stream ends with exactly one END_OF_FILE
// 2) every non-empty lexeme is found in the file at its position
// 3) start positions strictly increase
// 4) lexemes cover every non-whitespace character of the file, in order
func CheckTokenInvariants(sf *source.File, toks []token.Token) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	for i, tok := range toks[:len(toks)-1] {
		if tok.Kind.IsEOF() {
			return fmt.Errorf("END_OF_FILE at index %d before the end of the stream", i)
		}
	}
	if last := toks[len(toks)-1]; !last.Kind.IsEOF() {
		return fmt.Errorf("stream ends with %s, not END_OF_FILE", last)
	}

	buf := sf.Buffer()
	var prev source.Pos
	var joined strings.Builder
	for _, tok := range toks {
		if tok.Lexeme == "" {
			continue
		}
		if !tok.Pos.IsValid() {
			return fmt.Errorf("token %s has no position", tok)
		}
		if tok.Pos.Line < prev.Line || (tok.Pos.Line == prev.Line && tok.Pos.Col <= prev.Col) {
			return fmt.Errorf("token %s starts at or before %s", tok, prev)
		}
		prev = tok.Pos

		line, err := safecast.Conv[int](tok.Pos.Line - 1)
		if err != nil {
			return fmt.Errorf("line overflow: %w", err)
		}
		col, err := safecast.Conv[int](tok.Pos.Col - 1)
		if err != nil {
			return fmt.Errorf("col overflow: %w", err)
		}
		if got := textAt(buf, line, col, len([]rune(tok.Lexeme))); got != tok.Lexeme {
			return fmt.Errorf("token %s: source at %s is %q", tok, tok.Pos, got)
		}
		joined.WriteString(tok.Lexeme)
	}

	want := stripSpace(string(sf.Content))
	if got := stripSpace(joined.String()); got != want {
		return fmt.Errorf("lexemes cover %q, file has %q", got, want)
	}
	return nil
}

// textAt reads n runes starting at the 0-based (line, col), crossing lines.
func textAt(buf *source.Buffer, line, col, n int) string {
	var sb strings.Builder
	for n > 0 {
		l := buf.Line(line)
		if l == nil {
			break
		}
		for ; col < len(l) && n > 0; col++ {
			sb.WriteRune(l[col])
			n--
		}
		line++
		col = 0
	}
	return sb.String()
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if automaton.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
