package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"dfalex/internal/source"
	"dfalex/internal/token"
)

func sampleTokens() []token.Token {
	return []token.Token{
		{Kind: token.Final, Label: "TK_id", Lexeme: "x", Pos: source.Pos{Line: 1, Col: 1}, State: 33},
		{Kind: token.Error, Lexeme: "Q", Pos: source.Pos{Line: 1, Col: 3}, Err: &token.LexError{Kind: token.IllegalStart, Char: 'Q'}},
		{Kind: token.EOF, Pos: source.Pos{Line: 1, Col: 4}},
		{Kind: token.Final, Label: "TK_never", Lexeme: "y"},
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("p.src", []byte("x Q")))

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, sampleTokens(), f, TokenOpts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"p.src (4 tokens)",
		`   1: TK_id          1:1        33  "x"`,
		`   2: ERROR          1:3        31  "Q"`,
		`   3: END_OF_FILE    1:4         0  ""`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %q\nwant %q", i, lines[i], want[i])
		}
	}
}

func TestFormatTokensJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, sampleTokens()); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("tokens after END_OF_FILE leaked: %+v", out)
	}
	if out[1].Name != "ERROR" || out[1].Code != 31 || out[1].Error != "identifier cannot start with 'Q'" {
		t.Fatalf("error token = %+v", out[1])
	}
	if out[2].Kind != "eof" || out[2].Col != 4 {
		t.Fatalf("eof token = %+v", out[2])
	}
}
