package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"dfalex/internal/diag"
	"dfalex/internal/observ"
	"dfalex/internal/source"
	"dfalex/internal/testkit"
	"dfalex/internal/token"
)

const tinyTable = `
name = "tiny"
quote = "'"

[[edge]]
from = 0
on = "a-z"
to = 1

[[final]]
state = 1
kind = "TK_letter"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func names(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Name()
	}
	return out
}

func TestTokenizeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.src", "\ufeffx := 1;\r\nQ\r\n")

	timer := observ.NewTimer()
	res, err := Tokenize(context.Background(), path, Options{MaxDiagnostics: 10, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"TK_id", "TK_assign", "TK_int_lit", "TK_semicolon", "ERROR", "END_OF_FILE"}
	if got := names(res.Tokens); !slices.Equal(got, want) {
		t.Fatalf("tokens = %v", got)
	}
	if err := testkit.CheckTokenInvariants(res.File, res.Tokens); err != nil {
		t.Fatal(err)
	}
	if q := res.Tokens[4]; q.Pos.Line != 2 || q.Pos.Col != 1 {
		t.Fatalf("CRLF not normalised, Q at %s", q.Pos)
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.LexIllegalStart {
		t.Fatalf("diagnostics = %+v", res.Bag.Items())
	}
	if len(timer.Report().Phases) != 2 {
		t.Fatalf("phases = %+v", timer.Report().Phases)
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	_, err := Tokenize(context.Background(), filepath.Join(t.TempDir(), "nope.src"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}

type recordSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordSink) OnEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func TestTokenizeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.src", "b ")
	writeFile(t, dir, "a.src", "Q ")
	writeFile(t, dir, "sub/c.src", "c d ")
	writeFile(t, dir, "skip.txt", "x")

	sink := &recordSink{}
	fs, results, err := TokenizeDir(context.Background(), dir, Options{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	if fs.Len() != 3 || len(results) != 3 {
		t.Fatalf("files=%d results=%d", fs.Len(), len(results))
	}
	wantPaths := []string{"a.src", "b.src", filepath.Join("sub", "c.src")}
	for i, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		if rel != wantPaths[i] {
			t.Errorf("result %d path %s", i, rel)
		}
		if r.FileID != source.FileID(i) {
			t.Errorf("result %d has FileID %d, want ids in listing order", i, r.FileID)
		}
		if fs.Get(r.FileID) == nil || !r.Tokens[len(r.Tokens)-1].Kind.IsEOF() {
			t.Errorf("result %d malformed", i)
		}
		if err := testkit.CheckTokenInvariants(fs.Get(r.FileID), r.Tokens); err != nil {
			t.Errorf("result %d: %v", i, err)
		}
	}
	if !results[0].Bag.HasErrors() || results[1].Bag.HasErrors() {
		t.Fatal("error flags mismatch")
	}
	if got := len(results[2].Tokens); got != 3 {
		t.Fatalf("c.src tokens = %d", got)
	}

	final := map[string]Status{}
	for _, e := range sink.events {
		final[filepath.Base(e.File)] = e.Status
	}
	if final["a.src"] != StatusError || final["b.src"] != StatusDone || final["c.src"] != StatusDone {
		t.Fatalf("final statuses = %v", final)
	}
}

func TestTokenizeDirCustomExtensionsAndCancel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.pas", "x ")

	_, results, err := TokenizeDir(context.Background(), dir, Options{Extensions: []string{".pas"}})
	if err != nil || len(results) != 1 {
		t.Fatalf("results=%d err=%v", len(results), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := TokenizeDir(ctx, dir, Options{Extensions: []string{".pas"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadTableAndCache(t *testing.T) {
	ctx := context.Background()
	tab, err := LoadTable(ctx, "", nil)
	if err != nil || tab.Name != "builtin" {
		t.Fatalf("builtin: %v %v", tab, err)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "tiny.toml", tinyTable)
	cache, err := OpenTableCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	first, err := LoadTable(ctx, path, cache)
	if err != nil {
		t.Fatal(err)
	}
	entries, _ := filepath.Glob(filepath.Join(cache.Dir(), "tables", "*.mp"))
	if len(entries) != 1 {
		t.Fatalf("cache entries = %v", entries)
	}

	second, err := LoadTable(ctx, path, cache)
	if err != nil {
		t.Fatal(err)
	}
	if second.Name != first.Name || second.Rules.Quote != '\'' {
		t.Fatalf("cached table differs: %+v", second.Rules)
	}

	// битая запись кэша не мешает загрузке
	if err := os.WriteFile(entries[0], []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTable(ctx, path, cache); err != nil {
		t.Fatalf("corrupt cache: %v", err)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if entries, _ := filepath.Glob(filepath.Join(cache.Dir(), "tables", "*.mp")); len(entries) != 0 {
		t.Fatalf("DropAll left %v", entries)
	}
}

func TestLoadTableErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.toml", "name = \"x\"\nbogus = 1\n")
	if _, err := LoadTable(context.Background(), bad, nil); err == nil {
		t.Fatal("expected unknown key error")
	}
	if _, err := LoadTable(context.Background(), filepath.Join(dir, "none.toml"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}
