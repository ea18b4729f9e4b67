package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dfalex/internal/automaton"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd, finish := newRootCmd()
	defer finish()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestTokenizeFilePretty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.src", "x := 12;\n")
	stdout, stderr, err := runCLI(t, "tokenize", "--ui", "off", path)
	if err != nil {
		t.Fatalf("tokenize: %v\nstderr: %s", err, stderr)
	}
	for _, want := range []string{
		"a.src (5 tokens)",
		`TK_id          1:1        33  "x"`,
		`TK_assign      1:3        17  ":="`,
		"END_OF_FILE",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestTokenizeFileReportsErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.src", "x Qq y\n")
	stdout, stderr, err := runCLI(t, "tokenize", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(stderr, "ERROR LEX1001") {
		t.Errorf("stderr missing LEX1001:\n%s", stderr)
	}
	if !strings.Contains(stdout, `"Qq"`) {
		t.Errorf("stdout missing error token:\n%s", stdout)
	}
}

func TestTokenizeZeroDiagnosticLimitStillFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.src", "Abc } :x")
	for _, target := range []string{path, dir} {
		stdout, stderr, err := runCLI(t, "tokenize", "--ui", "off", "--max-diagnostics", "0", target)
		if !errors.Is(err, errReported) {
			t.Fatalf("%s: expected errReported, got %v", target, err)
		}
		if !strings.Contains(stdout, "ERROR") {
			t.Errorf("%s: stdout lacks ERROR tokens:\n%s", target, stdout)
		}
		if strings.Contains(stderr, "LEX1001") || !strings.Contains(stderr, "more diagnostics not shown") {
			t.Errorf("%s: limit 0 must hide diagnostics:\n%s", target, stderr)
		}
	}
}

func TestTokenizeShortDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.src", "Q\nx := \"open\n")
	_, stderr, err := runCLI(t, "tokenize", "--diag-format", "short", "--max-diagnostics", "1", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) != 2 {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
	if !strings.HasPrefix(lines[0], "error LEX1001 ") || !strings.Contains(lines[0], "bad.src:1:1 ") {
		t.Errorf("unexpected short line %q", lines[0])
	}
	if !strings.Contains(lines[1], "1 more diagnostics not shown") {
		t.Errorf("missing dropped note: %q", lines[1])
	}
}

func TestTokenizeFileJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.src", "if x;")
	stdout, _, err := runCLI(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var toks []struct {
		Name   string `json:"name"`
		Lexeme string `json:"lexeme"`
	}
	if err := json.Unmarshal([]byte(stdout), &toks); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(toks) != 4 || toks[0].Name != "TK_if" || toks[3].Name != "END_OF_FILE" {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestTokenizeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.src", "x;")
	writeFile(t, dir, "b.src", "y;")
	writeFile(t, dir, "skip.txt", "Q")

	stdout, stderr, err := runCLI(t, "tokenize", "--ui", "off", dir)
	if err != nil {
		t.Fatalf("tokenize dir: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "a.src (3 tokens)") || !strings.Contains(stdout, "b.src (3 tokens)") {
		t.Errorf("unexpected stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "2 files, 6 tokens, 0 errors, 0 warnings") {
		t.Errorf("unexpected summary:\n%s", stderr)
	}

	stdout, _, err = runCLI(t, "tokenize", "--format", "json", "--ext", ".txt", dir)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported for .txt run, got %v", err)
	}
	var files []struct {
		File        string            `json:"file"`
		Diagnostics []json.RawMessage `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(stdout), &files); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(files) != 1 || files[0].File != "skip.txt" || len(files[0].Diagnostics) != 1 {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestTokenizeCustomTableWithCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	tablePath := writeFile(t, dir, "table.toml", string(automaton.DefaultSource()))
	src := writeFile(t, dir, "a.src", "begin end")

	for range 2 {
		stdout, stderr, err := runCLI(t, "tokenize", "--table", tablePath, src)
		if err != nil {
			t.Fatalf("tokenize: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, "TK_begin") {
			t.Fatalf("stdout missing TK_begin:\n%s", stdout)
		}
	}
	entries, err := os.ReadDir(filepath.Join(os.Getenv("XDG_CACHE_HOME"), "dfalex"))
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("compiled table was not cached")
	}
}

func TestTokenizeRejectsBadFlags(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.src", "x")
	tests := [][]string{
		{"tokenize", "--format", "xml", path},
		{"tokenize", "--ui", "maybe", path},
		{"tokenize", filepath.Join(t.TempDir(), "missing.src")},
	}
	for _, args := range tests {
		if _, _, err := runCLI(t, args...); err == nil || errors.Is(err, errReported) {
			t.Errorf("%v: expected a usage error, got %v", args, err)
		}
	}
}

func TestTableCheck(t *testing.T) {
	stdout, _, err := runCLI(t, "table", "check")
	if err != nil {
		t.Fatalf("check builtin: %v", err)
	}
	if !strings.HasPrefix(stdout, "<builtin>: ok") {
		t.Errorf("unexpected stdout: %q", stdout)
	}

	bad := writeFile(t, t.TempDir(), "bad.toml", `
initial = 0
quote = "\""
reserved = ["If"]

[[edge]]
from = 0
on = "a-z"
to = 7
`)
	_, stderr, err := runCLI(t, "table", "check", bad)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected one line per problem, got:\n%s", stderr)
	}
	for _, line := range lines {
		if !strings.Contains(line, "ERROR TBL2001: ") {
			t.Errorf("line without code: %q", line)
		}
	}
}

func TestTableDumpRoundTrip(t *testing.T) {
	stdout, _, err := runCLI(t, "table", "dump")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	tab, err := automaton.Parse("dump", []byte(stdout))
	if err != nil {
		t.Fatalf("reparse dump: %v\n%s", err, stdout)
	}
	want := automaton.Default()
	if got, exp := len(tab.FinalStates()), len(want.FinalStates()); got != exp {
		t.Errorf("final states: got %d, want %d", got, exp)
	}
	if got, exp := strings.Join(tab.ReservedWords(), ","), strings.Join(want.ReservedWords(), ","); got != exp {
		t.Errorf("reserved: got %s, want %s", got, exp)
	}
}

func TestTableCacheClean(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	stale := filepath.Join(cacheHome, "dfalex", "stale.mp")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Dir(stale), "stale.mp", "x")
	if _, _, err := runCLI(t, "table", "cache", "clean"); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("cache entry survived: %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := runCLI(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "dfalex" || payload.Version != "0.3.0-dev" {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if payload.GitCommit == "" || payload.BuildDate == "" {
		t.Errorf("--full must fill commit and date: %+v", payload)
	}
}

func TestTraceAndProfileFlags(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "bad.src", "x Q")
	tracePath := filepath.Join(dir, "trace.ndjson")
	memPath := filepath.Join(dir, "mem.out")

	_, _, err := runCLI(t, "--trace", tracePath, "--trace-level", "debug", "--trace-format", "ndjson",
		"--mem-profile", memPath, "tokenize", src)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"load_table", "tokenize_file", "ERROR"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("trace missing %q:\n%s", want, data)
		}
	}
	if info, err := os.Stat(memPath); err != nil || info.Size() == 0 {
		t.Errorf("heap profile not written: %v", err)
	}
}
