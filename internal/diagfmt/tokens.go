package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"dfalex/internal/source"
	"dfalex/internal/token"
)

// TokenOutput — один токен в JSON.
type TokenOutput struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   uint32 `json:"line"`
	Col    uint32 `json:"col"`
	Code   int    `json:"code"`
	Error  string `json:"error,omitempty"`
}

// FileTokensOutput groups the tokens and diagnostics of one file.
type FileTokensOutput struct {
	File        string           `json:"file"`
	Tokens      []TokenOutput    `json:"tokens"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, file *source.File, opts TokenOpts) error {
	if file != nil {
		header := fmt.Sprintf("%s (%d tokens)", file.FormatPath(opts.PathMode.style(), ""), len(tokens))
		if opts.Color {
			header = headerStyle.Render(header)
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
	}

	for i, tok := range tokens {
		name := fmt.Sprintf("%-14s", tok.Name())
		if opts.Color && tok.Kind == token.Error {
			name = errorStyle.Render(name)
		}
		if _, err := fmt.Fprintf(w, "%4d: %s %-8s %4d  %q\n", i+1, name, tok.Pos, tok.Code(), tok.Lexeme); err != nil {
			return err
		}
		if tok.Kind.IsEOF() {
			break
		}
	}
	return nil
}

// BuildTokensOutput converts tokens up to the first END_OF_FILE.
func BuildTokensOutput(tokens []token.Token) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		to := TokenOutput{
			Name:   tok.Name(),
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Pos.Line,
			Col:    tok.Pos.Col,
			Code:   tok.Code(),
		}
		if tok.Err != nil {
			to.Error = tok.Err.Error()
		}
		out = append(out, to)
		if tok.Kind.IsEOF() {
			break
		}
	}
	return out
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensOutput(tokens))
}

// FormatFilesJSON writes one document for a multi-file run.
func FormatFilesJSON(w io.Writer, files []FileTokensOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(files)
}
