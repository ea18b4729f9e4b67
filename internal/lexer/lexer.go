package lexer

import (
	"dfalex/internal/automaton"
	"dfalex/internal/source"
	"dfalex/internal/token"
)

// Lexer owns a cursor over one file and hands out tokens with one token of
// lookahead.
type Lexer struct {
	tz     *Tokenizer
	cursor *Cursor
	look   *token.Token
}

// New builds a Lexer for file over tab. opts.File is set to file.ID.
func New(file *source.File, tab *automaton.Table, opts Options) *Lexer {
	opts.File = file.ID
	return &Lexer{
		tz:     FromTable(tab, opts),
		cursor: NewCursor(file.Buffer()),
	}
}

// Next returns the next token. After END_OF_FILE it keeps returning it.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.tz.Next(lx.cursor)
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.tz.Next(lx.cursor)
		lx.look = &tok
	}
	return *lx.look
}

// Cursor exposes the underlying cursor.
func (lx *Lexer) Cursor() *Cursor { return lx.cursor }

// All drains cur into a slice ending with the first END_OF_FILE token.
func All(tz *Tokenizer, cur *Cursor) []token.Token {
	var out []token.Token
	for {
		tok := tz.Next(cur)
		out = append(out, tok)
		if tok.Kind.IsEOF() {
			return out
		}
	}
}
