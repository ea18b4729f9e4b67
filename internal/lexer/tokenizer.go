package lexer

import (
	"strconv"

	"dfalex/internal/automaton"
	"dfalex/internal/diag"
	"dfalex/internal/source"
	"dfalex/internal/token"
	"dfalex/internal/trace"
)

// Tokenizer produces one token per Next call from a shared Cursor.
// It only reads the automaton; one Tokenizer may serve many cursors
// sequentially, but a single cursor must not be used concurrently.
type Tokenizer struct {
	classify automaton.Classifier
	step     automaton.Transitioner
	accept   automaton.Acceptor
	rules    automaton.Rules
	opts     Options
	// maxReserved < 0: граница неизвестна, проверяем каждую лексему
	maxReserved int
}

// NewTokenizer assembles a tokenizer from the three automaton capabilities.
func NewTokenizer(c automaton.Classifier, t automaton.Transitioner, a automaton.Acceptor, rules automaton.Rules, opts Options) *Tokenizer {
	tz := &Tokenizer{classify: c, step: t, accept: a, rules: rules, opts: opts, maxReserved: -1}
	if b, ok := a.(automaton.ReservedBound); ok {
		tz.maxReserved = b.MaxReservedLen()
	}
	return tz
}

// FromTable uses tab for every capability and its Rules.
func FromTable(tab *automaton.Table, opts Options) *Tokenizer {
	return NewTokenizer(tab, tab, tab, tab.Rules, opts)
}

// scan — состояние одного вызова Next.
type scan struct {
	cur    *Cursor
	lexeme []rune
	line   int // начало лексемы, 0-based
	col    int
}

func (s *scan) push(r rune) { s.lexeme = append(s.lexeme, r) }

// pushBack отдаёт последний символ обратно курсору и убирает его из лексемы.
func (s *scan) pushBack() {
	s.lexeme = s.lexeme[:len(s.lexeme)-1]
	s.cur.Rewind()
}

// pos is the 1-based start of the lexeme. For a lexeme on a single line this
// equals cursor column - len(lexeme) + 1.
func (s *scan) pos() source.Pos {
	return source.Pos{Line: toU32(s.line + 1), Col: toU32(s.col + 1)}
}

// Next returns the next token. After END_OF_FILE with an empty lexeme every
// further call returns the same END_OF_FILE without moving the cursor.
func (tz *Tokenizer) Next(cur *Cursor) token.Token {
	sc := &scan{cur: cur}

	r, ok := cur.Next()
	for ok && automaton.IsSpace(r) {
		r, ok = cur.Next()
	}
	if !ok {
		sc.line, sc.col = cur.Line(), cur.Col()
		return tz.finish(sc, token.Token{Kind: token.EOF})
	}
	sc.line, sc.col = cur.Line(), cur.Col()-1
	sc.push(r)

	c := tz.classify.Classify(r)
	switch {
	case tz.rules.InvalidStart.Contains(c):
		return tz.illegalStart(sc, r)
	case !c.Digit && r == tz.rules.Quote:
		return tz.stringLit(sc)
	}
	return tz.walk(sc, r, c)
}

// illegalStart consumes the rest of the run up to whitespace or end of input.
// The whitespace itself is given back.
func (tz *Tokenizer) illegalStart(sc *scan, first rune) token.Token {
	for {
		r, ok := sc.cur.Next()
		if !ok {
			break
		}
		if automaton.IsSpace(r) {
			sc.cur.Rewind()
			break
		}
		sc.push(r)
	}
	return tz.fail(sc, &token.LexError{Kind: token.IllegalStart, Char: first})
}

// stringLit reads up to the second quote on the same line.
func (tz *Tokenizer) stringLit(sc *scan) token.Token {
	for quotes := 1; quotes < 2; {
		r, ok := sc.cur.Next()
		if !ok {
			// конец ввода: ничего не отдаём, иначе потерялся бы префикс
			return tz.fail(sc, &token.LexError{Kind: token.UnterminatedString})
		}
		sc.push(r)
		if r == '\n' {
			sc.pushBack()
			return tz.fail(sc, &token.LexError{Kind: token.UnterminatedString})
		}
		if r == tz.rules.Quote {
			quotes++
		}
	}
	return tz.finish(sc, token.Token{Kind: token.String})
}

// walk runs the automaton from the initial state; first has already been
// read and classified as c.
func (tz *Tokenizer) walk(sc *scan, first rune, c automaton.Class) token.Token {
	state := tz.step.Step(tz.rules.Initial, c)
	if state == automaton.NoTransition {
		return tz.fail(sc, &token.LexError{Kind: token.NoTransition, State: int(automaton.NoTransition), Char: first})
	}

	for {
		if word, ok := tz.reservedMatch(sc.lexeme); ok {
			return tz.finish(sc, token.Token{Kind: token.Reserved, Label: word, State: int(state)})
		}

		if kind, ok := tz.accept.Final(state); ok {
			// пустая лексема зациклила бы вызывающего
			if tz.accept.Back(state) && len(sc.lexeme) > 1 {
				sc.pushBack()
			}
			return tz.finish(sc, token.Token{Kind: token.Final, Label: kind, State: int(state)})
		}

		r, ok := sc.cur.Next()
		if !ok {
			return tz.finish(sc, token.Token{Kind: token.EOF})
		}
		sc.push(r)
		c = tz.classify.Classify(r)

		if state == tz.rules.IdentTailState && !tz.rules.IdentTailChars.Contains(c) {
			sc.pushBack()
			return tz.fail(sc, &token.LexError{Kind: token.IllegalIdentTail, State: int(state), Char: r})
		}

		prev := state
		state = tz.step.Step(state, c)
		if state == automaton.NoTransition {
			sc.pushBack()
			if tz.rules.IsOperatorState(prev) {
				return tz.fail(sc, &token.LexError{Kind: token.BadOperator, State: int(prev), Char: r})
			}
			return tz.fail(sc, &token.LexError{Kind: token.NoTransition, State: int(automaton.NoTransition), Char: r})
		}
	}
}

// reservedMatch reports whether the lexeme read so far is a reserved word.
// It runs before final-state acceptance on every iteration, so a reserved
// prefix wins over a longer identifier.
func (tz *Tokenizer) reservedMatch(lexeme []rune) (string, bool) {
	if tz.maxReserved >= 0 && len(lexeme) > tz.maxReserved {
		return "", false
	}
	word := string(lexeme)
	return word, tz.accept.Reserved(word)
}

func (tz *Tokenizer) fail(sc *scan, err *token.LexError) token.Token {
	return tz.finish(sc, token.Token{Kind: token.Error, Err: err})
}

// finish stamps lexeme and position and reports problems.
func (tz *Tokenizer) finish(sc *scan, tok token.Token) token.Token {
	tok.Lexeme = string(sc.lexeme)
	tok.Pos = sc.pos()

	switch {
	case tok.Kind == token.Error:
		tz.report(diag.SevError, errorCode(tok.Err.Kind), sc, tok.Err.Error(), tok)
	case tok.Truncated():
		tz.report(diag.SevWarning, diag.LexTruncatedToken, sc, "input ends in the middle of a token", tok)
	}
	return tok
}

func (tz *Tokenizer) report(sev diag.Severity, code diag.Code, sc *scan, msg string, tok token.Token) {
	span := source.Span{File: tz.opts.File, Start: tok.Pos, Len: toU32(len(sc.lexeme))}
	if tz.opts.Reporter != nil {
		diag.NewReportBuilder(tz.opts.Reporter, sev, code, span, msg).Emit()
	}
	if t := tz.opts.tracer(); trace.Enabled(t) {
		trace.Point(t, trace.ScopeToken, tok.Name(), msg, tz.opts.TraceParent, map[string]string{
			"pos":  tok.Pos.String(),
			"code": strconv.Itoa(tok.Code()),
		})
	}
}

func errorCode(k token.ErrorKind) diag.Code {
	switch k {
	case token.IllegalStart:
		return diag.LexIllegalStart
	case token.UnterminatedString:
		return diag.LexUnterminatedStr
	case token.BadOperator:
		return diag.LexBadOperator
	case token.IllegalIdentTail:
		return diag.LexIllegalIdentTail
	case token.NoTransition:
		return diag.LexNoTransition
	default:
		return diag.UnknownCode
	}
}
