package driver

import (
	"context"
	"fmt"
	"strconv"

	"dfalex/internal/automaton"
	"dfalex/internal/diag"
	"dfalex/internal/lexer"
	"dfalex/internal/source"
	"dfalex/internal/token"
	"dfalex/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize загружает один файл и токенизирует его до END_OF_FILE.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	loadLap := opts.Timer.Start("load_file")
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	loadLap.Stop("")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.MaxDiagnostics)
	tokLap := opts.Timer.Start("tokenize")
	tokens := tokenizeFile(ctx, file, opts.table(), bag)
	tokLap.Stop(fmt.Sprintf("tokens=%d", len(tokens)))

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

// tokenizeFile runs one tokenizer over file, reporting into bag.
func tokenizeFile(ctx context.Context, file *source.File, tab *automaton.Table, bag *diag.Bag) []token.Token {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "tokenize_file", trace.ParentFrom(ctx))
	span.With("path", file.Path)

	lx := lexer.New(file, tab, lexer.Options{
		Reporter:    diag.BagReporter{Bag: bag},
		Tracer:      tracer,
		TraceParent: span.ID(),
	})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind.IsEOF() {
			break
		}
	}

	span.With("tokens", strconv.Itoa(len(tokens)))
	span.End(fmt.Sprintf("diags=%d", bag.Len()))
	return tokens
}
