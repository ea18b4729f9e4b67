package lexer

import (
	"dfalex/internal/diag"
	"dfalex/internal/source"
	"dfalex/internal/trace"
)

type Options struct {
	// File is stamped into diagnostic spans.
	File source.FileID
	// Reporter может быть nil — тогда ошибки только возвращаются токенами.
	Reporter diag.Reporter
	// Tracer receives token-scope events for error tokens; nil means trace.Nop.
	Tracer trace.Tracer
	// TraceParent is the span id error events are attached to.
	TraceParent uint64
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}
