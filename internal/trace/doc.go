// Package trace provides structured tracing for dfalex.
//
// It tracks table loading, per-file tokenization and individual lexical
// errors, so slow inputs and surprising token streams can be diagnosed
// without a debugger.
//
// # Usage
//
//	dfalex tokenize --trace=- --trace-level=detail prog.src
//
// # Architecture
//
//   - Nop: records nothing
//   - Stream: writes each event to a file or stderr, text or NDJSON
//   - Ring: keeps the last N events in memory and dumps them at exit
//
// # Levels and scopes
//
// Point events mark problems and pass at every level above off. LevelPhase
// adds driver and pass spans, LevelDetail per-file spans, LevelDebug the rest.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "tokenize_dir", trace.ParentFrom(ctx))
//	ctx = trace.WithParent(ctx, span.ID())
//	defer span.End("")
package trace
