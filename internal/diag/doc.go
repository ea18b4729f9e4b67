// Package diag defines the diagnostic model shared by the tokenizer, the
// table loader and the driver.
//
// # Purpose
//
//   - Provide deterministic, serialisable records of lexical findings.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does no IO. Coloured and JSON rendering lives in
// internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span of the offending lexeme.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Emitting diagnostics
//
// The tokenizer holds a diag.Reporter and emits through NewReportBuilder.
// BagReporter collects into a Bag, which keeps a limit and counts what it
// had to drop. FormatShort renders a bag as grep-friendly lines.
package diag
