// Package automaton holds the read-only data the tokenizer walks: the
// character classifier, the transition table and the reserved-word,
// final-state and back-state sets, plus the per-language rules (quote
// delimiter, forbidden identifier starts, identifier-tail alphabet and the
// operator states that need a second character).
//
// Tables are authored as TOML (see default.toml for the builtin language)
// and validated once on load. A loaded table can be snapshotted to msgpack
// via Compile so repeated runs skip TOML decoding.
//
// Invariants:
//   - Digits '0'..'9' are always reclassified to digit classes; a table never
//     sees a raw digit rune.
//   - NoTransition is the only "stuck" value; Step never panics.
//   - Every back state is also a final state.
package automaton
