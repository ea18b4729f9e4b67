// Package fuzztests houses Go fuzz harnesses for the tokenizer and the table
// loader. They guard against panics and hangs on arbitrary inputs and check
// the cursor invariants on every token.
//
// Назначение: гонять произвольные байты через FileSet и лексер, а произвольный
// TOML через automaton.Parse.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/automaton,
// internal/diag.

package fuzztests
