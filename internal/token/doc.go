// Package token defines the values produced by the tokenizer.
// Invariants:
//   - A Token is fully populated by one tokenizer call and never mutated.
//   - Token.Lexeme is exactly the characters consumed for the token.
//   - Token.Pos is the 1-based line and column of the first lexeme character.
//   - Kind Error always carries a non-nil Err; other kinds never do.
package token
