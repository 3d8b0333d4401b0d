// Package token provides an offset-preserving tokenizer used by the CLI and
// tests. Production callers may substitute any tokenizer that yields valid
// character offsets.
package token
