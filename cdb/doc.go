// Package cdb builds and serves the concept database: an immutable,
// read-optimized index from normalized concept names to concept identifiers,
// plus per-concept metadata (preferred name, semantic types, observed
// frequency) and the registered combined patterns.
//
// A database is built once and then only read; concurrent matching sessions
// share one instance without locking. Reloading the lexicon produces a new
// instance which callers swap in atomically.
package cdb
