// Package semantic implements the vector-similarity fallback: an exact
// nearest-neighbor index over concept embeddings plus a guarded backend that
// pairs the index with an embedder. The fallback only ever fills text regions
// the lexical matchers left uncovered; a hit below the similarity floor is
// discarded, never guessed.
package semantic
