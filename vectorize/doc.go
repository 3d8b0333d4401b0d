// Package vectorize fills in concept embedding vectors. It walks the stored
// lexicon in batches, embeds each concept's preferred name with retry and
// progress reporting, and writes the normalized vectors back so the semantic
// fallback index has something to search.
package vectorize
