// Package core defines the domain model shared by all lexlink packages:
// concepts, combined patterns, tokenized documents, candidate spans, and
// finalized annotations, together with their validation rules and the MUS
// serializers used by the lexicon store.
package core
