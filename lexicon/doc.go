// Package lexicon loads concept and combined-pattern definitions from their
// source formats (concept CSV, pattern JSON) and moves them between the
// persistent repository and the in-memory ConceptDatabase.
package lexicon
