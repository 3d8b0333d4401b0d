// Package storage defines the persistence interfaces for the lexicon and the
// binary serialization shared by all backends. The badger sub-package is the
// shipped implementation.
package storage
