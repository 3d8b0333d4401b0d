// Package badger implements the lexicon repository on BadgerDB.
package badger
