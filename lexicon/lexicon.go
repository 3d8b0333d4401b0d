package lexicon

import (
	"context"

	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
	"github.com/poiesic/lexlink/storage"
)

// Load reads a concept CSV and an optional pattern JSON file and builds a
// ConceptDatabase directly, without touching persistent storage. patternsPath
// may be empty.
func Load(conceptsPath, patternsPath string) (*cdb.ConceptDatabase, error) {
	records, err := ReadConceptsFile(conceptsPath)
	if err != nil {
		return nil, err
	}

	var patterns []*core.CombinedPattern
	if patternsPath != "" {
		patterns, err = ReadPatternsFile(patternsPath)
		if err != nil {
			return nil, err
		}
	}

	return cdb.Build(records, patterns)
}

// Seed builds a ConceptDatabase from records and patterns and replaces the
// stored lexicon with the merged concepts and normalized patterns. Stored
// records absent from the new lexicon are removed, so a reopened store
// rebuilds exactly the database Seed returned. The build runs first so
// nothing is persisted from an invalid lexicon.
func Seed(ctx context.Context, repo storage.LexiconRepository, records []cdb.Record, patterns []*core.CombinedPattern) (*cdb.ConceptDatabase, error) {
	db, err := cdb.Build(records, patterns)
	if err != nil {
		return nil, err
	}

	if err := repo.ReplaceLexicon(ctx, db.Concepts(), db.Patterns()); err != nil {
		return nil, err
	}

	return db, nil
}

// LoadStored rebuilds a ConceptDatabase from the concepts and patterns held
// in the repository.
func LoadStored(ctx context.Context, repo storage.LexiconRepository) (*cdb.ConceptDatabase, error) {
	concepts, err := repo.AllConcepts(ctx)
	if err != nil {
		return nil, err
	}
	patterns, err := repo.AllPatterns(ctx)
	if err != nil {
		return nil, err
	}
	return cdb.BuildFromConcepts(concepts, patterns)
}
