// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/lexlink/core"
	"github.com/poiesic/lexlink/storage"
)

// LexiconRepository implements storage.LexiconRepository backed by BadgerDB.
type LexiconRepository struct {
	*Backend
}

var _ storage.LexiconRepository = (*LexiconRepository)(nil)

// NewLexiconRepository creates a lexicon repository on top of a backend.
func NewLexiconRepository(backend *Backend) *LexiconRepository {
	return &LexiconRepository{Backend: backend}
}

// PutConcepts stores one or more concepts, keyed by CUI. Each concept is
// validated before anything is written; a failed validation leaves the store
// untouched.
func (r *LexiconRepository) PutConcepts(ctx context.Context, concepts ...*core.Concept) error {
	for _, concept := range concepts {
		if err := core.ValidateConcept(concept); err != nil {
			return err
		}
	}

	return r.WithTx(func(tx *badger.Txn) error {
		for _, concept := range concepts {
			data := storage.MarshalConcept(concept)
			if err := tx.Set(makeConceptKey(concept.CUI), data); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
			}
		}
		return tx.Commit()
	}, true)
}

// GetConcept retrieves a single concept by CUI.
func (r *LexiconRepository) GetConcept(ctx context.Context, cui core.CUI) (*core.Concept, error) {
	var concept *core.Concept

	err := r.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeConceptKey(cui))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: concept %s", storage.ErrNotFound, cui)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			concept, err = storage.UnmarshalConcept(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}

	return concept, nil
}

// AllConcepts retrieves every stored concept. Keys embed the CUI, so the
// prefix iteration yields concepts already ordered by CUI.
func (r *LexiconRepository) AllConcepts(ctx context.Context) ([]*core.Concept, error) {
	var concepts []*core.Concept

	err := r.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(conceptPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				concept, err := storage.UnmarshalConcept(val)
				if err != nil {
					return err
				}
				concepts = append(concepts, concept)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return concepts, nil
}

// DeleteConcepts removes concepts by CUI.
func (r *LexiconRepository) DeleteConcepts(ctx context.Context, cuis ...core.CUI) error {
	return r.WithTx(func(tx *badger.Txn) error {
		for _, cui := range cuis {
			key := makeConceptKey(cui)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: concept %s", storage.ErrNotFound, cui)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
			}
		}
		return tx.Commit()
	}, true)
}

// PutPatterns stores one or more combined patterns, keyed by their
// content-derived identity.
func (r *LexiconRepository) PutPatterns(ctx context.Context, patterns ...*core.CombinedPattern) error {
	for _, pattern := range patterns {
		if err := core.ValidatePattern(pattern); err != nil {
			return err
		}
	}

	return r.WithTx(func(tx *badger.Txn) error {
		for _, pattern := range patterns {
			data := storage.MarshalPattern(pattern)
			if err := tx.Set(makePatternKey(pattern.ID()), data); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
			}
		}
		return tx.Commit()
	}, true)
}

// ReplaceLexicon swaps the stored lexicon for the given concepts and
// patterns in a single transaction. Stale records, those stored under a key
// the new lexicon does not produce, are deleted before the new records are
// written, so a reopened store never resurrects concepts from an earlier
// seed. Validation runs up front; a failed validation leaves the store
// untouched.
func (r *LexiconRepository) ReplaceLexicon(ctx context.Context, concepts []*core.Concept, patterns []*core.CombinedPattern) error {
	for _, concept := range concepts {
		if err := core.ValidateConcept(concept); err != nil {
			return err
		}
	}
	for _, pattern := range patterns {
		if err := core.ValidatePattern(pattern); err != nil {
			return err
		}
	}

	keep := make(map[string]struct{}, len(concepts)+len(patterns))
	for _, concept := range concepts {
		keep[string(makeConceptKey(concept.CUI))] = struct{}{}
	}
	for _, pattern := range patterns {
		keep[string(makePatternKey(pattern.ID()))] = struct{}{}
	}

	return r.WithTx(func(tx *badger.Txn) error {
		var stale [][]byte
		for _, prefix := range []string{conceptPrefix + ":", patternPrefix + ":"} {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefix)
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)
			for iter.Rewind(); iter.Valid(); iter.Next() {
				key := iter.Item().KeyCopy(nil)
				if _, ok := keep[string(key)]; !ok {
					stale = append(stale, key)
				}
			}
			iter.Close()
		}

		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
			}
		}
		for _, concept := range concepts {
			data := storage.MarshalConcept(concept)
			if err := tx.Set(makeConceptKey(concept.CUI), data); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
			}
		}
		for _, pattern := range patterns {
			data := storage.MarshalPattern(pattern)
			if err := tx.Set(makePatternKey(pattern.ID()), data); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
			}
		}
		return tx.Commit()
	}, true)
}

// AllPatterns retrieves every stored pattern.
func (r *LexiconRepository) AllPatterns(ctx context.Context) ([]*core.CombinedPattern, error) {
	var patterns []*core.CombinedPattern

	err := r.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(patternPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				pattern, err := storage.UnmarshalPattern(val)
				if err != nil {
					return err
				}
				patterns = append(patterns, pattern)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return patterns, nil
}

// DeletePatterns removes patterns by their content identity.
func (r *LexiconRepository) DeletePatterns(ctx context.Context, ids ...core.ID) error {
	return r.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePatternKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: pattern %d", storage.ErrNotFound, id)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
			}
		}
		return tx.Commit()
	}, true)
}
