package storage

import (
	"context"

	"github.com/poiesic/lexlink/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// LexiconRepository persists the concept and pattern records a concept
// database is built from. It is the durable side of the lexicon: matching
// itself always runs against an in-memory ConceptDatabase rebuilt from these
// records.
type LexiconRepository interface {
	Repository

	// PutConcepts stores one or more concepts, keyed by CUI.
	// Existing concepts with the same CUI are overwritten.
	PutConcepts(ctx context.Context, concepts ...*core.Concept) error

	// GetConcept retrieves a single concept by CUI.
	// Returns ErrNotFound if the concept doesn't exist.
	GetConcept(ctx context.Context, cui core.CUI) (*core.Concept, error)

	// AllConcepts retrieves every stored concept, ordered by CUI.
	AllConcepts(ctx context.Context) ([]*core.Concept, error)

	// DeleteConcepts removes concepts by CUI.
	// Returns ErrNotFound if any concept doesn't exist.
	DeleteConcepts(ctx context.Context, cuis ...core.CUI) error

	// PutPatterns stores one or more combined patterns, keyed by their
	// content-derived identity. Storing the same pattern twice is idempotent.
	PutPatterns(ctx context.Context, patterns ...*core.CombinedPattern) error

	// ReplaceLexicon atomically replaces the stored lexicon with the given
	// concepts and patterns. Stored records absent from the new lexicon are
	// removed in the same transaction.
	ReplaceLexicon(ctx context.Context, concepts []*core.Concept, patterns []*core.CombinedPattern) error

	// AllPatterns retrieves every stored pattern.
	AllPatterns(ctx context.Context) ([]*core.CombinedPattern, error)

	// DeletePatterns removes patterns by their content identity.
	// Returns ErrNotFound if any pattern doesn't exist.
	DeletePatterns(ctx context.Context, ids ...core.ID) error
}
