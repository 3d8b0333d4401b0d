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

package lexlink

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/lexlink/annotate"
	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
	"github.com/poiesic/lexlink/lexicon"
	"github.com/poiesic/lexlink/storage"
	badgerstore "github.com/poiesic/lexlink/storage/badger"
)

// Engine ties the persistent lexicon to the matching pipeline. It owns the
// storage backend and the current in-memory ConceptDatabase; annotators are
// built against a snapshot of the lexicon and stay valid across reseeds.
type Engine struct {
	backend *badgerstore.Backend
	repo    storage.LexiconRepository
	logger  *slog.Logger

	mu sync.RWMutex
	db *cdb.ConceptDatabase
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemoryStore keeps the lexicon in memory instead of on disk. Intended
// for tests and ephemeral runs.
func WithInMemoryStore() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open opens the lexicon store at filePath and rebuilds the concept database
// from whatever it holds. An empty store yields an empty, usable lexicon.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default().With("component", "engine")
	}

	backend, err := badgerstore.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	repo := badgerstore.NewLexiconRepository(backend)

	db, err := lexicon.LoadStored(context.Background(), repo)
	if err != nil {
		backend.Close()
		return nil, err
	}

	options.logger.Info("lexicon loaded",
		"concepts", db.Len(),
		"patterns", len(db.Patterns()))

	return &Engine{
		backend: backend,
		repo:    repo,
		logger:  options.logger,
		db:      db,
	}, nil
}

// Close closes the storage backend.
func (e *Engine) Close() error {
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Lexicon returns the current concept database snapshot.
func (e *Engine) Lexicon() *cdb.ConceptDatabase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.db
}

// Repository exposes the underlying lexicon repository.
func (e *Engine) Repository() storage.LexiconRepository {
	return e.repo
}

// Seed replaces the stored lexicon and swaps in the rebuilt concept
// database. Concepts and patterns from earlier seeds that are absent from
// records are removed from storage. Annotators created earlier keep the
// snapshot they were built with.
func (e *Engine) Seed(ctx context.Context, records []cdb.Record, patterns []*core.CombinedPattern) error {
	db, err := lexicon.Seed(ctx, e.repo, records, patterns)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.db = db
	e.mu.Unlock()

	e.logger.Info("lexicon seeded",
		"concepts", db.Len(),
		"patterns", len(db.Patterns()))
	return nil
}

// NewAnnotator builds an annotator against the current lexicon snapshot.
func (e *Engine) NewAnnotator(opts ...annotate.Option) (*annotate.Annotator, error) {
	return annotate.NewAnnotator(e.Lexicon(), opts...)
}

// NewBatch builds a pooled batch annotator against the current lexicon
// snapshot.
func (e *Engine) NewBatch(annotatorOpts []annotate.Option, batchOpts ...annotate.BatchOption) (*annotate.Batch, error) {
	annotator, err := e.NewAnnotator(annotatorOpts...)
	if err != nil {
		return nil, err
	}
	return annotate.NewBatch(annotator, batchOpts...)
}
