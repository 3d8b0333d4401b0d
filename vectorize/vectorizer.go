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

package vectorize

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/lexlink/ai"
	"github.com/poiesic/lexlink/core"
	"github.com/poiesic/lexlink/storage"
)

const (
	// DefaultBatchSize is the default number of concepts embedded per call.
	DefaultBatchSize = 100
)

// Config holds vectorization settings.
type Config struct {
	BatchSize      int
	ReportInterval int
	MaxRetries     int
	RetryDelay     time.Duration
	// Force re-embeds concepts that already carry a vector.
	Force bool
}

// DefaultConfig returns the default vectorization configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Vectorizer embeds each concept's preferred name and stores the resulting
// unit vector back on the concept. The semantic fallback index is built from
// these vectors.
type Vectorizer struct {
	repo     storage.LexiconRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewVectorizer creates a vectorizer.
// progress: where to write progress output (typically os.Stderr)
func NewVectorizer(repo storage.LexiconRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Vectorizer {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}

	return &Vectorizer{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
	}
}

// Run embeds every stored concept that needs a vector and writes the updated
// concepts back. Progress is reported to the configured writer.
func (v *Vectorizer) Run(ctx context.Context) error {
	all, err := v.repo.AllConcepts(ctx)
	if err != nil {
		return fmt.Errorf("failed to query concepts: %w", err)
	}

	pending := make([]*core.Concept, 0, len(all))
	for _, concept := range all {
		if v.config.Force || len(concept.Vector) == 0 {
			pending = append(pending, concept)
		}
	}

	if len(pending) == 0 {
		fmt.Fprintf(v.progress, "All %d concepts already have vectors\n", len(all))
		return nil
	}

	fmt.Fprintf(v.progress, "Vectorizing %d of %d concepts (batch size: %d)\n",
		len(pending), len(all), v.config.BatchSize)

	tracker := NewProgressTracker(v.progress, len(pending), v.config.ReportInterval)
	tracker.Start()

	for i := 0; i < len(pending); i += v.config.BatchSize {
		end := i + v.config.BatchSize
		if end > len(pending) {
			end = len(pending)
		}

		if err := v.processBatch(ctx, pending[i:end]); err != nil {
			return err
		}
		tracker.Increment(end - i)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(v.progress, "Vectorization complete. Processed %d concepts in %v (%.1f concepts/sec)\n",
		len(pending), elapsed.Round(time.Second), float64(len(pending))/elapsed.Seconds())

	return nil
}

// processBatch embeds one batch of concepts and persists the updates.
// Vectors are normalized so the index can use dot-product cosine similarity.
func (v *Vectorizer) processBatch(ctx context.Context, concepts []*core.Concept) error {
	texts := make([]string, len(concepts))
	for i, concept := range concepts {
		texts[i] = embedText(concept)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = v.embedder.EmbedTexts(ctx, texts)
		return err
	}, v.config.MaxRetries, v.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", v.config.MaxRetries, err)
	}

	if len(embeddings) != len(concepts) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingMismatch, len(concepts), len(embeddings))
	}

	for i := range concepts {
		concepts[i].Vector = NormalizeVector(embeddings[i])
	}

	if err := v.repo.PutConcepts(ctx, concepts...); err != nil {
		return fmt.Errorf("failed to update concepts: %w", err)
	}

	return nil
}

// embedText picks the text embedded for a concept: the preferred name when
// present, otherwise its first name.
func embedText(concept *core.Concept) string {
	if concept.PreferredName != "" {
		return concept.PreferredName
	}
	return concept.Names[0]
}
