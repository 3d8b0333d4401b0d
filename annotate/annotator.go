// Copyright 2025 The Poiesic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package annotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
	"github.com/poiesic/lexlink/match"
	"github.com/poiesic/lexlink/semantic"
)

// DefaultWindowTokens bounds the default semantic windowing strategy.
const DefaultWindowTokens = 3

// Annotator runs the full extraction pipeline over one document: dictionary
// and combined-pattern matching, overlap resolution, and an optional semantic
// second pass over residual text. An Annotator is immutable after
// construction; documents may be annotated concurrently.
type Annotator struct {
	db            *cdb.ConceptDatabase
	dictionary    *match.DictionaryMatcher
	combined      *match.CombinedPatternMatcher
	policy        *Policy
	merger        *SpanMerger
	fallback      semantic.Fallback
	windows       WindowFunc
	minConfidence float32
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures an Annotator.
type Option func(*Annotator) error

// WithPolicy replaces the default disambiguation policy.
func WithPolicy(policy *Policy) Option {
	return func(a *Annotator) error {
		if policy == nil {
			return ErrPolicyRequired
		}
		a.policy = policy
		return nil
	}
}

// WithFallback enables the semantic second pass using the given backend.
// Without it, residual text is left unannotated.
func WithFallback(fallback semantic.Fallback) Option {
	return func(a *Annotator) error {
		a.fallback = fallback
		return nil
	}
}

// WithWindowFunc replaces the default n-gram windowing strategy for the
// semantic pass.
func WithWindowFunc(windows WindowFunc) Option {
	return func(a *Annotator) error {
		if windows == nil {
			return errors.New("window function must not be nil")
		}
		a.windows = windows
		return nil
	}
}

// WithMinConfidence drops annotations scoring below the threshold from the
// final output. Default is 0 (keep everything).
func WithMinConfidence(threshold float32) Option {
	return func(a *Annotator) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("min confidence must be in [0,1], got %v", threshold)
		}
		a.minConfidence = threshold
		return nil
	}
}

// WithMinSimilarity sets the similarity floor for semantic matches.
// Default is semantic.DefaultMinSimilarity.
func WithMinSimilarity(threshold float32) Option {
	return func(a *Annotator) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("min similarity must be in [0,1], got %v", threshold)
		}
		a.minSimilarity = threshold
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Annotator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnnotator creates an annotator over db.
func NewAnnotator(db *cdb.ConceptDatabase, opts ...Option) (*Annotator, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}

	dictionary, err := match.NewDictionaryMatcher(db)
	if err != nil {
		return nil, err
	}
	combined, err := match.NewCombinedPatternMatcher(db)
	if err != nil {
		return nil, err
	}
	policy, err := NewPolicy(db)
	if err != nil {
		return nil, err
	}

	a := &Annotator{
		db:            db,
		dictionary:    dictionary,
		combined:      combined,
		policy:        policy,
		windows:       NGramWindows(DefaultWindowTokens),
		minSimilarity: semantic.DefaultMinSimilarity,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	a.merger, err = NewSpanMerger(a.policy)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Annotate extracts concept mentions from doc.
// The output is ordered by start offset and never contains overlapping
// annotations. Malformed documents are rejected with a descriptive error.
func (a *Annotator) Annotate(ctx context.Context, doc *core.Document) ([]core.Annotation, error) {
	return a.AnnotateWithMonitor(ctx, doc, nil)
}

// AnnotateWithMonitor extracts concept mentions with monitoring.
// The monitor receives callbacks at each stage of the pipeline.
func (a *Annotator) AnnotateWithMonitor(ctx context.Context, doc *core.Document, monitor AnnotateMonitor) ([]core.Annotation, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	monitor.Start(doc)

	// 1. Lexical matchers, both read-only over the database.
	dictSpans := a.dictionary.Match(doc)
	monitor.AfterDictionaryMatch(dictSpans)

	combinedSpans := a.combined.Match(doc)
	monitor.AfterCombinedMatch(combinedSpans)

	candidates := make([]core.Span, 0, len(dictSpans)+len(combinedSpans))
	candidates = append(candidates, dictSpans...)
	candidates = append(candidates, combinedSpans...)

	annotations, err := a.merger.Merge(doc, candidates, nil)
	if err != nil {
		return nil, err
	}
	monitor.AfterLexicalMerge(annotations)

	// 2. Semantic second pass over whatever the lexical pass left uncovered.
	if a.fallback != nil {
		semanticSpans := a.semanticPass(ctx, doc, annotations, monitor)
		if len(semanticSpans) > 0 {
			annotations, err = a.merger.Merge(doc, semanticSpans, annotations)
			if err != nil {
				return nil, err
			}
		}
		monitor.AfterSemanticMerge(annotations)
	}

	annotations = a.filterMinConfidence(annotations)
	monitor.Finish(annotations)

	return annotations, nil
}

// semanticPass proposes semantic-source spans for residual windows. Backend
// failures degrade to "no semantic match" for the rest of the document; they
// never fail the annotation call.
func (a *Annotator) semanticPass(ctx context.Context, doc *core.Document, covered []core.Annotation, monitor AnnotateMonitor) []core.Span {
	var spans []core.Span
	for _, window := range a.windows(doc, covered) {
		monitor.SemanticWindow(window)

		vector, err := a.fallback.Embed(ctx, doc.Text[window.Start:window.End])
		if err != nil {
			a.logger.Debug("semantic pass aborted for document",
				"doc", doc.Name, "backend", a.fallback.ID(), "err", err)
			break
		}

		matches := a.fallback.Nearest(vector, 1, a.minSimilarity)
		if len(matches) == 0 {
			continue
		}

		span := core.Span{
			Start:      window.Start,
			End:        window.End,
			TokenStart: window.TokenStart,
			TokenEnd:   window.TokenEnd,
			Source:     core.SourceSemantic,
			Candidates: []core.CUI{matches[0].CUI},
			Confidence: matches[0].Similarity,
		}
		monitor.SemanticHit(span)
		spans = append(spans, span)
	}
	return spans
}

func (a *Annotator) filterMinConfidence(annotations []core.Annotation) []core.Annotation {
	if a.minConfidence <= 0 {
		return annotations
	}
	kept := annotations[:0:0]
	for _, ann := range annotations {
		if ann.Confidence >= a.minConfidence {
			kept = append(kept, ann)
		}
	}
	return kept
}
