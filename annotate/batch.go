package annotate

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/lexlink/core"
)

// Result is the outcome of annotating one document in a batch.
// A per-document error never affects the other documents.
type Result struct {
	Doc         *core.Document
	Annotations []core.Annotation
	Elapsed     time.Duration
	Err         error
}

// Batch annotates many documents concurrently on a worker pool. Documents are
// independent, so the work is embarrassingly parallel; results come back in
// input order regardless of completion order.
type Batch struct {
	annotator *Annotator
	pool      *ants.Pool
	logger    *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BatchOption {
	return func(b *Batch) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithBatchLogger sets a custom logger.
// Default is slog.Default().
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBatch creates a batch runner over annotator.
func NewBatch(annotator *Annotator, opts ...BatchOption) (*Batch, error) {
	if annotator == nil {
		return nil, ErrDatabaseRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Batch{
		annotator: annotator,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			b.Release()
			return nil, err
		}
	}

	return b, nil
}

// AnnotateAll annotates all documents and returns one Result per input, in
// input order.
func (b *Batch) AnnotateAll(ctx context.Context, docs []*core.Document) []Result {
	results := make([]Result, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		submitErr := b.pool.Submit(func() {
			defer wg.Done()
			started := time.Now()
			annotations, err := b.annotator.Annotate(ctx, doc)
			results[i] = Result{
				Doc:         doc,
				Annotations: annotations,
				Elapsed:     time.Since(started),
				Err:         err,
			}
			if err != nil {
				b.logger.Warn("document annotation failed", "doc", doc.Name, "err", err)
			}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = Result{Doc: doc, Err: submitErr}
		}
	}
	wg.Wait()

	return results
}

// Release releases the worker pool.
// The batch runner should not be used after calling Release.
func (b *Batch) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
