package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/lexlink/ai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultMinSimilarity is the similarity floor below which a nearest-neighbor
// hit is discarded rather than guessed.
const DefaultMinSimilarity = 0.8

// DefaultTimeout bounds a single embedding call. Embedding is the only
// externally-dependent operation on the annotation path, so it alone carries
// a deadline.
const DefaultTimeout = 10 * time.Second

// Fallback is the pluggable capability invoked on text regions left unmatched
// by the lexical matchers. Implementations must be safe for concurrent use.
type Fallback interface {
	// ID identifies the implementation for metrics and backend selection.
	ID() string

	// Embed converts text into a fixed-length vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Nearest returns up to k concepts ranked by similarity, excluding
	// anything below minSimilarity.
	Nearest(vector []float32, k int, minSimilarity float32) []Match
}

// Backend pairs an embedder with a concept index and guards the embedder with
// a per-call timeout, a circuit breaker, and an optional rate limiter.
type Backend struct {
	id       string
	embedder ai.Embedder
	index    *Index
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ Fallback = (*Backend)(nil)

// BackendOption configures a Backend.
type BackendOption func(*Backend) error

// WithTimeout sets the per-call embedding deadline.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) BackendOption {
	return func(b *Backend) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		b.timeout = timeout
		return nil
	}
}

// WithRateLimit caps embedding calls at requestsPerSecond with the given burst.
// No limiter is installed by default.
func WithRateLimit(requestsPerSecond float64, burst int) BackendOption {
	return func(b *Backend) error {
		if requestsPerSecond <= 0 || burst <= 0 {
			return fmt.Errorf("rate limit must be positive, got %v/%d", requestsPerSecond, burst)
		}
		b.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BackendOption {
	return func(b *Backend) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBackend creates a semantic fallback backend named id.
func NewBackend(id string, embedder ai.Embedder, index *Index, opts ...BackendOption) (*Backend, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	b := &Backend{
		id:       id,
		embedder: embedder,
		index:    index,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "semantic-" + id,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("semantic backend breaker state change",
				"backend", name, "from", from.String(), "to", to.String())
		},
	})

	return b, nil
}

// ID returns the backend identifier.
func (b *Backend) ID() string { return b.id }

// Index returns the backend's concept index.
func (b *Backend) Index() *Index { return b.index }

// Embed generates a vector for text through the rate limiter and circuit
// breaker, bounded by the configured timeout. Failures surface as
// ErrBackendUnavailable so callers can treat them as a lookup miss.
func (b *Backend) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
	}

	result, err := b.breaker.Execute(func() (any, error) {
		return b.embedder.EmbedText(ctx, text)
	})
	if err != nil {
		b.logger.Debug("embedding call failed", "backend", b.id, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	return result.([]float32), nil
}

// Nearest delegates to the backend's index.
func (b *Backend) Nearest(vector []float32, k int, minSimilarity float32) []Match {
	return b.index.Nearest(vector, k, minSimilarity)
}
