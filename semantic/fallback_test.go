package semantic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/lexlink/ai/mock"
	"github.com/poiesic/lexlink/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex([]*core.Concept{
		{CUI: "C001", Vector: []float32{1, 0, 0}},
		{CUI: "C002", Vector: []float32{0, 1, 0}},
	})
	require.NoError(t, err)
	return idx
}

func TestNewBackend(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewBackend("b", nil, testIndex(t))
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewBackend("b", mock.NewMockEmbedder(), nil)
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		_, err := NewBackend("b", mock.NewMockEmbedder(), testIndex(t), WithTimeout(0))
		assert.Error(t, err)
	})
}

func TestBackendEmbed(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{0.7, 0.7, 0}, nil
	}

	b, err := NewBackend("mock", embedder, testIndex(t))
	require.NoError(t, err)
	assert.Equal(t, "mock", b.ID())

	vec, err := b.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.7, 0.7, 0}, vec)
}

func TestBackendEmbedFailureIsUnavailable(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}

	b, err := NewBackend("mock", embedder, testIndex(t))
	require.NoError(t, err)

	_, err = b.Embed(context.Background(), "some text")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestBackendBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		calls++
		return nil, errors.New("boom")
	}

	b, err := NewBackend("mock", embedder, testIndex(t))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := b.Embed(context.Background(), "text")
		assert.ErrorIs(t, err, ErrBackendUnavailable)
	}

	// The breaker trips after three consecutive failures and stops
	// dispatching to the embedder.
	assert.Equal(t, 3, calls)
}

func TestBackendTimeout(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, _ string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	b, err := NewBackend("mock", embedder, testIndex(t), WithTimeout(10*time.Millisecond))
	require.NoError(t, err)

	_, err = b.Embed(context.Background(), "slow text")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestBackendNearestDelegatesToIndex(t *testing.T) {
	b, err := NewBackend("mock", mock.NewMockEmbedder(), testIndex(t))
	require.NoError(t, err)

	matches := b.Nearest([]float32{1, 0, 0}, 1, 0.5)
	require.Len(t, matches, 1)
	assert.Equal(t, core.CUI("C001"), matches[0].CUI)
}
