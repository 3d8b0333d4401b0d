package semantic

import (
	"testing"

	"github.com/poiesic/lexlink/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConcepts() []*core.Concept {
	return []*core.Concept{
		{CUI: "C001", Names: []string{"glucose"}, Vector: []float32{1, 0, 0}},
		{CUI: "C002", Names: []string{"insulin"}, Vector: []float32{0, 1, 0}},
		{CUI: "C003", Names: []string{"sugar"}, Vector: []float32{0.9, 0.1, 0}},
		{CUI: "C004", Names: []string{"unvectored"}},
	}
}

func TestNewIndex(t *testing.T) {
	t.Run("skips concepts without vectors", func(t *testing.T) {
		idx, err := NewIndex(testConcepts())
		require.NoError(t, err)
		assert.Equal(t, 3, idx.Len())
		assert.Equal(t, 3, idx.Dims())
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := NewIndex([]*core.Concept{
			{CUI: "C001", Vector: []float32{1, 0}},
			{CUI: "C002", Vector: []float32{1, 0, 0}},
		})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("empty input", func(t *testing.T) {
		idx, err := NewIndex(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, idx.Len())
		assert.Empty(t, idx.Nearest([]float32{1, 0, 0}, 5, 0))
	})
}

func TestNearestRanking(t *testing.T) {
	idx, err := NewIndex(testConcepts())
	require.NoError(t, err)

	matches := idx.Nearest([]float32{1, 0, 0}, 3, 0.5)
	require.Len(t, matches, 2)
	assert.Equal(t, core.CUI("C001"), matches[0].CUI)
	assert.Equal(t, core.CUI("C003"), matches[1].CUI)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)
}

func TestNearestMinSimilarityFloor(t *testing.T) {
	idx, err := NewIndex(testConcepts())
	require.NoError(t, err)

	// Orthogonal concepts never clear a positive floor.
	matches := idx.Nearest([]float32{0, 0, 1}, 5, 0.8)
	assert.Empty(t, matches)
}

func TestNearestRespectsK(t *testing.T) {
	idx, err := NewIndex(testConcepts())
	require.NoError(t, err)

	matches := idx.Nearest([]float32{1, 0.5, 0}, 1, 0)
	assert.Len(t, matches, 1)

	assert.Empty(t, idx.Nearest([]float32{1, 0, 0}, 0, 0))
}

func TestNearestWrongDimension(t *testing.T) {
	idx, err := NewIndex(testConcepts())
	require.NoError(t, err)
	assert.Empty(t, idx.Nearest([]float32{1, 0}, 5, 0))
}

func TestNearestTieBreaksOnCUI(t *testing.T) {
	idx, err := NewIndex([]*core.Concept{
		{CUI: "C900", Vector: []float32{1, 0}},
		{CUI: "C100", Vector: []float32{1, 0}},
	})
	require.NoError(t, err)

	matches := idx.Nearest([]float32{1, 0}, 2, 0)
	require.Len(t, matches, 2)
	assert.Equal(t, core.CUI("C100"), matches[0].CUI)
	assert.Equal(t, core.CUI("C900"), matches[1].CUI)
}
