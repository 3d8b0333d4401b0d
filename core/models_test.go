package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("blood sugar")
		id2 := IDFromContent("blood sugar")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		id1 := IDFromContent("blood sugar")
		id2 := IDFromContent("blood pressure")
		assert.NotEqual(t, id1, id2)
	})
}

func TestPatternID(t *testing.T) {
	p1 := &CombinedPattern{CUI: "C001", Components: []string{"aerosol", "intranasally"}, MaxGap: 3}
	p2 := &CombinedPattern{CUI: "C001", Components: []string{"aerosol", "intranasally"}, MaxGap: 5}
	p3 := &CombinedPattern{CUI: "C002", Components: []string{"aerosol", "intranasally"}, MaxGap: 3}

	// Identity is (concept, components); the gap bound is tunable metadata.
	assert.Equal(t, p1.ID(), p2.ID())
	assert.NotEqual(t, p1.ID(), p3.ID())
}

func TestSpanOverlaps(t *testing.T) {
	span := &Span{Start: 10, End: 20}

	assert.True(t, span.Overlaps(15, 25))
	assert.True(t, span.Overlaps(5, 11))
	assert.True(t, span.Overlaps(10, 20))
	assert.False(t, span.Overlaps(20, 30))
	assert.False(t, span.Overlaps(0, 10))
}

func TestSourcePriority(t *testing.T) {
	assert.Greater(t, SourceDictionary.Priority(), SourceCombined.Priority())
	assert.Greater(t, SourceCombined.Priority(), SourceSemantic.Priority())
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "dictionary", SourceDictionary.String())
	assert.Equal(t, "combined", SourceCombined.String())
	assert.Equal(t, "semantic", SourceSemantic.String())
}

func TestConceptHasName(t *testing.T) {
	concept := &Concept{
		CUI:           "C001",
		Names:         []string{"blood sugar", "blood glucose"},
		PreferredName: "blood sugar",
	}

	assert.True(t, concept.HasName("blood sugar"))
	assert.True(t, concept.HasName("blood glucose"))
	assert.False(t, concept.HasName("glucose"))
}

func TestConceptMUSRoundTrip(t *testing.T) {
	concept := Concept{
		CUI:           "C0392747",
		Names:         []string{"blood sugar", "blood glucose"},
		PreferredName: "blood sugar",
		Types:         []string{"lab_value"},
		Frequency:     42,
		Vector:        []float32{0.25, -0.5, 0.75},
	}

	buf := make([]byte, ConceptMUS.Size(concept))
	n := ConceptMUS.Marshal(concept, buf)
	require.Equal(t, len(buf), n)

	decoded, n, err := ConceptMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, concept, decoded)
}

func TestCombinedPatternMUSRoundTrip(t *testing.T) {
	pattern := CombinedPattern{
		CUI:        "C0001",
		Components: []string{"aerosol", "intranasally"},
		MaxGap:     3,
	}

	buf := make([]byte, CombinedPatternMUS.Size(pattern))
	n := CombinedPatternMUS.Marshal(pattern, buf)
	require.Equal(t, len(buf), n)

	decoded, n, err := CombinedPatternMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, pattern, decoded)
}
