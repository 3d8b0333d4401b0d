package match

import (
	"testing"

	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
	"github.com/poiesic/lexlink/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func combinedDB(t *testing.T, patterns ...*core.CombinedPattern) *cdb.ConceptDatabase {
	t.Helper()
	records := []cdb.Record{
		{CUI: "C100", Name: "aerosol intranasally", Preferred: true},
		{CUI: "C101", Name: "insulin injection", Preferred: true},
	}
	db, err := cdb.Build(records, patterns)
	require.NoError(t, err)
	return db
}

func aerosolPattern(maxGap int) *core.CombinedPattern {
	return &core.CombinedPattern{
		CUI:        "C100",
		Components: []string{"aerosol", "intranasally"},
		MaxGap:     maxGap,
	}
}

func TestCombinedMatchAdjacent(t *testing.T) {
	db := combinedDB(t, aerosolPattern(3))
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	doc := token.Document("", "administered aerosol intranasally twice daily")
	spans := m.Match(doc)

	require.Len(t, spans, 1)
	assert.Equal(t, "aerosol intranasally", doc.Text[spans[0].Start:spans[0].End])
	assert.Equal(t, core.SourceCombined, spans[0].Source)
	assert.Equal(t, []core.CUI{"C100"}, spans[0].Candidates)
	// Zero realized gap scores full confidence.
	assert.Equal(t, float32(1.0), spans[0].Confidence)
}

func TestCombinedMatchGapAtBoundary(t *testing.T) {
	db := combinedDB(t, aerosolPattern(3))
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	// Gap of exactly max_gap=3 tokens must still match.
	doc := token.Document("", "aerosol treatment was given intranasally")
	spans := m.Match(doc)

	require.Len(t, spans, 1)
	assert.Equal(t, "aerosol treatment was given intranasally", doc.Text[spans[0].Start:spans[0].End])
	assert.Less(t, spans[0].Confidence, float32(1.0))
	assert.GreaterOrEqual(t, spans[0].Confidence, float32(0.5))
}

func TestCombinedMatchGapExceeded(t *testing.T) {
	db := combinedDB(t, aerosolPattern(3))
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	// Gap of 6 tokens exceeds max_gap=3: hard boundary, no match.
	doc := token.Document("", "aerosol treatment was carefully administered over time intranasally")
	assert.Empty(t, m.Match(doc))
}

func TestCombinedMatchGapOnePastBoundary(t *testing.T) {
	db := combinedDB(t, aerosolPattern(3))
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	// Exactly max_gap+1 tokens between components must not match.
	doc := token.Document("", "aerosol a b c d intranasally")
	assert.Empty(t, m.Match(doc))
}

func TestCombinedMatchThreeComponents(t *testing.T) {
	pattern := &core.CombinedPattern{
		CUI:        "C100",
		Components: []string{"aerosol", "given", "intranasally"},
		MaxGap:     2,
	}
	db := combinedDB(t, pattern)
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	t.Run("each boundary within gap", func(t *testing.T) {
		doc := token.Document("", "aerosol was given slowly intranasally")
		spans := m.Match(doc)
		require.Len(t, spans, 1)
		assert.Equal(t, 0, spans[0].TokenStart)
		assert.Equal(t, 5, spans[0].TokenEnd)
	})

	t.Run("one boundary exceeding gap fails the whole attempt", func(t *testing.T) {
		doc := token.Document("", "aerosol was given very very slowly intranasally")
		assert.Empty(t, m.Match(doc))
	})
}

func TestCombinedMatchMultiWordComponent(t *testing.T) {
	pattern := &core.CombinedPattern{
		CUI:        "C101",
		Components: []string{"insulin injection", "daily"},
		MaxGap:     1,
	}
	db := combinedDB(t, pattern)
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	doc := token.Document("", "insulin injection given daily")
	spans := m.Match(doc)
	require.Len(t, spans, 1)
	assert.Equal(t, "insulin injection given daily", doc.Text[spans[0].Start:spans[0].End])
}

func TestCombinedMatchResumesAfterMatch(t *testing.T) {
	db := combinedDB(t, aerosolPattern(1))
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	doc := token.Document("", "aerosol intranasally then aerosol again intranasally")
	spans := m.Match(doc)
	require.Len(t, spans, 2)
	assert.Equal(t, 0, spans[0].TokenStart)
	assert.Equal(t, 3, spans[1].TokenStart)
}

func TestCombinedMatchFailedAnchorResumesAtNextOccurrence(t *testing.T) {
	db := combinedDB(t, aerosolPattern(0))
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	// First anchor fails (gap too large); second succeeds.
	doc := token.Document("", "aerosol pump device aerosol intranasally")
	spans := m.Match(doc)
	require.Len(t, spans, 1)
	assert.Equal(t, 3, spans[0].TokenStart)
}

func TestCombinedMatchSharedAnchorDispatch(t *testing.T) {
	p1 := aerosolPattern(3)
	p2 := &core.CombinedPattern{
		CUI:        "C101",
		Components: []string{"aerosol", "insulin"},
		MaxGap:     3,
	}
	db := combinedDB(t, p1, p2)
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)
	assert.Equal(t, 2, m.PatternCount())

	// One scan position dispatches both patterns anchored on "aerosol".
	doc := token.Document("", "aerosol insulin intranasally")
	spans := m.Match(doc)
	require.Len(t, spans, 2)

	cuis := []core.CUI{spans[0].Candidates[0], spans[1].Candidates[0]}
	assert.ElementsMatch(t, []core.CUI{"C100", "C101"}, cuis)
}

func TestGapScaledConfidence(t *testing.T) {
	t.Run("zero gap is full confidence", func(t *testing.T) {
		assert.Equal(t, float32(1.0), GapScaledConfidence(0, 3, 2))
	})

	t.Run("decays with realized gap", func(t *testing.T) {
		tight := GapScaledConfidence(1, 3, 2)
		loose := GapScaledConfidence(3, 3, 2)
		assert.Greater(t, tight, loose)
		assert.GreaterOrEqual(t, loose, float32(0.5))
	})

	t.Run("zero max gap", func(t *testing.T) {
		assert.Equal(t, float32(1.0), GapScaledConfidence(0, 0, 2))
	})
}

func TestCombinedMatchDeterministic(t *testing.T) {
	db := combinedDB(t, aerosolPattern(3))
	m, err := NewCombinedPatternMatcher(db)
	require.NoError(t, err)

	doc := token.Document("", "aerosol treatment was given intranasally")
	first := m.Match(doc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Match(doc))
	}
}
