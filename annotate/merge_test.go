package annotate

import (
	"testing"

	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergeFixture(t *testing.T) (*SpanMerger, *core.Document) {
	t.Helper()
	records := []cdb.Record{
		{CUI: "C001", Name: "insulin pump", Preferred: true, Frequency: 10},
		{CUI: "C002", Name: "continuous insulin pump therapy", Preferred: true, Frequency: 5},
		{CUI: "C003", Name: "therapy", Preferred: true, Frequency: 3},
	}
	db, err := cdb.Build(records, nil)
	require.NoError(t, err)
	policy, err := NewPolicy(db)
	require.NoError(t, err)
	merger, err := NewSpanMerger(policy)
	require.NoError(t, err)

	doc := &core.Document{
		Text: "continuous insulin pump therapy",
		Tokens: []core.Token{
			{Text: "continuous", Start: 0, End: 10},
			{Text: "insulin", Start: 11, End: 18},
			{Text: "pump", Start: 19, End: 23},
			{Text: "therapy", Start: 24, End: 31},
		},
	}
	return merger, doc
}

func TestMergeLongerSpanWinsAcrossSources(t *testing.T) {
	merger, doc := mergeFixture(t)

	// A 2-token dictionary span overlaps a 4-token combined span. Length is
	// the primary sort key, so the combined span wins despite dictionary
	// being the higher-priority source.
	spans := []core.Span{
		{Start: 11, End: 23, TokenStart: 1, TokenEnd: 3, Source: core.SourceDictionary,
			Candidates: []core.CUI{"C001"}, Confidence: 1.0},
		{Start: 0, End: 31, TokenStart: 0, TokenEnd: 4, Source: core.SourceCombined,
			Candidates: []core.CUI{"C002"}, Confidence: 0.8},
	}

	annotations, err := merger.Merge(doc, spans, nil)
	require.NoError(t, err)
	require.Len(t, annotations, 1)
	assert.Equal(t, core.CUI("C002"), annotations[0].CUI)
	assert.Equal(t, core.SourceCombined, annotations[0].Source)
}

func TestMergeSourcePriorityBreaksLengthTies(t *testing.T) {
	merger, doc := mergeFixture(t)

	spans := []core.Span{
		{Start: 11, End: 23, Source: core.SourceCombined,
			Candidates: []core.CUI{"C002"}, Confidence: 1.0},
		{Start: 11, End: 23, Source: core.SourceDictionary,
			Candidates: []core.CUI{"C001"}, Confidence: 0.9},
	}

	annotations, err := merger.Merge(doc, spans, nil)
	require.NoError(t, err)
	require.Len(t, annotations, 1)
	assert.Equal(t, core.SourceDictionary, annotations[0].Source)
}

func TestMergeConfidenceBreaksRemainingTies(t *testing.T) {
	merger, doc := mergeFixture(t)

	spans := []core.Span{
		{Start: 11, End: 23, Source: core.SourceDictionary,
			Candidates: []core.CUI{"C001"}, Confidence: 0.7},
		{Start: 19, End: 31, Source: core.SourceDictionary,
			Candidates: []core.CUI{"C003"}, Confidence: 0.9},
	}

	annotations, err := merger.Merge(doc, spans, nil)
	require.NoError(t, err)
	require.Len(t, annotations, 1)
	assert.Equal(t, core.CUI("C003"), annotations[0].CUI)
}

func TestMergeNonOverlappingSpansAllAccepted(t *testing.T) {
	merger, doc := mergeFixture(t)

	spans := []core.Span{
		{Start: 24, End: 31, Source: core.SourceDictionary,
			Candidates: []core.CUI{"C003"}, Confidence: 1.0},
		{Start: 11, End: 23, Source: core.SourceDictionary,
			Candidates: []core.CUI{"C001"}, Confidence: 1.0},
	}

	annotations, err := merger.Merge(doc, spans, nil)
	require.NoError(t, err)
	require.Len(t, annotations, 2)
	// Output ordered by start offset.
	assert.Equal(t, core.CUI("C001"), annotations[0].CUI)
	assert.Equal(t, core.CUI("C003"), annotations[1].CUI)
}

func TestMergeNeverDisplacesPriorAnnotations(t *testing.T) {
	merger, doc := mergeFixture(t)

	prior := []core.Annotation{
		{Start: 11, End: 23, CUI: "C001", Confidence: 1.0, Source: core.SourceDictionary},
	}
	// Longer semantic span overlapping an accepted annotation must lose.
	spans := []core.Span{
		{Start: 0, End: 31, Source: core.SourceSemantic,
			Candidates: []core.CUI{"C002"}, Confidence: 0.95},
		{Start: 24, End: 31, Source: core.SourceSemantic,
			Candidates: []core.CUI{"C003"}, Confidence: 0.85},
	}

	annotations, err := merger.Merge(doc, spans, prior)
	require.NoError(t, err)
	require.Len(t, annotations, 2)
	assert.Equal(t, core.CUI("C001"), annotations[0].CUI)
	assert.Equal(t, core.CUI("C003"), annotations[1].CUI)
}

func TestMergeOutputNeverOverlaps(t *testing.T) {
	merger, doc := mergeFixture(t)

	spans := []core.Span{
		{Start: 0, End: 18, Source: core.SourceCombined, Candidates: []core.CUI{"C002"}, Confidence: 0.7},
		{Start: 11, End: 23, Source: core.SourceDictionary, Candidates: []core.CUI{"C001"}, Confidence: 1.0},
		{Start: 19, End: 31, Source: core.SourceDictionary, Candidates: []core.CUI{"C003"}, Confidence: 1.0},
		{Start: 24, End: 31, Source: core.SourceSemantic, Candidates: []core.CUI{"C003"}, Confidence: 0.9},
	}

	annotations, err := merger.Merge(doc, spans, nil)
	require.NoError(t, err)
	for i := 1; i < len(annotations); i++ {
		assert.GreaterOrEqual(t, annotations[i].Start, annotations[i-1].End)
	}
}

func TestMergeAppliesDisambiguationAtAcceptance(t *testing.T) {
	merger, doc := mergeFixture(t)

	spans := []core.Span{
		{Start: 11, End: 23, Source: core.SourceDictionary,
			Candidates: []core.CUI{"C002", "C001"}, Confidence: 1.0},
	}

	annotations, err := merger.Merge(doc, spans, nil)
	require.NoError(t, err)
	require.Len(t, annotations, 1)
	// Surface "insulin pump" equals C001's preferred name.
	assert.Equal(t, core.CUI("C001"), annotations[0].CUI)
}

func TestNewSpanMergerRequiresPolicy(t *testing.T) {
	_, err := NewSpanMerger(nil)
	assert.Equal(t, ErrPolicyRequired, err)
}
