package annotate

import (
	"sort"

	"github.com/poiesic/lexlink/core"
)

// SpanMerger reconciles overlapping candidate spans from all matchers into a
// non-overlapping annotation set.
//
// Candidates are ranked by character length (longest first), then source
// priority (dictionary > combined > semantic), then confidence, then leftmost
// start, and accepted greedily when they do not overlap anything already
// accepted. Disambiguation runs at acceptance time only, so spans discarded
// for overlap never pay for it.
type SpanMerger struct {
	policy *Policy
}

// NewSpanMerger creates a merger that resolves ambiguous spans with policy.
func NewSpanMerger(policy *Policy) (*SpanMerger, error) {
	if policy == nil {
		return nil, ErrPolicyRequired
	}
	return &SpanMerger{policy: policy}, nil
}

// Merge turns candidate spans into annotations that do not overlap each other
// or any annotation in prior. Prior annotations are never displaced; they are
// returned unchanged together with the newly accepted ones, ordered by start
// offset.
func (m *SpanMerger) Merge(doc *core.Document, spans []core.Span, prior []core.Annotation) ([]core.Annotation, error) {
	ranked := make([]core.Span, len(spans))
	copy(ranked, spans)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		if a.Source.Priority() != b.Source.Priority() {
			return a.Source.Priority() > b.Source.Priority()
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Start < b.Start
	})

	accepted := make([]core.Annotation, len(prior), len(prior)+len(ranked))
	copy(accepted, prior)

	for _, span := range ranked {
		if len(span.Candidates) == 0 || overlapsAny(span, accepted) {
			continue
		}

		cui, err := m.policy.Resolve(span.Candidates, doc.Text[span.Start:span.End])
		if err != nil {
			return nil, err
		}

		accepted = append(accepted, core.Annotation{
			Start:      span.Start,
			End:        span.End,
			CUI:        cui,
			Confidence: span.Confidence,
			Source:     span.Source,
		})
	}

	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].Start != accepted[j].Start {
			return accepted[i].Start < accepted[j].Start
		}
		return accepted[i].End < accepted[j].End
	})

	return accepted, nil
}

func overlapsAny(span core.Span, annotations []core.Annotation) bool {
	for _, a := range annotations {
		if span.Start < a.End && a.Start < span.End {
			return true
		}
	}
	return false
}
