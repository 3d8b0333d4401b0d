package evolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/lexlink/core"
	"github.com/poiesic/lexlink/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFallback struct{ id string }

func (f *fakeFallback) ID() string                                         { return f.id }
func (f *fakeFallback) Embed(context.Context, string) ([]float32, error)   { return nil, nil }
func (f *fakeFallback) Nearest([]float32, int, float32) []semantic.Match   { return nil }

type recordingSink struct {
	snapshots []Snapshot
}

func (s *recordingSink) Emit(snapshot Snapshot) {
	s.snapshots = append(s.snapshots, snapshot)
}

func goodSample(backendID string) Sample {
	return Sample{
		BackendID: backendID,
		Recall:    0.9,
		Precision: 0.95,
		Latency:   5 * time.Millisecond,
		CountsBySource: map[core.Source]int{
			core.SourceDictionary: 3,
			core.SourceSemantic:   1,
		},
	}
}

func badSample(backendID string) Sample {
	return Sample{BackendID: backendID, Recall: 0.1, Precision: 0.2, Latency: time.Second}
}

func TestNewController(t *testing.T) {
	t.Run("nil backend", func(t *testing.T) {
		_, err := NewController(nil)
		assert.Equal(t, ErrBackendRequired, err)
	})

	t.Run("starts evaluating the initial backend", func(t *testing.T) {
		c, err := NewController(&fakeFallback{id: "primary"})
		require.NoError(t, err)
		assert.Equal(t, StateEvaluating, c.State())
		assert.Equal(t, "primary", c.CurrentID())
	})

	t.Run("invalid window size", func(t *testing.T) {
		_, err := NewController(&fakeFallback{id: "primary"}, WithWindowSize(0))
		assert.Error(t, err)
	})
}

func TestControllerSettlesWhenThresholdsMet(t *testing.T) {
	sink := &recordingSink{}
	c, err := NewController(&fakeFallback{id: "primary"},
		WithWindowSize(3),
		WithThresholds(Thresholds{MinRecall: 0.5, MinPrecision: 0.5, MaxMeanLatency: time.Second}),
		WithSink(sink),
	)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		c.ReportOutcome(goodSample("primary"))
	}

	assert.Equal(t, StateStable, c.State())
	assert.Equal(t, "primary", c.CurrentID())

	require.Len(t, sink.snapshots, 1)
	snap := sink.snapshots[0]
	assert.Equal(t, "primary", snap.BackendID)
	assert.Equal(t, 3, snap.Documents)
	assert.InDelta(t, 0.9, snap.Recall, 1e-9)
	assert.Equal(t, 9, snap.CountsBySource[core.SourceDictionary])
}

func TestControllerSwapsWhenThresholdsMissed(t *testing.T) {
	c, err := NewController(&fakeFallback{id: "primary"},
		WithWindowSize(2),
		WithThresholds(Thresholds{MinRecall: 0.8}),
	)
	require.NoError(t, err)
	require.NoError(t, c.RegisterBackend("secondary", func() (semantic.Fallback, error) {
		return &fakeFallback{id: "secondary"}, nil
	}))

	before := c.Current()
	c.ReportOutcome(badSample("primary"))
	c.ReportOutcome(badSample("primary"))

	// Swapped and still evaluating, under the new backend.
	assert.Equal(t, StateEvaluating, c.State())
	assert.Equal(t, "secondary", c.CurrentID())

	// The reference captured before the swap is unchanged; only new reads
	// observe the swap.
	assert.Equal(t, "primary", before.ID())
}

func TestControllerDropsSamplesFromNonWindowBackend(t *testing.T) {
	sink := &recordingSink{}
	c, err := NewController(&fakeFallback{id: "primary"},
		WithWindowSize(2),
		WithThresholds(Thresholds{MinRecall: 0.8}),
		WithSink(sink),
	)
	require.NoError(t, err)
	require.NoError(t, c.RegisterBackend("secondary", func() (semantic.Fallback, error) {
		return &fakeFallback{id: "secondary"}, nil
	}))

	c.ReportOutcome(badSample("primary"))
	c.ReportOutcome(badSample("primary"))
	require.Equal(t, "secondary", c.CurrentID())

	// Stragglers from in-flight documents measured against the old backend
	// must not leak into the new window.
	c.ReportOutcome(goodSample("primary"))
	c.ReportOutcome(goodSample("secondary"))
	c.ReportOutcome(goodSample("secondary"))

	require.Len(t, sink.snapshots, 2)
	for _, snap := range sink.snapshots {
		assert.Contains(t, []string{"primary", "secondary"}, snap.BackendID)
		assert.Equal(t, 2, snap.Documents, "windows always close at their configured size")
	}
	assert.Equal(t, "secondary", sink.snapshots[1].BackendID)
}

func TestControllerStaysWhenNoAlternative(t *testing.T) {
	c, err := NewController(&fakeFallback{id: "primary"},
		WithWindowSize(2),
		WithThresholds(Thresholds{MinRecall: 0.8}),
	)
	require.NoError(t, err)

	c.ReportOutcome(badSample("primary"))
	c.ReportOutcome(badSample("primary"))

	assert.Equal(t, "primary", c.CurrentID())
	assert.Equal(t, StateEvaluating, c.State())
}

func TestControllerFailedInitBackoff(t *testing.T) {
	clock := time.Unix(1000, 0)
	attempts := 0

	c, err := NewController(&fakeFallback{id: "primary"},
		WithWindowSize(1),
		WithThresholds(Thresholds{MinRecall: 0.8}),
		WithBackoffBase(time.Minute),
		withClock(func() time.Time { return clock }),
	)
	require.NoError(t, err)
	require.NoError(t, c.RegisterBackend("flaky", func() (semantic.Fallback, error) {
		attempts++
		return nil, errors.New("dependency unavailable")
	}))

	// First miss: init attempted, fails, backoff recorded.
	c.ReportOutcome(badSample("primary"))
	assert.Equal(t, 1, attempts)
	assert.Equal(t, "primary", c.CurrentID())

	// Second miss inside the backoff window: no retry.
	c.ReportOutcome(badSample("primary"))
	assert.Equal(t, 1, attempts)

	// After the backoff elapses, the candidate is retried.
	clock = clock.Add(2 * time.Minute)
	c.ReportOutcome(badSample("primary"))
	assert.Equal(t, 2, attempts)
}

func TestControllerStableReopensOnNewBackend(t *testing.T) {
	c, err := NewController(&fakeFallback{id: "primary"}, WithWindowSize(1))
	require.NoError(t, err)

	c.ReportOutcome(goodSample("primary"))
	require.Equal(t, StateStable, c.State())

	require.NoError(t, c.RegisterBackend("secondary", func() (semantic.Fallback, error) {
		return &fakeFallback{id: "secondary"}, nil
	}))
	assert.Equal(t, StateEvaluating, c.State())
}

func TestControllerReevaluate(t *testing.T) {
	c, err := NewController(&fakeFallback{id: "primary"}, WithWindowSize(1))
	require.NoError(t, err)

	c.ReportOutcome(goodSample("primary"))
	require.Equal(t, StateStable, c.State())

	c.Reevaluate()
	assert.Equal(t, StateEvaluating, c.State())
	assert.Equal(t, "primary", c.CurrentID())

	// Reevaluate is a no-op while already evaluating.
	c.Reevaluate()
	assert.Equal(t, StateEvaluating, c.State())
}

func TestRegisterBackendValidation(t *testing.T) {
	c, err := NewController(&fakeFallback{id: "primary"})
	require.NoError(t, err)

	assert.ErrorIs(t, c.RegisterBackend("", nil), ErrInvalidRegistration)

	factory := func() (semantic.Fallback, error) { return &fakeFallback{id: "x"}, nil }
	require.NoError(t, c.RegisterBackend("x", factory))
	assert.ErrorIs(t, c.RegisterBackend("x", factory), ErrDuplicateBackend)
	assert.ErrorIs(t, c.RegisterBackend("primary", factory), ErrDuplicateBackend)
}

func TestMetricsWindowAggregates(t *testing.T) {
	w := newWindow("b")
	assert.Equal(t, 0.0, w.Recall())
	assert.Equal(t, time.Duration(0), w.MeanLatency())

	w.add(Sample{BackendID: "b", Recall: 0.8, Precision: 1.0, Latency: 10 * time.Millisecond})
	w.add(Sample{BackendID: "b", Recall: 0.4, Precision: 0.5, Latency: 30 * time.Millisecond})

	assert.InDelta(t, 0.6, w.Recall(), 1e-9)
	assert.InDelta(t, 0.75, w.Precision(), 1e-9)
	assert.Equal(t, 20*time.Millisecond, w.MeanLatency())

	snap := w.snapshot("evaluating")
	assert.Equal(t, "b", snap.BackendID)
	assert.Equal(t, 2, snap.Documents)
}
