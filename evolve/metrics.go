package evolve

import (
	"time"

	"github.com/poiesic/lexlink/core"
)

// Sample is one document's measured outcome, reported by the caller after
// consuming the annotations. Recall and precision are caller-side estimates
// (e.g. against review feedback); the engine does not compute them itself.
type Sample struct {
	BackendID      string
	Recall         float64
	Precision      float64
	Latency        time.Duration
	CountsBySource map[core.Source]int
}

// MetricsWindow accumulates samples for exactly one backend. A backend swap
// always starts a fresh window, so aggregates never mix backends.
type MetricsWindow struct {
	backendID      string
	documents      int
	recallSum      float64
	precisionSum   float64
	latencySum     time.Duration
	countsBySource map[core.Source]int
}

func newWindow(backendID string) *MetricsWindow {
	return &MetricsWindow{
		backendID:      backendID,
		countsBySource: make(map[core.Source]int),
	}
}

// BackendID returns the backend this window measures.
func (w *MetricsWindow) BackendID() string { return w.backendID }

// Documents returns the number of accumulated samples.
func (w *MetricsWindow) Documents() int { return w.documents }

func (w *MetricsWindow) add(sample Sample) {
	w.documents++
	w.recallSum += sample.Recall
	w.precisionSum += sample.Precision
	w.latencySum += sample.Latency
	for source, count := range sample.CountsBySource {
		w.countsBySource[source] += count
	}
}

// Recall returns the mean recall estimate over the window.
func (w *MetricsWindow) Recall() float64 {
	if w.documents == 0 {
		return 0
	}
	return w.recallSum / float64(w.documents)
}

// Precision returns the mean precision estimate over the window.
func (w *MetricsWindow) Precision() float64 {
	if w.documents == 0 {
		return 0
	}
	return w.precisionSum / float64(w.documents)
}

// MeanLatency returns the mean per-document latency over the window.
func (w *MetricsWindow) MeanLatency() time.Duration {
	if w.documents == 0 {
		return 0
	}
	return w.latencySum / time.Duration(w.documents)
}

// Snapshot is an immutable copy of a window's aggregates, emitted to the
// metrics sink after each evaluation cycle. It carries counts only, never
// document text.
type Snapshot struct {
	BackendID      string
	State          string
	Documents      int
	Recall         float64
	Precision      float64
	MeanLatency    time.Duration
	CountsBySource map[core.Source]int
}

func (w *MetricsWindow) snapshot(state string) Snapshot {
	counts := make(map[core.Source]int, len(w.countsBySource))
	for source, count := range w.countsBySource {
		counts[source] = count
	}
	return Snapshot{
		BackendID:      w.backendID,
		State:          state,
		Documents:      w.documents,
		Recall:         w.Recall(),
		Precision:      w.Precision(),
		MeanLatency:    w.MeanLatency(),
		CountsBySource: counts,
	}
}

// Sink receives window snapshots for external observability collection.
type Sink interface {
	Emit(snapshot Snapshot)
}
