// Copyright 2025 The Poiesic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package evolve

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/lexlink/semantic"
)

// DefaultWindowSize is the number of samples accumulated before a window is
// evaluated against the thresholds.
const DefaultWindowSize = 50

// DefaultBackoffBase is the first retry delay after a backend fails to
// initialize; the delay doubles on each consecutive failure.
const DefaultBackoffBase = time.Minute

// State is the controller's evaluation state.
type State int

const (
	// StateEvaluating means the active backend is still accumulating a window
	// and may be swapped out if thresholds are not met.
	StateEvaluating State = iota

	// StateStable means the active backend met its thresholds. The controller
	// leaves this state only on an external trigger, never spontaneously.
	StateStable
)

func (s State) String() string {
	switch s {
	case StateEvaluating:
		return "evaluating"
	case StateStable:
		return "stable"
	default:
		return "unknown"
	}
}

// Thresholds are the aggregate targets a window must meet for the controller
// to settle on its backend.
type Thresholds struct {
	MinRecall      float64
	MinPrecision   float64
	MaxMeanLatency time.Duration
}

func (t Thresholds) met(w *MetricsWindow) bool {
	if w.Recall() < t.MinRecall {
		return false
	}
	if w.Precision() < t.MinPrecision {
		return false
	}
	if t.MaxMeanLatency > 0 && w.MeanLatency() > t.MaxMeanLatency {
		return false
	}
	return true
}

// Factory constructs a fallback backend on demand. It is called when the
// controller decides to swap, which keeps unused backends cold.
type Factory func() (semantic.Fallback, error)

type registration struct {
	id          string
	factory     Factory
	failures    int
	nextAttempt time.Time
}

// Controller aggregates running accuracy/latency metrics and swaps the active
// semantic fallback when the current one underperforms.
//
// The active backend lives behind an atomic pointer: in-flight annotation
// calls keep the reference they captured at call start, and only subsequent
// calls observe a swap. All other controller state sits behind one mutex.
type Controller struct {
	current atomic.Pointer[backendRef]

	mu            sync.Mutex
	state         State
	window        *MetricsWindow
	registrations []*registration
	activeIdx     int

	thresholds  Thresholds
	windowSize  int
	backoffBase time.Duration
	sink        Sink
	logger      *slog.Logger
	now         func() time.Time
}

type backendRef struct {
	fallback semantic.Fallback
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller) error

// WithThresholds sets the targets a window must meet to reach Stable.
// The zero value accepts any window.
func WithThresholds(thresholds Thresholds) ControllerOption {
	return func(c *Controller) error {
		c.thresholds = thresholds
		return nil
	}
}

// WithWindowSize sets the number of samples per evaluation cycle.
// Default is DefaultWindowSize.
func WithWindowSize(size int) ControllerOption {
	return func(c *Controller) error {
		if size < 1 {
			return fmt.Errorf("window size must be positive, got %d", size)
		}
		c.windowSize = size
		return nil
	}
}

// WithSink sets the snapshot receiver.
// Without one, snapshots are only logged.
func WithSink(sink Sink) ControllerOption {
	return func(c *Controller) error {
		c.sink = sink
		return nil
	}
}

// WithBackoffBase sets the first retry delay for failed backend inits.
// Default is DefaultBackoffBase.
func WithBackoffBase(base time.Duration) ControllerOption {
	return func(c *Controller) error {
		if base <= 0 {
			return fmt.Errorf("backoff base must be positive, got %v", base)
		}
		c.backoffBase = base
		return nil
	}
}

// WithControllerLogger sets a custom logger.
// Default is slog.Default().
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// withClock overrides the time source. Tests only.
func withClock(now func() time.Time) ControllerOption {
	return func(c *Controller) error {
		c.now = now
		return nil
	}
}

// NewController creates a controller evaluating the given initial backend.
func NewController(initial semantic.Fallback, opts ...ControllerOption) (*Controller, error) {
	if initial == nil {
		return nil, ErrBackendRequired
	}

	c := &Controller{
		state:       StateEvaluating,
		windowSize:  DefaultWindowSize,
		backoffBase: DefaultBackoffBase,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.current.Store(&backendRef{fallback: initial})
	c.window = newWindow(initial.ID())
	c.registrations = []*registration{{
		id:      initial.ID(),
		factory: func() (semantic.Fallback, error) { return initial, nil },
	}}
	c.activeIdx = 0

	return c, nil
}

// Current returns the active fallback backend. The read is a single atomic
// pointer load; callers capture a consistent reference even mid-swap.
func (c *Controller) Current() semantic.Fallback {
	return c.current.Load().fallback
}

// CurrentID returns the active backend's identifier.
func (c *Controller) CurrentID() string {
	return c.Current().ID()
}

// State returns the controller's evaluation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RegisterBackend adds an alternative backend the controller may evolve to.
// Registering a new backend while Stable re-opens evaluation.
func (c *Controller) RegisterBackend(id string, factory Factory) error {
	if id == "" || factory == nil {
		return ErrInvalidRegistration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, reg := range c.registrations {
		if reg.id == id {
			return fmt.Errorf("%w: %s", ErrDuplicateBackend, id)
		}
	}
	c.registrations = append(c.registrations, &registration{id: id, factory: factory})

	if c.state == StateStable {
		c.logger.Info("new backend registered, re-opening evaluation",
			"backend", id, "active", c.window.BackendID())
		c.state = StateEvaluating
		c.window = newWindow(c.window.BackendID())
	}
	return nil
}

// Reevaluate forces the controller out of Stable, e.g. on a detected
// feedback-score regression. The metrics window restarts empty.
func (c *Controller) Reevaluate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStable {
		return
	}
	c.state = StateEvaluating
	c.window = newWindow(c.window.BackendID())
}

// ReportOutcome feeds one document's measured outcome into the current
// window. Samples taken against a backend other than the window's are
// dropped, which keeps a window single-backend even when in-flight documents
// finish after a swap. Once the window fills, the controller evaluates it.
func (c *Controller) ReportOutcome(sample Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sample.BackendID != c.window.BackendID() {
		c.logger.Debug("dropping sample from non-window backend",
			"sample", sample.BackendID, "window", c.window.BackendID())
		return
	}

	c.window.add(sample)
	if c.state == StateEvaluating && c.window.Documents() >= c.windowSize {
		c.evaluate()
	}
}

// evaluate closes the current window. Caller holds c.mu.
func (c *Controller) evaluate() {
	snapshot := c.window.snapshot(c.state.String())
	c.emit(snapshot)

	if c.thresholds.met(c.window) {
		c.logger.Info("backend met thresholds, settling",
			"backend", c.window.BackendID(),
			"recall", snapshot.Recall, "precision", snapshot.Precision,
			"meanLatency", snapshot.MeanLatency)
		c.state = StateStable
		c.window = newWindow(c.window.BackendID())
		return
	}

	c.logger.Warn("backend missed thresholds",
		"backend", c.window.BackendID(),
		"recall", snapshot.Recall, "precision", snapshot.Precision,
		"meanLatency", snapshot.MeanLatency)

	if c.swapToAlternative() {
		return
	}

	// Nothing to evolve to; keep measuring the same backend.
	c.window = newWindow(c.window.BackendID())
}

// swapToAlternative tries registered backends after the active one, in
// registration order, skipping any still under backoff. Caller holds c.mu.
func (c *Controller) swapToAlternative() bool {
	n := len(c.registrations)
	now := c.now()

	for step := 1; step < n; step++ {
		idx := (c.activeIdx + step) % n
		reg := c.registrations[idx]

		if now.Before(reg.nextAttempt) {
			continue
		}

		fallback, err := reg.factory()
		if err != nil {
			reg.failures++
			delay := c.backoffBase << (reg.failures - 1)
			reg.nextAttempt = now.Add(delay)
			c.logger.Warn("candidate backend failed to initialize",
				"backend", reg.id, "failures", reg.failures,
				"retryAfter", delay, "err", err)
			continue
		}

		reg.failures = 0
		reg.nextAttempt = time.Time{}
		c.activeIdx = idx
		c.current.Store(&backendRef{fallback: fallback})
		c.window = newWindow(reg.id)
		c.logger.Info("swapped semantic backend", "backend", reg.id)
		return true
	}
	return false
}

// emit sends a snapshot to the sink, if any. Caller holds c.mu.
func (c *Controller) emit(snapshot Snapshot) {
	if c.sink == nil {
		return
	}
	c.sink.Emit(snapshot)
}
