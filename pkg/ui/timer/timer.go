// Package timer provides two-level timing for command execution.
//
// A timer tracks the total elapsed time since Start and the elapsed time of
// the current stage. Stages let multi-step commands report per-activity
// timing while still surfacing the overall duration.
package timer

import "time"

// Timer measures total and per-stage elapsed time.
type Timer interface {
	// Start begins timing. Calling Start resets any previous measurement.
	Start()

	// NewStage marks the beginning of a new stage.
	NewStage()

	// GetTiming returns the total elapsed time since Start and the elapsed
	// time of the current stage.
	GetTiming() (total time.Duration, stage time.Duration)
}

// New creates a Timer backed by the wall clock.
func New() Timer {
	return &clockTimer{now: time.Now}
}

// clockTimer implements Timer using an injectable clock for testability.
type clockTimer struct {
	now        func() time.Time
	startTime  time.Time
	stageStart time.Time
	started    bool
}

func (t *clockTimer) Start() {
	t.startTime = t.now()
	t.stageStart = t.startTime
	t.started = true
}

func (t *clockTimer) NewStage() {
	if !t.started {
		t.Start()

		return
	}

	t.stageStart = t.now()
}

func (t *clockTimer) GetTiming() (time.Duration, time.Duration) {
	if !t.started {
		return 0, 0
	}

	current := t.now()

	return current.Sub(t.startTime).Round(time.Millisecond),
		current.Sub(t.stageStart).Round(time.Millisecond)
}
