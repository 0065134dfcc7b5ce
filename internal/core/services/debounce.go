package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// DebounceOptions configures one debounce lane.
type DebounceOptions struct {
	// Name labels the lane in logs.
	Name string

	// Delay is the quiet interval that must elapse after the last push.
	Delay time.Duration

	// Distinct suppresses an emission equal to the previous one.
	Distinct bool

	// MinLength drops snapshots of MinLength runes or fewer. Zero disables.
	MinLength int
}

// Debouncer coalesces bursts of pushes into a single emission once the
// lane has been quiet for Delay. Only the last pushed snapshot survives.
type Debouncer struct {
	clock driven.Clock
	opts  DebounceOptions
	emit  func(string)

	mu      sync.Mutex
	timer   driven.Timer
	seq     uint64
	pending string
	last    string
	hasLast bool
	stopped bool
}

// NewDebouncer creates a lane that calls emit with surviving snapshots.
func NewDebouncer(clock driven.Clock, opts DebounceOptions, emit func(string)) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{clock: clock, opts: opts, emit: emit}
}

// Push records a snapshot and restarts the quiet window.
func (d *Debouncer) Push(snapshot string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = snapshot
	d.timer = d.clock.AfterFunc(d.opts.Delay, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	// A newer push or Cancel superseded this timer after it was already due.
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	snapshot := d.pending
	if d.opts.Distinct {
		if d.hasLast && snapshot == d.last {
			d.mu.Unlock()
			logger.Debug("%s lane: unchanged snapshot suppressed", d.opts.Name)
			return
		}
		d.last, d.hasLast = snapshot, true
	}
	d.mu.Unlock()

	if d.opts.MinLength > 0 && len([]rune(snapshot)) <= d.opts.MinLength {
		logger.Debug("%s lane: snapshot too short (%d runes)", d.opts.Name, len([]rune(snapshot)))
		return
	}

	logger.Debug("%s lane fired", d.opts.Name)
	d.emit(snapshot)
}

// Pending reports whether a window is open.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops the open window, if any. The lane stays usable.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// Reset cancels the open window and forgets the last emitted snapshot.
func (d *Debouncer) Reset() {
	d.Cancel()
	d.mu.Lock()
	d.last, d.hasLast = "", false
	d.mu.Unlock()
}

// Stop cancels the open window and ignores all later pushes.
func (d *Debouncer) Stop() {
	d.Cancel()
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
