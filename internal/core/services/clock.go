package services

import (
	"time"

	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure SystemClock implements the interface.
var _ driven.Clock = SystemClock{}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc runs fn in its own goroutine after d.
func (SystemClock) AfterFunc(d time.Duration, fn func()) driven.Timer {
	return time.AfterFunc(d, fn)
}
