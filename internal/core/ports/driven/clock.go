package driven

import "time"

// Timer is a pending callback scheduled by a Clock.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already ran
	// or was already stopped.
	Stop() bool
}

// Clock abstracts wall time so debounce windows can be driven in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}
