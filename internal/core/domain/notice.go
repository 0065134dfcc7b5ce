package domain

import "time"

// NoticeDuration is how long a transient notice stays visible.
const NoticeDuration = 3 * time.Second

// Notice is a transient, dismissible user-facing message. Errors recovered
// locally are surfaced this way rather than aborting the view.
type Notice struct {
	Message   string
	Err       error
	ExpiresAt time.Time
}

// NewNotice builds a notice that expires NoticeDuration after now.
func NewNotice(message string, err error, now time.Time) Notice {
	return Notice{
		Message:   message,
		Err:       err,
		ExpiresAt: now.Add(NoticeDuration),
	}
}

// Expired reports whether the notice should no longer be shown.
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
