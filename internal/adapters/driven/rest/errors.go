package rest

import (
	"fmt"
	"net/http"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Unwrap maps the status onto domain errors.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	default:
		return domain.ErrRequestFailed
	}
}
