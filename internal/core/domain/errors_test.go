package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrNoSelection", ErrNoSelection},
		{"ErrEditorNotReady", ErrEditorNotReady},
		{"ErrSessionClosed", ErrSessionClosed},
		{"ErrNoSuggestions", ErrNoSuggestions},
		{"ErrSuggestionUnavailable", ErrSuggestionUnavailable},
		{"ErrStaleResponse", ErrStaleResponse},
		{"ErrRequestFailed", ErrRequestFailed},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_WrappedStillMatch(t *testing.T) {
	wrapped := fmt.Errorf("apply suggestion: %w", ErrNoSelection)

	assert.True(t, errors.Is(wrapped, ErrNoSelection))
	assert.False(t, errors.Is(wrapped, ErrEditorNotReady))
}
