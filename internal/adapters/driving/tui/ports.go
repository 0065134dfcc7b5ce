// Package tui provides an interactive terminal user interface for scribe.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/views/editor"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents lists, deletes and reviews persisted documents.
	Documents driving.DocumentService

	// NewSession creates an editor session bound to a fresh text buffer.
	NewSession editor.Factory
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(documents driving.DocumentService, newSession editor.Factory) *Ports {
	return &Ports{
		Documents:  documents,
		NewSession: newSession,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	if p.NewSession == nil {
		return ErrMissingSessionFactory
	}
	return nil
}
