package mcp

import (
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Suggestions answers grammar, content and word-analysis requests.
	Suggestions driving.SuggestionService

	// Documents exposes stored documents. Optional.
	Documents driving.DocumentService

	// Imports converts files into documents. Optional.
	Imports driving.ImportService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Suggestions == nil {
		return ErrMissingSuggestionService
	}
	return nil
}
