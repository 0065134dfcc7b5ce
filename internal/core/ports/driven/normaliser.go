package driven

import (
	"context"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// Normaliser converts an external file into document content.
// Each normaliser handles specific MIME types (e.g., Markdown, DOCX).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise converts a raw file into a title and rich-text content.
	Normalise(ctx context.Context, raw *domain.RawFile) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Title is derived from the file (first heading, metadata or name).
	Title string

	// Content is the converted body.
	Content domain.Delta
}
