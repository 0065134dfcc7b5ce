package driving

import (
	"context"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// ImportService turns external files into stored documents.
type ImportService interface {
	// Import converts content read from name and stores it as a new
	// document. A non-empty title overrides the one derived from the file.
	Import(ctx context.Context, name string, content []byte, title string) (*domain.Document, error)

	// SupportedMIMETypes returns the file types that can be imported.
	SupportedMIMETypes() []string
}
