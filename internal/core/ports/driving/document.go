package driving

import (
	"context"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// DocumentService manages persisted documents.
type DocumentService interface {
	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Create stores a new document. An empty title becomes domain.DefaultTitle.
	Create(ctx context.Context, title string, content domain.Delta) (*domain.Document, error)

	// Update applies a partial update.
	Update(ctx context.Context, documentID string, patch domain.DocumentPatch) (*domain.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, documentID string) error

	// RequestFeedback asks the backend for whole-document feedback.
	RequestFeedback(ctx context.Context, documentID string) (*domain.AIFeedback, error)
}
