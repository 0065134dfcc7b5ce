package driven

import (
	"context"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// DocumentStore persists documents.
// Backed by the REST backend or by SQLite in local mode.
type DocumentStore interface {
	// List returns all documents, most recently updated first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Create stores a new document and returns it with its generated ID.
	Create(ctx context.Context, title string, content domain.Delta) (*domain.Document, error)

	// Update applies a partial update and returns the updated document.
	Update(ctx context.Context, id string, patch domain.DocumentPatch) (*domain.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, id string) error
}

// FeedbackStore records whole-document feedback.
type FeedbackStore interface {
	// SaveFeedback stores feedback, assigning an ID if empty.
	SaveFeedback(ctx context.Context, fb *domain.AIFeedback) error

	// ListFeedback returns feedback recorded for a document, oldest first.
	ListFeedback(ctx context.Context, documentID string) ([]domain.AIFeedback, error)
}
