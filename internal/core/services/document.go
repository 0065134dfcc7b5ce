package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages persisted documents.
type DocumentService struct {
	docStore      driven.DocumentStore
	source        driven.SuggestionSource
	feedbackStore driven.FeedbackStore
}

// NewDocumentService creates a new document service. source and
// feedbackStore may be nil; feedback is then unavailable or not recorded.
func NewDocumentService(
	docStore driven.DocumentStore,
	source driven.SuggestionSource,
	feedbackStore driven.FeedbackStore,
) *DocumentService {
	return &DocumentService{
		docStore:      docStore,
		source:        source,
		feedbackStore: feedbackStore,
	}
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.List(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if documentID == "" || documentID == domain.NewDocumentID {
		return nil, fmt.Errorf("document %q: %w", documentID, domain.ErrNotFound)
	}
	return s.docStore.Get(ctx, documentID)
}

// Create stores a new document. An empty title becomes domain.DefaultTitle.
func (s *DocumentService) Create(ctx context.Context, title string, content domain.Delta) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if strings.TrimSpace(title) == "" {
		title = domain.DefaultTitle
	}
	doc, err := s.docStore.Create(ctx, title, content)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	logger.Debug("documents: created %s", doc.ID)
	return doc, nil
}

// Update applies a partial update.
func (s *DocumentService) Update(
	ctx context.Context,
	documentID string,
	patch domain.DocumentPatch,
) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if patch.IsEmpty() {
		return s.Get(ctx, documentID)
	}
	doc, err := s.docStore.Update(ctx, documentID, patch)
	if err != nil {
		return nil, fmt.Errorf("update document %s: %w", documentID, err)
	}
	return doc, nil
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	if err := s.docStore.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}

// RequestFeedback asks the backend for whole-document feedback and records
// it when a feedback store is configured.
func (s *DocumentService) RequestFeedback(ctx context.Context, documentID string) (*domain.AIFeedback, error) {
	if s.source == nil {
		return nil, domain.ErrSuggestionUnavailable
	}
	fb, err := s.source.DocumentFeedback(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("document feedback %s: %w", documentID, err)
	}
	if s.feedbackStore != nil {
		if err := s.feedbackStore.SaveFeedback(ctx, fb); err != nil {
			logger.Warn("documents: feedback not recorded: %v", err)
		}
	}
	return fb, nil
}
