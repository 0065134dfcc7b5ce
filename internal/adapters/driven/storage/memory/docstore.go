package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interfaces.
var (
	_ driven.DocumentStore = (*DocumentStore)(nil)
	_ driven.FeedbackStore = (*DocumentStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.DocumentStore and
// driven.FeedbackStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	feedback  map[string][]domain.AIFeedback
	now       func() time.Time
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		feedback:  make(map[string][]domain.AIFeedback),
		now:       time.Now,
	}
}

// List returns all documents, most recently updated first.
func (s *DocumentStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// Create stores a new document under a generated ID.
func (s *DocumentStore) Create(_ context.Context, title string, content domain.Delta) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	doc := domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.documents[doc.ID] = doc
	return &doc, nil
}

// Update applies a partial update.
func (s *DocumentStore) Update(_ context.Context, id string, patch domain.DocumentPatch) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Content != nil {
		doc.Content = *patch.Content
	}
	if patch.IsPublic != nil {
		doc.IsPublic = *patch.IsPublic
	}
	doc.UpdatedAt = s.now()
	s.documents[id] = doc
	return &doc, nil
}

// Delete removes a document and its feedback.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.feedback, id)
	return nil
}

// SaveFeedback records feedback, assigning an ID if empty.
func (s *DocumentStore) SaveFeedback(_ context.Context, fb *domain.AIFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[fb.DocumentID]; !ok {
		return domain.ErrNotFound
	}
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = s.now()
	}
	s.feedback[fb.DocumentID] = append(s.feedback[fb.DocumentID], *fb)
	return nil
}

// ListFeedback returns feedback recorded for a document, oldest first.
func (s *DocumentStore) ListFeedback(_ context.Context, documentID string) ([]domain.AIFeedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AIFeedback(nil), s.feedback[documentID]...), nil
}
