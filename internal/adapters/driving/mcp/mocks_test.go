package mcp

import (
	"context"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/services"
)

// mockSuggestionService is a mock implementation of driving.SuggestionService.
// Apply uses the real transforms.
type mockSuggestionService struct {
	grammar []domain.Suggestion
	content []domain.Suggestion
	words   []domain.Suggestion
	err     error

	lastText string
}

func (m *mockSuggestionService) Content(_ context.Context, text string) ([]domain.Suggestion, error) {
	m.lastText = text
	return m.content, m.err
}

func (m *mockSuggestionService) Grammar(_ context.Context, text string) ([]domain.Suggestion, error) {
	m.lastText = text
	return m.grammar, m.err
}

func (m *mockSuggestionService) WordAnalysis(_ context.Context, word string) ([]domain.Suggestion, error) {
	m.lastText = word
	return m.words, m.err
}

func (m *mockSuggestionService) Apply(text string, sel domain.Selection, s domain.Suggestion) (string, error) {
	return services.NewSuggestionService(nil).Apply(text, sel, s)
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	feedback  *domain.AIFeedback
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.document == nil {
		return nil, domain.ErrNotFound
	}
	return m.document, nil
}

func (m *mockDocumentService) Create(_ context.Context, title string, content domain.Delta) (*domain.Document, error) {
	return &domain.Document{ID: "created", Title: title, Content: content}, m.err
}

func (m *mockDocumentService) Update(
	_ context.Context,
	id string,
	_ domain.DocumentPatch,
) (*domain.Document, error) {
	return &domain.Document{ID: id}, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) RequestFeedback(_ context.Context, _ string) (*domain.AIFeedback, error) {
	return m.feedback, m.err
}

// mockImportService records the last import and returns a fixed document.
type mockImportService struct {
	err error

	lastName    string
	lastContent []byte
	lastTitle   string
}

func (m *mockImportService) Import(_ context.Context, name string, content []byte, title string) (*domain.Document, error) {
	m.lastName, m.lastContent, m.lastTitle = name, content, title
	if m.err != nil {
		return nil, m.err
	}
	if title == "" {
		title = "Imported"
	}
	return &domain.Document{ID: "imported", Title: title, Content: domain.DeltaFromText(string(content))}, nil
}

func (m *mockImportService) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/plain"}
}
