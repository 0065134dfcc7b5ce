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

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// ImportService converts files through the normaliser registry and stores
// the result as a new document.
type ImportService struct {
	docStore driven.DocumentStore
	registry driven.NormaliserRegistry
}

// NewImportService creates a new import service.
func NewImportService(docStore driven.DocumentStore, registry driven.NormaliserRegistry) *ImportService {
	return &ImportService{docStore: docStore, registry: registry}
}

// Import normalises content and creates a document from it. Title
// precedence is the explicit title, then the normalised title, then
// domain.DefaultTitle.
func (s *ImportService) Import(ctx context.Context, name string, content []byte, title string) (*domain.Document, error) {
	if s.docStore == nil || s.registry == nil {
		return nil, domain.ErrNotImplemented
	}

	raw := &domain.RawFile{
		Name:     name,
		MIMEType: DetectMIMEType(name, content),
		Content:  content,
	}
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(result.Title)
	}
	if title == "" {
		title = domain.DefaultTitle
	}

	doc, err := s.docStore.Create(ctx, title, result.Content)
	if err != nil {
		return nil, fmt.Errorf("storing imported document: %w", err)
	}
	logger.Info("imported %s as %s (%s)", name, doc.ID, raw.MIMEType)
	return doc, nil
}

// SupportedMIMETypes returns the file types the registry can import.
func (s *ImportService) SupportedMIMETypes() []string {
	if s.registry == nil {
		return nil
	}
	return s.registry.SupportedMIMETypes()
}
