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

// Ensure SuggestionService implements the interface.
var _ driving.SuggestionService = (*SuggestionService)(nil)

// SuggestionService forwards one-shot requests to a suggestion source and
// applies suggestions to detached text.
type SuggestionService struct {
	source driven.SuggestionSource
}

// NewSuggestionService creates a new suggestion service.
func NewSuggestionService(source driven.SuggestionSource) *SuggestionService {
	return &SuggestionService{source: source}
}

// Content returns content suggestions for text.
func (s *SuggestionService) Content(ctx context.Context, text string) ([]domain.Suggestion, error) {
	if s.source == nil {
		return nil, domain.ErrSuggestionUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text provided: %w", domain.ErrInvalidInput)
	}
	logger.Debug("suggestions: content for %d runes", len([]rune(text)))
	return s.source.ContentSuggestions(ctx, text)
}

// Grammar returns grammar and style findings for text.
func (s *SuggestionService) Grammar(ctx context.Context, text string) ([]domain.Suggestion, error) {
	if s.source == nil {
		return nil, domain.ErrSuggestionUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text provided: %w", domain.ErrInvalidInput)
	}
	logger.Debug("suggestions: grammar for %d runes", len([]rune(text)))
	return s.source.GrammarCheck(ctx, text)
}

// WordAnalysis returns analysis for a single word.
func (s *SuggestionService) WordAnalysis(ctx context.Context, word string) ([]domain.Suggestion, error) {
	if s.source == nil {
		return nil, domain.ErrSuggestionUnavailable
	}
	w, ok := SingleToken(word)
	if !ok {
		return nil, fmt.Errorf("expected a single word, got %q: %w", word, domain.ErrInvalidInput)
	}
	return s.source.WordAnalysis(ctx, w)
}

// Apply returns text with the suggestion applied at the selection.
func (s *SuggestionService) Apply(text string, sel domain.Selection, sg domain.Suggestion) (string, error) {
	if sg.Kind == domain.KindUnknown {
		logger.Debug("suggestions: unknown kind applied as no-op")
	}
	return ApplyToText(text, PlanSuggestion(text, sel, sg)), nil
}
