package driven

import (
	"context"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// SuggestionSource is the request/response boundary to the text-analysis
// service. Each call is a single request with no retry; a failed request
// returns an error and has no side effects.
type SuggestionSource interface {
	// ContentSuggestions returns suggestions for improving the text.
	ContentSuggestions(ctx context.Context, text string) ([]domain.Suggestion, error)

	// GrammarCheck returns grammar and style findings for the text.
	GrammarCheck(ctx context.Context, text string) ([]domain.Suggestion, error)

	// WordAnalysis returns definitions and examples for a single word.
	WordAnalysis(ctx context.Context, word string) ([]domain.Suggestion, error)

	// DocumentFeedback produces whole-document feedback for a stored document.
	DocumentFeedback(ctx context.Context, documentID string) (*domain.AIFeedback, error)
}
