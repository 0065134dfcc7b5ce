package driving

import (
	"context"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// SuggestionService answers one-shot suggestion requests outside an editor
// session, for the CLI and MCP surfaces.
type SuggestionService interface {
	// Content returns content suggestions for text.
	Content(ctx context.Context, text string) ([]domain.Suggestion, error)

	// Grammar returns grammar and style findings for text.
	Grammar(ctx context.Context, text string) ([]domain.Suggestion, error)

	// WordAnalysis returns analysis for a single word.
	WordAnalysis(ctx context.Context, word string) ([]domain.Suggestion, error)

	// Apply returns text with the suggestion applied at the selection.
	Apply(text string, sel domain.Selection, s domain.Suggestion) (string, error)
}
