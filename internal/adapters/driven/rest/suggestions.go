package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.SuggestionSource = (*Client)(nil)

// textRequest is the body of the text-analysis endpoints.
type textRequest struct {
	Text string `json:"text"`
}

// ContentSuggestions returns suggestions for improving the text.
func (c *Client) ContentSuggestions(ctx context.Context, text string) ([]domain.Suggestion, error) {
	var list []domain.Suggestion
	if err := c.do(ctx, http.MethodPost, "/ai/suggestions/", textRequest{Text: text}, &list); err != nil {
		return nil, fmt.Errorf("content suggestions: %w", err)
	}
	return list, nil
}

// GrammarCheck returns grammar and style findings for the text.
func (c *Client) GrammarCheck(ctx context.Context, text string) ([]domain.Suggestion, error) {
	var list []domain.Suggestion
	if err := c.do(ctx, http.MethodPost, "/ai/grammar/", textRequest{Text: text}, &list); err != nil {
		return nil, fmt.Errorf("grammar check: %w", err)
	}
	return list, nil
}

// WordAnalysis returns definitions and examples for a single word.
func (c *Client) WordAnalysis(ctx context.Context, word string) ([]domain.Suggestion, error) {
	var list []domain.Suggestion
	path := "/ai/word-analysis/" + url.PathEscape(word) + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("word analysis: %w", err)
	}
	return list, nil
}
