package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.DocumentStore = (*Client)(nil)

// flexID accepts numeric or string primary keys.
type flexID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *flexID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = flexID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = flexID(s)
	return nil
}

// documentResponse is the backend document representation.
type documentResponse struct {
	ID        flexID    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d documentResponse) toDomain() domain.Document {
	return domain.Document{
		ID:        string(d.ID),
		Title:     d.Title,
		Content:   decodeContent(d.Content),
		IsPublic:  d.IsPublic,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// createRequest is the POST /api/documents/ body.
type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// patchRequest is the PATCH /api/documents/<id>/ body.
type patchRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// encodeContent serialises a delta for the content field.
func encodeContent(d domain.Delta) (string, error) {
	if d.Ops == nil {
		d.Ops = []domain.Op{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal content: %w", err)
	}
	return string(data), nil
}

// decodeContent reads a content field. Anything that is not a Delta JSON
// object is taken as plain text.
func decodeContent(s string) domain.Delta {
	if trimmed := strings.TrimSpace(s); strings.HasPrefix(trimmed, "{") {
		var d domain.Delta
		if err := json.Unmarshal([]byte(trimmed), &d); err == nil && d.Ops != nil {
			return d
		}
	}
	return domain.DeltaFromText(s)
}

func documentPath(id string) string {
	return "/documents/" + url.PathEscape(id) + "/"
}

// List returns all documents.
func (c *Client) List(ctx context.Context) ([]domain.Document, error) {
	var resp []documentResponse
	if err := c.do(ctx, http.MethodGet, "/documents/", nil, &resp); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs := make([]domain.Document, 0, len(resp))
	for _, d := range resp {
		docs = append(docs, d.toDomain())
	}
	return docs, nil
}

// Get retrieves a document by ID.
func (c *Client) Get(ctx context.Context, id string) (*domain.Document, error) {
	var resp documentResponse
	if err := c.do(ctx, http.MethodGet, documentPath(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	doc := resp.toDomain()
	return &doc, nil
}

// Create stores a new document and returns it with the backend's ID.
func (c *Client) Create(ctx context.Context, title string, content domain.Delta) (*domain.Document, error) {
	encoded, err := encodeContent(content)
	if err != nil {
		return nil, err
	}
	var resp documentResponse
	if err := c.do(ctx, http.MethodPost, "/documents/", createRequest{Title: title, Content: encoded}, &resp); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("create document: response without id: %w", domain.ErrRequestFailed)
	}
	doc := resp.toDomain()
	return &doc, nil
}

// Update applies a partial update.
func (c *Client) Update(ctx context.Context, id string, patch domain.DocumentPatch) (*domain.Document, error) {
	body := patchRequest{Title: patch.Title, IsPublic: patch.IsPublic}
	if patch.Content != nil {
		encoded, err := encodeContent(*patch.Content)
		if err != nil {
			return nil, err
		}
		body.Content = &encoded
	}
	var resp documentResponse
	if err := c.do(ctx, http.MethodPatch, documentPath(id), body, &resp); err != nil {
		return nil, fmt.Errorf("update document %s: %w", id, err)
	}
	doc := resp.toDomain()
	return &doc, nil
}

// Delete removes a document.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, documentPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// feedbackResponse is the backend AI feedback representation.
type feedbackResponse struct {
	ID           flexID    `json:"id"`
	Document     flexID    `json:"document"`
	FeedbackType string    `json:"feedback_type"`
	StartIndex   int       `json:"start_index"`
	EndIndex     int       `json:"end_index"`
	Suggestion   string    `json:"suggestion"`
	CreatedAt    time.Time `json:"created_at"`
}

func (f feedbackResponse) toDomain(documentID string) *domain.AIFeedback {
	fb := &domain.AIFeedback{
		ID:           string(f.ID),
		DocumentID:   string(f.Document),
		FeedbackType: f.FeedbackType,
		StartIndex:   f.StartIndex,
		EndIndex:     f.EndIndex,
		Suggestion:   f.Suggestion,
		CreatedAt:    f.CreatedAt,
	}
	if fb.DocumentID == "" {
		fb.DocumentID = documentID
	}
	if fb.FeedbackType == "" {
		fb.FeedbackType = domain.FeedbackTypeGeneral
	}
	return fb
}

// DocumentFeedback asks the backend for whole-document feedback.
func (c *Client) DocumentFeedback(ctx context.Context, documentID string) (*domain.AIFeedback, error) {
	if documentID == "" || documentID == domain.NewDocumentID {
		return nil, fmt.Errorf("document id %q: %w", documentID, domain.ErrInvalidInput)
	}
	var resp feedbackResponse
	if err := c.do(ctx, http.MethodPost, documentPath(documentID)+"get_ai_suggestions/", struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("document feedback %s: %w", documentID, err)
	}
	return resp.toDomain(documentID), nil
}
