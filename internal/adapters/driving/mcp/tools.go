package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// TextInput is the input schema for tools that inspect a passage of text.
type TextInput struct {
	Text string `json:"text" jsonschema:"the text to inspect"`
}

// WordInput is the input schema for the word_analysis tool.
type WordInput struct {
	Word string `json:"word" jsonschema:"a single word to analyse"`
}

// ApplyInput is the input schema for the apply_suggestion tool.
type ApplyInput struct {
	Text   string `json:"text" jsonschema:"the text to transform"`
	Kind   string `json:"kind" jsonschema:"suggestion kind: grammar or style"`
	Index  int    `json:"index,omitempty" jsonschema:"cursor offset in characters (default 0)"`
	Length int    `json:"length,omitempty" jsonschema:"selection length in characters"`
}

// ApplyOutput is the output schema for the apply_suggestion tool.
type ApplyOutput struct {
	Text    string `json:"text"`
	Changed bool   `json:"changed"`
}

// FeedbackInput is the input schema for the document_feedback tool.
type FeedbackInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of a stored document"`
}

// FeedbackOutput is the output schema for the document_feedback tool.
type FeedbackOutput struct {
	DocumentID string `json:"document_id"`
	Feedback   string `json:"feedback"`
}

// ImportInput is the input schema for the import_document tool.
type ImportInput struct {
	Name    string `json:"name" jsonschema:"file name; the extension selects the format"`
	Content string `json:"content" jsonschema:"file content, base64 encoded when base64 is true"`
	Base64  bool   `json:"base64,omitempty" jsonschema:"set for binary formats such as docx"`
	Title   string `json:"title,omitempty" jsonschema:"document title (default: derived from the file)"`
}

// ImportOutput is the output schema for the import_document tool.
type ImportOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Characters int    `json:"characters"`
}

// SuggestionsOutput is the output schema for the suggestion tools.
type SuggestionsOutput struct {
	Suggestions []SuggestionOutput `json:"suggestions"`
	Count       int                `json:"count"`
}

// SuggestionOutput represents a single suggestion.
type SuggestionOutput struct {
	Type       string   `json:"type"`
	Suggestion string   `json:"suggestion"`
	Context    string   `json:"context,omitempty"`
	Examples   []string `json:"examples,omitempty"`
	Confidence float64  `json:"confidence"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "grammar_check",
		Description: "Check text for grammar and style issues",
	}, s.handleGrammarCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "content_suggestions",
		Description: "Suggest content additions for a draft",
	}, s.handleContentSuggestions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "word_analysis",
		Description: "Describe a single word with definitions, synonyms and examples",
	}, s.handleWordAnalysis)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_suggestion",
		Description: "Apply a grammar or style suggestion to text and return the result",
	}, s.handleApplySuggestion)

	if s.ports.Documents != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "document_feedback",
			Description: "Get whole-document feedback for a stored document",
		}, s.handleDocumentFeedback)
	}

	if s.ports.Imports != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name: "import_document",
			Description: "Store a Markdown, HTML, DOCX or plain text file as a new document (formats: " +
				strings.Join(s.ports.Imports.SupportedMIMETypes(), ", ") + ")",
		}, s.handleImportDocument)
	}
}

// handleGrammarCheck handles the grammar_check tool invocation.
func (s *Server) handleGrammarCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TextInput,
) (*mcp.CallToolResult, SuggestionsOutput, error) {
	results, err := s.ports.Suggestions.Grammar(ctx, input.Text)
	if err != nil {
		return nil, SuggestionsOutput{}, fmt.Errorf("grammar check: %w", err)
	}
	return nil, toOutput(results), nil
}

// handleContentSuggestions handles the content_suggestions tool invocation.
func (s *Server) handleContentSuggestions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TextInput,
) (*mcp.CallToolResult, SuggestionsOutput, error) {
	results, err := s.ports.Suggestions.Content(ctx, input.Text)
	if err != nil {
		return nil, SuggestionsOutput{}, fmt.Errorf("content suggestions: %w", err)
	}
	return nil, toOutput(results), nil
}

// handleWordAnalysis handles the word_analysis tool invocation.
func (s *Server) handleWordAnalysis(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WordInput,
) (*mcp.CallToolResult, SuggestionsOutput, error) {
	results, err := s.ports.Suggestions.WordAnalysis(ctx, input.Word)
	if err != nil {
		return nil, SuggestionsOutput{}, fmt.Errorf("word analysis: %w", err)
	}
	return nil, toOutput(results), nil
}

// handleApplySuggestion handles the apply_suggestion tool invocation.
func (s *Server) handleApplySuggestion(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ApplyInput,
) (*mcp.CallToolResult, ApplyOutput, error) {
	kind := domain.ParseSuggestionKind(input.Kind)
	if !kind.Mutates() {
		return nil, ApplyOutput{}, fmt.Errorf("kind %q does not change text: %w",
			strings.TrimSpace(input.Kind), domain.ErrInvalidInput)
	}

	sel := domain.Selection{Index: input.Index, Length: input.Length}
	out, err := s.ports.Suggestions.Apply(input.Text, sel, domain.Suggestion{Kind: kind})
	if err != nil {
		return nil, ApplyOutput{}, fmt.Errorf("apply suggestion: %w", err)
	}
	return nil, ApplyOutput{Text: out, Changed: out != input.Text}, nil
}

// handleDocumentFeedback handles the document_feedback tool invocation.
func (s *Server) handleDocumentFeedback(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FeedbackInput,
) (*mcp.CallToolResult, FeedbackOutput, error) {
	if s.ports.Documents == nil {
		return nil, FeedbackOutput{}, ErrDocumentsUnavailable
	}

	fb, err := s.ports.Documents.RequestFeedback(ctx, input.DocumentID)
	if err != nil {
		return nil, FeedbackOutput{}, fmt.Errorf("document feedback: %w", err)
	}
	return nil, FeedbackOutput{DocumentID: fb.DocumentID, Feedback: fb.Suggestion}, nil
}

// handleImportDocument handles the import_document tool invocation.
func (s *Server) handleImportDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportInput,
) (*mcp.CallToolResult, ImportOutput, error) {
	if s.ports.Imports == nil {
		return nil, ImportOutput{}, ErrImportsUnavailable
	}

	content := []byte(input.Content)
	if input.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(input.Content)
		if err != nil {
			return nil, ImportOutput{}, fmt.Errorf("decoding content: %w: %w", domain.ErrInvalidInput, err)
		}
		content = decoded
	}

	doc, err := s.ports.Imports.Import(ctx, input.Name, content, input.Title)
	if err != nil {
		return nil, ImportOutput{}, fmt.Errorf("import %s: %w", input.Name, err)
	}
	return nil, ImportOutput{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Characters: len([]rune(doc.Content.PlainText())),
	}, nil
}

func toOutput(results []domain.Suggestion) SuggestionsOutput {
	output := SuggestionsOutput{
		Suggestions: make([]SuggestionOutput, len(results)),
		Count:       len(results),
	}
	for i := range results {
		output.Suggestions[i] = SuggestionOutput{
			Type:       results[i].Kind.String(),
			Suggestion: results[i].Text,
			Context:    results[i].Context,
			Examples:   results[i].Examples,
			Confidence: results[i].Confidence,
		}
	}
	return output
}
