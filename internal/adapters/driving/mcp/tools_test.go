package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

func newTestServer(t *testing.T, suggestions *mockSuggestionService, docs *mockDocumentService) *Server {
	t.Helper()
	ports := &Ports{Suggestions: suggestions}
	if docs != nil {
		ports.Documents = docs
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleGrammarCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("returns findings", func(t *testing.T) {
		mock := &mockSuggestionService{
			grammar: []domain.Suggestion{
				{Kind: domain.KindGrammar, Text: "Add a period.", Confidence: 0.9},
				{Kind: domain.KindStyle, Text: "Write JavaScript.", Context: "naming", Confidence: 0.7},
			},
		}
		server := newTestServer(t, mock, nil)

		_, output, err := server.handleGrammarCheck(ctx, nil, TextInput{Text: "I like js"})

		require.NoError(t, err)
		assert.Equal(t, "I like js", mock.lastText)
		assert.Equal(t, 2, output.Count)
		require.Len(t, output.Suggestions, 2)
		assert.Equal(t, "grammar", output.Suggestions[0].Type)
		assert.Equal(t, "Add a period.", output.Suggestions[0].Suggestion)
		assert.Equal(t, 0.9, output.Suggestions[0].Confidence)
		assert.Equal(t, "style", output.Suggestions[1].Type)
		assert.Equal(t, "naming", output.Suggestions[1].Context)
	})

	t.Run("empty result has zero count", func(t *testing.T) {
		server := newTestServer(t, &mockSuggestionService{}, nil)

		_, output, err := server.handleGrammarCheck(ctx, nil, TextInput{Text: "Fine."})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Suggestions)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server := newTestServer(t, &mockSuggestionService{err: domain.ErrRequestFailed}, nil)

		_, _, err := server.handleGrammarCheck(ctx, nil, TextInput{Text: "x"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRequestFailed)
		assert.Contains(t, err.Error(), "grammar check")
	})
}

func TestServer_handleContentSuggestions(t *testing.T) {
	ctx := context.Background()

	mock := &mockSuggestionService{
		content: []domain.Suggestion{
			{Kind: domain.KindContent, Text: "Add an example.", Confidence: 0.5},
		},
	}
	server := newTestServer(t, mock, nil)

	_, output, err := server.handleContentSuggestions(ctx, nil, TextInput{Text: "draft"})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "content", output.Suggestions[0].Type)
	assert.Equal(t, "draft", mock.lastText)
}

func TestServer_handleWordAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("returns analysis", func(t *testing.T) {
		mock := &mockSuggestionService{
			words: []domain.Suggestion{{
				Kind:       domain.KindWordAnalysis,
				Text:       "a greeting",
				Context:    "hello.n.01",
				Examples:   []string{"say hello"},
				Confidence: 1,
			}},
		}
		server := newTestServer(t, mock, nil)

		_, output, err := server.handleWordAnalysis(ctx, nil, WordInput{Word: "hello"})

		require.NoError(t, err)
		require.Len(t, output.Suggestions, 1)
		assert.Equal(t, "word-analysis", output.Suggestions[0].Type)
		assert.Equal(t, []string{"say hello"}, output.Suggestions[0].Examples)
		assert.Equal(t, "hello", mock.lastText)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server := newTestServer(t, &mockSuggestionService{err: errors.New("boom")}, nil)

		_, _, err := server.handleWordAnalysis(ctx, nil, WordInput{Word: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "word analysis")
	})
}

func TestServer_handleApplySuggestion(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &mockSuggestionService{}, nil)

	tests := []struct {
		name    string
		input   ApplyInput
		want    string
		changed bool
	}{
		{
			name:    "grammar appends period",
			input:   ApplyInput{Text: "Hello world", Kind: "grammar"},
			want:    "Hello world.",
			changed: true,
		},
		{
			name:    "grammar keeps existing period",
			input:   ApplyInput{Text: "Done.", Kind: "grammar"},
			want:    "Done..",
			changed: true,
		},
		{
			name:    "style rewrites abbreviation",
			input:   ApplyInput{Text: "I like js", Kind: "style"},
			want:    "I like JavaScript",
			changed: true,
		},
		{
			name:    "style without match is unchanged",
			input:   ApplyInput{Text: "I like Go", Kind: "STYLE"},
			want:    "I like Go",
			changed: false,
		},
		{
			name:    "grammar on second line",
			input:   ApplyInput{Text: "One.\nTwo", Kind: "grammar", Index: 6},
			want:    "One.\nTwo.",
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleApplySuggestion(ctx, nil, tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, output.Text)
			assert.Equal(t, tt.changed, output.Changed)
		})
	}

	t.Run("informational kind is rejected", func(t *testing.T) {
		_, _, err := server.handleApplySuggestion(ctx, nil, ApplyInput{Text: "x", Kind: "content"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, _, err := server.handleApplySuggestion(ctx, nil, ApplyInput{Text: "x", Kind: "rewrite"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleDocumentFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("returns feedback", func(t *testing.T) {
		docs := &mockDocumentService{
			feedback: &domain.AIFeedback{DocumentID: "doc-1", Suggestion: "Tighten the intro."},
		}
		server := newTestServer(t, &mockSuggestionService{}, docs)

		_, output, err := server.handleDocumentFeedback(ctx, nil, FeedbackInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Equal(t, "Tighten the intro.", output.Feedback)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNotFound}
		server := newTestServer(t, &mockSuggestionService{}, docs)

		_, _, err := server.handleDocumentFeedback(ctx, nil, FeedbackInput{DocumentID: "missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("without document service", func(t *testing.T) {
		server := newTestServer(t, &mockSuggestionService{}, nil)

		_, _, err := server.handleDocumentFeedback(ctx, nil, FeedbackInput{DocumentID: "doc-1"})

		assert.ErrorIs(t, err, ErrDocumentsUnavailable)
	})
}

func TestServer_handleImportDocument(t *testing.T) {
	ctx := context.Background()

	newImportServer := func(t *testing.T, imports *mockImportService) *Server {
		t.Helper()
		server, err := NewServer(&Ports{Suggestions: &mockSuggestionService{}, Imports: imports})
		require.NoError(t, err)
		return server
	}

	t.Run("plain content", func(t *testing.T) {
		imports := &mockImportService{}
		server := newImportServer(t, imports)

		_, output, err := server.handleImportDocument(ctx, nil, ImportInput{
			Name: "notes.md", Content: "# Notes", Title: "Mine",
		})

		require.NoError(t, err)
		assert.Equal(t, "notes.md", imports.lastName)
		assert.Equal(t, "# Notes", string(imports.lastContent))
		assert.Equal(t, "imported", output.DocumentID)
		assert.Equal(t, "Mine", output.Title)
		assert.Equal(t, 7, output.Characters)
	})

	t.Run("base64 content", func(t *testing.T) {
		imports := &mockImportService{}
		server := newImportServer(t, imports)

		_, _, err := server.handleImportDocument(ctx, nil, ImportInput{
			Name: "a.docx", Content: "aGVsbG8=", Base64: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "hello", string(imports.lastContent))
	})

	t.Run("bad base64", func(t *testing.T) {
		server := newImportServer(t, &mockImportService{})

		_, _, err := server.handleImportDocument(ctx, nil, ImportInput{Name: "a.docx", Content: "%%", Base64: true})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unsupported format", func(t *testing.T) {
		server := newImportServer(t, &mockImportService{err: domain.ErrUnsupportedFormat})

		_, _, err := server.handleImportDocument(ctx, nil, ImportInput{Name: "a.png", Content: "x"})

		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
		assert.Contains(t, err.Error(), "import a.png")
	})

	t.Run("without import service", func(t *testing.T) {
		server := newTestServer(t, &mockSuggestionService{}, nil)

		_, _, err := server.handleImportDocument(ctx, nil, ImportInput{Name: "a.md"})

		assert.ErrorIs(t, err, ErrImportsUnavailable)
	})
}
