package heuristic

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

type fakeLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	prompt   string
	opts     driven.GenerateOptions
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.prompt = prompt
	f.opts = opts
	return f.reply, f.err
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.GenerateOptions) (string, error) {
	f.messages = messages
	f.opts = opts
	return f.reply, f.err
}

func (f *fakeLLM) ModelName() string            { return "fake" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

type fakePrompts map[string]string

func (p fakePrompts) Load(name string) (string, error) {
	if v, ok := p[name]; ok {
		return v, nil
	}
	return "", errors.New("missing")
}

func (p fakePrompts) Reload() {}

func texts(ss []domain.Suggestion) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Text
	}
	return out
}

func TestGrammarCheck_Rules(t *testing.T) {
	src := NewSource(nil, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		text      string
		wantKinds []domain.SuggestionKind
		contains  []string
	}{
		{
			name:      "short lowercase fragment",
			text:      "hello world",
			wantKinds: []domain.SuggestionKind{domain.KindGrammar, domain.KindGrammar, domain.KindGrammar},
			contains:  []string{"capital letter", "proper punctuation", "incomplete sentence"},
		},
		{
			name:      "passive voice",
			text:      "The report was reviewed by the team.",
			wantKinds: []domain.SuggestionKind{domain.KindGrammar},
			contains:  []string{"active voice"},
		},
		{
			name:      "js abbreviation",
			text:      "I like js a lot.",
			wantKinds: []domain.SuggestionKind{domain.KindStyle},
			contains:  []string{`"JavaScript" instead of "js"`},
		},
		{
			name:      "subject verb agreement",
			text:      "It were fine yesterday.",
			wantKinds: []domain.SuggestionKind{domain.KindGrammar},
			contains:  []string{"subject-verb agreement"},
		},
		{
			name:      "clean sentence",
			text:      "This is a complete sentence.",
			wantKinds: []domain.SuggestionKind{domain.KindFeedback},
			contains:  []string{NoIssuesFeedback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.GrammarCheck(ctx, tt.text)
			require.NoError(t, err)
			require.Len(t, got, len(tt.wantKinds))
			for i, k := range tt.wantKinds {
				assert.Equal(t, k, got[i].Kind)
			}
			joined := strings.Join(texts(got), "\n")
			for _, c := range tt.contains {
				assert.Contains(t, joined, c)
			}
		})
	}
}

func TestGrammarCheck_LongSentence(t *testing.T) {
	src := NewSource(nil, nil)
	text := "Start " + strings.Repeat("word ", 41) + "end."

	got, err := src.GrammarCheck(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Text, "breaking this long sentence")
	assert.InDelta(t, 0.7, got[0].Confidence, 1e-9)
}

func TestGrammarCheck_PerSentence(t *testing.T) {
	src := NewSource(nil, nil)

	got, err := src.GrammarCheck(context.Background(), "First one is fine. second one")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, s := range got {
		assert.Contains(t, s.Text, `"second one"`)
	}
}

func TestGrammarCheck_EmptyText(t *testing.T) {
	src := NewSource(nil, nil)

	_, err := src.GrammarCheck(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContentSuggestions_Fallback(t *testing.T) {
	src := NewSource(nil, nil)
	src.pick = func(int) int { return 0 }

	got, err := src.ContentSuggestions(context.Background(), "grammer is hard")
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, domain.KindGrammar, got[0].Kind)
	assert.Contains(t, got[0].Text, "punctuation")
	assert.InDelta(t, 0.95, got[1].Confidence, 1e-9)
	assert.Equal(t, domain.KindStyle, got[2].Kind)
	assert.Equal(t, domain.KindContent, got[3].Kind)
	assert.Equal(t, contentTips[0], got[3].Text)
}

func TestContentSuggestions_LongPunctuatedText(t *testing.T) {
	src := NewSource(nil, nil)
	src.pick = func(n int) int { return n - 1 }

	got, err := src.ContentSuggestions(context.Background(), "Writing clearly takes a lot of practice.")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, contentTips[len(contentTips)-1], got[0].Text)
}

func TestContentSuggestions_LLM(t *testing.T) {
	llm := &fakeLLM{reply: "Add a concrete example."}
	src := NewSource(nil, llm)
	src.SetPromptStore(fakePrompts{driven.PromptContentSystem: "custom system"})

	got, err := src.ContentSuggestions(context.Background(), "Some text here.")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.KindContent, got[0].Kind)
	assert.Equal(t, "Add a concrete example.", got[0].Text)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, "custom system", llm.messages[0].Content)
	assert.Equal(t, "Some text here.", llm.messages[1].Content)
	assert.Equal(t, 150, llm.opts.MaxTokens)
	assert.InDelta(t, 0.7, llm.opts.Temperature, 1e-9)
}

func TestContentSuggestions_LLMFailureFallsBack(t *testing.T) {
	src := NewSource(nil, &fakeLLM{err: domain.ErrLLMUnavailable})
	src.pick = func(int) int { return 1 }

	got, err := src.ContentSuggestions(context.Background(), "Writing clearly takes a lot of practice.")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, contentTips[1], got[0].Text)
}

func TestWordAnalysis(t *testing.T) {
	t.Run("without llm returns empty list", func(t *testing.T) {
		got, err := NewSource(nil, nil).WordAnalysis(context.Background(), "world")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("with llm returns definition", func(t *testing.T) {
		llm := &fakeLLM{reply: "The earth and its inhabitants."}
		got, err := NewSource(nil, llm).WordAnalysis(context.Background(), "world")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.KindWordAnalysis, got[0].Kind)
		assert.Equal(t, "world", got[0].Context)
		assert.Contains(t, llm.prompt, `"world"`)
	})
}

func TestDocumentFeedback(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	doc, err := store.Create(ctx, "Notes", domain.DeltaFromText("This is a complete sentence."))
	require.NoError(t, err)

	t.Run("built-in summary", func(t *testing.T) {
		fb, err := NewSource(store, nil).DocumentFeedback(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, fb.DocumentID)
		assert.Equal(t, domain.FeedbackTypeGeneral, fb.FeedbackType)
		assert.Equal(t, 0, fb.StartIndex)
		assert.Equal(t, len("This is a complete sentence."), fb.EndIndex)
		assert.Equal(t, "- "+NoIssuesFeedback, fb.Suggestion)
	})

	t.Run("llm prompts", func(t *testing.T) {
		llm := &fakeLLM{reply: "Looks good."}
		fb, err := NewSource(store, llm).DocumentFeedback(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Looks good.", fb.Suggestion)
		require.Len(t, llm.messages, 2)
		assert.Equal(t, "system", llm.messages[0].Role)
		assert.Contains(t, llm.messages[1].Content, "This is a complete sentence.")
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := NewSource(store, nil).DocumentFeedback(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no store", func(t *testing.T) {
		_, err := NewSource(nil, nil).DocumentFeedback(ctx, doc.ID)
		assert.ErrorIs(t, err, domain.ErrNotImplemented)
	})
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One two. Three?\n\nfour five")
	require.Len(t, got, 3)
	assert.Equal(t, "One two.", got[0].text)
	assert.Equal(t, []string{"One", "two", "."}, got[0].tokens)
	assert.Equal(t, "Three?", got[1].text)
	assert.Equal(t, "four five", got[2].text)
}
