package heuristic

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.SuggestionSource = (*Source)(nil)
	_ driven.PromptStoreAware = (*Source)(nil)
)

// Rule thresholds.
const (
	longSentenceTokens = 40
	shortSentenceToken = 3
	shortTextWords     = 5
	llmMaxTokens       = 150
	llmTemperature     = 0.7
)

// NoIssuesFeedback is returned when the grammar rules find nothing.
const NoIssuesFeedback = "The text appears to be grammatically correct, but you might want to expand it for better context."

var contentTips = []string{
	"Try adding specific examples to illustrate your point.",
	"Consider adding a topic sentence to better frame your idea.",
	"You might want to elaborate on the importance of grammar in writing.",
	"Consider explaining why grammar is relevant to your context.",
}

// Fallback prompts used without a prompt store.
var fallbackPrompts = map[string]string{
	driven.PromptContentSystem:  "You are a helpful writing assistant. Analyze the text and provide suggestions for improvement in terms of style, clarity, and engagement.",
	driven.PromptFeedbackSystem: "You are a helpful writing assistant. Analyze the text and provide grammar and style suggestions.",
	driven.PromptFeedbackUser:   "Please analyze this text and provide suggestions: %s",
}

// Source is the offline suggestion source.
type Source struct {
	documents driven.DocumentStore
	llm       driven.LLMService
	prompts   driven.PromptStore
	pick      func(n int) int
}

// NewSource creates a source. documents is needed for document feedback;
// llm may be nil.
func NewSource(documents driven.DocumentStore, llm driven.LLMService) *Source {
	return &Source{
		documents: documents,
		llm:       llm,
		pick:      rand.IntN,
	}
}

// SetPromptStore sets the store the LLM prompts are loaded from.
func (s *Source) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

func (s *Source) prompt(name string) string {
	if s.prompts != nil {
		if p, err := s.prompts.Load(name); err == nil {
			return p
		}
	}
	return fallbackPrompts[name]
}

// GrammarCheck applies the sentence rules to text.
func (s *Source) GrammarCheck(_ context.Context, text string) ([]domain.Suggestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required: %w", domain.ErrInvalidInput)
	}

	var out []domain.Suggestion
	add := func(kind domain.SuggestionKind, confidence float64, format string, sent string) {
		out = append(out, domain.Suggestion{
			Kind:       kind,
			Text:       fmt.Sprintf(format, sent),
			Confidence: confidence,
		})
	}

	for _, sent := range splitSentences(text) {
		tokens := sent.tokens
		lowered := lower(tokens)

		if len(tokens) > longSentenceTokens {
			add(domain.KindGrammar, 0.7, "Consider breaking this long sentence into smaller ones: %q", sent.text)
		}
		if len(tokens) > 0 && !unicode.IsUpper([]rune(tokens[0])[0]) {
			add(domain.KindGrammar, 0.9, "Sentence should start with a capital letter: %q", sent.text)
		}
		if len(tokens) > 0 && !isTerminalToken(tokens[len(tokens)-1]) {
			add(domain.KindGrammar, 0.9, "Sentence should end with proper punctuation: %q", sent.text)
		}
		if hasPassive(lowered) {
			add(domain.KindGrammar, 0.8, "Consider using active voice instead of passive voice in: %q", sent.text)
		}
		if contains(lowered, "it", "he", "she") && contains(tokens, "are", "were") {
			add(domain.KindGrammar, 0.8, "Check subject-verb agreement in: %q", sent.text)
		}
		if contains(lowered, "js") {
			add(domain.KindStyle, 0.7, "Consider using \"JavaScript\" instead of \"js\" for better clarity: %q", sent.text)
		}
		if len(tokens) < shortSentenceToken {
			add(domain.KindGrammar, 0.7, "This might be an incomplete sentence: %q", sent.text)
		}
	}

	if len(out) == 0 {
		out = append(out, domain.Suggestion{Kind: domain.KindFeedback, Text: NoIssuesFeedback, Confidence: 0.6})
	}
	return out, nil
}

func isTerminalToken(tok string) bool {
	return tok == "." || tok == "!" || tok == "?"
}

// ContentSuggestions asks the LLM for one suggestion when configured and
// falls back to the built-in checks when it is not or when it fails.
func (s *Source) ContentSuggestions(ctx context.Context, text string) ([]domain.Suggestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required: %w", domain.ErrInvalidInput)
	}

	if s.llm != nil {
		reply, err := s.llm.Chat(ctx, []driven.ChatMessage{
			{Role: "system", Content: s.prompt(driven.PromptContentSystem)},
			{Role: "user", Content: text},
		}, driven.GenerateOptions{MaxTokens: llmMaxTokens, Temperature: llmTemperature})
		if err == nil && reply != "" {
			return []domain.Suggestion{{Kind: domain.KindContent, Text: reply, Confidence: 0.9}}, nil
		}
		logger.Warn("heuristic: llm content suggestions failed, using built-in tips: %v", err)
	}

	return s.fallbackContent(text), nil
}

func (s *Source) fallbackContent(text string) []domain.Suggestion {
	var out []domain.Suggestion
	trimmed := strings.TrimSpace(text)

	if !isTerminal([]rune(trimmed)[len([]rune(trimmed))-1]) {
		out = append(out, domain.Suggestion{
			Kind:       domain.KindGrammar,
			Text:       "Add proper punctuation at the end of your sentence.",
			Confidence: 0.9,
		})
	}
	if strings.HasPrefix(strings.ToLower(text), "grammer") {
		out = append(out, domain.Suggestion{
			Kind:       domain.KindGrammar,
			Text:       `Correct spelling: "Grammar" instead of "Grammer"`,
			Confidence: 0.95,
		})
	}
	if len(strings.Fields(text)) < shortTextWords {
		out = append(out, domain.Suggestion{
			Kind:       domain.KindStyle,
			Text:       "Consider expanding your text to provide more context and detail.",
			Confidence: 0.8,
		})
	}
	out = append(out, domain.Suggestion{
		Kind:       domain.KindContent,
		Text:       contentTips[s.pick(len(contentTips))],
		Confidence: 0.7,
	})
	return out
}

// WordAnalysis asks the LLM for a short definition when configured. There
// is no offline lexical database, so the list is otherwise empty.
func (s *Source) WordAnalysis(ctx context.Context, word string) ([]domain.Suggestion, error) {
	if s.llm == nil {
		return []domain.Suggestion{}, nil
	}
	reply, err := s.llm.Generate(ctx,
		fmt.Sprintf("Define the English word %q in one sentence. Reply with the definition only.", word),
		driven.GenerateOptions{MaxTokens: 60, Temperature: 0.2})
	if err != nil || reply == "" {
		logger.Warn("heuristic: llm word analysis failed: %v", err)
		return []domain.Suggestion{}, nil
	}
	return []domain.Suggestion{{
		Kind:       domain.KindWordAnalysis,
		Text:       reply,
		Context:    word,
		Confidence: 0.8,
	}}, nil
}

// DocumentFeedback produces whole-document feedback spanning the full text.
func (s *Source) DocumentFeedback(ctx context.Context, documentID string) (*domain.AIFeedback, error) {
	if s.documents == nil {
		return nil, domain.ErrNotImplemented
	}
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	text := doc.Content.PlainText()

	suggestion, err := s.feedbackText(ctx, text)
	if err != nil {
		return nil, err
	}
	return &domain.AIFeedback{
		DocumentID:   doc.ID,
		FeedbackType: domain.FeedbackTypeGeneral,
		StartIndex:   0,
		EndIndex:     len([]rune(text)),
		Suggestion:   suggestion,
	}, nil
}

func (s *Source) feedbackText(ctx context.Context, text string) (string, error) {
	if s.llm != nil {
		reply, err := s.llm.Chat(ctx, []driven.ChatMessage{
			{Role: "system", Content: s.prompt(driven.PromptFeedbackSystem)},
			{Role: "user", Content: fmt.Sprintf(s.prompt(driven.PromptFeedbackUser), text)},
		}, driven.GenerateOptions{})
		if err != nil {
			return "", fmt.Errorf("llm feedback: %w", err)
		}
		return reply, nil
	}

	if strings.TrimSpace(text) == "" {
		return "The document is empty.", nil
	}
	findings, err := s.GrammarCheck(ctx, text)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(findings))
	for _, f := range findings {
		lines = append(lines, "- "+f.Text)
	}
	return strings.Join(lines, "\n"), nil
}
