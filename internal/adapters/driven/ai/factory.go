// Package ai provides factory functions for the local suggestion backend:
// the optional LLM service and the offline suggestion source built on it.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/ai/heuristic"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/config/file"
	ollamallm "github.com/custodia-labs/scribe-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const (
	pingTimeout = 5 * time.Second

	// llmKeepAlive keeps the model resident between keystroke-driven requests.
	llmKeepAlive = "10m"
)

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService  driven.LLMService
	PromptStore driven.PromptStore // User-customisable prompt templates.
	Warnings    []string           // Non-fatal issues that caused fallback.
	FellBack    bool               // True if fell back to built-in rules only.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the LLM service when enabled and validates it. An
// unreachable LLM is not fatal: the result falls back to built-in rules
// and records a warning.
func Init(ctx context.Context, settings *domain.LLMSettings, promptDir string) *InitResult {
	result := &InitResult{}

	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("prompt store: %v", err))
	} else {
		result.PromptStore = prompts
	}

	svc, err := CreateAndValidateLLMService(ctx, settings)
	if err != nil {
		logger.Warn("ai: %v", err)
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
		return result
	}
	result.LLMService = svc
	return result
}

// NewSuggestionSource builds the offline suggestion source over the
// initialised services.
func NewSuggestionSource(documents driven.DocumentStore, result *InitResult) *heuristic.Source {
	var llm driven.LLMService
	if result != nil {
		llm = result.LLMService
	}
	src := heuristic.NewSource(documents, llm)
	if result != nil && result.PromptStore != nil {
		src.SetPromptStore(result.PromptStore)
	}
	return src
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns nil when the LLM is disabled.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc := CreateLLMService(settings)
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'scribe config set llm.enabled false' to disable it",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is used by 'config set' before enabling the LLM.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	if svc != nil {
		svc.Close()
	}
	return nil
}

// CreateLLMService creates the Ollama LLM service. Returns nil if the LLM
// is not enabled.
func CreateLLMService(settings *domain.LLMSettings) driven.LLMService {
	if settings == nil || !settings.Enabled {
		return nil
	}
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL:   settings.BaseURL,
		Model:     settings.Model,
		KeepAlive: llmKeepAlive,
	})
}
