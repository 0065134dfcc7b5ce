// Package ollama talks to a local Ollama server. It backs content
// suggestions, word definitions and document feedback in local mode.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures the client. Zero fields take the defaults above.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// KeepAlive is how long the server keeps the model loaded after a
	// request, in Ollama duration syntax ("5m", "1h"). Empty leaves the
	// server default.
	KeepAlive string
}

// LLMService is a non-streaming Ollama client.
type LLMService struct {
	client    *http.Client
	baseURL   string
	model     string
	keepAlive string
}

// Wire types for /api/generate, /api/chat and /api/tags.
type (
	options struct {
		NumPredict  int     `json:"num_predict,omitempty"`
		Temperature float64 `json:"temperature,omitempty"`
	}

	message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	generateRequest struct {
		Model     string   `json:"model"`
		Prompt    string   `json:"prompt"`
		Stream    bool     `json:"stream"`
		KeepAlive string   `json:"keep_alive,omitempty"`
		Options   *options `json:"options,omitempty"`
	}

	chatRequest struct {
		Model     string    `json:"model"`
		Messages  []message `json:"messages"`
		Stream    bool      `json:"stream"`
		KeepAlive string    `json:"keep_alive,omitempty"`
		Options   *options  `json:"options,omitempty"`
	}

	generateResponse struct {
		Response string `json:"response"`
	}

	chatResponse struct {
		Message message `json:"message"`
	}

	tagsResponse struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

// NewLLMService creates a client for cfg.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		model:     cfg.Model,
		keepAlive: cfg.KeepAlive,
	}
}

// Generate completes a single prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var resp generateResponse
	err := s.post(ctx, "/api/generate", generateRequest{
		Model:     s.model,
		Prompt:    prompt,
		KeepAlive: s.keepAlive,
		Options:   toOptions(opts),
	}, &resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Response), nil
}

// Chat sends a conversation and returns the assistant's reply.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.GenerateOptions) (string, error) {
	msgs := make([]message, len(messages))
	for i, m := range messages {
		msgs[i] = message{Role: m.Role, Content: m.Content}
	}

	var resp chatResponse
	err := s.post(ctx, "/api/chat", chatRequest{
		Model:     s.model,
		Messages:  msgs,
		KeepAlive: s.keepAlive,
		Options:   toOptions(opts),
	}, &resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks that the server answers and has the configured model pulled.
// It does not run inference.
func (s *LLMService) Ping(ctx context.Context) error {
	var tags tagsResponse
	if err := s.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return fmt.Errorf("ollama ping: %w", err)
	}
	for _, m := range tags.Models {
		if sameModel(m.Name, s.model) {
			return nil
		}
	}
	return fmt.Errorf("ollama: model %q is not pulled (run 'ollama pull %s'): %w",
		s.model, s.model, domain.ErrLLMUnavailable)
}

// Close is a no-op; the client holds no connections of its own.
func (s *LLMService) Close() error {
	return nil
}

func (s *LLMService) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return s.do(ctx, http.MethodPost, path, data, out)
}

func (s *LLMService) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w: %w", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError prefers the server's {"error": ...} message over the raw body.
func statusError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
	}
	msg := strings.TrimSpace(string(data))
	var e errorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("ollama error (status %d): %s: %w", resp.StatusCode, msg, domain.ErrLLMUnavailable)
	}
	return fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, msg)
}

// sameModel matches names with or without the implicit ":latest" tag.
func sameModel(installed, want string) bool {
	const latest = ":latest"
	return strings.TrimSuffix(installed, latest) == strings.TrimSuffix(want, latest)
}

func toOptions(opts driven.GenerateOptions) *options {
	if opts.MaxTokens <= 0 && opts.Temperature <= 0 {
		return nil
	}
	return &options{NumPredict: opts.MaxTokens, Temperature: opts.Temperature}
}
