package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBackendMode      = "backend.mode"
	keyBackendBaseURL   = "backend.base_url"
	keyBackendTimeout   = "backend.timeout_seconds"
	keyBackendRateLimit = "backend.rate_limit"
	keyGrammarDelay     = "editor.grammar_delay_ms"
	keySaveDelay        = "editor.save_delay_ms"
	keyMinCheckLength   = "editor.min_check_length"
	keyDiscardStale     = "editor.discard_stale"
	keyLLMEnabled       = "llm.enabled"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMModel         = "llm.model"
	keyDataDir          = "storage.data_dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	stale := domain.StaleApply
	if s.getBool(keyDiscardStale, false) {
		stale = domain.StaleDiscard
	}

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			Mode:      s.getBackendMode(defaults.Backend.Mode),
			BaseURL:   s.getString(keyBackendBaseURL, defaults.Backend.BaseURL),
			Timeout:   s.getSeconds(keyBackendTimeout, defaults.Backend.Timeout),
			RateLimit: s.getFloat(keyBackendRateLimit, defaults.Backend.RateLimit),
		},
		Editor: domain.EditorSettings{
			GrammarDelay:   s.getMillis(keyGrammarDelay, defaults.Editor.GrammarDelay),
			SaveDelay:      s.getMillis(keySaveDelay, defaults.Editor.SaveDelay),
			MinCheckLength: s.getInt(keyMinCheckLength, defaults.Editor.MinCheckLength),
			StaleResponses: stale,
		},
		LLM: domain.LLMSettings{
			Enabled: s.getBool(keyLLMEnabled, defaults.LLM.Enabled),
			BaseURL: s.getString(keyLLMBaseURL, defaults.LLM.BaseURL),
			Model:   s.getString(keyLLMModel, defaults.LLM.Model),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyDataDir),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := Validate(settings); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyBackendMode, settings.Backend.Mode.String()},
		{keyBackendBaseURL, settings.Backend.BaseURL},
		{keyBackendTimeout, int(settings.Backend.Timeout / time.Second)},
		{keyBackendRateLimit, settings.Backend.RateLimit},
		{keyGrammarDelay, int(settings.Editor.GrammarDelay / time.Millisecond)},
		{keySaveDelay, int(settings.Editor.SaveDelay / time.Millisecond)},
		{keyMinCheckLength, settings.Editor.MinCheckLength},
		{keyDiscardStale, settings.Editor.StaleResponses == domain.StaleDiscard},
		{keyLLMEnabled, settings.LLM.Enabled},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMModel, settings.LLM.Model},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	if settings.Storage.DataDir != "" {
		if err := s.configStore.Set(keyDataDir, settings.Storage.DataDir); err != nil {
			return fmt.Errorf("save %s: %w", keyDataDir, err)
		}
	}

	return nil
}

// ConfigPath returns the backing configuration file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Validate checks settings for values the editor cannot run with.
func Validate(settings *domain.AppSettings) error {
	if !settings.Backend.Mode.IsValid() {
		return fmt.Errorf("backend mode %q: %w", settings.Backend.Mode, domain.ErrInvalidInput)
	}
	if settings.Backend.Mode == domain.BackendREST && settings.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url required for rest mode: %w", domain.ErrInvalidInput)
	}
	if settings.Backend.RateLimit < 0 {
		return fmt.Errorf("backend rate_limit must not be negative: %w", domain.ErrInvalidInput)
	}
	if settings.Editor.GrammarDelay <= 0 || settings.Editor.SaveDelay <= 0 {
		return fmt.Errorf("editor delays must be positive: %w", domain.ErrInvalidInput)
	}
	if settings.Editor.MinCheckLength < domain.DefaultMinCheckLength {
		return fmt.Errorf("editor min_check_length must be at least %d: %w",
			domain.DefaultMinCheckLength, domain.ErrInvalidInput)
	}
	if settings.LLM.Enabled && settings.LLM.Model == "" {
		return fmt.Errorf("llm model required when llm is enabled: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Millisecond
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getBackendMode(defaultVal domain.BackendMode) domain.BackendMode {
	val := s.configStore.GetString(keyBackendMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.BackendMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
