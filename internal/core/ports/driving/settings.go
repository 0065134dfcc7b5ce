package driving

import "github.com/custodia-labs/scribe-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, filling defaults.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// ConfigPath returns the backing configuration file path.
	ConfigPath() string
}
