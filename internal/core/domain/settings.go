package domain

import "time"

const unknownDescription = "Unknown"

// BackendMode selects where documents and suggestions come from.
type BackendMode string

// Available backend modes.
const (
	// BackendREST talks to the remote REST backend.
	BackendREST BackendMode = "rest"

	// BackendLocal keeps documents in SQLite and computes suggestions offline.
	BackendLocal BackendMode = "local"
)

// IsValid returns true if the backend mode is recognised.
func (m BackendMode) IsValid() bool {
	switch m {
	case BackendREST, BackendLocal:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m BackendMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m BackendMode) Description() string {
	switch m {
	case BackendREST:
		return "REST (remote document and AI service)"
	case BackendLocal:
		return "Local (SQLite storage, offline suggestions)"
	default:
		return unknownDescription
	}
}

// StaleResponsePolicy controls what happens to a suggestion response that
// arrives after a newer request of the same kind was dispatched.
type StaleResponsePolicy string

// Available stale response policies.
const (
	// StaleApply applies every response to current state unconditionally.
	StaleApply StaleResponsePolicy = "apply"

	// StaleDiscard drops responses whose request generation is not the latest.
	StaleDiscard StaleResponsePolicy = "discard"
)

// BackendSettings configures the persistence and suggestion backend.
type BackendSettings struct {
	Mode      BackendMode
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
}

// EditorSettings configures the editor session's debounce policy.
type EditorSettings struct {
	// GrammarDelay is the quiet interval before a grammar check.
	GrammarDelay time.Duration

	// SaveDelay is the quiet interval before an auto-save.
	SaveDelay time.Duration

	// MinCheckLength is the length a snapshot must exceed to be checked.
	MinCheckLength int

	// StaleResponses selects the staleness policy.
	StaleResponses StaleResponsePolicy
}

// LLMSettings configures the optional LLM used for content suggestions.
type LLMSettings struct {
	Enabled bool
	BaseURL string
	Model   string
}

// StorageSettings configures local storage.
type StorageSettings struct {
	DataDir string
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Backend BackendSettings
	Editor  EditorSettings
	LLM     LLMSettings
	Storage StorageSettings
}

// Default editor timings.
const (
	DefaultGrammarDelay   = 1000 * time.Millisecond
	DefaultSaveDelay      = 2000 * time.Millisecond
	DefaultMinCheckLength = 10
)

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			Mode:      BackendREST,
			BaseURL:   "http://localhost:8000",
			Timeout:   30 * time.Second,
			RateLimit: 5,
		},
		Editor: EditorSettings{
			GrammarDelay:   DefaultGrammarDelay,
			SaveDelay:      DefaultSaveDelay,
			MinCheckLength: DefaultMinCheckLength,
			StaleResponses: StaleApply,
		},
		// LLM is off unless explicitly enabled
		LLM: LLMSettings{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2",
		},
	}
}
