// Package cli provides the cobra command tree for scribe.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/views/editor"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// annotationBootstrap marks how much wiring a command needs.
const annotationBootstrap = "scribe.bootstrap"

// Bootstrap levels.
const (
	bootstrapNone   = "none"
	bootstrapConfig = "config"
)

// Options are the global flags passed to the bootstrapper.
type Options struct {
	// ConfigPath overrides the configuration file location.
	ConfigPath string

	// Backend overrides backend.mode for this invocation.
	Backend string

	// APIURL overrides backend.base_url for this invocation.
	APIURL string

	// ConfigOnly asks for settings only; no backend is opened.
	ConfigOnly bool
}

// Services holds everything the commands talk to.
type Services struct {
	Documents   driving.DocumentService
	Suggestions driving.SuggestionService
	Settings    driving.SettingsService

	// Imports converts files into documents. Optional.
	Imports driving.ImportService

	// ConfigWatcher reports configuration file edits. Optional.
	ConfigWatcher driven.ConfigWatcher

	// NewSession opens editor sessions for the TUI.
	NewSession editor.Factory

	// ValidateLLM pings an LLM configuration before it is enabled. Optional.
	ValidateLLM func(ctx context.Context, settings *domain.LLMSettings) error

	// Close releases backend resources. Optional.
	Close func()
}

// Bootstrapper wires services from the global options.
type Bootstrapper func(ctx context.Context, opts Options) (*Services, error)

var (
	version = "dev"

	documentService   driving.DocumentService
	suggestionService driving.SuggestionService
	settingsService   driving.SettingsService
	importService     driving.ImportService
	configWatcher     driven.ConfigWatcher
	newEditorSession  editor.Factory
	validateLLM       func(ctx context.Context, settings *domain.LLMSettings) error
	closeServices     func()

	bootstrapper Bootstrapper
	wired        bool
)

var (
	configPath  string
	verbose     bool
	backendMode string
	apiURL      string
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "AI-assisted document editor",
	Long: `scribe is a terminal document editor with AI writing suggestions.

Documents live in a REST backend or in a local SQLite store. While you
type, grammar checks and saves run in the background; press ctrl+g in
the editor to ask for content suggestions.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		shutdown()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.scribe/config.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&backendMode, "backend", "", "backend mode override (rest or local)")
	flags.StringVar(&apiURL, "api-url", "", "REST backend URL override")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the function that wires services on first use.
func SetBootstrap(b Bootstrapper) {
	bootstrapper = b
}

// SetServices injects services directly, bypassing the bootstrapper.
func SetServices(s *Services) {
	if s == nil {
		documentService = nil
		suggestionService = nil
		settingsService = nil
		importService = nil
		configWatcher = nil
		newEditorSession = nil
		validateLLM = nil
		closeServices = nil
		wired = false
		return
	}
	documentService = s.Documents
	suggestionService = s.Suggestions
	settingsService = s.Settings
	importService = s.Imports
	configWatcher = s.ConfigWatcher
	newEditorSession = s.NewSession
	validateLLM = s.ValidateLLM
	closeServices = s.Close
	wired = true
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	level := cmd.Annotations[annotationBootstrap]
	if wired || level == bootstrapNone || bootstrapper == nil {
		return nil
	}

	opts := Options{
		ConfigPath: configPath,
		Backend:    backendMode,
		APIURL:     apiURL,
		ConfigOnly: level == bootstrapConfig,
	}
	if opts.Backend != "" && !domain.BackendMode(opts.Backend).IsValid() {
		return fmt.Errorf("unknown backend %q (want rest or local)", opts.Backend)
	}

	svc, err := bootstrapper(cmdContext(cmd), opts)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(svc)
	logger.Debug("services wired (config only: %v)", opts.ConfigOnly)
	return nil
}

func shutdown() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}

// watchConfig logs configuration reloads until ctx ends. New editor sessions
// read settings when they open, so edits apply to the next document.
func watchConfig(ctx context.Context) {
	if configWatcher == nil {
		return
	}
	go func() {
		err := configWatcher.Watch(ctx, func() {
			logger.Info("configuration reloaded")
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("config watch stopped: %v", err)
		}
	}()
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
