package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/buffer"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/views/editor"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/core/services"
	"github.com/custodia-labs/scribe-cli/internal/logger"
	"github.com/custodia-labs/scribe-cli/internal/normalisers"
)

// backend bundles the driven adapters behind one backend mode.
type backend struct {
	documents driven.DocumentStore
	source    driven.SuggestionSource
	feedback  driven.FeedbackStore
	close     func()
}

// bootstrap wires configuration, the selected backend and the core
// services. Flag overrides apply to this invocation only.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := openConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	svc := &cli.Services{
		Settings:      settingsService,
		ConfigWatcher: configStore,
		ValidateLLM:   ai.ValidateLLMConfig,
	}
	if opts.ConfigOnly {
		return svc, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	applyOverrides(settings, opts)
	if err := services.Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configStore.Path(), err)
	}

	logger.Section("backend")
	logger.Debug("mode: %s", settings.Backend.Mode.Description())

	b, err := openBackend(ctx, settings, filepath.Join(filepath.Dir(configStore.Path()), "prompts"))
	if err != nil {
		return nil, err
	}

	svc.Documents = services.NewDocumentService(b.documents, b.source, b.feedback)
	svc.Suggestions = services.NewSuggestionService(b.source)
	svc.Imports = services.NewImportService(b.documents, newNormaliserRegistry())
	svc.NewSession = sessionFactory(settingsService, b, settings.Editor)
	svc.Close = b.close
	return svc, nil
}

// newNormaliserRegistry holds the built-in file import formats.
func newNormaliserRegistry() *services.NormaliserRegistry {
	r := services.NewNormaliserRegistry()
	normalisers.RegisterDefaults(r)
	return r
}

func openConfigStore(path string) (*file.ConfigStore, error) {
	if path != "" {
		return file.NewConfigStoreAt(path)
	}
	return file.NewConfigStore("")
}

func applyOverrides(settings *domain.AppSettings, opts cli.Options) {
	if opts.Backend != "" {
		settings.Backend.Mode = domain.BackendMode(opts.Backend)
	}
	if opts.APIURL != "" {
		settings.Backend.BaseURL = opts.APIURL
	}
}

// openBackend builds the document store and suggestion source for the
// configured mode.
func openBackend(ctx context.Context, settings *domain.AppSettings, promptDir string) (*backend, error) {
	switch settings.Backend.Mode {
	case domain.BackendLocal:
		store, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening local store: %w", err)
		}
		logger.Debug("local store: %s", store.Path())

		result := ai.Init(ctx, &settings.LLM, promptDir)
		for _, w := range result.Warnings {
			logger.Warn("%s", w)
		}

		docs := store.DocumentStore()
		return &backend{
			documents: docs,
			source:    ai.NewSuggestionSource(docs, result),
			feedback:  store.FeedbackStore(),
			close: func() {
				result.Close()
				if err := store.Close(); err != nil {
					logger.Warn("closing local store: %v", err)
				}
			},
		}, nil

	case domain.BackendREST:
		rateLimit := settings.Backend.RateLimit
		if rateLimit == 0 {
			rateLimit = -1
		}
		client := rest.NewClient(rest.Config{
			BaseURL:   settings.Backend.BaseURL,
			Timeout:   settings.Backend.Timeout,
			RateLimit: rateLimit,
		})
		logger.Debug("rest backend: %s", client.BaseURL())
		return &backend{
			documents: client,
			source:    client,
			close:     func() {},
		}, nil
	}
	return nil, fmt.Errorf("backend mode %q: %w", settings.Backend.Mode, domain.ErrInvalidInput)
}

// sessionFactory opens editor sessions. Editor settings are re-read for
// every session so configuration reloads reach the next opened document.
func sessionFactory(settingsService *services.SettingsService, b *backend, fallback domain.EditorSettings) editor.Factory {
	return func() (*editor.Session, error) {
		editorSettings := fallback
		if s, err := settingsService.Get(); err == nil && services.Validate(s) == nil {
			editorSettings = s.Editor
		}

		buf := buffer.New()
		sess, err := services.NewEditorSession(services.EditorSessionConfig{
			Buffer:      buf,
			Documents:   b.documents,
			Suggestions: b.source,
			Settings:    editorSettings,
		})
		if err != nil {
			return nil, fmt.Errorf("opening editor session: %w", err)
		}
		return &editor.Session{Editor: sess, Buffer: buf}, nil
	}
}
