package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed defaults/*.txt defaults/README.md
var defaultFS embed.FS

const promptExt = ".txt"

// PromptStore serves LLM prompt templates from a directory of text files,
// one file per prompt. Missing, empty or malformed files fall back to the
// embedded defaults, which also seed the directory on first use.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a prompt store rooted at dir, or ~/.scribe/prompts
// when dir is empty. Nothing is written until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".scribe", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named template.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })
	if s.seedErr != nil {
		logger.Debug("prompt directory unavailable: %v", s.seedErr)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	fallback, hasDefault := defaultPrompt(name)
	prompt, err := s.read(name)
	switch {
	case err == nil && hasDefault && !compatible(prompt, fallback):
		logger.Warn("prompt %s: placeholder count differs from the default, ignoring edits", name)
		prompt = fallback
	case err != nil && hasDefault:
		prompt = fallback
	case err != nil:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if existing, ok := s.cache[name]; ok {
		prompt = existing
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()
	return prompt, nil
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// read returns the trimmed contents of a prompt file. Empty files count as
// missing.
func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+promptExt))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fs.ErrNotExist
	}
	return prompt, nil
}

// seed copies embedded defaults into the directory without overwriting
// files the user already has.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	entries, err := defaultFS.ReadDir("defaults")
	if err != nil {
		return err
	}
	for _, e := range entries {
		target := filepath.Join(s.dir, e.Name())
		if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		data, err := defaultFS.ReadFile(path.Join("defaults", e.Name()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0600); err != nil {
			return fmt.Errorf("write default %s: %w", e.Name(), err)
		}
	}
	return nil
}

// defaultPrompt returns the embedded template for name.
func defaultPrompt(name string) (string, bool) {
	data, err := defaultFS.ReadFile(path.Join("defaults", name+promptExt))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// compatible reports whether an edited template keeps the default's %s
// placeholders, so formatting it cannot drop the document text.
func compatible(edited, def string) bool {
	return strings.Count(edited, "%s") == strings.Count(def, "%s")
}
