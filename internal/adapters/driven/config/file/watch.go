package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigWatcher = (*ConfigStore)(nil)

// reloadDelay coalesces the burst of events editors emit on save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the store whenever the config file changes on disk and
// then calls onChange. The parent directory is watched so atomic
// rename-on-save editors are followed. Watch blocks until ctx is done.
func (s *ConfigStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("config: watching %s", s.filePath)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.filePath) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(reloadDelay)
			}

		case <-pending:
			pending = nil
			if err := s.Load(); err != nil {
				logger.Warn("config: reload failed: %v", err)
				continue
			}
			logger.Debug("config: reloaded %s", s.filePath)
			if onChange != nil {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config: watcher error: %v", err)
		}
	}
}
