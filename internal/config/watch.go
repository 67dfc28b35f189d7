package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/colors"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever the config file is written, created or replaced.
// It watches the parent directory so editors that save via rename are picked up.
// Blocks until ctx is done; returns an error if the directory cannot be watched.
func (s *Store) Watch(ctx context.Context) error {
	path := s.Path()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch config directory %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				colors.Debug(fmt.Sprintf("config file changed (%s), reloading", event.Op))
				s.Reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			colors.Warning(fmt.Sprintf("config watcher error: %v", err))
		}
	}
}
