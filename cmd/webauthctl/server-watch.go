package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
)

// watchConfig reloads the configuration whenever path is written or
// created and passes the result to onReload. It watches the parent
// directory so the file may be created or replaced after startup. It
// returns when ctx is done.
func watchConfig(ctx context.Context, path string, logger hclog.Logger, onReload func(*config.WebAuthConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := config.Reload()
			if err != nil {
				logger.Error("config reload failed", "path", path, "error", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				logger.Error("reloaded config is invalid", "path", path, "error", err)
				continue
			}
			onReload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
