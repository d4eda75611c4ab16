package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads config.toml whenever it changes and hands the fresh Config
// to onChange. The directory is watched rather than the file so editors
// that save by rename are picked up. Bursts of events within debounce
// collapse into one reload. Watch blocks until ctx is done.
func Watch(ctx context.Context, cfg *Config, debounce time.Duration, onChange func(*Config), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	dataDir := cfg.DataDir()
	if err := watcher.Add(dataDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dataDir, err)
	}

	target := filepath.Clean(UserConfigPath(dataDir))
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			next, err := cfg.Reload()
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			cfg = next
			onChange(next)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
