package selection

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/go-pkgz/lgr"
)

// reloadDebounce collapses bursts of file events into one reload.
const reloadDebounce = 100 * time.Millisecond

// ReloadRegistry loads the registry file and installs it. A broken file unloads the registry.
func (s *Service) ReloadRegistry(path string) error {
	r, err := LoadRegistry(path)
	if err != nil {
		s.SetRegistry(nil)
		return err
	}
	s.SetRegistry(r)
	log.Printf("[INFO] registry reloaded, %d themes from %s", len(r.Themes()), path)
	return nil
}

// WatchRegistry reloads the registry whenever the file changes.
// The watcher stops when the context is canceled.
func (s *Service) WatchRegistry(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// watch the directory, editors replace files with atomic renames
	dir, filename := filepath.Dir(path), filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	log.Printf("[INFO] watching themes file %s for changes", path)

	go func() {
		defer watcher.Close()

		var debounceTimer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				log.Printf("[INFO] themes file watcher stopped")
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filename {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(reloadDebounce, func() {
					if err := s.ReloadRegistry(path); err != nil {
						log.Printf("[WARN] themes not loaded, %v", err)
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] themes file watcher error: %v", err)
			}
		}
	}()

	return nil
}
