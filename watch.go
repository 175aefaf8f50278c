package imglink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch fingerprints every supported image created or rewritten in dir and
// passes the result to fn. A file is hashed once it has been quiet for
// c.WatchDebounce. Watch blocks until ctx is done, returning nil, or until the
// watcher itself shuts down.
func (c *Config) Watch(ctx context.Context, dir string, fn func(FileHash)) error {
	if err := c.Validate(); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: create watcher: %w", ErrIO, err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrIO, dir, err)
	}
	slog.Info("imglink: watching directory", "dir", dir, "debounce", c.WatchDebounce)

	// pending maps a path to the time of its latest event.
	pending := map[string]time.Time{}
	ticker := time.NewTicker(max(c.WatchDebounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !IsImageFile(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("imglink: watch error", "dir", dir, "error", err.Error())
		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < c.WatchDebounce {
					continue
				}
				delete(pending, path)
				h, err := c.HashFile(path)
				fn(FileHash{Path: path, Hash: h, Err: err})
			}
		}
	}
}
