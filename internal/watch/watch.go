// Package watch reloads the category store when its file changes on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/linkblog/internal/category"
)

// DefaultDebounce collapses editor save bursts into one reload.
const DefaultDebounce = 200 * time.Millisecond

// ReloadCallback is called after each successful reload with the new
// category count.
type ReloadCallback func(count int)

// Categories watches the directory holding store's file and reloads the
// store after changes to that file settle. It returns when ctx is done.
//
// The directory is watched rather than the file so replacements by rename
// keep being seen.
func Categories(ctx context.Context, store *category.Store, debounce time.Duration, logger *slog.Logger, cb ReloadCallback) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	path := filepath.Clean(store.Path())
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("path", path))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			if err := store.Reload(); err != nil {
				logger.Warn("watcher: reload failed", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			n := store.Len()
			logger.Debug("watcher: categories reloaded", slog.Int("count", n))
			if cb != nil {
				cb(n)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
