package personalization

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the profile directory and reloads
// the store when profile files change on disk (external editors, sync
// tools). Events are debounced so a burst of writes triggers a single
// reload. It calls cb (if non-nil) after each reload.
func Watch(ctx context.Context, store *Store, logger *slog.Logger, cb func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(store.Root()); err != nil {
		return err
	}

	logger.Info("profile watcher: started", slog.String("root", store.Root()))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("profile watcher: stopped")
			return nil

		case <-reloadCh:
			store.Reload()
			logger.Debug("profile watcher: reloaded")
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isProfileFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("profile watcher: error", slog.String("error", err.Error()))
		}
	}
}

// isProfileFile reports whether path names one of the profile keys
// (favorites or a note file). Temp files from atomic writes are ignored
// so the store does not reload on its own mutations mid-rename.
func isProfileFile(path string) bool {
	name := filepath.Base(path)
	return name == favoritesKey || strings.HasPrefix(name, notePrefix)
}
