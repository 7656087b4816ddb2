package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/dvsage-cli/internal/logger"
)

// debounceWindow collapses editor save bursts (truncate+write+rename)
// into a single notification.
const debounceWindow = 500 * time.Millisecond

// Watcher notifies a callback when the schema export changes on disk.
// The parent directory is watched rather than the file itself, so
// atomic-rename saves are seen too.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	onApply func()
}

// NewWatcher watches the schema file at path and invokes onApply after
// each change, debounced. Call Run to start delivery.
func NewWatcher(path string, onApply func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:    path,
		watcher: fsWatcher,
		onApply: onApply,
	}, nil
}

// Run delivers change notifications until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Schema file event: %s", event)
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounceWindow)
			}

		case <-fire:
			timer = nil
			fire = nil
			logger.Info("Schema file changed: %s", w.path)
			w.onApply()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Schema watcher error: %v", err)
		}
	}
}

// relevant reports whether the event concerns the watched file with an
// operation that changes its contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}
