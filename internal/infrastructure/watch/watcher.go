// Package watch reloads the board when the .planera data directory
// changes on disk, so edits from another process (or a sync job) show up
// without restarting the TUI.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jalvemo/planera/pkg/storage"
)

// ChangeEvent represents a relevant data-directory change.
type ChangeEvent struct {
	Path       string
	ChangeType string // "create", "write", "remove", "rename"
}

// DataWatcher watches the .planera directory using fsnotify, coalescing
// bursts of writes into a single callback.
type DataWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(ChangeEvent)
}

// NewDataWatcher creates a new data-directory watcher.
func NewDataWatcher(debounce time.Duration, onChange func(ChangeEvent)) (*DataWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &DataWatcher{
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Watch adds the workspace's .planera directory to the watcher.
func (w *DataWatcher) Watch(root string) error {
	dir := filepath.Join(root, storage.PlaneraDir)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *DataWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		mu        sync.Mutex
		lastEvent ChangeEvent
	)
	deb := newDebouncer(w.debounce, func(int) {
		if w.onChange == nil {
			return
		}
		mu.Lock()
		event := lastEvent
		mu.Unlock()
		w.onChange(event)
	})
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" {
				continue
			}
			if !isScheduleFile(event.Name) {
				continue
			}

			mu.Lock()
			lastEvent = ChangeEvent{Path: event.Name, ChangeType: changeType}
			mu.Unlock()
			deb.trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// isScheduleFile limits reloads to the files the board renders from.
// The audit trail grows on every commit and must not retrigger reloads.
func isScheduleFile(path string) bool {
	switch filepath.Base(path) {
	case storage.JobsFile, storage.ResourcesFile, storage.OrdersFile:
		return true
	}
	return false
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
