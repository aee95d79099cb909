package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"hangar/internal/debug"
)

// Watcher watches the config file and notifies when a reload is needed.
// Editors replace files on save, so the watch is on the containing
// directory with events filtered down to the config path.
type Watcher struct {
	watcher    *fsnotify.Watcher
	path       string
	notify     chan struct{}
	done       chan struct{}
	debounceMs int
}

// NewWatcher starts watching the given config file
func NewWatcher(path string, debounceMs int) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 200 // Default 200ms debounce
	}

	cw := &Watcher{
		watcher:    w,
		path:       filepath.Clean(path),
		notify:     make(chan struct{}, 1),
		done:       make(chan struct{}),
		debounceMs: debounceMs,
	}

	if err := w.Add(filepath.Dir(cw.path)); err != nil {
		w.Close()
		return nil, err
	}

	go cw.run()
	return cw, nil
}

// run processes filesystem events with debouncing
func (cw *Watcher) run() {
	var lastEvent time.Time
	pending := false
	debounce := time.Duration(cw.debounceMs) * time.Millisecond
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case <-cw.done:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			// Creates and renames cover editors that replace on save
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) {
				lastEvent = time.Now()
				pending = true
				debug.Log(debug.CONFIG, "config event: %s", event.Op)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.CONFIG, "watch error: %v", err)

		case <-ticker.C:
			if pending && time.Since(lastEvent) >= debounce {
				select {
				case cw.notify <- struct{}{}:
					debug.Log(debug.CONFIG, "config change notification")
				default:
					// Channel full, a reload is already queued
				}
				pending = false
			}
		}
	}
}

// Notify returns the channel that fires after the config file changes
func (cw *Watcher) Notify() <-chan struct{} {
	return cw.notify
}

// Close shuts down the watcher
func (cw *Watcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}
