// Package watcher monitors a store directory and re-verifies entries as
// they change on disk. It backs `mag watch`.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/storeid"
)

// Event is one verification outcome reported by the watcher.
type Event struct {
	ID      storeid.ID
	Removed bool
	Err     error
}

// Watcher monitors a store base directory for entry changes.
type Watcher struct {
	base string

	debounceDelay time.Duration
	debug         bool

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	onEvent func(Event)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Base          string
	DebounceDelay time.Duration // Default: 100ms
	Debug         bool
	OnEvent       func(Event)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Base == "" {
		return nil, fmt.Errorf("store base is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}

	return &Watcher{
		base:          cfg.Base,
		debounceDelay: debounce,
		debug:         cfg.Debug,
		pending:       make(map[string]time.Time),
		onEvent:       cfg.OnEvent,
	}, nil
}

// Start begins watching the store for entry changes. It blocks until
// the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.base); err != nil {
		return fmt.Errorf("failed to watch store: %w", err)
	}

	w.logDebug("Watching store: %s", w.base)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logDebug("Watcher error: %v", err)
		}
	}
}

// VerifyFile re-reads a single entry file and verifies it. Can be
// called directly without starting the watcher.
func (w *Watcher) VerifyFile(path string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.base, path)
	}
	if w.shouldIgnore(path) {
		return nil
	}

	id, err := storeid.FromFilePath(w.base, path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}

	e, err := entry.FromRaw(id, data)
	if err != nil {
		return err
	}
	return e.Verify()
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.addWatchRecursive(path)
			return
		}
	}

	if w.shouldIgnore(path) {
		return
	}

	w.logDebug("Event: %s %s", event.Op, path)

	switch {
	case event.Op&fsnotify.Write != 0, event.Op&fsnotify.Create != 0:
		w.scheduleVerify(path)
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		if w.onEvent != nil {
			if id, err := storeid.FromFilePath(w.base, path); err == nil {
				w.onEvent(Event{ID: id, Removed: true})
			}
		}
	}
}

// scheduleVerify adds a file to the pending queue with debouncing.
func (w *Watcher) scheduleVerify(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

// processDebounced drains the pending queue after the debounce delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	ready := make([]string, 0)

	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		err := w.VerifyFile(path)
		if w.onEvent != nil {
			if id, iderr := storeid.FromFilePath(w.base, path); iderr == nil {
				w.onEvent(Event{ID: id, Err: err})
			}
		}
		if err != nil {
			w.logDebug("Verification failed for %s: %v", path, err)
		} else {
			w.logDebug("Verified: %s", path)
		}
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			if w.shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logDebug("Failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
}

// shouldIgnore returns true for paths outside the entry namespace:
// dot-files, temp files from atomic writes, anything under a dot-dir.
func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.base, path)
	if err != nil {
		return true
	}

	parts := strings.Split(rel, string(filepath.Separator))
	for _, part := range parts {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// shouldIgnoreDir returns true if the directory should not be watched.
func (w *Watcher) shouldIgnoreDir(path string) bool {
	if path == w.base {
		return false
	}
	return strings.HasPrefix(filepath.Base(path), ".")
}

// logDebug logs a debug message if debug mode is enabled.
func (w *Watcher) logDebug(format string, args ...interface{}) {
	if w.debug {
		fmt.Fprintf(os.Stderr, "[mag-watcher] "+format+"\n", args...)
	}
}
