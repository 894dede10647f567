// Package watcher monitors an inbox directory for new or changed
// documents using fsnotify. Events are debounced per file so a document
// still being written is only reported once it settles.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// DefaultDebounce delays emission after the last write to a file.
const DefaultDebounce = 500 * time.Millisecond

// Default extensions considered ingestible.
var defaultExtensions = []string{".txt", ".md", ".eml"}

// Watcher monitors a directory and emits settled file paths.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	debounce   time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures the watcher.
type Option func(*Watcher)

// WithExtensions restricts events to the given file extensions
// (including the dot).
func WithExtensions(exts []string) Option {
	return func(w *Watcher) {
		if len(exts) > 0 {
			w.extensions = exts
		}
	}
}

// WithDebounce sets the settle delay after the last write event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher. Call Watch to start monitoring.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:    fsw,
		extensions: defaultExtensions,
		debounce:   DefaultDebounce,
		timers:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch monitors dir until ctx is cancelled, emitting each settled file
// path on the returned channel. A file is emitted once no write has
// touched it for the debounce interval.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	paths := make(chan string, 16)

	go func() {
		defer close(paths)
		for {
			select {
			case <-ctx.Done():
				w.cancelTimers()
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}
				if !w.watched(event.Name) {
					continue
				}
				w.schedule(ctx, event.Name, paths)

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return paths, nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.cancelTimers()
	return w.watcher.Close()
}

// schedule (re)starts the debounce timer for path. Each new write event
// pushes the emission out by the full debounce interval.
func (w *Watcher) schedule(ctx context.Context, path string, paths chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case paths <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) cancelTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) watched(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
