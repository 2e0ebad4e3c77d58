// Package watcher reloads a drop table when the file behind it changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events a single editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Stats tracks watcher activity for debugging.
type Stats struct {
	Events        int
	Changes       int
	Errors        int
	LastEventTime time.Time
	LastEventType string
}

// Watcher calls onChange once per burst of writes to a single file.
// It watches the file's directory so editors that save by rename are still seen.
type Watcher struct {
	mu       sync.Mutex
	path     string
	debounce time.Duration
	onChange func()
	logger   *zap.Logger
	ready    chan struct{}
	stats    Stats
}

// New creates a watcher for path. A non-positive debounce uses DefaultDebounce.
func New(path string, debounce time.Duration, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watcher: onChange is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		ready:    make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Ready is closed once the watch is registered.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Stats returns a copy of the watcher's counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	close(w.ready)
	w.logger.Debug("watching drop table", zap.String("path", w.path))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			w.logger.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.mu.Lock()
			w.stats.Changes++
			w.mu.Unlock()
			w.logger.Info("drop table changed", zap.String("path", w.path))
			w.onChange()
		}
	}
}

// relevant records event and reports whether it touches the watched file's content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}

	var eventType string
	switch {
	case event.Has(fsnotify.Create):
		eventType = "create"
	case event.Has(fsnotify.Write):
		eventType = "modify"
	case event.Has(fsnotify.Rename):
		eventType = "rename"
	default:
		return false // Ignore chmod and remove; a remove is followed by a create on save
	}

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventType = eventType
	w.mu.Unlock()

	w.logger.Debug("watcher event", zap.String("type", eventType), zap.String("path", event.Name))
	return true
}
