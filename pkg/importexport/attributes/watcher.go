package attributes

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before the
// rule file is reloaded.
const DefaultDebounce = 200 * time.Millisecond

// Watcher keeps the latest successfully parsed rule file available and
// reloads it when the file changes on disk.
//
// Each export session takes one Current snapshot when it starts and uses it
// for its whole lifetime; a reload only affects sessions started afterwards.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	current  atomic.Pointer[Reader]

	mu      sync.Mutex
	timer   *time.Timer
	running bool
}

// NewWatcher loads path once and returns a Watcher serving it. The initial
// load must succeed.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		logger:   logger.With("component", "attributes.watcher"),
	}
	w.current.Store(NewReader(f))
	return w, nil
}

// Current returns the most recent rule snapshot.
func (w *Watcher) Current() *Reader {
	return w.current.Load()
}

// Reload re-reads the rule file. On failure the previous snapshot is kept.
func (w *Watcher) Reload() error {
	f, err := LoadFile(w.path)
	if err != nil {
		return err
	}
	w.current.Store(NewReader(f))
	w.logger.Info("attribute rules reloaded", "path", w.path)
	return nil
}

// Watch blocks, reloading the rule file on change, until ctx is cancelled.
// The parent directory is watched so that editors replacing the file by
// rename are noticed.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("watching attribute rules", "path", w.path)

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target || event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			w.schedule()

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("attribute rules watcher error", "error", err)
		}
	}
}

// schedule debounces bursts of events into a single reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.Reload(); err != nil {
			w.logger.Error("attribute rules reload failed, keeping previous rules",
				"path", w.path,
				"error", err,
			)
		}
	})
}
