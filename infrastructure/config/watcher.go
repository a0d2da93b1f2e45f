package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefinitionsWatcher hot-reloads the definitions file and notifies
// subscribers. Registration is administrative and low-frequency, so the
// watcher debounces editor write bursts instead of reloading per event.
type DefinitionsWatcher struct {
	path      string
	callbacks []func(*Definitions)
	mu        sync.Mutex
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
}

// NewDefinitionsWatcher starts watching the definitions file.
func NewDefinitionsWatcher(path string, logger *zap.Logger) (*DefinitionsWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &DefinitionsWatcher{
		path:    path,
		logger:  logger,
		watcher: fsWatcher,
		stopCh:  make(chan struct{}),
	}
	go w.watchLoop()

	logger.Info("definitions hot reloading enabled", zap.String("path", path))
	return w, nil
}

// OnReload registers a callback invoked with freshly parsed definitions.
func (w *DefinitionsWatcher) OnReload(fn func(*Definitions)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Stop shuts down the watcher.
func (w *DefinitionsWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *DefinitionsWatcher) watchLoop() {
	var debounce *time.Timer
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("definitions watcher error", zap.Error(err))
		}
	}
}

func (w *DefinitionsWatcher) reload() {
	defs, err := LoadDefinitions(w.path)
	if err != nil {
		// A half-saved file stays out of the registries; the previous
		// definitions remain live.
		w.logger.Error("failed to reload definitions", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.mu.Lock()
	callbacks := make([]func(*Definitions), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.Info("definitions reloaded",
		zap.String("path", w.path),
		zap.Int("intents", len(defs.Intents)),
		zap.Int("components", len(defs.Components)),
		zap.Int("staticSources", len(defs.StaticSources)),
	)
	for _, fn := range callbacks {
		fn(defs)
	}
}
