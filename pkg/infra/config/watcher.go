// Package config watches the loaded configuration file and notifies
// subscribers so that components can apply changes without a restart.
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/kart-io/logger"
	"github.com/spf13/viper"
)

// ChangeHandler is invoked with the re-read configuration after the file changes.
type ChangeHandler func(v *viper.Viper) error

// Watcher fans configuration file changes out to subscribed handlers.
type Watcher struct {
	viper    *viper.Viper
	handlers map[string]ChangeHandler
	mu       sync.RWMutex
	watching bool
}

// NewWatcher creates a watcher for v, which must already have read its config file.
func NewWatcher(v *viper.Viper) *Watcher {
	return &Watcher{
		viper:    v,
		handlers: make(map[string]ChangeHandler),
	}
}

// Subscribe registers handler under id, replacing any previous one.
func (w *Watcher) Subscribe(id string, handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[id] = handler
	logger.Debugw("config watcher: handler subscribed", "id", id)
}

// Unsubscribe removes the handler registered under id.
func (w *Watcher) Unsubscribe(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.handlers, id)
}

// HandlerCount returns the number of registered handlers.
func (w *Watcher) HandlerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.handlers)
}

// Start begins watching the config file. Calling it twice is a no-op.
// Without a config file there is nothing to watch and Start only logs.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return
	}
	if w.viper.ConfigFileUsed() == "" {
		w.mu.Unlock()
		logger.Info("config watcher: no config file in use, hot reload disabled")
		return
	}
	w.watching = true
	w.mu.Unlock()

	w.viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Infow("config file changed", "file", e.Name, "op", e.Op.String())
		w.Notify()
	})
	w.viper.WatchConfig()
	logger.Infow("config watcher started", "file", w.viper.ConfigFileUsed())
}

// IsWatching reports whether Start installed a file watch.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// Notify runs every handler in id order. A failing handler is logged and
// does not stop the others; the number of failures is returned.
func (w *Watcher) Notify() int {
	w.mu.RLock()
	ids := make([]string, 0, len(w.handlers))
	for id := range w.handlers {
		ids = append(ids, id)
	}
	handlers := make(map[string]ChangeHandler, len(w.handlers))
	for id, h := range w.handlers {
		handlers[id] = h
	}
	w.mu.RUnlock()
	sort.Strings(ids)

	failed := 0
	for _, id := range ids {
		if err := handlers[id](w.viper); err != nil {
			failed++
			logger.Errorw("config watcher: handler rejected change", "id", id, "error", err.Error())
			continue
		}
		logger.Infow("config watcher: change applied", "id", id)
	}
	return failed
}

// KeyHandler builds a ChangeHandler that decodes the section at key into a
// fresh value from newValue and hands it to apply. Decoding starts from the
// defaults newValue returns, so keys missing from the file keep their defaults.
func KeyHandler[T any](key string, newValue func() *T, apply func(*T) error) ChangeHandler {
	return func(v *viper.Viper) error {
		target := newValue()
		if err := v.UnmarshalKey(key, target); err != nil {
			return fmt.Errorf("unmarshal config key %q: %w", key, err)
		}
		return apply(target)
	}
}
