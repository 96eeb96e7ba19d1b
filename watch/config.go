package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pcfscope/server/logger"
	"github.com/pcfscope/server/settings"
)

const debounceInterval = 100 * time.Millisecond

// ConfigWatcher reloads the config file when it changes on disk and
// publishes the result to the settings store. Invalid files are logged and
// the previous settings stay in effect.
type ConfigWatcher struct {
	path   string
	store  *settings.Store
	reload func() (settings.Settings, error)

	watcher *fsnotify.Watcher

	timerMu sync.Mutex
	timer   *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

func NewConfigWatcher(path string, store *settings.Store, reload func() (settings.Settings, error)) *ConfigWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConfigWatcher{
		path:   filepath.Clean(path),
		store:  store,
		reload: reload,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start watches the directory holding the config file, since editors and
// atomic writers replace the file rather than modify it.
func (w *ConfigWatcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher

	go w.eventLoop()
	slog.Info("ConfigWatcher started", "path", w.path)
	return nil
}

func (w *ConfigWatcher) Stop() {
	w.cancel()
	if w.watcher != nil {
		w.watcher.Close()
	}

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerMu.Unlock()

	slog.Info("ConfigWatcher stopped")
}

func (w *ConfigWatcher) eventLoop() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "config watcher crashed", "path", w.path)
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", "error", err)
		}
	}
}

func (w *ConfigWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceInterval, w.apply)
}

func (w *ConfigWatcher) apply() {
	// timer may fire after Stop
	if w.ctx.Err() != nil {
		return
	}

	s, err := w.reload()
	if err != nil {
		slog.Warn("config reload failed, keeping previous settings", "path", w.path, "error", err)
		return
	}
	if err := w.store.Replace(s); err != nil {
		slog.Warn("reloaded config rejected", "path", w.path, "error", err)
		return
	}
	slog.Info("config reloaded", "path", w.path)
}
