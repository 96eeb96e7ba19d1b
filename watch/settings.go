package watch

import (
	"log/slog"
	"sync"

	"github.com/pcfscope/server/logger"
	"github.com/pcfscope/server/settings"
)

// SettingsWatcher notifies subscribers when settings are updated, whether
// through settings.update or an edit of the config file. Changes that pile
// up while a notification is in flight are merged into one.
type SettingsWatcher struct {
	*BaseWatcher
	store *settings.Store

	pendingMu sync.Mutex
	last      settings.Settings // what subscribers saw most recently
	pending   *settings.Settings
	wake      chan struct{}
}

func NewSettingsWatcher(store *settings.Store) *SettingsWatcher {
	w := &SettingsWatcher{
		BaseWatcher: NewBaseWatcher("st"),
		store:       store,
		last:        store.Get(),
		wake:        make(chan struct{}, 1),
	}
	store.SetOnChangeListener(w)
	return w
}

func (w *SettingsWatcher) Start() error {
	go w.eventLoop()
	slog.Info("SettingsWatcher started")
	return nil
}

func (w *SettingsWatcher) Stop() {
	w.Cancel()
	slog.Info("SettingsWatcher stopped")
}

// Subscribe registers a subscriber and returns the subscription ID along with
// the current settings.
func (w *SettingsWatcher) Subscribe(notifier Notifier) (string, settings.Settings) {
	id := w.GenerateID()
	w.AddSubscription(&Subscription{ID: id, Notifier: notifier})
	return id, w.store.Get()
}

// OnSettingsChange implements settings.OnChangeListener. It is called under
// the store's lock and only records the new value.
func (w *SettingsWatcher) OnSettingsChange(s settings.Settings) {
	if w.Context().Err() != nil {
		return
	}

	w.pendingMu.Lock()
	w.pending = &s
	w.pendingMu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *SettingsWatcher) eventLoop() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "settings watcher crashed")
		}
	}()

	for {
		select {
		case <-w.Context().Done():
			return
		case <-w.wake:
			w.flush()
		}
	}
}

func (w *SettingsWatcher) flush() {
	w.pendingMu.Lock()
	next := w.pending
	w.pending = nil
	prev := w.last
	if next != nil {
		w.last = *next
	}
	w.pendingMu.Unlock()

	if next == nil {
		return
	}
	changed := settings.Changed(prev, *next)
	if len(changed) == 0 {
		return
	}

	n := w.NotifyAll("settings.changed", func(sub *Subscription) any {
		return settingsChangedParams{ID: sub.ID, Settings: *next, Changed: changed}
	})
	slog.Debug("notified settings change", "changed", changed, "subscribers", n)
}

type settingsChangedParams struct {
	ID       string            `json:"id"`
	Settings settings.Settings `json:"settings"`
	Changed  []string          `json:"changed"`
}
