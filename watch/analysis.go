package watch

import (
	"log/slog"
	"sync"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/logger"
)

// AnalysisWatcher forwards session snapshots to the subscribers of the
// owning connection. Snapshots that arrive faster than they can be sent are
// coalesced, so a subscriber always ends up with the latest view.
type AnalysisWatcher struct {
	*BaseWatcher

	pendingMu sync.Mutex
	pending   map[string]analysis.View // ownerID -> latest view
	wake      chan struct{}
}

var _ analysis.Listener = (*AnalysisWatcher)(nil)

func NewAnalysisWatcher() *AnalysisWatcher {
	return &AnalysisWatcher{
		BaseWatcher: NewBaseWatcher("an"),
		pending:     make(map[string]analysis.View),
		wake:        make(chan struct{}, 1),
	}
}

func (w *AnalysisWatcher) Start() error {
	go w.eventLoop()
	slog.Info("AnalysisWatcher started")
	return nil
}

func (w *AnalysisWatcher) Stop() {
	w.Cancel()
	slog.Info("AnalysisWatcher stopped")
}

// Subscribe registers notifier for the analyses started by ownerID.
func (w *AnalysisWatcher) Subscribe(ownerID string, notifier Notifier) string {
	id := w.GenerateID()
	w.AddSubscription(&Subscription{ID: id, Notifier: notifier, Key: ownerID})
	return id
}

// OnAnalysisUpdate implements analysis.Listener. It runs on the session's
// event goroutine and only records the view.
func (w *AnalysisWatcher) OnAnalysisUpdate(ownerID string, v analysis.View) {
	if w.Context().Err() != nil {
		return
	}

	w.pendingMu.Lock()
	w.pending[ownerID] = v
	w.pendingMu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *AnalysisWatcher) eventLoop() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "analysis watcher crashed")
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

func (w *AnalysisWatcher) flush() {
	w.pendingMu.Lock()
	views := w.pending
	w.pending = make(map[string]analysis.View, len(views))
	w.pendingMu.Unlock()

	for ownerID, v := range views {
		n := w.NotifyKey(ownerID, "analysis.updated", func(sub *Subscription) any {
			return analysisUpdatedParams{ID: sub.ID, View: v}
		})
		slog.Debug("notified analysis update", "ownerId", ownerID, "state", v.State, "subscribers", n)
	}
}

type analysisUpdatedParams struct {
	ID   string        `json:"id"`
	View analysis.View `json:"view"`
}
