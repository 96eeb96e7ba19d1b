package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// notifyTimeout bounds each delivery so one slow client does not delay
// the others.
const notifyTimeout = 5 * time.Second

// Notification is one JSON-RPC notification addressed to a subscriber.
type Notification struct {
	Method string
	Params any
}

// Notifier delivers notifications to one subscriber.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Watcher is anything a connection can hold subscriptions on.
type Watcher interface {
	Unsubscribe(id string)
}

type Subscription struct {
	ID       string
	Notifier Notifier
	// Key scopes the subscription, e.g. to the owner of an analysis. Empty
	// means every event.
	Key string
}

// BaseWatcher provides common subscription management for all watcher types.
type BaseWatcher struct {
	idPrefix string

	subMu         sync.RWMutex
	subscriptions map[string]*Subscription

	ctx    context.Context
	cancel context.CancelFunc
}

var _ Watcher = (*BaseWatcher)(nil)

func NewBaseWatcher(idPrefix string) *BaseWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &BaseWatcher{
		idPrefix:      idPrefix,
		subscriptions: make(map[string]*Subscription),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func generateIDWithPrefix(prefix string) string {
	return prefix + "_" + uuid.Must(uuid.NewV7()).String()
}

func (b *BaseWatcher) GenerateID() string {
	return generateIDWithPrefix(b.idPrefix)
}

func (b *BaseWatcher) AddSubscription(sub *Subscription) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	b.subscriptions[sub.ID] = sub
}

func (b *BaseWatcher) RemoveSubscription(id string) *Subscription {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	sub, ok := b.subscriptions[id]
	if !ok {
		return nil
	}

	delete(b.subscriptions, id)
	return sub
}

func (b *BaseWatcher) GetAllSubscriptions() []*Subscription {
	b.subMu.RLock()
	defer b.subMu.RUnlock()

	subs := make([]*Subscription, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		subs = append(subs, sub)
	}
	return subs
}

// GetSubscriptionsByKey returns the subscriptions scoped to key.
func (b *BaseWatcher) GetSubscriptionsByKey(key string) []*Subscription {
	b.subMu.RLock()
	defer b.subMu.RUnlock()

	var subs []*Subscription
	for _, sub := range b.subscriptions {
		if sub.Key == key {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (b *BaseWatcher) GetSubscription(id string) *Subscription {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	return b.subscriptions[id]
}

func (b *BaseWatcher) NotifyAll(method string, makeParams func(sub *Subscription) any) int {
	return b.notify(b.GetAllSubscriptions(), method, makeParams)
}

// NotifyKey notifies only the subscriptions scoped to key.
func (b *BaseWatcher) NotifyKey(key, method string, makeParams func(sub *Subscription) any) int {
	return b.notify(b.GetSubscriptionsByKey(key), method, makeParams)
}

// notify delivers to each subscription in turn and returns how many were
// attempted. Failed deliveries are logged and the subscription is kept; the
// connection cleans it up when it closes.
func (b *BaseWatcher) notify(subs []*Subscription, method string, makeParams func(sub *Subscription) any) int {
	for _, sub := range subs {
		ctx, cancel := context.WithTimeout(b.ctx, notifyTimeout)
		err := sub.Notifier.Notify(ctx, Notification{Method: method, Params: makeParams(sub)})
		cancel()
		if err != nil {
			slog.Debug("failed to notify subscriber", "id", sub.ID, "method", method, "error", err)
		}
	}
	return len(subs)
}

func (b *BaseWatcher) Context() context.Context { return b.ctx }
func (b *BaseWatcher) Cancel()                  { b.cancel() }

func (b *BaseWatcher) HasSubscriptions() bool {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	return len(b.subscriptions) > 0
}

func (b *BaseWatcher) Unsubscribe(id string) {
	b.RemoveSubscription(id)
}
