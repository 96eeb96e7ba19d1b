package watch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return nil
}

func (r *recordingNotifier) snapshot() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

func TestBaseWatcher_AddRemoveSubscription(t *testing.T) {
	b := NewBaseWatcher("test")

	sub := &Subscription{ID: "test_1"}
	b.AddSubscription(sub)

	if !b.HasSubscriptions() {
		t.Error("expected HasSubscriptions to be true")
	}

	removed := b.RemoveSubscription("test_1")
	if removed == nil {
		t.Fatal("expected removed subscription")
	}
	if removed.ID != "test_1" {
		t.Errorf("expected ID test_1, got %s", removed.ID)
	}

	if b.HasSubscriptions() {
		t.Error("expected HasSubscriptions to be false")
	}

	removed = b.RemoveSubscription("nonexistent")
	if removed != nil {
		t.Error("expected nil for non-existent subscription")
	}
}

func TestBaseWatcher_GenerateID(t *testing.T) {
	b := NewBaseWatcher("st")
	a, c := b.GenerateID(), b.GenerateID()
	if !strings.HasPrefix(a, "st_") {
		t.Errorf("expected st_ prefix, got %s", a)
	}
	if a == c {
		t.Error("expected unique IDs")
	}
}

func TestBaseWatcher_NotifyKey(t *testing.T) {
	b := NewBaseWatcher("test")
	mine, other := &recordingNotifier{}, &recordingNotifier{}
	b.AddSubscription(&Subscription{ID: "1", Notifier: mine, Key: "conn-a"})
	b.AddSubscription(&Subscription{ID: "2", Notifier: other, Key: "conn-b"})

	n := b.NotifyKey("conn-a", "ping", func(sub *Subscription) any { return sub.ID })
	if n != 1 {
		t.Errorf("expected 1 notified, got %d", n)
	}
	if got := mine.snapshot(); len(got) != 1 || got[0].Method != "ping" || got[0].Params != "1" {
		t.Errorf("unexpected notifications %+v", got)
	}
	if len(other.snapshot()) != 0 {
		t.Error("other key must not be notified")
	}

	if n := b.NotifyAll("ping", func(*Subscription) any { return nil }); n != 2 {
		t.Errorf("expected 2 notified, got %d", n)
	}
}

func TestBaseWatcher_NotifyBoundsDelivery(t *testing.T) {
	b := NewBaseWatcher("test")

	var hasDeadline bool
	b.AddSubscription(&Subscription{ID: "test_1", Notifier: NotifierFunc(func(ctx context.Context, n Notification) error {
		_, hasDeadline = ctx.Deadline()
		return errors.New("client gone")
	})})

	if n := b.NotifyAll("ping", func(*Subscription) any { return nil }); n != 1 {
		t.Errorf("expected 1 attempted delivery, got %d", n)
	}
	if !hasDeadline {
		t.Error("expected delivery context to carry a deadline")
	}
	if b.GetSubscription("test_1") == nil {
		t.Error("failed delivery must not drop the subscription")
	}
}
