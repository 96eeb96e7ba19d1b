package watch

import (
	"testing"
	"time"

	"github.com/pcfscope/server/settings"
)

func TestSettingsWatcher_NotifiesOnChange(t *testing.T) {
	store := settings.NewStore(settings.Default(), "")
	w := NewSettingsWatcher(store)
	w.Start()
	defer w.Stop()

	rec := &recordingNotifier{}
	id, current := w.Subscribe(rec)
	if current != settings.Default() {
		t.Errorf("expected current settings on subscribe")
	}

	s := settings.Default()
	s.DisplayDigits = 12
	if err := store.Update(s); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.snapshot()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no settings.changed notification")
		}
		time.Sleep(10 * time.Millisecond)
	}
	n := rec.snapshot()[0]
	if n.Method != "settings.changed" {
		t.Errorf("unexpected method %s", n.Method)
	}
	params, ok := n.Params.(settingsChangedParams)
	if !ok {
		t.Fatalf("unexpected params %T", n.Params)
	}
	if params.ID != id || params.Settings.DisplayDigits != 12 {
		t.Errorf("unexpected params %+v", params)
	}
	if len(params.Changed) != 1 || params.Changed[0] != "display_digits" {
		t.Errorf("expected display_digits as the only change, got %v", params.Changed)
	}
}

func TestSettingsWatcher_CoalescesBursts(t *testing.T) {
	store := settings.NewStore(settings.Default(), "")
	w := NewSettingsWatcher(store)

	rec := &recordingNotifier{}
	w.Subscribe(rec)

	// nothing is flushed until the loop runs, so both updates merge
	for _, digits := range []int{12, 14} {
		s := settings.Default()
		s.DisplayDigits = digits
		if err := store.Update(s); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	w.Start()
	defer w.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.snapshot()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no settings.changed notification")
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected one merged notification, got %d", len(got))
	}
	if p := got[0].Params.(settingsChangedParams); p.Settings.DisplayDigits != 14 {
		t.Errorf("expected latest settings, got %d digits", p.Settings.DisplayDigits)
	}
}

func TestSettingsWatcher_Unsubscribe(t *testing.T) {
	store := settings.NewStore(settings.Default(), "")
	w := NewSettingsWatcher(store)
	w.Start()
	defer w.Stop()

	rec := &recordingNotifier{}
	id, _ := w.Subscribe(rec)
	w.Unsubscribe(id)

	s := settings.Default()
	s.DisplayDigits = 5
	if err := store.Update(s); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if len(rec.snapshot()) != 0 {
		t.Error("unsubscribed notifier must not be called")
	}
}
