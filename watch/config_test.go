package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pcfscope/server/settings"
)

func newConfigWatcher(t *testing.T) (string, *settings.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pcfscope.yaml")
	if err := settings.WriteFile(path, settings.Default()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := settings.NewStore(settings.Default(), path)
	w := NewConfigWatcher(path, store, func() (settings.Settings, error) {
		return settings.Load(settings.NewViper(path))
	})
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return path, store
}

func TestConfigWatcher_ReloadsOnChange(t *testing.T) {
	path, store := newConfigWatcher(t)

	s := settings.Default()
	s.DisplayDigits = 8
	s.IdleTimeout = time.Minute
	if err := settings.WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for store.Get().DisplayDigits != 8 {
		if time.Now().After(deadline) {
			t.Fatal("config change was not picked up")
		}
		time.Sleep(20 * time.Millisecond)
	}
	if got := store.Get().IdleTimeout; got != time.Minute {
		t.Errorf("expected idle timeout 1m, got %s", got)
	}
}

func TestConfigWatcher_KeepsSettingsOnInvalidFile(t *testing.T) {
	path, store := newConfigWatcher(t)

	if err := os.WriteFile(path, []byte("max_depth: -5\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	time.Sleep(400 * time.Millisecond)

	if got := store.Get(); got != settings.Default() {
		t.Errorf("expected previous settings to stay in effect, got %+v", got)
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	path, store := newConfigWatcher(t)

	other := filepath.Join(filepath.Dir(path), "notes.yaml")
	if err := os.WriteFile(other, []byte("display_digits: 3\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	if store.Get().DisplayDigits != settings.Default().DisplayDigits {
		t.Error("unrelated file must not trigger a reload")
	}
}
