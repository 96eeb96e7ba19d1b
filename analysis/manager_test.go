package analysis

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingListener struct {
	mu     sync.Mutex
	owners map[string]int
}

func (l *recordingListener) OnAnalysisUpdate(ownerID string, v View) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owners == nil {
		l.owners = make(map[string]int)
	}
	l.owners[ownerID]++
}

func (l *recordingListener) count(ownerID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owners[ownerID]
}

func newTestManager(t *testing.T, url string, idle time.Duration) *Manager {
	t.Helper()
	cfg := testConfig(url)
	cfg.IdleTimeout = 0
	m := NewManager(func() Config { return cfg }, idle)
	t.Cleanup(m.Shutdown)
	return m
}

func TestManager_StartReplacesPrevious(t *testing.T) {
	url := startBackend(t, &fakeBackend{})
	m := newTestManager(t, url, 0)

	first, err := m.Start(context.Background(), "conn-1", Request{A: "1", B: "1", Depth: 10})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	second, err := m.Start(context.Background(), "conn-1", Request{A: "2", B: "1", Depth: 10})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if first.State() != StateClosed {
		t.Errorf("expected previous session closed, got %s", first.State())
	}
	if got := m.Get("conn-1"); got != second {
		t.Error("expected Get to return the latest session")
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 session, got %d", m.Count())
	}
}

func TestManager_SeparateOwners(t *testing.T) {
	url := startBackend(t, &fakeBackend{})
	m := newTestManager(t, url, 0)
	l := &recordingListener{}
	m.SetListener(l)

	for _, owner := range []string{"a", "b"} {
		if _, err := m.Start(context.Background(), owner, Request{A: "1", B: "1", Depth: 10}); err != nil {
			t.Fatalf("Start(%s) failed: %v", owner, err)
		}
	}
	if m.Count() != 2 {
		t.Errorf("expected 2 sessions, got %d", m.Count())
	}
	if l.count("a") == 0 || l.count("b") == 0 {
		t.Errorf("expected updates for both owners, got %v", l.owners)
	}

	m.Close("a")
	if m.Get("a") != nil {
		t.Error("expected owner a to have no session")
	}
	if m.Get("b") == nil {
		t.Error("expected owner b to keep its session")
	}
}

func TestManager_StartFailureKeepsSession(t *testing.T) {
	m := newTestManager(t, "ws://127.0.0.1:1", 0)

	sess, err := m.Start(context.Background(), "owner", Request{A: "1", B: "1", Depth: 10})
	if err == nil {
		t.Fatal("expected connect error")
	}
	if sess == nil || sess.State() != StateFailed {
		t.Fatalf("expected failed session to be returned")
	}
	if m.Get("owner") != sess {
		t.Error("failed session should stay visible to its owner")
	}
}

func TestManager_ReapsIdleSessions(t *testing.T) {
	url := startBackend(t, &fakeBackend{})
	m := newTestManager(t, url, 100*time.Millisecond)

	sess, err := m.Start(context.Background(), "owner", Request{A: "1", B: "1", Depth: 10})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.Count() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("idle session was not reaped")
		}
		time.Sleep(20 * time.Millisecond)
	}
	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Error("reaped session was not closed")
	}
}

func TestManager_Shutdown(t *testing.T) {
	url := startBackend(t, &fakeBackend{})
	cfg := testConfig(url)
	m := NewManager(func() Config { return cfg }, time.Minute)

	var sessions []*Session
	for _, owner := range []string{"x", "y", "z"} {
		s, err := m.Start(context.Background(), owner, Request{A: "1", B: "1", Depth: 10})
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		sessions = append(sessions, s)
	}

	m.Shutdown()

	if m.Count() != 0 {
		t.Errorf("expected no sessions after shutdown, got %d", m.Count())
	}
	for _, s := range sessions {
		if s.State() != StateClosed {
			t.Errorf("session %s: expected closed, got %s", s.ID(), s.State())
		}
	}
}
