package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pcfscope/server/logger"
)

// Listener receives session snapshots tagged with the owner that started
// the session.
type Listener interface {
	OnAnalysisUpdate(ownerID string, v View)
}

// Manager keeps at most one session per owner and closes sessions that
// have been idle too long.
type Manager struct {
	configure   func() Config
	idleTimeout time.Duration

	sessionsMu sync.Mutex
	sessions   map[string]*entry // ownerID -> entry

	listenerMu sync.RWMutex
	listener   Listener

	ctx    context.Context
	cancel context.CancelFunc
}

type entry struct {
	session *Session

	mu         sync.Mutex
	lastActive time.Time
}

// NewManager creates a manager. configure is called for every new session,
// so configuration changes apply to sessions started afterwards.
func NewManager(configure func() Config, idleTimeout time.Duration) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		configure:   configure,
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*entry),
		ctx:         ctx,
		cancel:      cancel,
	}
	if idleTimeout > 0 {
		go m.runIdleReaper()
	}
	return m
}

func (m *Manager) SetListener(l Listener) {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	m.listener = l
}

func (m *Manager) emit(ownerID string, v View) {
	m.listenerMu.RLock()
	l := m.listener
	m.listenerMu.RUnlock()
	if l != nil {
		l.OnAnalysisUpdate(ownerID, v)
	}
}

// Start closes the owner's previous session, if any, and starts a new one.
// The session is returned even when connecting fails, so its failed state
// stays visible to the owner.
func (m *Manager) Start(ctx context.Context, ownerID string, req Request) (*Session, error) {
	m.Close(ownerID)

	cfg := m.configure()
	userUpdate := cfg.OnUpdate
	e := &entry{lastActive: time.Now()}
	cfg.OnUpdate = func(v View) {
		e.touch()
		if userUpdate != nil {
			userUpdate(v)
		}
		m.emit(ownerID, v)
	}
	sess := New(cfg, req)
	e.session = sess

	m.sessionsMu.Lock()
	if prev, ok := m.sessions[ownerID]; ok {
		// another Start for the same owner won the race
		defer prev.session.Close()
	}
	m.sessions[ownerID] = e
	m.sessionsMu.Unlock()

	slog.Info("analysis started", "ownerId", ownerID, "sessionId", sess.ID())
	return sess, sess.Start(ctx)
}

// Get returns the owner's session or nil.
func (m *Manager) Get(ownerID string) *Session {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()
	e, ok := m.sessions[ownerID]
	if !ok {
		return nil
	}
	e.touch()
	return e.session
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()
	return len(m.sessions)
}

func (m *Manager) remove(ownerID string) *entry {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()
	e := m.sessions[ownerID]
	delete(m.sessions, ownerID)
	return e
}

// removeWhere removes entries matching the predicate and returns them.
func (m *Manager) removeWhere(predicate func(*entry) bool) map[string]*entry {
	m.sessionsMu.Lock()
	defer m.sessionsMu.Unlock()

	removed := make(map[string]*entry)
	for ownerID, e := range m.sessions {
		if predicate(e) {
			removed[ownerID] = e
			delete(m.sessions, ownerID)
		}
	}
	return removed
}

// Close closes and forgets the owner's session.
func (m *Manager) Close(ownerID string) {
	if e := m.remove(ownerID); e != nil {
		e.session.Close()
		slog.Info("analysis closed", "ownerId", ownerID, "sessionId", e.session.ID())
	}
}

// Shutdown closes every session and stops the reaper.
func (m *Manager) Shutdown() {
	m.cancel()
	removed := m.removeWhere(func(*entry) bool { return true })
	for _, e := range removed {
		e.session.Close()
	}
	slog.Info("analysis manager shutdown complete", "sessionsClosed", len(removed))
}

func (m *Manager) runIdleReaper() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "idle reaper crashed")
		}
	}()

	ticker := time.NewTicker(m.idleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.reapIdle()
		case <-m.ctx.Done():
			return
		}
	}
}

func (m *Manager) reapIdle() {
	now := time.Now()
	removed := m.removeWhere(func(e *entry) bool {
		return now.Sub(e.getLastActive()) > m.idleTimeout
	})
	for ownerID, e := range removed {
		e.session.Close()
		slog.Info("idle analysis reaped", "ownerId", ownerID, "sessionId", e.session.ID())
	}
}

func (e *entry) touch() {
	e.mu.Lock()
	e.lastActive = time.Now()
	e.mu.Unlock()
}

func (e *entry) getLastActive() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastActive
}
