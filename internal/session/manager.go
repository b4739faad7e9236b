package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/driftbrowser/drift/internal/engine"
	"github.com/driftbrowser/drift/internal/events"
)

// ErrNotFound is returned when an operation names a session id that is
// not in the collection.
var ErrNotFound = errors.New("session not found")

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEvents attaches a bus that the manager publishes session lifecycle
// events on. Publication is best-effort and never blocks a mutation.
func WithEvents(bus *events.Subject) ManagerOption {
	return func(m *Manager) {
		m.bus = bus
	}
}

// Manager owns the session store and the bindings from sessions to
// engine sessions. A session has at most one binding at a time; removal
// of a session releases its binding.
type Manager struct {
	mu sync.Mutex

	store    *Store
	engine   engine.Engine
	bindings map[string]engine.Session
	bus      *events.Subject
}

// NewManager wires a manager over the given store and engine.
func NewManager(store *Store, eng engine.Engine, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		engine:   eng,
		bindings: make(map[string]engine.Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store exposes the underlying observable store.
func (m *Manager) Store() *Store {
	return m.store
}

// All returns a snapshot of every session.
func (m *Manager) All() []Session {
	return m.store.Snapshot().Sessions
}

// Add inserts the session and selects it.
func (m *Manager) Add(s *Session) {
	m.store.Add(s, true)
	m.emit(events.TopicSessionAdded, s)
}

// Select marks the session as selected. Selecting an unknown id is a
// caller bug and returns ErrNotFound.
func (m *Manager) Select(id string) error {
	if !m.store.Select(id) {
		return fmt.Errorf("select %s: %w", id, ErrNotFound)
	}
	snap := m.store.Snapshot()
	if s, ok := snap.Find(id); ok {
		m.emit(events.TopicSessionSelected, &s)
	}
	return nil
}

// Remove deletes the session and releases its engine binding. Removing
// an absent id is a no-op.
func (m *Manager) Remove(id string) {
	snap := m.store.Snapshot()
	s, ok := snap.Find(id)
	if !ok {
		return
	}

	m.releaseBinding(id)
	m.store.Remove(id)
	m.emit(events.TopicSessionRemoved, &s)
}

// RemoveAll empties the collection and releases every binding,
// custom tabs included.
func (m *Manager) RemoveAll() {
	m.mu.Lock()
	for id, es := range m.bindings {
		_ = es.Close()
		delete(m.bindings, id)
	}
	m.mu.Unlock()

	m.store.Clear()
}

// RemoveByKind deletes every session whose Private flag matches private.
// Custom-tab sessions are never part of bulk removal.
func (m *Manager) RemoveByKind(private bool) {
	snap := m.store.Snapshot()

	var ids []string
	for _, s := range snap.Sessions {
		if s.Private == private && !s.IsCustomTab() {
			ids = append(ids, s.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	for _, id := range ids {
		m.releaseBinding(id)
	}
	m.store.RemoveBatch(ids)

	for _, id := range ids {
		if s, ok := snap.Find(id); ok {
			m.emit(events.TopicSessionRemoved, &s)
		}
	}
}

// BindEngineSession attaches an engine session to the session with the
// given id, replacing and closing any previous binding.
func (m *Manager) BindEngineSession(id string, es engine.Session) error {
	if _, ok := m.store.Snapshot().Find(id); !ok {
		return fmt.Errorf("bind %s: %w", id, ErrNotFound)
	}

	m.mu.Lock()
	if prev, ok := m.bindings[id]; ok && prev != es {
		_ = prev.Close()
	}
	m.bindings[id] = es
	m.mu.Unlock()
	return nil
}

// GetEngineSession returns the engine session bound to the given
// session, or nil when there is none.
func (m *Manager) GetEngineSession(id string) engine.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bindings[id]
}

// GetOrCreateEngineSession returns the existing binding or creates one
// keyed by the session's Private flag.
func (m *Manager) GetOrCreateEngineSession(ctx context.Context, id string) (engine.Session, error) {
	s, ok := m.store.Snapshot().Find(id)
	if !ok {
		return nil, fmt.Errorf("engine session for %s: %w", id, ErrNotFound)
	}

	m.mu.Lock()
	if es, ok := m.bindings[id]; ok {
		m.mu.Unlock()
		return es, nil
	}
	m.mu.Unlock()

	es, err := m.engine.NewSession(ctx, s.Private, nil)
	if err != nil {
		return nil, fmt.Errorf("create engine session: %w", err)
	}

	m.mu.Lock()
	// Lost a race with a concurrent create or an explicit bind.
	if existing, ok := m.bindings[id]; ok {
		m.mu.Unlock()
		_ = es.Close()
		return existing, nil
	}
	m.bindings[id] = es
	m.mu.Unlock()
	return es, nil
}

func (m *Manager) releaseBinding(id string) {
	m.mu.Lock()
	es, ok := m.bindings[id]
	if ok {
		delete(m.bindings, id)
	}
	m.mu.Unlock()

	if ok {
		_ = es.Close()
	}
}

func (m *Manager) emit(topic string, s *Session) {
	if m.bus == nil {
		return
	}
	_ = events.Emit(m.bus, topic, events.SessionEvent{
		ID:      s.ID,
		URL:     s.URL,
		Private: s.Private,
	})
}
