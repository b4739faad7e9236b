// Package customtabs tracks the host-provided configuration attached to
// custom-tab sessions. Regular tabs have no entry here.
package customtabs

import "sync"

// Config is the embedding host's toolbar configuration for one session.
type Config struct {
	ToolbarColor    string
	ShowCloseButton bool

	// Trusted marks a trusted-web-activity association: the host vouches
	// for the app's scope, which allows the toolbar to be hidden inside
	// it.
	Trusted bool
}

// Observer is called synchronously after every store mutation with the
// full association map.
type Observer func(map[string]Config)

// Store maps session ids to host configurations. Same observer contract
// as the session store: synchronous delivery outside the lock,
// unsubscribe handles, no delivery after unsubscribe.
type Store struct {
	mu sync.RWMutex

	configs   map[string]Config
	observers map[int]Observer
	nextObsID int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		configs:   make(map[string]Config),
		observers: make(map[int]Observer),
	}
}

// Subscribe registers an observer and returns its unsubscribe handle.
func (st *Store) Subscribe(fn Observer) (unsubscribe func()) {
	st.mu.Lock()
	id := st.nextObsID
	st.nextObsID++
	st.observers[id] = fn
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		delete(st.observers, id)
		st.mu.Unlock()
	}
}

// Get returns the configuration associated with a session.
func (st *Store) Get(sessionID string) (Config, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	cfg, ok := st.configs[sessionID]
	return cfg, ok
}

// Put associates a configuration with a session.
func (st *Store) Put(sessionID string, cfg Config) {
	st.mu.Lock()
	st.configs[sessionID] = cfg
	st.notifyLocked()
}

// Remove drops a session's association. Unknown ids are a no-op.
func (st *Store) Remove(sessionID string) {
	st.mu.Lock()
	if _, ok := st.configs[sessionID]; !ok {
		st.mu.Unlock()
		return
	}
	delete(st.configs, sessionID)
	st.notifyLocked()
}

// notifyLocked must be called with st.mu held; returns with it released.
func (st *Store) notifyLocked() {
	snapshot := make(map[string]Config, len(st.configs))
	for id, cfg := range st.configs {
		snapshot[id] = cfg
	}
	observers := make([]Observer, 0, len(st.observers))
	for _, fn := range st.observers {
		observers = append(observers, fn)
	}
	st.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
