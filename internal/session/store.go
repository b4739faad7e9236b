package session

import "sync"

// Snapshot is an immutable view of the store: session copies in order
// plus the selected session id.
type Snapshot struct {
	Sessions   []Session
	SelectedID string
}

// Find returns the session with the given id.
func (sn Snapshot) Find(id string) (Session, bool) {
	for _, s := range sn.Sessions {
		if s.ID == id {
			return s, true
		}
	}
	return Session{}, false
}

// Selected returns the currently selected session.
func (sn Snapshot) Selected() (Session, bool) {
	if sn.SelectedID == "" {
		return Session{}, false
	}
	return sn.Find(sn.SelectedID)
}

// Observer is called synchronously after every store mutation.
type Observer func(Snapshot)

// Store owns the session collection. Mutations and notifications are
// serialized: each observer is called with the post-mutation snapshot
// before the mutating call returns, and the store lock is not held
// during delivery so observers may unsubscribe from inside a
// notification.
type Store struct {
	mu sync.RWMutex

	sessions   []*Session
	selectedID string

	observers map[int]Observer
	nextObsID int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		observers: make(map[int]Observer),
	}
}

// Subscribe registers an observer and returns its unsubscribe handle.
// Unsubscribing twice is a no-op.
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

// Snapshot returns the current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snapshotLocked()
}

func (st *Store) snapshotLocked() Snapshot {
	sessions := make([]Session, len(st.sessions))
	for i, s := range st.sessions {
		sessions[i] = *s
	}
	return Snapshot{Sessions: sessions, SelectedID: st.selectedID}
}

// Add inserts a session. When selectIt is true it becomes the selected
// session.
func (st *Store) Add(s *Session, selectIt bool) {
	st.mu.Lock()
	st.sessions = append(st.sessions, s)
	if selectIt || st.selectedID == "" {
		st.selectedID = s.ID
	}
	st.notifyLocked()
}

// Select marks the session with the given id as selected. Returns false
// if the id is not present.
func (st *Store) Select(id string) bool {
	st.mu.Lock()
	if st.indexLocked(id) < 0 {
		st.mu.Unlock()
		return false
	}
	st.selectedID = id
	st.notifyLocked()
	return true
}

// Remove deletes the session with the given id. Removing the selected
// session falls back to the nearest remaining session of the same
// privacy kind, then to the nearest session of any kind. Returns false
// if the id is not present.
func (st *Store) Remove(id string) bool {
	st.mu.Lock()
	i := st.indexLocked(id)
	if i < 0 {
		st.mu.Unlock()
		return false
	}

	removed := st.sessions[i]
	st.sessions = append(st.sessions[:i], st.sessions[i+1:]...)

	if st.selectedID == id {
		st.selectedID = st.fallbackLocked(i, removed.Private)
	}
	st.notifyLocked()
	return true
}

// RemoveBatch deletes every listed session in one mutation, with the
// same fallback-selection rule as Remove. Unknown ids are ignored.
func (st *Store) RemoveBatch(ids []string) {
	st.mu.Lock()

	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	selIdx := -1
	var selPrivate bool
	kept := st.sessions[:0]
	for i, s := range st.sessions {
		if doomed[s.ID] {
			if s.ID == st.selectedID {
				selIdx = i
				selPrivate = s.Private
			}
			continue
		}
		kept = append(kept, s)
	}
	st.sessions = kept

	if selIdx >= 0 {
		st.selectedID = st.fallbackLocked(selIdx, selPrivate)
	}
	st.notifyLocked()
}

// Clear empties the collection.
func (st *Store) Clear() {
	st.mu.Lock()
	st.sessions = nil
	st.selectedID = ""
	st.notifyLocked()
}

// UpdateURL sets the session's current URL.
func (st *Store) UpdateURL(id, url string) bool {
	return st.update(id, func(s *Session) {
		s.URL = url
	})
}

// SetFullscreen toggles the session's fullscreen flag.
func (st *Store) SetFullscreen(id string, on bool) bool {
	return st.update(id, func(s *Session) {
		s.Fullscreen = on
	})
}

// SetPictureInPicture toggles the session's picture-in-picture flag.
func (st *Store) SetPictureInPicture(id string, on bool) bool {
	return st.update(id, func(s *Session) {
		s.PictureInPicture = on
	})
}

func (st *Store) update(id string, fn func(*Session)) bool {
	st.mu.Lock()
	i := st.indexLocked(id)
	if i < 0 {
		st.mu.Unlock()
		return false
	}
	fn(st.sessions[i])
	st.notifyLocked()
	return true
}

func (st *Store) indexLocked(id string) int {
	for i, s := range st.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// fallbackLocked picks the selection after removing the selected session
// at index i: nearest survivor of the same privacy kind, else nearest
// survivor of any kind, else none.
func (st *Store) fallbackLocked(i int, private bool) string {
	if len(st.sessions) == 0 {
		return ""
	}

	best := -1
	bestDist := 0
	for j, s := range st.sessions {
		if s.Private != private {
			continue
		}
		d := j - i
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = j, d
		}
	}
	if best < 0 {
		for j := range st.sessions {
			d := j - i
			if d < 0 {
				d = -d
			}
			if best < 0 || d < bestDist {
				best, bestDist = j, d
			}
		}
	}
	return st.sessions[best].ID
}

// notifyLocked snapshots the state and the observer list, releases the
// lock, and delivers. Must be called with st.mu held; returns with it
// released.
func (st *Store) notifyLocked() {
	snap := st.snapshotLocked()
	observers := make([]Observer, 0, len(st.observers))
	for _, fn := range st.observers {
		observers = append(observers, fn)
	}
	st.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
