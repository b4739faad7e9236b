package toolbar

import (
	"sync"

	"github.com/driftbrowser/drift/internal/customtabs"
	"github.com/driftbrowser/drift/internal/scope"
	"github.com/driftbrowser/drift/internal/session"
)

// FeatureOption configures a Feature.
type FeatureOption func(*Feature)

// WithTabID pins the feature to an explicit session instead of following
// the selected one.
func WithTabID(id string) FeatureOption {
	return func(f *Feature) {
		f.tabID = id
	}
}

// WithScope supplies the trusted-scope descriptor. Without one the
// toolbar is only ever hidden by fullscreen or picture-in-picture.
func WithScope(sc *scope.Scope) FeatureOption {
	return func(f *Feature) {
		f.scope = sc
	}
}

// Feature observes the session store and the custom-tabs store and calls
// onChange whenever the derived toolbar visibility changes. The first
// emission happens during Start, so the caller always learns the initial
// state. Emissions are suppressed while no target session resolves.
type Feature struct {
	sessions   *session.Store
	customTabs *customtabs.Store
	onChange   func(visible bool)

	tabID string
	scope *scope.Scope

	mu      sync.Mutex
	started bool
	emitted bool
	last    bool
	unsubs  []func()
}

// NewFeature wires a feature over the two stores. onChange is invoked on
// the goroutine delivering the store notification.
func NewFeature(sessions *session.Store, customTabs *customtabs.Store, onChange func(bool), opts ...FeatureOption) *Feature {
	f := &Feature{
		sessions:   sessions,
		customTabs: customTabs,
		onChange:   onChange,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start subscribes to both stores and emits the current visibility.
// Starting twice is a no-op.
func (f *Feature) Start() {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return
	}
	f.started = true
	f.emitted = false
	f.unsubs = []func(){
		f.sessions.Subscribe(func(session.Snapshot) { f.recompute() }),
		f.customTabs.Subscribe(func(map[string]customtabs.Config) { f.recompute() }),
	}
	f.mu.Unlock()

	f.recompute()
}

// Stop unsubscribes from both stores. No emissions happen after Stop
// returns; stopping twice is a no-op, and stopping from inside the
// onChange callback is safe.
func (f *Feature) Stop() {
	f.mu.Lock()
	if !f.started {
		f.mu.Unlock()
		return
	}
	f.started = false
	unsubs := f.unsubs
	f.unsubs = nil
	f.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// recompute resolves the target session, derives visibility and emits on
// change. The callback runs outside f.mu so it may call Stop.
func (f *Feature) recompute() {
	snap := f.sessions.Snapshot()

	var (
		s  session.Session
		ok bool
	)
	if f.tabID != "" {
		s, ok = snap.Find(f.tabID)
	} else {
		s, ok = snap.Selected()
	}
	if !ok {
		// No applicable session; suppress until one resolves.
		return
	}

	// The trusted scope only applies to sessions the host has
	// associated as custom tabs; for everything else the toolbar is
	// governed by display modes alone.
	sc := f.scope
	if _, isCustomTab := f.customTabs.Get(s.ID); !isCustomTab {
		sc = nil
	}

	visible := Visible(s.URL, s.Fullscreen, s.PictureInPicture, sc)

	f.mu.Lock()
	if !f.started || (f.emitted && visible == f.last) {
		f.mu.Unlock()
		return
	}
	f.emitted = true
	f.last = visible
	onChange := f.onChange
	f.mu.Unlock()

	onChange(visible)
}
