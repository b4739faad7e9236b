// Package engine abstracts the content-rendering backend that tabs are
// bound to. A Session is one rendering context (one browser tab); the
// Engine creates them. The rest of the codebase only talks to these
// interfaces, so the backend can be swapped out in tests.
package engine

import "context"

// LoadFlags control how a navigation is issued.
type LoadFlags int

const (
	// LoadFlagsNone is a plain navigation.
	LoadFlagsNone LoadFlags = 0

	// LoadFlagBypassCache forces the engine to ignore its HTTP cache.
	LoadFlagBypassCache LoadFlags = 1 << 0

	// LoadFlagExternal marks a navigation that originated outside the
	// application (e.g. a link opened from another app).
	LoadFlagExternal LoadFlags = 1 << 1
)

// Has reports whether flag is set.
func (f LoadFlags) Has(flag LoadFlags) bool {
	return f&flag != 0
}

// Session is one content-rendering context bound to a single tab.
type Session interface {
	// ID returns a stable identifier for the rendering context.
	ID() string

	// LoadURL navigates the session. parent, when non-nil, is the engine
	// session that opened this one and establishes the opener
	// relationship for the navigation. flags default to LoadFlagsNone.
	LoadURL(ctx context.Context, url string, parent Session, flags LoadFlags) error

	// Close releases the rendering context. Closing twice is a no-op.
	Close() error
}

// Engine creates rendering sessions.
type Engine interface {
	// NewSession creates a rendering session. private sessions must not
	// share cookies or storage with normal ones. parent, when non-nil,
	// is the opener.
	NewSession(ctx context.Context, private bool, parent Session) (Session, error)

	// Name identifies the backend ("cdp", "fake", ...).
	Name() string

	// Close shuts down the engine and every session it created.
	Close() error
}
