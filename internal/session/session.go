// Package session holds the browsing-session model, the observable store
// that owns it, and the manager that binds sessions to engine sessions.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source records how a session came to exist.
type Source string

const (
	SourceNewTab    Source = "new tab"
	SourceRestored  Source = "restored"
	SourceCustomTab Source = "custom tab"
)

// Session is one browsing context (one tab).
type Session struct {
	ID        string
	URL       string
	Private   bool
	ContextID string // container/contextual-identity id, optional
	Source    Source

	// CustomTabID is the id of the host-provided custom-tab
	// configuration. Empty for regular tabs.
	CustomTabID string

	Fullscreen       bool
	PictureInPicture bool

	CreatedAt time.Time
}

// Option mutates a session under construction.
type Option func(*Session)

// WithContextID assigns a container id.
func WithContextID(id string) Option {
	return func(s *Session) {
		s.ContextID = id
	}
}

// WithSource overrides the default "new tab" source.
func WithSource(src Source) Option {
	return func(s *Session) {
		s.Source = src
	}
}

// WithCustomTab marks the session as a custom tab owned by the host
// configuration with the given id.
func WithCustomTab(configID string) Option {
	return func(s *Session) {
		s.CustomTabID = configID
	}
}

// New constructs a session with a fresh id.
func New(url string, private bool, opts ...Option) *Session {
	s := &Session{
		ID:        NewID(),
		URL:       url,
		Private:   private,
		Source:    SourceNewTab,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsCustomTab reports whether the session is bound to a host
// configuration.
func (s *Session) IsCustomTab() bool {
	return s.CustomTabID != ""
}

// NewID returns a stable short session id.
func NewID() string {
	return fmt.Sprintf("tab-%s", uuid.New().String()[:8])
}
