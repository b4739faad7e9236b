// Package tabs implements the tab lifecycle operations: adding,
// selecting and removing browsing sessions, delegating rendering to the
// content engine.
package tabs

import (
	"context"
	"fmt"

	"github.com/driftbrowser/drift/internal/engine"
	"github.com/driftbrowser/drift/internal/logging"
	"github.com/driftbrowser/drift/internal/session"
)

// UseCases bundles the tab lifecycle operations over one session manager
// and one content engine. The zero value is not usable; construct with
// NewUseCases.
type UseCases struct {
	manager *session.Manager
	engine  engine.Engine
}

// NewUseCases wires the operations to their collaborators.
func NewUseCases(manager *session.Manager, eng engine.Engine) *UseCases {
	return &UseCases{
		manager: manager,
		engine:  eng,
	}
}

// Select marks the session with the given id as selected. Selecting an
// id that is not in the collection is a caller bug and returns
// session.ErrNotFound.
func (u *UseCases) Select(id string) error {
	return u.manager.Select(id)
}

// Remove deletes the session with the given id and releases its engine
// session. Removing an absent id is a no-op, so Remove is idempotent.
func (u *UseCases) Remove(id string) {
	u.manager.Remove(id)
}

// RemoveAll empties the whole collection, custom tabs included, and
// releases every engine session.
func (u *UseCases) RemoveAll() {
	u.manager.RemoveAll()
}

// RemoveByKind deletes every private (private=true) or every normal
// (private=false) session. Custom-tab sessions are excluded from bulk
// removal regardless of their flag.
func (u *UseCases) RemoveByKind(private bool) {
	u.manager.RemoveByKind(private)
}

// AddOption configures an Add operation.
type AddOption func(*addConfig)

type addConfig struct {
	private       bool
	startLoading  bool
	contextID     string
	customTabID   string
	parentID      string
	flags         engine.LoadFlags
	engineSession engine.Session
}

// Private forces the new session into private mode.
func Private() AddOption {
	return func(cfg *addConfig) {
		cfg.private = true
	}
}

// WithoutLoading skips the initial navigation; the session is created
// and selected but nothing is loaded.
func WithoutLoading() AddOption {
	return func(cfg *addConfig) {
		cfg.startLoading = false
	}
}

// WithContextID assigns a container id to the new session.
func WithContextID(id string) AddOption {
	return func(cfg *addConfig) {
		cfg.contextID = id
	}
}

// WithCustomTab marks the new session as a custom tab owned by the host
// configuration with the given id.
func WithCustomTab(configID string) AddOption {
	return func(cfg *addConfig) {
		cfg.customTabID = configID
	}
}

// WithParent records the opener session; its engine session, when
// resolvable, is handed to the initial navigation.
func WithParent(sessionID string) AddOption {
	return func(cfg *addConfig) {
		cfg.parentID = sessionID
	}
}

// WithLoadFlags sets the flags for the initial navigation.
func WithLoadFlags(flags engine.LoadFlags) AddOption {
	return func(cfg *addConfig) {
		cfg.flags = flags
	}
}

// WithEngineSession reuses a pre-existing engine session instead of
// creating one.
func WithEngineSession(es engine.Session) AddOption {
	return func(cfg *addConfig) {
		cfg.engineSession = es
	}
}

// Add creates a session for the URL, inserts and selects it, binds
// exactly one engine session (reusing a supplied one) and, unless
// WithoutLoading is given, issues the initial navigation. A failure to
// obtain an engine session rolls the insertion back and is returned to
// the caller.
func (u *UseCases) Add(ctx context.Context, url string, opts ...AddOption) (*session.Session, error) {
	cfg := addConfig{startLoading: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	sessionOpts := []session.Option{}
	if cfg.contextID != "" {
		sessionOpts = append(sessionOpts, session.WithContextID(cfg.contextID))
	}
	if cfg.customTabID != "" {
		sessionOpts = append(sessionOpts, session.WithCustomTab(cfg.customTabID))
	}

	s := session.New(url, cfg.private, sessionOpts...)
	u.manager.Add(s)

	// A dead parent id is not an error; the tab simply opens without an
	// opener relationship.
	var parent engine.Session
	if cfg.parentID != "" {
		parent = u.manager.GetEngineSession(cfg.parentID)
		if parent == nil {
			logging.Debugf("tabs: parent %s has no engine session, opening %s without opener", cfg.parentID, s.ID)
		}
	}

	es := cfg.engineSession
	if es == nil {
		var err error
		es, err = u.engine.NewSession(ctx, cfg.private, parent)
		if err != nil {
			u.manager.Remove(s.ID)
			return nil, fmt.Errorf("create engine session: %w", err)
		}
	}
	if err := u.manager.BindEngineSession(s.ID, es); err != nil {
		return nil, err
	}

	if cfg.startLoading {
		if err := es.LoadURL(ctx, url, parent, cfg.flags); err != nil {
			return s, fmt.Errorf("load %s: %w", url, err)
		}
	}

	return s, nil
}

// AddPrivate is Add with the private flag forced on.
func (u *UseCases) AddPrivate(ctx context.Context, url string, opts ...AddOption) (*session.Session, error) {
	return u.Add(ctx, url, append(opts, Private())...)
}
