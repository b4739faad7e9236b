package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/driftbrowser/drift/internal/logging"
)

// CDPConfig configures the Chrome DevTools Protocol engine.
type CDPConfig struct {
	Headless  bool          // run Chrome headlessly (default: true)
	NoSandbox bool          // disable the Chrome sandbox (containers)
	Timeout   time.Duration // per-navigation timeout (default: 30s)
}

// CDPEngine drives tabs in a managed Chrome via chromedp.
type CDPEngine struct {
	mu sync.Mutex

	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	sessions map[string]*cdpSession
	closed   bool
}

// NewCDP launches a Chrome allocator and returns an engine backed by it.
// Chrome itself is only started when the first session is created.
func NewCDP(cfg CDPConfig) *CDPEngine {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &CDPEngine{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  cfg.Timeout,
		sessions: make(map[string]*cdpSession),
	}
}

// Name identifies the backend.
func (e *CDPEngine) Name() string {
	return "cdp"
}

// NewSession opens a new tab. Private sessions get a fresh incognito
// browser context so they share no storage with normal sessions.
func (e *CDPEngine) NewSession(ctx context.Context, private bool, parent Session) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("cdp engine is closed")
	}

	ctxOpts := []chromedp.ContextOption{}
	if private {
		ctxOpts = append(ctxOpts, chromedp.WithNewBrowserContext())
	}

	tabCtx, cancel := chromedp.NewContext(e.allocCtx, ctxOpts...)

	// Spawn the target eagerly so the session is bound to a real tab
	// before anyone navigates it.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("create tab: %w", err)
	}

	s := &cdpSession{
		id:      newSessionID(),
		ctx:     tabCtx,
		cancel:  cancel,
		timeout: e.timeout,
		private: private,
	}
	if parent != nil {
		// CDP fixes the opener at target creation; the parent id is kept
		// for diagnostics only.
		s.parentID = parent.ID()
	}

	e.sessions[s.id] = s
	return s, nil
}

// Close shuts down every session and the Chrome allocator.
func (e *CDPEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	for id, s := range e.sessions {
		_ = s.Close()
		delete(e.sessions, id)
	}

	if e.cancel != nil {
		e.cancel()
	}
	return nil
}

// cdpSession is one Chrome tab.
type cdpSession struct {
	mu sync.Mutex

	id       string
	parentID string
	ctx      context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	private  bool
	closed   bool
}

func (s *cdpSession) ID() string {
	return s.id
}

func (s *cdpSession) LoadURL(ctx context.Context, url string, parent Session, flags LoadFlags) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("session %s is closed", s.id)
	}
	if url == "" {
		return fmt.Errorf("url is required")
	}

	if parent != nil && parent.ID() != s.parentID {
		// Opener cannot be changed after target creation under CDP.
		logging.Debugf("cdp: ignoring opener %s for navigation in %s", parent.ID(), s.id)
	}

	runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-stop:
		}
	}()
	defer close(stop)

	actions := []chromedp.Action{}
	if flags.Has(LoadFlagBypassCache) {
		actions = append(actions, network.SetCacheDisabled(true))
	}
	actions = append(actions, chromedp.Navigate(url))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *cdpSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func newSessionID() string {
	return fmt.Sprintf("es-%s", uuid.New().String()[:8])
}
