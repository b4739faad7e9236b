package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/driftbrowser/drift/internal/config"
	"github.com/driftbrowser/drift/internal/customtabs"
	"github.com/driftbrowser/drift/internal/engine"
	"github.com/driftbrowser/drift/internal/events"
	"github.com/driftbrowser/drift/internal/logging"
	"github.com/driftbrowser/drift/internal/scope"
	"github.com/driftbrowser/drift/internal/session"
	"github.com/driftbrowser/drift/internal/tabs"
	"github.com/driftbrowser/drift/internal/toolbar"
)

var (
	openPrivate  bool
	openManifest string
	openHeadful  bool
)

var openCmd = &cobra.Command{
	Use:   "open <url> [url...]",
	Short: "Open tabs and follow toolbar visibility until interrupted",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOpen(cmd.Context(), cfg, args)
	},
}

func init() {
	openCmd.Flags().BoolVar(&openPrivate, "private", false, "open the tabs in private mode")
	openCmd.Flags().StringVar(&openManifest, "manifest", "", "web app manifest defining the trusted scope")
	openCmd.Flags().BoolVar(&openHeadful, "headful", false, "show the browser window")
}

func runOpen(parent context.Context, cfg config.Config, urls []string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manifestPath := cfg.Manifest
	if openManifest != "" {
		manifestPath = openManifest
	}

	var trusted *scope.Scope
	if manifestPath != "" {
		m, err := scope.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		sc, err := m.TrustedScope()
		if err != nil {
			return err
		}
		trusted = &sc
		logging.Infof("trusted scope: %s", sc)
	}

	eng := engine.NewCDP(engine.CDPConfig{
		Headless:  cfg.Engine.Headless && !openHeadful,
		NoSandbox: cfg.Engine.NoSandbox,
		Timeout:   cfg.EngineTimeout(),
	})
	defer eng.Close()

	bus := events.NewSubject(events.WithSyncDelivery())
	defer events.Complete(bus)

	store := session.NewStore()
	manager := session.NewManager(store, eng, session.WithEvents(bus))
	useCases := tabs.NewUseCases(manager, eng)
	customTabs := customtabs.NewStore()

	watchSessionEvents(bus)

	// The feature is swapped out when the manifest changes, so guard it.
	var (
		featureMu sync.Mutex
		feature   *toolbar.Feature
	)
	startFeature := func(sc *scope.Scope) {
		featureMu.Lock()
		defer featureMu.Unlock()
		if feature != nil {
			feature.Stop()
		}
		opts := []toolbar.FeatureOption{}
		if sc != nil {
			opts = append(opts, toolbar.WithScope(sc))
		}
		feature = toolbar.NewFeature(store, customTabs, func(visible bool) {
			fmt.Printf("toolbar visible: %v\n", visible)
		}, opts...)
		feature.Start()
	}

	for _, url := range urls {
		addOpts := []tabs.AddOption{}
		if openPrivate {
			addOpts = append(addOpts, tabs.Private())
		}
		if cfg.ContextID != "" {
			addOpts = append(addOpts, tabs.WithContextID(cfg.ContextID))
		}
		var customTabID string
		if trusted != nil {
			customTabID = uuid.New().String()[:8]
			addOpts = append(addOpts, tabs.WithCustomTab(customTabID))
		}

		s, err := useCases.Add(ctx, url, addOpts...)
		if err != nil {
			return err
		}
		if trusted != nil {
			customTabs.Put(s.ID, customtabs.Config{Trusted: true})
		}
	}

	startFeature(trusted)
	defer func() {
		featureMu.Lock()
		defer featureMu.Unlock()
		if feature != nil {
			feature.Stop()
		}
	}()

	if manifestPath != "" {
		go func() {
			err := scope.Watch(ctx, manifestPath, func(sc scope.Scope) {
				logging.Infof("trusted scope reloaded: %s", sc)
				_ = events.Emit(bus, events.TopicScopeReloaded, sc)
				startFeature(&sc)
			})
			if err != nil {
				logging.Warnf("manifest watch stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()

	useCases.RemoveAll()
	return nil
}

func watchSessionEvents(bus *events.Subject) {
	log := func(verb string) func(context.Context, events.SessionEvent) error {
		return func(_ context.Context, ev events.SessionEvent) error {
			kind := "tab"
			if ev.Private {
				kind = "private tab"
			}
			fmt.Printf("%s %s: %s %s\n", kind, verb, ev.ID, ev.URL)
			return nil
		}
	}
	events.Subscribe(bus, events.TopicSessionAdded, log("added"))
	events.Subscribe(bus, events.TopicSessionRemoved, log("removed"))
	events.Subscribe(bus, events.TopicSessionSelected, log("selected"))
}
