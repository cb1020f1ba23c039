// Package app wires configuration, stores, the session tracker, and the UI
// surfaces together and owns the background trigger loops.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/clockwise-hq/clockwise/internal/api"
	"github.com/clockwise-hq/clockwise/internal/config"
	"github.com/clockwise-hq/clockwise/internal/identity"
	"github.com/clockwise-hq/clockwise/internal/localstore"
	"github.com/clockwise-hq/clockwise/internal/location"
	"github.com/clockwise-hq/clockwise/internal/remote"
	"github.com/clockwise-hq/clockwise/internal/session"
	"github.com/clockwise-hq/clockwise/internal/ui"
)

// Options configure the Clockwise application.
type Options struct {
	ConfigPath string
	SyncEvery  int  // seconds; zero uses the configured cadence
	Headless   bool // run the HTTP API without the TUI
}

// Run boots the agent until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := remote.Connect(ctx, cfg.RemoteURI)
	if err != nil {
		return fmt.Errorf("connect record store: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	store := remote.NewMongoStore(client, cfg.Database)
	ident := identity.NewResolver(cfg.UserID, store)

	local, err := localstore.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}

	tracker, err := session.New(session.Options{
		Remote:         store,
		Identity:       ident,
		Store:          local,
		Locations:      location.New(cfg.GeoEndpoint),
		DriftThreshold: cfg.DriftThreshold,
		StaleAfter:     cfg.StaleAfter,
	})
	if err != nil {
		return fmt.Errorf("init tracker: %w", err)
	}

	// Load-time reconciliation runs only when a session snapshot survived
	// the restart; a clocked-out agent has nothing to reconcile.
	if tracker.Active() {
		if err := tracker.Reconcile(ctx); err != nil {
			log.Printf("startup reconcile: %v", err)
		}
	}

	syncEvery := cfg.SyncInterval
	if opts.SyncEvery > 0 {
		syncEvery = time.Duration(opts.SyncEvery) * time.Second
	}

	startClock(ctx, tracker)
	startSyncLoop(ctx, tracker, syncEvery)
	startWatcher(ctx, tracker, store, cfg.UserID)

	if err := serveAPI(ctx, tracker, cfg.APIBind); err != nil {
		return err
	}

	if opts.Headless {
		<-ctx.Done()
		return nil
	}
	return ui.Run(ui.Options{Context: ctx, Tracker: tracker})
}

func serveAPI(ctx context.Context, tracker *session.Tracker, bind string) error {
	handler, err := api.NewHandler(tracker)
	if err != nil {
		return fmt.Errorf("init api: %w", err)
	}

	srv := &http.Server{Addr: bind, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("api server: %v", err)
		}
	}()
	return nil
}
