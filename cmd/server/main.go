// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

// Command server runs the Soundrift recommendation API.
//
// Startup order: config, logging, catalog (fatal when no dataset loads),
// feature artifact precompute (optional), history store, engine, router,
// then the suture supervisor tree running the HTTP server and the optional
// history janitor. SIGINT/SIGTERM trigger graceful shutdown through
// context cancellation.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundriftlabs/soundrift/internal/api"
	"github.com/soundriftlabs/soundrift/internal/catalog"
	"github.com/soundriftlabs/soundrift/internal/config"
	"github.com/soundriftlabs/soundrift/internal/features"
	"github.com/soundriftlabs/soundrift/internal/history"
	"github.com/soundriftlabs/soundrift/internal/logging"
	"github.com/soundriftlabs/soundrift/internal/metrics"
	"github.com/soundriftlabs/soundrift/internal/recommend"
	"github.com/soundriftlabs/soundrift/internal/session"
	"github.com/soundriftlabs/soundrift/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting Soundrift")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The catalog is the service's reason to exist; refuse to start
	// without one.
	cat, err := catalog.Load(cfg.Catalog.Paths, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Strs("paths", cfg.Catalog.Paths).Msg("Failed to load catalog")
	}
	metrics.SetCatalogSize(cat.Len())

	if cfg.Artifacts.Enabled {
		precomputeArtifacts(cat, cfg.Artifacts.Dir)
	}

	store := history.NewStore()
	engine := recommend.NewEngine(cat, store, recommend.Options{
		Seed:            cfg.Recommend.Seed,
		DefaultLimit:    cfg.Recommend.DefaultLimit,
		FreshPoolFactor: cfg.Recommend.FreshPoolFactor,
	}, logging.Logger())

	resolver := session.NewResolver(cfg.Session.CookieName, int(cfg.Session.CookieMaxAge.Seconds()))
	handler := api.NewHandler(engine, cat, store, resolver, cfg.Recommend.DefaultLimit)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if cfg.History.EvictionEnabled {
		janitor := history.NewJanitor(store, cfg.History.MaxIdle, cfg.History.SweepInterval, logging.Logger())
		tree.AddMaintenanceService(janitor)
		logging.Info().
			Dur("max_idle", cfg.History.MaxIdle).
			Dur("sweep_interval", cfg.History.SweepInterval).
			Msg("History janitor enabled")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Soundrift stopped gracefully")
}

// precomputeArtifacts fits and persists the feature scaler. Failures are
// non-fatal: the recommendation path never reads the artifacts.
func precomputeArtifacts(cat *catalog.Catalog, dir string) {
	artifacts, err := features.OpenArtifacts(dir)
	if err != nil {
		logging.Warn().Err(err).Str("dir", dir).Msg("Failed to open artifact store, precompute skipped")
		return
	}
	defer func() {
		if err := artifacts.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close artifact store")
		}
	}()

	if err := features.Precompute(cat, artifacts, logging.Logger()); err != nil {
		logging.Warn().Err(err).Msg("Feature precompute failed")
	}
}
