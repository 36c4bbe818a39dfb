// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

// Package main is the entry point for the feedengine server.
//
// Feedengine ranks neighborhood community content per viewer: a scoring
// chain blending recency, engagement, interests, and author affinity,
// followed by a sliding-window diversification pass. It also serves
// trending rankings, typed recommendation lists, and periodic digests.
//
// The server initializes components in order:
//
//  1. Configuration: Koanf v2 layered defaults, YAML file, FEED_ env vars
//  2. Logging: zerolog global logger
//  3. Store: BadgerDB with interest, event, and content accessors
//  4. Engine: scoring, diversification, trending, recommendations, digest
//  5. HTTP server: chi router under /api/v1, Prometheus at /metrics
//
// Graceful shutdown on SIGINT and SIGTERM: the server stops accepting
// connections, drains in-flight requests within the configured timeout,
// then closes the store.
//
// Example usage:
//
//	FEED_STORE__PATH=/data/feedengine FEED_SERVER__PORT=8080 ./feedengine
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

	"github.com/neighborly-labs/feedengine/internal/api"
	"github.com/neighborly-labs/feedengine/internal/config"
	"github.com/neighborly-labs/feedengine/internal/feed"
	"github.com/neighborly-labs/feedengine/internal/logging"
	"github.com/neighborly-labs/feedengine/internal/metrics"
	"github.com/neighborly-labs/feedengine/internal/store"
)

// version is overridden at release builds via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	metrics.InitApp(version)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Failed to close store")
		}
	}()

	engine, err := feed.NewEngine(cfg.Feed, st.Content, st.Events, st.Interests, logging.Logger())
	if err != nil {
		return fmt.Errorf("build feed engine: %w", err)
	}

	handler := api.NewHandler(engine, st)
	router := api.NewRouter(handler, &api.RouterConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitRequests,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		RateLimitDisabled:  cfg.Server.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}
