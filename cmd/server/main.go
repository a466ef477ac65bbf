// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

// Package main is the entry point for the Marquee web server.
//
// Marquee is a server-rendered movie and TV discovery frontend. It
// consumes a backend catalog proxy (which fronts a third-party media
// catalog API and keeps the API key off this tier) and serves the
// landing page with a hero banner and content rails, live search with
// a debounced dropdown, detail pages, and where-to-watch pages.
//
// # Startup Order
//
//  1. Configuration: layered load via Koanf v2 (defaults, config.yaml,
//     MARQUEE_-prefixed environment variables, .env file)
//  2. Logging: zerolog, JSON or console format
//  3. Catalog client: rate-limited HTTP client against the proxy,
//     optionally wrapped in a circuit breaker
//  4. Renderer: embedded html/template set
//  5. HTTP server: chi router under a suture supervision tree
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops
// accepting connections and in-flight requests get the configured
// shutdown timeout to drain.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/marquee-tv/marquee/internal/api"
	"github.com/marquee-tv/marquee/internal/catalog"
	"github.com/marquee-tv/marquee/internal/config"
	"github.com/marquee-tv/marquee/internal/linkfinder"
	"github.com/marquee-tv/marquee/internal/logging"
	"github.com/marquee-tv/marquee/internal/render"
	"github.com/marquee-tv/marquee/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog_url", cfg.Catalog.BaseURL).
		Bool("breaker_enabled", cfg.Catalog.BreakerEnabled).
		Bool("linkfinder_enabled", cfg.LinkFinder.Enabled).
		Msg("Configuration loaded")

	client := catalog.NewClient(&cfg.Catalog)
	var source catalog.Source = client
	if cfg.Catalog.BreakerEnabled {
		source = catalog.NewBreakerClient(client)
	}
	if cfg.Catalog.CacheTTL > 0 {
		cached := catalog.NewCachedSource(source, cfg.Catalog.CacheTTL)
		defer cached.Close()
		source = cached
	}

	renderer, err := render.NewRenderer(render.NewViews(cfg.Images))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to parse templates")
	}

	finder := linkfinder.New(&cfg.LinkFinder)
	handler := api.NewHandler(source, renderer, finder, cfg)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddWebService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", server.Addr).Msg("Marquee listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor stopped with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervisor stopped unexpectedly")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Marquee stopped")
}
