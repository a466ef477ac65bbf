// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

// Package api provides HTTP routing and page handlers using the chi
// router. All pages are rendered server-side; the only JSON surface is
// the live-search websocket and the operational endpoints.
package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marquee-tv/marquee/internal/middleware"
	"github.com/marquee-tv/marquee/internal/render"
)

// NewRouter wires the full route table around the handler.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)

	// The search endpoints fan every keystroke out to the catalog
	// proxy, so they carry a per-client limit on top of the outbound
	// token bucket.
	searchLimit := func(next http.Handler) http.Handler { return next }
	if h.cfg.Server.RateLimitRequests > 0 {
		searchLimit = httprate.LimitByRealIP(h.cfg.Server.RateLimitRequests, h.cfg.Server.RateLimitWindow)
	}

	// Pages and fragments are compressible; the websocket and metrics
	// endpoints are mounted outside the compression group.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Compression)

		r.Get("/", h.Home)
		r.Get("/search", h.SearchPage)
		r.Get("/movie/{id}", h.MovieDetail)
		r.Get("/tv/{id}", h.TVDetail)
		r.Get("/watch/{mediaType}/{id}", h.Watch)
		r.With(searchLimit).Get("/fragments/search", h.SearchFragment)

		staticRoot, err := fs.Sub(render.StaticFS(), "static")
		if err == nil {
			r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))
		}
	})

	r.With(searchLimit).Get("/ws/search", h.LiveSearch)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(h.NotFound)

	return r
}
