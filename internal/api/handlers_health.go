// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/marquee-tv/marquee/internal/catalog"
)

type healthStatus struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime_seconds"`
}

// Healthz is the liveness probe: 200 whenever the process is serving,
// regardless of upstream state.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthStatus{
		Status: "ok",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// Readyz is the readiness probe: it makes one cheap catalog call so a
// dead proxy takes the instance out of rotation instead of serving
// empty pages.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.source.Trending(ctx, catalog.MediaTypeMovie, h.cfg.UI.TrendingWindow); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, healthStatus{
			Status: "degraded",
			Uptime: time.Since(h.startTime).Seconds(),
		})
		return
	}

	respondJSON(w, http.StatusOK, healthStatus{
		Status: "ready",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
