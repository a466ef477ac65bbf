// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

package middleware

import (
	"net/http"
	"time"

	"github.com/marquee-tv/marquee/internal/logging"
)

// slowRequestThreshold marks page renders worth a warning. Rendering
// is local; anything slower is the catalog proxy.
const slowRequestThreshold = 2 * time.Second

// Logger emits one structured access-log line per request, carrying
// the request ID attached by RequestID.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &metricsResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		evt := logging.Ctx(r.Context()).Info()
		if wrapper.statusCode >= http.StatusInternalServerError || duration > slowRequestThreshold {
			evt = logging.Ctx(r.Context()).Warn()
		}
		evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("Request served")
	})
}
