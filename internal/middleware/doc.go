// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

// Package middleware provides the HTTP middleware chain: request ID
// propagation, access logging, Prometheus instrumentation, and gzip
// compression. Middleware composes with chi's Use and applies to every
// route except where a handler opts out (the metrics endpoint, the
// websocket upgrade for compression).
package middleware
