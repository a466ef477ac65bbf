// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

// Package metrics provides Prometheus instrumentation for Marquee:
// HTTP request latency and throughput, upstream catalog proxy calls,
// circuit breaker state, and live search activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP surface metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Upstream catalog proxy metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_upstream_requests_total",
			Help: "Total number of requests to the catalog proxy",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, error, status_error
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_upstream_request_duration_seconds",
			Help:    "Catalog proxy request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Circuit breaker metrics
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marquee_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	BreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_requests_total",
			Help: "Circuit breaker request outcomes",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	// Live search metrics
	SearchDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_search_dispatched_total",
			Help: "Total number of search queries dispatched upstream",
		},
	)

	SearchDebounceCollapsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_search_debounce_collapsed_total",
			Help: "Pending search invocations replaced by a newer keystroke before firing",
		},
	)

	SearchStaleDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_search_stale_discarded_total",
			Help: "Search responses discarded because a newer query superseded them",
		},
	)

	LiveSearchConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_live_search_connections",
			Help: "Current number of live search WebSocket connections",
		},
	)
)

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route, statusCode string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(increment bool) {
	if increment {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// BreakerTransition records one circuit breaker state transition.
func BreakerTransition(name, from, to string) {
	BreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordUpstreamRequest records one catalog proxy request.
func RecordUpstreamRequest(endpoint, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
