// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

/*
dispatcher.go - Sequence-Guarded Search Dispatch

Runs live-search queries against the catalog and renders the dropdown
fragment, enforcing two invariants:

  - A blank query clears the dropdown without a network request.
  - Every dispatch carries a monotonic sequence number; an outcome is
    delivered only while it is still the most recent dispatch, so a
    slow response can never overwrite the results of a newer query.
*/

package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/marquee-tv/marquee/internal/catalog"
	"github.com/marquee-tv/marquee/internal/logging"
	"github.com/marquee-tv/marquee/internal/metrics"
	"github.com/marquee-tv/marquee/internal/render"
)

// Outcome kinds delivered to the dropdown.
const (
	OutcomeCleared = "cleared"
	OutcomeResults = "results"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Outcome is the rendered result of one dispatched query.
type Outcome struct {
	Kind  string `json:"type"`
	Query string `json:"query"`
	HTML  string `json:"html"`
}

// Dispatcher turns raw query strings into dropdown outcomes.
type Dispatcher struct {
	source   catalog.Source
	renderer *render.Renderer
	limit    int

	seq     atomic.Uint64
	applied atomic.Uint64
}

// NewDispatcher builds a dispatcher capped at limit dropdown rows.
func NewDispatcher(source catalog.Source, renderer *render.Renderer, limit int) *Dispatcher {
	return &Dispatcher{source: source, renderer: renderer, limit: limit}
}

// Dispatch runs one query end to end. The second return value reports
// whether the outcome should be delivered; false means a newer
// dispatch superseded this one while it was in flight.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) (Outcome, bool) {
	seq := d.seq.Add(1)

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		// Clearing is itself sequenced so an in-flight response for an
		// earlier query cannot repopulate an emptied dropdown.
		if !d.apply(seq) {
			return Outcome{}, false
		}
		return Outcome{Kind: OutcomeCleared, Query: query}, true
	}

	metrics.SearchDispatched.Inc()
	items, err := d.source.Search(ctx, trimmed)

	if !d.apply(seq) {
		metrics.SearchStaleDiscarded.Inc()
		return Outcome{}, false
	}

	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("query", trimmed).Msg("Search dispatch failed")
		html, rerr := d.renderer.Message("Search is unavailable right now.")
		if rerr != nil {
			return Outcome{}, false
		}
		return Outcome{Kind: OutcomeError, Query: trimmed, HTML: html}, true
	}

	filtered := Filter(items, d.limit)
	if len(filtered) == 0 {
		msg := "No results."
		if len(items) == 0 {
			msg = fmt.Sprintf("No results found for %q.", trimmed)
		}
		html, rerr := d.renderer.Message(msg)
		if rerr != nil {
			return Outcome{}, false
		}
		return Outcome{Kind: OutcomeEmpty, Query: trimmed, HTML: html}, true
	}

	html, rerr := d.renderer.Rows(d.renderer.Views().Items(filtered))
	if rerr != nil {
		logging.Ctx(ctx).Error().Err(rerr).Msg("Failed to render search rows")
		return Outcome{}, false
	}
	return Outcome{Kind: OutcomeResults, Query: trimmed, HTML: html}, true
}

// apply claims delivery for seq. It fails if a newer dispatch exists
// or if delivery would move the applied watermark backwards.
func (d *Dispatcher) apply(seq uint64) bool {
	if seq != d.seq.Load() {
		return false
	}
	for {
		cur := d.applied.Load()
		if seq <= cur {
			return false
		}
		if d.applied.CompareAndSwap(cur, seq) {
			return true
		}
	}
}

// Filter keeps movie and TV results that have artwork, preserving
// upstream order, capped at limit.
func Filter(items []catalog.Item, limit int) []catalog.Item {
	filtered := make([]catalog.Item, 0, limit)
	for i := range items {
		// Multi-search labels every result; people and other labelled
		// non-title results never reach the dropdown. Inference only
		// applies to unlabelled items.
		switch items[i].MediaTypeRaw {
		case catalog.MediaTypeMovie, catalog.MediaTypeTV, "":
		default:
			continue
		}
		if !items[i].HasArtwork() {
			continue
		}
		filtered = append(filtered, items[i])
		if len(filtered) == limit {
			break
		}
	}
	return filtered
}
