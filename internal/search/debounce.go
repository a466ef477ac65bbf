// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

/*
debounce.go - Trailing-Edge Input Debouncer

Coalesces rapid keystrokes into a single callback. Each Invoke cancels
the pending timer and schedules a new one, so within a burst only the
most recent argument ever fires.
*/

package search

import (
	"sync"
	"time"

	"github.com/marquee-tv/marquee/internal/metrics"
)

// Debouncer delays a callback until input has been quiet for a full
// interval. Safe for concurrent use.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(string)
	timer *time.Timer
}

// NewDebouncer wraps fn so it fires delay after the last Invoke.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Invoke schedules fn(arg), replacing any pending invocation. Within a
// burst of calls only the last argument reaches fn.
func (d *Debouncer) Invoke(arg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil && d.timer.Stop() {
		metrics.SearchDebounceCollapsed.Inc()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fn(arg)
	})
}

// Stop cancels any pending invocation. An invocation already running
// is not interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
