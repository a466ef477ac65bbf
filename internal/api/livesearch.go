// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

/*
livesearch.go - Live Search WebSocket Channel

One connection per browser tab. Incoming keystrokes feed a debouncer so
only the final state of a typing burst dispatches; outcomes are pushed
back as rendered dropdown fragments. Each connection owns its own
debouncer and dispatcher, so its sequence guard tracks exactly one
search box.
*/

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/marquee-tv/marquee/internal/logging"
	"github.com/marquee-tv/marquee/internal/metrics"
	"github.com/marquee-tv/marquee/internal/search"
)

const (
	liveSearchWriteWait = 10 * time.Second
	liveSearchPongWait  = 60 * time.Second
	liveSearchPing      = (liveSearchPongWait * 9) / 10
	maxQueryMessage     = 4 * 1024

	// dispatchTimeout bounds one upstream search; the connection
	// outlives the request that upgraded it, so dispatches cannot
	// borrow the request context.
	dispatchTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Pages and the websocket share an origin; the default
	// same-origin check is what we want.
}

type queryMessage struct {
	Query string `json:"query"`
}

// LiveSearch upgrades the connection and runs the per-tab search loop
// until the client goes away.
func (h *Handler) LiveSearch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Live search upgrade failed")
		return
	}

	metrics.LiveSearchConnections.Inc()
	defer metrics.LiveSearchConnections.Dec()

	session := &liveSearchSession{
		conn:       conn,
		dispatcher: search.NewDispatcher(h.source, h.renderer, h.cfg.UI.SuggestionLimit),
	}
	session.debouncer = search.NewDebouncer(h.cfg.UI.DebounceInterval, session.dispatch)

	session.run(r)
}

// liveSearchSession is the state of one live-search connection.
type liveSearchSession struct {
	conn       *websocket.Conn
	debouncer  *search.Debouncer
	dispatcher *search.Dispatcher

	writeMu sync.Mutex
	closed  sync.Once
	done    chan struct{}
}

func (s *liveSearchSession) run(r *http.Request) {
	s.done = make(chan struct{})
	defer s.shutdown()

	go s.pingLoop()

	s.conn.SetReadLimit(maxQueryMessage)
	if err := s.conn.SetReadDeadline(time.Now().Add(liveSearchPongWait)); err != nil {
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(liveSearchPongWait))
	})

	for {
		var msg queryMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.Ctx(r.Context()).Debug().Err(err).Msg("Live search connection error")
			}
			return
		}
		s.debouncer.Invoke(msg.Query)
	}
}

// dispatch runs on the debouncer's timer goroutine after the quiet
// period. Superseded outcomes are dropped without a write.
func (s *liveSearchSession) dispatch(query string) {
	select {
	case <-s.done:
		return
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	outcome, ok := s.dispatcher.Dispatch(ctx, query)
	if !ok {
		return
	}
	s.send(outcome)
}

func (s *liveSearchSession) send(payload any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(liveSearchWriteWait))
	if err := s.conn.WriteJSON(payload); err != nil {
		s.shutdown()
	}
}

func (s *liveSearchSession) pingLoop() {
	ticker := time.NewTicker(liveSearchPing)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			_ = s.conn.SetWriteDeadline(time.Now().Add(liveSearchWriteWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				s.shutdown()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *liveSearchSession) shutdown() {
	s.closed.Do(func() {
		close(s.done)
		s.debouncer.Stop()
		_ = s.conn.Close()
	})
}
