// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/marquee-tv/marquee/internal/logging"
	"github.com/marquee-tv/marquee/internal/metrics"
)

// BreakerClient wraps a Client with a circuit breaker so a down or slow
// proxy sheds load fast instead of stacking up timed-out page renders.
//
// The breaker uses real time for its interval and timeout calculations.
// Tests should exercise the wrapped Client directly.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// Ensure BreakerClient implements Source
var _ Source = (*BreakerClient)(nil)

// NewBreakerClient creates a catalog client with circuit breaker protection.
//
// Breaker configuration:
//   - max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 30 second timeout before attempting recovery
//   - opens after 60% failure rate with minimum 10 requests
func NewBreakerClient(client *Client) *BreakerClient {
	const cbName = "catalog-proxy"

	metrics.BreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("catalog circuit breaker opening")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("catalog circuit breaker state transition")
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.BreakerTransition(name, stateToString(from), stateToString(to))
		},
	})

	return &BreakerClient{client: client, cb: cb, name: cbName}
}

// execute wraps one proxy call with circuit breaker protection.
func (bc *BreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := bc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.BreakerRequests.WithLabelValues(bc.name, "rejected").Inc()
		} else {
			metrics.BreakerRequests.WithLabelValues(bc.name, "failure").Inc()
		}
		return nil, err
	}
	metrics.BreakerRequests.WithLabelValues(bc.name, "success").Inc()
	return result, nil
}

// Trending implements Source.
func (bc *BreakerClient) Trending(ctx context.Context, mediaType, window string) ([]Item, error) {
	result, err := bc.execute(func() (any, error) {
		return bc.client.Trending(ctx, mediaType, window)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Item), nil
}

// PopularMovies implements Source.
func (bc *BreakerClient) PopularMovies(ctx context.Context) ([]Item, error) {
	result, err := bc.execute(func() (any, error) {
		return bc.client.PopularMovies(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Item), nil
}

// TopRatedMovies implements Source.
func (bc *BreakerClient) TopRatedMovies(ctx context.Context) ([]Item, error) {
	result, err := bc.execute(func() (any, error) {
		return bc.client.TopRatedMovies(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Item), nil
}

// Search implements Source.
func (bc *BreakerClient) Search(ctx context.Context, query string) ([]Item, error) {
	result, err := bc.execute(func() (any, error) {
		return bc.client.Search(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Item), nil
}

// MovieDetails implements Source.
func (bc *BreakerClient) MovieDetails(ctx context.Context, id int64) (*Detail, error) {
	result, err := bc.execute(func() (any, error) {
		return bc.client.MovieDetails(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Detail), nil
}

// TVDetails implements Source.
func (bc *BreakerClient) TVDetails(ctx context.Context, id int64) (*Detail, error) {
	result, err := bc.execute(func() (any, error) {
		return bc.client.TVDetails(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Detail), nil
}

// stateToString converts a gobreaker state to a label value.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a gobreaker state to its gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
