// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

/*
client.go - Catalog Proxy REST Client

This file implements the HTTP client for the backend catalog proxy.
All list endpoints return a JSON body with a "results" array; the detail
endpoints return a single object with appended videos, credits, similar
items, and watch providers.

Endpoints consumed:

	GET /api/trending?media_type={t}&time_window={w}
	GET /api/movies/popular
	GET /api/movies/top_rated
	GET /api/search?query={q}
	GET /api/movie/{id}
	GET /api/tv/{id}
*/
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/marquee-tv/marquee/internal/config"
	"github.com/marquee-tv/marquee/internal/metrics"
)

// Source defines the catalog operations the rest of Marquee consumes.
// Both Client and BreakerClient implement this interface.
type Source interface {
	Trending(ctx context.Context, mediaType, window string) ([]Item, error)
	PopularMovies(ctx context.Context) ([]Item, error)
	TopRatedMovies(ctx context.Context) ([]Item, error)
	Search(ctx context.Context, query string) ([]Item, error)
	MovieDetails(ctx context.Context, id int64) (*Detail, error)
	TVDetails(ctx context.Context, id int64) (*Detail, error)
}

// Ensure Client implements Source
var _ Source = (*Client)(nil)

// StatusError reports a non-2xx response from the proxy.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Client provides access to the backend catalog proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new catalog proxy client.
//
// The base URL is normalized (trailing slash removed). Requests are bounded
// by the configured timeout and, when a positive rate limit is configured,
// throttled with a token bucket so rapid page loads cannot hammer the proxy.
func NewClient(cfg *config.CatalogConfig) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
	}
}

// Trending retrieves the trending collection for the given media type and
// time window (day or week).
func (c *Client) Trending(ctx context.Context, mediaType, window string) ([]Item, error) {
	q := url.Values{}
	q.Set("media_type", mediaType)
	q.Set("time_window", window)
	return c.getResults(ctx, "/api/trending", q)
}

// PopularMovies retrieves the popular movies collection.
func (c *Client) PopularMovies(ctx context.Context) ([]Item, error) {
	return c.getResults(ctx, "/api/movies/popular", nil)
}

// TopRatedMovies retrieves the top-rated movies collection.
func (c *Client) TopRatedMovies(ctx context.Context) ([]Item, error) {
	return c.getResults(ctx, "/api/movies/top_rated", nil)
}

// Search queries the proxy's search endpoint. The query is percent-encoded
// by url.Values; callers pass raw user text.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	q := url.Values{}
	q.Set("query", query)
	return c.getResults(ctx, "/api/search", q)
}

// MovieDetails retrieves the full detail record for one movie, including
// videos, credits, similar items, and watch providers.
func (c *Client) MovieDetails(ctx context.Context, id int64) (*Detail, error) {
	return c.getDetail(ctx, fmt.Sprintf("/api/movie/%d", id))
}

// TVDetails retrieves the full detail record for one show.
func (c *Client) TVDetails(ctx context.Context, id int64) (*Detail, error) {
	return c.getDetail(ctx, fmt.Sprintf("/api/tv/%d", id))
}

// getResults fetches one list endpoint and unwraps its results envelope.
func (c *Client) getResults(ctx context.Context, endpoint string, query url.Values) ([]Item, error) {
	body, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	var page ResultsPage
	if err := json.NewDecoder(body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s response: %w", endpoint, err)
	}
	return page.Results, nil
}

// getDetail fetches one detail endpoint.
func (c *Client) getDetail(ctx context.Context, endpoint string) (*Detail, error) {
	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	var detail Detail
	if err := json.NewDecoder(body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s response: %w", endpoint, err)
	}
	return &detail, nil
}

// get performs a rate-limited, instrumented GET against the proxy and
// returns the response body on 2xx. The caller owns closing the body.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("catalog rate limiter: %w", err)
		}
	}

	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", time.Since(start))
		return nil, fmt.Errorf("catalog %s request failed: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordUpstreamRequest(endpoint, "status_error", time.Since(start))
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		if readErr != nil {
			body = nil
		}
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: string(body)}
	}

	metrics.RecordUpstreamRequest(endpoint, "success", time.Since(start))
	return resp.Body, nil
}
