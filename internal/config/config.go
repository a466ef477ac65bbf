// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

// Package config defines Marquee's configuration model and its layered
// loader (defaults, optional YAML file, environment variables).
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the Marquee server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Images     ImagesConfig     `koanf:"images"`
	UI         UIConfig         `koanf:"ui"`
	LinkFinder LinkFinderConfig `koanf:"linkfinder"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitRequests caps per-client requests to the search
	// endpoints within RateLimitWindow. Zero disables the limiter.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// CatalogConfig holds settings for the backend catalog proxy.
type CatalogConfig struct {
	// BaseURL is the root of the backend proxy, e.g. http://localhost:8000.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds a single upstream request.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the outbound request budget in requests per second.
	// Zero disables outbound rate limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the token bucket burst size.
	RateBurst int `koanf:"rate_burst"`

	// BreakerEnabled wraps the client in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`

	// CacheTTL is how long browse collections and detail records are
	// served from memory. Zero disables response caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// ImagesConfig holds artwork URL construction settings.
type ImagesConfig struct {
	// BaseURL is the image host root, e.g. https://image.tmdb.org/t/p/.
	BaseURL string `koanf:"base_url"`

	// PosterSize is the size segment for rail cards.
	PosterSize string `koanf:"poster_size"`

	// ThumbSize is the size segment for search suggestion rows.
	ThumbSize string `koanf:"thumb_size"`

	// BackdropSize is the size segment for the hero backdrop.
	BackdropSize string `koanf:"backdrop_size"`

	// LogoSize is the size segment for watch-provider logos.
	LogoSize string `koanf:"logo_size"`

	// Placeholder substitutes for missing artwork paths.
	Placeholder string `koanf:"placeholder"`
}

// UIConfig holds presentation limits and timings.
type UIConfig struct {
	// RailLimit caps each content rail.
	RailLimit int `koanf:"rail_limit"`

	// SuggestionLimit caps the live search dropdown.
	SuggestionLimit int `koanf:"suggestion_limit"`

	// DebounceInterval is the quiet period before a live search fires.
	DebounceInterval time.Duration `koanf:"debounce_interval"`

	// TrendingWindow is the trending time window (day or week).
	TrendingWindow string `koanf:"trending_window"`
}

// LinkFinderConfig holds settings for the optional AI streaming-link finder.
type LinkFinderConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if _, err := url.Parse(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url invalid: %w", err)
	}
	if c.UI.RailLimit <= 0 {
		return fmt.Errorf("ui.rail_limit must be positive")
	}
	if c.UI.SuggestionLimit <= 0 {
		return fmt.Errorf("ui.suggestion_limit must be positive")
	}
	if c.UI.TrendingWindow != "day" && c.UI.TrendingWindow != "week" {
		return fmt.Errorf("ui.trending_window must be day or week, got %q", c.UI.TrendingWindow)
	}
	if c.LinkFinder.Enabled && c.LinkFinder.APIKey == "" {
		return fmt.Errorf("linkfinder.api_key is required when linkfinder is enabled")
	}
	return nil
}
