// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

package config

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.UI.RailLimit != 10 {
		t.Errorf("default rail limit = %d, want 10", cfg.UI.RailLimit)
	}
	if cfg.UI.SuggestionLimit != 5 {
		t.Errorf("default suggestion limit = %d, want 5", cfg.UI.SuggestionLimit)
	}
	if cfg.UI.DebounceInterval != 300*time.Millisecond {
		t.Errorf("default debounce = %v, want 300ms", cfg.UI.DebounceInterval)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"empty catalog base url", func(c *Config) { c.Catalog.BaseURL = "" }},
		{"zero rail limit", func(c *Config) { c.UI.RailLimit = 0 }},
		{"zero suggestion limit", func(c *Config) { c.UI.SuggestionLimit = 0 }},
		{"bad trending window", func(c *Config) { c.UI.TrendingWindow = "month" }},
		{"linkfinder without key", func(c *Config) { c.LinkFinder.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MARQUEE_SERVER_PORT", "9090")
	t.Setenv("MARQUEE_CATALOG_BASE_URL", "http://proxy.internal:8000")
	t.Setenv("MARQUEE_UI_TRENDING_WINDOW", "week")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Catalog.BaseURL != "http://proxy.internal:8000" {
		t.Errorf("base url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.UI.TrendingWindow != "week" {
		t.Errorf("trending window = %q, want week", cfg.UI.TrendingWindow)
	}
	// Untouched settings keep their defaults.
	if cfg.Images.PosterSize != "w500" {
		t.Errorf("poster size = %q, want w500", cfg.Images.PosterSize)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MARQUEE_SERVER_PORT", "server.port"},
		{"MARQUEE_CATALOG_BASE_URL", "catalog.base_url"},
		{"MARQUEE_UI_DEBOUNCE_INTERVAL", "ui.debounce_interval"},
		{"MARQUEE_LOGGING_LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
