// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,

			// Generous enough for a fast typist on the search box.
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Catalog: CatalogConfig{
			BaseURL:        "http://localhost:8000",
			Timeout:        10 * time.Second,
			RateLimit:      20,
			RateBurst:      40,
			BreakerEnabled: true,
			CacheTTL:       5 * time.Minute,
		},
		Images: ImagesConfig{
			BaseURL:      "https://image.tmdb.org/t/p/",
			PosterSize:   "w500",
			ThumbSize:    "w92",
			BackdropSize: "original",
			LogoSize:     "w92",
			Placeholder:  "https://via.placeholder.com/500x750?text=No+Image",
		},
		UI: UIConfig{
			RailLimit:        10,
			SuggestionLimit:  5,
			DebounceInterval: 300 * time.Millisecond,
			TrendingWindow:   "day",
		},
		LinkFinder: LinkFinderConfig{
			Enabled: false,
			BaseURL: "https://api.openai.com/v1",
			APIKey:  "",
			Model:   "gpt-3.5-turbo",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting (highest priority)
//
// A .env file in the working directory is folded into the process
// environment before the env layer runs.
func Load() (*Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// MARQUEE_CATALOG_BASE_URL -> catalog.base_url
	envProvider := env.Provider("MARQUEE_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
// The first underscore-separated token selects the section, the remainder
// is the key:
//
//	MARQUEE_SERVER_PORT          -> server.port
//	MARQUEE_CATALOG_BASE_URL     -> catalog.base_url
//	MARQUEE_UI_DEBOUNCE_INTERVAL -> ui.debounce_interval
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "MARQUEE_"))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return section
	}
	return section + "." + rest
}
