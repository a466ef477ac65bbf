// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

/*
linkfinder.go - LLM-Assisted Watch Link Suggestions

Optional enrichment for the watch page: asks a chat-completion API for
official streaming pages of a title. When configured, its suggestions
take precedence over the catalog's own provider list. Disabled unless
an API key is configured; failures only cost the extra links, never
the page.
*/

// Package linkfinder suggests official watch pages for a title via a
// chat-completion API.
package linkfinder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/marquee-tv/marquee/internal/config"
)

// Link is one suggested watch page.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Finder calls a chat-completion endpoint for watch link suggestions.
type Finder struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// New builds a Finder, or returns nil when the feature is disabled.
// Callers treat a nil Finder as "no suggestions".
func New(cfg *config.LinkFinderConfig) *Finder {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Finder{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Suggest returns official watch pages for the given title. The reply
// is requested as a bare JSON array so it can be decoded directly.
func (f *Finder) Suggest(ctx context.Context, title, year, mediaType string) ([]Link, error) {
	prompt := fmt.Sprintf(
		"List official streaming or purchase pages for the %s %q (%s). "+
			"Respond with only a JSON array of objects with \"name\" and \"url\" fields, "+
			"at most 5 entries, no other text.",
		mediaType, title, year,
	)

	payload, err := json.Marshal(chatRequest{
		Model:     f.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 300,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call completion API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var reply chatResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if reply.Error != nil {
		return nil, fmt.Errorf("completion API error: %s", reply.Error.Message)
	}
	if len(reply.Choices) == 0 {
		return nil, fmt.Errorf("completion API returned no choices")
	}

	return parseLinks(reply.Choices[0].Message.Content)
}

// parseLinks decodes the model's reply, tolerating markdown fencing.
func parseLinks(content string) ([]Link, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var links []Link
	if err := json.Unmarshal([]byte(content), &links); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	valid := links[:0]
	for _, l := range links {
		if l.Name == "" || !strings.HasPrefix(l.URL, "https://") {
			continue
		}
		valid = append(valid, l)
	}
	return valid, nil
}
