// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

package api

import (
	"context"
	"testing"
	"time"

	"github.com/marquee-tv/marquee/internal/catalog"
	"github.com/marquee-tv/marquee/internal/config"
	"github.com/marquee-tv/marquee/internal/linkfinder"
	"github.com/marquee-tv/marquee/internal/render"
)

// fakeSource implements catalog.Source with pluggable behavior per
// method; unset methods return empty results.
type fakeSource struct {
	trendingFn func(ctx context.Context, mediaType, window string) ([]catalog.Item, error)
	popularFn  func(ctx context.Context) ([]catalog.Item, error)
	topRatedFn func(ctx context.Context) ([]catalog.Item, error)
	searchFn   func(ctx context.Context, query string) ([]catalog.Item, error)
	movieFn    func(ctx context.Context, id int64) (*catalog.Detail, error)
	tvFn       func(ctx context.Context, id int64) (*catalog.Detail, error)
}

var _ catalog.Source = (*fakeSource)(nil)

func (f *fakeSource) Trending(ctx context.Context, mediaType, window string) ([]catalog.Item, error) {
	if f.trendingFn != nil {
		return f.trendingFn(ctx, mediaType, window)
	}
	return nil, nil
}

func (f *fakeSource) PopularMovies(ctx context.Context) ([]catalog.Item, error) {
	if f.popularFn != nil {
		return f.popularFn(ctx)
	}
	return nil, nil
}

func (f *fakeSource) TopRatedMovies(ctx context.Context) ([]catalog.Item, error) {
	if f.topRatedFn != nil {
		return f.topRatedFn(ctx)
	}
	return nil, nil
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]catalog.Item, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, query)
	}
	return nil, nil
}

func (f *fakeSource) MovieDetails(ctx context.Context, id int64) (*catalog.Detail, error) {
	if f.movieFn != nil {
		return f.movieFn(ctx, id)
	}
	return &catalog.Detail{}, nil
}

func (f *fakeSource) TVDetails(ctx context.Context, id int64) (*catalog.Detail, error) {
	if f.tvFn != nil {
		return f.tvFn(ctx, id)
	}
	return &catalog.Detail{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Images: config.ImagesConfig{
			BaseURL:      "https://image.tmdb.org/t/p/",
			PosterSize:   "w500",
			ThumbSize:    "w92",
			BackdropSize: "original",
			LogoSize:     "w92",
			Placeholder:  "/static/placeholder.svg",
		},
		UI: config.UIConfig{
			RailLimit:        10,
			SuggestionLimit:  5,
			DebounceInterval: 20 * time.Millisecond,
			TrendingWindow:   "day",
		},
	}
}

func newTestHandler(t *testing.T, source catalog.Source) *Handler {
	return newTestHandlerWithFinder(t, source, nil)
}

func newTestHandlerWithFinder(t *testing.T, source catalog.Source, finder *linkfinder.Finder) *Handler {
	t.Helper()
	cfg := testConfig()
	renderer, err := render.NewRenderer(render.NewViews(cfg.Images))
	if err != nil {
		t.Fatalf("expected templates to parse, got %v", err)
	}
	return NewHandler(source, renderer, finder, cfg)
}
