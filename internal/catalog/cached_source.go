// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

/*
cached_source.go - Response Caching Layer

Wraps a Source with an in-memory TTL cache for the browse collections
and detail records. Search is never cached: queries are too diverse to
hit, and stale suggestions are worse than a round trip.
*/

package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/marquee-tv/marquee/internal/cache"
)

// CachedSource serves repeated collection and detail reads from
// memory. Errors are never cached.
type CachedSource struct {
	source      Source
	collections *cache.Cache[[]Item]
	details     *cache.Cache[*Detail]
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps source with a TTL cache.
func NewCachedSource(source Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source:      source,
		collections: cache.New[[]Item](ttl),
		details:     cache.New[*Detail](ttl),
	}
}

// Close stops the cache maintenance goroutines.
func (cs *CachedSource) Close() {
	cs.collections.Close()
	cs.details.Close()
}

func (cs *CachedSource) Trending(ctx context.Context, mediaType, window string) ([]Item, error) {
	key := "trending:" + mediaType + ":" + window
	if items, ok := cs.collections.Get(key); ok {
		return items, nil
	}
	items, err := cs.source.Trending(ctx, mediaType, window)
	if err != nil {
		return nil, err
	}
	cs.collections.Set(key, items)
	return items, nil
}

func (cs *CachedSource) PopularMovies(ctx context.Context) ([]Item, error) {
	return cs.collection(ctx, "popular", cs.source.PopularMovies)
}

func (cs *CachedSource) TopRatedMovies(ctx context.Context) ([]Item, error) {
	return cs.collection(ctx, "top_rated", cs.source.TopRatedMovies)
}

// Search always goes upstream.
func (cs *CachedSource) Search(ctx context.Context, query string) ([]Item, error) {
	return cs.source.Search(ctx, query)
}

func (cs *CachedSource) MovieDetails(ctx context.Context, id int64) (*Detail, error) {
	return cs.detail(ctx, MediaTypeMovie, id, cs.source.MovieDetails)
}

func (cs *CachedSource) TVDetails(ctx context.Context, id int64) (*Detail, error) {
	return cs.detail(ctx, MediaTypeTV, id, cs.source.TVDetails)
}

func (cs *CachedSource) collection(ctx context.Context, key string, fetch func(context.Context) ([]Item, error)) ([]Item, error) {
	if items, ok := cs.collections.Get(key); ok {
		return items, nil
	}
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	cs.collections.Set(key, items)
	return items, nil
}

func (cs *CachedSource) detail(ctx context.Context, mediaType string, id int64, fetch func(context.Context, int64) (*Detail, error)) (*Detail, error) {
	key := mediaType + ":" + strconv.FormatInt(id, 10)
	if d, ok := cs.details.Get(key); ok {
		return d, nil
	}
	d, err := fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	cs.details.Set(key, d)
	return d, nil
}
