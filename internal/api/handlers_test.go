// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/marquee-tv/marquee/internal/catalog"
)

func catalogItems(n int) []catalog.Item {
	items := make([]catalog.Item, n)
	for i := range items {
		items[i] = catalog.Item{
			ID:          int64(i + 1),
			Title:       "Movie",
			ReleaseDate: "2020-01-01",
			PosterPath:  "/p.jpg",
		}
	}
	return items
}

func TestHomeRendersHeroAndRails(t *testing.T) {
	vote := 8.2
	source := &fakeSource{
		trendingFn: func(ctx context.Context, mediaType, window string) ([]catalog.Item, error) {
			if window != "day" {
				t.Errorf("expected configured trending window, got %q", window)
			}
			return []catalog.Item{
				{ID: 5, Title: "Inception", ReleaseDate: "2010-07-16", PosterPath: "/p.jpg", BackdropPath: "/b.jpg", VoteAverage: &vote},
			}, nil
		},
		popularFn: func(ctx context.Context) ([]catalog.Item, error) {
			return catalogItems(3), nil
		},
		movieFn: func(ctx context.Context, id int64) (*catalog.Detail, error) {
			return &catalog.Detail{
				Videos: catalog.VideoList{Results: []catalog.Video{
					{Key: "abc", Site: "YouTube", Type: "Trailer"},
				}},
			}, nil
		},
	}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := rec.Body.String()
	for _, want := range []string{
		"Inception",
		"https://www.youtube.com/watch?v=abc",
		"Trending Now",
		"Popular Movies",
		`href="/movie/5"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected home page to contain %q", want)
		}
	}
	if strings.Contains(page, "Top Rated Movies") {
		t.Error("expected the empty top-rated rail to be omitted")
	}
}

func TestHomeTrendingRequestsMovies(t *testing.T) {
	var gotMediaType string
	source := &fakeSource{
		trendingFn: func(ctx context.Context, mediaType, window string) ([]catalog.Item, error) {
			gotMediaType = mediaType
			return nil, nil
		},
	}
	h := newTestHandler(t, source)

	h.Home(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if gotMediaType != catalog.MediaTypeMovie {
		t.Errorf("expected the hero fetch to request trending movies, got %q", gotMediaType)
	}
}

func TestHomeCapsRails(t *testing.T) {
	source := &fakeSource{
		popularFn: func(ctx context.Context) ([]catalog.Item, error) {
			return catalogItems(25), nil
		},
	}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Count(rec.Body.String(), `class="card"`); got != 10 {
		t.Errorf("expected rail capped at 10 cards, got %d", got)
	}
}

func TestHomeSurvivesUpstreamFailure(t *testing.T) {
	source := &fakeSource{
		trendingFn: func(ctx context.Context, mediaType, window string) ([]catalog.Item, error) {
			return nil, errors.New("proxy down")
		},
		popularFn: func(ctx context.Context) ([]catalog.Item, error) {
			return nil, errors.New("proxy down")
		},
		topRatedFn: func(ctx context.Context) ([]catalog.Item, error) {
			return nil, errors.New("proxy down")
		},
	}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded home to render 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hero-title") {
		t.Error("expected no hero without trending data")
	}
}

func TestHomeSkipsTrailerLookupFailure(t *testing.T) {
	source := &fakeSource{
		trendingFn: func(ctx context.Context, mediaType, window string) ([]catalog.Item, error) {
			return []catalog.Item{{ID: 9, Title: "Dune", BackdropPath: "/d.jpg", PosterPath: "/p.jpg"}}, nil
		},
		movieFn: func(ctx context.Context, id int64) (*catalog.Detail, error) {
			return nil, errors.New("detail unavailable")
		},
	}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Hero still renders, the play action falls back to the detail page.
	if !strings.Contains(rec.Body.String(), `href="/movie/9"`) {
		t.Error("expected hero play fallback link")
	}
}

func TestSearchPageRedirectsBlankQuery(t *testing.T) {
	var calls atomic.Int32
	source := &fakeSource{searchFn: func(ctx context.Context, query string) ([]catalog.Item, error) {
		calls.Add(1)
		return nil, nil
	}}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.SearchPage(rec, httptest.NewRequest(http.MethodGet, "/search?q=++", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected redirect for blank query, got %d", rec.Code)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no upstream search for blank query, got %d", calls.Load())
	}
}

func TestSearchPageRendersResults(t *testing.T) {
	source := &fakeSource{searchFn: func(ctx context.Context, query string) ([]catalog.Item, error) {
		return []catalog.Item{
			{ID: 5, MediaTypeRaw: "movie", Title: "Inception", PosterPath: "/p.jpg"},
			{ID: 7, MediaTypeRaw: "person", Name: "Somebody"},
		}, nil
	}}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.SearchPage(rec, httptest.NewRequest(http.MethodGet, "/search?q=inception", nil))

	page := rec.Body.String()
	if !strings.Contains(page, `href="/movie/5"`) {
		t.Error("expected result card linking to the movie detail page")
	}
	if strings.Contains(page, "Somebody") {
		t.Error("expected person results to be filtered from the page")
	}
}

func TestSearchFragmentBlankQuery(t *testing.T) {
	var calls atomic.Int32
	source := &fakeSource{searchFn: func(ctx context.Context, query string) ([]catalog.Item, error) {
		calls.Add(1)
		return nil, nil
	}}
	h := newTestHandler(t, source)

	for _, target := range []string{"/fragments/search", "/fragments/search?q=%20%20"} {
		rec := httptest.NewRecorder()
		h.SearchFragment(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204 for %q, got %d", target, rec.Code)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("expected no upstream search calls, got %d", calls.Load())
	}
}

func TestSearchFragmentRendersRows(t *testing.T) {
	source := &fakeSource{searchFn: func(ctx context.Context, query string) ([]catalog.Item, error) {
		return []catalog.Item{{ID: 3, MediaTypeRaw: "tv", Name: "Dark", PosterPath: "/d.jpg"}}, nil
	}}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.SearchFragment(rec, httptest.NewRequest(http.MethodGet, "/fragments/search?q=dark", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `href="/tv/3"`) {
		t.Errorf("expected a dropdown row, got %q", rec.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	h := newTestHandler(t, &fakeSource{})
	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected ready, got %d", rec.Code)
	}

	degraded := newTestHandler(t, &fakeSource{
		trendingFn: func(ctx context.Context, mediaType, window string) ([]catalog.Item, error) {
			return nil, errors.New("proxy down")
		},
	})
	rec = httptest.NewRecorder()
	degraded.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when the catalog is down, got %d", rec.Code)
	}
}
