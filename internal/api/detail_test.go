// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marquee-tv/marquee/internal/catalog"
	"github.com/marquee-tv/marquee/internal/config"
	"github.com/marquee-tv/marquee/internal/linkfinder"
)

func movieDetail() *catalog.Detail {
	vote := 8.4
	return &catalog.Detail{
		Item: catalog.Item{
			ID:           5,
			Title:        "Inception",
			Overview:     "A thief who steals corporate secrets.",
			ReleaseDate:  "2010-07-16",
			PosterPath:   "/p.jpg",
			BackdropPath: "/b.jpg",
			VoteAverage:  &vote,
		},
		Tagline: "Your mind is the scene of the crime.",
		Runtime: 148,
		Genres:  []catalog.Genre{{ID: 28, Name: "Action"}},
		Videos: catalog.VideoList{Results: []catalog.Video{
			{Key: "teaser", Site: "YouTube", Type: "Teaser"},
			{Key: "real", Site: "YouTube", Type: "Trailer"},
		}},
		Credits: catalog.Credits{Cast: []catalog.CastMember{
			{Name: "Leonardo DiCaprio", Character: "Cobb", ProfilePath: "/l.jpg"},
		}},
		Similar: catalog.ResultsPage{Results: []catalog.Item{
			{ID: 77, Title: "Interstellar", PosterPath: "/i.jpg", ReleaseDate: "2014-11-07"},
		}},
		WatchProviders: catalog.WatchProviders{Results: map[string]catalog.RegionProviders{
			"US": {
				Link:     "https://catalog.example/watch/5",
				Flatrate: []catalog.Provider{{ProviderName: "Netflix", LogoPath: "/n.jpg"}},
				Rent:     []catalog.Provider{{ProviderName: "Apple TV", LogoPath: "/a.jpg"}},
			},
		}},
	}
}

func detailRequest(method, target, idParam, id string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	parts := strings.Split(idParam, ",")
	values := strings.Split(id, ",")
	for i := range parts {
		rctx.URLParams.Add(parts[i], values[i])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestMovieDetailPage(t *testing.T) {
	source := &fakeSource{movieFn: func(ctx context.Context, id int64) (*catalog.Detail, error) {
		if id != 5 {
			t.Errorf("expected lookup for id 5, got %d", id)
		}
		return movieDetail(), nil
	}}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.MovieDetail(rec, detailRequest(http.MethodGet, "/movie/5", "id", "5"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := rec.Body.String()
	for _, want := range []string{
		"Inception",
		"(2010)",
		"8.4",
		"148 min",
		"Action",
		"https://www.youtube.com/watch?v=real",
		`href="/watch/movie/5"`,
		"Leonardo DiCaprio",
		`href="/movie/77"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected detail page to contain %q", want)
		}
	}
}

func TestDetailInvalidID(t *testing.T) {
	h := newTestHandler(t, &fakeSource{})

	rec := httptest.NewRecorder()
	h.MovieDetail(rec, detailRequest(http.MethodGet, "/movie/abc", "id", "abc"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a non-numeric id, got %d", rec.Code)
	}
}

func TestDetailUpstreamNotFound(t *testing.T) {
	source := &fakeSource{movieFn: func(ctx context.Context, id int64) (*catalog.Detail, error) {
		return nil, &catalog.StatusError{Endpoint: "/api/movie/99", Code: http.StatusNotFound}
	}}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.MovieDetail(rec, detailRequest(http.MethodGet, "/movie/99", "id", "99"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 when upstream has no record, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Title not found") {
		t.Error("expected themed not-found page")
	}
}

func TestDetailUpstreamFailure(t *testing.T) {
	source := &fakeSource{tvFn: func(ctx context.Context, id int64) (*catalog.Detail, error) {
		return nil, &catalog.StatusError{Endpoint: "/api/tv/7", Code: http.StatusBadGateway}
	}}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.TVDetail(rec, detailRequest(http.MethodGet, "/tv/7", "id", "7"))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for an upstream failure, got %d", rec.Code)
	}
}

func TestWatchPage(t *testing.T) {
	source := &fakeSource{movieFn: func(ctx context.Context, id int64) (*catalog.Detail, error) {
		return movieDetail(), nil
	}}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.Watch(rec, detailRequest(http.MethodGet, "/watch/movie/5", "mediaType,id", "movie,5"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := rec.Body.String()
	for _, want := range []string{
		"Netflix",
		"Subscription",
		"Apple TV",
		"Rent",
		"https://www.youtube.com/embed/real",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected watch page to contain %q", want)
		}
	}
}

func TestWatchPrefersSuggestedLinks(t *testing.T) {
	var finderCalls int32
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&finderCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[{\"name\":\"Disney Plus\",\"url\":\"https://www.disneyplus.com/movies/inception\"}]"}}]}`))
	}))
	defer stub.Close()

	finder := linkfinder.New(&config.LinkFinderConfig{
		Enabled: true,
		BaseURL: stub.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
	if finder == nil {
		t.Fatal("expected a finder")
	}

	source := &fakeSource{movieFn: func(ctx context.Context, id int64) (*catalog.Detail, error) {
		return movieDetail(), nil
	}}
	h := newTestHandlerWithFinder(t, source, finder)

	rec := httptest.NewRecorder()
	h.Watch(rec, detailRequest(http.MethodGet, "/watch/movie/5", "mediaType,id", "movie,5"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := atomic.LoadInt32(&finderCalls); got != 1 {
		t.Fatalf("expected one suggestion lookup, got %d", got)
	}
	page := rec.Body.String()
	if !strings.Contains(page, "Disney Plus") {
		t.Error("expected the suggested link to be rendered")
	}
	if strings.Contains(page, "Netflix") {
		t.Error("expected suggested links to replace the catalog providers")
	}
}

func TestWatchFallsBackToCatalogLink(t *testing.T) {
	source := &fakeSource{movieFn: func(ctx context.Context, id int64) (*catalog.Detail, error) {
		detail := movieDetail()
		detail.WatchProviders = catalog.WatchProviders{}
		return detail, nil
	}}
	h := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.Watch(rec, detailRequest(http.MethodGet, "/watch/movie/5", "mediaType,id", "movie,5"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, "https://www.themoviedb.org/movie/5/watch") {
		t.Error("expected a catalog-site link when no providers exist")
	}
	if !strings.Contains(page, "TMDB") {
		t.Error("expected the catalog fallback provider to be named")
	}
}

func TestWatchRejectsUnknownMediaType(t *testing.T) {
	h := newTestHandler(t, &fakeSource{})

	rec := httptest.NewRecorder()
	h.Watch(rec, detailRequest(http.MethodGet, "/watch/person/5", "mediaType,id", "person,5"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown media type, got %d", rec.Code)
	}
}
