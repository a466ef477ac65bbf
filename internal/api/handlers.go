// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

/*
handlers.go - Page Handlers

Home, search, detail, and watch pages. Rails degrade silently: a
failed or empty collection is simply not rendered, the page itself
never errors because one upstream call did.
*/

package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marquee-tv/marquee/internal/catalog"
	"github.com/marquee-tv/marquee/internal/config"
	"github.com/marquee-tv/marquee/internal/linkfinder"
	"github.com/marquee-tv/marquee/internal/logging"
	"github.com/marquee-tv/marquee/internal/render"
	"github.com/marquee-tv/marquee/internal/search"
)

const siteTitle = "Marquee"

// Handler serves every page route.
type Handler struct {
	source     catalog.Source
	renderer   *render.Renderer
	dispatcher *search.Dispatcher
	finder     *linkfinder.Finder
	cfg        *config.Config
	startTime  time.Time
}

// NewHandler builds the page handler. finder may be nil.
func NewHandler(source catalog.Source, renderer *render.Renderer, finder *linkfinder.Finder, cfg *config.Config) *Handler {
	return &Handler{
		source:     source,
		renderer:   renderer,
		dispatcher: search.NewDispatcher(source, renderer, cfg.UI.SuggestionLimit),
		finder:     finder,
		cfg:        cfg,
		startTime:  time.Now(),
	}
}

// Home renders the landing page: a hero built from the first trending
// item, then the trending, popular, and top-rated rails. The popular
// and top-rated collections load concurrently once the hero is known.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	trending, err := h.source.Trending(ctx, catalog.MediaTypeMovie, h.cfg.UI.TrendingWindow)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Trending collection unavailable")
		trending = nil
	}

	var hero *render.HeroView
	if len(trending) > 0 {
		hv := h.buildHero(r, &trending[0])
		hero = &hv
	}

	var wg sync.WaitGroup
	var popular, topRated []catalog.Item

	wg.Add(2)
	go func() {
		defer wg.Done()
		items, err := h.source.PopularMovies(ctx)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Popular collection unavailable")
			return
		}
		popular = items
	}()
	go func() {
		defer wg.Done()
		items, err := h.source.TopRatedMovies(ctx)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Top-rated collection unavailable")
			return
		}
		topRated = items
	}()
	wg.Wait()

	var rails []render.RailView
	for _, rail := range []struct {
		id    string
		title string
		items []catalog.Item
	}{
		{"trending", "Trending Now", trending},
		{"popular", "Popular Movies", popular},
		{"top-rated", "Top Rated Movies", topRated},
	} {
		if len(rail.items) == 0 {
			continue
		}
		rails = append(rails, render.RailView{
			ID:    rail.id,
			Title: rail.title,
			Cards: h.renderer.Views().Items(h.capRail(rail.items)),
		})
	}

	h.renderPage(w, r, func() error {
		return h.renderer.Home(w, render.HomeData{Title: siteTitle, Hero: hero, Rails: rails})
	})
}

// buildHero resolves the hero view for the first trending item,
// including a best-effort trailer lookup. A failed detail fetch only
// costs the play-trailer action.
func (h *Handler) buildHero(r *http.Request, item *catalog.Item) render.HeroView {
	ctx := r.Context()

	var trailer *catalog.Video
	var detail *catalog.Detail
	var err error
	if item.MediaType() == catalog.MediaTypeMovie {
		detail, err = h.source.MovieDetails(ctx, item.ID)
	} else {
		detail, err = h.source.TVDetails(ctx, item.ID)
	}
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Int64("id", item.ID).Msg("Hero trailer lookup failed")
	} else if detail != nil {
		trailer = detail.Trailer()
	}

	return h.renderer.Views().Hero(item, trailer)
}

// SearchPage renders the full-page search results for ?q=.
func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request) {
	query := trimmedQuery(r)
	if query == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	items, err := h.source.Search(r.Context(), query)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("query", query).Msg("Search failed")
		h.errorPage(w, r, http.StatusBadGateway, "Search unavailable",
			"The catalog is not responding right now. Try again in a moment.")
		return
	}

	filtered := search.Filter(items, len(items))
	h.renderPage(w, r, func() error {
		return h.renderer.SearchPage(w, render.SearchPageData{
			Title:   query + " - " + siteTitle,
			Query:   query,
			Results: h.renderer.Views().Items(filtered),
		})
	})
}

// SearchFragment renders the dropdown rows for ?q= as a bare HTML
// fragment; a blank query returns 204 with no upstream request. This
// is the HTTP fallback for clients without the websocket.
func (h *Handler) SearchFragment(w http.ResponseWriter, r *http.Request) {
	query := trimmedQuery(r)
	if query == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	outcome, ok := h.dispatcher.Dispatch(r.Context(), query)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(outcome.HTML))
}

// MovieDetail renders the detail page for /movie/{id}.
func (h *Handler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, catalog.MediaTypeMovie)
}

// TVDetail renders the detail page for /tv/{id}.
func (h *Handler) TVDetail(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, catalog.MediaTypeTV)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request, mediaType string) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.fetchDetail(r, mediaType, id)
	if err != nil {
		h.upstreamErrorPage(w, r, err)
		return
	}

	views := h.renderer.Views()
	name := render.DisplayTitle(&detail.Item)

	var trailerURL string
	if trailer := detail.Trailer(); trailer != nil {
		trailerURL = trailer.WatchURL()
	}

	genres := make([]string, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genres = append(genres, g.Name)
	}

	var similar *render.RailView
	if items := detail.SimilarItems(); len(items) > 0 {
		similar = &render.RailView{
			ID:    "similar",
			Title: "More Like This",
			Cards: views.Items(h.capRail(items)),
		}
	}

	h.renderPage(w, r, func() error {
		return h.renderer.Detail(w, render.DetailData{
			Title:       name + " - " + siteTitle,
			Name:        name,
			Year:        render.DisplayYear(detail.DisplayDate()),
			Rating:      render.DisplayRating(detail.VoteAverage),
			Tagline:     detail.Tagline,
			Runtime:     detail.Runtime,
			Genres:      genres,
			Overview:    detail.Overview,
			PosterURL:   views.ImageURL(detail.PosterPath, h.cfg.Images.PosterSize),
			BackdropURL: views.ImageURL(detail.BackdropPath, h.cfg.Images.BackdropSize),
			TrailerURL:  trailerURL,
			WatchPath:   "/watch/" + mediaType + "/" + strconv.FormatInt(id, 10),
			Cast:        views.Cast(detail.Credits.Cast, 12),
			Similar:     similar,
		})
	})
}

// Watch renders the where-to-watch page. Suggested official links are
// tried first when the finder is configured, then the catalog's
// provider list, then a bare catalog-site link so the page always
// offers at least one way to watch.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	mediaType := chi.URLParam(r, "mediaType")
	if mediaType != catalog.MediaTypeMovie && mediaType != catalog.MediaTypeTV {
		h.NotFound(w, r)
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.fetchDetail(r, mediaType, id)
	if err != nil {
		h.upstreamErrorPage(w, r, err)
		return
	}

	views := h.renderer.Views()
	name := render.DisplayTitle(&detail.Item)
	catalogURL := "https://www.themoviedb.org/" + mediaType + "/" + strconv.FormatInt(id, 10) + "/watch"

	// Suggested official links take precedence; the catalog's provider
	// list is the fallback, and a bare catalog link the last resort.
	var providers []render.ProviderView
	if h.finder != nil {
		links, err := h.finder.Suggest(r.Context(), name, render.DisplayYear(detail.DisplayDate()), mediaType)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Link suggestions unavailable")
		}
		for _, l := range links {
			providers = append(providers, render.ProviderView{
				Name:    l.Name,
				LogoURL: h.cfg.Images.Placeholder,
				Link:    l.URL,
				Price:   "See provider",
				Quality: "HD",
			})
		}
	}

	if len(providers) == 0 {
		if region, ok := regionProviders(detail.WatchProviders); ok {
			providers = append(providers, views.Providers(region.Flatrate, region.Link, "Subscription")...)
			providers = append(providers, views.Providers(region.Rent, region.Link, "Rent")...)
			providers = append(providers, views.Providers(region.Buy, region.Link, "Buy")...)
		}
	}

	if len(providers) == 0 {
		providers = append(providers, render.ProviderView{
			Name:    "TMDB",
			LogoURL: views.ImageURL("/9A1JSVmSxsyaBK4SUFsYVFqbTWf.png", h.cfg.Images.LogoSize),
			Link:    catalogURL,
			Price:   "Check availability",
			Quality: "HD",
		})
	}

	var embed string
	if trailer := detail.Trailer(); trailer != nil {
		embed = trailer.EmbedURL()
	}

	h.renderPage(w, r, func() error {
		return h.renderer.Watch(w, render.WatchData{
			Title:        "Watch " + name + " - " + siteTitle,
			Name:         name,
			Providers:    providers,
			TrailerEmbed: embed,
		})
	})
}

// NotFound renders the themed 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusNotFound, "Page not found",
		"The page you are looking for does not exist.")
}

func (h *Handler) fetchDetail(r *http.Request, mediaType string, id int64) (*catalog.Detail, error) {
	if mediaType == catalog.MediaTypeMovie {
		return h.source.MovieDetails(r.Context(), id)
	}
	return h.source.TVDetails(r.Context(), id)
}

// pathID parses the {id} route parameter, rendering a 404 page for
// anything that is not a positive integer.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func (h *Handler) upstreamErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *catalog.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Title not found upstream")
		h.errorPage(w, r, http.StatusNotFound, "Title not found",
			"That title is not in the catalog.")
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).Msg("Catalog request failed")
	h.errorPage(w, r, http.StatusBadGateway, "Catalog unavailable",
		"The catalog is not responding right now. Try again in a moment.")
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := h.renderer.Error(w, render.ErrorData{
		Title:   heading + " - " + siteTitle,
		Heading: heading,
		Message: message,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render error page")
	}
}

// renderPage executes a page render and maps a render failure to a
// plain 500. The renderer buffers internally, so nothing has been
// written when fn fails.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, fn func() error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := fn(); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Page render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) capRail(items []catalog.Item) []catalog.Item {
	if len(items) > h.cfg.UI.RailLimit {
		return items[:h.cfg.UI.RailLimit]
	}
	return items
}

// regionProviders picks the viewer's provider region: US when present,
// otherwise the lexicographically first region so the page is stable.
func regionProviders(wp catalog.WatchProviders) (catalog.RegionProviders, bool) {
	if len(wp.Results) == 0 {
		return catalog.RegionProviders{}, false
	}
	if region, ok := wp.Results["US"]; ok {
		return region, true
	}
	keys := make([]string, 0, len(wp.Results))
	for k := range wp.Results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return wp.Results[keys[0]], true
}

func trimmedQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("q"))
}
