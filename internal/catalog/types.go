// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

// Package catalog provides the data model and HTTP client for the backend
// catalog proxy, which fronts a third-party media catalog API.
package catalog

// MediaTypeMovie and MediaTypeTV are the two media types Marquee renders.
// The proxy sometimes omits media_type; see Item.MediaType.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Item is one movie or show record as returned by the proxy. Items are
// transient: they exist for the rendering call that consumed them and
// carry no identity beyond the upstream integer ID.
type Item struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title,omitempty"`
	Name         string   `json:"name,omitempty"`
	Overview     string   `json:"overview,omitempty"`
	ReleaseDate  string   `json:"release_date,omitempty"`
	FirstAirDate string   `json:"first_air_date,omitempty"`
	PosterPath   string   `json:"poster_path,omitempty"`
	BackdropPath string   `json:"backdrop_path,omitempty"`
	VoteAverage  *float64 `json:"vote_average,omitempty"`
	MediaTypeRaw string   `json:"media_type,omitempty"`
}

// MediaType returns the item's explicit media type when the proxy supplied
// one, otherwise infers it: an item with a title field is a movie, anything
// else is a show. The inference intentionally misclassifies items carrying
// both or neither field; detail-page links depend on this exact behavior.
func (i *Item) MediaType() string {
	switch i.MediaTypeRaw {
	case MediaTypeMovie, MediaTypeTV:
		return i.MediaTypeRaw
	}
	if i.Title != "" {
		return MediaTypeMovie
	}
	return MediaTypeTV
}

// DisplayDate returns the release date for movies or the first air date for
// shows, whichever is present.
func (i *Item) DisplayDate() string {
	if i.ReleaseDate != "" {
		return i.ReleaseDate
	}
	return i.FirstAirDate
}

// HasArtwork reports whether the item carries at least one of poster path
// or backdrop path. Search suggestions drop items without artwork.
func (i *Item) HasArtwork() bool {
	return i.PosterPath != "" || i.BackdropPath != ""
}

// ResultsPage is the envelope the proxy wraps list responses in.
type ResultsPage struct {
	Results []Item `json:"results"`
}

// Video is one entry of a detail response's video list.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// VideoList wraps the nested videos envelope of a detail response.
type VideoList struct {
	Results []Video `json:"results"`
}

// CastMember is one cast credit of a detail response.
type CastMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// Credits holds the cast of a detail response.
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// Genre is one genre tag of a detail response.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Provider is one watch provider (streaming platform) entry.
type Provider struct {
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path,omitempty"`
}

// RegionProviders groups the watch providers available in one region.
type RegionProviders struct {
	Link     string     `json:"link,omitempty"`
	Flatrate []Provider `json:"flatrate,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Buy      []Provider `json:"buy,omitempty"`
}

// WatchProviders wraps the per-region watch provider map.
type WatchProviders struct {
	Results map[string]RegionProviders `json:"results"`
}

// Detail is the full detail response for one movie or show, including the
// appended videos, credits, similar items, and watch providers.
type Detail struct {
	Item

	Tagline        string         `json:"tagline,omitempty"`
	Runtime        int            `json:"runtime,omitempty"`
	Genres         []Genre        `json:"genres,omitempty"`
	Videos         VideoList      `json:"videos"`
	Credits        Credits        `json:"credits"`
	Similar        ResultsPage    `json:"similar"`
	WatchProviders WatchProviders `json:"watch/providers"`
}

// SimilarItems returns the similar-items list of the detail response.
func (d *Detail) SimilarItems() []Item {
	return d.Similar.Results
}

// Trailer scans the detail's video list for the first entry with type
// "Trailer" hosted on YouTube. Returns nil when none exists.
func (d *Detail) Trailer() *Video {
	for i := range d.Videos.Results {
		v := &d.Videos.Results[i]
		if v.Type == "Trailer" && v.Site == "YouTube" {
			return v
		}
	}
	return nil
}

// WatchURL returns a playable URL for the given video.
func (v *Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.Key
}

// EmbedURL returns an embeddable player URL for the given video.
func (v *Video) EmbedURL() string {
	return "https://www.youtube.com/embed/" + v.Key
}
