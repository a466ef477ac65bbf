// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

// Package render maps catalog items to view models and renders them
// through html/template. Derivation is pure: the same item always yields
// the same view and the same markup. Every interpolated field is escaped
// by the template engine.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marquee-tv/marquee/internal/catalog"
	"github.com/marquee-tv/marquee/internal/config"
)

// notAvailable is the fallback label for missing year and rating values.
const notAvailable = "N/A"

// ItemView is the derived presentation of one catalog item.
type ItemView struct {
	ID          int64
	MediaType   string
	Badge       string
	Title       string
	Year        string
	Rating      string
	Overview    string
	PosterURL   string
	ThumbURL    string
	DetailPath  string
	Placeholder string
}

// HeroView is the derived presentation of the featured item.
type HeroView struct {
	Title       string
	Overview    string
	BackdropURL string
	PlayURL     string
	DetailPath  string
}

// RailView is one content rail ready for rendering.
type RailView struct {
	ID    string
	Title string
	Cards []ItemView
}

// CastView is one cast entry of a detail page.
type CastView struct {
	Name      string
	Character string
	PhotoURL  string
}

// ProviderView is one streaming option of a watch page.
type ProviderView struct {
	Name    string
	LogoURL string
	Link    string
	Price   string
	Quality string
}

// Views derives presentation values from catalog items using the
// configured image host and placeholder.
type Views struct {
	images config.ImagesConfig
}

// NewViews creates a view deriver for the given image configuration.
func NewViews(images config.ImagesConfig) *Views {
	return &Views{images: images}
}

// Item derives the view model for one catalog item.
func (v *Views) Item(item *catalog.Item) ItemView {
	mediaType := item.MediaType()
	return ItemView{
		ID:          item.ID,
		MediaType:   mediaType,
		Badge:       badgeFor(mediaType),
		Title:       DisplayTitle(item),
		Year:        DisplayYear(item.DisplayDate()),
		Rating:      DisplayRating(item.VoteAverage),
		Overview:    item.Overview,
		PosterURL:   v.ImageURL(item.PosterPath, v.images.PosterSize),
		ThumbURL:    v.ImageURL(item.PosterPath, v.images.ThumbSize),
		DetailPath:  fmt.Sprintf("/%s/%d", mediaType, item.ID),
		Placeholder: v.images.Placeholder,
	}
}

// Items derives view models for a list of catalog items, order preserved.
func (v *Views) Items(items []catalog.Item) []ItemView {
	views := make([]ItemView, len(items))
	for i := range items {
		views[i] = v.Item(&items[i])
	}
	return views
}

// Hero derives the hero banner view for the featured item. The play URL is
// the trailer when one was resolved, otherwise the item's detail page.
func (v *Views) Hero(item *catalog.Item, trailer *catalog.Video) HeroView {
	detailPath := fmt.Sprintf("/%s/%d", item.MediaType(), item.ID)
	playURL := detailPath
	if trailer != nil {
		playURL = trailer.WatchURL()
	}
	return HeroView{
		Title:       DisplayTitle(item),
		Overview:    item.Overview,
		BackdropURL: v.ImageURL(item.BackdropPath, v.images.BackdropSize),
		PlayURL:     playURL,
		DetailPath:  detailPath,
	}
}

// Cast derives cast entries, capped at limit.
func (v *Views) Cast(cast []catalog.CastMember, limit int) []CastView {
	if len(cast) > limit {
		cast = cast[:limit]
	}
	views := make([]CastView, len(cast))
	for i, member := range cast {
		views[i] = CastView{
			Name:      member.Name,
			Character: member.Character,
			PhotoURL:  v.ImageURL(member.ProfilePath, v.images.ThumbSize),
		}
	}
	return views
}

// Providers derives streaming options from one provider group, all linking
// to the given watch URL.
func (v *Views) Providers(providers []catalog.Provider, link, price string) []ProviderView {
	views := make([]ProviderView, len(providers))
	for i, p := range providers {
		views[i] = ProviderView{
			Name:    p.ProviderName,
			LogoURL: v.ImageURL(p.LogoPath, v.images.LogoSize),
			Link:    link,
			Price:   price,
			Quality: "HD",
		}
	}
	return views
}

// ImageURL builds an artwork URL from the image host base, a size segment,
// and the relative path the proxy returned. A missing path yields the
// configured placeholder.
func (v *Views) ImageURL(path, size string) string {
	if path == "" {
		return v.images.Placeholder
	}
	return v.images.BaseURL + size + path
}

// DisplayTitle returns the item's title, falling back to its name, then
// to "Untitled".
func DisplayTitle(item *catalog.Item) string {
	if item.Title != "" {
		return item.Title
	}
	if item.Name != "" {
		return item.Name
	}
	return "Untitled"
}

// DisplayYear extracts the year from a YYYY-MM-DD date string.
// Returns "N/A" when the date is absent or does not start with a year.
func DisplayYear(date string) string {
	if len(date) < 4 {
		return notAvailable
	}
	year := date[:4]
	if _, err := strconv.Atoi(year); err != nil {
		return notAvailable
	}
	return year
}

// DisplayRating formats a vote average to one decimal place.
// Returns "N/A" when the vote average is absent.
func DisplayRating(vote *float64) string {
	if vote == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*vote, 'f', 1, 64)
}

// badgeFor returns the uppercase media-type badge label.
func badgeFor(mediaType string) string {
	return strings.ToUpper(mediaType)
}
