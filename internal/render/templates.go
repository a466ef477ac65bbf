// Marquee - Movie & TV Discovery Frontend
// Copyright 2026 Marquee contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marquee-tv/marquee

/*
templates.go - Embedded HTML Template Rendering

All markup is produced through html/template so every interpolated
field is escaped by default. Pages execute a named top-level template
("home", "search", "detail", "watch", "error"); the search dropdown
and rail fragments reuse the same parsed set.
*/

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS holds the embedded stylesheet served under /static/.
func StaticFS() embed.FS { return staticFS }

// Renderer executes the embedded template set.
type Renderer struct {
	tmpl  *template.Template
	views *Views
}

// NewRenderer parses the embedded templates. Parse errors are
// programming errors, so they surface at startup.
func NewRenderer(views *Views) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, views: views}, nil
}

// Views returns the view deriver the renderer was built with.
func (r *Renderer) Views() *Views { return r.views }

// HomeData feeds the "home" template.
type HomeData struct {
	Title string
	Hero  *HeroView
	Rails []RailView
}

// SearchPageData feeds the "search" template.
type SearchPageData struct {
	Title   string
	Query   string
	Results []ItemView
}

// DetailData feeds the "detail" template.
type DetailData struct {
	Title       string
	Name        string
	Year        string
	Rating      string
	Tagline     string
	Runtime     int
	Genres      []string
	Overview    string
	PosterURL   string
	BackdropURL string
	TrailerURL  string
	WatchPath   string
	Cast        []CastView
	Similar     *RailView
}

// WatchData feeds the "watch" template.
type WatchData struct {
	Title        string
	Name         string
	Providers    []ProviderView
	TrailerEmbed string
}

// ErrorData feeds the "error" template.
type ErrorData struct {
	Title   string
	Heading string
	Message string
}

func (r *Renderer) Home(w io.Writer, data HomeData) error {
	return r.execute(w, "home", data)
}

func (r *Renderer) SearchPage(w io.Writer, data SearchPageData) error {
	return r.execute(w, "search", data)
}

func (r *Renderer) Detail(w io.Writer, data DetailData) error {
	return r.execute(w, "detail", data)
}

func (r *Renderer) Watch(w io.Writer, data WatchData) error {
	return r.execute(w, "watch", data)
}

func (r *Renderer) Error(w io.Writer, data ErrorData) error {
	return r.execute(w, "error", data)
}

// Rows renders the search dropdown rows as an HTML fragment. It is
// shared by the live-search channel and the fragment endpoint.
func (r *Renderer) Rows(items []ItemView) (string, error) {
	return r.fragment("rows", items)
}

// Message renders a one-line dropdown notice such as "No results".
func (r *Renderer) Message(text string) (string, error) {
	return r.fragment("message", text)
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	// Render to a buffer first so a mid-template failure never leaves
	// a half-written page on the wire.
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
