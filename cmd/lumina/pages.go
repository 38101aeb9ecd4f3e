package main

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/atelier"
	"github.com/spetersoncode/lumina/gallery"
)

//go:embed web/*.html
var webFS embed.FS

// Pages renders the server-side views. Rendering a page also makes it the
// active view.
type Pages struct {
	app    *gallery.App
	logger *slog.Logger
	tmpl   map[lumina.ViewState]*template.Template
}

var pageFiles = map[lumina.ViewState]string{
	lumina.ViewGallery: "web/gallery.html",
	lumina.ViewAtelier: "web/atelier.html",
	lumina.ViewAbout:   "web/about.html",
}

var funcs = template.FuncMap{"imageURL": imageURL}

// imageURL marks artwork and preview URLs as safe for src attributes.
// Only http(s) URLs and image data URIs pass; anything else is blanked.
func imageURL(u string) template.URL {
	switch {
	case strings.HasPrefix(u, "https://"), strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "data:image/"):
		return template.URL(u)
	default:
		return ""
	}
}

// NewPages parses the embedded templates.
func NewPages(app *gallery.App, logger *slog.Logger) (*Pages, error) {
	p := &Pages{app: app, logger: logger, tmpl: make(map[lumina.ViewState]*template.Template)}
	for view, file := range pageFiles {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(webFS, "web/layout.html", file)
		if err != nil {
			return nil, err
		}
		p.tmpl[view] = t
	}
	return p, nil
}

// Register adds the page routes to mux.
func (p *Pages) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", p.render(lumina.ViewGallery))
	mux.HandleFunc("GET /atelier", p.render(lumina.ViewAtelier))
	mux.HandleFunc("GET /about", p.render(lumina.ViewAbout))
}

type navItem struct {
	View   lumina.ViewState
	Label  string
	Path   string
	Active bool
}

type pageData struct {
	Nav       []navItem
	Artworks  []lumina.Artwork
	Workspace atelier.Snapshot
}

var viewPaths = map[lumina.ViewState]string{
	lumina.ViewGallery: "/",
	lumina.ViewAtelier: "/atelier",
	lumina.ViewAbout:   "/about",
}

func (p *Pages) render(view lumina.ViewState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.app.Navigate(view); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		data := pageData{Artworks: p.app.Artworks(), Workspace: p.app.Workspace().Snapshot()}
		for _, v := range lumina.Views {
			data.Nav = append(data.Nav, navItem{View: v, Label: v.Label(), Path: viewPaths[v], Active: v == view})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := p.tmpl[view].ExecuteTemplate(w, "layout", data); err != nil {
			p.logger.Error("failed to render page", "view", view, "error", err)
		}
	}
}
