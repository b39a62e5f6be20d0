// ABOUTME: HTTP handlers for station pages and the station API
// ABOUTME: Resolves the {slug} path segment through the station directory
package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oszuidwest/radio-site/internal/application/manager"
	"github.com/oszuidwest/radio-site/internal/domain"
	"github.com/oszuidwest/radio-site/internal/domain/station"
	"github.com/oszuidwest/radio-site/internal/infrastructure/image"
	"github.com/oszuidwest/radio-site/internal/infrastructure/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Station        *station.Station
	Stations       []station.Station
	Slug           string
	InlineCSS      template.CSS
	StylesheetURL  string
	Logo           string
	Favicon        string
	OpenGraphImage string
	PageURL        string
	ListenURL      string
	Share          shareLinks
}

type shareLinks struct {
	Bluesky  string
	Facebook string
	WhatsApp string
	Email    string
}

type PageHandler struct {
	mgr *manager.Manager
}

func NewPageHandler(mgr *manager.Manager) *PageHandler {
	return &PageHandler{mgr: mgr}
}

// Index lists every station in directory order.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", pageData{Stations: h.mgr.All()})
}

// Station renders the landing page for {slug}, or the not-found page.
func (h *PageHandler) Station(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	st, ok := h.mgr.Lookup(slug)
	countLookup(ok)
	if !ok {
		h.notFound(w, r, slug)
		return
	}

	h.render(w, r, http.StatusOK, "station.html", h.stationPage(st, "/"+st.Slug+"/listen"))
}

// stationPage assembles the landing page data for st. listenURL is where the
// "open stream" link points.
func (h *PageHandler) stationPage(st station.Station, listenURL string) pageData {
	th := h.mgr.Theme()
	css := th.Stylesheet(st)
	images := h.mgr.Images()
	pageURL := h.pageURL(st.Slug)

	data := pageData{
		Station:        &st,
		Logo:           images.URL(st.LogoURL, image.Options{Width: 512, Height: 512}),
		Favicon:        images.URL(st.FaviconURL, image.Options{Width: 32, Height: 32}),
		OpenGraphImage: images.URL(st.OpenGraphImage, image.Options{Width: 1280, Height: 720}),
		PageURL:        pageURL,
		ListenURL:      listenURL,
		Share:          buildShareLinks(st, pageURL),
	}
	if th.Inline(css) {
		data.InlineCSS = template.CSS(css)
	} else {
		data.StylesheetURL = "/" + st.Slug + "/styles.css"
	}
	return data
}

// Stylesheet serves the station CSS for pages that link rather than inline it.
func (h *PageHandler) Stylesheet(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	st, ok := h.mgr.Lookup(slug)
	countLookup(ok)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(h.mgr.Theme().Stylesheet(st)))
}

// Listen redirects to the station's live stream.
func (h *PageHandler) Listen(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	st, ok := h.mgr.Lookup(slug)
	countLookup(ok)
	if !ok {
		h.notFound(w, r, slug)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, st.StreamURL, http.StatusFound)
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, strings.Trim(r.URL.Path, "/"))
}

func (h *PageHandler) notFound(w http.ResponseWriter, r *http.Request, slug string) {
	h.render(w, r, http.StatusNotFound, "notfound.html", pageData{Slug: slug, Stations: h.mgr.All()})
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	page, err := renderPage(name, data)
	if err != nil {
		logger := logging.WithContext(r.Context(), logging.WithComponent("pages"))
		logger.Error().Err(err).Str("template", name).Msg("render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(page)
}

func renderPage(name string, data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *PageHandler) pageURL(slug string) string {
	base := strings.TrimRight(h.mgr.Site().BaseURL, "/")
	if base == "" {
		return ""
	}
	return base + "/" + slug
}

func buildShareLinks(st station.Station, pageURL string) shareLinks {
	links := shareLinks{
		Bluesky: "https://bsky.app/profile/" + url.PathEscape(st.Bluesky),
	}
	if pageURL == "" {
		return links
	}
	text := "Luister naar " + st.Name + " " + pageURL
	links.Facebook = "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(pageURL)
	links.WhatsApp = "https://wa.me/?text=" + url.QueryEscape(text)
	links.Email = "mailto:?subject=" + url.QueryEscape(st.Name) + "&body=" + url.QueryEscape(text)
	return links
}

type APIHandler struct {
	stations domain.StationLookup
}

func NewAPIHandler(stations domain.StationLookup) *APIHandler {
	return &APIHandler{stations: stations}
}

func (h *APIHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stations.All())
}

func (h *APIHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, ok := h.stations.Lookup(chi.URLParam(r, "slug"))
	countLookup(ok)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:     "station not found",
			RequestID: logging.RequestIDFromContext(r.Context()),
		})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	type response struct {
		OK bool `json:"ok"`
	}

	writeJSON(w, http.StatusOK, response{OK: true})
}
