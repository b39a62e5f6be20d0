// ABOUTME: Router wiring for the station site
// ABOUTME: Applies the middleware stack and mounts pages, API, health and metrics
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oszuidwest/radio-site/internal/application/manager"
	"github.com/oszuidwest/radio-site/internal/infrastructure/logging"
)

type RouterConfig struct {
	RateLimitPerMinute int
	AccessLog          bool
	// PlatformProxy keys the rate limit on the visitor address forwarded by
	// the hosting platform instead of the TCP peer. Adapter names the platform.
	PlatformProxy bool
	Adapter       string
}

// NewRouter builds the full HTTP handler for mgr.
func NewRouter(mgr *manager.Manager, cfg RouterConfig) http.Handler {
	stationsConfigured.Set(float64(len(mgr.All())))

	pagesH := NewPageHandler(mgr)
	apiH := NewAPIHandler(mgr)

	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(SecurityHeaders)
	r.Use(Metrics)
	if cfg.AccessLog {
		r.Use(logging.Middleware())
	}

	r.Get("/healthz", HealthzHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(cfg.RateLimitPerMinute, ClientKey(cfg.PlatformProxy, cfg.Adapter)))

		r.Route("/api/stations", func(r chi.Router) {
			r.Get("/", apiH.List)
			r.Get("/{slug}", apiH.Get)
		})

		r.Get("/", pagesH.Index)
		r.Get("/{slug}", pagesH.Station)
		r.Get("/{slug}/styles.css", pagesH.Stylesheet)
		r.Get("/{slug}/listen", pagesH.Listen)
	})

	r.NotFound(pagesH.NotFound)

	return r
}
