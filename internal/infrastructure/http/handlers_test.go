// ABOUTME: Tests for HTTP handlers
// ABOUTME: Verifies routing, status codes, headers and response bodies
package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oszuidwest/radio-site/internal/application/config"
	"github.com/oszuidwest/radio-site/internal/application/manager"
	"github.com/oszuidwest/radio-site/internal/domain/station"
)

func newTestRouter(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Site.BaseURL = "https://luister.example.nl"
	if mutate != nil {
		mutate(cfg)
	}
	mgr, err := manager.NewFromConfig(cfg)
	require.NoError(t, err)
	return NewRouter(mgr, RouterConfig{
		RateLimitPerMinute: cfg.RateLimit.RequestsPerMinute,
		PlatformProxy:      cfg.Site.PlatformProxy,
		Adapter:            cfg.Site.Adapter,
	})
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStationPage_Success(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/zwfm")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>ZuidWest FM</title>")
	assert.Contains(t, body, "--brand-color: #e6007e;")
	assert.Contains(t, body, `<audio id="player" controls preload="none" src="https://audio.zuidwest.cloud/zuidwest">`)
	assert.Contains(t, body, `content="https://luister.example.nl/zwfm"`)
	assert.Contains(t, body, "https://bsky.app/profile/zuidwestfm.bsky.social")
	assert.Contains(t, body, `data-stream="zuidwest"`)
	assert.Contains(t, body, `<a href="/zwfm/listen">Open de stream</a>`)
	assert.NotContains(t, body, `rel="stylesheet"`)
}

func TestStationPage_LinkedStylesheet(t *testing.T) {
	h := newTestRouter(t, func(c *config.Config) {
		c.Site.InlineStylesheets = config.InlineNever
	})

	rec := get(h, "/rucphen")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<link rel="stylesheet" href="/rucphen/styles.css">`)

	css := get(h, "/rucphen/styles.css")
	require.Equal(t, http.StatusOK, css.Code)
	assert.Equal(t, "text/css; charset=utf-8", css.Header().Get("Content-Type"))
	assert.Contains(t, css.Body.String(), "--brand-color: #003576;")
}

func TestStationPage_NoBaseURL(t *testing.T) {
	h := newTestRouter(t, func(c *config.Config) { c.Site.BaseURL = "" })

	rec := get(h, "/zwfm")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "og:url")
	assert.NotContains(t, rec.Body.String(), "facebook.com/sharer")
}

func TestStationPage_404(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, path := range []string{"/nonexistent-slug", "/ZWFM", "/nonexistent/styles.css", "/nonexistent/listen"} {
		rec := get(h, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := get(h, "/ZWFM")
	assert.Contains(t, rec.Body.String(), "Station niet gevonden")
	assert.Contains(t, rec.Body.String(), `href="/zwfm"`)
}

func TestStationPage_LookupMetrics(t *testing.T) {
	h := newTestRouter(t, nil)

	found := testutil.ToFloat64(stationLookups.WithLabelValues("found"))
	absent := testutil.ToFloat64(stationLookups.WithLabelValues("absent"))

	get(h, "/zwfm")
	get(h, "/unknown")

	assert.Equal(t, found+1, testutil.ToFloat64(stationLookups.WithLabelValues("found")))
	assert.Equal(t, absent+1, testutil.ToFloat64(stationLookups.WithLabelValues("absent")))
}

func TestIndex(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/zwfm"`)
	assert.Contains(t, body, `href="/rucphen"`)
	assert.Less(t, strings.Index(body, "ZuidWest FM"), strings.Index(body, "Rucphen RTV"))
}

func TestListen_Redirects(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/rucphen/listen")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://audio.zuidwest.cloud/rucphen", rec.Header().Get("Location"))
}

func TestAPI_List(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/api/stations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []station.Station
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, station.Default().All(), got)
}

func TestAPI_Get(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/api/stations/zwfm")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "zwfm", got["slug"])
	assert.Equal(t, "ZuidWest FM", got["name"])
	assert.Equal(t, "#b80065", got["color_dark"])
	assert.Equal(t, "zuidwest", got["stream_name"])
}

func TestAPI_Get404(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stations/nope", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var got errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "station not found", got.Error)
	assert.Equal(t, "req-123", got.RequestID)
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	get(h, "/zwfm")

	rec := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "stationsite_stations_configured 2")
	assert.Contains(t, body, `stationsite_http_request_duration_seconds_count{method="GET",path="/{slug}",status="200"}`)
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/zwfm")
	assert.Equal(t, ContentSecurityPolicy, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, func(c *config.Config) { c.RateLimit.RequestsPerMinute = 2 })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, get(h, "/zwfm").Code)
	}

	rec := get(h, "/zwfm")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	// health checks are not limited
	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
}

func getAs(h http.Handler, path, connectingIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:4242"
	req.Header.Set(HeaderConnectingIP, connectingIP)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_PlatformProxyKeysOnVisitor(t *testing.T) {
	h := newTestRouter(t, func(c *config.Config) {
		c.RateLimit.RequestsPerMinute = 2
		c.Site.PlatformProxy = true
	})

	// one edge address, three visitors
	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		assert.Equal(t, http.StatusOK, getAs(h, "/zwfm", ip).Code, ip)
	}

	assert.Equal(t, http.StatusOK, getAs(h, "/zwfm", "203.0.113.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, getAs(h, "/zwfm", "203.0.113.1").Code)
	assert.Equal(t, http.StatusOK, getAs(h, "/zwfm", "203.0.113.2").Code)
}

func TestRateLimit_WithoutProxyIgnoresForwardedHeaders(t *testing.T) {
	h := newTestRouter(t, func(c *config.Config) {
		c.RateLimit.RequestsPerMinute = 2
		c.Site.PlatformProxy = false
	})

	assert.Equal(t, http.StatusOK, getAs(h, "/zwfm", "203.0.113.1").Code)
	assert.Equal(t, http.StatusOK, getAs(h, "/zwfm", "203.0.113.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, getAs(h, "/zwfm", "203.0.113.3").Code)
}

func TestKeyByConnectingIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4242"

	key, err := KeyByConnectingIP(req)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", key)

	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	key, err = KeyByConnectingIP(req)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", key)

	req.Header.Set(HeaderConnectingIP, "203.0.113.9")
	key, err = KeyByConnectingIP(req)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", key)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4242"
	req.Header.Set(HeaderConnectingIP, "203.0.113.9")
	req.Header.Set("X-Real-IP", "198.51.100.7")

	tests := []struct {
		name          string
		platformProxy bool
		adapter       string
		want          string
	}{
		{"direct", false, config.AdapterCloudflare, "10.0.0.1"},
		{"cloudflare", true, config.AdapterCloudflare, "203.0.113.9"},
		{"node behind proxy", true, config.AdapterNode, "198.51.100.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ClientKey(tt.platformProxy, tt.adapter)(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestRecoverer(t *testing.T) {
	h := RequestID(Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := get(h, "/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "internal server error", got.Error)
	assert.Equal(t, rec.Header().Get(HeaderRequestID), got.RequestID)
}

func TestRecoverer_AfterHeadersSent(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		panic("late boom")
	}))

	rec := get(h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestAPIHandler_WithDirectory(t *testing.T) {
	dir, err := station.NewDirectory([]station.Station{{
		Slug:           "solo",
		StreamURL:      "https://audio.example.com/solo",
		StreamName:     "solo",
		Name:           "Solo FM",
		Bluesky:        "solo.bsky.social",
		Color:          "#abcdef",
		ColorDark:      "#123456",
		OpenGraphImage: "https://img.example.com/og.jpg",
		FaviconURL:     "https://img.example.com/favicon.ico",
		LogoURL:        "https://img.example.com/logo.png",
	}})
	require.NoError(t, err)

	r := chi.NewRouter()
	api := NewAPIHandler(dir)
	r.Get("/api/stations/{slug}", api.Get)

	rec := get(r, "/api/stations/solo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Solo FM"`)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/stations/zwfm").Code)
}
