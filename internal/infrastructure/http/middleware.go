// ABOUTME: HTTP middleware stack shared by every route
// ABOUTME: Panic recovery, request ids, security headers, metrics and rate limiting
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/oszuidwest/radio-site/internal/application/config"
	"github.com/oszuidwest/radio-site/internal/infrastructure/logging"
)

const HeaderRequestID = "X-Request-ID"

// ContentSecurityPolicy allows the inline brand stylesheet, the media session
// script, remote station artwork and https audio streams.
const ContentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; media-src https:; frame-ancestors 'none'"

// Recoverer turns handler panics into a logged 500. A handler that already
// started its response keeps its status; the panic is only logged.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				buf := make([]byte, 8192)
				n := runtime.Stack(buf, false)

				logger := logging.WithContext(r.Context(), logging.WithComponent("panic-recovery"))
				logger.Error().
					Str("event", "panic.recovered").
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic_value", rec).
					Str("stack_trace", string(buf[:n])).
					Bool("headers_sent", ww.Status() != 0).
					Msg("panic recovered in HTTP handler")

				if ww.Status() != 0 {
					return
				}
				writeJSON(ww, http.StatusInternalServerError, errorResponse{
					Error:     "internal server error",
					RequestID: logging.RequestIDFromContext(r.Context()),
				})
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, reqID)
		ctx := logging.ContextWithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", ContentSecurityPolicy)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Metrics records request latency per route pattern, so slugs do not blow up
// label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestDuration.
			WithLabelValues(r.Method, path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// HeaderConnectingIP carries the visitor address set by the Cloudflare edge.
const HeaderConnectingIP = "CF-Connecting-IP"

// KeyByConnectingIP keys on the address reported by the Cloudflare edge and
// falls back to the usual forwarding headers, then to the peer address.
func KeyByConnectingIP(r *http.Request) (string, error) {
	if ip := strings.TrimSpace(r.Header.Get(HeaderConnectingIP)); ip != "" {
		return ip, nil
	}
	return httprate.KeyByRealIP(r)
}

// ClientKey picks the rate limit key for the deployment adapter. Forwarding
// headers are only trusted behind a platform proxy; otherwise any client
// could pick its own bucket.
func ClientKey(platformProxy bool, adapter string) httprate.KeyFunc {
	switch {
	case !platformProxy:
		return httprate.KeyByIP
	case adapter == config.AdapterCloudflare:
		return KeyByConnectingIP
	default:
		return httprate.KeyByRealIP
	}
}

// RateLimit limits each client to requestsPerMinute, keyed by keyFn.
// Zero disables it.
func RateLimit(requestsPerMinute int, keyFn httprate.KeyFunc) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if keyFn == nil {
		keyFn = httprate.KeyByIP
	}
	window := time.Minute
	return httprate.Limit(
		requestsPerMinute,
		window,
		httprate.WithKeyFuncs(keyFn),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		}),
	)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := logging.WithComponent("http")
		logger.Warn().Err(err).Msg("encode response")
	}
}
