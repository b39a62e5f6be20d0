// ABOUTME: Prometheus collectors for the station site
// ABOUTME: Request latency by route pattern and station lookup outcomes
package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stationsite_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stationsite_http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	})

	stationLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stationsite_station_lookups_total",
		Help: "Station lookups by slug, split by whether a station matched",
	}, []string{"result"})

	stationsConfigured = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stationsite_stations_configured",
		Help: "Number of stations in the directory",
	})
)

func countLookup(found bool) {
	if found {
		stationLookups.WithLabelValues("found").Inc()
		return
	}
	stationLookups.WithLabelValues("absent").Inc()
}
