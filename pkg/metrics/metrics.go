// Package metrics provides Prometheus metrics for the price aggregation service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SourceLookupsTotal is a counter of price lookups per source and outcome.
	SourceLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_lookups_total",
			Help: "Total number of price lookups per source",
		},
		[]string{"source", "outcome"},
	)

	// SourceLookupDuration is a histogram of per-source lookup latencies.
	SourceLookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_lookup_duration_seconds",
			Help:    "Duration of price lookups per source",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	// AggregationDuration is a histogram of full aggregation fan-out durations.
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_aggregation_duration_seconds",
			Help:    "Duration of full price aggregation fan-outs",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// CacheRequestsTotal is a counter of result cache lookups.
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_requests_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"result"},
	)

	// PriceUpdatesTotal is a counter of persisted game price updates.
	PriceUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_price_updates_total",
			Help: "Total number of game price updates",
		},
		[]string{"source"},
	)

	// HTTPRequestsTotal is a counter of total HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	// HTTPRequestDuration is a histogram of HTTP request latencies.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5, 30},
		},
		[]string{"endpoint"},
	)
)

// Init registers all metrics with the default Prometheus registry.
func Init() {
	prometheus.MustRegister(
		SourceLookupsTotal,
		SourceLookupDuration,
		AggregationDuration,
		CacheRequestsTotal,
		PriceUpdatesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// ServeHTTP serves Prometheus metrics on the specified address.
func ServeHTTP(addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// RecordSourceLookup records a completed lookup against a source.
// Outcome is one of "hit", "miss" or "error".
func RecordSourceLookup(source, outcome string, duration time.Duration) {
	SourceLookupsTotal.WithLabelValues(source, outcome).Inc()
	SourceLookupDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordAggregation records a full aggregation fan-out.
func RecordAggregation(duration time.Duration) {
	AggregationDuration.Observe(duration.Seconds())
}

// RecordCacheRequest records a result cache lookup.
func RecordCacheRequest(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordPriceUpdate records a persisted game price update.
func RecordPriceUpdate(source string) {
	PriceUpdatesTotal.WithLabelValues(source).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
