package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GeocodeCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nachfolge_geocode_cache_hits_total",
			Help: "Geocode lookups answered from the cache",
		},
		[]string{"cache"},
	)

	GeocodeCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nachfolge_geocode_cache_misses_total",
			Help: "Geocode lookups that went to the provider",
		},
		[]string{"cache"},
	)

	GeocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nachfolge_geocode_requests_total",
			Help: "Provider geocode requests by outcome",
		},
		[]string{"outcome"},
	)

	GeocodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nachfolge_geocode_duration_seconds",
			Help:    "Provider geocode latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	FilterDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nachfolge_filter_duration_seconds",
			Help:    "Duration of the filter and rank pipeline",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"operation"},
	)

	FilteredCompanies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nachfolge_filtered_companies",
			Help: "Number of records returned by the last filter run",
		},
	)

	WarmerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nachfolge_geocode_warmer_runs_total",
			Help: "Completed geocode warm-up cycles",
		},
		[]string{"status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nachfolge_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nachfolge_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
