// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Cache metrics track the per-category response cache
var (
	// CacheHitsTotal counts cache hits by category
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of article cache hits",
		},
		[]string{"category"},
	)

	// CacheMissesTotal counts cache misses by category
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of article cache misses",
		},
		[]string{"category"},
	)

	// CacheEvictionsTotal counts TTL evictions by category
	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of article cache TTL evictions",
		},
		[]string{"category"},
	)
)

// External dependency metrics track upstream calls and breaker activity
var (
	// ExternalAPIRequestsTotal counts upstream API calls by dependency and outcome
	ExternalAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_api_requests_total",
			Help: "Total number of external API requests",
		},
		[]string{"api", "success"},
	)

	// CircuitBreakerTransitionsTotal counts breaker state transitions
	CircuitBreakerTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"circuit", "from", "to"},
	)

	// CircuitBreakerState exposes the current breaker state per circuit
	// (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"circuit"},
	)
)

// Enrichment pipeline metrics track the queue and language-model calls
var (
	// QueueSize tracks the number of articles waiting for enrichment
	QueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrichment_queue_size",
			Help: "Number of articles waiting in the enrichment queue",
		},
	)

	// QueueProcessingDuration measures time to drain one enrichment batch
	QueueProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_queue_processing_seconds",
			Help:    "Time taken to process one enrichment batch",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// ArticlesEnrichedTotal counts enrichment outcomes by status
	ArticlesEnrichedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_enriched_total",
			Help: "Total number of articles processed by the enrichment pipeline",
		},
		[]string{"status"},
	)

	// EnrichmentDuration measures time to enrich a single article
	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Time taken to enrich a single article",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)

// Fetch metrics track news source activity
var (
	// ArticlesFetchedTotal counts articles fetched from each source
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Total number of articles fetched from news sources",
		},
		[]string{"source"},
	)

	// SourceFetchDuration measures time to fetch articles from a source
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Time taken to fetch articles from a news source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
