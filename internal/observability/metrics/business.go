package metrics

import "time"

// RecordCacheHit records a cache hit for the given category.
func RecordCacheHit(category string) {
	CacheHitsTotal.WithLabelValues(category).Inc()
}

// RecordCacheMiss records a cache miss for the given category.
func RecordCacheMiss(category string) {
	CacheMissesTotal.WithLabelValues(category).Inc()
}

// RecordCacheEviction records a TTL eviction for the given category.
// Fires exactly once per evicting read.
func RecordCacheEviction(category string) {
	CacheEvictionsTotal.WithLabelValues(category).Inc()
}

// RecordExternalAPIRequest records the outcome of an upstream API call.
func RecordExternalAPIRequest(api string, success bool) {
	status := "true"
	if !success {
		status = "false"
	}
	ExternalAPIRequestsTotal.WithLabelValues(api, status).Inc()
}

// RecordBreakerTransition records a circuit breaker state transition and
// updates the per-circuit state gauge. Called exactly once per transition.
func RecordBreakerTransition(circuit, from, to string) {
	CircuitBreakerTransitionsTotal.WithLabelValues(circuit, from, to).Inc()
	CircuitBreakerState.WithLabelValues(circuit).Set(breakerStateValue(to))
}

// breakerStateValue maps a gobreaker state name to a gauge value.
func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordQueueSize updates the enrichment queue size gauge.
func RecordQueueSize(size int) {
	QueueSize.Set(float64(size))
}

// RecordQueueProcessingTime records the time taken to drain one batch.
func RecordQueueProcessingTime(duration time.Duration) {
	QueueProcessingDuration.Observe(duration.Seconds())
}

// RecordArticleEnriched records the result of a single enrichment operation.
// Status is either "completed" or "failed".
func RecordArticleEnriched(success bool) {
	status := "completed"
	if !success {
		status = "failed"
	}
	ArticlesEnrichedTotal.WithLabelValues(status).Inc()
}

// RecordEnrichmentDuration records the time taken to enrich one article.
func RecordEnrichmentDuration(duration time.Duration) {
	EnrichmentDuration.Observe(duration.Seconds())
}

// RecordArticlesFetched records the number of articles fetched from a source.
func RecordArticlesFetched(source string, count int) {
	ArticlesFetchedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordSourceFetchDuration records the time taken to fetch from a source.
func RecordSourceFetchDuration(source string, duration time.Duration) {
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}
