// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count)
//   - Cache metrics (hits, misses, TTL evictions)
//   - Circuit breaker transitions and state
//   - Enrichment queue size and processing time
//   - External API call outcomes
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint. Recording functions never return
// errors: a failing sink must not affect the request path.
//
// Example usage:
//
//	import "satire-news/internal/observability/metrics"
//
//	func fetch(source string) {
//	    start := time.Now()
//	    // ... fetch articles ...
//	    metrics.RecordArticlesFetched(source, 10)
//	    metrics.RecordSourceFetchDuration(source, time.Since(start))
//	}
package metrics
