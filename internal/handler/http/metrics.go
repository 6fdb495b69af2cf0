package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"satire-news/internal/handler/http/responsewriter"
	"satire-news/internal/observability/metrics"
)

// MetricsHandler returns the Prometheus exposition handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware records request count and latency for every request.
// Paths are normalized to route templates to keep label cardinality bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := responsewriter.Wrap(w)

		next.ServeHTTP(rw, r)

		metrics.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), strconv.Itoa(rw.StatusCode()), time.Since(start))
	})
}

// normalizePath collapses dynamic path segments into placeholders so each
// route produces exactly one metric series.
func normalizePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "/"
	}

	switch segments[0] {
	case "articles":
		switch len(segments) {
		case 2:
			return "/articles/:category"
		case 3:
			return "/articles/:category/:id"
		}
	case "enrichment":
		if len(segments) == 2 {
			return "/enrichment/" + segments[1]
		}
	}

	return "/" + segments[0]
}
