// Package http provides HTTP handlers and middleware for the news API.
// It includes the article and source endpoints, health check endpoints,
// Prometheus metrics exposition, and logging and recovery middleware.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"satire-news/internal/resilience/circuitbreaker"
	"satire-news/internal/source"
	"satire-news/internal/usecase/enrich"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy", "degraded" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// HealthHandler handles health check endpoint requests. It reports the
// health of every registered news source and the state of the enrichment
// queue. The endpoint returns 503 only when no source can serve traffic;
// individual source failures degrade the report without failing it.
type HealthHandler struct {
	Sources     *source.Registry
	Coordinator *enrich.Coordinator
	Breakers    *circuitbreaker.Registry
	Version     string
}

// ServeHTTP performs health checks and returns the application health status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	sourceCheck := h.checkSources()
	checks["sources"] = sourceCheck

	if h.Coordinator != nil {
		checks["enrichment_queue"] = h.checkQueue()
	}

	if h.Breakers != nil {
		checks["circuit_breakers"] = h.checkBreakers()
	}

	status := "healthy"
	statusCode := http.StatusOK
	if sourceCheck.Status == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

// checkSources reports the cached health of every registered source.
// Unhealthy means no source is usable at all.
func (h *HealthHandler) checkSources() CheckStatus {
	if h.Sources == nil {
		return CheckStatus{
			Status:  "unhealthy",
			Message: "not configured",
		}
	}

	sources := h.Sources.All()
	if len(sources) == 0 {
		return CheckStatus{
			Status:  "unhealthy",
			Message: "no sources registered",
		}
	}

	details := make(map[string]any, len(sources))
	healthyCount := 0
	for _, src := range sources {
		health := src.Health()
		details[src.ID()] = health
		if health.Status == source.StatusHealthy {
			healthyCount++
		}
	}

	switch {
	case healthyCount == 0:
		return CheckStatus{
			Status:  "unhealthy",
			Message: "all sources down",
			Details: details,
		}
	case healthyCount < len(sources):
		return CheckStatus{
			Status:  "degraded",
			Message: "some sources unavailable",
			Details: details,
		}
	default:
		return CheckStatus{
			Status:  "healthy",
			Details: details,
		}
	}
}

// checkQueue reports the enrichment queue snapshot. Queue depth is
// informational, never a failure.
func (h *HealthHandler) checkQueue() CheckStatus {
	status := h.Coordinator.QueueStatus()
	return CheckStatus{
		Status: "healthy",
		Details: map[string]any{
			"size":       status.Size,
			"processing": status.Processing,
		},
	}
}

// checkBreakers reports the state of every circuit breaker created so far,
// keyed by external dependency. An open breaker degrades the report;
// whether the service can still serve traffic is the sources check's call.
func (h *HealthHandler) checkBreakers() CheckStatus {
	states := h.Breakers.States()

	details := make(map[string]any, len(states))
	open := 0
	for key, state := range states {
		details[key] = state.String()
		if state == gobreaker.StateOpen {
			open++
		}
	}

	if open > 0 {
		return CheckStatus{
			Status:  "degraded",
			Message: "one or more circuit breakers open",
			Details: details,
		}
	}
	return CheckStatus{
		Status:  "healthy",
		Details: details,
	}
}

// ReadyHandler handles Kubernetes readiness probe requests.
// The service is ready once at least one news source is registered.
type ReadyHandler struct {
	Sources *source.Registry
}

// ServeHTTP returns 200 OK when ready, or 503 Service Unavailable when
// no sources are registered yet.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Sources == nil || len(h.Sources.All()) == 0 {
		http.Error(w, "no news sources configured", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		log.Printf("ready: failed to write response: %v", err)
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
type LiveHandler struct{}

// ServeHTTP performs a simple liveness check and always returns 200 OK
// if the application is running and able to respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}
