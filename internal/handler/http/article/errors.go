package article

import (
	"errors"
	"net/http"

	"satire-news/internal/domain/entity"
	"satire-news/internal/handler/http/respond"
	"satire-news/internal/resilience/circuitbreaker"
)

// writeError maps domain errors to HTTP status codes. Upstream outages
// (open breakers, no available sources) surface as 503 so clients can
// distinguish them from bad requests.
func writeError(w http.ResponseWriter, err error) {
	var cbErr *circuitbreaker.Error

	switch {
	case errors.Is(err, entity.ErrInvalidCategory):
		respond.Error(w, http.StatusBadRequest, err)
	case errors.Is(err, entity.ErrArticleNotFound),
		errors.Is(err, entity.ErrSourceNotFound):
		respond.Error(w, http.StatusNotFound, err)
	case errors.Is(err, entity.ErrNoSourcesAvailable),
		errors.As(err, &cbErr):
		respond.SafeError(w, http.StatusServiceUnavailable, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
