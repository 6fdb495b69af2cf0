package http

import (
	"net/http"

	"satire-news/internal/domain/entity"
	"satire-news/internal/handler/http/respond"
	"satire-news/internal/usecase/enrich"
)

// EnrichmentStatusHandler exposes the enrichment queue snapshot so
// operators can see backlog depth and whether a batch is in flight.
type EnrichmentStatusHandler struct {
	Coordinator *enrich.Coordinator
}

func (h EnrichmentStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Coordinator.QueueStatus())
}

// CategoriesHandler lists the supported news categories.
type CategoriesHandler struct{}

func (h CategoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string][]entity.Category{
		"categories": entity.Categories(),
	})
}
