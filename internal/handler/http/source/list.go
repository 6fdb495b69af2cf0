package source

import (
	"errors"
	"net/http"

	"satire-news/internal/domain/entity"
	"satire-news/internal/handler/http/respond"
	"satire-news/internal/source"
)

// DTO represents the JSON structure for a news source and its health.
type DTO struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Health source.Health `json:"health"`
}

// ListHandler serves GET /sources with the health snapshot of every
// registered source.
type ListHandler struct {
	Registry *source.Registry
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sources := h.Registry.All()

	dtos := make([]DTO, 0, len(sources))
	for _, src := range sources {
		dtos = append(dtos, DTO{
			ID:     src.ID(),
			Name:   src.Name(),
			Health: src.Health(),
		})
	}

	respond.JSON(w, http.StatusOK, map[string][]DTO{"sources": dtos})
}

// GetHandler serves GET /sources/{id}.
type GetHandler struct {
	Registry *source.Registry
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	src, err := h.Registry.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, entity.ErrSourceNotFound) {
			respond.Error(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, DTO{
		ID:     src.ID(),
		Name:   src.Name(),
		Health: src.Health(),
	})
}
