// Package source provides HTTP handlers for the news source endpoints.
package source

import (
	"net/http"

	"satire-news/internal/source"
)

// Register registers the source routes with the given mux.
func Register(mux *http.ServeMux, registry *source.Registry) {
	mux.Handle("GET    /sources", ListHandler{Registry: registry})
	mux.Handle("GET    /sources/{id}", GetHandler{Registry: registry})
}
