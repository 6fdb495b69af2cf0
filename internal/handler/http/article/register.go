// Package article provides the HTTP handlers for the article endpoints.
package article

import (
	"context"
	"log/slog"
	"net/http"

	"satire-news/internal/domain/entity"
	artUC "satire-news/internal/usecase/article"
)

// Service is the subset of the article orchestrator the handlers need.
type Service interface {
	GetAll(ctx context.Context, category entity.Category, opts artUC.Options) (*entity.ArticleResponse, error)
	GetByID(ctx context.Context, category entity.Category, id string) (*entity.Article, error)
}

// Register registers the article routes with the given mux.
func Register(mux *http.ServeMux, svc Service, logger *slog.Logger) {
	mux.Handle("GET    /articles/{category}", ListHandler{Svc: svc, Logger: logger})
	mux.Handle("GET    /articles/{category}/{id}", GetHandler{Svc: svc, Logger: logger})
}
