package article

import (
	"log/slog"
	"net/http"

	"satire-news/internal/domain/entity"
	"satire-news/internal/handler/http/respond"
	"satire-news/internal/observability/logging"
)

// GetHandler serves GET /articles/{category}/{id}, where id is the
// article's position in the category listing.
type GetHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	category, err := entity.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	article, err := h.Svc.GetByID(ctx, category, id)
	if err != nil {
		logger.Warn("failed to get article",
			slog.String("category", string(category)),
			slog.String("id", id),
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, article)
}
