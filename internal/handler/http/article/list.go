package article

import (
	"log/slog"
	"net/http"

	"satire-news/internal/domain/entity"
	"satire-news/internal/handler/http/requestid"
	"satire-news/internal/handler/http/respond"
	"satire-news/internal/observability/logging"
	artUC "satire-news/internal/usecase/article"
)

// ListHandler serves GET /articles/{category}.
//
// Query parameters:
//   - sourceId: restrict the fetch to a single source
//   - waitForEnrichment: when "true", block until every article has a
//     terminal enrichment status (bounded by the server-side wait ceiling)
type ListHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	category, err := entity.ParseCategory(r.PathValue("category"))
	if err != nil {
		logger.Warn("rejected article list request",
			slog.String("category", r.PathValue("category")),
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	opts := artUC.Options{
		SourceID:          r.URL.Query().Get("sourceId"),
		WaitForEnrichment: r.URL.Query().Get("waitForEnrichment") == "true",
	}

	logger.Info("article list request",
		slog.String("category", string(category)),
		slog.String("source_id", opts.SourceID),
		slog.Bool("wait_for_enrichment", opts.WaitForEnrichment),
		slog.String("request_id", requestid.FromContext(ctx)))

	resp, err := h.Svc.GetAll(ctx, category, opts)
	if err != nil {
		logger.Error("failed to list articles",
			slog.String("category", string(category)),
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
