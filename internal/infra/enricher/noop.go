package enricher

import (
	"context"

	"satire-news/internal/domain/entity"
)

// NoOp is an enricher that echoes the original headline back as the
// satirical title. Useful for local development without API keys.
type NoOp struct{}

// NewNoOp creates a new NoOp enricher.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// EnrichArticle returns the original title unchanged and the general category.
func (n *NoOp) EnrichArticle(_ context.Context, article *entity.Article) (Enrichment, error) {
	return Enrichment{
		SatiricalTitle:  article.Title,
		DerivedCategory: entity.CategoryGeneral,
	}, nil
}
