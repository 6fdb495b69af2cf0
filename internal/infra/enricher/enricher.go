// Package enricher provides AI-powered article enrichment implementations.
// It includes adapters for OpenAI and Claude (Anthropic) APIs with reliability
// patterns. Enrichment produces a satirical version of the headline and a
// derived category for every article.
package enricher

import (
	"context"
	"fmt"
	"strings"

	"satire-news/internal/domain/entity"
	"satire-news/internal/utils/text"
)

// maxPromptContent bounds the article content embedded in the category
// prompt so oversized articles cannot blow the model's context window.
const maxPromptContent = 2000

// Enrichment is the result of enriching a single article.
type Enrichment struct {
	// SatiricalTitle is the generated absurd version of the headline.
	SatiricalTitle string

	// DerivedCategory is the category the model assigned to the article.
	// Falls back to general when derivation fails.
	DerivedCategory entity.Category
}

// Enricher generates satirical titles and derived categories for articles.
// Implementations must treat title generation failure as a hard error and
// category derivation failure as recoverable (fall back to general).
type Enricher interface {
	EnrichArticle(ctx context.Context, article *entity.Article) (Enrichment, error)
}

// buildTitlePrompt constructs the satirical headline prompt for an article.
func buildTitlePrompt(article *entity.Article) string {
	return fmt.Sprintf(`You are a satirical news editor who creates funny, absurd, and opposite versions of real news headlines. Keep the tone light and humorous, but avoid offensive content.

Original headline: %q

Create an opposite, absurd version of this headline that's funny but not offensive.`, article.Title)
}

// buildCategoryPrompt constructs the category derivation prompt for an article.
func buildCategoryPrompt(article *entity.Article) string {
	categories := make([]string, 0, len(entity.Categories()))
	for _, c := range entity.Categories() {
		categories = append(categories, string(c))
	}

	content := article.Content
	if content == "" {
		content = article.Description
	}
	content = text.Truncate(content, maxPromptContent)

	return fmt.Sprintf(`You are a news categorization expert. Based on the article content and title, categorize this article into exactly one of these categories: %s.

Title: %q
Content: %q

Return ONLY the category name in lowercase, nothing else.`,
		strings.Join(categories, ", "), article.Title, content)
}

// sanitizeTitle strips surrounding quotes and whitespace from a model response.
func sanitizeTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
