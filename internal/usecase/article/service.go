// Package article implements the top-level read path: cache lookup,
// multi-source fetch with deduplication, enrichment submission, and the
// optional bounded wait for enrichment to finish.
package article

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"satire-news/internal/cache"
	"satire-news/internal/domain/entity"
	"satire-news/internal/observability/tracing"
	"satire-news/internal/source"
	"satire-news/internal/usecase/enrich"
)

const (
	// waitPollInterval is how often the wait protocol re-checks
	// enrichment status.
	waitPollInterval = 500 * time.Millisecond

	// maxWaitTime is the ceiling of the wait protocol. A caller never
	// waits longer than this for enrichment to finish.
	maxWaitTime = 10 * time.Second
)

// Options controls a single GetAll call.
type Options struct {
	// SourceID restricts the fetch to one source. Empty means fan-out
	// across all healthy sources.
	SourceID string

	// WaitForEnrichment blocks the call until every returned article has
	// a terminal status, up to the wait ceiling. Articles still pending at
	// the deadline are marked failed so the response is always terminal.
	WaitForEnrichment bool
}

// Service orchestrates the article read path.
type Service struct {
	cache       *cache.ArticleCache
	sources     *source.Registry
	coordinator *enrich.Coordinator

	// Wait protocol knobs, overridable in tests.
	pollInterval time.Duration
	maxWait      time.Duration
}

// NewService creates the article orchestrator.
func NewService(c *cache.ArticleCache, sources *source.Registry, coordinator *enrich.Coordinator) *Service {
	return &Service{
		cache:        c,
		sources:      sources,
		coordinator:  coordinator,
		pollInterval: waitPollInterval,
		maxWait:      maxWaitTime,
	}
}

// GetAll returns the articles for a category, with satirical enrichment
// applied as far as it has progressed. Fully terminal responses are served
// from and written back to the cache.
func (s *Service) GetAll(ctx context.Context, category entity.Category, opts Options) (*entity.ArticleResponse, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "article.get-all")
	defer span.End()
	span.SetAttributes(
		attribute.String("category", string(category)),
		attribute.String("source_id", opts.SourceID),
	)

	key := cache.Key(category, opts.SourceID)
	if cached := s.cache.Get(key); cached != nil {
		slog.DebugContext(ctx, "serving cached articles",
			slog.String("cache_key", key),
			slog.Int("count", len(cached.Articles)))
		return cached, nil
	}

	var (
		articles []*entity.Article
		err      error
	)
	if opts.SourceID != "" {
		articles, err = s.fetchFromSource(ctx, opts.SourceID, category)
	} else {
		articles, err = s.fetchFromAllSources(ctx, category)
	}
	if err != nil {
		return nil, err
	}

	deduped := dedupe(articles)
	slog.DebugContext(ctx, "fetched raw articles",
		slog.String("category", string(category)),
		slog.Int("fetched", len(articles)),
		slog.Int("deduplicated", len(deduped)))

	enriched := s.coordinator.EnrichMany(deduped)

	if opts.WaitForEnrichment {
		enriched = s.waitForEnrichment(ctx, enriched)
	}

	resp := &entity.ArticleResponse{
		Status:       "ok",
		TotalResults: len(enriched),
		Articles:     enriched,
	}

	// No-op unless every article is terminal.
	s.cache.Set(key, resp)

	return resp, nil
}

// GetByID resolves id as a zero-based index into the category's full
// article list. Non-numeric or out-of-range ids report not-found.
func (s *Service) GetByID(ctx context.Context, category entity.Category, id string) (*entity.Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "article.get-by-id")
	defer span.End()

	resp, err := s.GetAll(ctx, category, Options{})
	if err != nil {
		return nil, err
	}

	index, err := strconv.Atoi(id)
	if err != nil || index < 0 || index >= len(resp.Articles) {
		return nil, fmt.Errorf("article %q in category %q: %w", id, category, entity.ErrArticleNotFound)
	}

	article := resp.Articles[index]

	// The coordinator may know a fresher terminal result than the
	// response snapshot.
	if known, ok := s.coordinator.Get(article.ID); ok {
		return known, nil
	}
	return article, nil
}

// fetchFromSource fetches from exactly one source. Errors propagate; there
// is no fallback to other sources.
func (s *Service) fetchFromSource(ctx context.Context, sourceID string, category entity.Category) ([]*entity.Article, error) {
	src, err := s.sources.Get(sourceID)
	if err != nil {
		return nil, err
	}

	articles, err := src.FetchArticles(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("fetch from source %q: %w", sourceID, err)
	}
	return articles, nil
}

// fetchFromAllSources fans out the fetch across all healthy sources
// concurrently. Individual source failures are dropped; the call fails only
// when no source delivers.
func (s *Service) fetchFromAllSources(ctx context.Context, category entity.Category) ([]*entity.Article, error) {
	sources, err := s.sources.Available(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]*entity.Article, len(sources))
	succeeded := make([]bool, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src source.NewsSource) {
			defer wg.Done()
			articles, fetchErr := src.FetchArticles(ctx, category)
			if fetchErr != nil {
				slog.WarnContext(ctx, "source fetch failed during fan-out",
					slog.String("source_id", src.ID()),
					slog.Any("error", fetchErr))
				return
			}
			results[i] = articles
			succeeded[i] = true
		}(i, src)
	}
	wg.Wait()

	var merged []*entity.Article
	anySucceeded := false
	for i := range results {
		if succeeded[i] {
			anySucceeded = true
			merged = append(merged, results[i]...)
		}
	}

	if !anySucceeded {
		return nil, fmt.Errorf("fan-out fetch for %q: %w", category, entity.ErrNoSourcesAvailable)
	}
	return merged, nil
}

// waitForEnrichment polls the coordinator until every article is terminal
// or the wait ceiling elapses. Articles still pending at the deadline are
// marked failed so the caller always receives a terminal response.
func (s *Service) waitForEnrichment(ctx context.Context, articles []*entity.Article) []*entity.Article {
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	deadline := time.Now().Add(s.maxWait)
	for time.Now().Before(deadline) {
		if allTerminal(s.coordinator.StatusOf(ids)) {
			break
		}
		select {
		case <-ctx.Done():
			return s.resolveTerminal(articles)
		case <-time.After(s.pollInterval):
		}
	}

	return s.resolveTerminal(articles)
}

// resolveTerminal replaces each article with the coordinator's terminal
// result where known; anything still pending is marked failed.
func (s *Service) resolveTerminal(articles []*entity.Article) []*entity.Article {
	out := make([]*entity.Article, 0, len(articles))
	for _, a := range articles {
		if known, ok := s.coordinator.Get(a.ID); ok {
			out = append(out, known)
			continue
		}
		if a.Status.Terminal() {
			out = append(out, a)
			continue
		}
		failed := a.Clone()
		failed.Status = entity.EnrichmentFailed
		out = append(out, failed)
	}
	return out
}

func allTerminal(statuses map[string]entity.EnrichmentStatus) bool {
	for _, s := range statuses {
		if !s.Terminal() {
			return false
		}
	}
	return true
}

// dedupe collapses duplicate articles across sources by their composite
// key (title, publishedAt, url). First occurrence wins; order is preserved.
func dedupe(articles []*entity.Article) []*entity.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]*entity.Article, 0, len(articles))
	for _, a := range articles {
		key := a.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
