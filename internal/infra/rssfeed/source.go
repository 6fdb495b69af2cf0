// Package rssfeed provides a news source backed by per-category RSS feeds.
package rssfeed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"satire-news/internal/domain/entity"
	"satire-news/internal/observability/metrics"
	"satire-news/internal/resilience/circuitbreaker"
	"satire-news/internal/resilience/retry"
	"satire-news/internal/source"
)

// SourceID is the stable identifier of the RSS feed source.
const SourceID = "rss"

// Config holds configuration parameters for the RSS feed source.
type Config struct {
	// Feeds maps a category to the feed URL serving it. Categories without
	// a feed are simply not served by this source.
	Feeds map[entity.Category]string

	// Timeout is the maximum duration for fetching one feed.
	Timeout time.Duration
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.Feeds) == 0 {
		return fmt.Errorf("at least one feed must be configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// Source fetches articles from category-specific RSS feeds.
type Source struct {
	config        Config
	parser        *gofeed.Parser
	fetchBreaker  *circuitbreaker.CircuitBreaker
	healthBreaker *circuitbreaker.CircuitBreaker
	retryConfig   retry.Config
	tracker       *source.HealthTracker

	// probeURL is the feed used for health checks.
	probeURL string
}

// New creates an RSS feed source with the given configuration. Breakers
// are obtained from the shared registry under the keys "rss" and
// "rss-health".
func New(cfg Config, breakers *circuitbreaker.Registry) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rssfeed source: %w", err)
	}

	// Pick a deterministic probe feed: first configured category in the
	// canonical category order.
	var probeURL string
	for _, c := range entity.Categories() {
		if u, ok := cfg.Feeds[c]; ok {
			probeURL = u
			break
		}
	}

	return &Source{
		config:        cfg,
		parser:        gofeed.NewParser(),
		fetchBreaker:  breakers.Breaker(SourceID, circuitbreaker.NewsSourceConfig(SourceID)),
		healthBreaker: breakers.Breaker(SourceID+"-health", circuitbreaker.NewsSourceConfig(SourceID+"-health")),
		retryConfig:   retry.NewsFetchConfig(),
		tracker:       source.NewHealthTracker(),
		probeURL:      probeURL,
	}, nil
}

// ID implements source.NewsSource.
func (s *Source) ID() string { return SourceID }

// Name implements source.NewsSource.
func (s *Source) Name() string { return "RSS Feeds" }

// Health implements source.NewsSource.
func (s *Source) Health() source.Health { return s.tracker.Health() }

// FetchArticles fetches and parses the feed configured for the category.
// Article IDs are positional, namespaced by source so a fan-out across
// sources never collides: "rss-<category>-<index>".
func (s *Source) FetchArticles(ctx context.Context, category entity.Category) ([]*entity.Article, error) {
	feedURL, ok := s.config.Feeds[category]
	if !ok {
		return nil, fmt.Errorf("no rss feed configured for category %q", category)
	}

	start := time.Now()

	var feed *gofeed.Feed
	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		result, err := s.fetchBreaker.Execute(func() (interface{}, error) {
			return s.parse(ctx, feedURL)
		})
		if err != nil {
			return err
		}
		feed = result.(*gofeed.Feed)
		return nil
	})

	duration := time.Since(start)
	metrics.RecordSourceFetchDuration(SourceID, duration)

	if retryErr != nil {
		s.tracker.RecordFailure()
		metrics.RecordExternalAPIRequest(SourceID, false)
		return nil, fmt.Errorf("rss fetch failed: %w", retryErr)
	}

	s.tracker.RecordSuccess(duration)
	metrics.RecordExternalAPIRequest(SourceID, true)

	articles := make([]*entity.Article, 0, len(feed.Items))
	for i, item := range feed.Items {
		articles = append(articles, itemToArticle(category, i, feed, item))
	}

	metrics.RecordArticlesFetched(SourceID, len(articles))
	slog.InfoContext(ctx, "fetched articles from rss feed",
		slog.String("category", string(category)),
		slog.Int("count", len(articles)),
		slog.Duration("duration", duration))

	return articles, nil
}

// IsAvailable parses the probe feed through the health breaker.
func (s *Source) IsAvailable(ctx context.Context) bool {
	start := time.Now()

	_, err := s.healthBreaker.Execute(func() (interface{}, error) {
		return s.parse(ctx, s.probeURL)
	})
	if err != nil {
		s.tracker.RecordFailure()
		slog.WarnContext(ctx, "rss health check failed",
			slog.Any("error", err))
		return false
	}

	s.tracker.RecordSuccess(time.Since(start))
	return true
}

func (s *Source) parse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return feed, nil
}

func itemToArticle(category entity.Category, index int, feed *gofeed.Feed, item *gofeed.Item) *entity.Article {
	article := &entity.Article{
		ID:          fmt.Sprintf("%s-%s-%d", SourceID, category, index),
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Content,
		URL:         item.Link,
		Source:      entity.Source{ID: SourceID, Name: feed.Title},
	}

	if item.Image != nil {
		article.ImageURL = item.Image.URL
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		article.Author = item.Authors[0].Name
	}
	if item.PublishedParsed != nil {
		article.PublishedAt = *item.PublishedParsed
	}

	return article
}
