// Package newsapi provides a news source backed by the NewsAPI
// top-headlines endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"satire-news/internal/domain/entity"
	"satire-news/internal/observability/metrics"
	"satire-news/internal/resilience/circuitbreaker"
	"satire-news/internal/resilience/retry"
	"satire-news/internal/source"
)

// SourceID is the stable identifier of the NewsAPI source.
const SourceID = "newsapi"

// pageSize is the number of headlines requested per fetch.
const pageSize = 20

// ErrRateLimited is returned when the local rate limit budget is exhausted.
var ErrRateLimited = errors.New("newsapi rate limit exceeded")

// Source fetches top headlines from NewsAPI. Fetches and health checks run
// through separate circuit breakers so a broken fetch path does not hide
// recovery, and all outgoing calls share one local rate limit budget.
type Source struct {
	config        Config
	httpClient    *http.Client
	limiter       *rate.Limiter
	fetchBreaker  *circuitbreaker.CircuitBreaker
	healthBreaker *circuitbreaker.CircuitBreaker
	retryConfig   retry.Config
	tracker       *source.HealthTracker
}

// New creates a NewsAPI source with the given configuration. Breakers are
// obtained from the shared registry under the keys "newsapi" and
// "newsapi-health" so their state is observable alongside every other
// external dependency.
func New(cfg Config, breakers *circuitbreaker.Registry) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("newsapi source: %w", err)
	}

	tracker := source.NewHealthTracker()
	tracker.SetRateLimitRemaining(cfg.RequestsPerMinute)

	return &Source{
		config:        cfg,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		limiter:       rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute),
		fetchBreaker:  breakers.Breaker(SourceID, circuitbreaker.NewsSourceConfig(SourceID)),
		healthBreaker: breakers.Breaker(SourceID+"-health", circuitbreaker.NewsSourceConfig(SourceID+"-health")),
		retryConfig:   retry.NewsFetchConfig(),
		tracker:       tracker,
	}, nil
}

// ID implements source.NewsSource.
func (s *Source) ID() string { return SourceID }

// Name implements source.NewsSource.
func (s *Source) Name() string { return "News API" }

// Health implements source.NewsSource.
func (s *Source) Health() source.Health { return s.tracker.Health() }

// apiArticle is the upstream article shape.
type apiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content"`
}

// apiResponse is the upstream top-headlines response shape.
type apiResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
	Message      string       `json:"message"`
}

// FetchArticles fetches the current top headlines for the given category.
// Calls are rate limited locally and guarded by retry and circuit breaker.
// Article IDs are positional, namespaced by source so a fan-out across
// sources never collides: "newsapi-<category>-<index>".
func (s *Source) FetchArticles(ctx context.Context, category entity.Category) ([]*entity.Article, error) {
	if !s.limiter.Allow() {
		s.tracker.SetRateLimitRemaining(0)
		return nil, fmt.Errorf("fetch %s: %w", category, ErrRateLimited)
	}
	s.tracker.SetRateLimitRemaining(int(s.limiter.Tokens()))

	start := time.Now()

	var articles []*entity.Article
	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		result, err := s.fetchBreaker.Execute(func() (interface{}, error) {
			return s.doFetch(ctx, category)
		})
		if err != nil {
			return err
		}
		articles = result.([]*entity.Article)
		return nil
	})

	duration := time.Since(start)
	metrics.RecordSourceFetchDuration(SourceID, duration)

	if retryErr != nil {
		s.tracker.RecordFailure()
		return nil, fmt.Errorf("newsapi fetch failed: %w", retryErr)
	}

	s.tracker.RecordSuccess(duration)
	metrics.RecordArticlesFetched(SourceID, len(articles))

	slog.InfoContext(ctx, "fetched articles from newsapi",
		slog.String("category", string(category)),
		slog.Int("count", len(articles)),
		slog.Duration("duration", duration))

	return articles, nil
}

// doFetch performs the upstream call without retry or breaker.
func (s *Source) doFetch(ctx context.Context, category entity.Category) ([]*entity.Article, error) {
	q := url.Values{}
	q.Set("category", string(category))
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))

	resp, err := s.get(ctx, "/top-headlines", q)
	if err != nil {
		metrics.RecordExternalAPIRequest(SourceID, false)
		return nil, err
	}

	articles := make([]*entity.Article, 0, len(resp.Articles))
	for i, a := range resp.Articles {
		articles = append(articles, &entity.Article{
			ID:          fmt.Sprintf("%s-%s-%d", SourceID, category, i),
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Author:      a.Author,
			Source:      entity.Source{ID: a.Source.ID, Name: a.Source.Name},
			PublishedAt: a.PublishedAt,
		})
	}

	metrics.RecordExternalAPIRequest(SourceID, true)
	return articles, nil
}

// IsAvailable runs a one-headline probe request through the health breaker
// and reports whether the source can serve requests.
func (s *Source) IsAvailable(ctx context.Context) bool {
	start := time.Now()

	_, err := s.healthBreaker.Execute(func() (interface{}, error) {
		q := url.Values{}
		q.Set("country", "us")
		q.Set("pageSize", "1")
		return s.get(ctx, "/top-headlines", q)
	})

	if err != nil {
		s.tracker.RecordFailure()
		slog.WarnContext(ctx, "newsapi health check failed",
			slog.Any("error", err))
		return false
	}

	s.tracker.RecordSuccess(time.Since(start))
	return s.limiter.Tokens() > 0
}

// get performs one authenticated GET against the NewsAPI endpoint.
func (s *Source) get(ctx context.Context, path string, q url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build newsapi request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.config.APIKey)

	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read newsapi response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr apiResponse
		msg := httpResp.Status
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, &retry.HTTPError{StatusCode: httpResp.StatusCode, Message: msg}
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode newsapi response: %w", err)
	}
	return &resp, nil
}
