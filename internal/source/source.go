// Package source defines the news source abstraction and its registry.
// A news source fetches raw articles for a category from an upstream
// provider and reports its own health.
package source

import (
	"context"
	"time"

	"satire-news/internal/domain/entity"
)

// Status describes the operational state of a news source.
type Status string

const (
	// StatusHealthy means the source is serving requests normally.
	StatusHealthy Status = "healthy"
	// StatusDegraded means the source has seen recent failures but is
	// still usable.
	StatusDegraded Status = "degraded"
	// StatusDown means the source is considered unusable.
	StatusDown Status = "down"
)

// Health is a snapshot of a source's operational state.
type Health struct {
	Status             Status        `json:"status"`
	LastCheck          time.Time     `json:"lastCheck"`
	FailureCount       int           `json:"failureCount"`
	ResponseTime       time.Duration `json:"responseTime"`
	RateLimitRemaining int           `json:"rateLimitRemaining"`
}

// NewsSource fetches articles for a category from an upstream provider.
type NewsSource interface {
	// ID returns the stable identifier of the source, used in cache keys
	// and API requests.
	ID() string

	// Name returns the human-readable name of the source.
	Name() string

	// FetchArticles fetches the current articles for the given category.
	FetchArticles(ctx context.Context, category entity.Category) ([]*entity.Article, error)

	// IsAvailable performs a live health check and reports whether the
	// source can currently serve requests.
	IsAvailable(ctx context.Context) bool

	// Health returns the last recorded health snapshot without performing
	// a live check.
	Health() Health
}
