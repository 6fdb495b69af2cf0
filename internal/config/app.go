// Package config assembles the application configuration from
// environment variables and an optional YAML file for feed sources.
package config

import (
	"fmt"
	"time"

	pkgconfig "satire-news/pkg/config"
)

// AppConfig is the full configuration of the API server.
type AppConfig struct {
	Server     ServerConfig
	Cache      CacheConfig
	Enrichment EnrichmentConfig
	Sources    SourcesConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port the HTTP server listens on. Default: 8080
	Port int

	// ReadTimeout for incoming requests. Default: 15s
	ReadTimeout time.Duration

	// WriteTimeout must exceed the enrichment wait ceiling, otherwise
	// waitForEnrichment requests are cut off mid-response. Default: 30s
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration

	// Version reported by the health endpoint.
	Version string
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	// TTL of cached category responses. Default: 5m
	TTL time.Duration
}

// EnrichmentConfig holds settings for the satirical enrichment pipeline.
type EnrichmentConfig struct {
	// Type selects the enricher backend: "openai", "claude" or "noop".
	// Default: "openai"
	Type string

	// ResultCapacity bounds the coordinator's result map. Zero means the
	// built-in default.
	ResultCapacity int
}

// SourcesConfig holds news source settings.
type SourcesConfig struct {
	// HealthRefreshSchedule is the cron expression for the periodic
	// source health probe. Default: "@every 1m"
	HealthRefreshSchedule string

	// FeedsPath points to the optional YAML file configuring RSS feeds.
	// Empty or missing file means no RSS source is registered.
	FeedsPath string
}

// Load builds the AppConfig from the environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Server: ServerConfig{
			Port:            pkgconfig.GetEnvInt("PORT", 8080),
			ReadTimeout:     pkgconfig.GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    pkgconfig.GetEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: pkgconfig.GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			Version:         pkgconfig.GetEnvString("APP_VERSION", "dev"),
		},
		Cache: CacheConfig{
			TTL: pkgconfig.GetEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Enrichment: EnrichmentConfig{
			Type:           pkgconfig.GetEnvString("ENRICHER_TYPE", "openai"),
			ResultCapacity: pkgconfig.GetEnvInt("ENRICHMENT_RESULT_CAPACITY", 0),
		},
		Sources: SourcesConfig{
			HealthRefreshSchedule: pkgconfig.GetEnvString("SOURCE_HEALTH_SCHEDULE", "@every 1m"),
			FeedsPath:             pkgconfig.GetEnvString("RSS_FEEDS_CONFIG", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("cache ttl: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown timeout: %w", err)
	}

	switch c.Enrichment.Type {
	case "openai", "claude", "noop":
	default:
		return fmt.Errorf("invalid enricher type %q", c.Enrichment.Type)
	}

	return nil
}
