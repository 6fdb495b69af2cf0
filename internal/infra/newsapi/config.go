package newsapi

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds configuration parameters for the NewsAPI source.
// Configuration is loaded from environment variables with fallback to
// defaults.
type Config struct {
	// BaseURL is the NewsAPI endpoint prefix.
	BaseURL string

	// APIKey authenticates requests against NewsAPI. Required.
	APIKey string

	// RequestsPerMinute caps the outgoing request rate.
	RequestsPerMinute int

	// Timeout is the maximum duration for a single upstream call.
	Timeout time.Duration
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url cannot be empty")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests per minute must be positive, got %d", c.RequestsPerMinute)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// LoadConfig loads NewsAPI configuration from environment variables.
//
// Environment variables:
//   - NEWS_API_KEY: API key (required)
//   - NEWS_API_URL: endpoint prefix (default: https://newsapi.org/v2)
//   - NEWS_API_RATE_LIMIT_PER_MINUTE: request budget (default: 30)
func LoadConfig() (Config, error) {
	cfg := Config{
		BaseURL:           "https://newsapi.org/v2",
		APIKey:            os.Getenv("NEWS_API_KEY"),
		RequestsPerMinute: 30,
		Timeout:           10 * time.Second,
	}

	if u := os.Getenv("NEWS_API_URL"); u != "" {
		cfg.BaseURL = u
	}

	if raw := os.Getenv("NEWS_API_RATE_LIMIT_PER_MINUTE"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			slog.Warn("invalid NEWS_API_RATE_LIMIT_PER_MINUTE, using default",
				slog.String("value", raw),
				slog.Int("default", cfg.RequestsPerMinute))
		} else {
			cfg.RequestsPerMinute = parsed
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid newsapi configuration: %w", err)
	}
	return cfg, nil
}
