package enricher

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Config holds shared configuration parameters for an enricher implementation.
type Config struct {
	// Model is the API model identifier to use for enrichment calls.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Temperature controls randomness of the generated titles.
	Temperature float32

	// Timeout is the maximum duration for enriching a single article,
	// covering both the title and the category call.
	Timeout time.Duration
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %f", c.Temperature)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// defaultConfig returns the base configuration shared by all implementations.
// The model field is filled in by the per-provider loaders.
func defaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// loadTimeout reads ENRICHER_TIMEOUT as a Go duration string.
// Invalid values fall back to the given default with a warning log.
func loadTimeout(fallback time.Duration) time.Duration {
	raw := os.Getenv("ENRICHER_TIMEOUT")
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid ENRICHER_TIMEOUT, using default",
			slog.String("value", raw),
			slog.Duration("default", fallback))
		return fallback
	}
	return d
}

// LoadOpenAIConfig loads OpenAI enricher configuration from environment
// variables.
//
// Environment variables:
//   - ENRICHER_MODEL: API model identifier (default: gpt-3.5-turbo)
//   - ENRICHER_TIMEOUT: per-article timeout as a Go duration (default: 30s)
func LoadOpenAIConfig() (Config, error) {
	cfg := defaultConfig()
	cfg.Model = "gpt-3.5-turbo"
	if model := os.Getenv("ENRICHER_MODEL"); model != "" {
		cfg.Model = model
	}
	cfg.Timeout = loadTimeout(cfg.Timeout)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid openai enricher configuration: %w", err)
	}
	return cfg, nil
}

// LoadClaudeConfig loads Claude enricher configuration from environment
// variables. Uses the same variables as LoadOpenAIConfig.
func LoadClaudeConfig() (Config, error) {
	cfg := defaultConfig()
	cfg.Model = "claude-sonnet-4-5-20250929"
	if model := os.Getenv("ENRICHER_MODEL"); model != "" {
		cfg.Model = model
	}
	cfg.Timeout = loadTimeout(cfg.Timeout)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid claude enricher configuration: %w", err)
	}
	return cfg, nil
}
