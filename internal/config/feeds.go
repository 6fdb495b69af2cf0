package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"satire-news/internal/domain/entity"
)

// FeedsConfig maps news categories to RSS feed URLs.
type FeedsConfig struct {
	Feeds map[string]string `yaml:"feeds"`
}

// LoadFeeds reads the RSS feed mapping from a YAML file. The path is
// expected to come from a trusted source (CLI flag or environment), not
// user input. Unknown categories in the file are rejected so a typo
// cannot silently drop a feed.
func LoadFeeds(path string) (map[entity.Category]string, error) {
	// #nosec G304 -- path is provided by trusted source (env var), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var cfg FeedsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}

	if len(cfg.Feeds) == 0 {
		return nil, fmt.Errorf("feeds file %s defines no feeds", path)
	}

	feeds := make(map[entity.Category]string, len(cfg.Feeds))
	for name, url := range cfg.Feeds {
		category, err := entity.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("feeds file %s: category %q: %w", path, name, err)
		}
		if url == "" {
			return nil, fmt.Errorf("feeds file %s: category %q has an empty URL", path, name)
		}
		feeds[category] = url
	}

	return feeds, nil
}
