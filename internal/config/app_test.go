package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-news/internal/domain/entity"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "dev", cfg.Server.Version)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "openai", cfg.Enrichment.Type)
	assert.Equal(t, "@every 1m", cfg.Sources.HealthRefreshSchedule)
	assert.Empty(t, cfg.Sources.FeedsPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("ENRICHER_TYPE", "claude")
	t.Setenv("RSS_FEEDS_CONFIG", "/etc/satire/feeds.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "claude", cfg.Enrichment.Type)
	assert.Equal(t, "/etc/satire/feeds.yaml", cfg.Sources.FeedsPath)
}

func TestLoad_InvalidEnricherType(t *testing.T) {
	t.Setenv("ENRICHER_TYPE", "markov-chain")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid enricher type")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid port")
}

func writeFeedsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFeeds(t *testing.T) {
	path := writeFeedsFile(t, `
feeds:
  science: https://example.com/science.xml
  technology: https://example.com/tech.xml
`)

	feeds, err := LoadFeeds(path)
	require.NoError(t, err)

	want := map[entity.Category]string{
		entity.CategoryScience:    "https://example.com/science.xml",
		entity.CategoryTechnology: "https://example.com/tech.xml",
	}
	if diff := cmp.Diff(want, feeds); diff != "" {
		t.Errorf("feeds mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFeeds_UnknownCategory(t *testing.T) {
	path := writeFeedsFile(t, `
feeds:
  weather: https://example.com/weather.xml
`)

	_, err := LoadFeeds(path)
	assert.ErrorIs(t, err, entity.ErrInvalidCategory)
}

func TestLoadFeeds_EmptyURL(t *testing.T) {
	path := writeFeedsFile(t, `
feeds:
  science: ""
`)

	_, err := LoadFeeds(path)
	assert.ErrorContains(t, err, "empty URL")
}

func TestLoadFeeds_MissingFile(t *testing.T) {
	_, err := LoadFeeds(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
