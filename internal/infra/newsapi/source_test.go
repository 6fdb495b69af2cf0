package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-news/internal/domain/entity"
	"satire-news/internal/resilience/circuitbreaker"
	"satire-news/internal/source"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		RequestsPerMinute: 30,
		Timeout:           2 * time.Second,
	}
}

func newBreakers() *circuitbreaker.Registry {
	return circuitbreaker.NewRegistry(circuitbreaker.DefaultConfig(""))
}

const headlinesBody = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{
			"source": {"id": "the-verge", "name": "The Verge"},
			"author": "Jane Doe",
			"title": "Quantum chip announced",
			"description": "A new chip.",
			"content": "Full content here.",
			"url": "https://example.com/a",
			"urlToImage": "https://example.com/a.png",
			"publishedAt": "2026-08-29T10:00:00Z"
		},
		{
			"source": {"id": "", "name": "Wired"},
			"author": "John Roe",
			"title": "Robots learn to fold laundry",
			"description": "Finally.",
			"content": "More content.",
			"url": "https://example.com/b",
			"urlToImage": "",
			"publishedAt": "2026-08-29T11:00:00Z"
		}
	]
}`

func TestFetchArticles(t *testing.T) {
	var gotPath, gotCategory, gotPageSize, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCategory = r.URL.Query().Get("category")
		gotPageSize = r.URL.Query().Get("pageSize")
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(headlinesBody))
	}))
	defer server.Close()

	s, err := New(testConfig(server.URL), newBreakers())
	require.NoError(t, err)

	articles, err := s.FetchArticles(context.Background(), entity.CategoryScience)
	require.NoError(t, err)

	assert.Equal(t, "/top-headlines", gotPath)
	assert.Equal(t, "science", gotCategory)
	assert.Equal(t, "20", gotPageSize)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, articles, 2)
	assert.Equal(t, "newsapi-science-0", articles[0].ID)
	assert.Equal(t, "newsapi-science-1", articles[1].ID)
	assert.Equal(t, "Quantum chip announced", articles[0].Title)
	assert.Equal(t, "The Verge", articles[0].Source.Name)
	assert.Equal(t, "https://example.com/a.png", articles[0].ImageURL)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), articles[0].PublishedAt)
}

func TestFetchArticles_MarksHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(headlinesBody))
	}))
	defer server.Close()

	s, err := New(testConfig(server.URL), newBreakers())
	require.NoError(t, err)

	_, err = s.FetchArticles(context.Background(), entity.CategoryScience)
	require.NoError(t, err)

	h := s.Health()
	assert.Equal(t, source.StatusHealthy, h.Status)
	assert.Equal(t, 0, h.FailureCount)
}

func TestFetchArticles_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer server.Close()

	s, err := New(testConfig(server.URL), newBreakers())
	require.NoError(t, err)

	_, err = s.FetchArticles(context.Background(), entity.CategoryScience)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
	assert.Equal(t, 1, calls, "4xx responses must not be retried")
	assert.Equal(t, source.StatusDegraded, s.Health().Status)
}

func TestFetchArticles_ServerErrorRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(headlinesBody))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	s, err := New(cfg, newBreakers())
	require.NoError(t, err)
	// Short retry delays keep the test fast.
	s.retryConfig.InitialDelay = 5 * time.Millisecond
	s.retryConfig.MaxDelay = 10 * time.Millisecond

	articles, err := s.FetchArticles(context.Background(), entity.CategoryBusiness)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
	assert.Equal(t, 2, calls)
}

func TestFetchArticles_BreakerVisibleInRegistry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(headlinesBody))
	}))
	defer server.Close()

	breakers := newBreakers()
	s, err := New(testConfig(server.URL), breakers)
	require.NoError(t, err)

	_, err = s.FetchArticles(context.Background(), entity.CategoryScience)
	require.NoError(t, err)

	// The fetch breaker lives in the shared registry under the source key.
	_, ok := breakers.State(SourceID)
	assert.True(t, ok)
}

func TestFetchArticles_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(headlinesBody))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RequestsPerMinute = 1
	s, err := New(cfg, newBreakers())
	require.NoError(t, err)

	_, err = s.FetchArticles(context.Background(), entity.CategoryScience)
	require.NoError(t, err)

	_, err = s.FetchArticles(context.Background(), entity.CategoryScience)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 0, s.Health().RateLimitRemaining)
}

func TestIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[]}`))
	}))
	defer server.Close()

	s, err := New(testConfig(server.URL), newBreakers())
	require.NoError(t, err)

	assert.True(t, s.IsAvailable(context.Background()))
	assert.Equal(t, source.StatusHealthy, s.Health().Status)
}

func TestIsAvailable_UpstreamDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s, err := New(testConfig(server.URL), newBreakers())
	require.NoError(t, err)

	assert.False(t, s.IsAvailable(context.Background()))
	assert.Equal(t, source.StatusDegraded, s.Health().Status)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{BaseURL: "https://newsapi.org/v2"}, newBreakers())
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "k")
	t.Setenv("NEWS_API_URL", "")
	t.Setenv("NEWS_API_RATE_LIMIT_PER_MINUTE", "12")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://newsapi.org/v2", cfg.BaseURL)
	assert.Equal(t, 12, cfg.RequestsPerMinute)
}

func TestLoadConfig_MissingKey(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
