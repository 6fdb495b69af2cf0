package source_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-news/internal/domain/entity"
	handler "satire-news/internal/handler/http/source"
	"satire-news/internal/source"
)

type stubSource struct {
	id     string
	name   string
	health source.Health
}

func (s *stubSource) ID() string   { return s.id }
func (s *stubSource) Name() string { return s.name }
func (s *stubSource) FetchArticles(context.Context, entity.Category) ([]*entity.Article, error) {
	return nil, nil
}
func (s *stubSource) IsAvailable(context.Context) bool { return true }
func (s *stubSource) Health() source.Health            { return s.health }

func newMux(sources ...source.NewsSource) *http.ServeMux {
	registry := source.NewRegistry()
	for _, src := range sources {
		registry.Register(src)
	}
	mux := http.NewServeMux()
	handler.Register(mux, registry)
	return mux
}

func doRequest(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListHandler(t *testing.T) {
	now := time.Now().UTC()
	mux := newMux(
		&stubSource{id: "newsapi", name: "NewsAPI", health: source.Health{Status: source.StatusHealthy, LastCheck: now}},
		&stubSource{id: "rss", name: "RSS Feeds", health: source.Health{Status: source.StatusDown, FailureCount: 4, LastCheck: now}},
	)

	rec := doRequest(mux, "/sources")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]handler.DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body["sources"], 2)
	assert.Equal(t, "newsapi", body["sources"][0].ID)
	assert.Equal(t, source.StatusHealthy, body["sources"][0].Health.Status)
	assert.Equal(t, source.StatusDown, body["sources"][1].Health.Status)
	assert.Equal(t, 4, body["sources"][1].Health.FailureCount)
}

func TestListHandler_Empty(t *testing.T) {
	rec := doRequest(newMux(), "/sources")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sources":[]}`, rec.Body.String())
}

func TestGetHandler(t *testing.T) {
	mux := newMux(&stubSource{id: "newsapi", name: "NewsAPI", health: source.Health{Status: source.StatusHealthy}})

	rec := doRequest(mux, "/sources/newsapi")
	require.Equal(t, http.StatusOK, rec.Code)

	var dto handler.DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "NewsAPI", dto.Name)
}

func TestGetHandler_NotFound(t *testing.T) {
	rec := doRequest(newMux(), "/sources/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}
