package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-news/internal/domain/entity"
)

func terminalResponse(titles ...string) *entity.ArticleResponse {
	articles := make([]*entity.Article, 0, len(titles))
	for i, title := range titles {
		articles = append(articles, &entity.Article{
			ID:             "science-" + string(rune('0'+i)),
			Title:          title,
			SatiricalTitle: "satirical " + title,
			Status:         entity.EnrichmentCompleted,
		})
	}
	return &entity.ArticleResponse{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "science:completed", Key(entity.CategoryScience, ""))
	assert.Equal(t, "science:newsapi:completed", Key(entity.CategoryScience, "newsapi"))
}

func TestArticleCache_SetAndGet(t *testing.T) {
	c := New(time.Minute)
	resp := terminalResponse("quantum leap")

	c.Set("science:completed", resp)

	got := c.Get("science:completed")
	require.NotNil(t, got)
	assert.Equal(t, "quantum leap", got.Articles[0].Title)

	// The cache hands out copies, not shared state.
	got.Articles[0].Title = "mutated"
	again := c.Get("science:completed")
	require.NotNil(t, again)
	assert.Equal(t, "quantum leap", again.Articles[0].Title)
}

func TestArticleCache_GetMissing(t *testing.T) {
	c := New(time.Minute)
	assert.Nil(t, c.Get("business:completed"))
}

func TestArticleCache_RejectsPendingArticles(t *testing.T) {
	c := New(time.Minute)
	resp := terminalResponse("one")
	resp.Articles[0].Status = entity.EnrichmentPending

	c.Set("science:completed", resp)

	assert.Nil(t, c.Get("science:completed"))
	assert.Equal(t, 0, c.Len())
}

func TestArticleCache_AcceptsFailedArticles(t *testing.T) {
	c := New(time.Minute)
	resp := terminalResponse("one")
	resp.Articles[0].Status = entity.EnrichmentFailed

	c.Set("science:completed", resp)

	require.NotNil(t, c.Get("science:completed"))
}

func TestArticleCache_LazyTTLEviction(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("science:completed", terminalResponse("one"))
	require.NotNil(t, c.Get("science:completed"))

	now = now.Add(time.Minute + time.Second)
	assert.Nil(t, c.Get("science:completed"))
	assert.Equal(t, 0, c.Len(), "expired entry should be removed on read")
}

func TestArticleCache_ClearCategory(t *testing.T) {
	c := New(time.Minute)
	c.Set("science:completed", terminalResponse("a"))
	c.Set("science:newsapi:completed", terminalResponse("b"))
	c.Set("business:completed", terminalResponse("c"))

	c.ClearCategory(entity.CategoryScience)

	assert.Nil(t, c.Get("science:completed"))
	assert.Nil(t, c.Get("science:newsapi:completed"))
	assert.NotNil(t, c.Get("business:completed"))
}

func TestArticleCache_ClearAll(t *testing.T) {
	c := New(time.Minute)
	c.Set("science:completed", terminalResponse("a"))
	c.Set("business:completed", terminalResponse("b"))

	c.ClearAll()

	assert.Equal(t, 0, c.Len())
}

func TestNew_DefaultTTL(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}
