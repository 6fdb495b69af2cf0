package enrich

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-news/internal/domain/entity"
	"satire-news/internal/infra/enricher"
)

// fakeEnricher records call order and fails for configured article ids.
type fakeEnricher struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	delay time.Duration
}

func (f *fakeEnricher) EnrichArticle(_ context.Context, article *entity.Article) (enricher.Enrichment, error) {
	f.mu.Lock()
	f.calls = append(f.calls, article.ID)
	shouldFail := f.fail[article.ID]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if shouldFail {
		return enricher.Enrichment{}, fmt.Errorf("model unavailable for %s", article.ID)
	}
	return enricher.Enrichment{
		SatiricalTitle:  "satirical: " + article.Title,
		DerivedCategory: entity.CategoryGeneral,
	}, nil
}

func (f *fakeEnricher) callOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func makeArticles(n int) []*entity.Article {
	articles := make([]*entity.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, &entity.Article{
			ID:    fmt.Sprintf("general-%d", i),
			Title: fmt.Sprintf("headline %d", i),
		})
	}
	return articles
}

// collectResults drains count results from the queue or fails the test.
func collectResults(t *testing.T, q *Queue, count int) []*entity.Article {
	t.Helper()

	out := make([]*entity.Article, 0, count)
	deadline := time.After(5 * time.Second)
	for len(out) < count {
		select {
		case res := <-q.Results():
			out = append(out, res.Article)
		case <-deadline:
			t.Fatalf("timed out waiting for results: got %d of %d", len(out), count)
		}
	}
	return out
}

func TestQueue_EnqueueTagsPending(t *testing.T) {
	q := NewQueue(&fakeEnricher{})

	articles := makeArticles(3)
	q.Enqueue(articles)

	assert.Equal(t, 3, q.Status().Size)
	for _, a := range articles {
		assert.Equal(t, entity.EnrichmentPending, a.Status)
	}
}

func TestQueue_EnqueueSkipsTerminal(t *testing.T) {
	q := NewQueue(&fakeEnricher{})

	articles := makeArticles(3)
	articles[0].Status = entity.EnrichmentCompleted
	articles[2].Status = entity.EnrichmentFailed
	q.Enqueue(articles)

	assert.Equal(t, 1, q.Status().Size)
}

func TestQueue_EnqueueSkipsKnownIDs(t *testing.T) {
	q := NewQueue(&fakeEnricher{})
	q.setKnown(func(id string) bool { return id == "general-1" })

	q.Enqueue(makeArticles(3))

	assert.Equal(t, 2, q.Status().Size)
}

func TestQueue_ProcessesAllInOrder(t *testing.T) {
	fake := &fakeEnricher{}
	q := NewQueue(fake)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	// Two batches: 5 + 2.
	q.Enqueue(makeArticles(7))

	results := collectResults(t, q, 7)

	// Exactly one terminal event per submission, in FIFO order.
	gotIDs := make([]string, 0, len(results))
	for _, a := range results {
		gotIDs = append(gotIDs, a.ID)
		assert.Equal(t, entity.EnrichmentCompleted, a.Status)
		assert.Equal(t, "satirical: "+a.Title, a.SatiricalTitle)
	}

	wantIDs := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		wantIDs = append(wantIDs, fmt.Sprintf("general-%d", i))
	}
	assert.Equal(t, wantIDs, gotIDs)
	assert.Equal(t, wantIDs, fake.callOrder(), "articles must be enriched exactly once, FIFO")
	assert.Equal(t, 0, q.Status().Size)
}

func TestQueue_FailureIsTerminal(t *testing.T) {
	fake := &fakeEnricher{fail: map[string]bool{"general-1": true}}
	q := NewQueue(fake)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	q.Enqueue(makeArticles(3))

	results := collectResults(t, q, 3)

	byID := make(map[string]*entity.Article, len(results))
	for _, a := range results {
		byID[a.ID] = a
	}

	require.Contains(t, byID, "general-1")
	assert.Equal(t, entity.EnrichmentFailed, byID["general-1"].Status)
	assert.Empty(t, byID["general-1"].SatiricalTitle)
	assert.Equal(t, entity.EnrichmentCompleted, byID["general-0"].Status)
	assert.Equal(t, entity.EnrichmentCompleted, byID["general-2"].Status)

	// The failed article is never re-queued.
	time.Sleep(250 * time.Millisecond)
	count := 0
	for _, id := range fake.callOrder() {
		if id == "general-1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestQueue_StatusReportsProcessing(t *testing.T) {
	fake := &fakeEnricher{delay: 500 * time.Millisecond}
	q := NewQueue(fake)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	q.Enqueue(makeArticles(1))

	// The first tick fires after 100ms; the batch then takes 500ms.
	time.Sleep(300 * time.Millisecond)
	assert.True(t, q.Status().Processing)

	collectResults(t, q, 1)
}
