package enrich

import (
	"context"
	"log/slog"
	"sync"

	"satire-news/internal/domain/entity"
)

// DefaultCapacity bounds the coordinator's result map. Article ids churn
// with every fetch cycle, so without a cap the map grows forever.
const DefaultCapacity = 4096

// Coordinator is the single point of truth for per-article enrichment
// results. It is the sole subscriber of the queue's result stream and
// bridges those events to synchronous lookups.
type Coordinator struct {
	queue *Queue

	mu       sync.RWMutex
	results  map[string]*entity.Article
	order    []string
	capacity int
}

// NewCoordinator creates a coordinator bound to the given queue.
// A non-positive capacity falls back to DefaultCapacity.
func NewCoordinator(queue *Queue, capacity int) *Coordinator {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &Coordinator{
		queue:    queue,
		results:  make(map[string]*entity.Article),
		capacity: capacity,
	}
	queue.setKnown(c.has)
	return c
}

// Start launches the goroutine consuming the queue's result stream.
// Runs until ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				slog.Info("enrichment coordinator stopped")
				return
			case res := <-c.queue.Results():
				c.upsert(res.Article)
			}
		}
	}()
}

// Enrich submits a single article for enrichment. If a terminal result is
// already known for its id, that result is returned synchronously. Otherwise
// the article is queued and a copy tagged pending is returned immediately.
func (c *Coordinator) Enrich(article *entity.Article) *entity.Article {
	if known, ok := c.Get(article.ID); ok {
		return known
	}

	queued := article.Clone()
	c.queue.Enqueue([]*entity.Article{queued})

	pending := article.Clone()
	pending.Status = entity.EnrichmentPending
	return pending
}

// EnrichMany submits a batch of articles for enrichment. Already-known ids
// resolve to their terminal results; the rest are queued in one call. The
// returned slice preserves input order.
func (c *Coordinator) EnrichMany(articles []*entity.Article) []*entity.Article {
	if len(articles) == 0 {
		return nil
	}

	out := make([]*entity.Article, 0, len(articles))
	var unknown []*entity.Article

	for _, article := range articles {
		if known, ok := c.Get(article.ID); ok {
			out = append(out, known)
			continue
		}

		queued := article.Clone()
		unknown = append(unknown, queued)

		pending := article.Clone()
		pending.Status = entity.EnrichmentPending
		out = append(out, pending)
	}

	if len(unknown) > 0 {
		c.queue.Enqueue(unknown)
	}

	return out
}

// StatusOf returns the enrichment status for each id. Ids with a terminal
// result report that status (failed counts as terminal); everything else
// reports pending.
func (c *Coordinator) StatusOf(ids []string) map[string]entity.EnrichmentStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	statuses := make(map[string]entity.EnrichmentStatus, len(ids))
	for _, id := range ids {
		if article, ok := c.results[id]; ok {
			statuses[id] = article.Status
		} else {
			statuses[id] = entity.EnrichmentPending
		}
	}
	return statuses
}

// Get returns a copy of the known terminal result for id, if any.
func (c *Coordinator) Get(id string) (*entity.Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	article, ok := c.results[id]
	if !ok {
		return nil, false
	}
	return article.Clone(), true
}

// QueueStatus exposes the underlying queue's observability snapshot.
func (c *Coordinator) QueueStatus() Status {
	return c.queue.Status()
}

func (c *Coordinator) has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.results[id]
	return ok
}

// upsert records a terminal result, evicting the oldest entries beyond the
// capacity bound.
func (c *Coordinator) upsert(article *entity.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.results[article.ID]; !exists {
		c.order = append(c.order, article.ID)
	}
	c.results[article.ID] = article

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.results, oldest)
	}
}
