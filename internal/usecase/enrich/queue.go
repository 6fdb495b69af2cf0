// Package enrich implements the asynchronous article enrichment pipeline:
// a FIFO queue drained in fixed-size batches by a background loop, and a
// coordinator that tracks terminal results for synchronous lookups.
package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"satire-news/internal/domain/entity"
	"satire-news/internal/infra/enricher"
	"satire-news/internal/observability/metrics"
)

const (
	// BatchSize is the maximum number of articles enriched per batch.
	BatchSize = 5

	// pollInterval is the idle interval of the background drain loop.
	pollInterval = 100 * time.Millisecond

	// resultBuffer sizes the result channel so a slow subscriber does not
	// stall the drain loop under normal load.
	resultBuffer = 64
)

// Result is a terminal enrichment outcome emitted by the queue. The carried
// article has status completed (with satirical title and derived category)
// or failed.
type Result struct {
	Article *entity.Article
}

// Status is an observability snapshot of the queue.
type Status struct {
	Size       int  `json:"size"`
	Processing bool `json:"isProcessing"`
}

// Queue buffers articles awaiting enrichment and drains them in FIFO order.
// At most one batch is in flight at a time. Failure is terminal: a failed
// article is never re-queued.
type Queue struct {
	enricher enricher.Enricher
	results  chan Result

	mu         sync.Mutex
	items      []*entity.Article
	processing bool

	// known reports whether an article id already has a terminal result.
	// Wired by the coordinator; nil means no filtering.
	known func(id string) bool
}

// NewQueue creates a queue that enriches articles with the given enricher.
func NewQueue(e enricher.Enricher) *Queue {
	return &Queue{
		enricher: e,
		results:  make(chan Result, resultBuffer),
	}
}

// setKnown installs the already-tracked filter used by Enqueue.
func (q *Queue) setKnown(fn func(id string) bool) {
	q.mu.Lock()
	q.known = fn
	q.mu.Unlock()
}

// Enqueue appends articles to the tail of the queue, tagging them pending.
// Articles that are already terminal, or whose id is already tracked with a
// terminal result, are skipped.
func (q *Queue) Enqueue(articles []*entity.Article) {
	q.mu.Lock()
	defer q.mu.Unlock()

	added := 0
	for _, a := range articles {
		if a.Status.Terminal() {
			continue
		}
		if q.known != nil && q.known(a.ID) {
			continue
		}
		a.Status = entity.EnrichmentPending
		q.items = append(q.items, a)
		added++
	}

	metrics.RecordQueueSize(len(q.items))
	slog.Info("enqueued articles for enrichment",
		slog.Int("added", added),
		slog.Int("queue_size", len(q.items)))
}

// Results returns the stream of terminal enrichment outcomes.
// The coordinator is expected to be the sole consumer.
func (q *Queue) Results() <-chan Result {
	return q.results
}

// Status returns the current queue length and whether a batch is in flight.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Status{Size: len(q.items), Processing: q.processing}
}

// Start launches the background drain loop. The loop runs until ctx is
// cancelled; a panic during batch processing is logged and the loop
// continues with the next tick.
func (q *Queue) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("enrichment queue stopped")
				return
			case <-ticker.C:
				q.safeProcessBatch(ctx)
			}
		}
	}()
}

// safeProcessBatch isolates panics so a misbehaving enricher cannot kill
// the drain loop.
func (q *Queue) safeProcessBatch(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during queue processing",
				slog.Any("panic", r))
			q.mu.Lock()
			q.processing = false
			q.mu.Unlock()
		}
	}()
	q.processBatch(ctx)
}

// processBatch drains up to BatchSize items from the head of the queue and
// enriches them sequentially, emitting one terminal result per item.
func (q *Queue) processBatch(ctx context.Context) {
	q.mu.Lock()
	if q.processing || len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	q.processing = true

	n := BatchSize
	if n > len(q.items) {
		n = len(q.items)
	}
	batch := q.items[:n]
	q.items = q.items[n:]
	q.mu.Unlock()

	start := time.Now()

	for _, article := range batch {
		q.enrichOne(ctx, article)
	}

	metrics.RecordQueueProcessingTime(time.Since(start))

	q.mu.Lock()
	q.processing = false
	metrics.RecordQueueSize(len(q.items))
	q.mu.Unlock()
}

// enrichOne runs a single enrichment call and emits the terminal result.
func (q *Queue) enrichOne(ctx context.Context, article *entity.Article) {
	start := time.Now()

	enrichment, err := q.enricher.EnrichArticle(ctx, article)

	metrics.RecordEnrichmentDuration(time.Since(start))

	if err != nil {
		slog.ErrorContext(ctx, "failed to enrich article",
			slog.String("article_id", article.ID),
			slog.Any("error", err))
		article.Status = entity.EnrichmentFailed
		metrics.RecordArticleEnriched(false)
	} else {
		article.Status = entity.EnrichmentCompleted
		article.SatiricalTitle = enrichment.SatiricalTitle
		article.DerivedCategory = enrichment.DerivedCategory
		metrics.RecordArticleEnriched(true)
		slog.DebugContext(ctx, "enriched article",
			slog.String("article_id", article.ID),
			slog.String("satirical_title", enrichment.SatiricalTitle))
	}

	select {
	case q.results <- Result{Article: article}:
	case <-ctx.Done():
	}
}
