// Package cache provides an in-memory TTL cache for article responses.
package cache

import (
	"strings"
	"sync"
	"time"

	"satire-news/internal/domain/entity"
	"satire-news/internal/observability/metrics"
)

// DefaultTTL is the default lifetime of a cached response.
const DefaultTTL = 5 * time.Minute

type entry struct {
	response *entity.ArticleResponse
	storedAt time.Time
}

// ArticleCache is a mutex-guarded TTL cache for enriched article responses.
// Entries are evicted lazily: an expired entry is removed on the read that
// discovers it, never by a background sweeper.
//
// Only fully enriched responses are accepted. Set silently drops any response
// that still contains pending articles, so readers never observe a cached
// response that would change on a later read.
type ArticleCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// New creates an ArticleCache with the given TTL. A non-positive TTL falls
// back to DefaultTTL.
func New(ttl time.Duration) *ArticleCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ArticleCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key builds the cache key for a category and optional source ID.
func Key(category entity.Category, sourceID string) string {
	if sourceID != "" {
		return string(category) + ":" + sourceID + ":completed"
	}
	return string(category) + ":completed"
}

// Get returns the cached response for key, or nil if absent or expired.
// The returned response is a deep copy; callers may mutate it freely.
func (c *ArticleCache) Get(key string) *entity.ArticleResponse {
	category := categoryOf(key)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.RecordCacheMiss(category)
		return nil
	}

	if c.now().Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock: another goroutine may have
		// refreshed the entry between the two lock acquisitions.
		if cur, ok := c.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(c.entries, key)
			metrics.RecordCacheEviction(category)
		}
		c.mu.Unlock()
		metrics.RecordCacheMiss(category)
		return nil
	}

	metrics.RecordCacheHit(category)
	return e.response.Clone()
}

// Set stores a response under key. Responses containing any non-terminal
// article are ignored.
func (c *ArticleCache) Set(key string, resp *entity.ArticleResponse) {
	if resp == nil || !resp.AllTerminal() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{response: resp.Clone(), storedAt: c.now()}
}

// ClearCategory removes all entries whose key starts with the given category.
func (c *ArticleCache) ClearCategory(category entity.Category) {
	prefix := string(category) + ":"

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// ClearAll removes every cached entry.
func (c *ArticleCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of cached entries, including any not yet lazily
// evicted.
func (c *ArticleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func categoryOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
