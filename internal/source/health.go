package source

import (
	"sync"
	"time"
)

// downThreshold is the number of consecutive failures after which a source
// is considered down. A single failure already marks it degraded.
const downThreshold = 3

// HealthTracker maintains a thread-safe health snapshot for a news source.
// Implementations embed it and record the outcome of each upstream call.
type HealthTracker struct {
	mu     sync.RWMutex
	health Health
}

// NewHealthTracker creates a tracker that starts out healthy.
func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		health: Health{
			Status:    StatusHealthy,
			LastCheck: time.Now(),
		},
	}
}

// RecordSuccess marks a successful upstream call and resets the failure count.
func (t *HealthTracker) RecordSuccess(responseTime time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.health.Status = StatusHealthy
	t.health.FailureCount = 0
	t.health.ResponseTime = responseTime
	t.health.LastCheck = time.Now()
}

// RecordFailure marks a failed upstream call. One failure degrades the
// source; downThreshold consecutive failures mark it down.
func (t *HealthTracker) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.health.FailureCount++
	if t.health.FailureCount >= downThreshold {
		t.health.Status = StatusDown
	} else {
		t.health.Status = StatusDegraded
	}
	t.health.LastCheck = time.Now()
}

// SetRateLimitRemaining updates the remaining request budget.
func (t *HealthTracker) SetRateLimitRemaining(remaining int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.health.RateLimitRemaining = remaining
}

// Health returns a copy of the current health snapshot.
func (t *HealthTracker) Health() Health {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.health
}
