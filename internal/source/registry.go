package source

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"satire-news/internal/domain/entity"
)

// Registry holds the configured news sources. Sources are looked up by ID
// and filtered by health when fanning out a fetch.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]NewsSource
	order   []string
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]NewsSource)}
}

// Register adds a source to the registry. Registering the same ID twice
// replaces the earlier source.
func (r *Registry) Register(s NewsSource) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[s.ID()]; !exists {
		r.order = append(r.order, s.ID())
	}
	r.sources[s.ID()] = s

	slog.Info("registered news source",
		slog.String("source_id", s.ID()),
		slog.String("source_name", s.Name()))
}

// Get returns the source with the given ID.
func (r *Registry) Get(id string) (NewsSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[id]
	if !ok {
		return nil, fmt.Errorf("news source %q: %w", id, entity.ErrSourceNotFound)
	}
	return s, nil
}

// All returns every registered source in registration order.
func (r *Registry) All() []NewsSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]NewsSource, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sources[id])
	}
	return out
}

// Available returns the sources whose last recorded health is healthy.
// Returns ErrNoSourcesAvailable when none qualify.
func (r *Registry) Available(ctx context.Context) ([]NewsSource, error) {
	all := r.All()

	available := make([]NewsSource, 0, len(all))
	for _, s := range all {
		if s.Health().Status == StatusHealthy {
			available = append(available, s)
		}
	}

	slog.DebugContext(ctx, "filtered healthy sources",
		slog.Int("healthy", len(available)),
		slog.Int("total", len(all)))

	if len(available) == 0 {
		return nil, entity.ErrNoSourcesAvailable
	}
	return available, nil
}

// RefreshHealth runs a live health check on every registered source.
// Intended to be called periodically from a scheduler.
func (r *Registry) RefreshHealth(ctx context.Context) {
	for _, s := range r.All() {
		available := s.IsAvailable(ctx)
		slog.InfoContext(ctx, "refreshed source health",
			slog.String("source_id", s.ID()),
			slog.Bool("available", available),
			slog.String("status", string(s.Health().Status)))
	}
}
