package circuitbreaker

import (
	"sync"

	"github.com/sony/gobreaker"
)

// Registry owns one circuit breaker per external dependency key.
// Breakers are created lazily on first use and live for the process
// lifetime; they are never destroyed.
type Registry struct {
	defaults Config

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates a registry whose lazily-created breakers use the
// given configuration (with Name replaced by the breaker key).
func NewRegistry(defaults Config) *Registry {
	return &Registry{
		defaults: defaults,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Breaker returns the breaker for key, constructing it with cfg on first
// use. cfg.Name is replaced by the key; once a breaker exists for a key,
// later configurations are ignored.
func (r *Registry) Breaker(key string, cfg Config) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[key]; ok {
		return cb
	}
	cfg.Name = key
	cb := New(cfg)
	r.breakers[key] = cb
	return cb
}

// ExecuteWithBreaker looks up or lazily constructs the breaker for key and
// runs the operation through it. Breakers created this way use the
// registry's default configuration.
func (r *Registry) ExecuteWithBreaker(key string, op func() (interface{}, error)) (interface{}, error) {
	return r.Breaker(key, r.defaults).Execute(op)
}

// State returns the state of the breaker for key, or false if no breaker
// has been created for that key yet.
func (r *Registry) State(key string) (gobreaker.State, bool) {
	r.mu.Lock()
	cb, ok := r.breakers[key]
	r.mu.Unlock()
	if !ok {
		return 0, false
	}
	return cb.State(), true
}

// States returns a snapshot of every created breaker's state, keyed by
// the breaker key.
func (r *Registry) States() map[string]gobreaker.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make(map[string]gobreaker.State, len(r.breakers))
	for key, cb := range r.breakers {
		states[key] = cb.State()
	}
	return states
}
