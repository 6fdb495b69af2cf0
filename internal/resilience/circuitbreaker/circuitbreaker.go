// Package circuitbreaker provides circuit breakers for external service calls.
// It uses the github.com/sony/gobreaker library to prevent cascading failures.
// Every external dependency gets its own breaker, identified by a key and
// created lazily through the Registry.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"satire-news/internal/observability/metrics"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the breaker key, used for logging and metrics.
	Name string

	// FailureThreshold is the number of consecutive failures while closed
	// that trips the breaker open.
	FailureThreshold uint32

	// SuccessThreshold is the number of consecutive successes while
	// half-open required to close the breaker again.
	SuccessThreshold uint32

	// OpenTimeout is how long the breaker stays open before the next call
	// is allowed through as a half-open probe.
	OpenTimeout time.Duration
}

// DefaultConfig returns the default breaker configuration.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      10 * time.Second,
	}
}

// NewsSourceConfig returns configuration for news provider calls.
func NewsSourceConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

// EnricherConfig returns configuration for language-model API calls.
// Longer open timeout since LLM outages tend to last minutes, not seconds.
func EnricherConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker with last-error tracking.
// While the breaker is open, calls are rejected with the last error the
// protected operation produced, so callers see the real upstream failure
// instead of a bare "open state" message.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string

	mu      sync.Mutex
	lastErr error
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config) *CircuitBreaker {
	cb := &CircuitBreaker{name: cfg.Name}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.SuccessThreshold,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			if to == gobreaker.StateClosed {
				cb.setLastError(nil)
			}
		},
	}

	cb.breaker = gobreaker.NewCircuitBreaker(settings)
	return cb
}

// Execute runs the given function through the circuit breaker.
// On success the operation's result is returned unchanged. On operation
// failure, or on rejection while the breaker is open, the error is wrapped
// in *Error carrying the breaker key.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cb.breaker.Execute(fn)
	if err == nil {
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		rejection := cb.lastError()
		if rejection == nil {
			rejection = ErrOpen
		}
		return nil, &Error{Key: cb.name, Err: rejection}
	}

	cb.setLastError(err)
	return nil, &Error{Key: cb.name, Err: err}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the breaker key.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

func (cb *CircuitBreaker) lastError() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.lastErr
}

func (cb *CircuitBreaker) setLastError(err error) {
	cb.mu.Lock()
	cb.lastErr = err
	cb.mu.Unlock()
}
