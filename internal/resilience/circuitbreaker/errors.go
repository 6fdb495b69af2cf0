package circuitbreaker

import (
	"errors"
	"fmt"
)

// ErrOpen is the rejection error used while a breaker is open and no
// underlying failure has been recorded yet.
var ErrOpen = errors.New("circuit breaker is open")

// Error wraps a failure or rejection from a keyed circuit breaker.
// The key identifies the external dependency, so callers can distinguish
// breaker errors per dependency for error mapping and observability.
type Error struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("circuit breaker %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
