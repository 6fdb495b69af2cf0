package entity

import "errors"

// Domain errors surfaced across use cases. Handlers map these to HTTP
// status codes at the boundary.
var (
	// ErrArticleNotFound is returned when an article id or index does not
	// resolve to an article.
	ErrArticleNotFound = errors.New("article not found")

	// ErrSourceNotFound is returned when a source id is not registered.
	ErrSourceNotFound = errors.New("news source not found")

	// ErrNoSourcesAvailable is returned when a fan-out fetch has no healthy
	// source to talk to, or every source fetch failed.
	ErrNoSourcesAvailable = errors.New("no news sources available")

	// ErrInvalidCategory is returned for unrecognized category input.
	ErrInvalidCategory = errors.New("invalid news category")
)
