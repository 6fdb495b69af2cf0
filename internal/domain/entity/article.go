// Package entity defines the core domain entities for the application.
// It contains the fundamental business objects such as Article and Source,
// along with the enrichment status model and domain-specific errors.
package entity

import "time"

// EnrichmentStatus describes how far an article has progressed through the
// satirical headline pipeline.
type EnrichmentStatus string

const (
	// EnrichmentPending means the article is queued but not yet processed.
	EnrichmentPending EnrichmentStatus = "pending"
	// EnrichmentCompleted means a satirical title was generated.
	EnrichmentCompleted EnrichmentStatus = "completed"
	// EnrichmentFailed means the language-model call failed.
	// Failed is terminal: the article is never re-queued.
	EnrichmentFailed EnrichmentStatus = "failed"
)

// Terminal reports whether the status is final (completed or failed).
func (s EnrichmentStatus) Terminal() bool {
	return s == EnrichmentCompleted || s == EnrichmentFailed
}

// Source identifies the news provider an article came from.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article represents a news article flowing through the system.
// It is created when fetched from a source and mutated (status plus
// satirical fields) as enrichment progresses. Once the status is terminal
// the article is treated as immutable.
type Article struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Content         string           `json:"content,omitempty"`
	URL             string           `json:"url"`
	ImageURL        string           `json:"urlToImage,omitempty"`
	Author          string           `json:"author,omitempty"`
	Source          Source           `json:"source"`
	PublishedAt     time.Time        `json:"publishedAt"`
	SatiricalTitle  string           `json:"satiricalTitle,omitempty"`
	DerivedCategory Category         `json:"derivedCategory,omitempty"`
	Status          EnrichmentStatus `json:"enrichmentStatus,omitempty"`
}

// DedupKey returns the composite key used to collapse duplicate articles
// fetched from different sources. First occurrence wins.
func (a *Article) DedupKey() string {
	return a.Title + "\x00" + a.PublishedAt.UTC().Format(time.RFC3339) + "\x00" + a.URL
}

// Clone returns a shallow copy of the article. Callers that hand articles
// across goroutine boundaries should clone first so terminal snapshots stay
// immutable.
func (a *Article) Clone() *Article {
	cp := *a
	return &cp
}

// ArticleResponse is the assembled result of a fetch for one category.
type ArticleResponse struct {
	Status       string     `json:"status"`
	TotalResults int        `json:"totalResults"`
	Articles     []*Article `json:"articles"`
}

// AllTerminal reports whether every article in the response has reached a
// terminal enrichment status. Only fully-terminal responses may be cached.
func (r *ArticleResponse) AllTerminal() bool {
	for _, a := range r.Articles {
		if !a.Status.Terminal() {
			return false
		}
	}
	return true
}

// Clone returns a copy of the response with cloned articles.
func (r *ArticleResponse) Clone() *ArticleResponse {
	out := &ArticleResponse{
		Status:       r.Status,
		TotalResults: r.TotalResults,
		Articles:     make([]*Article, 0, len(r.Articles)),
	}
	for _, a := range r.Articles {
		out.Articles = append(out.Articles, a.Clone())
	}
	return out
}
