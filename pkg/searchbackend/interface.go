// Package searchbackend defines the abstraction for web search providers used
// to gather candidate URLs for an entity and category.
package searchbackend

import (
	"context"

	"discovery/pkg/domain"
)

// MaxResults caps how many results a backend returns per query. Both Google
// Custom Search and Brave serve at most 10 per request.
const MaxResults = 10

// Query carries one category-specific search request. Web backends use the
// rendered Text; the site-probe backend uses Site and Category directly.
type Query struct {
	// Text is the rendered query string, e.g. "Acme pricing".
	Text string
	// Site is the entity's own site authority, e.g. "acme.com".
	Site string
	// Category is the page category being searched for.
	Category domain.Category
}

// Client is the abstraction for search providers. Implementations issue a
// single query and return raw results; they must be safe for concurrent use
// and classify provider-side failures with the serrors provider kinds. The
// orchestrator treats any failure as zero results, so no backend error ever
// reaches the caller.
//
//go:generate mockgen -package mocksearchbackend -source=interface.go -destination=mock/mocksearchbackend.go *
type Client interface {
	// Name returns the backend identifier stamped on results.
	Name() string
	// Query executes the search and returns up to MaxResults raw results.
	Query(ctx context.Context, q Query) ([]domain.SearchResult, error)
}
