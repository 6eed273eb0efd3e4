package domain

import (
	"context"

	"github.com/stashapp/stash-sub011/internal/domain/facet"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
)

// SearchRequest asks for entities of kind Entity ("performers", "tags", ...)
// whose name matches Query, ranked by relevance.
type SearchRequest struct {
	Entity string `json:"entity"`
	Query  string `json:"q"`
	Limit  int    `json:"limit"`
}

// FacetRequest asks for per-value counts of Field over the objects of Mode
// matching Filter. Filter never contains Field itself.
type FacetRequest struct {
	Mode   mode.Mode      `json:"mode"`
	Field  string         `json:"field"`
	Q      string         `json:"q,omitempty"`
	Filter map[string]any `json:"filter"`
	Limit  int            `json:"limit"`
}

// Searcher resolves relevance-ranked candidates.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) ([]facet.Candidate, error)
}

// Faceter resolves aggregate counts.
type Faceter interface {
	Facets(ctx context.Context, req FacetRequest) ([]facet.Entry, error)
}

// Backend is the remote query service behind the candidate lists.
type Backend interface {
	Searcher
	Faceter
}

// HealthChecker verifies that a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
