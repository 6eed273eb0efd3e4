package candidates

import (
	"context"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/facet"
)

// Searcher resolves relevance-ranked candidates.
type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) ([]facet.Candidate, error)
}

// Faceter resolves aggregate counts for a field.
type Faceter interface {
	Facets(ctx context.Context, req domain.FacetRequest) ([]facet.Entry, error)
}
