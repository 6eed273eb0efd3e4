package candidates

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/facet"
	"github.com/stashapp/stash-sub011/internal/domain/listfilter"
	"github.com/stashapp/stash-sub011/internal/domain/selection"
)

// DefaultLimit caps search results and facet rows when the caller sets none.
const DefaultLimit = 50

var metaLabels = map[selection.Meta]string{
	selection.Any:         "(Any)",
	selection.None:        "(None)",
	selection.AnyOf:       "(Any of)",
	selection.Only:        "(Only)",
	selection.IncludeSubs: "(Include sub-items)",
}

// Request is one candidate lookup for a filter field.
type Request struct {
	Filter *listfilter.Filter
	Option *criterion.Option
	Query  string
	Limit  int
}

// Result is the merged candidate list. Degraded names the paths that failed.
type Result struct {
	Candidates []facet.Candidate `json:"candidates"`
	Degraded   []string          `json:"degraded,omitempty"`
}

// Resolver answers one-off candidate lookups, running search and facets
// concurrently. It holds no per-widget state.
type Resolver struct {
	searcher Searcher
	faceter  Faceter
	limit    int
	logger   *zap.Logger
}

// NewResolver creates a resolver. limit <= 0 uses DefaultLimit.
func NewResolver(s Searcher, f Faceter, limit int, logger *zap.Logger) *Resolver {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Resolver{searcher: s, faceter: f, limit: limit, logger: logger}
}

// Resolve builds the candidates of req.Option against req.Filter. A failure
// of one path degrades to the other; when no path succeeds the facet error is returned.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Result, error) {
	o := req.Option
	limit := req.Limit
	if limit <= 0 || limit > r.limit {
		limit = r.limit
	}

	meta, selected, err := r.selectionOf(req.Filter, o)
	if err != nil {
		return Result{}, err
	}

	enum := len(o.Domain()) > 0
	searchEnabled := !enum && searchable(o.InputType())
	var (
		results   []facet.Candidate
		entries   []facet.Entry
		searchErr error
		facetErr  error
	)
	g, gctx := errgroup.WithContext(ctx)

	if searchEnabled {
		g.Go(func() error {
			results, searchErr = r.searcher.Search(gctx, domain.SearchRequest{
				Entity: string(o.InputType()), Query: req.Query, Limit: limit,
			})
			return nil
		})
	}
	g.Go(func() error {
		entries, facetErr = r.faceter.Facets(gctx, domain.FacetRequest{
			Mode:   req.Filter.Mode(),
			Field:  o.Type(),
			Q:      req.Filter.SearchTerm,
			Filter: req.Filter.MakeFilterExcluding(o.Type()),
			Limit:  limit,
		})
		return nil
	})
	_ = g.Wait()

	if ctx.Err() != nil {
		return Result{}, fmt.Errorf("resolve candidates: %w", ctx.Err())
	}

	var out Result
	if searchErr != nil {
		r.logger.Warn("Candidate search failed", zap.String("field", o.Type()), zap.Error(searchErr))
		out.Degraded = append(out.Degraded, pathSearch)
	}
	if facetErr != nil {
		r.logger.Warn("Facet request failed", zap.String("field", o.Type()), zap.Error(facetErr))
		out.Degraded = append(out.Degraded, pathFacets)
	}
	if facetErr != nil && (searchErr != nil || !searchEnabled) {
		return Result{}, fmt.Errorf("resolve %s candidates: %w", o.Type(), facetErr)
	}

	var counts map[string]facet.Count
	if facetErr == nil {
		counts = facet.CountsFromEntries(entries)
	}

	if enum {
		options := make([]facet.Candidate, 0, len(o.Domain()))
		for _, v := range o.Domain() {
			options = append(options, facet.Candidate{ID: v, Label: v})
		}
		out.Candidates = append(meta, facet.BuildEnumCandidates(options, selected, counts, false)...)
		return out, nil
	}

	search := make([]facet.Candidate, 0, len(meta)+len(results))
	search = append(search, meta...)
	search = append(search, results...)
	out.Candidates = facet.BuildCandidates(facet.BuildOptions{
		Search:   search,
		Selected: selected,
		Query:    req.Query,
		Counts:   counts,
	})
	return out, nil
}

// searchable reports whether t names an entity the search path can look up.
func searchable(t criterion.InputType) bool {
	switch t {
	case criterion.InputPerformers, criterion.InputStudios, criterion.InputTags,
		criterion.InputScenes, criterion.InputGroups, criterion.InputGalleries:
		return true
	}
	return false
}

// selectionOf derives the meta entries and selected ids from the field's
// current criterion, if the filter has one.
func (r *Resolver) selectionOf(f *listfilter.Filter, o *criterion.Option) ([]facet.Candidate, facet.Set, error) {
	c, ok := f.Find(o.Type())
	if !ok {
		c = o.MakeCriterion()
	}

	switch v := c.(type) {
	case *criterion.EnumCriterion:
		return nil, facet.NewSet(v.Value()...), nil
	case *criterion.LabeledIDsCriterion, *criterion.HierarchicalCriterion:
	default:
		return nil, nil, nil
	}

	s, t, err := selection.FromCriterion(c)
	if err != nil {
		return nil, nil, fmt.Errorf("selection of %s: %w", o.Type(), err)
	}
	var meta []facet.Candidate
	for _, m := range selection.AvailableMeta(s, t) {
		meta = append(meta, facet.MetaCandidate(string(m), metaLabels[m]))
	}
	selected := facet.NewSet(criterion.IDs(s.Items)...)
	for _, id := range criterion.IDs(s.Excluded) {
		selected[id] = struct{}{}
	}
	return meta, selected, nil
}
