package stashfilter

import (
	"context"

	"github.com/stashapp/stash-sub011/internal/catalog"
	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/facet"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	candidatesuc "github.com/stashapp/stash-sub011/internal/usecase/candidates"
	filteruc "github.com/stashapp/stash-sub011/internal/usecase/filter"
	healthuc "github.com/stashapp/stash-sub011/internal/usecase/health"
)

// --- candidateResolver mock ---

type mockResolver struct {
	resolveFn func(ctx context.Context, req candidatesuc.Request) (candidatesuc.Result, error)
}

func (m *mockResolver) Resolve(ctx context.Context, req candidatesuc.Request) (candidatesuc.Result, error) {
	return m.resolveFn(ctx, req)
}

// --- backend mocks ---

type mockSearcher struct {
	searchFn func(ctx context.Context, req domain.SearchRequest) ([]facet.Candidate, error)
}

func (m *mockSearcher) Search(ctx context.Context, req domain.SearchRequest) ([]facet.Candidate, error) {
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(ctx, req)
}

type mockFaceter struct {
	facetsFn func(ctx context.Context, req domain.FacetRequest) ([]facet.Entry, error)
}

func (m *mockFaceter) Facets(ctx context.Context, req domain.FacetRequest) ([]facet.Entry, error) {
	if m.facetsFn == nil {
		return nil, nil
	}
	return m.facetsFn(ctx, req)
}

// --- cachePurger mock ---

type mockPurger struct {
	n   int64
	err error
}

func (m *mockPurger) Purge(context.Context, mode.Mode) (int64, error) {
	return m.n, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(resolver candidateResolver) *Client {
	return &Client{
		filterSvc: filteruc.New(catalog.Default(), nil, nil),
		resolver:  resolver,
		searcher:  &mockSearcher{},
		faceter:   &mockFaceter{},
	}
}
