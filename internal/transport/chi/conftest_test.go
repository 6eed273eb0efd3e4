package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/catalog"
	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/facet"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	candidatesuc "github.com/stashapp/stash-sub011/internal/usecase/candidates"
	filteruc "github.com/stashapp/stash-sub011/internal/usecase/filter"
	healthuc "github.com/stashapp/stash-sub011/internal/usecase/health"
)

type mockSearcher struct {
	searchFn func(ctx context.Context, req domain.SearchRequest) ([]facet.Candidate, error)
}

func (m *mockSearcher) Search(ctx context.Context, req domain.SearchRequest) ([]facet.Candidate, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return nil, nil
}

type mockFaceter struct {
	facetsFn func(ctx context.Context, req domain.FacetRequest) ([]facet.Entry, error)
}

func (m *mockFaceter) Facets(ctx context.Context, req domain.FacetRequest) ([]facet.Entry, error) {
	if m.facetsFn != nil {
		return m.facetsFn(ctx, req)
	}
	return nil, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockBackend struct{ err error }

func (m *mockBackend) HealthCheck(context.Context) error { return m.err }

type testDeps struct {
	searcher *mockSearcher
	faceter  *mockFaceter
	db       *mockPinger
	backend  *mockBackend
}

func newTestDeps() *testDeps {
	return &testDeps{
		searcher: &mockSearcher{},
		faceter:  &mockFaceter{},
		db:       &mockPinger{},
		backend:  &mockBackend{},
	}
}

func (d *testDeps) handler() http.Handler {
	logger := zap.NewNop()
	s := NewServer(
		filteruc.New(catalog.Default(), nil, logger),
		candidatesuc.NewResolver(d.searcher, d.faceter, 0, logger),
		healthuc.New(d.db, d.backend),
		logger,
	)
	return Handler(s, ChiServerOptions{})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type mockPurger struct {
	purgeFn func(ctx context.Context, m mode.Mode) (int64, error)
}

func (m *mockPurger) Purge(ctx context.Context, md mode.Mode) (int64, error) {
	return m.purgeFn(ctx, md)
}
