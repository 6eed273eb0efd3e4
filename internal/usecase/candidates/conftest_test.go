package candidates

import (
	"context"
	"testing"
	"time"

	"github.com/stashapp/stash-sub011/internal/catalog"
	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
	"github.com/stashapp/stash-sub011/internal/domain/facet"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	"github.com/stashapp/stash-sub011/internal/domain/listfilter"
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

var testRegistry = catalog.Default()

func option(t *testing.T, typ string) *criterion.Option {
	t.Helper()
	o, ok := testRegistry.Find(mode.Scenes, typ)
	if !ok {
		t.Fatalf("option %s not registered", typ)
	}
	return o
}

func sceneFilter(t *testing.T) *listfilter.Filter {
	t.Helper()
	f, err := listfilter.New(mode.Scenes, "date")
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// withRating returns a scene filter holding rating100 > n.
func withRating(t *testing.T, n int) *listfilter.Filter {
	t.Helper()
	f := sceneFilter(t)
	c := option(t, "rating100").MakeCriterion().(*criterion.NumberCriterion)
	if err := c.SetModifier(modifier.GreaterThan); err != nil {
		t.Fatal(err)
	}
	c.SetValue(criterion.NumberValue{Value: criterion.Int(n)})
	f.Replace(c)
	return f
}

func ratingOf(req domain.FacetRequest) int {
	in, ok := req.Filter["rating100"].(criterion.IntInput)
	if !ok || in.Value == nil {
		return -1
	}
	return *in.Value
}

// waitFor reads snapshots until ok accepts one.
func waitFor(t *testing.T, ch <-chan Snapshot, ok func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if ok(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for widget state")
			return Snapshot{}
		}
	}
}

// eventually polls cond until it holds.
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestWidget(t *testing.T, s Searcher, f Faceter) (*Widget, <-chan Snapshot) {
	t.Helper()
	ch := make(chan Snapshot, 64)
	w := NewWidget(WidgetConfig{
		Mode:     mode.Scenes,
		Field:    "performers",
		Entity:   "performers",
		Limit:    20,
		Debounce: 20 * time.Millisecond,
		Notify:   func(s Snapshot) { ch <- s },
	}, s, f)
	t.Cleanup(w.Close)
	return w, ch
}

func candidateIDs(list []facet.Candidate) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
