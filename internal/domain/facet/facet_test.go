package facet

import "testing"

var anyMeta = MetaCandidate("any", "(Any)")

func searchList() []Candidate {
	return []Candidate{
		anyMeta,
		{ID: "1", Label: "Performer A"},
		{ID: "2", Label: "Performer B"},
		{ID: "3", Label: "Performer C"},
	}
}

func studioCounts() map[string]Count {
	return CountsFromEntries([]Entry{
		{ID: "10", Count: 50, Label: "Studio X"},
		{ID: "20", Count: 30, Label: "Studio Y"},
		{ID: "30", Count: 10, Label: "Studio Z"},
	})
}

func ids(list []Candidate) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		if !c.Meta {
			out = append(out, c.ID)
		}
	}
	return out
}

func find(list []Candidate, id string) (Candidate, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
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

func TestBuildCandidates_FacetsWithoutQuery(t *testing.T) {
	got := BuildCandidates(BuildOptions{Search: searchList(), Counts: studioCounts()})

	if !got[0].Meta || got[0].ID != "any" {
		t.Fatalf("first candidate = %+v, want meta", got[0])
	}
	if want := []string{"10", "20", "30"}; !equalIDs(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	labels := map[string]string{"10": "Studio X", "20": "Studio Y", "30": "Studio Z"}
	for _, c := range got[1:] {
		if c.Label != labels[c.ID] {
			t.Errorf("%s label = %q, want %q", c.ID, c.Label, labels[c.ID])
		}
		if c.Count == nil {
			t.Errorf("%s has no count", c.ID)
		}
	}
	if *got[1].Count != 50 {
		t.Errorf("top count = %d, want 50", *got[1].Count)
	}
}

func TestBuildCandidates_ExcludesSelected(t *testing.T) {
	got := BuildCandidates(BuildOptions{Search: searchList(), Counts: studioCounts(), Selected: NewSet("20")})
	if want := []string{"10", "30"}; !equalIDs(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestBuildCandidates_ExcludesZeroFacet(t *testing.T) {
	counts := studioCounts()
	counts["40"] = Count{Count: 0, Label: "Empty"}
	got := BuildCandidates(BuildOptions{Counts: counts})
	if _, ok := find(got, "40"); ok {
		t.Error("zero-count facet entry must be excluded")
	}
}

func TestBuildCandidates_TiesAreDeterministic(t *testing.T) {
	counts := map[string]Count{
		"b": {Count: 5, Label: "Beta"},
		"a": {Count: 5, Label: "Alpha"},
		"c": {Count: 9, Label: "Gamma"},
		"d": {Count: 5, Label: "Alpha"},
	}
	for i := 0; i < 20; i++ {
		got := BuildCandidates(BuildOptions{Counts: counts})
		if want := []string{"c", "a", "d", "b"}; !equalIDs(ids(got), want) {
			t.Fatalf("ids = %v, want %v", ids(got), want)
		}
	}
}

func TestBuildCandidates_QueryMergesCounts(t *testing.T) {
	counts := map[string]Count{
		"1": {Count: 50, Label: "Performer A"},
		"2": {Count: 0, Label: "Performer B"},
	}
	got := BuildCandidates(BuildOptions{Search: searchList(), Query: "search term", Counts: counts})

	if want := []string{"1", "3"}; !equalIDs(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	c1, _ := find(got, "1")
	if c1.Count == nil || *c1.Count != 50 {
		t.Errorf("candidate 1 count = %v, want 50", c1.Count)
	}
	c3, _ := find(got, "3")
	if c3.Count != nil {
		t.Errorf("candidate 3 count = %d, want unknown", *c3.Count)
	}
	if !got[0].Meta {
		t.Error("meta must stay first")
	}
}

func TestBuildCandidates_QueryKeepsItemsOutsideTopN(t *testing.T) {
	counts := map[string]Count{
		"1": {Count: 1000, Label: "Item 1"},
		"2": {Count: 500, Label: "Item 2"},
		"3": {Count: 250, Label: "Item 3"},
	}
	search := []Candidate{{ID: "1", Label: "Item 1"}, {ID: "99", Label: "Specific Item Found"}}
	got := BuildCandidates(BuildOptions{Search: search, Query: "Specific", Counts: counts})

	item, ok := find(got, "99")
	if !ok {
		t.Fatal("search hit outside the facet top N must be kept")
	}
	if item.Label != "Specific Item Found" || item.Count != nil {
		t.Errorf("item 99 = %+v", item)
	}
	if _, ok := find(got, "2"); ok {
		t.Error("facet-only ids must not appear when a query is active")
	}
}

func TestBuildCandidates_NoQueryIgnoresSearch(t *testing.T) {
	counts := map[string]Count{
		"top1": {Count: 1000, Label: "Most Popular"},
		"top2": {Count: 500, Label: "Second Popular"},
	}
	search := []Candidate{{ID: "random1", Label: "Random Item"}}
	got := BuildCandidates(BuildOptions{Search: search, Counts: counts})
	if want := []string{"top1", "top2"}; !equalIDs(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestBuildCandidates_LoadingReturnsSearch(t *testing.T) {
	stale := map[string]Count{
		"1": {Count: 0, Label: "Performer A"},
		"2": {Count: 0, Label: "Performer B"},
		"9": {Count: 100, Label: "Stale"},
	}
	for _, q := range []string{"", "perf"} {
		search := searchList()
		got := BuildCandidates(BuildOptions{Search: search, Query: q, Counts: stale, Loading: true, Selected: NewSet("1")})
		if len(got) != len(search) {
			t.Fatalf("query %q: got %d candidates, want %d", q, len(got), len(search))
		}
		for i := range search {
			if got[i].ID != search[i].ID || got[i].Count != nil {
				t.Errorf("query %q: got[%d] = %+v, want %+v", q, i, got[i], search[i])
			}
		}
	}
}

func TestBuildCandidates_EmptyFacetsReturnSearch(t *testing.T) {
	search := searchList()
	got := BuildCandidates(BuildOptions{Search: search, Counts: map[string]Count{}})
	if !equalIDs(ids(got), []string{"1", "2", "3"}) {
		t.Errorf("ids = %v", ids(got))
	}
}

func TestBuildCandidates_MetaFirst(t *testing.T) {
	search := []Candidate{
		{ID: "5", Label: "Five"},
		MetaCandidate("any", "(Any)"),
		MetaCandidate("none", "(None)"),
	}
	for _, o := range []BuildOptions{
		{Search: search, Counts: map[string]Count{"1": {Count: 50, Label: "Item 1"}}},
		{Search: search, Query: "f"},
		{Search: search, Loading: true},
	} {
		got := BuildCandidates(o)
		if !got[0].Meta || !got[1].Meta {
			t.Errorf("meta not first: %+v", got)
		}
	}
}

func TestBuildCandidates_DoesNotMutateInput(t *testing.T) {
	search := searchList()
	BuildCandidates(BuildOptions{Search: search, Query: "x", Counts: map[string]Count{"1": {Count: 3}}})
	if search[1].Count != nil {
		t.Error("input candidate was modified")
	}
}

func enumOptions() []Candidate {
	return []Candidate{
		{ID: "FULL_HD", Label: "1080p"},
		{ID: "FOUR_K", Label: "4K"},
		{ID: "LOW", Label: "240p"},
	}
}

func TestBuildEnumCandidates(t *testing.T) {
	counts := map[string]Count{
		"FULL_HD": {Count: 12},
		"LOW":     {Count: 0},
	}

	tests := []struct {
		name     string
		selected Set
		counts   map[string]Count
		loading  bool
		want     []string
	}{
		{"drops undefined and zero", nil, counts, false, []string{"FULL_HD"}},
		{"selected always removed", NewSet("FULL_HD"), counts, false, []string{}},
		{"loading returns all", nil, counts, true, []string{"FULL_HD", "FOUR_K", "LOW"}},
		{"undefined counts return all", nil, nil, false, []string{"FULL_HD", "FOUR_K", "LOW"}},
		{"loading still removes selected", NewSet("LOW"), nil, true, []string{"FULL_HD", "FOUR_K"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildEnumCandidates(enumOptions(), tt.selected, tt.counts, tt.loading)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("ids = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestCountsFromEntries(t *testing.T) {
	got := CountsFromEntries([]Entry{{ID: "1", Count: 4, Label: "One"}, {ID: "1", Count: 7, Label: "Uno"}})
	if len(got) != 1 || got["1"].Count != 7 || got["1"].Label != "Uno" {
		t.Errorf("got %+v", got)
	}
}
