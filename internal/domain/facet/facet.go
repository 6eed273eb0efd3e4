// Package facet merges relevance-ranked search results with backend aggregate
// counts into the candidate list of a filter widget.
package facet

import "sort"

// Candidate is one selectable entry. Count is nil when the backend did not
// report a count for the id. Meta marks any/none style entries.
type Candidate struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count *int   `json:"count,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
}

// MetaCandidate creates a meta entry.
func MetaCandidate(id, label string) Candidate {
	return Candidate{ID: id, Label: label, Meta: true}
}

// Count is an aggregate row keyed by id.
type Count struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

// Entry is an aggregate row as returned by the query backend.
type Entry struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// CountsFromEntries indexes backend rows by id. Later duplicates win.
func CountsFromEntries(entries []Entry) map[string]Count {
	out := make(map[string]Count, len(entries))
	for _, e := range entries {
		out[e.ID] = Count{Count: e.Count, Label: e.Label}
	}
	return out
}

// Set is a set of ids.
type Set map[string]struct{}

// NewSet creates a set holding ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set is empty.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// BuildOptions are the inputs of BuildCandidates.
type BuildOptions struct {
	Search   []Candidate
	Selected Set
	Query    string
	Counts   map[string]Count
	// Loading is true while a facet request for the current filter is in flight.
	Loading bool
}

func split(list []Candidate) (meta, entities []Candidate) {
	for _, c := range list {
		if c.Meta {
			meta = append(meta, c)
		} else {
			entities = append(entities, c)
		}
	}
	return meta, entities
}

// BuildCandidates produces the ordered candidate list. Meta entries always come first.
//
// With loaded facets and no query the facet table is authoritative: candidates
// come from it alone, without selected ids or zero counts, by descending count.
// Otherwise search results are kept in order with counts attached where known,
// dropping only those with a count of exactly zero. While facets load nothing
// is filtered.
func BuildCandidates(o BuildOptions) []Candidate {
	meta, entities := split(o.Search)
	out := make([]Candidate, 0, len(o.Search)+len(o.Counts))
	out = append(out, meta...)

	if o.Loading {
		return append(out, entities...)
	}

	if len(o.Counts) > 0 && o.Query == "" {
		return append(out, fromCounts(o.Counts, o.Selected)...)
	}

	for _, c := range entities {
		if fc, ok := o.Counts[c.ID]; ok {
			if fc.Count == 0 {
				continue
			}
			n := fc.Count
			c.Count = &n
		}
		out = append(out, c)
	}
	return out
}

func fromCounts(counts map[string]Count, selected Set) []Candidate {
	out := make([]Candidate, 0, len(counts))
	for id, fc := range counts {
		if fc.Count == 0 || selected.Has(id) {
			continue
		}
		n := fc.Count
		out = append(out, Candidate{ID: id, Label: fc.Label, Count: &n})
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].Count != *out[j].Count {
			return *out[i].Count > *out[j].Count
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BuildEnumCandidates filters a closed value domain. Selected ids are always
// removed. Once counts are loaded and non-empty, options without a positive
// count are removed too, since every member of the domain is counted.
func BuildEnumCandidates(options []Candidate, selected Set, counts map[string]Count, loading bool) []Candidate {
	out := make([]Candidate, 0, len(options))
	useCounts := !loading && len(counts) > 0
	for _, c := range options {
		if selected.Has(c.ID) {
			continue
		}
		if useCounts {
			fc, ok := counts[c.ID]
			if !ok || fc.Count == 0 {
				continue
			}
			n := fc.Count
			c.Count = &n
		}
		out = append(out, c)
	}
	return out
}
