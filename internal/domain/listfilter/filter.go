// Package listfilter holds the filter aggregate of a list screen: the active
// criteria of one entity collection plus search, sort and paging state.
package listfilter

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
)

// Defaults of a fresh filter.
const (
	DefaultPage    = 1
	DefaultPerPage = 40
	NoSeed         = -1

	sortRandom   = "random"
	randomPrefix = "random_"
)

// Direction is the sort direction.
type Direction string

// Direction constants.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// seedSource yields 8-digit random sort seeds. Replaced in tests.
var seedSource = func() int { return rand.IntN(100_000_000) }

// Filter is the aggregate. It owns its criteria: hand a criterion to another
// filter only through Clone.
type Filter struct {
	mode mode.Mode

	SearchTerm string
	Page       int
	PerPage    int
	SortBy     string
	Direction  Direction
	// RandomSeed is used when SortBy is "random". NoSeed means "pick one on compile".
	RandomSeed int

	criteria []criterion.Criterion
}

// New creates an empty filter for m.
func New(m mode.Mode, defaultSort string) (*Filter, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%q: %w", m, domain.ErrUnknownMode)
	}
	return &Filter{
		mode:       m,
		Page:       DefaultPage,
		PerPage:    DefaultPerPage,
		SortBy:     defaultSort,
		Direction:  Asc,
		RandomSeed: NoSeed,
	}, nil
}

// Mode returns the entity collection being filtered.
func (f *Filter) Mode() mode.Mode { return f.mode }

// Criteria returns the criteria in order. The slice is a copy; the criteria are not.
func (f *Filter) Criteria() []criterion.Criterion {
	return append([]criterion.Criterion(nil), f.criteria...)
}

// Len returns the number of criteria.
func (f *Filter) Len() int { return len(f.criteria) }

func (f *Filter) indexOf(typ string) int {
	for i, c := range f.criteria {
		if c.Type() == typ {
			return i
		}
	}
	return -1
}

// Find returns the criterion of typ.
func (f *Filter) Find(typ string) (criterion.Criterion, bool) {
	if i := f.indexOf(typ); i >= 0 {
		return f.criteria[i], true
	}
	return nil, false
}

// Add appends c. A criterion of the same type already present fails with ErrAlreadyExists.
func (f *Filter) Add(c criterion.Criterion) error {
	if f.indexOf(c.Type()) >= 0 {
		return fmt.Errorf("criterion %q: %w", c.Type(), domain.ErrAlreadyExists)
	}
	f.criteria = append(f.criteria, c)
	return nil
}

// Replace swaps the criterion of the same type in place, or appends c if there is none.
func (f *Filter) Replace(c criterion.Criterion) {
	if i := f.indexOf(c.Type()); i >= 0 {
		f.criteria[i] = c
		return
	}
	f.criteria = append(f.criteria, c)
}

// RemoveByType drops the criterion of typ and reports whether one was removed.
func (f *Filter) RemoveByType(typ string) bool {
	i := f.indexOf(typ)
	if i < 0 {
		return false
	}
	f.criteria = append(f.criteria[:i], f.criteria[i+1:]...)
	return true
}

// Clear drops every criterion.
func (f *Filter) Clear() { f.criteria = nil }

// Clone deep-copies the filter, criteria included.
func (f *Filter) Clone() *Filter {
	out := *f
	out.criteria = make([]criterion.Criterion, len(f.criteria))
	for i, c := range f.criteria {
		out.criteria[i] = c.Clone()
	}
	return &out
}

// Sort returns the compiled sort key: "random_<seed>" for random sorting, picking
// a seed if none is set. Any other sort clears the seed.
func (f *Filter) Sort() string {
	if f.SortBy != sortRandom {
		f.RandomSeed = NoSeed
		return f.SortBy
	}
	if f.RandomSeed == NoSeed {
		f.RandomSeed = seedSource()
	}
	return randomPrefix + strconv.Itoa(f.RandomSeed)
}

// MakeFilter compiles the valid criteria into {parameterName: predicate}.
// Invalid criteria are skipped so a half-edited filter never reaches the backend.
func (f *Filter) MakeFilter() map[string]any {
	return f.MakeFilterExcluding("")
}

// MakeFilterExcluding compiles every valid criterion except the one of typ,
// as used for the facet counts of the field being edited.
func (f *Filter) MakeFilterExcluding(typ string) map[string]any {
	out := make(map[string]any, len(f.criteria))
	for _, c := range f.criteria {
		if c.Type() == typ || !c.IsValid() {
			continue
		}
		out[c.Option().ParameterName()] = c.QueryInput()
	}
	return out
}

// FindFilter is the search, paging and sort part of a query.
type FindFilter struct {
	Q         string    `json:"q,omitempty"`
	Page      int       `json:"page"`
	PerPage   int       `json:"per_page"`
	Sort      string    `json:"sort,omitempty"`
	Direction Direction `json:"direction"`
}

// MakeFindFilter compiles search, paging and sort.
func (f *Filter) MakeFindFilter() FindFilter {
	return FindFilter{
		Q:         f.SearchTerm,
		Page:      f.Page,
		PerPage:   f.PerPage,
		Sort:      f.Sort(),
		Direction: f.Direction,
	}
}

// Labels renders every criterion label in order.
func (f *Filter) Labels(fm criterion.Formatter) []string {
	out := make([]string, len(f.criteria))
	for i, c := range f.criteria {
		out[i] = c.Label(fm)
	}
	return out
}

// Fingerprint identifies the compiled object filter and search term.
// Paging and sort are not part of it.
func (f *Filter) Fingerprint() string {
	return fingerprint(f.mode, "", f.SearchTerm, f.MakeFilter())
}

// FacetKey identifies the facet request of field typ: the search term and
// the compiled filter without typ.
func (f *Filter) FacetKey(typ string) string {
	return fingerprint(f.mode, typ, f.SearchTerm, f.MakeFilterExcluding(typ))
}

func fingerprint(m mode.Mode, field, q string, filter map[string]any) string {
	// map keys marshal in sorted order, so the encoding is stable
	data, err := json.Marshal(struct {
		Mode   mode.Mode      `json:"m"`
		Field  string         `json:"f,omitempty"`
		Q      string         `json:"q,omitempty"`
		Filter map[string]any `json:"c"`
	}{m, field, q, filter})
	if err != nil {
		data = []byte(fmt.Sprintf("%s|%s|%s|%v", m, field, q, filter))
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
