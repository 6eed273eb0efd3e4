package candidates

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/facet"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	"github.com/stashapp/stash-sub011/internal/domain/listfilter"
	"github.com/stashapp/stash-sub011/internal/metrics"
)

// DefaultDebounce is the pause after the last keystroke before a search is sent.
const DefaultDebounce = 250 * time.Millisecond

const (
	pathSearch = "search"
	pathFacets = "facets"
)

// WidgetConfig describes the filter field a widget edits.
type WidgetConfig struct {
	Mode mode.Mode
	// Field is the criterion type being edited.
	Field string
	// Entity is what the search path looks up ("performers", "tags", ...).
	Entity   string
	Limit    int
	Debounce time.Duration
	// Notify, if set, receives a snapshot after every state change. It is
	// called outside the widget lock.
	Notify func(Snapshot)
	Logger *zap.Logger
}

// Snapshot is the widget state at one instant.
type Snapshot struct {
	Query       string
	Results     []facet.Candidate
	Counts      map[string]facet.Count
	Loading     bool
	SearchToken uint64
	FacetToken  uint64
	StaleSearch int
	StaleFacets int
}

// Widget coordinates the search and facet requests of one active filter
// field. Each path carries a token; only the response to the latest issued
// request is applied.
type Widget struct {
	id       string
	cfg      WidgetConfig
	searcher Searcher
	faceter  Faceter
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	closed       bool
	query        string
	timer        *time.Timer
	searchToken  uint64
	searchCancel context.CancelFunc
	results      []facet.Candidate
	// resultsQuery is the query the current results were searched with
	resultsQuery string

	facetKey    string
	facetToken  uint64
	facetCancel context.CancelFunc
	counts      map[string]facet.Count
	loading     bool

	staleSearch int
	staleFacets int
}

// NewWidget creates a widget. Close it when the field editor goes away.
func NewWidget(cfg WidgetConfig, s Searcher, f Faceter) *Widget {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	return &Widget{
		id:       id,
		cfg:      cfg,
		searcher: s,
		faceter:  f,
		logger:   logger.With(zap.String("widget_id", id), zap.String("field", cfg.Field)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ID identifies the widget in logs.
func (w *Widget) ID() string { return w.id }

// SetQuery schedules a search for q once typing settles. A query typed before
// the previous one fired replaces it.
func (w *Widget) SetQuery(q string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.query = q
	w.searchToken++
	token := w.searchToken
	if w.searchCancel != nil {
		w.searchCancel()
		w.searchCancel = nil
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce, func() { w.runSearch(token, q) })
}

// Refresh sends the current query immediately, skipping the debounce.
func (w *Widget) Refresh() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.searchToken++
	token, q := w.searchToken, w.query
	w.mu.Unlock()
	go w.runSearch(token, q)
}

func (w *Widget) runSearch(token uint64, q string) {
	w.mu.Lock()
	if w.closed || token != w.searchToken {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(w.ctx)
	w.searchCancel = cancel
	w.mu.Unlock()

	res, err := w.searcher.Search(ctx, domain.SearchRequest{Entity: w.cfg.Entity, Query: q, Limit: w.cfg.Limit})
	cancel()

	w.mu.Lock()
	if w.closed || token != w.searchToken {
		w.staleSearch++
		w.mu.Unlock()
		metrics.FacetStaleTotal.WithLabelValues(pathSearch).Inc()
		return
	}
	w.searchCancel = nil
	if err != nil {
		// keep the last known good list
		metrics.FacetRequestsTotal.WithLabelValues(pathSearch, "error").Inc()
		w.logger.Warn("Candidate search failed", zap.String("query", q), zap.Error(err))
	} else {
		metrics.FacetRequestsTotal.WithLabelValues(pathSearch, "ok").Inc()
		w.results = res
		w.resultsQuery = q
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
}

// SetFilter issues a facet request for the current filter shape. The field's
// own criterion is left out of the request; a filter whose shape did not
// change issues nothing.
func (w *Widget) SetFilter(f *listfilter.Filter) {
	key := f.FacetKey(w.cfg.Field)
	req := domain.FacetRequest{
		Mode:   w.cfg.Mode,
		Field:  w.cfg.Field,
		Q:      f.SearchTerm,
		Filter: f.MakeFilterExcluding(w.cfg.Field),
		Limit:  w.cfg.Limit,
	}

	w.mu.Lock()
	if w.closed || (key == w.facetKey && w.facetToken > 0) {
		w.mu.Unlock()
		return
	}
	w.facetKey = key
	w.facetToken++
	token := w.facetToken
	if w.facetCancel != nil {
		w.facetCancel()
	}
	ctx, cancel := context.WithCancel(w.ctx)
	w.facetCancel = cancel
	w.loading = true
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.notify(snap)
	go w.runFacets(ctx, cancel, token, req)
}

func (w *Widget) runFacets(ctx context.Context, cancel context.CancelFunc, token uint64, req domain.FacetRequest) {
	entries, err := w.faceter.Facets(ctx, req)
	cancel()

	w.mu.Lock()
	if w.closed || token != w.facetToken {
		w.staleFacets++
		w.mu.Unlock()
		metrics.FacetStaleTotal.WithLabelValues(pathFacets).Inc()
		return
	}
	w.facetCancel = nil
	w.loading = false
	if err != nil {
		// without counts the builder falls back to the search list;
		// forgetting the key lets the same shape be requested again
		w.counts = nil
		w.facetKey = ""
		metrics.FacetRequestsTotal.WithLabelValues(pathFacets, "error").Inc()
		w.logger.Warn("Facet request failed", zap.Error(err))
	} else {
		w.counts = facet.CountsFromEntries(entries)
		metrics.FacetRequestsTotal.WithLabelValues(pathFacets, "ok").Inc()
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
}

// Candidates builds the candidate list from the current state. meta entries
// are placed first. Until a typed query's search lands, the list follows the
// query of the results on hand.
func (w *Widget) Candidates(meta []facet.Candidate, selected facet.Set) []facet.Candidate {
	w.mu.Lock()
	search := make([]facet.Candidate, 0, len(meta)+len(w.results))
	search = append(search, meta...)
	search = append(search, w.results...)
	opts := facet.BuildOptions{
		Search:   search,
		Selected: selected,
		Query:    w.resultsQuery,
		Counts:   w.counts,
		Loading:  w.loading,
	}
	w.mu.Unlock()
	return facet.BuildCandidates(opts)
}

// Snapshot returns a copy of the current state.
func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Widget) snapshotLocked() Snapshot {
	return Snapshot{
		Query:       w.query,
		Results:     append([]facet.Candidate(nil), w.results...),
		Counts:      maps.Clone(w.counts),
		Loading:     w.loading,
		SearchToken: w.searchToken,
		FacetToken:  w.facetToken,
		StaleSearch: w.staleSearch,
		StaleFacets: w.staleFacets,
	}
}

func (w *Widget) notify(s Snapshot) {
	if w.cfg.Notify != nil {
		w.cfg.Notify(s)
	}
}

// Close cancels in-flight requests and stops the pending search. Responses
// arriving afterwards are discarded.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.cancel()
	w.logger.Debug("Widget closed")
}
