package stashfilter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	candidatesuc "github.com/stashapp/stash-sub011/internal/usecase/candidates"
)

// Candidate types.
type (
	CandidateResult = candidatesuc.Result
	Widget          = candidatesuc.Widget
	Snapshot        = candidatesuc.Snapshot
)

var emptyFilter = []byte(`{"c":[]}`)

// CandidateService looks up the values a filter field can take.
type CandidateService struct {
	mode     mode.Mode
	valid    bool
	raw      string
	label    string
	filters  filterUseCase
	resolver candidateResolver
	searcher candidatesuc.Searcher
	faceter  candidatesuc.Faceter
	limit    int
	debounce time.Duration
	logger   *zap.Logger
	obs      *observer
}

// Resolve merges search results for q with facet counts of field under the
// saved filter. A nil filter means no criteria. limit <= 0 uses the client cap.
// When only one of the two paths fails the result is returned with that path
// listed in Degraded.
func (s *CandidateService) Resolve(
	ctx context.Context, field string, saved []byte, q string, limit int,
) (res CandidateResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("candidates.resolve", s.label, start, err) }()

	if !s.valid {
		return CandidateResult{}, fmt.Errorf("%w: %q", ErrUnknownMode, s.raw)
	}
	o, err := s.filters.Option(s.mode, field)
	if err != nil {
		return CandidateResult{}, fmt.Errorf("resolve: %w", err)
	}
	if len(saved) == 0 {
		saved = emptyFilter
	}
	f, _, err := s.filters.Restore(s.mode, saved)
	if err != nil {
		return CandidateResult{}, fmt.Errorf("resolve: %w", err)
	}
	return s.resolver.Resolve(ctx, candidatesuc.Request{Filter: f, Option: o, Query: q, Limit: limit})
}

// NewWidget starts a stateful editor for field. notify, if set, receives
// every state change. Close the widget when the editor goes away.
func (s *CandidateService) NewWidget(field string, notify func(Snapshot)) (*Widget, error) {
	if !s.valid {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s.raw)
	}
	o, err := s.filters.Option(s.mode, field)
	if err != nil {
		return nil, fmt.Errorf("widget: %w", err)
	}
	limit := s.limit
	if limit <= 0 {
		limit = candidatesuc.DefaultLimit
	}
	return candidatesuc.NewWidget(candidatesuc.WidgetConfig{
		Mode:     s.mode,
		Field:    o.Type(),
		Entity:   string(o.InputType()),
		Limit:    limit,
		Debounce: s.debounce,
		Notify:   notify,
		Logger:   s.logger,
	}, s.searcher, s.faceter), nil
}
