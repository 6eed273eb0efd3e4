package stashfilter

import (
	"fmt"
	"time"

	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	"github.com/stashapp/stash-sub011/internal/domain/selection"
	filteruc "github.com/stashapp/stash-sub011/internal/usecase/filter"
)

// Result types of the filter service.
type (
	OptionInfo    = filteruc.OptionInfo
	Warning       = filteruc.Warning
	Compiled      = filteruc.Compiled
	Restored      = filteruc.Restored
	ReduceRequest = filteruc.ReduceRequest
	Reduced       = filteruc.Reduced
)

// Selection actions accepted by Reduce.
type (
	Action     = selection.Action
	ActionKind = selection.ActionKind
	Meta       = selection.Meta
	LabeledID  = criterion.LabeledID
)

// Action kinds.
const (
	ActionSelect       = selection.ActionSelect
	ActionUnselect     = selection.ActionUnselect
	ActionSelectMeta   = selection.ActionSelectMeta
	ActionUnselectMeta = selection.ActionUnselectMeta
)

// Meta selections.
const (
	MetaAny         = selection.Any
	MetaNone        = selection.None
	MetaAnyOf       = selection.AnyOf
	MetaOnly        = selection.Only
	MetaIncludeSubs = selection.IncludeSubs
)

// FilterService works on the saved filters of one entity collection.
type FilterService struct {
	mode  mode.Mode
	valid bool
	raw   string
	label string
	svc   filterUseCase
	obs   *observer
}

func (s *FilterService) checkMode() error {
	if !s.valid {
		return fmt.Errorf("%w: %q", ErrUnknownMode, s.raw)
	}
	return nil
}

// Options lists the criterion options of the collection. A non-empty typ
// narrows the list to that one option.
func (s *FilterService) Options(typ string) (out []OptionInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("filter.options", s.label, start, err) }()

	if err = s.checkMode(); err != nil {
		return nil, err
	}
	out, err = s.svc.Options(s.mode, typ)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	return out, nil
}

// Compile restores a saved filter and renders its backend filter, labels,
// URL query and fingerprint. Criteria that fail to restore are skipped and
// reported as warnings.
func (s *FilterService) Compile(saved []byte) (out *Compiled, err error) {
	start := time.Now()
	defer func() { s.obs.observe("filter.compile", s.label, start, err) }()

	if err = s.checkMode(); err != nil {
		return nil, err
	}
	out, err = s.svc.Compile(s.mode, saved)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return out, nil
}

// FromQuery parses a list URL query string back into a saved filter.
func (s *FilterService) FromQuery(query string) (out *Restored, err error) {
	start := time.Now()
	defer func() { s.obs.observe("filter.from_query", s.label, start, err) }()

	if err = s.checkMode(); err != nil {
		return nil, err
	}
	out, err = s.svc.FromQuery(s.mode, query)
	if err != nil {
		return nil, fmt.Errorf("from query: %w", err)
	}
	return out, nil
}

// Reduce applies one selection action to a labeled or hierarchical criterion.
func (s *FilterService) Reduce(req ReduceRequest) (out *Reduced, err error) {
	start := time.Now()
	defer func() { s.obs.observe("filter.reduce", s.label, start, err) }()

	if err = s.checkMode(); err != nil {
		return nil, err
	}
	out, err = s.svc.Reduce(s.mode, req)
	if err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}
	return out, nil
}
