package filter

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
	"github.com/stashapp/stash-sub011/internal/domain/listfilter"
	"github.com/stashapp/stash-sub011/internal/domain/selection"
)

// OptionInfo describes one criterion option to clients building an editor.
type OptionInfo struct {
	Type            string              `json:"type"`
	MessageID       string              `json:"message_id"`
	ParameterName   string              `json:"parameter_name"`
	Kind            criterion.Kind      `json:"kind"`
	Modifiers       []modifier.Modifier `json:"modifiers"`
	DefaultModifier modifier.Modifier   `json:"default_modifier"`
	Domain          []string            `json:"domain,omitempty"`
	InputType       criterion.InputType `json:"input_type,omitempty"`
	MultiValue      bool                `json:"multi_value"`
	Hierarchical    bool                `json:"hierarchical"`
	CanExclude      bool                `json:"can_exclude"`
}

// Warning reports a saved criterion that was skipped while restoring a filter.
type Warning struct {
	Index int    `json:"index"`
	Type  string `json:"type,omitempty"`
	Error string `json:"error"`
}

// Compiled is a restored filter in every form the backend and the UI consume.
type Compiled struct {
	Filter      map[string]any        `json:"filter"`
	FindFilter  listfilter.FindFilter `json:"find_filter"`
	Labels      []string              `json:"labels"`
	Query       string                `json:"query"`
	Fingerprint string                `json:"fingerprint"`
	Warnings    []Warning             `json:"warnings"`
}

// Restored is a filter rebuilt from URL parameters, as saved-filter JSON.
type Restored struct {
	Saved    json.RawMessage `json:"saved"`
	Warnings []Warning       `json:"warnings"`
}

// ReduceRequest applies one widget action to a set-valued criterion.
// Criterion is the saved criterion JSON; when empty a fresh criterion of Type is used.
type ReduceRequest struct {
	Type      string           `json:"type"`
	Criterion json.RawMessage  `json:"criterion,omitempty"`
	Action    selection.Action `json:"action"`
}

// Reduced is the criterion after an action, with the meta options it now offers.
type Reduced struct {
	Criterion json.RawMessage  `json:"criterion"`
	Label     string           `json:"label"`
	Valid     bool             `json:"valid"`
	Available []selection.Meta `json:"available_meta"`
	Active    []selection.Meta `json:"active_meta"`
}

// Service restores, compiles and edits filters against the option registry.
type Service struct {
	registry  Registry
	formatter criterion.Formatter
	logger    *zap.Logger
}

// New creates a filter service. A nil formatter renders English labels.
func New(reg Registry, fm criterion.Formatter, logger *zap.Logger) *Service {
	if fm == nil {
		fm = criterion.English
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{registry: reg, formatter: fm, logger: logger}
}

func (s *Service) checkMode(m mode.Mode) error {
	if !m.IsValid() || !s.registry.HasMode(m) {
		return fmt.Errorf("%q: %w", m, domain.ErrUnknownMode)
	}
	return nil
}

// Option returns the option typ of m.
func (s *Service) Option(m mode.Mode, typ string) (*criterion.Option, error) {
	if err := s.checkMode(m); err != nil {
		return nil, err
	}
	o, ok := s.registry.Find(m, typ)
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", m, typ, domain.ErrUnknownCriterionType)
	}
	return o, nil
}

// Options lists the options of m in registration order. A non-empty typ
// narrows the list to that option.
func (s *Service) Options(m mode.Mode, typ string) ([]OptionInfo, error) {
	if typ != "" {
		o, err := s.Option(m, typ)
		if err != nil {
			return nil, err
		}
		return []OptionInfo{describe(o)}, nil
	}
	if err := s.checkMode(m); err != nil {
		return nil, err
	}
	opts := s.registry.Options(m)
	out := make([]OptionInfo, 0, len(opts))
	for _, o := range opts {
		out = append(out, describe(o))
	}
	return out, nil
}

func describe(o *criterion.Option) OptionInfo {
	return OptionInfo{
		Type:            o.Type(),
		MessageID:       o.MessageID(),
		ParameterName:   o.ParameterName(),
		Kind:            o.Kind(),
		Modifiers:       append([]modifier.Modifier{}, o.Modifiers()...),
		DefaultModifier: o.DefaultModifier(),
		Domain:          o.Domain(),
		InputType:       o.InputType(),
		MultiValue:      o.MultiValue(),
		Hierarchical:    o.Hierarchical(),
		CanExclude:      o.CanExclude(),
	}
}

// Restore rebuilds a filter from saved-filter JSON.
func (s *Service) Restore(m mode.Mode, data []byte) (*listfilter.Filter, []Warning, error) {
	if err := s.checkMode(m); err != nil {
		return nil, nil, err
	}
	f, decodeErrs, err := listfilter.FromSaved(s.registry, m, data)
	if err != nil {
		return nil, nil, fmt.Errorf("restore filter: %w", err)
	}
	return f, s.warnings(m, decodeErrs), nil
}

// Compile restores saved-filter JSON and compiles it.
func (s *Service) Compile(m mode.Mode, data []byte) (*Compiled, error) {
	f, warnings, err := s.Restore(m, data)
	if err != nil {
		return nil, err
	}
	query, err := f.EncodeQuery()
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return &Compiled{
		Filter:      f.MakeFilter(),
		FindFilter:  f.MakeFindFilter(),
		Labels:      f.Labels(s.formatter),
		Query:       query,
		Fingerprint: f.Fingerprint(),
		Warnings:    warnings,
	}, nil
}

// FromQuery rebuilds a filter from URL query parameters as saved-filter JSON.
func (s *Service) FromQuery(m mode.Mode, raw string) (*Restored, error) {
	if err := s.checkMode(m); err != nil {
		return nil, err
	}
	f, decodeErrs, err := listfilter.FromQuery(s.registry, m, raw)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	data, err := f.MarshalSaved()
	if err != nil {
		return nil, fmt.Errorf("encode saved filter: %w", err)
	}
	return &Restored{Saved: data, Warnings: s.warnings(m, decodeErrs)}, nil
}

func (s *Service) warnings(m mode.Mode, errs []*domain.DecodeError) []Warning {
	out := make([]Warning, 0, len(errs))
	for _, e := range errs {
		s.logger.Debug("Skipped saved criterion",
			zap.String("mode", string(m)), zap.Int("index", e.Index), zap.String("type", e.Type), zap.Error(e.Err))
		out = append(out, Warning{Index: e.Index, Type: e.Type, Error: e.Err.Error()})
	}
	return out
}

// Reduce applies req.Action to a set-valued criterion of m.
func (s *Service) Reduce(m mode.Mode, req ReduceRequest) (*Reduced, error) {
	c, err := s.criterionOf(m, req)
	if err != nil {
		return nil, err
	}
	state, traits, err := selection.FromCriterion(c)
	if err != nil {
		return nil, err
	}
	next, err := selection.Reduce(state, traits, req.Action)
	if err != nil {
		return nil, fmt.Errorf("reduce %s: %w", c.Type(), err)
	}
	if err := selection.Apply(c, next); err != nil {
		return nil, fmt.Errorf("apply %s: %w", c.Type(), err)
	}
	data, err := criterion.Encode(c)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Type(), err)
	}
	return &Reduced{
		Criterion: data,
		Label:     c.Label(s.formatter),
		Valid:     c.IsValid(),
		Available: orEmpty(selection.AvailableMeta(next, traits)),
		Active:    orEmpty(selection.ActiveMeta(next, traits)),
	}, nil
}

func (s *Service) criterionOf(m mode.Mode, req ReduceRequest) (criterion.Criterion, error) {
	if len(req.Criterion) == 0 {
		o, err := s.Option(m, req.Type)
		if err != nil {
			return nil, err
		}
		return o.MakeCriterion(), nil
	}
	if err := s.checkMode(m); err != nil {
		return nil, err
	}
	c, err := s.registry.Decode(m, req.Criterion)
	if err != nil {
		return nil, fmt.Errorf("decode criterion: %w", err)
	}
	if req.Type != "" && req.Type != c.Type() {
		return nil, fmt.Errorf("criterion is %s, not %s: %w", c.Type(), req.Type, domain.ErrInvalidValue)
	}
	return c, nil
}

func orEmpty(list []selection.Meta) []selection.Meta {
	if list == nil {
		return []selection.Meta{}
	}
	return list
}
