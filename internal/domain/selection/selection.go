// Package selection turns include/exclude clicks and meta choices on set-valued
// criteria into modifier and value transitions. Every function is pure: the
// input state is never modified.
package selection

import (
	"fmt"
	"slices"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// Meta is a selection that changes the modifier instead of picking a value.
type Meta string

// Meta keys.
const (
	Any         Meta = "any"
	None        Meta = "none"
	AnyOf       Meta = "any_of"
	Only        Meta = "only"
	IncludeSubs Meta = "include_subs"
)

// IsValid checks if the key is a known meta selection.
func (m Meta) IsValid() bool {
	switch m {
	case Any, None, AnyOf, Only, IncludeSubs:
		return true
	}
	return false
}

// State is the editable part of a set-valued criterion.
type State struct {
	Modifier modifier.Modifier     `json:"modifier"`
	Items    []criterion.LabeledID `json:"items"`
	Excluded []criterion.LabeledID `json:"excluded"`
	Depth    int                   `json:"depth"`
}

func (s State) clone() State {
	return State{
		Modifier: s.Modifier,
		Items:    append([]criterion.LabeledID{}, s.Items...),
		Excluded: append([]criterion.LabeledID{}, s.Excluded...),
		Depth:    s.Depth,
	}
}

func (s State) empty() bool { return len(s.Items) == 0 && len(s.Excluded) == 0 }

// Traits are the option properties the reducer depends on.
type Traits struct {
	Default      modifier.Modifier
	Modifiers    []modifier.Modifier
	MultiValue   bool
	Hierarchical bool
	CanExclude   bool
}

// TraitsOf extracts reducer traits from an option.
func TraitsOf(o *criterion.Option) Traits {
	return Traits{
		Default:      o.DefaultModifier(),
		Modifiers:    o.Modifiers(),
		MultiValue:   o.MultiValue(),
		Hierarchical: o.Hierarchical(),
		CanExclude:   o.CanExclude(),
	}
}

func (t Traits) allows(m modifier.Modifier) bool {
	return m == t.Default || modifier.Contains(t.Modifiers, m)
}

// AvailableMeta lists the meta selections offered in state s, in display order.
func AvailableMeta(s State, t Traits) []Meta {
	var out []Meta
	atDefault := s.Modifier == t.Default

	if s.empty() && atDefault {
		if t.allows(modifier.NotNull) {
			out = append(out, Any)
		}
		if t.allows(modifier.IsNull) {
			out = append(out, None)
		}
	}
	if t.MultiValue && len(s.Items) > 0 && atDefault {
		if t.Default != modifier.Includes && t.allows(modifier.Includes) {
			out = append(out, AnyOf)
		}
		if len(s.Excluded) == 0 && t.Default != modifier.Equals && t.allows(modifier.Equals) {
			out = append(out, Only)
		}
	}
	if t.Hierarchical && !s.empty() && s.Depth == criterion.DepthExact && s.Modifier != modifier.Equals {
		out = append(out, IncludeSubs)
	}
	return out
}

// ActiveMeta lists the meta selections currently in effect.
func ActiveMeta(s State, t Traits) []Meta {
	var out []Meta
	switch s.Modifier {
	case modifier.NotNull:
		out = append(out, Any)
	case modifier.IsNull:
		out = append(out, None)
	case modifier.Includes:
		if t.MultiValue && t.Default != modifier.Includes {
			out = append(out, AnyOf)
		}
	case modifier.Equals:
		if t.MultiValue && t.Default != modifier.Equals {
			out = append(out, Only)
		}
	}
	if t.Hierarchical && s.Depth == criterion.DepthAll {
		out = append(out, IncludeSubs)
	}
	return out
}

// SelectMeta applies a meta selection. Keys not offered by AvailableMeta fail
// with ErrMetaUnavailable.
func SelectMeta(s State, t Traits, key Meta) (State, error) {
	if !slices.Contains(AvailableMeta(s, t), key) {
		return s, fmt.Errorf("select %q: %w", key, domain.ErrMetaUnavailable)
	}
	next := s.clone()
	switch key {
	case Any:
		next = State{Modifier: modifier.NotNull, Items: []criterion.LabeledID{}, Excluded: []criterion.LabeledID{}}
	case None:
		next = State{Modifier: modifier.IsNull, Items: []criterion.LabeledID{}, Excluded: []criterion.LabeledID{}}
	case AnyOf:
		next.Modifier = modifier.Includes
	case Only:
		next.Modifier = modifier.Equals
	case IncludeSubs:
		next.Depth = criterion.DepthAll
	}
	return next, nil
}

// UnselectMeta reverts an active meta selection.
func UnselectMeta(s State, t Traits, key Meta) (State, error) {
	if !slices.Contains(ActiveMeta(s, t), key) {
		return s, fmt.Errorf("unselect %q: %w", key, domain.ErrMetaUnavailable)
	}
	next := s.clone()
	if key == IncludeSubs {
		next.Depth = criterion.DepthExact
		return next, nil
	}
	next.Modifier = t.Default
	return next, nil
}

func indexOf(list []criterion.LabeledID, id string) int {
	for i, it := range list {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func remove(list []criterion.LabeledID, id string) []criterion.LabeledID {
	out := list[:0]
	for _, it := range list {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// Select adds a candidate to the included or excluded list.
//
// A null-check modifier is reset to the default first. Under a negation
// modifier the item list already means "excluded", so the candidate joins it.
// Criteria without a separate excluded list switch to Excludes when nothing is
// included yet; otherwise exclusion fails with ErrExclusionUnsupported.
func Select(s State, t Traits, c criterion.LabeledID, exclude bool) (State, error) {
	next := s.clone()
	if next.Modifier.IsNullCheck() {
		next.Modifier = t.Default
	}

	switch {
	case next.Modifier.IsNegation():
		// items already hold the excluded values
	case exclude && t.CanExclude:
		next.Items = remove(next.Items, c.ID)
		if indexOf(next.Excluded, c.ID) < 0 {
			next.Excluded = append(next.Excluded, c)
		}
		return next, nil
	case exclude:
		if len(next.Items) > 0 || !t.allows(modifier.Excludes) {
			return s, fmt.Errorf("exclude %q: %w", c.ID, domain.ErrExclusionUnsupported)
		}
		next.Modifier = modifier.Excludes
	}

	next.Excluded = remove(next.Excluded, c.ID)
	if indexOf(next.Items, c.ID) < 0 {
		next.Items = append(next.Items, c)
	}
	return next, nil
}

// Unselect removes a candidate. When both lists end up empty the modifier
// returns to the default so the meta selections are offered again.
func Unselect(s State, t Traits, c criterion.LabeledID, exclude bool) State {
	next := s.clone()
	if exclude && t.CanExclude && !next.Modifier.IsNegation() {
		next.Excluded = remove(next.Excluded, c.ID)
	} else {
		next.Items = remove(next.Items, c.ID)
	}
	if next.empty() && !next.Modifier.IsNullCheck() {
		next.Modifier = t.Default
	}
	return next
}

// ActionKind names a reducer action.
type ActionKind string

// Action kinds.
const (
	ActionSelect       ActionKind = "select"
	ActionUnselect     ActionKind = "unselect"
	ActionSelectMeta   ActionKind = "select_meta"
	ActionUnselectMeta ActionKind = "unselect_meta"
)

// Action is one user interaction with a set-valued filter widget.
type Action struct {
	Kind      ActionKind          `json:"kind"`
	Candidate criterion.LabeledID `json:"candidate"`
	Exclude   bool                `json:"exclude"`
	Meta      Meta                `json:"meta"`
}

// Reduce dispatches a to the matching transition.
func Reduce(s State, t Traits, a Action) (State, error) {
	switch a.Kind {
	case ActionSelect:
		return Select(s, t, a.Candidate, a.Exclude)
	case ActionUnselect:
		return Unselect(s, t, a.Candidate, a.Exclude), nil
	case ActionSelectMeta:
		return SelectMeta(s, t, a.Meta)
	case ActionUnselectMeta:
		return UnselectMeta(s, t, a.Meta)
	}
	return s, fmt.Errorf("action %q: %w", a.Kind, domain.ErrInvalidValue)
}

// FromCriterion reads the state and traits of a set-valued criterion.
func FromCriterion(c criterion.Criterion) (State, Traits, error) {
	t := TraitsOf(c.Option())
	switch v := c.(type) {
	case *criterion.LabeledIDsCriterion:
		return State{Modifier: v.Modifier(), Items: v.Value(), Excluded: []criterion.LabeledID{}}, t, nil
	case *criterion.HierarchicalCriterion:
		hv := v.Value()
		return State{Modifier: v.Modifier(), Items: hv.Items, Excluded: hv.Excluded, Depth: hv.Depth}, t, nil
	}
	return State{}, Traits{}, fmt.Errorf("%s is not set-valued: %w", c.Type(), domain.ErrInvalidValue)
}

// Apply writes s back into a set-valued criterion.
func Apply(c criterion.Criterion, s State) error {
	switch v := c.(type) {
	case *criterion.LabeledIDsCriterion:
		if len(s.Excluded) > 0 {
			return fmt.Errorf("%s has no excluded list: %w", c.Type(), domain.ErrExclusionUnsupported)
		}
		if err := v.SetModifier(s.Modifier); err != nil {
			return err
		}
		v.SetValue(s.Items)
		return nil
	case *criterion.HierarchicalCriterion:
		if err := v.SetModifier(s.Modifier); err != nil {
			return err
		}
		v.SetValue(criterion.HierarchicalValue{Items: s.Items, Excluded: s.Excluded, Depth: s.Depth})
		return nil
	}
	return fmt.Errorf("%s is not set-valued: %w", c.Type(), domain.ErrInvalidValue)
}
