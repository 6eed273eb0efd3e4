package criterion

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// Depth sentinels.
const (
	DepthExact = 0
	DepthAll   = -1
)

// HierarchicalValue is a tree selection: matched items, excluded items and the
// number of descendant levels included (0 exact, -1 all).
type HierarchicalValue struct {
	Items    []LabeledID `json:"items"`
	Excluded []LabeledID `json:"excluded"`
	Depth    int         `json:"depth"`
}

func (v HierarchicalValue) clone() HierarchicalValue {
	if v.Items == nil {
		v.Items = []LabeledID{}
	}
	if v.Excluded == nil {
		v.Excluded = []LabeledID{}
	}
	return HierarchicalValue{Items: cloneIDs(v.Items), Excluded: cloneIDs(v.Excluded), Depth: v.Depth}
}

// HierarchicalInput is the query predicate of tree-shaped criteria.
type HierarchicalInput struct {
	Modifier modifier.Modifier `json:"modifier"`
	Value    []string          `json:"value,omitempty"`
	Excludes []string          `json:"excludes,omitempty"`
	Depth    int               `json:"depth"`
}

// HierarchicalCriterion matches tags, studios and other tree-shaped entities.
type HierarchicalCriterion struct {
	base[HierarchicalValue]
}

// NewHierarchical creates an empty hierarchical criterion with exact depth.
func NewHierarchical(o *Option) *HierarchicalCriterion {
	return &HierarchicalCriterion{base: newBase(o, HierarchicalValue{}.clone(), HierarchicalValue.clone)}
}

// SetModifier changes the operator. Only Includes and IncludesAll keep the excluded list.
func (c *HierarchicalCriterion) SetModifier(m modifier.Modifier) error {
	if err := c.base.SetModifier(m); err != nil {
		return err
	}
	if m != modifier.Includes && m != modifier.IncludesAll {
		c.value.Excluded = []LabeledID{}
	}
	return nil
}

// SetDepth sets an explicit descendant depth. Negative values are reserved
// for IncludeDescendants and rejected.
func (c *HierarchicalCriterion) SetDepth(n int) error {
	if n < 0 {
		return fmt.Errorf("depth %d: %w", n, domain.ErrInvalidValue)
	}
	c.value.Depth = n
	return nil
}

// IncludeDescendants toggles matching every descendant level.
func (c *HierarchicalCriterion) IncludeDescendants(on bool) {
	if on {
		c.value.Depth = DepthAll
		return
	}
	c.value.Depth = DepthExact
}

// IncludesDescendants reports whether every descendant level is matched.
func (c *HierarchicalCriterion) IncludesDescendants() bool { return c.value.Depth == DepthAll }

// IsValid requires an item or exclusion unless the modifier is a null check.
func (c *HierarchicalCriterion) IsValid() bool {
	if c.nullCheck() {
		return true
	}
	return len(c.value.Items) > 0 || len(c.value.Excluded) > 0
}

// Label renders items, a depth suffix and exclusions.
func (c *HierarchicalCriterion) Label(f Formatter) string {
	if c.nullCheck() {
		return formatLabel(f, c.option, c.modifier, "")
	}

	mod := c.modifier
	values := c.value.Items
	excluded := c.value.Excluded
	if len(values) == 0 && len(excluded) > 0 {
		mod = modifier.Excludes
		values, excluded = excluded, nil
	}

	args := map[string]string{
		"criterion":      f.Format(c.option.MessageID(), nil),
		"modifierString": f.Format(mod.MessageID(), nil),
		"valueString":    joinLabels(values),
	}
	id := MsgFormat
	if c.value.Depth != DepthExact && c.modifier != modifier.Equals {
		args["depth"] = depthLabel(f, c.value.Depth)
		id = MsgFormatDepth
	}
	if len(excluded) > 0 {
		args["excludedString"] = joinLabels(excluded)
		if id == MsgFormatDepth {
			id = MsgFormatBoth
		} else {
			id = MsgFormatExcludes
		}
	}
	return f.Format(id, args)
}

func depthLabel(f Formatter, depth int) string {
	if depth == DepthAll {
		return f.Format(MsgAll, nil)
	}
	return strconv.Itoa(depth)
}

// QueryInput returns HierarchicalInput. Equals always compiles with exact depth.
func (c *HierarchicalCriterion) QueryInput() any {
	in := HierarchicalInput{Modifier: c.modifier}
	if c.nullCheck() {
		return in
	}
	in.Value = IDs(c.value.Items)
	in.Excludes = IDs(c.value.Excluded)
	in.Depth = c.value.Depth
	if c.modifier == modifier.Equals {
		in.Depth = DepthExact
	}
	return in
}

// Clone returns an independent copy.
func (c *HierarchicalCriterion) Clone() Criterion {
	return &HierarchicalCriterion{base: c.cloneBase()}
}

func (c *HierarchicalCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *HierarchicalCriterion) unmarshalValue(data []byte) error {
	var v HierarchicalValue
	if err := decodeStrict(data, &v); err != nil {
		return err
	}
	if v.Depth < DepthAll {
		return fmt.Errorf("depth %d out of range", v.Depth)
	}
	c.value = v.clone()
	return nil
}

// restore applies a saved modifier and value. Old filters stored exclusion
// as an Excludes modifier; it becomes Includes with the items moved to excluded.
func (c *HierarchicalCriterion) restore(m modifier.Modifier, value []byte) error {
	legacyExcludes := m == modifier.Excludes && !modifier.Contains(c.option.modifiers, modifier.Excludes)
	if legacyExcludes {
		m = modifier.Includes
	}
	if m != "" {
		if err := c.SetModifier(m); err != nil {
			return err
		}
	}
	if len(value) > 0 {
		if err := c.unmarshalValue(value); err != nil {
			return fmt.Errorf("%v: %w", err, domain.ErrInvalidValue)
		}
	}
	if legacyExcludes {
		c.value.Excluded = append(c.value.Excluded, c.value.Items...)
		c.value.Items = []LabeledID{}
	}
	return nil
}
