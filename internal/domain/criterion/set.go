package criterion

import (
	"encoding/json"
	"strings"

	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// MultiInput is the query predicate of flat multi-select criteria.
type MultiInput struct {
	Modifier modifier.Modifier `json:"modifier"`
	Value    []string          `json:"value,omitempty"`
}

// LabeledIDsCriterion matches a flat set of entities (performers, groups, galleries).
type LabeledIDsCriterion struct {
	base[[]LabeledID]
}

// NewLabeledIDs creates an empty labeled id criterion.
func NewLabeledIDs(o *Option) *LabeledIDsCriterion {
	return &LabeledIDsCriterion{base: newBase(o, []LabeledID{}, cloneIDs)}
}

// IsValid requires at least one item unless the modifier is a null check.
func (c *LabeledIDsCriterion) IsValid() bool {
	return c.nullCheck() || len(c.value) > 0
}

// Label renders the cached labels.
func (c *LabeledIDsCriterion) Label(f Formatter) string {
	return formatLabel(f, c.option, c.modifier, joinLabels(c.value))
}

// QueryInput returns MultiInput with item ids.
func (c *LabeledIDsCriterion) QueryInput() any {
	in := MultiInput{Modifier: c.modifier}
	if !c.nullCheck() {
		in.Value = IDs(c.value)
	}
	return in
}

// Clone returns an independent copy.
func (c *LabeledIDsCriterion) Clone() Criterion {
	return &LabeledIDsCriterion{base: c.cloneBase()}
}

func (c *LabeledIDsCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *LabeledIDsCriterion) unmarshalValue(data []byte) error {
	var v []LabeledID
	if err := decodeStrict(data, &v); err != nil {
		return err
	}
	if v == nil {
		v = []LabeledID{}
	}
	c.value = v
	return nil
}

// EnumCriterion matches members of a closed value domain (resolution, gender).
type EnumCriterion struct {
	base[[]string]
}

// NewEnum creates an empty enum criterion.
func NewEnum(o *Option) *EnumCriterion {
	return &EnumCriterion{base: newBase(o, []string{}, cloneStrings)}
}

// IsValid requires at least one in-domain value unless the modifier is a null check.
func (c *EnumCriterion) IsValid() bool {
	if c.nullCheck() {
		return true
	}
	if len(c.value) == 0 {
		return false
	}
	for _, v := range c.value {
		if !c.option.InDomain(v) {
			return false
		}
	}
	return true
}

// Label renders the values.
func (c *EnumCriterion) Label(f Formatter) string {
	return formatLabel(f, c.option, c.modifier, strings.Join(c.value, ", "))
}

// QueryInput returns MultiInput with the values.
func (c *EnumCriterion) QueryInput() any {
	in := MultiInput{Modifier: c.modifier}
	if !c.nullCheck() {
		in.Value = cloneStrings(c.value)
	}
	return in
}

// Clone returns an independent copy.
func (c *EnumCriterion) Clone() Criterion { return &EnumCriterion{base: c.cloneBase()} }

func (c *EnumCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *EnumCriterion) unmarshalValue(data []byte) error {
	var v []string
	if err := decodeStrict(data, &v); err != nil {
		return err
	}
	if v == nil {
		v = []string{}
	}
	c.value = v
	return nil
}
