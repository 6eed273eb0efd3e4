package criterion

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// NumberValue is an integer or integer range. Value2 is only read by range modifiers.
type NumberValue struct {
	Value  *int `json:"value,omitempty"`
	Value2 *int `json:"value2,omitempty"`
}

func (v NumberValue) clone() NumberValue {
	return NumberValue{Value: cloneInt(v.Value), Value2: cloneInt(v.Value2)}
}

// IntInput is the query predicate of numeric criteria.
type IntInput struct {
	Modifier modifier.Modifier `json:"modifier"`
	Value    *int              `json:"value,omitempty"`
	Value2   *int              `json:"value2,omitempty"`
}

// decodeNumberValue accepts the object form and the legacy bare number
// that older saved filters carry, which becomes {value: n}.
func decodeNumberValue(data []byte) (NumberValue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		n, err := strconv.Atoi(string(trimmed))
		if err != nil {
			return NumberValue{}, err
		}
		return NumberValue{Value: &n}, nil
	}
	var v NumberValue
	if err := decodeStrict(trimmed, &v); err != nil {
		return NumberValue{}, err
	}
	return v, nil
}

func validRange(m modifier.Modifier, v NumberValue) bool {
	if m.IsNullCheck() {
		return true
	}
	if v.Value == nil {
		return false
	}
	return !m.IsRange() || v.Value2 != nil
}

func numberInput(m modifier.Modifier, v NumberValue) IntInput {
	in := IntInput{Modifier: m}
	if m.IsNullCheck() {
		return in
	}
	in.Value = cloneInt(v.Value)
	if in.Value == nil {
		in.Value = Int(0)
	}
	if m.IsRange() {
		in.Value2 = cloneInt(v.Value2)
	}
	return in
}

func rangeLabel(m modifier.Modifier, v NumberValue, format func(int) string) string {
	if v.Value == nil {
		return ""
	}
	if m.IsRange() && v.Value2 != nil {
		return format(*v.Value) + ", " + format(*v.Value2)
	}
	return format(*v.Value)
}

// NumberCriterion matches an integer field.
type NumberCriterion struct {
	base[NumberValue]
}

// NewNumber creates an empty number criterion.
func NewNumber(o *Option) *NumberCriterion {
	return &NumberCriterion{base: newBase(o, NumberValue{}, NumberValue.clone)}
}

// IsValid requires value, and value2 under range modifiers.
func (c *NumberCriterion) IsValid() bool { return validRange(c.modifier, c.value) }

// Label renders the value or "v, v2" for ranges.
func (c *NumberCriterion) Label(f Formatter) string {
	return formatLabel(f, c.option, c.modifier, rangeLabel(c.modifier, c.value, strconv.Itoa))
}

// QueryInput returns IntInput.
func (c *NumberCriterion) QueryInput() any { return numberInput(c.modifier, c.value) }

// Clone returns an independent copy.
func (c *NumberCriterion) Clone() Criterion { return &NumberCriterion{base: c.cloneBase()} }

func (c *NumberCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *NumberCriterion) unmarshalValue(data []byte) error {
	v, err := decodeNumberValue(data)
	if err != nil {
		return err
	}
	c.value = v
	return nil
}

// DurationCriterion matches a length in seconds.
type DurationCriterion struct {
	base[NumberValue]
}

// NewDuration creates an empty duration criterion.
func NewDuration(o *Option) *DurationCriterion {
	return &DurationCriterion{base: newBase(o, NumberValue{}, NumberValue.clone)}
}

// IsValid requires value, and value2 under range modifiers.
func (c *DurationCriterion) IsValid() bool { return validRange(c.modifier, c.value) }

// Label renders seconds as clock timestamps.
func (c *DurationCriterion) Label(f Formatter) string {
	return formatLabel(f, c.option, c.modifier, rangeLabel(c.modifier, c.value, secondsToTimestamp))
}

// QueryInput returns IntInput in seconds.
func (c *DurationCriterion) QueryInput() any { return numberInput(c.modifier, c.value) }

// Clone returns an independent copy.
func (c *DurationCriterion) Clone() Criterion { return &DurationCriterion{base: c.cloneBase()} }

func (c *DurationCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *DurationCriterion) unmarshalValue(data []byte) error {
	v, err := decodeNumberValue(data)
	if err != nil {
		return err
	}
	c.value = v
	return nil
}
