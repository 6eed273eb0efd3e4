package criterion

import (
	"encoding/json"

	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// StringInput is the query predicate of a free-text criterion.
type StringInput struct {
	Value    string            `json:"value,omitempty"`
	Modifier modifier.Modifier `json:"modifier"`
}

// StringCriterion matches a free-text field.
type StringCriterion struct {
	base[string]
}

// NewString creates an empty string criterion.
func NewString(o *Option) *StringCriterion {
	return &StringCriterion{base: newBase(o, "", nil)}
}

// IsValid requires a value unless the modifier is a null check.
// Closed-domain flags also require the value to be in the domain.
func (c *StringCriterion) IsValid() bool {
	if c.nullCheck() {
		return true
	}
	return c.value != "" && c.option.InDomain(c.value)
}

// Label renders "<field> <modifier> <value>".
func (c *StringCriterion) Label(f Formatter) string {
	return formatLabel(f, c.option, c.modifier, c.value)
}

// QueryInput returns StringInput, or the bare string for modifier-less flags.
func (c *StringCriterion) QueryInput() any {
	if len(c.option.modifiers) == 0 {
		return c.value
	}
	in := StringInput{Modifier: c.modifier}
	if !c.nullCheck() {
		in.Value = c.value
	}
	return in
}

// Clone returns an independent copy.
func (c *StringCriterion) Clone() Criterion {
	return &StringCriterion{base: c.cloneBase()}
}

func (c *StringCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *StringCriterion) unmarshalValue(data []byte) error {
	return decodeStrict(data, &c.value)
}

// BooleanCriterion holds "true" or "false".
type BooleanCriterion struct {
	base[string]
}

// NewBoolean creates a boolean criterion starting at "true".
func NewBoolean(o *Option) *BooleanCriterion {
	return &BooleanCriterion{base: newBase(o, "true", nil)}
}

// IsValid accepts only "true" and "false".
func (c *BooleanCriterion) IsValid() bool {
	return c.value == "true" || c.value == "false"
}

// Label renders "<field> is <true|false>".
func (c *BooleanCriterion) Label(f Formatter) string {
	return formatLabel(f, c.option, c.modifier, f.Format(c.value, nil))
}

// QueryInput returns a bool, or "true"/"false" for string-boolean options.
func (c *BooleanCriterion) QueryInput() any {
	if c.option.compileAsString {
		if c.value == "true" {
			return "true"
		}
		return "false"
	}
	return c.value == "true"
}

// Clone returns an independent copy.
func (c *BooleanCriterion) Clone() Criterion {
	return &BooleanCriterion{base: c.cloneBase()}
}

func (c *BooleanCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *BooleanCriterion) unmarshalValue(data []byte) error {
	return decodeStrict(data, &c.value)
}
