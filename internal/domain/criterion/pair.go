package criterion

import (
	"encoding/json"
	"strconv"

	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// StashIDValue identifies an entity in an external system. An empty endpoint matches any.
type StashIDValue struct {
	Endpoint string `json:"endpoint"`
	StashID  string `json:"stash_id"`
}

// StashIDInput is the query predicate of stash id criteria.
type StashIDInput struct {
	Modifier modifier.Modifier `json:"modifier"`
	Endpoint *string           `json:"endpoint,omitempty"`
	StashID  *string           `json:"stash_id,omitempty"`
}

// StashIDCriterion matches an external identifier pair.
type StashIDCriterion struct {
	base[StashIDValue]
}

// NewStashID creates an empty stash id criterion.
func NewStashID(o *Option) *StashIDCriterion {
	return &StashIDCriterion{base: newBase(o, StashIDValue{}, nil)}
}

// IsValid requires an id unless the modifier is a null check.
func (c *StashIDCriterion) IsValid() bool {
	return c.nullCheck() || c.value.StashID != ""
}

// Label renders "id (endpoint)" or just the id.
func (c *StashIDCriterion) Label(f Formatter) string {
	v := c.value.StashID
	if c.value.Endpoint != "" {
		v += " (" + c.value.Endpoint + ")"
	}
	return formatLabel(f, c.option, c.modifier, v)
}

// QueryInput returns StashIDInput.
func (c *StashIDCriterion) QueryInput() any {
	in := StashIDInput{Modifier: c.modifier}
	if c.nullCheck() {
		return in
	}
	if c.value.Endpoint != "" {
		ep := c.value.Endpoint
		in.Endpoint = &ep
	}
	id := c.value.StashID
	in.StashID = &id
	return in
}

// Clone returns an independent copy.
func (c *StashIDCriterion) Clone() Criterion { return &StashIDCriterion{base: c.cloneBase()} }

func (c *StashIDCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *StashIDCriterion) unmarshalValue(data []byte) error {
	return decodeStrict(data, &c.value)
}

// PhashValue is a perceptual hash with an optional match distance.
type PhashValue struct {
	Value    string `json:"value"`
	Distance *int   `json:"distance,omitempty"`
}

func (v PhashValue) clone() PhashValue {
	return PhashValue{Value: v.Value, Distance: cloneInt(v.Distance)}
}

// PhashDistanceInput is the query predicate of phash criteria.
type PhashDistanceInput struct {
	Modifier modifier.Modifier `json:"modifier"`
	Value    string            `json:"value,omitempty"`
	Distance *int              `json:"distance,omitempty"`
}

// PhashCriterion matches media by approximate perceptual hash.
type PhashCriterion struct {
	base[PhashValue]
}

// NewPhash creates an empty phash criterion.
func NewPhash(o *Option) *PhashCriterion {
	return &PhashCriterion{base: newBase(o, PhashValue{}, PhashValue.clone)}
}

// IsValid requires a hash unless the modifier is a null check.
func (c *PhashCriterion) IsValid() bool {
	return c.nullCheck() || c.value.Value != ""
}

// Label renders "hash (distance)".
func (c *PhashCriterion) Label(f Formatter) string {
	v := c.value.Value
	if c.value.Distance != nil && v != "" {
		v += " (" + strconv.Itoa(*c.value.Distance) + ")"
	}
	return formatLabel(f, c.option, c.modifier, v)
}

// QueryInput returns PhashDistanceInput.
func (c *PhashCriterion) QueryInput() any {
	in := PhashDistanceInput{Modifier: c.modifier}
	if c.nullCheck() {
		return in
	}
	in.Value = c.value.Value
	in.Distance = cloneInt(c.value.Distance)
	return in
}

// Clone returns an independent copy.
func (c *PhashCriterion) Clone() Criterion { return &PhashCriterion{base: c.cloneBase()} }

func (c *PhashCriterion) marshalValue() ([]byte, error) { return json.Marshal(c.value) }

func (c *PhashCriterion) unmarshalValue(data []byte) error {
	var v PhashValue
	if err := decodeStrict(data, &v); err != nil {
		return err
	}
	c.value = v
	return nil
}
