package criterion

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// Saved is the serialized form of a criterion: {type, modifier, value?}.
// Value is absent for null-check modifiers.
type Saved struct {
	Type     string            `json:"type"`
	Modifier modifier.Modifier `json:"modifier"`
	Value    json.RawMessage   `json:"value,omitempty"`
}

// Lookup resolves a criterion type to its option.
type Lookup func(typ string) (*Option, bool)

// restorer is implemented by variants whose saved form needs more than
// SetModifier followed by a value decode.
type restorer interface {
	restore(m modifier.Modifier, value []byte) error
}

// ToSaved converts c to its serialized form.
func ToSaved(c Criterion) (Saved, error) {
	s := Saved{Type: c.Type(), Modifier: c.Modifier()}
	if c.Modifier().IsNullCheck() {
		return s, nil
	}
	v, err := c.marshalValue()
	if err != nil {
		return Saved{}, fmt.Errorf("marshal %s value: %w", c.Type(), err)
	}
	s.Value = v
	return s, nil
}

// Encode serializes c as JSON.
func Encode(c Criterion) ([]byte, error) {
	s, err := ToSaved(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// FromSaved rebuilds a criterion. Unknown types fail with ErrUnknownCriterionType,
// values that do not fit the variant's shape with ErrInvalidValue.
func FromSaved(s Saved, lookup Lookup) (Criterion, error) {
	o, ok := lookup(s.Type)
	if !ok {
		return nil, fmt.Errorf("%q: %w", s.Type, domain.ErrUnknownCriterionType)
	}
	c := o.MakeCriterion()

	value := []byte(s.Value)
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		value = nil
	}

	if r, ok := c.(restorer); ok {
		if err := r.restore(s.Modifier, value); err != nil {
			return nil, err
		}
		return c, nil
	}

	if s.Modifier != "" {
		if err := c.SetModifier(s.Modifier); err != nil {
			return nil, err
		}
	}
	if len(value) > 0 {
		if err := c.unmarshalValue(value); err != nil {
			return nil, fmt.Errorf("%s value: %v: %w", s.Type, err, domain.ErrInvalidValue)
		}
	}
	return c, nil
}

// Decode parses a serialized criterion.
func Decode(data []byte, lookup Lookup) (Criterion, error) {
	var s Saved
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode criterion: %v: %w", err, domain.ErrInvalidValue)
	}
	return FromSaved(s, lookup)
}

// Equal reports whether a and b have the same type, modifier and serialized value.
func Equal(a, b Criterion) bool {
	if a == nil || b == nil {
		return a == b
	}
	ea, err := Encode(a)
	if err != nil {
		return false
	}
	eb, err := Encode(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after value")
	}
	return nil
}
