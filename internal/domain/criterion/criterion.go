package criterion

import (
	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion/modifier"
)

// Kind discriminates the value shape of a criterion.
type Kind string

// Kind constants.
const (
	KindString       Kind = "string"
	KindBoolean      Kind = "boolean"
	KindNumber       Kind = "number"
	KindDuration     Kind = "duration"
	KindDate         Kind = "date"
	KindTimestamp    Kind = "timestamp"
	KindLabeledIDs   Kind = "labeled_ids"
	KindHierarchical Kind = "hierarchical"
	KindEnum         Kind = "enum"
	KindStashID      Kind = "stash_id"
	KindPhash        Kind = "phash"
)

// IsValid checks if the kind is a known value shape.
func (k Kind) IsValid() bool {
	switch k {
	case KindString, KindBoolean, KindNumber, KindDuration, KindDate, KindTimestamp,
		KindLabeledIDs, KindHierarchical, KindEnum, KindStashID, KindPhash:
		return true
	}
	return false
}

// IsSet reports whether the kind holds a list of labeled ids.
func (k Kind) IsSet() bool {
	return k == KindLabeledIDs || k == KindHierarchical
}

// Key identifies a criterion inside a filter. The value is not part of it,
// so editing only the value updates the criterion in place.
type Key struct {
	ParameterName string
	Modifier      modifier.Modifier
}

// LabeledID is a backend key with the display label cached at selection time.
type LabeledID struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Criterion is a single typed predicate. The set of implementations is closed:
// switch on Kind() or a type switch over the concrete pointer types.
type Criterion interface {
	Kind() Kind
	Option() *Option
	Type() string
	Modifier() modifier.Modifier
	SetModifier(m modifier.Modifier) error
	IsValid() bool
	Label(f Formatter) string
	QueryInput() any
	Key() Key
	Clone() Criterion

	marshalValue() ([]byte, error)
	unmarshalValue(data []byte) error
}

// base carries the fields every variant shares. dup copies values that hold
// references so criteria never alias one another's state.
type base[V any] struct {
	option   *Option
	modifier modifier.Modifier
	value    V
	dup      func(V) V
}

func newBase[V any](o *Option, v V, dup func(V) V) base[V] {
	if dup == nil {
		dup = func(v V) V { return v }
	}
	return base[V]{option: o, modifier: o.DefaultModifier(), value: v, dup: dup}
}

// Option returns the metadata this criterion was made from.
func (b *base[V]) Option() *Option { return b.option }

// Type returns the predicate type id.
func (b *base[V]) Type() string { return b.option.Type() }

// Kind returns the value shape.
func (b *base[V]) Kind() Kind { return b.option.Kind() }

// Modifier returns the current comparison operator.
func (b *base[V]) Modifier() modifier.Modifier { return b.modifier }

// SetModifier changes the operator. Modifiers outside the option are rejected.
func (b *base[V]) SetModifier(m modifier.Modifier) error {
	if !b.option.Allows(m) {
		return domain.NewModifierError(b.option.Type(), string(m))
	}
	b.modifier = m
	return nil
}

// Value returns a copy of the current value.
func (b *base[V]) Value() V { return b.dup(b.value) }

// SetValue replaces the value with a copy of v.
func (b *base[V]) SetValue(v V) { b.value = b.dup(v) }

// Key returns the identity of the criterion inside a filter.
func (b *base[V]) Key() Key {
	return Key{ParameterName: b.option.ParameterName(), Modifier: b.modifier}
}

func (b *base[V]) cloneBase() base[V] {
	return base[V]{option: b.option, modifier: b.modifier, value: b.dup(b.value), dup: b.dup}
}

func (b *base[V]) nullCheck() bool { return b.modifier.IsNullCheck() }

func cloneIDs(v []LabeledID) []LabeledID {
	if v == nil {
		return nil
	}
	return append([]LabeledID{}, v...)
}

func cloneStrings(v []string) []string {
	if v == nil {
		return nil
	}
	return append([]string{}, v...)
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Int returns a pointer to v, for filling optional numeric value fields.
func Int(v int) *int { return &v }

// IDs returns the ids of items in order.
func IDs(items []LabeledID) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
