package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownMode signals an entity collection that has no registered options.
	ErrUnknownMode = errors.New("unknown filter mode")
	// ErrUnknownCriterionType signals a criterion type missing from the registry.
	ErrUnknownCriterionType = errors.New("unknown criterion type")
	// ErrInvalidModifier signals a modifier outside the option's allowed set.
	ErrInvalidModifier = errors.New("invalid modifier")
	// ErrInvalidValue signals a value that does not fit the criterion's shape.
	ErrInvalidValue = errors.New("invalid value")
	// ErrMetaUnavailable signals a meta selection not offered in the current state.
	ErrMetaUnavailable = errors.New("meta option unavailable")
	// ErrExclusionUnsupported signals an exclude action the criterion cannot hold.
	ErrExclusionUnsupported = errors.New("exclusion unsupported")
	// ErrBackendUnavailable signals a failed round trip to the query backend.
	ErrBackendUnavailable = errors.New("query backend unavailable")
)

// ModifierError wraps ErrInvalidModifier with the offending type and modifier.
type ModifierError struct {
	Type     string
	Modifier string
}

func (e *ModifierError) Error() string {
	return fmt.Sprintf("%s: %q is not allowed for %q", ErrInvalidModifier.Error(), e.Modifier, e.Type)
}

func (e *ModifierError) Unwrap() error { return ErrInvalidModifier }

// NewModifierError creates an invalid modifier error.
func NewModifierError(criterionType, modifier string) error {
	return &ModifierError{Type: criterionType, Modifier: modifier}
}

// DecodeError reports a single criterion that could not be restored.
// Index is the position of the criterion within its saved filter (-1 if standalone).
type DecodeError struct {
	Index int
	Type  string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("criterion %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("criterion %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
