package stashfilter

import "github.com/stashapp/stash-sub011/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrUnknownMode          = domain.ErrUnknownMode
	ErrUnknownCriterionType = domain.ErrUnknownCriterionType
	ErrInvalidModifier      = domain.ErrInvalidModifier
	ErrInvalidValue         = domain.ErrInvalidValue
	ErrMetaUnavailable      = domain.ErrMetaUnavailable
	ErrExclusionUnsupported = domain.ErrExclusionUnsupported
	ErrBackendUnavailable   = domain.ErrBackendUnavailable
)
