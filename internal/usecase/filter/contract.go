package filter

import (
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
)

// Registry resolves the criterion options of each collection.
type Registry interface {
	HasMode(m mode.Mode) bool
	Options(m mode.Mode) []*criterion.Option
	Find(m mode.Mode, typ string) (*criterion.Option, bool)
	Decode(m mode.Mode, data []byte) (criterion.Criterion, error)
}
