package registry

import (
	"fmt"
	"sync"

	"github.com/stashapp/stash-sub011/internal/domain"
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
)

// Registry holds the criterion options of each entity collection, in display order.
// Options are registered at startup; lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	ordered map[mode.Mode][]*criterion.Option
	byType  map[mode.Mode]map[string]*criterion.Option
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		ordered: make(map[mode.Mode][]*criterion.Option),
		byType:  make(map[mode.Mode]map[string]*criterion.Option),
	}
}

// Register appends o to the options of m.
func (r *Registry) Register(m mode.Mode, o *criterion.Option) error {
	if !m.IsValid() {
		return fmt.Errorf("register %q: %w", m, domain.ErrUnknownMode)
	}
	if o == nil {
		return fmt.Errorf("register %s: nil option: %w", m, domain.ErrInvalidValue)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byType[m]
	if !ok {
		idx = make(map[string]*criterion.Option)
		r.byType[m] = idx
	}
	if _, dup := idx[o.Type()]; dup {
		return fmt.Errorf("register %s/%s: %w", m, o.Type(), domain.ErrAlreadyExists)
	}
	idx[o.Type()] = o
	r.ordered[m] = append(r.ordered[m], o)
	return nil
}

// MustRegister registers every option and panics on the first error.
func (r *Registry) MustRegister(m mode.Mode, opts ...*criterion.Option) {
	for _, o := range opts {
		if err := r.Register(m, o); err != nil {
			panic(err)
		}
	}
}

// Find returns the option of typ within m.
func (r *Registry) Find(m mode.Mode, typ string) (*criterion.Option, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byType[m][typ]
	return o, ok
}

// MakeCriterion creates a fresh criterion of typ within m.
func (r *Registry) MakeCriterion(m mode.Mode, typ string) (criterion.Criterion, error) {
	if !r.HasMode(m) {
		return nil, fmt.Errorf("%q: %w", m, domain.ErrUnknownMode)
	}
	o, ok := r.Find(m, typ)
	if !ok {
		return nil, fmt.Errorf("%s/%q: %w", m, typ, domain.ErrUnknownCriterionType)
	}
	return o.MakeCriterion(), nil
}

// Options returns the ordered options of m. The slice is a copy.
func (r *Registry) Options(m mode.Mode) []*criterion.Option {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*criterion.Option(nil), r.ordered[m]...)
}

// HasMode reports whether any option is registered for m.
func (r *Registry) HasMode(m mode.Mode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ordered[m]) > 0
}

// Lookup returns a type resolver scoped to m, for the criterion codec.
func (r *Registry) Lookup(m mode.Mode) criterion.Lookup {
	return func(typ string) (*criterion.Option, bool) {
		return r.Find(m, typ)
	}
}

// Decode restores one serialized criterion of m.
func (r *Registry) Decode(m mode.Mode, data []byte) (criterion.Criterion, error) {
	if !r.HasMode(m) {
		return nil, fmt.Errorf("%q: %w", m, domain.ErrUnknownMode)
	}
	return criterion.Decode(data, r.Lookup(m))
}
