package cards

import (
	"fmt"
	"sort"
	"sync"
)

// Built-in flow identifiers.
const (
	FlowTally  = "tally"
	FlowSource = "source"
	FlowBoth   = "both"
)

// Factory constructs a flow configured with the session defaults.
type Factory func(Defaults) (Flow, error)

// Registry maintains known flow factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register installs a flow factory. Returns an error if the ID already
// exists.
func (r *Registry) Register(id string, factory Factory) error {
	if id == "" {
		return fmt.Errorf("cards: flow id is required")
	}
	if factory == nil {
		return fmt.Errorf("cards: factory is required for %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("cards: flow %s already registered", id)
	}
	r.factories[id] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(id string, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic(err)
	}
}

// Resolve constructs a flow by ID.
func (r *Registry) Resolve(id string, d Defaults) (Flow, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cards: unknown flow %s", id)
	}
	return factory(d)
}

// IDs returns a sorted list of registered flow identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultRegistry returns a registry holding the three built-in flows.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(FlowTally, func(d Defaults) (Flow, error) {
		return tallyFlow{defaults: d.normalized()}, nil
	})
	r.MustRegister(FlowSource, func(d Defaults) (Flow, error) {
		return sourceFlow{defaults: d.normalized()}, nil
	})
	r.MustRegister(FlowBoth, func(d Defaults) (Flow, error) {
		return bothFlow{defaults: d.normalized()}, nil
	})
	return r
}
