package emitter

import (
	"fmt"
	"sync"
)

// Registry holds emitters in registration order.
type Registry struct {
	mu       sync.RWMutex
	emitters []Emitter
	byName   map[string]Emitter
}

// NewRegistry creates a new empty emitter registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Emitter)}
}

// Register adds an emitter.
// Returns an error if an emitter with the same name already exists.
func (r *Registry) Register(e Emitter) error {
	if e == nil {
		return fmt.Errorf("cannot register nil emitter")
	}
	name := e.Name()
	if name == "" {
		return fmt.Errorf("emitter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("emitter %s already registered", name)
	}
	r.byName[name] = e
	r.emitters = append(r.emitters, e)
	return nil
}

// MustRegister is Register for static setup; it panics on error.
func (r *Registry) MustRegister(emitters ...Emitter) *Registry {
	for _, e := range emitters {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

// Get retrieves an emitter by name.
func (r *Registry) Get(name string) (Emitter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("emitter %s not found", name)
	}
	return e, nil
}

// List returns all emitters in registration order.
func (r *Registry) List() []Emitter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Emitter, len(r.emitters))
	copy(out, r.emitters)
	return out
}

// Names returns emitter names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.emitters))
	for _, e := range r.emitters {
		out = append(out, e.Name())
	}
	return out
}
