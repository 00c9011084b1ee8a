package gateway

import (
	"sync"
)

// Registry maps exposed tool names to descriptors. It is filled during
// startup, sealed, and read concurrently afterwards.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]*Descriptor
	sealed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Descriptor)}
}

// Register adds d. The first registration of a name wins; later ones fail
// with *DuplicateNameError.
func (r *Registry) Register(d *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}
	if existing, ok := r.tools[d.Name]; ok {
		return &DuplicateNameError{Name: d.Name, Existing: existing.Kind, Incoming: d.Kind}
	}
	r.tools[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Seal ends the registration phase.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	r.mu.RLock()
	d, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return d, nil
}

// List returns the metadata of every tool in registration order.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Metadata())
	}
	return out
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
