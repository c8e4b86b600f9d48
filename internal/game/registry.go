package game

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when no implementation is registered under an id.
var ErrNotFound = errors.New("implementation not found")

// DefaultID is the id under which a documented fallback implementation may be registered.
const DefaultID = "default"

// Registry maps behaviour ids (missions, small events, fight actions...) to their
// implementation. It is filled once at start-up and sealed; after Seal it is
// read-only and safe for concurrent lookups without locking.
type Registry[T any] struct {
	kind   string
	impls  map[string]T
	sealed bool
}

func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, impls: map[string]T{}}
}

// Register adds an implementation. Registering twice, an empty id, or after Seal
// is a programming error and panics.
func (r *Registry[T]) Register(id string, impl T) {
	if r.sealed {
		panic(fmt.Sprintf("%s registry: register %q after seal", r.kind, id))
	}
	if id == "" {
		panic(fmt.Sprintf("%s registry: empty id", r.kind))
	}
	if _, dup := r.impls[id]; dup {
		panic(fmt.Sprintf("%s registry: duplicate id %q", r.kind, id))
	}
	r.impls[id] = impl
}

// Seal freezes the registry and returns it for chaining.
func (r *Registry[T]) Seal() *Registry[T] {
	r.sealed = true
	return r
}

func (r *Registry[T]) Kind() string { return r.kind }

// Get returns the implementation registered under id, or an error wrapping ErrNotFound.
// It never falls back to the default implementation.
func (r *Registry[T]) Get(id string) (T, error) {
	impl, ok := r.impls[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", r.kind, id, ErrNotFound)
	}
	return impl, nil
}

// GetOrDefault is Get with an explicit fallback to the implementation registered
// under DefaultID. It still fails when no default was registered.
func (r *Registry[T]) GetOrDefault(id string) (T, error) {
	if impl, ok := r.impls[id]; ok {
		return impl, nil
	}
	return r.Get(DefaultID)
}

func (r *Registry[T]) Has(id string) bool {
	_, ok := r.impls[id]
	return ok
}

// IDs returns every registered id in sorted order, DefaultID excluded.
func (r *Registry[T]) IDs() []string {
	out := make([]string, 0, len(r.impls))
	for id := range r.impls {
		if id == DefaultID {
			continue
		}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Registry[T]) Len() int { return len(r.impls) }
