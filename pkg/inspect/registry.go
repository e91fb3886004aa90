package inspect

import (
	"sync"

	"github.com/cellstore-dev/cellstore/internal/errors"
	"github.com/cellstore-dev/cellstore/pkg/cell"
)

// Source is the registry's type-erased view of a registered store.
type Source interface {
	// Name returns the name the store was registered under.
	Name() string

	// Snapshot returns the store's current state value.
	Snapshot() any

	// Watch subscribes fn to the store's accepted writes and returns the
	// cancel function for the subscription.
	Watch(fn func(any)) (cancel func())
}

// storeSource adapts a generic store to the Source interface.
type storeSource[T any] struct {
	name  string
	store *cell.Store[T]
}

func (s *storeSource[T]) Name() string {
	return s.name
}

func (s *storeSource[T]) Snapshot() any {
	return s.store.Get()
}

func (s *storeSource[T]) Watch(fn func(any)) func() {
	return s.store.Subscribe(func(v T) { fn(v) })
}

// Registry holds the stores an application exposes to the inspector.
// Stores are registered explicitly during application wiring; there is no
// ambient global registry.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register exposes store under name. Names must be unique per registry.
func Register[T any](r *Registry, name string, store *cell.Store[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[name]; exists {
		return errors.New("E201").WithDetail("store name: " + name)
	}
	r.sources[name] = &storeSource[T]{name: name, store: store}
	r.order = append(r.order, name)
	return nil
}

// Names returns the registered store names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Lookup returns the source registered under name.
func (r *Registry) Lookup(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[name]
	return src, ok
}

// sourcesInOrder returns all sources in registration order.
func (r *Registry) sourcesInOrder() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}
