package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/mfnet/internal/function"
)

// Module is the interface that all function libraries must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered function descriptors of a single application
// instance, keyed by their qualified name (e.g. "math.add").
type Registry struct {
	functions map[string]*function.Function
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{functions: make(map[string]*function.Function)}
}

// Load creates a registry populated by modules.
func Load(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a function under its own name. Registering a name twice is a
// programming error and panics.
func (r *Registry) Register(fn *function.Function) {
	name := fn.Name()
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("function with name '%s' already registered", name))
	}
	slog.Debug("Registering function.", "name", name)
	r.functions[name] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (*function.Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int { return len(r.functions) }
