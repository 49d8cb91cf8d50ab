package render

import (
	"sort"
	"sync"

	"github.com/venkatesh3007/flexui/internal/schema"
)

// View is whatever the native backend builds for a planned node. The core
// never inspects it.
type View any

// Factory constructs a native view from a resolved plan entry. Implemented
// by the platform backend, registered per node type.
type Factory func(entry *Entry, th *schema.Theme) (View, error)

// ComponentRegistry maps node type strings to view factories. The planner
// treats a missing factory as a recoverable per-node error. Safe for
// concurrent registration and lookup.
type ComponentRegistry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for a node type.
func (r *ComponentRegistry) Register(nodeType string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[nodeType] = f
}

// Resolve returns the factory for a node type.
func (r *ComponentRegistry) Resolve(nodeType string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[nodeType]
	return f, ok
}

// Types returns the registered node types, sorted.
func (r *ComponentRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
