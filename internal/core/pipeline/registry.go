// Package pipeline contains the stage dependency graph. This is part of
// the Functional Core - stage declarations and availability computation,
// no I/O.
package pipeline

import (
	"sync"

	"github.com/example/strat/internal/apperr"
)

// Definition declares a stage: what it consumes and what it writes.
// Requires lists artifact types that must be approved before the stage can
// run; Produces lists the types it writes as drafts.
type Definition struct {
	Name     string
	Requires []string
	Produces []string
}

// Registry holds the registered stage definitions and the induced
// requires->produces graph over artifact types. The graph is proven acyclic
// at registration time; runtime calls never re-check it.
type Registry struct {
	mu    sync.RWMutex
	defs  []Definition
	index map[string]int
}

// NewRegistry returns an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{index: map[string]int{}}
}

// Register installs a stage definition. Duplicate names and registrations
// that would introduce a dependency cycle are configuration errors; a
// rejected definition leaves the registry unchanged.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return apperr.Configuration("stage name is required")
	}
	if len(def.Produces) == 0 {
		return apperr.Configuration("stage %s produces no artifact types", def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[def.Name]; exists {
		return apperr.Configuration("stage %s already registered", def.Name)
	}

	candidate := append(append([]Definition{}, r.defs...), def)
	if cycle := findCycle(candidate); len(cycle) > 0 {
		return apperr.Configuration("stage %s would introduce a dependency cycle: %s",
			def.Name, joinPath(cycle))
	}

	r.index[def.Name] = len(r.defs)
	r.defs = append(r.defs, def)
	return nil
}

// MustRegister panics on a rejected definition. Registration happens once
// at startup, where a bad graph is fatal.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get looks up a stage by name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// All returns the definitions in registration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Definition{}, r.defs...)
}

// NextAvailable returns, in registration order, every stage whose required
// types are all approved and whose produced types are not yet all approved.
// Re-running a completed stage is an explicit action, never surfaced here.
func (r *Registry) NextAvailable(approved map[string]bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, def := range r.defs {
		if !allApproved(def.Requires, approved) {
			continue
		}
		if allApproved(def.Produces, approved) {
			continue
		}
		names = append(names, def.Name)
	}
	return names
}

// MissingRequirements returns the required types not yet approved, in
// declaration order.
func (def Definition) MissingRequirements(approved map[string]bool) []string {
	var missing []string
	for _, req := range def.Requires {
		if !approved[req] {
			missing = append(missing, req)
		}
	}
	return missing
}

func allApproved(types []string, approved map[string]bool) bool {
	for _, t := range types {
		if !approved[t] {
			return false
		}
	}
	return true
}
