package dialect

import (
	"sort"
	"sync"

	"github.com/example/strat/internal/apperr"
)

// Registry is a lookup table of dialects keyed by identifier.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]Dialect
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{dialects: map[string]Dialect{}}
}

// Register installs a dialect. Duplicate identifiers are rejected.
func (r *Registry) Register(id string, d Dialect) error {
	if id == "" {
		return apperr.Configuration("dialect id is required")
	}
	if d == nil {
		return apperr.Configuration("dialect %s is nil", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.dialects[id]; exists {
		return apperr.Configuration("dialect %s already registered", id)
	}
	r.dialects[id] = d
	return nil
}

// Get looks up a dialect by identifier.
func (r *Registry) Get(id string) (Dialect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialects[id]
	return d, ok
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.dialects))
	for id := range r.dialects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builtin returns a registry preloaded with every supported database.
func Builtin() *Registry {
	r := NewRegistry()
	for id, d := range map[string]Dialect{
		PubMed:          pubmedDialect{},
		Scopus:          scopusDialect{},
		Arxiv:           arxivDialect{},
		OpenAlex:        plainDialect{id: OpenAlex},
		SemanticScholar: plainDialect{id: SemanticScholar},
		CrossRef:        plainDialect{id: CrossRef},
	} {
		if err := r.Register(id, d); err != nil {
			panic(err)
		}
	}
	return r
}

// Identifiers of the built-in dialects.
const (
	PubMed          = "pubmed"
	Scopus          = "scopus"
	Arxiv           = "arxiv"
	OpenAlex        = "openalex"
	SemanticScholar = "semanticscholar"
	CrossRef        = "crossref"
)
