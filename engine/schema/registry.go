package schema

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrDuplicateSchema indicates a name collision at registration.
	ErrDuplicateSchema = errors.New("schema already registered")
	// ErrUnknownSchema indicates an allOf reference to an unregistered name.
	ErrUnknownSchema = errors.New("unknown schema reference")
	// ErrSchemaCycle indicates allOf references that form a cycle.
	ErrSchemaCycle = errors.New("schema reference cycle detected")
)

// Registry owns the named schema nodes and their merged resolutions for the
// process lifetime. Registration and resolution may interleave; the lock
// guarantees no reader observes a partially merged schema.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	cache map[string]*MergedSchema
}

func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]*Node),
		cache: make(map[string]*MergedSchema),
	}
}

// Register adds a named schema node. Names are unique; nodes are treated as
// immutable after registration.
func (r *Registry) Register(node *Node) error {
	if node == nil {
		return errors.New("cannot register nil schema node")
	}
	if node.Name == "" {
		return errors.New("cannot register schema node without a name")
	}
	for _, field := range node.Fields {
		if field.Path == "" {
			return errors.Errorf("schema %q declares a field with an empty path", node.Name)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[node.Name]; exists {
		return errors.Wrapf(ErrDuplicateSchema, "%q", node.Name)
	}
	r.nodes[node.Name] = node
	return nil
}

// Resolve flattens a node's allOf chain into a MergedSchema. Resolution is
// idempotent and cached: repeated calls return structurally equal values.
func (r *Registry) Resolve(name string) (*MergedSchema, error) {
	r.mu.RLock()
	if ms, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return ms, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(name, make(map[string]bool), nil)
}

// resolveLocked walks the allOf graph depth-first. The visiting set catches
// cycles; the chain records the reference path for diagnostics. Completed
// nodes land in the cache, so diamond-shaped ancestry resolves each parent
// once.
func (r *Registry) resolveLocked(name string, visiting map[string]bool, chain []string) (*MergedSchema, error) {
	if ms, ok := r.cache[name]; ok {
		return ms, nil
	}
	if visiting[name] {
		witness := append(append([]string{}, chain...), name)
		return nil, errors.Wrapf(ErrSchemaCycle, "%s", strings.Join(witness, " -> "))
	}
	node, ok := r.nodes[name]
	if !ok {
		if len(chain) == 0 {
			return nil, errors.Wrapf(ErrUnknownSchema, "%q", name)
		}
		return nil, errors.Wrapf(ErrUnknownSchema, "%q referenced via %s", name, strings.Join(chain, " -> "))
	}

	visiting[name] = true
	chain = append(chain, name)
	acc := newMergeAccumulator()
	for _, parent := range node.AllOf {
		parentMS, err := r.resolveLocked(parent, visiting, chain)
		if err != nil {
			return nil, err
		}
		acc.merge(parentMS.Fields, parentMS.Required)
	}
	acc.merge(node.Fields, node.Required)
	delete(visiting, name)

	ms, err := acc.seal(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve schema %q", name)
	}
	r.cache[name] = ms
	return ms, nil
}

// Names returns the registered schema names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a schema name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[name]
	return ok
}
