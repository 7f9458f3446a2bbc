package loretex

import (
	"fmt"
	"sort"
	"sync"
)

// Transform rewrites a parsed document between parsing and generation.
// A transform may mutate and return its argument or build a fresh tree;
// callers always use the returned document.
type Transform func(doc *Document) *Document

// ApplyTransforms runs transforms in order, threading the document through.
func ApplyTransforms(doc *Document, transforms []Transform) *Document {
	current := doc
	for _, transform := range transforms {
		current = transform(current)
	}
	return current
}

// Registry is a named collection of transforms, safe for concurrent use.
// The zero value is ready to use.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]Transform
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{transforms: make(map[string]Transform)}
}

// Register binds name to transform. Re-registering an existing name fails
// with ErrTransformRegistered unless overwrite is set.
func (r *Registry) Register(name string, transform Transform, overwrite bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transforms == nil {
		r.transforms = make(map[string]Transform)
	}
	if _, exists := r.transforms[name]; exists && !overwrite {
		return fmt.Errorf("%w: %q", ErrTransformRegistered, name)
	}
	r.transforms[name] = transform
	return nil
}

// Get looks up a transform by name.
func (r *Registry) Get(name string) (Transform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	transform, ok := r.transforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
	return transform, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps names to their transforms, failing on the first unknown name.
func (r *Registry) Resolve(names []string) ([]Transform, error) {
	transforms := make([]Transform, 0, len(names))
	for _, name := range names {
		transform, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, transform)
	}
	return transforms, nil
}

// defaultRegistry backs the package-level registration helpers.
var defaultRegistry = NewRegistry()

// RegisterTransform registers a transform in the package-level registry.
func RegisterTransform(name string, transform Transform, overwrite bool) error {
	return defaultRegistry.Register(name, transform, overwrite)
}

// GetTransform looks up a transform in the package-level registry.
func GetTransform(name string) (Transform, error) {
	return defaultRegistry.Get(name)
}

// ListTransforms lists the package-level registry's names in sorted order.
func ListTransforms() []string {
	return defaultRegistry.List()
}

// ResolveTransforms resolves names against the package-level registry.
func ResolveTransforms(names []string) ([]Transform, error) {
	return defaultRegistry.Resolve(names)
}
