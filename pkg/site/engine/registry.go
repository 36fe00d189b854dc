package engine

import (
	"sort"
	"sync"

	"github.com/tendant/simple-site/pkg/site"
)

// Registry maps component keys ("part:banner") and content types to controllers.
type Registry struct {
	mu           sync.RWMutex
	components   map[string]site.Controller
	contentTypes map[string]site.Controller
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		components:   make(map[string]site.Controller),
		contentTypes: make(map[string]site.Controller),
	}
}

// RegisterComponent binds a page, layout or part descriptor to a controller.
func (r *Registry) RegisterComponent(componentType, descriptor string, c site.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[componentType+":"+descriptor] = c
}

// RegisterContentType binds a content type to the controller rendering its pages.
func (r *Registry) RegisterContentType(contentType string, c site.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contentTypes[contentType] = c
}

// Component returns the controller for a component key.
func (r *Registry) Component(key string) (site.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[key]
	return c, ok
}

// ContentType returns the controller for a content type.
func (r *Registry) ContentType(contentType string) (site.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contentTypes[contentType]
	return c, ok
}

// Keys lists registered component keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.components))
	for k := range r.components {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
