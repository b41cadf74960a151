package unseal

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the unsealers known to the process.
type Registry struct {
	mu        sync.RWMutex
	unsealers map[string]Unsealer
	enabled   map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		unsealers: make(map[string]Unsealer),
		enabled:   make(map[string]bool),
	}
}

// Builtin returns a registry with every built-in unsealer registered and
// enabled. The jwt unsealer is only present when key is non-empty.
func Builtin(key []byte) *Registry {
	r := NewRegistry()
	r.Register(Wire{})
	r.enabled[NameWire] = true
	if len(key) > 0 {
		r.Register(&JWT{Key: key})
		r.enabled[NameJWT] = true
	}
	return r
}

// Register adds u, replacing any unsealer with the same name.
func (r *Registry) Register(u Unsealer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsealers[u.Name()] = u
}

// Enable enables an unsealer by name.
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.unsealers[name]; !ok {
		return fmt.Errorf("unsealer %q not found", name)
	}
	r.enabled[name] = true
	return nil
}

// Disable disables an unsealer by name.
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, name)
}

// Get returns an unsealer by name whether or not it is enabled.
func (r *Registry) Get(name string) (Unsealer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.unsealers[name]
	return u, ok
}

// IsEnabled checks if an unsealer is enabled.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// EnableOnly enables exactly the named unsealers and disables the rest.
// An empty list leaves the registry unchanged.
func (r *Registry) EnableOnly(names []string) error {
	if len(names) == 0 {
		return nil
	}
	for _, name := range names {
		if _, ok := r.Get(name); !ok {
			return fmt.Errorf("unsealer %q not found", name)
		}
	}
	for _, name := range r.Installed() {
		r.Disable(name)
	}
	for _, name := range names {
		if err := r.Enable(name); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the named unsealer if it is registered and enabled.
func (r *Registry) Lookup(name string) (Unsealer, error) {
	u, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unsealer %q not found", name)
	}
	if !r.IsEnabled(name) {
		return nil, fmt.Errorf("unsealer %q is disabled", name)
	}
	return u, nil
}

// Installed returns all registered unsealer names, sorted.
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.unsealers))
	for name := range r.unsealers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enabled returns all enabled unsealer names, sorted.
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enabled))
	for name := range r.enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
