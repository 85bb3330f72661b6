package profile

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the collection of loaded profiles
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewRegistry creates a new profile registry
func NewRegistry(profiles map[string]*Profile) *Registry {
	return &Registry{
		profiles: profiles,
	}
}

// Get retrieves a profile by name
func (r *Registry) Get(name string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[name]
	if !exists {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}

	return profile, nil
}

// List returns all profile names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Count returns the number of profiles
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.profiles)
}
