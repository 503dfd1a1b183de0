// Package gate provides a capability-based authorization core.
// Per-resource Definitions map roles to rule functions; a Factory compiles
// them into an Ability for one user; an Authorizer answers IsAllowed; and a
// Registry holds the policy handlers endpoints declare. This package has no
// dependencies on domain models or on a specific HTTP router.
//
// The package uses generics to allow any user type:
//   - Authorizer[*User] for full user struct based auth
//   - Authorizer[*Claims] for JWT claims based auth
package gate

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the lookup table of policy handlers, keyed by HandlerKey.
// Fill it during application wiring, before serving requests.
type Registry struct {
	mu       sync.RWMutex
	handlers map[HandlerKey]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[HandlerKey]Handler)}
}

// Register adds h under key. Registering a key twice is a wiring bug and
// returns ErrHandlerAlreadyRegistered.
func (r *Registry) Register(key HandlerKey, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[key]; ok {
		return fmt.Errorf("%w: %s", ErrHandlerAlreadyRegistered, key)
	}
	r.handlers[key] = h
	return nil
}

// Get returns the handler for key, or an error wrapping
// ErrHandlerNotRegistered.
func (r *Registry) Get(key HandlerKey) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotRegistered, key)
	}
	return h, nil
}

// Resolve looks up every key in order and fails on the first unknown one.
func (r *Registry) Resolve(keys ...HandlerKey) ([]Handler, error) {
	out := make([]Handler, 0, len(keys))
	for _, k := range keys {
		h, err := r.Get(k)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []HandlerKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]HandlerKey, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
