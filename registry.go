package accesskit

import (
	"context"
	"fmt"
	"sync"
)

// HostResolver loads the host entity a role belongs to. Implementations are
// provided by the embedding application, one per host type tag (e.g.
// "organization", "tenant").
type HostResolver interface {
	ResolveHost(ctx context.Context, hostID string) (any, error)
}

// HostResolverFunc adapts a function to the HostResolver interface.
type HostResolverFunc func(ctx context.Context, hostID string) (any, error)

// ResolveHost implements HostResolver.
func (f HostResolverFunc) ResolveHost(ctx context.Context, hostID string) (any, error) {
	return f(ctx, hostID)
}

// HostRegistry maps polymorphic host type tags to their resolvers.
// It is created at startup and should be treated as immutable after
// initialization.
type HostRegistry struct {
	mu        sync.RWMutex
	resolvers map[string]HostResolver
}

// NewHostRegistry creates a new host registry.
func NewHostRegistry() *HostRegistry {
	return &HostRegistry{
		resolvers: make(map[string]HostResolver),
	}
}

// RegisterHost registers a resolver for a host type tag. Returns the
// registry for fluent configuration.
//
// Example:
//
//	registry := accesskit.NewHostRegistry().
//	    RegisterHost("organization", orgResolver).
//	    RegisterHost("tenant", tenantResolver)
func (r *HostRegistry) RegisterHost(hostType string, resolver HostResolver) *HostRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[hostType] = resolver
	return r
}

// HostTypes returns all registered host type tags.
func (r *HostRegistry) HostTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.resolvers))
	for t := range r.resolvers {
		types = append(types, t)
	}
	return types
}

// ValidateHostType checks if a host type tag is registered.
func (r *HostRegistry) ValidateHostType(hostType string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.resolvers[hostType]; !exists {
		return fmt.Errorf("%w: host type %q not registered", ErrValidation, hostType)
	}
	return nil
}

// Resolve loads the host entity behind a reference.
func (r *HostRegistry) Resolve(ctx context.Context, ref HostRef) (any, error) {
	r.mu.RLock()
	resolver, exists := r.resolvers[ref.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: host type %q not registered", ErrValidation, ref.Type)
	}
	return resolver.ResolveHost(ctx, ref.ID)
}
