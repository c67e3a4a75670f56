package accesskit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHostRegistryRegisterHost tests fluent registration
func TestHostRegistryRegisterHost(t *testing.T) {
	registry := NewHostRegistry().
		RegisterHost("organization", HostResolverFunc(func(ctx context.Context, hostID string) (any, error) {
			return "org:" + hostID, nil
		})).
		RegisterHost("tenant", HostResolverFunc(func(ctx context.Context, hostID string) (any, error) {
			return "tenant:" + hostID, nil
		}))

	assert.ElementsMatch(t, []string{"organization", "tenant"}, registry.HostTypes())
}

// TestHostRegistryValidateHostType tests host type validation
func TestHostRegistryValidateHostType(t *testing.T) {
	registry := NewHostRegistry().
		RegisterHost("organization", HostResolverFunc(func(ctx context.Context, hostID string) (any, error) {
			return nil, nil
		}))

	assert.NoError(t, registry.ValidateHostType("organization"))

	err := registry.ValidateHostType("project")
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
}

// TestHostRegistryResolve tests resolving host references
func TestHostRegistryResolve(t *testing.T) {
	registry := NewHostRegistry().
		RegisterHost("organization", HostResolverFunc(func(ctx context.Context, hostID string) (any, error) {
			return "org:" + hostID, nil
		}))

	host, err := registry.Resolve(context.Background(), NewHostRef("organization", "org-1"))
	require.NoError(t, err)
	assert.Equal(t, "org:org-1", host)

	_, err = registry.Resolve(context.Background(), NewHostRef("project", "proj-1"))
	assert.True(t, IsValidation(err))
}

// TestHostRegistryEmpty tests the empty registry
func TestHostRegistryEmpty(t *testing.T) {
	registry := NewHostRegistry()

	assert.Empty(t, registry.HostTypes())
	assert.Error(t, registry.ValidateHostType("anything"))
}

// TestHostRefString tests the host reference display form
func TestHostRefString(t *testing.T) {
	ref := NewHostRef("organization", "org-1")
	assert.Equal(t, "organization:org-1", ref.String())
}
