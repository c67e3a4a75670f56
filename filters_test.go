package accesskit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDirectoryFilter tests the default filter values
func TestNewDirectoryFilter(t *testing.T) {
	filter := NewDirectoryFilter()

	assert.Equal(t, DefaultLanguage, filter.Language)
	assert.Nil(t, filter.Enabled)
	assert.Zero(t, filter.Page)
	assert.Zero(t, filter.PageSize)
}

// TestDirectoryFilterBuilders tests the fluent builder methods
func TestDirectoryFilterBuilders(t *testing.T) {
	filter := NewDirectoryFilter().
		WithID("id-1").
		WithSerial("SR-7").
		WithIdentifier("admin").
		WithName("Admin").
		WithDescription("manages").
		WithLanguage("zh_cn").
		WithEnabled(true).
		WithHost("organization", "org-1").
		WithPagination(2, 25)

	assert.Equal(t, "id-1", filter.ID)
	assert.Equal(t, "SR-7", filter.Serial)
	assert.Equal(t, "admin", filter.Identifier)
	assert.Equal(t, "Admin", filter.Name)
	assert.Equal(t, "manages", filter.Description)
	assert.Equal(t, "zh_cn", filter.Language)
	require.NotNil(t, filter.Enabled)
	assert.True(t, *filter.Enabled)
	assert.Equal(t, "organization", filter.HostType)
	assert.Equal(t, "org-1", filter.HostID)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 25, filter.PageSize)
}

// TestDirectoryFilterValueSemantics ensures builders do not mutate the
// original filter
func TestDirectoryFilterValueSemantics(t *testing.T) {
	base := NewDirectoryFilter()
	derived := base.WithIdentifier("admin").WithEnabled(false)

	assert.Empty(t, base.Identifier)
	assert.Nil(t, base.Enabled)
	assert.Equal(t, "admin", derived.Identifier)
}

// TestDirectoryFilterPagination tests the all-or-nothing pagination rule
func TestDirectoryFilterPagination(t *testing.T) {
	t.Run("no pagination", func(t *testing.T) {
		paged, err := NewDirectoryFilter().paginated()
		require.NoError(t, err)
		assert.False(t, paged)
	})

	t.Run("both set", func(t *testing.T) {
		paged, err := NewDirectoryFilter().WithPagination(1, 20).paginated()
		require.NoError(t, err)
		assert.True(t, paged)
	})

	t.Run("only page", func(t *testing.T) {
		filter := NewDirectoryFilter()
		filter.Page = 3
		_, err := filter.paginated()
		assert.True(t, IsValidation(err))
	})

	t.Run("only page size", func(t *testing.T) {
		filter := NewDirectoryFilter()
		filter.PageSize = 20
		_, err := filter.paginated()
		assert.True(t, IsValidation(err))
	})

	t.Run("negative values", func(t *testing.T) {
		_, err := NewDirectoryFilter().WithPagination(-1, -5).paginated()
		assert.True(t, IsValidation(err))
	})
}
