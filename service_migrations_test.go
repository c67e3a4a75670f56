package accesskit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrationsWellFormed tests the migration list invariants
func TestMigrationsWellFormed(t *testing.T) {
	service := NewService(nil)
	migrations := NewMigrationService(service).Migrations()

	require.NotEmpty(t, migrations)

	seen := make(map[string]bool)
	for _, m := range migrations {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Description)
		assert.NotEmpty(t, m.SQL)
		assert.True(t, strings.HasPrefix(m.ID, "accesskit-"), "migration ID %q should carry the accesskit prefix", m.ID)
		assert.False(t, seen[m.ID], "migration ID %q duplicated", m.ID)
		seen[m.ID] = true
	}
}

// TestMigrationsCoverAllTables ensures every table the code touches is
// created by a migration
func TestMigrationsCoverAllTables(t *testing.T) {
	service := NewService(nil)
	migrations := NewMigrationService(service).Migrations()

	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.SQL)
	}
	sql := all.String()

	for _, table := range accesskitTables {
		assert.Contains(t, sql, table, "migrations should create table %s", table)
	}
}

// TestMigrationsScopeUniquenessToLivingRows ensures identifier uniqueness
// does not block reuse after a soft delete
func TestMigrationsScopeUniquenessToLivingRows(t *testing.T) {
	service := NewService(nil)
	migrations := NewMigrationService(service).Migrations()

	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.SQL)
	}
	sql := all.String()

	assert.Contains(t, sql, "ON roles (identifier) WHERE deleted_at IS NULL")
	assert.Contains(t, sql, "ON permissions (identifier) WHERE deleted_at IS NULL")
}

// TestMigrationsCascadeEdgeTables ensures force-deleting an entity cannot
// leave orphaned edge rows behind
func TestMigrationsCascadeEdgeTables(t *testing.T) {
	service := NewService(nil)
	migrations := NewMigrationService(service).Migrations()

	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.SQL)
	}
	sql := all.String()

	assert.Contains(t, sql, "REFERENCES roles (id) ON DELETE CASCADE")
	assert.Contains(t, sql, "REFERENCES permissions (id) ON DELETE CASCADE")
	assert.Equal(t, 3, strings.Count(sql, "ON DELETE CASCADE"), "all three edge foreign keys should cascade")
}
