package accesskit

import (
	"context"
	"fmt"

	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration management functionality as an extension to Service
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// Migrations returns all database migrations required by AccessKit.
// Use db.Migrate(ctx, migrationService.Migrations()) to run them, or
// RunMigrations when the service was built directly on a *dbkit.DBKit.
//
// Identifier uniqueness is enforced with partial unique indexes scoped to
// living rows, so a soft-deleted entity does not block reuse of its
// identifier. The ON CONFLICT targets in create operations name these
// indexes implicitly through the (identifier) column.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "accesskit-001",
			Description: "Create roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS roles (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    host_type TEXT,
                    host_id UUID,
                    serial TEXT,
                    identifier TEXT NOT NULL,
                    is_enabled BOOLEAN NOT NULL DEFAULT false,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    deleted_at TIMESTAMPTZ
                );
                CREATE UNIQUE INDEX IF NOT EXISTS roles_identifier_living
                    ON roles (identifier) WHERE deleted_at IS NULL;
                CREATE INDEX IF NOT EXISTS roles_host
                    ON roles (host_type, host_id) WHERE deleted_at IS NULL`,
		},
		{
			ID:          "accesskit-002",
			Description: "Create permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS permissions (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    serial TEXT,
                    identifier TEXT NOT NULL,
                    is_enabled BOOLEAN NOT NULL DEFAULT false,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    deleted_at TIMESTAMPTZ
                );
                CREATE UNIQUE INDEX IF NOT EXISTS permissions_identifier_living
                    ON permissions (identifier) WHERE deleted_at IS NULL`,
		},
		{
			ID:          "accesskit-003",
			Description: "Create localized attribute tables",
			SQL: `
                CREATE TABLE IF NOT EXISTS roles_lang (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    morph_type TEXT NOT NULL,
                    morph_id UUID NOT NULL,
                    user_id UUID,
                    code TEXT NOT NULL,
                    key TEXT NOT NULL,
                    value TEXT,
                    is_current BOOLEAN NOT NULL DEFAULT true,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    deleted_at TIMESTAMPTZ
                );
                CREATE TABLE IF NOT EXISTS permissions_lang
                    (LIKE roles_lang INCLUDING ALL);
                CREATE TABLE IF NOT EXISTS system_langs
                    (LIKE roles_lang INCLUDING ALL);
                CREATE UNIQUE INDEX IF NOT EXISTS roles_lang_current
                    ON roles_lang (morph_type, morph_id, code, key)
                    WHERE is_current AND deleted_at IS NULL;
                CREATE UNIQUE INDEX IF NOT EXISTS permissions_lang_current
                    ON permissions_lang (morph_type, morph_id, code, key)
                    WHERE is_current AND deleted_at IS NULL;
                CREATE UNIQUE INDEX IF NOT EXISTS system_langs_current
                    ON system_langs (morph_type, morph_id, code, key)
                    WHERE is_current AND deleted_at IS NULL`,
		},
		{
			ID:          "accesskit-004",
			Description: "Create membership edge tables",
			SQL: `
                CREATE TABLE IF NOT EXISTS users_roles (
                    user_id UUID NOT NULL,
                    role_id UUID NOT NULL REFERENCES roles (id) ON DELETE CASCADE,
                    PRIMARY KEY (user_id, role_id)
                );
                CREATE TABLE IF NOT EXISTS roles_permissions (
                    role_id UUID NOT NULL REFERENCES roles (id) ON DELETE CASCADE,
                    permission_id UUID NOT NULL REFERENCES permissions (id) ON DELETE CASCADE,
                    PRIMARY KEY (role_id, permission_id)
                );
                CREATE INDEX IF NOT EXISTS users_roles_by_role
                    ON users_roles (role_id);
                CREATE INDEX IF NOT EXISTS roles_permissions_by_permission
                    ON roles_permissions (permission_id)`,
		},
	}
}

// RunMigrations applies all pending AccessKit migrations and returns the
// number that were applied. The underlying handle must be a *dbkit.DBKit,
// not a transaction.
func (ms *MigrationService) RunMigrations(ctx context.Context) (int, error) {
	db, ok := ms.db.(*dbkit.DBKit)
	if !ok {
		return 0, fmt.Errorf("migrations require a dbkit.DBKit instance")
	}
	result, err := db.Migrate(ctx, ms.Migrations())
	if err != nil {
		return 0, err
	}
	return len(result.Applied), nil
}
