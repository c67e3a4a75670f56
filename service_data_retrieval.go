package accesskit

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// GRANTS MATERIALIZATION
// ============================================================================

// GrantsOptions controls which entities participate when a user's grants
// are materialized. Soft-deleted entities are always excluded; the enabled
// filters are the optional layer on top.
type GrantsOptions struct {
	RoleEnabledOnly       bool
	PermissionEnabledOnly bool
}

// DefaultGrantsOptions is what authorization answers use unless told
// otherwise: only enabled roles and enabled permissions count.
func DefaultGrantsOptions() GrantsOptions {
	return GrantsOptions{RoleEnabledOnly: true, PermissionEnabledOnly: true}
}

// GetGrants materializes the authorization view for a user: the living
// (and, per options, enabled) roles attached to the user, each with its
// living (and, per options, enabled) permissions.
func (s *Service) GetGrants(ctx context.Context, userID string, opts GrantsOptions) (*Grants, error) {
	var roles []Role
	q := s.db.NewSelect().Model(&roles).
		Join("JOIN users_roles AS ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", userID)
	if opts.RoleEnabledOnly {
		q = q.Where("r.is_enabled = ?", true)
	}
	err := dbkit.WithErr1(q.Scan(ctx), "GetGrantsRoles").Err()
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	permissionsByRole := make(map[string][]Permission, len(roles))
	for _, role := range roles {
		var perms []Permission
		pq := s.db.NewSelect().Model(&perms).
			Join("JOIN roles_permissions AS rp ON rp.permission_id = p.id").
			Where("rp.role_id = ?", role.ID)
		if opts.PermissionEnabledOnly {
			pq = pq.Where("p.is_enabled = ?", true)
		}
		err := dbkit.WithErr1(pq.Scan(ctx), "GetGrantsPermissions").Err()
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		permissionsByRole[role.ID] = perms
	}

	return NewGrants(userID, roles, permissionsByRole), nil
}

// GetChecker materializes a user's grants and wraps them in a Checker.
// This can be stored in context for efficient checks in handlers.
func (s *Service) GetChecker(ctx context.Context, userID string) (*Checker, error) {
	grants, err := s.GetGrants(ctx, userID, DefaultGrantsOptions())
	if err != nil {
		return nil, err
	}
	return NewChecker(userID, grants), nil
}

// GetCheckerFromContext creates a Checker using the user ID from context.
func (s *Service) GetCheckerFromContext(ctx context.Context) (*Checker, error) {
	userID := GetUserID(ctx)
	if userID == "" {
		return nil, ErrNoUserID
	}
	return s.GetChecker(ctx, userID)
}

// ListRoleIdentifiers returns the identifiers of a user's living roles.
// With enabledOnly, disabled roles are skipped.
func (s *Service) ListRoleIdentifiers(ctx context.Context, userID string, enabledOnly bool) ([]string, error) {
	query := `SELECT r.identifier FROM roles r
		JOIN users_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ? AND r.deleted_at IS NULL`
	if enabledOnly {
		query += " AND r.is_enabled"
	}

	var identifiers []string
	err := dbkit.WithErr1(s.db.NewRaw(query, userID).Scan(ctx, &identifiers), "ListRoleIdentifiers").Err()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return identifiers, nil
}

// ListPermissionIdentifiers returns the deduplicated union of permission
// identifiers granted through a user's living roles. The two flags filter
// the role layer and the permission layer independently.
func (s *Service) ListPermissionIdentifiers(ctx context.Context, userID string, roleEnabledOnly, permissionEnabledOnly bool) ([]string, error) {
	query := `SELECT DISTINCT p.identifier FROM permissions p
		JOIN roles_permissions rp ON rp.permission_id = p.id
		JOIN roles r ON r.id = rp.role_id
		JOIN users_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ? AND r.deleted_at IS NULL AND p.deleted_at IS NULL`
	if roleEnabledOnly {
		query += " AND r.is_enabled"
	}
	if permissionEnabledOnly {
		query += " AND p.is_enabled"
	}

	var identifiers []string
	err := dbkit.WithErr1(s.db.NewRaw(query, userID).Scan(ctx, &identifiers), "ListPermissionIdentifiers").Err()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return identifiers, nil
}
