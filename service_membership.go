package accesskit

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// MEMBERSHIP EDGES (user<->role, role<->permission)
// ============================================================================

// RoleKey normalizes the flexible role argument accepted by attach/detach
// operations: a *Role, a raw primary key string, or a Ref descriptor. Any
// other shape is rejected with ErrValidation.
func RoleKey(ref any) (string, error) {
	switch v := ref.(type) {
	case *Role:
		if v == nil {
			return "", NewError(ErrValidation, "nil role reference").WithKind(KindRole)
		}
		return nonEmptyKey(v.ID, KindRole)
	case Role:
		return nonEmptyKey(v.ID, KindRole)
	case Ref:
		return nonEmptyKey(v.ID, KindRole)
	case string:
		return nonEmptyKey(v, KindRole)
	default:
		return "", NewError(ErrValidation, "unsupported role reference shape").WithKind(KindRole)
	}
}

// PermissionKey normalizes the flexible permission argument, with the same
// accepted shapes as RoleKey.
func PermissionKey(ref any) (string, error) {
	switch v := ref.(type) {
	case *Permission:
		if v == nil {
			return "", NewError(ErrValidation, "nil permission reference").WithKind(KindPermission)
		}
		return nonEmptyKey(v.ID, KindPermission)
	case Permission:
		return nonEmptyKey(v.ID, KindPermission)
	case Ref:
		return nonEmptyKey(v.ID, KindPermission)
	case string:
		return nonEmptyKey(v, KindPermission)
	default:
		return "", NewError(ErrValidation, "unsupported permission reference shape").WithKind(KindPermission)
	}
}

func nonEmptyKey(id string, kind EntityKind) (string, error) {
	if id == "" {
		return "", NewError(ErrValidation, "empty primary key").WithKind(kind)
	}
	return id, nil
}

// roleID resolves a flexible role argument to a primary key. String
// arguments are resolved against living roles: uuids by primary key,
// anything else as an identifier. A string naming no living role is
// ErrNotFound, never a raw constraint failure from the insert.
func (s *Service) roleID(ctx context.Context, ref any) (string, error) {
	key, err := RoleKey(ref)
	if err != nil {
		return "", err
	}
	if raw, ok := ref.(string); ok {
		var role *Role
		if _, parseErr := uuid.Parse(raw); parseErr != nil {
			role, err = s.GetRoleByIdentifier(ctx, raw)
		} else {
			role, err = s.GetRole(ctx, raw)
		}
		if err != nil {
			return "", err
		}
		return role.ID, nil
	}
	return key, nil
}

// permissionID resolves a flexible permission argument to a primary key,
// with the same string resolution as roleID.
func (s *Service) permissionID(ctx context.Context, ref any) (string, error) {
	key, err := PermissionKey(ref)
	if err != nil {
		return "", err
	}
	if raw, ok := ref.(string); ok {
		var perm *Permission
		if _, parseErr := uuid.Parse(raw); parseErr != nil {
			perm, err = s.GetPermissionByIdentifier(ctx, raw)
		} else {
			perm, err = s.GetPermission(ctx, raw)
		}
		if err != nil {
			return "", err
		}
		return perm.ID, nil
	}
	return key, nil
}

// AttachRole attaches a role to a user. Attaching an already attached pair
// is a no-op success, never a duplicate row: the insert resolves the
// conflict on the composite key.
//
// Example:
//
//	err := service.AttachRole(ctx, userID, role)        // *Role
//	err = service.AttachRole(ctx, userID, role.ID)      // raw key
//	err = service.AttachRole(ctx, userID, "admin")      // identifier
//	err = service.AttachRole(ctx, userID, accesskit.Ref{ID: role.ID})
func (s *Service) AttachRole(ctx context.Context, userID string, role any) error {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return err
	}
	if userID == "" {
		return NewError(ErrValidation, "empty user id")
	}

	edge := &UserRole{UserID: userID, RoleID: roleID}
	result, err := s.db.NewInsert().
		Model(edge).
		On("CONFLICT (user_id, role_id) DO NOTHING").
		Exec(ctx)
	return dbkit.WithErr(result, err, "AttachRole").Err()
}

// DetachRole detaches a role from a user. Detaching an absent edge is a
// no-op success.
func (s *Service) DetachRole(ctx context.Context, userID string, role any) error {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return err
	}

	result, err := s.db.NewDelete().Table("users_roles").
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Exec(ctx)
	return dbkit.WithErr(result, err, "DetachRole").Err()
}

// AttachRoles attaches a batch of roles to a user, detaching then
// re-attaching each item so a re-attach always lands clean. Edges not named
// in the batch are left untouched; pair with DetachAllRoles for full
// replacement. The batch runs in one transaction, but the per-item steps
// themselves are the unit of work.
func (s *Service) AttachRoles(ctx context.Context, userID string, roles []any) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		for _, role := range roles {
			if err := tx.DetachRole(ctx, userID, role); err != nil {
				return err
			}
			if err := tx.AttachRole(ctx, userID, role); err != nil {
				return err
			}
		}
		return nil
	})
}

// DetachRoles detaches a batch of roles from a user. A nil batch detaches
// everything, reproducing DetachAllRoles.
func (s *Service) DetachRoles(ctx context.Context, userID string, roles []any) error {
	if roles == nil {
		return s.DetachAllRoles(ctx, userID)
	}
	for _, role := range roles {
		if err := s.DetachRole(ctx, userID, role); err != nil {
			return err
		}
	}
	return nil
}

// DetachAllRoles removes every role edge of a user, soft-deleted role
// endpoints included.
func (s *Service) DetachAllRoles(ctx context.Context, userID string) error {
	result, err := s.db.NewDelete().Table("users_roles").
		Where("user_id = ?", userID).
		Exec(ctx)
	return dbkit.WithErr(result, err, "DetachAllRoles").Err()
}

// AttachPermission attaches a permission to a role, idempotently.
func (s *Service) AttachPermission(ctx context.Context, role any, permission any) error {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return err
	}
	permissionID, err := s.permissionID(ctx, permission)
	if err != nil {
		return err
	}

	edge := &RolePermission{RoleID: roleID, PermissionID: permissionID}
	result, err := s.db.NewInsert().
		Model(edge).
		On("CONFLICT (role_id, permission_id) DO NOTHING").
		Exec(ctx)
	return dbkit.WithErr(result, err, "AttachPermission").Err()
}

// DetachPermission detaches a permission from a role, idempotently.
func (s *Service) DetachPermission(ctx context.Context, role any, permission any) error {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return err
	}
	permissionID, err := s.permissionID(ctx, permission)
	if err != nil {
		return err
	}

	result, err := s.db.NewDelete().Table("roles_permissions").
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Exec(ctx)
	return dbkit.WithErr(result, err, "DetachPermission").Err()
}

// AttachPermissions attaches a batch of permissions to a role with the same
// detach-then-attach per item semantics as AttachRoles.
func (s *Service) AttachPermissions(ctx context.Context, role any, permissions []any) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		for _, permission := range permissions {
			if err := tx.DetachPermission(ctx, role, permission); err != nil {
				return err
			}
			if err := tx.AttachPermission(ctx, role, permission); err != nil {
				return err
			}
		}
		return nil
	})
}

// DetachPermissions detaches a batch of permissions from a role. A nil
// batch detaches everything.
func (s *Service) DetachPermissions(ctx context.Context, role any, permissions []any) error {
	if permissions == nil {
		return s.DetachAllPermissions(ctx, role)
	}
	for _, permission := range permissions {
		if err := s.DetachPermission(ctx, role, permission); err != nil {
			return err
		}
	}
	return nil
}

// DetachAllPermissions removes every permission edge of a role,
// soft-deleted permission endpoints included.
func (s *Service) DetachAllPermissions(ctx context.Context, role any) error {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return err
	}
	result, err := s.db.NewDelete().Table("roles_permissions").
		Where("role_id = ?", roleID).
		Exec(ctx)
	return dbkit.WithErr(result, err, "DetachAllPermissions").Err()
}

// RoleIDsForUser returns the role ids attached to a user, soft-deleted
// endpoints included (edges survive soft delete until a force delete).
func (s *Service) RoleIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := dbkit.WithErr1(s.db.NewRaw("SELECT role_id FROM users_roles WHERE user_id = ?", userID).Scan(ctx, &ids), "RoleIDsForUser").Err()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

// UserIDsForRole returns the user ids attached to a role.
func (s *Service) UserIDsForRole(ctx context.Context, role any) ([]string, error) {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return nil, err
	}
	var ids []string
	err = dbkit.WithErr1(s.db.NewRaw("SELECT user_id FROM users_roles WHERE role_id = ?", roleID).Scan(ctx, &ids), "UserIDsForRole").Err()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

// PermissionIDsForRole returns the permission ids attached to a role.
func (s *Service) PermissionIDsForRole(ctx context.Context, role any) ([]string, error) {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return nil, err
	}
	var ids []string
	err = dbkit.WithErr1(s.db.NewRaw("SELECT permission_id FROM roles_permissions WHERE role_id = ?", roleID).Scan(ctx, &ids), "PermissionIDsForRole").Err()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

// RoleIDsForPermission returns the role ids granting a permission.
func (s *Service) RoleIDsForPermission(ctx context.Context, permission any) ([]string, error) {
	permissionID, err := s.permissionID(ctx, permission)
	if err != nil {
		return nil, err
	}
	var ids []string
	err = dbkit.WithErr1(s.db.NewRaw("SELECT role_id FROM roles_permissions WHERE permission_id = ?", permissionID).Scan(ctx, &ids), "RoleIDsForPermission").Err()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

// EdgeExists reports whether a user->role edge is present, regardless of
// either endpoint's lifecycle state.
func (s *Service) EdgeExists(ctx context.Context, userID string, role any) bool {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return false
	}
	var count int
	err = s.db.NewRaw("SELECT count(*) FROM users_roles WHERE user_id = ? AND role_id = ?", userID, roleID).Scan(ctx, &count)
	if err != nil {
		return false
	}
	return count > 0
}

// CountRolesForUser returns the number of role edges a user has. More
// efficient than loading Grants when only the count matters.
func (s *Service) CountRolesForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := dbkit.WithErr1(s.db.NewRaw("SELECT count(*) FROM users_roles WHERE user_id = ?", userID).Scan(ctx, &count), "CountRolesForUser").Err()
	if err != nil {
		return 0, err
	}
	return count, nil
}
