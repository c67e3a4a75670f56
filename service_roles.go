package accesskit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ROLE ENTITY OPERATIONS
// ============================================================================

// CreateRoleInput holds the attributes for a new role.
type CreateRoleInput struct {
	Identifier string
	Serial     string
	Host       *HostRef
}

// CreateRole creates a new role. The identifier must be unique among living
// roles; a collision is rejected before persistence and, should two creates
// race past the check, the partial unique index rejects the second insert
// and the same ErrDuplicateIdentifier surfaces.
//
// Example:
//
//	role, err := service.CreateRole(ctx, accesskit.CreateRoleInput{
//	    Identifier: "admin",
//	    Host:       &accesskit.HostRef{Type: "organization", ID: orgID},
//	})
func (s *Service) CreateRole(ctx context.Context, in CreateRoleInput) (*Role, error) {
	if err := ValidateIdentifier(in.Identifier); err != nil {
		return nil, err
	}

	role := &Role{
		ID:         uuid.NewString(),
		Serial:     in.Serial,
		Identifier: in.Identifier,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if in.Host != nil {
		if err := s.hosts.ValidateHostType(in.Host.Type); err != nil {
			return nil, err
		}
		role.HostType = in.Host.Type
		role.HostID = in.Host.ID
	}

	taken, err := s.roleIdentifierTaken(ctx, in.Identifier, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewError(ErrDuplicateIdentifier, "a living role already uses this identifier").
			WithKind(KindRole).
			WithIdentifier(in.Identifier)
	}

	result, err := s.db.NewInsert().Model(role).Exec(ctx)
	err = dbkit.WithErr(result, err, "CreateRole").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDuplicateIdentifier, "a living role already uses this identifier").
				WithKind(KindRole).
				WithIdentifier(in.Identifier)
		}
		return nil, NewError(ErrDatabaseError, "failed to create role").
			WithKind(KindRole).
			WithIdentifier(in.Identifier)
	}

	return role, nil
}

// GetRole loads a living role by primary key.
func (s *Service) GetRole(ctx context.Context, roleID string) (*Role, error) {
	var role Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&role).Where("r.id = ?", roleID).Limit(1).Scan(ctx), "GetRole").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrNotFound, "role not found").WithKind(KindRole)
		}
		return nil, err
	}
	return &role, nil
}

// GetRoleByIdentifier loads a living role by its unique identifier.
func (s *Service) GetRoleByIdentifier(ctx context.Context, identifier string) (*Role, error) {
	var role Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&role).Where("identifier = ?", identifier).Limit(1).Scan(ctx), "GetRoleByIdentifier").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrNotFound, "role not found").
				WithKind(KindRole).
				WithIdentifier(identifier)
		}
		return nil, err
	}
	return &role, nil
}

// RenameRole changes a role's identifier. The uniqueness check excludes the
// role itself, so renaming to the current identifier is a no-op success.
func (s *Service) RenameRole(ctx context.Context, role *Role, newIdentifier string) error {
	if err := ValidateIdentifier(newIdentifier); err != nil {
		return err
	}

	taken, err := s.roleIdentifierTaken(ctx, newIdentifier, role.ID)
	if err != nil {
		return err
	}
	if taken {
		return NewError(ErrDuplicateIdentifier, "a living role already uses this identifier").
			WithKind(KindRole).
			WithIdentifier(newIdentifier)
	}

	now := time.Now()
	result, err := s.db.NewUpdate().Table("roles").
		Set("identifier = ?", newIdentifier).
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NULL", role.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "RenameRole").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return NewError(ErrDuplicateIdentifier, "a living role already uses this identifier").
				WithKind(KindRole).
				WithIdentifier(newIdentifier)
		}
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "role not found or deleted").WithKind(KindRole)
	}

	role.Identifier = newIdentifier
	role.UpdatedAt = now
	return nil
}

// SetRoleEnabled flips the enablement flag. No side effects on edges or
// attributes.
func (s *Service) SetRoleEnabled(ctx context.Context, role *Role, enabled bool) error {
	now := time.Now()
	result, err := s.db.NewUpdate().Table("roles").
		Set("is_enabled = ?", enabled).
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NULL", role.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "SetRoleEnabled").Err()
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "role not found or deleted").WithKind(KindRole)
	}

	role.IsEnabled = enabled
	role.UpdatedAt = now
	return nil
}

// SoftDeleteRole marks the role deleted. Its edges and localized attributes
// remain in place, but the role stops participating in authorization
// answers and directory listings until restored.
func (s *Service) SoftDeleteRole(ctx context.Context, role *Role) error {
	now := time.Now()
	result, err := s.db.NewUpdate().Table("roles").
		Set("deleted_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NULL", role.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "SoftDeleteRole").Err()
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "role not found or already deleted").WithKind(KindRole)
	}

	role.DeletedAt = now
	role.UpdatedAt = now
	return nil
}

// RestoreRole clears the soft-delete marker. Uniqueness is re-checked at
// restore time: another role may have taken the identifier meanwhile, in
// which case the restore is rejected.
func (s *Service) RestoreRole(ctx context.Context, role *Role) error {
	taken, err := s.roleIdentifierTaken(ctx, role.Identifier, role.ID)
	if err != nil {
		return err
	}
	if taken {
		return NewError(ErrDuplicateIdentifier, "identifier was taken while the role was deleted").
			WithKind(KindRole).
			WithIdentifier(role.Identifier)
	}

	now := time.Now()
	result, err := s.db.NewUpdate().Table("roles").
		Set("deleted_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NOT NULL", role.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "RestoreRole").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return NewError(ErrDuplicateIdentifier, "identifier was taken while the role was deleted").
				WithKind(KindRole).
				WithIdentifier(role.Identifier)
		}
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "role not found or not deleted").WithKind(KindRole)
	}

	role.DeletedAt = time.Time{}
	role.UpdatedAt = now
	return nil
}

// ForceDeleteRole permanently purges the role. All of its localized
// attribute rows go first, including previously soft-deleted ones, then the
// row itself; the membership edges follow through the foreign keys' cascade
// (and are removed explicitly for stores that don't enforce them).
func (s *Service) ForceDeleteRole(ctx context.Context, role *Role) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		langTable := tx.langs.Table(KindRole)

		result, err := tx.db.NewDelete().Table(langTable).
			Where("morph_type = ? AND morph_id = ?", string(KindRole), role.ID).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "ForceDeleteRoleLangs").Err(); err != nil {
			return err
		}

		result, err = tx.db.NewDelete().Table("users_roles").
			Where("role_id = ?", role.ID).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "ForceDeleteRoleUserEdges").Err(); err != nil {
			return err
		}

		result, err = tx.db.NewDelete().Table("roles_permissions").
			Where("role_id = ?", role.ID).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "ForceDeleteRolePermissionEdges").Err(); err != nil {
			return err
		}

		result, err = tx.db.NewDelete().Table("roles").
			Where("id = ?", role.ID).
			Exec(ctx)
		return dbkit.WithErr(result, err, "ForceDeleteRole").Err()
	})
}

// ResolveRoleHost loads the host entity the role belongs to through the
// host registry. Returns ErrNotFound when the role has no host.
func (s *Service) ResolveRoleHost(ctx context.Context, role *Role) (any, error) {
	host := role.Host()
	if host == nil {
		return nil, NewError(ErrNotFound, "role has no host").WithKind(KindRole)
	}
	return s.hosts.Resolve(ctx, *host)
}

func (s *Service) roleIdentifierTaken(ctx context.Context, identifier, excludeID string) (bool, error) {
	return dbkit.Exists[Role](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("identifier = ?", identifier)
		if excludeID != "" {
			q = q.Where("id <> ?", excludeID)
		}
		return q
	})
}
