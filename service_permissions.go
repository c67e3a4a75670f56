package accesskit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// PERMISSION ENTITY OPERATIONS
// ============================================================================

// CreatePermissionInput holds the attributes for a new permission.
type CreatePermissionInput struct {
	Identifier string
	Serial     string
}

// CreatePermission creates a new permission. Identifier uniqueness follows
// the same rules as CreateRole, scoped independently to permissions.
func (s *Service) CreatePermission(ctx context.Context, in CreatePermissionInput) (*Permission, error) {
	if err := ValidateIdentifier(in.Identifier); err != nil {
		return nil, err
	}

	taken, err := s.permissionIdentifierTaken(ctx, in.Identifier, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewError(ErrDuplicateIdentifier, "a living permission already uses this identifier").
			WithKind(KindPermission).
			WithIdentifier(in.Identifier)
	}

	perm := &Permission{
		ID:         uuid.NewString(),
		Serial:     in.Serial,
		Identifier: in.Identifier,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	result, err := s.db.NewInsert().Model(perm).Exec(ctx)
	err = dbkit.WithErr(result, err, "CreatePermission").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDuplicateIdentifier, "a living permission already uses this identifier").
				WithKind(KindPermission).
				WithIdentifier(in.Identifier)
		}
		return nil, NewError(ErrDatabaseError, "failed to create permission").
			WithKind(KindPermission).
			WithIdentifier(in.Identifier)
	}

	return perm, nil
}

// GetPermission loads a living permission by primary key.
func (s *Service) GetPermission(ctx context.Context, permissionID string) (*Permission, error) {
	var perm Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&perm).Where("p.id = ?", permissionID).Limit(1).Scan(ctx), "GetPermission").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrNotFound, "permission not found").WithKind(KindPermission)
		}
		return nil, err
	}
	return &perm, nil
}

// GetPermissionByIdentifier loads a living permission by its identifier.
func (s *Service) GetPermissionByIdentifier(ctx context.Context, identifier string) (*Permission, error) {
	var perm Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&perm).Where("identifier = ?", identifier).Limit(1).Scan(ctx), "GetPermissionByIdentifier").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrNotFound, "permission not found").
				WithKind(KindPermission).
				WithIdentifier(identifier)
		}
		return nil, err
	}
	return &perm, nil
}

// RenamePermission changes a permission's identifier with the same
// collision rules as RenameRole.
func (s *Service) RenamePermission(ctx context.Context, perm *Permission, newIdentifier string) error {
	if err := ValidateIdentifier(newIdentifier); err != nil {
		return err
	}

	taken, err := s.permissionIdentifierTaken(ctx, newIdentifier, perm.ID)
	if err != nil {
		return err
	}
	if taken {
		return NewError(ErrDuplicateIdentifier, "a living permission already uses this identifier").
			WithKind(KindPermission).
			WithIdentifier(newIdentifier)
	}

	now := time.Now()
	result, err := s.db.NewUpdate().Table("permissions").
		Set("identifier = ?", newIdentifier).
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NULL", perm.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "RenamePermission").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return NewError(ErrDuplicateIdentifier, "a living permission already uses this identifier").
				WithKind(KindPermission).
				WithIdentifier(newIdentifier)
		}
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "permission not found or deleted").WithKind(KindPermission)
	}

	perm.Identifier = newIdentifier
	perm.UpdatedAt = now
	return nil
}

// SetPermissionEnabled flips the enablement flag.
func (s *Service) SetPermissionEnabled(ctx context.Context, perm *Permission, enabled bool) error {
	now := time.Now()
	result, err := s.db.NewUpdate().Table("permissions").
		Set("is_enabled = ?", enabled).
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NULL", perm.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "SetPermissionEnabled").Err()
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "permission not found or deleted").WithKind(KindPermission)
	}

	perm.IsEnabled = enabled
	perm.UpdatedAt = now
	return nil
}

// SoftDeletePermission marks the permission deleted, keeping its edges and
// attributes for a later restore or purge.
func (s *Service) SoftDeletePermission(ctx context.Context, perm *Permission) error {
	now := time.Now()
	result, err := s.db.NewUpdate().Table("permissions").
		Set("deleted_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NULL", perm.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "SoftDeletePermission").Err()
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "permission not found or already deleted").WithKind(KindPermission)
	}

	perm.DeletedAt = now
	perm.UpdatedAt = now
	return nil
}

// RestorePermission clears the soft-delete marker after re-checking that
// the identifier is still free among living permissions.
func (s *Service) RestorePermission(ctx context.Context, perm *Permission) error {
	taken, err := s.permissionIdentifierTaken(ctx, perm.Identifier, perm.ID)
	if err != nil {
		return err
	}
	if taken {
		return NewError(ErrDuplicateIdentifier, "identifier was taken while the permission was deleted").
			WithKind(KindPermission).
			WithIdentifier(perm.Identifier)
	}

	now := time.Now()
	result, err := s.db.NewUpdate().Table("permissions").
		Set("deleted_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ? AND deleted_at IS NOT NULL", perm.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "RestorePermission").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return NewError(ErrDuplicateIdentifier, "identifier was taken while the permission was deleted").
				WithKind(KindPermission).
				WithIdentifier(perm.Identifier)
		}
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "permission not found or not deleted").WithKind(KindPermission)
	}

	perm.DeletedAt = time.Time{}
	perm.UpdatedAt = now
	return nil
}

// ForceDeletePermission permanently purges the permission, cascading
// through its localized attribute rows (soft-deleted ones included) and
// its role edges.
func (s *Service) ForceDeletePermission(ctx context.Context, perm *Permission) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		langTable := tx.langs.Table(KindPermission)

		result, err := tx.db.NewDelete().Table(langTable).
			Where("morph_type = ? AND morph_id = ?", string(KindPermission), perm.ID).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "ForceDeletePermissionLangs").Err(); err != nil {
			return err
		}

		result, err = tx.db.NewDelete().Table("roles_permissions").
			Where("permission_id = ?", perm.ID).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "ForceDeletePermissionEdges").Err(); err != nil {
			return err
		}

		result, err = tx.db.NewDelete().Table("permissions").
			Where("id = ?", perm.ID).
			Exec(ctx)
		return dbkit.WithErr(result, err, "ForceDeletePermission").Err()
	})
}

func (s *Service) permissionIdentifierTaken(ctx context.Context, identifier, excludeID string) (bool, error) {
	return dbkit.Exists[Permission](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("identifier = ?", identifier)
		if excludeID != "" {
			q = q.Where("id <> ?", excludeID)
		}
		return q
	})
}
