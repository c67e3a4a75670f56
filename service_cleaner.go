package accesskit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fernandezvara/dbkit"
)

// accesskitTables lists every table AccessKit owns, edges before entities so
// the sweep respects foreign keys.
var accesskitTables = []string{
	"users_roles",
	"roles_permissions",
	"roles_lang",
	"permissions_lang",
	"system_langs",
	"roles",
	"permissions",
}

// TruncateAll removes every row AccessKit owns: entities (including
// soft-deleted ones), membership edges, and localized attributes across all
// backends. Meant for maintenance jobs and test cleanup, not for request
// paths.
func (s *Service) TruncateAll(ctx context.Context) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		for _, table := range accesskitTables {
			_, err := tx.db.NewRaw("DELETE FROM " + table).Exec(ctx)
			if err := dbkit.WithErr1(err, "TruncateAll").Err(); err != nil {
				return err
			}
		}
		return nil
	})
}

// PurgeDeleted permanently removes soft-deleted roles and permissions older
// than the cutoff, cascading their attribute rows and edges. Entities
// soft-deleted after the cutoff are kept for possible restore.
func (s *Service) PurgeDeleted(ctx context.Context, cutoff time.Time) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		roles, err := tx.deletedEntityIDs(ctx, "roles", cutoff)
		if err != nil {
			return err
		}
		for _, id := range roles {
			if err := tx.ForceDeleteRole(ctx, &Role{ID: id}); err != nil {
				return err
			}
		}

		permissions, err := tx.deletedEntityIDs(ctx, "permissions", cutoff)
		if err != nil {
			return err
		}
		for _, id := range permissions {
			if err := tx.ForceDeletePermission(ctx, &Permission{ID: id}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) deletedEntityIDs(ctx context.Context, table string, cutoff time.Time) ([]string, error) {
	var ids []string
	err := s.db.NewRaw(
		"SELECT id FROM "+table+" WHERE deleted_at IS NOT NULL AND deleted_at < ?",
		cutoff).Scan(ctx, &ids)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbkit.WithErr1(err, "PurgeDeleted").Err()
	}
	return ids, nil
}
