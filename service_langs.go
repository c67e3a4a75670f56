package accesskit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// LOCALIZED ATTRIBUTES
// ============================================================================

// LocalizationBackend decides where localized attribute rows live. It is
// selected once at construction; the write/read logic is identical across
// backends.
type LocalizationBackend interface {
	// Table returns the table name holding attribute rows for the kind.
	Table(kind EntityKind) string
}

type splitTables struct{}

func (splitTables) Table(kind EntityKind) string {
	if kind == KindPermission {
		return "permissions_lang"
	}
	return "roles_lang"
}

// SplitTables is the default backend: each entity kind keeps its attribute
// rows in its own table (roles_lang, permissions_lang).
func SplitTables() LocalizationBackend {
	return splitTables{}
}

type sharedTable struct{}

func (sharedTable) Table(EntityKind) string {
	return "system_langs"
}

// SharedTable stores attribute rows for all entity kinds in one table, for
// applications that centralize their translations.
func SharedTable() LocalizationBackend {
	return sharedTable{}
}

// SetAttribute writes a localized attribute value for an entity. History is
// never modified: existing current rows for (owner, language, key) are
// demoted and a fresh current row is inserted. The authoring user, when
// present in context, is recorded on the new row and survives as NULL if
// that user is ever deleted.
//
// Example:
//
//	err := service.SetAttribute(ctx, accesskit.RoleOwner(role.ID), "en_us", "name", "Administrator")
func (s *Service) SetAttribute(ctx context.Context, owner OwnerRef, code, key, value string) error {
	if owner.ID == "" {
		return NewError(ErrValidation, "empty owner id").WithKind(owner.Kind)
	}
	if key == "" {
		return NewError(ErrValidation, "empty attribute key").WithKind(owner.Kind)
	}
	code, err := NormalizeLanguageCode(code)
	if err != nil {
		return err
	}

	table := s.langs.Table(owner.Kind)
	now := time.Now()
	row := &LocalizedAttribute{
		ID:        uuid.NewString(),
		MorphType: string(owner.Kind),
		MorphID:   owner.ID,
		UserID:    GetAuthorID(ctx),
		Code:      code,
		Key:       key,
		Value:     value,
		IsCurrent: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		result, err := tx.db.NewUpdate().Table(table).
			Set("is_current = ?", false).
			Set("updated_at = ?", now).
			Where("morph_type = ? AND morph_id = ? AND code = ? AND key = ? AND is_current AND deleted_at IS NULL",
				string(owner.Kind), owner.ID, code, key).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "DemoteAttributeRows").Err(); err != nil {
			return err
		}

		result, err = tx.db.NewInsert().Model(row).
			ModelTableExpr(table + " AS l").
			Exec(ctx)
		return dbkit.WithErr(result, err, "InsertAttributeRow").Err()
	})
}

// GetAttribute returns the current value for (owner, language, key). The
// second return is false when no current row exists; that is not an error,
// not even after a force delete removed every row.
func (s *Service) GetAttribute(ctx context.Context, owner OwnerRef, code, key string) (string, bool, error) {
	code, err := NormalizeLanguageCode(code)
	if err != nil {
		return "", false, err
	}
	return s.currentAttributeValue(ctx, owner, code, key)
}

// GetAttributeWithFallback returns the current value for the requested
// language, falling back to DefaultLanguage when the requested language has
// no current row.
func (s *Service) GetAttributeWithFallback(ctx context.Context, owner OwnerRef, code, key string) (string, bool, error) {
	code, err := NormalizeLanguageCode(code)
	if err != nil {
		return "", false, err
	}

	value, found, err := s.currentAttributeValue(ctx, owner, code, key)
	if err != nil || found {
		return value, found, err
	}
	if code == DefaultLanguage {
		return "", false, nil
	}
	return s.currentAttributeValue(ctx, owner, DefaultLanguage, key)
}

// AttributeHistory returns every living row for (owner, language, key),
// newest first. The current row, if any, is first.
func (s *Service) AttributeHistory(ctx context.Context, owner OwnerRef, code, key string) ([]LocalizedAttribute, error) {
	code, err := NormalizeLanguageCode(code)
	if err != nil {
		return nil, err
	}

	var rows []LocalizedAttribute
	err = dbkit.WithErr1(s.db.NewSelect().Model(&rows).
		ModelTableExpr(s.langs.Table(owner.Kind)+" AS l").
		Where("l.morph_type = ? AND l.morph_id = ? AND l.code = ? AND l.key = ?",
			string(owner.Kind), owner.ID, code, key).
		Order("l.is_current DESC", "l.created_at DESC").
		Scan(ctx), "AttributeHistory").Err()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rows, nil
}

// currentAttributeValue expects an already normalized language code.
func (s *Service) currentAttributeValue(ctx context.Context, owner OwnerRef, code, key string) (string, bool, error) {
	table := s.langs.Table(owner.Kind)

	var value sql.NullString
	err := s.db.NewRaw(
		"SELECT value FROM "+table+
			" WHERE morph_type = ? AND morph_id = ? AND code = ? AND key = ? AND is_current AND deleted_at IS NULL LIMIT 1",
		string(owner.Kind), owner.ID, code, key).Scan(ctx, &value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, dbkit.WithErr1(err, "GetAttribute").Err()
	}
	return value.String, true, nil
}
