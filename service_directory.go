package accesskit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// DIRECTORY LISTINGS
// ============================================================================

// ListRoles returns living roles matching the filter, newest update first.
// Display columns are resolved in the filter's language; entities without a
// translation still appear, with empty display columns.
//
// Example:
//
//	rows, err := service.ListRoles(ctx, accesskit.NewDirectoryFilter().
//	    WithEnabled(true).
//	    WithName("admin").
//	    WithPagination(1, 20))
func (s *Service) ListRoles(ctx context.Context, filter DirectoryFilter) ([]DirectoryRow, error) {
	return s.listDirectory(ctx, KindRole, filter)
}

// ListPermissions returns living permissions matching the filter, newest
// update first. Host filters are ignored; permissions are global.
func (s *Service) ListPermissions(ctx context.Context, filter DirectoryFilter) ([]DirectoryRow, error) {
	return s.listDirectory(ctx, KindPermission, filter)
}

// CountRoles returns the number of living roles matching the filter,
// ignoring pagination.
func (s *Service) CountRoles(ctx context.Context, filter DirectoryFilter) (int, error) {
	return s.countDirectory(ctx, KindRole, filter)
}

// CountPermissions returns the number of living permissions matching the
// filter, ignoring pagination.
func (s *Service) CountPermissions(ctx context.Context, filter DirectoryFilter) (int, error) {
	return s.countDirectory(ctx, KindPermission, filter)
}

func (s *Service) listDirectory(ctx context.Context, kind EntityKind, filter DirectoryFilter) ([]DirectoryRow, error) {
	paged, err := filter.paginated()
	if err != nil {
		return nil, err
	}
	code, err := NormalizeLanguageCode(filter.Language)
	if err != nil {
		return nil, err
	}

	entityTable, hostColumns := directoryTable(kind)
	langTable := s.langs.Table(kind)

	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT e.id, ")
	if hostColumns {
		sb.WriteString("COALESCE(e.host_type, '') AS host_type, COALESCE(e.host_id::text, '') AS host_id, ")
	} else {
		sb.WriteString("'' AS host_type, '' AS host_id, ")
	}
	sb.WriteString("COALESCE(e.serial, '') AS serial, e.identifier, e.is_enabled, e.updated_at, ")
	sb.WriteString(currentValueSubquery(langTable, kind, "name") + " AS name, ")
	sb.WriteString(currentValueSubquery(langTable, kind, "description") + " AS description ")
	args = append(args, code, code)
	sb.WriteString("FROM " + entityTable + " AS e")

	where, whereArgs := directoryConditions(kind, langTable, filter, code, hostColumns)
	sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	args = append(args, whereArgs...)

	sb.WriteString(" ORDER BY e.updated_at DESC, e.id")
	if paged {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	}

	var rows []DirectoryRow
	err = s.db.NewRaw(sb.String(), args...).Scan(ctx, &rows)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbkit.WithErr1(err, "ListDirectory").Err()
	}
	return rows, nil
}

func (s *Service) countDirectory(ctx context.Context, kind EntityKind, filter DirectoryFilter) (int, error) {
	code, err := NormalizeLanguageCode(filter.Language)
	if err != nil {
		return 0, err
	}

	entityTable, hostColumns := directoryTable(kind)
	langTable := s.langs.Table(kind)

	where, args := directoryConditions(kind, langTable, filter, code, hostColumns)
	query := "SELECT COUNT(*) FROM " + entityTable + " AS e WHERE " + strings.Join(where, " AND ")

	var count int
	err = s.db.NewRaw(query, args...).Scan(ctx, &count)
	if err != nil {
		return 0, dbkit.WithErr1(err, "CountDirectory").Err()
	}
	return count, nil
}

// directoryTable maps an entity kind to its table and whether it carries
// host columns.
func directoryTable(kind EntityKind) (string, bool) {
	if kind == KindPermission {
		return "permissions", false
	}
	return "roles", true
}

// currentValueSubquery builds the scalar subquery resolving the current
// value of one attribute key. It consumes one placeholder: the language code.
func currentValueSubquery(langTable string, kind EntityKind, key string) string {
	return fmt.Sprintf(
		"COALESCE((SELECT l.value FROM %s AS l WHERE l.morph_type = '%s' AND l.morph_id = e.id AND l.code = ? AND l.key = '%s' AND l.is_current AND l.deleted_at IS NULL LIMIT 1), '')",
		langTable, string(kind), key)
}

// directoryConditions builds the WHERE fragments shared by listing and
// counting. Placeholders line up with the returned args.
func directoryConditions(kind EntityKind, langTable string, filter DirectoryFilter, code string, hostColumns bool) ([]string, []interface{}) {
	where := []string{"e.deleted_at IS NULL"}
	var args []interface{}

	if filter.ID != "" {
		where = append(where, "e.id = ?")
		args = append(args, filter.ID)
	}
	if filter.Serial != "" {
		where = append(where, "e.serial = ?")
		args = append(args, filter.Serial)
	}
	if filter.Identifier != "" {
		where = append(where, "e.identifier = ?")
		args = append(args, filter.Identifier)
	}
	if filter.Enabled != nil {
		where = append(where, "e.is_enabled = ?")
		args = append(args, *filter.Enabled)
	}
	if hostColumns && filter.HostType != "" {
		where = append(where, "e.host_type = ?")
		args = append(args, filter.HostType)
		if filter.HostID != "" {
			where = append(where, "e.host_id = ?")
			args = append(args, filter.HostID)
		}
	}
	if filter.Name != "" {
		where = append(where, attributeMatchCondition(langTable, kind, "name"))
		args = append(args, code, "%"+filter.Name+"%")
	}
	if filter.Description != "" {
		where = append(where, attributeMatchCondition(langTable, kind, "description"))
		args = append(args, code, "%"+filter.Description+"%")
	}

	return where, args
}

// attributeMatchCondition builds the EXISTS fragment for a substring match
// against a current attribute row. It consumes two placeholders: the
// language code and the pattern.
func attributeMatchCondition(langTable string, kind EntityKind, key string) string {
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s AS lf WHERE lf.morph_type = '%s' AND lf.morph_id = e.id AND lf.code = ? AND lf.key = '%s' AND lf.is_current AND lf.deleted_at IS NULL AND lf.value ILIKE ?)",
		langTable, string(kind), key)
}

// ============================================================================
// SINGLE-ENTITY VIEWS
// ============================================================================

// ShowRole returns the flat detail record for one living role, resolving
// display values in the given language with fallback to DefaultLanguage.
func (s *Service) ShowRole(ctx context.Context, roleID, code string) (*DirectoryDetail, error) {
	role, err := s.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return s.entityDetail(ctx, RoleOwner(role.ID), code, DirectoryDetail{
		HostType:   role.HostType,
		HostID:     role.HostID,
		Serial:     role.Serial,
		Identifier: role.Identifier,
		IsEnabled:  role.IsEnabled,
		UpdatedAt:  role.UpdatedAt,
	})
}

// ShowPermission returns the flat detail record for one living permission.
func (s *Service) ShowPermission(ctx context.Context, permissionID, code string) (*DirectoryDetail, error) {
	permission, err := s.GetPermission(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	return s.entityDetail(ctx, PermissionOwner(permission.ID), code, DirectoryDetail{
		Serial:     permission.Serial,
		Identifier: permission.Identifier,
		IsEnabled:  permission.IsEnabled,
		UpdatedAt:  permission.UpdatedAt,
	})
}

func (s *Service) entityDetail(ctx context.Context, owner OwnerRef, code string, detail DirectoryDetail) (*DirectoryDetail, error) {
	name, _, err := s.GetAttributeWithFallback(ctx, owner, code, "name")
	if err != nil {
		return nil, err
	}
	description, _, err := s.GetAttributeWithFallback(ctx, owner, code, "description")
	if err != nil {
		return nil, err
	}
	detail.Name = name
	detail.Description = description
	return &detail, nil
}

// ShowRoleLocalized returns the detail record for one living role keyed by
// language code. With explicit codes the map holds exactly those codes,
// each resolved with fallback; without, every language that has current
// attribute rows.
func (s *Service) ShowRoleLocalized(ctx context.Context, roleID string, codes ...string) (map[string]DirectoryDetail, error) {
	role, err := s.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return s.localizedDetails(ctx, RoleOwner(role.ID), DirectoryDetail{
		HostType:   role.HostType,
		HostID:     role.HostID,
		Serial:     role.Serial,
		Identifier: role.Identifier,
		IsEnabled:  role.IsEnabled,
		UpdatedAt:  role.UpdatedAt,
	}, codes)
}

// ShowPermissionLocalized returns the detail record for one living
// permission keyed by language code, with the same code semantics as
// ShowRoleLocalized.
func (s *Service) ShowPermissionLocalized(ctx context.Context, permissionID string, codes ...string) (map[string]DirectoryDetail, error) {
	permission, err := s.GetPermission(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	return s.localizedDetails(ctx, PermissionOwner(permission.ID), DirectoryDetail{
		Serial:     permission.Serial,
		Identifier: permission.Identifier,
		IsEnabled:  permission.IsEnabled,
		UpdatedAt:  permission.UpdatedAt,
	}, codes)
}

func (s *Service) localizedDetails(ctx context.Context, owner OwnerRef, base DirectoryDetail, codes []string) (map[string]DirectoryDetail, error) {
	if len(codes) > 0 {
		out := make(map[string]DirectoryDetail, len(codes))
		for _, raw := range codes {
			code, err := NormalizeLanguageCode(raw)
			if err != nil {
				return nil, err
			}
			detail, err := s.entityDetail(ctx, owner, code, base)
			if err != nil {
				return nil, err
			}
			out[code] = *detail
		}
		return out, nil
	}

	table := s.langs.Table(owner.Kind)

	var rows []struct {
		Code  string `bun:"code"`
		Key   string `bun:"key"`
		Value string `bun:"value"`
	}
	err := s.db.NewRaw(
		"SELECT code, key, COALESCE(value, '') AS value FROM "+table+
			" WHERE morph_type = ? AND morph_id = ? AND is_current AND deleted_at IS NULL",
		string(owner.Kind), owner.ID).Scan(ctx, &rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, dbkit.WithErr1(err, "ShowLocalized").Err()
	}

	out := make(map[string]DirectoryDetail)
	for _, row := range rows {
		detail, ok := out[row.Code]
		if !ok {
			detail = base
		}
		switch row.Key {
		case "name":
			detail.Name = row.Value
		case "description":
			detail.Description = row.Value
		}
		out[row.Code] = detail
	}
	if len(out) == 0 {
		out[DefaultLanguage] = base
	}
	return out, nil
}

// ============================================================================
// CHOICES
// ============================================================================

// RoleChoices returns id+name pairs for every living enabled role, for
// building selection lists. Names resolve in the given language, falling
// back to DefaultLanguage and finally to the identifier.
func (s *Service) RoleChoices(ctx context.Context, code string) ([]Choice, error) {
	return s.choices(ctx, KindRole, code)
}

// PermissionChoices returns id+name pairs for every living enabled
// permission.
func (s *Service) PermissionChoices(ctx context.Context, code string) ([]Choice, error) {
	return s.choices(ctx, KindPermission, code)
}

func (s *Service) choices(ctx context.Context, kind EntityKind, code string) ([]Choice, error) {
	code, err := NormalizeLanguageCode(code)
	if err != nil {
		return nil, err
	}

	entityTable, _ := directoryTable(kind)
	langTable := s.langs.Table(kind)

	query := fmt.Sprintf(
		"SELECT e.id, COALESCE("+
			"(SELECT l.value FROM %[1]s AS l WHERE l.morph_type = '%[2]s' AND l.morph_id = e.id AND l.code = ? AND l.key = 'name' AND l.is_current AND l.deleted_at IS NULL LIMIT 1), "+
			"(SELECT l.value FROM %[1]s AS l WHERE l.morph_type = '%[2]s' AND l.morph_id = e.id AND l.code = ? AND l.key = 'name' AND l.is_current AND l.deleted_at IS NULL LIMIT 1), "+
			"e.identifier) AS name "+
			"FROM %[3]s AS e WHERE e.deleted_at IS NULL AND e.is_enabled ORDER BY name",
		langTable, string(kind), entityTable)

	var rows []Choice
	err = s.db.NewRaw(query, code, DefaultLanguage).Scan(ctx, &rows)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbkit.WithErr1(err, "Choices").Err()
	}
	return rows, nil
}
