package accesskit

import "context"

// ============================================================================
// AUTHORIZATION CHECKS
// ============================================================================
//
// All checks run against enabled, living entities (DefaultGrantsOptions);
// a soft-deleted or disabled role contributes nothing, whatever edges it
// still holds. Query errors deny: these helpers answer false rather than
// failing open.

// HasRole checks if a user holds a role with the given identifier.
//
// Example:
//
//	if service.HasRole(ctx, userID, "admin") {
//	    // user is an admin
//	}
func (s *Service) HasRole(ctx context.Context, userID, identifier string) bool {
	grants, err := s.GetGrants(ctx, userID, DefaultGrantsOptions())
	if err != nil {
		return false
	}
	return grants.HasRole(identifier)
}

// HasAnyRole checks if a user holds at least one of the identifiers.
func (s *Service) HasAnyRole(ctx context.Context, userID string, identifiers []string) bool {
	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return false
	}
	return checker.HasAnyRole(identifiers)
}

// HasRoles checks if a user holds every identifier in the set. An empty
// set returns false.
func (s *Service) HasRoles(ctx context.Context, userID string, identifiers []string) bool {
	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return false
	}
	return checker.HasRoles(identifiers)
}

// CanDo checks if any of the user's roles grants the permission
// identifier.
//
// Example:
//
//	if service.CanDo(ctx, userID, "files.upload") {
//	    // user can upload files
//	}
func (s *Service) CanDo(ctx context.Context, userID, identifier string) bool {
	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return false
	}
	return checker.CanDo(identifier)
}

// CanDoAny checks if the user is granted at least one of the identifiers.
func (s *Service) CanDoAny(ctx context.Context, userID string, identifiers []string) bool {
	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return false
	}
	return checker.CanDoAny(identifiers)
}

// CanDoAll checks if every identifier in the set is granted by at least
// one of the user's roles. An empty set returns false.
func (s *Service) CanDoAll(ctx context.Context, userID string, identifiers []string) bool {
	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return false
	}
	return checker.CanDoAll(identifiers)
}

// RoleHasPermission checks if a role grants a permission with the given
// identifier. The role may be passed as *Role, raw key, identifier, or Ref.
func (s *Service) RoleHasPermission(ctx context.Context, role any, identifier string) bool {
	identifiers, err := s.rolePermissionIdentifiers(ctx, role)
	if err != nil {
		return false
	}
	for _, have := range identifiers {
		if have == identifier {
			return true
		}
	}
	return false
}

// RoleHasAnyPermission checks if a role grants at least one identifier in
// the set.
func (s *Service) RoleHasAnyPermission(ctx context.Context, role any, identifiers []string) bool {
	have, err := s.rolePermissionIdentifiers(ctx, role)
	if err != nil {
		return false
	}
	haveSet := make(map[string]bool, len(have))
	for _, id := range have {
		haveSet[id] = true
	}
	for _, id := range identifiers {
		if haveSet[id] {
			return true
		}
	}
	return false
}

// RoleHasPermissions checks if a role grants every identifier in the set,
// short-circuiting on the first miss. An empty set returns false.
func (s *Service) RoleHasPermissions(ctx context.Context, role any, identifiers []string) bool {
	if len(identifiers) == 0 {
		return false
	}
	have, err := s.rolePermissionIdentifiers(ctx, role)
	if err != nil {
		return false
	}
	haveSet := make(map[string]bool, len(have))
	for _, id := range have {
		haveSet[id] = true
	}
	for _, id := range identifiers {
		if !haveSet[id] {
			return false
		}
	}
	return true
}

func (s *Service) rolePermissionIdentifiers(ctx context.Context, role any) ([]string, error) {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return nil, err
	}
	var identifiers []string
	err = s.db.NewRaw(`SELECT p.identifier FROM permissions p
		JOIN roles_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = ? AND p.deleted_at IS NULL AND p.is_enabled`, roleID).Scan(ctx, &identifiers)
	if err != nil {
		return nil, err
	}
	return identifiers, nil
}
