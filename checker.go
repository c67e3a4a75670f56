package accesskit

// Checker answers authorization questions for a specific user against a
// Grants view materialized at load time. It is typically created by the
// Service and stored in context for use in handlers.
//
// Empty-set policy: every conjunctive check over a set (HasRoles, CanDoAll)
// evaluates to false for an empty set. Holding "all of nothing" is not
// treated as a grant; callers that want vacuous truth must special-case it
// themselves.
type Checker struct {
	userID string
	grants *Grants
}

// NewChecker creates a new Checker for a user.
func NewChecker(userID string, grants *Grants) *Checker {
	return &Checker{
		userID: userID,
		grants: grants,
	}
}

// UserID returns the user ID this checker is for.
func (c *Checker) UserID() string {
	return c.userID
}

// HasRole checks if the user holds a role with the given identifier.
//
// Example:
//
//	if checker.HasRole("admin") {
//	    // user is an admin
//	}
func (c *Checker) HasRole(identifier string) bool {
	return c.grants.HasRole(identifier)
}

// HasAnyRole checks if the user holds at least one of the identifiers.
func (c *Checker) HasAnyRole(identifiers []string) bool {
	for _, identifier := range identifiers {
		if c.grants.HasRole(identifier) {
			return true
		}
	}
	return false
}

// HasRoles checks if the user holds every identifier in the set,
// short-circuiting on the first miss. An empty set returns false.
func (c *Checker) HasRoles(identifiers []string) bool {
	if len(identifiers) == 0 {
		return false
	}
	for _, identifier := range identifiers {
		if !c.grants.HasRole(identifier) {
			return false
		}
	}
	return true
}

// CanDo checks if any of the user's roles grants the permission identifier.
//
// Example:
//
//	if checker.CanDo("files.upload") {
//	    // at least one held role grants files.upload
//	}
func (c *Checker) CanDo(identifier string) bool {
	return c.grants.Permits(identifier)
}

// CanDoAny checks if the user is granted at least one of the identifiers.
func (c *Checker) CanDoAny(identifiers []string) bool {
	for _, identifier := range identifiers {
		if c.grants.Permits(identifier) {
			return true
		}
	}
	return false
}

// CanDoAll checks if every identifier in the set is granted by at least one
// of the user's roles: conjunction over identifiers, disjunction over roles
// per identifier. An empty set returns false.
//
// Example:
//
//	// role A grants {read}, role B grants {write}
//	checker.CanDoAll([]string{"read", "write"}) // true
//	checker.CanDoAll([]string{"read", "delete"}) // false
func (c *Checker) CanDoAll(identifiers []string) bool {
	if len(identifiers) == 0 {
		return false
	}
	for _, identifier := range identifiers {
		if !c.grants.Permits(identifier) {
			return false
		}
	}
	return true
}

// RoleIdentifiers returns the identifiers of all held roles.
func (c *Checker) RoleIdentifiers() []string {
	return c.grants.RoleIdentifiers()
}

// PermissionIdentifiers returns the deduplicated union of permission
// identifiers the user's roles grant.
func (c *Checker) PermissionIdentifiers() []string {
	return c.grants.PermissionIdentifiers()
}

// Grants exposes the underlying materialized view.
func (c *Checker) Grants() *Grants {
	return c.grants
}

// IsEmpty returns true if the user holds no roles.
func (c *Checker) IsEmpty() bool {
	return c.grants.IsEmpty()
}
