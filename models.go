package accesskit

import (
	"sort"
	"time"

	"github.com/uptrace/bun"
)

// EntityKind discriminates the two entity tables managed by AccessKit.
type EntityKind string

const (
	KindRole       EntityKind = "role"
	KindPermission EntityKind = "permission"
)

// Role is a grantable bundle of permissions identified by a unique string.
// A role can belong to a polymorphic host (a tenant, an organization, ...)
// and is soft-deleted on removal: the row stays, keeps its edges and
// localized attributes, and disappears from authorization answers.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID         string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	HostType   string    `bun:"host_type,nullzero"`
	HostID     string    `bun:"host_id,type:uuid,nullzero"`
	Serial     string    `bun:"serial,nullzero"`
	Identifier string    `bun:"identifier,notnull"`
	IsEnabled  bool      `bun:"is_enabled,notnull,default:false"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
	DeletedAt  time.Time `bun:"deleted_at,soft_delete,nullzero"`
}

// Host returns the polymorphic host reference, or nil when the role is
// global.
func (r *Role) Host() *HostRef {
	if r.HostType == "" {
		return nil
	}
	return &HostRef{Type: r.HostType, ID: r.HostID}
}

// IsDeleted reports whether the role is soft-deleted.
func (r *Role) IsDeleted() bool {
	return !r.DeletedAt.IsZero()
}

// Permission is a single grantable capability identified by a unique string
// such as "files.read". Same lifecycle as Role, minus the host.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	ID         string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Serial     string    `bun:"serial,nullzero"`
	Identifier string    `bun:"identifier,notnull"`
	IsEnabled  bool      `bun:"is_enabled,notnull,default:false"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
	DeletedAt  time.Time `bun:"deleted_at,soft_delete,nullzero"`
}

// IsDeleted reports whether the permission is soft-deleted.
func (p *Permission) IsDeleted() bool {
	return !p.DeletedAt.IsZero()
}

// LocalizedAttribute is one versioned translation row for an owning entity.
// Several rows may exist for the same (owner, code, key); exactly one of
// them is current. Superseded rows are demoted, never rewritten.
//
// The table the row lives in depends on the LocalizationBackend: roles_lang
// or permissions_lang for the per-entity backend, system_langs for the
// shared one. The struct tag names the role table; queries override it per
// owner kind.
type LocalizedAttribute struct {
	bun.BaseModel `bun:"table:roles_lang,alias:l"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	MorphType string    `bun:"morph_type,notnull"`
	MorphID   string    `bun:"morph_id,type:uuid,notnull"`
	UserID    string    `bun:"user_id,type:uuid,nullzero"`
	Code      string    `bun:"code,notnull"`
	Key       string    `bun:"key,notnull"`
	Value     string    `bun:"value,nullzero"`
	IsCurrent bool      `bun:"is_current,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
	DeletedAt time.Time `bun:"deleted_at,soft_delete,nullzero"`
}

// UserRole is a membership edge between a user and a role. The row is the
// fact: no payload, no independent identity.
type UserRole struct {
	bun.BaseModel `bun:"table:users_roles,alias:ur"`

	UserID string `bun:"user_id,pk,type:uuid"`
	RoleID string `bun:"role_id,pk,type:uuid"`
}

// RolePermission is a membership edge between a role and a permission.
type RolePermission struct {
	bun.BaseModel `bun:"table:roles_permissions,alias:rp"`

	RoleID       string `bun:"role_id,pk,type:uuid"`
	PermissionID string `bun:"permission_id,pk,type:uuid"`
}

// HostRef is a tagged reference to the polymorphic owner of a role.
type HostRef struct {
	Type string
	ID   string
}

// NewHostRef creates a HostRef.
func NewHostRef(hostType, hostID string) HostRef {
	return HostRef{Type: hostType, ID: hostID}
}

// String returns a string representation of the host reference.
func (h HostRef) String() string {
	return h.Type + ":" + h.ID
}

// Ref is the one-field descriptor form accepted by attach/detach operations.
type Ref struct {
	ID string
}

// OwnerRef identifies the owning entity of localized attribute rows.
type OwnerRef struct {
	Kind EntityKind
	ID   string
}

// RoleOwner builds an OwnerRef for a role id.
func RoleOwner(roleID string) OwnerRef {
	return OwnerRef{Kind: KindRole, ID: roleID}
}

// PermissionOwner builds an OwnerRef for a permission id.
func PermissionOwner(permissionID string) OwnerRef {
	return OwnerRef{Kind: KindPermission, ID: permissionID}
}

// Grants holds the materialized authorization view for one user: the roles
// the user is attached to and, per role, the permissions those roles grant.
// Soft-deleted entities are never loaded into a Grants; disabled ones are
// excluded depending on the GrantsOptions used to load it.
type Grants struct {
	UserID string
	Roles  []Role

	// Indexed for fast lookup
	permissionsByRole map[string][]Permission // role id -> permissions
	roleIdentifiers   map[string]bool
}

// NewGrants builds a Grants from loaded roles and their permissions.
func NewGrants(userID string, roles []Role, permissionsByRole map[string][]Permission) *Grants {
	g := &Grants{
		UserID:            userID,
		Roles:             roles,
		permissionsByRole: permissionsByRole,
		roleIdentifiers:   make(map[string]bool, len(roles)),
	}
	if g.permissionsByRole == nil {
		g.permissionsByRole = make(map[string][]Permission)
	}
	for _, r := range roles {
		g.roleIdentifiers[r.Identifier] = true
	}
	return g
}

// HasRole reports whether the user holds a role with the given identifier.
func (g *Grants) HasRole(identifier string) bool {
	return g.roleIdentifiers[identifier]
}

// RoleIdentifiers returns the identifiers of all held roles, sorted and
// deduplicated.
func (g *Grants) RoleIdentifiers() []string {
	out := make([]string, 0, len(g.roleIdentifiers))
	for id := range g.roleIdentifiers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// PermissionIdentifiers returns the union of permission identifiers granted
// by the user's roles, sorted and deduplicated.
func (g *Grants) PermissionIdentifiers() []string {
	set := make(map[string]bool)
	for _, r := range g.Roles {
		for _, p := range g.permissionsByRole[r.ID] {
			set[p.Identifier] = true
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Permits reports whether any of the user's roles grants the permission
// identifier.
func (g *Grants) Permits(identifier string) bool {
	for _, r := range g.Roles {
		for _, p := range g.permissionsByRole[r.ID] {
			if p.Identifier == identifier {
				return true
			}
		}
	}
	return false
}

// RolePermissions returns the permissions granted by one held role.
func (g *Grants) RolePermissions(roleID string) []Permission {
	return g.permissionsByRole[roleID]
}

// IsEmpty reports whether the user holds no roles.
func (g *Grants) IsEmpty() bool {
	return len(g.Roles) == 0
}

// DirectoryRow is one listing entry: entity columns augmented with the
// localized name and description resolved for the requested language.
type DirectoryRow struct {
	ID          string
	HostType    string
	HostID      string
	Serial      string
	Identifier  string
	IsEnabled   bool
	Name        string
	Description string
	UpdatedAt   time.Time
}

// DirectoryDetail is the flat single-entity record returned by Show.
type DirectoryDetail struct {
	HostType    string
	HostID      string
	Serial      string
	Identifier  string
	Name        string
	Description string
	IsEnabled   bool
	UpdatedAt   time.Time
}

// Choice is a minimal id+display pair for building selection lists.
type Choice struct {
	ID   string
	Name string
}
