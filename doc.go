// Package accesskit provides identifier-based role and permission management
// with localized display attributes.
//
// AccessKit stores roles and permissions as database entities, maintains the
// two many-to-many relations between users and roles and between roles and
// permissions, and answers authorization questions against a materialized
// view of a user's grants. Display text (name, description) is kept per
// language in versioned attribute rows so that history is never modified.
//
// # Core Concepts
//
// Role: a database entity with a unique, human-meaningful identifier (e.g.
// "admin"), an optional serial, an optional polymorphic host (a tenant,
// organization, or any owner type registered in the HostRegistry), an enabled
// flag, and a soft-delete lifecycle.
//
// Permission: the same shape without a host. Roles grant permissions through
// the roles_permissions relation; users hold roles through users_roles.
//
// Localized attribute: a per-entity, per-language key/value row (key is
// typically "name" or "description"). Setting an attribute never updates the
// previous row in place: the old row is marked not-current and a new current
// row is inserted.
//
// Identifier uniqueness is scoped to living (non soft-deleted) entities of
// the same kind and enforced both at write time and by a partial unique
// index, so concurrent check-then-insert races degrade to a rejected write.
//
// # Key Features
//
//   - Identifier-based checks: HasRole, HasRoles, CanDo work on the string
//     identifiers administrators assign, not on surrogate keys
//   - Idempotent membership edges: attaching an attached pair or detaching an
//     absent one is a no-op, never an error
//   - Soft delete with restore: a soft-deleted entity keeps its edges and
//     attributes, drops out of all authorization answers, and restores only
//     if its identifier is still free
//   - Versioned localized attributes with language fallback
//   - Filtered, paginated directory listings joined with localized text
//   - DBKit integration: uses your existing database connection
//
// # Basic Usage
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := accesskit.NewService(db)
//
//	// Run migrations
//	db.Migrate(ctx, accesskit.NewMigrationService(service).Migrations())
//
//	// Create entities
//	admin, _ := service.CreateRole(ctx, accesskit.CreateRoleInput{Identifier: "admin"})
//	read, _ := service.CreatePermission(ctx, accesskit.CreatePermissionInput{Identifier: "files.read"})
//
//	// Wire the graph
//	service.AttachPermission(ctx, admin, read)
//	service.AttachRole(ctx, userID, admin)
//	service.SetRoleEnabled(ctx, admin, true)
//
//	// Ask questions
//	if service.CanDo(ctx, userID, "files.read") {
//	    // user holds a role granting files.read
//	}
//
//	// Localized display text
//	service.SetAttribute(ctx, accesskit.RoleOwner(admin.ID), "en_us", "name", "Administrator")
//	name, ok, _ := service.GetAttributeWithFallback(ctx, accesskit.RoleOwner(admin.ID), "zh_tw", "name")
//
// # Middleware Usage
//
//	mw := accesskit.NewMiddleware(service)
//
//	router.With(mw.RequireRole("admin")).
//	    Post("/admin/settings", updateSettingsHandler)
//
//	router.With(mw.RequirePermission("files.upload")).
//	    Post("/files", uploadHandler)
//
// # Localization Backends
//
// By default each entity kind keeps its attribute rows in its own table
// (roles_lang, permissions_lang). Applications that centralize translations
// can select the shared table backend once at construction:
//
//	service := accesskit.NewService(db, accesskit.WithLocalizationBackend(accesskit.SharedTable()))
//
// The choice is dependency injection at startup, never a per-call lookup.
package accesskit
