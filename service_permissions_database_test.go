package accesskit

import (
	"testing"
)

// TestPermissionLifecycle tests the permission CRUD path
func TestPermissionLifecycle(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	identifier := uniqueIdentifier("perm.lifecycle")

	perm, err := service.CreatePermission(ctx, CreatePermissionInput{Identifier: identifier})
	if err != nil {
		t.Fatalf("CreatePermission failed: %v", err)
	}
	if perm.IsEnabled {
		t.Error("new permissions should start disabled")
	}

	if _, err := service.CreatePermission(ctx, CreatePermissionInput{Identifier: identifier}); !IsDuplicateIdentifier(err) {
		t.Errorf("expected duplicate identifier error, got %v", err)
	}

	if err := service.SetPermissionEnabled(ctx, perm, true); err != nil {
		t.Fatalf("SetPermissionEnabled failed: %v", err)
	}
	loaded, err := service.GetPermissionByIdentifier(ctx, identifier)
	if err != nil {
		t.Fatalf("GetPermissionByIdentifier failed: %v", err)
	}
	if !loaded.IsEnabled {
		t.Error("permission should be enabled")
	}

	renamed := uniqueIdentifier("perm.renamed")
	if err := service.RenamePermission(ctx, perm, renamed); err != nil {
		t.Fatalf("RenamePermission failed: %v", err)
	}
	if _, err := service.GetPermissionByIdentifier(ctx, identifier); !IsNotFound(err) {
		t.Errorf("old identifier should be free, got %v", err)
	}
	if _, err := service.GetPermissionByIdentifier(ctx, renamed); err != nil {
		t.Errorf("renamed permission should resolve: %v", err)
	}
}

// TestPermissionSoftDeleteAndRestore tests identifier reuse for permissions
func TestPermissionSoftDeleteAndRestore(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	identifier := uniqueIdentifier("perm.reuse")
	perm, err := service.CreatePermission(ctx, CreatePermissionInput{Identifier: identifier})
	if err != nil {
		t.Fatalf("CreatePermission failed: %v", err)
	}

	if err := service.SoftDeletePermission(ctx, perm); err != nil {
		t.Fatalf("SoftDeletePermission failed: %v", err)
	}
	if _, err := service.GetPermission(ctx, perm.ID); !IsNotFound(err) {
		t.Errorf("deleted permission should not resolve, got %v", err)
	}

	// the identifier is free while the row is deleted
	if _, err := service.CreatePermission(ctx, CreatePermissionInput{Identifier: identifier}); err != nil {
		t.Fatalf("reuse after soft delete failed: %v", err)
	}

	if err := service.RestorePermission(ctx, perm); !IsDuplicateIdentifier(err) {
		t.Errorf("restore should collide with the replacement, got %v", err)
	}
}

// TestPermissionForceDeleteCascades tests cascade on permanent delete
func TestPermissionForceDeleteCascades(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	role := helper.CreateTestRole("perm.cascade")
	perm := helper.CreateTestPermission("perm.cascade.target")

	if err := service.AttachPermission(ctx, role, perm); err != nil {
		t.Fatalf("AttachPermission failed: %v", err)
	}
	if err := service.SetAttribute(ctx, PermissionOwner(perm.ID), "en_us", "name", "Doomed"); err != nil {
		t.Fatalf("SetAttribute failed: %v", err)
	}

	if err := service.ForceDeletePermission(ctx, perm); err != nil {
		t.Fatalf("ForceDeletePermission failed: %v", err)
	}

	ids, err := service.PermissionIDsForRole(ctx, role)
	if err != nil {
		t.Fatalf("PermissionIDsForRole failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("grant edges should be purged, got %v", ids)
	}
	if _, found, err := service.GetAttribute(ctx, PermissionOwner(perm.ID), "en_us", "name"); err != nil || found {
		t.Errorf("attribute rows should be purged, found=%v err=%v", found, err)
	}
}

// TestRoleAndPermissionIdentifiersIndependent tests the separate namespaces
func TestRoleAndPermissionIdentifiersIndependent(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	identifier := uniqueIdentifier("shared.name")

	if _, err := service.CreateRole(ctx, CreateRoleInput{Identifier: identifier}); err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	// the same identifier is fine on the permission side
	if _, err := service.CreatePermission(ctx, CreatePermissionInput{Identifier: identifier}); err != nil {
		t.Errorf("permission identifiers are a separate namespace: %v", err)
	}
}
