package accesskit

import (
	"testing"

	"github.com/google/uuid"
)

// TestAttachRoleIsIdempotent tests that repeated attach is a no-op
func TestAttachRoleIsIdempotent(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	userID := helper.CreateTestUser()
	role := helper.CreateTestRole("idem")

	for i := 0; i < 3; i++ {
		if err := service.AttachRole(ctx, userID, role); err != nil {
			t.Fatalf("AttachRole attempt %d failed: %v", i+1, err)
		}
	}
	helper.AssertRoleCount(userID, 1)
	if !service.EdgeExists(ctx, userID, role) {
		t.Error("edge should exist after attach")
	}
}

// TestDetachRoleIsIdempotent tests that detaching a missing edge is a no-op
func TestDetachRoleIsIdempotent(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	userID := helper.CreateTestUser()
	role := helper.CreateTestRole("detach")

	// Never attached, detach still succeeds
	if err := service.DetachRole(ctx, userID, role); err != nil {
		t.Fatalf("DetachRole of missing edge failed: %v", err)
	}

	if err := service.AttachRole(ctx, userID, role); err != nil {
		t.Fatalf("AttachRole failed: %v", err)
	}
	if err := service.DetachRole(ctx, userID, role); err != nil {
		t.Fatalf("DetachRole failed: %v", err)
	}
	helper.AssertRoleCount(userID, 0)
	if service.EdgeExists(ctx, userID, role) {
		t.Error("edge should be gone after detach")
	}
}

// TestAttachRolesLeavesUnrelatedEdges tests the per-item semantics of bulk
// attach: each named role is detached then re-attached, edges not named in
// the batch are never touched
func TestAttachRolesLeavesUnrelatedEdges(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	userID := helper.CreateTestUser()
	first := helper.CreateTestRole("set.first")
	second := helper.CreateTestRole("set.second")
	third := helper.CreateTestRole("set.third")

	if err := service.AttachRoles(ctx, userID, []any{first, second}); err != nil {
		t.Fatalf("AttachRoles failed: %v", err)
	}
	helper.AssertRoleCount(userID, 2)

	// A later batch adds its items without disturbing existing edges
	if err := service.AttachRoles(ctx, userID, []any{third}); err != nil {
		t.Fatalf("AttachRoles failed: %v", err)
	}
	helper.AssertRoleCount(userID, 3)
	for _, role := range []*Role{first, second, third} {
		if !service.EdgeExists(ctx, userID, role) {
			t.Errorf("role %s should be attached", role.Identifier)
		}
	}

	// Re-attaching a held role lands clean, no duplicates
	if err := service.AttachRoles(ctx, userID, []any{second}); err != nil {
		t.Fatalf("AttachRoles failed: %v", err)
	}
	helper.AssertRoleCount(userID, 3)

	// Full replacement is an explicit clear-then-attach
	if err := service.DetachAllRoles(ctx, userID); err != nil {
		t.Fatalf("DetachAllRoles failed: %v", err)
	}
	if err := service.AttachRoles(ctx, userID, []any{third}); err != nil {
		t.Fatalf("AttachRoles failed: %v", err)
	}
	helper.AssertRoleCount(userID, 1)
	if service.EdgeExists(ctx, userID, first) {
		t.Error("first role should be gone after the clear")
	}
	if !service.EdgeExists(ctx, userID, third) {
		t.Error("third role should be attached")
	}
}

// TestMembershipKeyForms tests that edges accept models, refs and identifiers
func TestMembershipKeyForms(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	userID := helper.CreateTestUser()
	role := helper.CreateTestRole("forms")

	// model pointer
	if err := service.AttachRole(ctx, userID, role); err != nil {
		t.Fatalf("AttachRole by model failed: %v", err)
	}
	if err := service.DetachRole(ctx, userID, Ref{ID: role.ID}); err != nil {
		t.Fatalf("DetachRole by ref failed: %v", err)
	}
	// identifier string
	if err := service.AttachRole(ctx, userID, role.Identifier); err != nil {
		t.Fatalf("AttachRole by identifier failed: %v", err)
	}
	helper.AssertRoleCount(userID, 1)

	// unknown identifier surfaces not found
	if err := service.AttachRole(ctx, userID, "no.such.role"); !IsNotFound(err) {
		t.Errorf("expected not found for unknown identifier, got %v", err)
	}

	// a well-formed uuid naming no living role is the same typed error,
	// never a raw constraint failure
	if err := service.AttachRole(ctx, userID, uuid.NewString()); !IsNotFound(err) {
		t.Errorf("expected not found for unknown uuid, got %v", err)
	}
	perm := helper.CreateTestPermission("forms.perm")
	if err := service.AttachPermission(ctx, role, uuid.NewString()); !IsNotFound(err) {
		t.Errorf("expected not found for unknown permission uuid, got %v", err)
	}
	if err := service.AttachPermission(ctx, role, perm.ID); err != nil {
		t.Fatalf("AttachPermission by uuid failed: %v", err)
	}
}

// TestDetachAllRoles tests clearing every role of a user
func TestDetachAllRoles(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	userID := helper.CreateTestUser()
	other := helper.CreateTestUser()
	role := helper.CreateTestRole("clear")

	if err := service.AttachRoles(ctx, userID, []any{role, helper.CreateTestRole("clear.more")}); err != nil {
		t.Fatalf("AttachRoles failed: %v", err)
	}
	if err := service.AttachRole(ctx, other, role); err != nil {
		t.Fatalf("AttachRole failed: %v", err)
	}

	if err := service.DetachAllRoles(ctx, userID); err != nil {
		t.Fatalf("DetachAllRoles failed: %v", err)
	}
	helper.AssertRoleCount(userID, 0)
	// other users keep their edges
	helper.AssertRoleCount(other, 1)
}

// TestPermissionEdges tests role to permission wiring
func TestPermissionEdges(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	role := helper.CreateTestRole("granting")
	read := helper.CreateTestPermission("edges.read")
	write := helper.CreateTestPermission("edges.write")

	if err := service.AttachPermissions(ctx, role, []any{read, write}); err != nil {
		t.Fatalf("AttachPermissions failed: %v", err)
	}

	ids, err := service.PermissionIDsForRole(ctx, role)
	if err != nil {
		t.Fatalf("PermissionIDsForRole failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(ids))
	}

	roleIDs, err := service.RoleIDsForPermission(ctx, read)
	if err != nil {
		t.Fatalf("RoleIDsForPermission failed: %v", err)
	}
	if len(roleIDs) != 1 || roleIDs[0] != role.ID {
		t.Errorf("expected the granting role, got %v", roleIDs)
	}

	if err := service.DetachPermission(ctx, role, read.Identifier); err != nil {
		t.Fatalf("DetachPermission failed: %v", err)
	}
	ids, err = service.PermissionIDsForRole(ctx, role)
	if err != nil {
		t.Fatalf("PermissionIDsForRole failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("expected 1 permission after detach, got %d", len(ids))
	}

	if err := service.DetachAllPermissions(ctx, role); err != nil {
		t.Fatalf("DetachAllPermissions failed: %v", err)
	}
	ids, err = service.PermissionIDsForRole(ctx, role)
	if err != nil {
		t.Fatalf("PermissionIDsForRole failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no permissions after clearing, got %v", ids)
	}
}

// TestUserIDsForRole tests the reverse membership lookup
func TestUserIDsForRole(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	t.Cleanup(func() { _ = helper.CleanupTestData() })

	service := helper.GetService()
	ctx := helper.GetContext()

	role := helper.CreateTestRole("holders")
	alice := helper.CreateTestUser()
	bob := helper.CreateTestUser()

	for _, userID := range []string{alice, bob} {
		if err := service.AttachRole(ctx, userID, role); err != nil {
			t.Fatalf("AttachRole failed: %v", err)
		}
	}

	users, err := service.UserIDsForRole(ctx, role)
	if err != nil {
		t.Fatalf("UserIDsForRole failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 holders, got %v", users)
	}
}
