package service_test

import (
	"context"
	"testing"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestPermissionEvaluation(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	rbac := &service.RBACService{Store: st}
	ctx := context.Background()

	user := registerAlice(t, auth)

	premium, err := rbac.CreateRole(ctx, "premium-test", "test tier", []domain.Permission{
		domain.PermReadMetalPrices,
		domain.PermExportData,
	})
	require.NoError(t, err)
	require.NoError(t, rbac.AssignRole(ctx, user.ID, premium.ID))

	t.Run("has permission", func(t *testing.T) {
		ok, err := rbac.HasPermission(ctx, user.ID, domain.PermExportData)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = rbac.HasPermission(ctx, user.ID, domain.PermManageUsers)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("all is logical AND", func(t *testing.T) {
		ok, err := rbac.HasAllPermissions(ctx, user.ID, []domain.Permission{
			domain.PermReadMetalPrices, domain.PermExportData,
		})
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = rbac.HasAllPermissions(ctx, user.ID, []domain.Permission{
			domain.PermReadMetalPrices, domain.PermManageUsers,
		})
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("any is logical OR", func(t *testing.T) {
		ok, err := rbac.HasAnyPermission(ctx, user.ID, []domain.Permission{
			domain.PermManageUsers, domain.PermExportData,
		})
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = rbac.HasAnyPermission(ctx, user.ID, []domain.Permission{
			domain.PermManageUsers, domain.PermManageRoles,
		})
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := rbac.HasPermission(ctx, "missing", domain.PermExportData)
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestRoleEditIsLiveForChecks(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	rbac := &service.RBACService{Store: st}
	ctx := context.Background()

	user := registerAlice(t, auth)
	role, err := rbac.CreateRole(ctx, "analyst", "", []domain.Permission{domain.PermReadMetalPrices})
	require.NoError(t, err)
	require.NoError(t, rbac.AssignRole(ctx, user.ID, role.ID))

	ok, err := rbac.HasPermission(ctx, user.ID, domain.PermExportData)
	require.NoError(t, err)
	require.False(t, ok)

	// No caching: the very next check sees the edit.
	_, err = rbac.UpdateRole(ctx, role.ID, "", []domain.Permission{
		domain.PermReadMetalPrices, domain.PermExportData,
	})
	require.NoError(t, err)

	ok, err = rbac.HasPermission(ctx, user.ID, domain.PermExportData)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCreateRoleValidatesCatalog(t *testing.T) {
	st := newTestStore(t)
	rbac := &service.RBACService{Store: st}
	ctx := context.Background()

	_, err := rbac.CreateRole(ctx, "broken", "", []domain.Permission{
		domain.PermReadMetalPrices,
		"not_a_real_permission",
	})

	var unknownErr *service.UnknownPermissionError
	require.ErrorAs(t, err, &unknownErr)
	require.Equal(t, []domain.Permission{"not_a_real_permission"}, unknownErr.Unknown)
}

func TestCreateRoleRejectsDuplicateName(t *testing.T) {
	st := newTestStore(t)
	rbac := &service.RBACService{Store: st}
	ctx := context.Background()

	// "user" is seeded by the migrations.
	_, err := rbac.CreateRole(ctx, "user", "", nil)
	require.ErrorIs(t, err, service.ErrRoleExists)
}

func TestDeleteRole(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	rbac := &service.RBACService{Store: st}
	ctx := context.Background()

	t.Run("in use", func(t *testing.T) {
		user := registerAlice(t, auth)
		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)

		err = rbac.DeleteRole(ctx, got.RoleID)
		require.ErrorIs(t, err, service.ErrRoleInUse)
	})

	t.Run("orphaned", func(t *testing.T) {
		orphan, err := rbac.CreateRole(ctx, "orphan", "", nil)
		require.NoError(t, err)
		require.NoError(t, rbac.DeleteRole(ctx, orphan.ID))

		_, err = rbac.GetRoleByID(ctx, orphan.ID)
		require.ErrorIs(t, err, service.ErrRoleNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		require.ErrorIs(t, rbac.DeleteRole(ctx, "nope"), service.ErrRoleNotFound)
	})
}

func TestAssignRoleValidatesBothSides(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	rbac := &service.RBACService{Store: st}
	ctx := context.Background()

	user := registerAlice(t, auth)

	require.ErrorIs(t, rbac.AssignRole(ctx, user.ID, "missing-role"), service.ErrRoleNotFound)

	admin, err := st.Roles().GetRoleByName(ctx, "admin")
	require.NoError(t, err)
	require.ErrorIs(t, rbac.AssignRole(ctx, "missing-user", admin.ID), service.ErrUserNotFound)

	require.NoError(t, rbac.AssignRole(ctx, user.ID, admin.ID))
	ok, err := rbac.HasPermission(ctx, user.ID, domain.PermManageRoles)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestListRolesIncludesSeeds(t *testing.T) {
	st := newTestStore(t)
	rbac := &service.RBACService{Store: st}

	roles, err := rbac.ListRoles(context.Background())
	require.NoError(t, err)

	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	require.Contains(t, names, "admin")
	require.Contains(t, names, "premium")
	require.Contains(t, names, "user")
}
