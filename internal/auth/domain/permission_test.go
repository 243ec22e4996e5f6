package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionKnown(t *testing.T) {
	t.Parallel()

	for _, p := range AllPermissions() {
		require.True(t, p.Known(), "catalog permission %q must be known", p)
		require.NotEmpty(t, p.Description())
	}

	require.False(t, Permission("not_a_real_permission").Known())
	require.Empty(t, Permission("not_a_real_permission").Description())
}

func TestValidatePermissions(t *testing.T) {
	t.Parallel()

	t.Run("all known", func(t *testing.T) {
		unknown := ValidatePermissions([]Permission{PermReadMetalPrices, PermExportData})
		require.Empty(t, unknown)
	})

	t.Run("reports exactly the offenders", func(t *testing.T) {
		unknown := ValidatePermissions([]Permission{
			PermReadMetalPrices,
			"not_a_real_permission",
			"also_fake",
		})
		require.Equal(t, []Permission{"not_a_real_permission", "also_fake"}, unknown)
	})
}

func TestRoleHasPermission(t *testing.T) {
	t.Parallel()

	premium := Role{Name: "premium", Permissions: []Permission{PermReadMetalPrices, PermExportData}}
	require.True(t, premium.HasPermission(PermExportData))
	require.False(t, premium.HasPermission(PermManageUsers))
}

func TestMustPermissionPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { MustPermission("definitely_not_real") })
	require.Equal(t, PermManageRoles, MustPermission("manage_roles"))
}
