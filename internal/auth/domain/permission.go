package domain

// Permission is one entry of the closed permission catalog. The catalog
// is fixed at compile time: roles compose permissions, they never invent
// new ones, and any identifier outside the catalog is rejected wherever
// roles are created or edited.
type Permission string

const (
	PermViewDashboard      Permission = "view_dashboard"
	PermReadMetalPrices    Permission = "read_metal_prices"
	PermExportData         Permission = "export_data"
	PermUseChatAssistant   Permission = "use_chat_assistant"
	PermSwitchAPIProviders Permission = "switch_api_providers"
	PermManageUsers        Permission = "manage_users"
	PermManageRoles        Permission = "manage_roles"
	PermViewActivityLogs   Permission = "view_activity_logs"
	PermManageSettings     Permission = "manage_settings"
)

// permissionCatalog maps every known permission to its human-readable
// description. Iteration order is never exposed; AllPermissions returns
// a stable slice instead.
var permissionCatalog = map[Permission]string{
	PermViewDashboard:      "View the main dashboard",
	PermReadMetalPrices:    "Read live and historical metal prices",
	PermExportData:         "Export price data",
	PermUseChatAssistant:   "Use the chat assistant",
	PermSwitchAPIProviders: "Switch between upstream price providers",
	PermManageUsers:        "Manage user accounts",
	PermManageRoles:        "Manage roles and their permissions",
	PermViewActivityLogs:   "View audit activity logs",
	PermManageSettings:     "Manage system settings",
}

var allPermissions = []Permission{
	PermViewDashboard,
	PermReadMetalPrices,
	PermExportData,
	PermUseChatAssistant,
	PermSwitchAPIProviders,
	PermManageUsers,
	PermManageRoles,
	PermViewActivityLogs,
	PermManageSettings,
}

// Known reports whether p is part of the catalog.
func (p Permission) Known() bool {
	_, ok := permissionCatalog[p]
	return ok
}

// Description returns the catalog description, or "" for an unknown
// permission.
func (p Permission) Description() string {
	return permissionCatalog[p]
}

// AllPermissions returns the full catalog in declaration order. The
// returned slice is a copy.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// ValidatePermissions returns the subset of perms not present in the
// catalog, in input order. An empty result means every entry is known.
func ValidatePermissions(perms []Permission) []Permission {
	var unknown []Permission
	for _, p := range perms {
		if !p.Known() {
			unknown = append(unknown, p)
		}
	}
	return unknown
}

// ParsePermissions converts raw identifiers into Permissions without
// validating them; callers run ValidatePermissions where rejection
// matters.
func ParsePermissions(raw []string) []Permission {
	out := make([]Permission, len(raw))
	for i, s := range raw {
		out[i] = Permission(s)
	}
	return out
}

// PermissionStrings is the inverse of ParsePermissions.
func PermissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// MustPermission converts a raw identifier, panicking on anything
// outside the catalog. For static references only.
func MustPermission(raw string) Permission {
	p := Permission(raw)
	if !p.Known() {
		panic("unknown permission: " + raw)
	}
	return p
}
