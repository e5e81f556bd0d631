package access

// NavItem is one entry of the role's navigation menu.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Navigation lists the screens reachable for role.
func Navigation(role Role) []NavItem {
	base := []NavItem{{Label: "dashboard", Path: "/dashboard"}}

	switch role {
	case RoleAdmin:
		return append(base,
			NavItem{Label: "admin", Path: "/admin"},
			NavItem{Label: "properties", Path: "/admin/properties"},
			NavItem{Label: "units", Path: "/admin/units"},
			NavItem{Label: "tickets", Path: "/admin/tickets"},
			NavItem{Label: "payments", Path: "/admin/payments"},
			NavItem{Label: "guestRequests", Path: "/admin/guest-requests"},
			NavItem{Label: "analytics", Path: "/admin/analytics"},
			NavItem{Label: "users", Path: "/admin/users"},
			NavItem{Label: "settings", Path: "/admin/settings"},
		)
	case RoleManager:
		return append(base,
			NavItem{Label: "admin", Path: "/admin"},
			NavItem{Label: "properties", Path: "/admin/properties"},
			NavItem{Label: "units", Path: "/admin/units"},
			NavItem{Label: "tickets", Path: "/admin/tickets"},
			NavItem{Label: "payments", Path: "/admin/payments"},
			NavItem{Label: "guestRequests", Path: "/admin/guest-requests"},
			NavItem{Label: "analytics", Path: "/admin/analytics"},
		)
	case RoleOwner, RoleTenant, RoleProvider:
		return base
	default:
		return base
	}
}
