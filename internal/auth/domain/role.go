package domain

import "time"

type Role struct {
	ID          string
	Name        string
	Description string
	Permissions []Permission // Parsed from space-delimited storage
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPermission reports whether the role's permission set contains p.
func (r Role) HasPermission(p Permission) bool {
	for _, held := range r.Permissions {
		if held == p {
			return true
		}
	}
	return false
}
