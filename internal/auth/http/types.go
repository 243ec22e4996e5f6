package http

import (
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
)

// UserProfile is the outward shape of a user. The password hash never
// leaves the service.
type UserProfile struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	Username      string            `json:"username"`
	FirstName     string            `json:"firstName,omitempty"`
	LastName      string            `json:"lastName,omitempty"`
	DisplayName   string            `json:"displayName"`
	Role          string            `json:"role,omitempty"`
	Preferences   map[string]string `json:"preferences,omitempty"`
	IsActive      bool              `json:"isActive"`
	EmailVerified bool              `json:"emailVerified"`
	LastLoginAt   *time.Time        `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func newUserProfile(u domain.User, roleName string) UserProfile {
	return UserProfile{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		DisplayName:   u.DisplayName(),
		Role:          roleName,
		Preferences:   u.Preferences,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

// RoleInfo is the outward shape of a role.
type RoleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"isActive"`
}

func newRoleInfo(role domain.Role) RoleInfo {
	return RoleInfo{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: domain.PermissionStrings(role.Permissions),
		IsActive:    role.IsActive,
	}
}

// ActivityInfo is the outward shape of one audit record.
type ActivityInfo struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Action    string            `json:"action"`
	Details   string            `json:"details,omitempty"`
	IPAddress string            `json:"ipAddress,omitempty"`
	UserAgent string            `json:"userAgent,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func newActivityInfo(rec domain.ActivityRecord) ActivityInfo {
	return ActivityInfo{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Action:    rec.Action,
		Details:   rec.Details,
		IPAddress: rec.IPAddress,
		UserAgent: rec.UserAgent,
		Metadata:  rec.Metadata,
		CreatedAt: rec.CreatedAt,
	}
}
