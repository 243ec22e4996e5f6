package domain

import "time"

type User struct {
	ID            string
	Email         string
	Username      string
	FirstName     string
	LastName      string
	PasswordHash  string            // bcrypt encoded
	RoleID        string            // Foreign key to roles table
	Preferences   map[string]string // Free-form UI preferences
	IsActive      bool
	EmailVerified bool
	LastLoginAt   *time.Time // Nullable until first login
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DisplayName returns the best human-readable name we have for the user.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
