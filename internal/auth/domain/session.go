package domain

import "time"

// Session is a store-backed revocation capability, not an identity proof.
// The bearer JWT carries identity; a session only exists so access can be
// invalidated out-of-band (logout, password change) before the JWT's own
// expiry. Only the SHA-256 fingerprint of the opaque token is stored.
type Session struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	IPAddress string
	UserAgent string
	IsActive  bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Valid reports whether the session is usable at the given instant.
// Both conditions are mandatory: an active flag with a lapsed timestamp
// is still invalid, and vice versa.
func (s Session) Valid(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
