package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultBearerTTL is the default lifetime for bearer tokens. Once
// issued a bearer token cannot be revoked; only the opaque session token
// can, which is why this window is the outer bound on access.
const DefaultBearerTTL = 7 * 24 * time.Hour

// Claims is the signed claim set carried by a bearer token. The claim
// values are captured at issuance and never re-checked against current
// role state while the token lives.
type Claims struct {
	jwt.RegisteredClaims

	// Email for the authenticated user.
	Email string `json:"email,omitempty"`

	// Username for the authenticated user.
	Username string `json:"username,omitempty"`

	// Role name at issuance time.
	Role string `json:"role,omitempty"`

	// Permissions held by the role at issuance time.
	Permissions []string `json:"permissions,omitempty"`
}

// NewBearerClaims builds minimally-correct claims for a bearer token.
func NewBearerClaims(
	userID, email, username, role string,
	permissions []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
		Email:       email,
		Username:    username,
		Role:        role,
		Permissions: permissions,
	}
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
