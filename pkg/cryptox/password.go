package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost targets roughly 100ms+ per hash on commodity hardware.
// The cost is a deployment-time setting, never taken from a request, so a
// caller can't downgrade it.
const DefaultHashCost = 12

var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword produces a salted bcrypt digest at the given cost.
// A cost below bcrypt's minimum falls back to DefaultHashCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultHashCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword compares a plaintext password against a bcrypt digest.
// Returns ErrPasswordMismatch on any mismatch, including malformed
// digests, so callers can't distinguish the two.
func VerifyPassword(password, digest string) error {
	if bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) != nil {
		return ErrPasswordMismatch
	}
	return nil
}
