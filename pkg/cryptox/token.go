package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// SessionTokenSize is the entropy (in bytes) of opaque session tokens.
// 32 bytes gives 256 bits, encoding to 43 base64url characters.
const SessionTokenSize = 32

// GenerateToken creates a cryptographically secure random token of the
// given byte length, returned base64url-encoded without padding. The
// token shares nothing with any signed bearer token; its entropy comes
// straight from the OS RNG.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a
// token, base64url-encoded. Only fingerprints are persisted; the opaque
// value itself never touches the database.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
