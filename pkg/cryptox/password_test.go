package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	// MinCost keeps the test fast; production uses DefaultHashCost.
	digest, err := HashPassword("pw123", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	require.NotContains(t, digest, "pw123")

	require.NoError(t, VerifyPassword("pw123", digest))
	require.ErrorIs(t, VerifyPassword("pw124", digest), ErrPasswordMismatch)
	require.ErrorIs(t, VerifyPassword("", digest), ErrPasswordMismatch)
}

func TestHashPasswordSalts(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, a, b, "two hashes of the same password must differ")
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, VerifyPassword("pw123", "not-a-bcrypt-digest"), ErrPasswordMismatch)
}

func TestHashPasswordCostFloor(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("pw123", -1)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	require.Equal(t, DefaultHashCost, cost)
}
