package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(SessionTokenSize)
	require.NoError(t, err)
	require.Len(t, token, 43) // 32 bytes base64url, no padding

	token2, err := GenerateToken(SessionTokenSize)
	require.NoError(t, err)
	require.NotEqual(t, token, token2, "tokens should be unique")
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("some-opaque-token")
	require.Len(t, fp, 43)
	require.Equal(t, fp, FingerprintToken("some-opaque-token"), "fingerprint is deterministic")
	require.NotEqual(t, fp, FingerprintToken("other-token"))
}
