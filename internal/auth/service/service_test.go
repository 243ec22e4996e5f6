package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/internal/auth/store/drivers/sqlite"
	"github.com/bullionboard/bullionboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// newTestAuth wires the full service stack over an in-memory store.
// bcrypt runs at MinCost so the suite stays fast.
func newTestAuth(t *testing.T, st store.Store) *service.AuthService {
	t.Helper()

	codec, err := jwtx.NewCodec("test-secret", "bullionboard-test")
	require.NoError(t, err)

	return &service.AuthService{
		Store:    st,
		Tokens:   codec,
		Sessions: &service.SessionService{Store: st},
		Activity: &service.ActivityService{Store: st},
		HashCost: bcrypt.MinCost,
	}
}

func registerAlice(t *testing.T, auth *service.AuthService) domain.User {
	t.Helper()

	user, err := auth.Register(context.Background(), service.RegisterParams{
		Email:    "alice@x.com",
		Username: "alice",
		Password: "pw123",
	}, "192.0.2.1", "go-test")
	require.NoError(t, err)
	return user
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	user := registerAlice(t, auth)
	require.True(t, user.IsActive)
	require.NotEmpty(t, user.ID)
	require.NotContains(t, user.PasswordHash, "pw123")

	role, err := st.Roles().GetRoleByID(ctx, user.RoleID)
	require.NoError(t, err)
	require.Equal(t, "user", role.Name)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	registerAlice(t, auth)

	t.Run("same email", func(t *testing.T) {
		_, err := auth.Register(ctx, service.RegisterParams{
			Email:    "alice@x.com",
			Username: "alice2",
			Password: "pw123",
		}, "", "")
		require.ErrorIs(t, err, service.ErrDuplicateIdentity)
	})

	t.Run("same username", func(t *testing.T) {
		_, err := auth.Register(ctx, service.RegisterParams{
			Email:    "other@x.com",
			Username: "alice",
			Password: "pw123",
		}, "", "")
		require.ErrorIs(t, err, service.ErrDuplicateIdentity)
	})
}

func TestLoginIssuesBothTokens(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	registerAlice(t, auth)

	result, err := auth.Login(ctx, "alice@x.com", "pw123", "192.0.2.1", "go-test")
	require.NoError(t, err)
	require.NotEmpty(t, result.BearerToken)
	require.NotEmpty(t, result.SessionToken)
	require.NotEqual(t, result.BearerToken, result.SessionToken)
	require.NotNil(t, result.User.LastLoginAt)
	require.Equal(t, "user", result.Role.Name)

	// Username works as the identifier too.
	_, err = auth.Login(ctx, "alice", "pw123", "", "")
	require.NoError(t, err)

	// Bearer claims capture the role state at issuance.
	claims, err := auth.Tokens.Verify(result.BearerToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.Subject)
	require.Equal(t, "alice@x.com", claims.Email)
	require.Equal(t, "user", claims.Role)
	require.Contains(t, claims.Permissions, "read_metal_prices")
}

func TestLoginFoldsEmailCase(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	user, err := auth.Register(ctx, service.RegisterParams{
		Email:    "Bob@X.com",
		Username: "bob",
		Password: "pw123",
	}, "", "")
	require.NoError(t, err)
	require.Equal(t, "bob@x.com", user.Email)

	// The stored email is lowercased at registration; login must accept
	// whatever spelling the user types.
	for _, identifier := range []string{"bob@x.com", "Bob@X.com", "BOB@X.COM"} {
		_, err := auth.Login(ctx, identifier, "pw123", "", "")
		require.NoError(t, err, identifier)
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	registerAlice(t, auth)

	_, errPw := auth.Login(ctx, "alice@x.com", "wrong", "", "")
	_, errUser := auth.Login(ctx, "nobody@x.com", "pw123", "", "")

	// Identical error either way; no account enumeration.
	require.ErrorIs(t, errPw, service.ErrInvalidCredentials)
	require.ErrorIs(t, errUser, service.ErrInvalidCredentials)
	require.Equal(t, errPw.Error(), errUser.Error())
}

func TestLogoutIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	registerAlice(t, auth)
	result, err := auth.Login(ctx, "alice", "pw123", "", "")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, result.SessionToken, "", ""))
	_, err = auth.Sessions.Validate(ctx, result.SessionToken)
	require.ErrorIs(t, err, service.ErrInvalidSession)

	// Second logout and a made-up token are both silent no-ops.
	require.NoError(t, auth.Logout(ctx, result.SessionToken, "", ""))
	require.NoError(t, auth.Logout(ctx, "never-issued-token", "", ""))
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	user := registerAlice(t, auth)

	first, err := auth.Login(ctx, "alice", "pw123", "", "")
	require.NoError(t, err)
	second, err := auth.Login(ctx, "alice", "pw123", "", "")
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := auth.ChangePassword(ctx, user.ID, "wrong", "newpw456", "", "")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	require.NoError(t, auth.ChangePassword(ctx, user.ID, "pw123", "newpw456", "", ""))

	// Every prior session is dead, regardless of original expiry.
	for _, token := range []string{first.SessionToken, second.SessionToken} {
		_, err := auth.Sessions.Validate(ctx, token)
		require.ErrorIs(t, err, service.ErrInvalidSession)
	}

	// Old password no longer works; new one does.
	_, err = auth.Login(ctx, "alice", "pw123", "", "")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = auth.Login(ctx, "alice", "newpw456", "", "")
	require.NoError(t, err)

	// The bearer token issued before the change rides out its TTL.
	claims, err := auth.Tokens.Verify(first.BearerToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
}

func TestUpdatePreferences(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	user := registerAlice(t, auth)

	require.NoError(t, auth.UpdatePreferences(ctx, user.ID, map[string]string{
		"theme":    "dark",
		"currency": "AUD",
	}))

	got, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "dark", got.Preferences["theme"])

	require.ErrorIs(t,
		auth.UpdatePreferences(ctx, "missing-user", nil),
		service.ErrUserNotFound)
}

func TestActivityTrailRecordsAuthEvents(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	user := registerAlice(t, auth)
	result, err := auth.Login(ctx, "alice", "pw123", "192.0.2.1", "go-test")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, result.SessionToken, "192.0.2.1", "go-test"))

	records, err := auth.Activity.ListByUser(ctx, user.ID, 10)
	require.NoError(t, err)

	actions := make([]string, len(records))
	for i, rec := range records {
		actions[i] = rec.Action
	}
	require.Contains(t, actions, domain.ActivityRegister)
	require.Contains(t, actions, domain.ActivityLogin)
	require.Contains(t, actions, domain.ActivityLogout)
}

func TestHousekeepingCleansUp(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	registerAlice(t, auth)
	result, err := auth.Login(ctx, "alice", "pw123", "", "")
	require.NoError(t, err)
	require.NoError(t, auth.Sessions.Revoke(ctx, result.SessionToken))

	swept, err := auth.Sessions.SweepExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, swept)

	// Fresh records survive a prune with a long retention.
	pruned, err := auth.Activity.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.Zero(t, pruned)
}
