package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	authhttp "github.com/bullionboard/bullionboard/internal/auth/http"
	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/internal/auth/store/drivers/sqlite"
	"github.com/bullionboard/bullionboard/pkg/httpx"
	"github.com/bullionboard/bullionboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// gateEnv exercises the access middleware directly, wrapping throwaway
// handlers in the same chains the router builds.
type gateEnv struct {
	store store.Store
	codec *jwtx.Codec
	rbac  *service.RBACService
	auth  *service.AuthService
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec("test-secret", "bullionboard-test")
	require.NoError(t, err)

	return &gateEnv{
		store: st,
		codec: codec,
		rbac:  &service.RBACService{Store: st},
		auth: &service.AuthService{
			Store:    st,
			Tokens:   codec,
			Sessions: &service.SessionService{Store: st},
			Activity: &service.ActivityService{Store: st},
			HashCost: bcrypt.MinCost,
		},
	}
}

// newUserToken registers a default-role user and returns it with a live
// bearer token.
func (e *gateEnv) newUserToken(t *testing.T, email, username string) (domain.User, string) {
	t.Helper()

	ctx := context.Background()
	user, err := e.auth.Register(ctx, service.RegisterParams{
		Email:    email,
		Username: username,
		Password: "pw123",
	}, "", "")
	require.NoError(t, err)

	result, err := e.auth.Login(ctx, email, "pw123", "", "")
	require.NoError(t, err)
	return user, result.BearerToken
}

func (e *gateEnv) serve(t *testing.T, h http.Handler, mws ...httpx.Middleware) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(httpx.Chain(h, mws...))
	t.Cleanup(srv.Close)
	return srv
}

func gateGet(t *testing.T, srv *httptest.Server, bearer string) (int, envelope) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestOptionalAuthnFallsThroughAnonymously(t *testing.T) {
	env := newGateEnv(t)
	user, token := env.newUserToken(t, "bob@x.com", "bob")

	// The handler reports who it saw, empty when anonymous.
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID string
		if id, ok := authhttp.IdentityFromContext(r.Context()); ok {
			userID = id.User.ID
		}
		httpx.WriteData(w, http.StatusOK, map[string]string{"userId": userID})
	})
	srv := env.serve(t, echo, authhttp.OptionalAuthnMiddleware(env.codec, env.store))

	seenUser := func(t *testing.T, resp envelope) string {
		t.Helper()
		var data struct {
			UserID string `json:"userId"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		return data.UserID
	}

	t.Run("no credential", func(t *testing.T) {
		code, resp := gateGet(t, srv, "")
		require.Equal(t, http.StatusOK, code)
		require.Empty(t, seenUser(t, resp))
	})

	t.Run("garbage token stays anonymous, never 401", func(t *testing.T) {
		code, resp := gateGet(t, srv, "garbage")
		require.Equal(t, http.StatusOK, code)
		require.Empty(t, seenUser(t, resp))
	})

	t.Run("valid token resolves the caller", func(t *testing.T) {
		code, resp := gateGet(t, srv, token)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, user.ID, seenUser(t, resp))
	})
}

func TestRequireAllPermissionsDemandsEveryOne(t *testing.T) {
	env := newGateEnv(t)
	_, token := env.newUserToken(t, "bob@x.com", "bob")

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteData(w, http.StatusOK, "ok")
	})

	// The default role holds view_dashboard and read_metal_prices.
	t.Run("holds all listed", func(t *testing.T) {
		srv := env.serve(t, ok,
			authhttp.AuthnMiddleware(env.codec, env.store),
			authhttp.RequireAllPermissions(env.rbac, domain.PermViewDashboard, domain.PermReadMetalPrices),
		)
		code, _ := gateGet(t, srv, token)
		require.Equal(t, http.StatusOK, code)
	})

	t.Run("one missing denies the lot", func(t *testing.T) {
		srv := env.serve(t, ok,
			authhttp.AuthnMiddleware(env.codec, env.store),
			authhttp.RequireAllPermissions(env.rbac, domain.PermReadMetalPrices, domain.PermExportData),
		)
		code, resp := gateGet(t, srv, token)
		require.Equal(t, http.StatusForbidden, code)
		require.Equal(t, "forbidden", resp.Error)
	})
}

func TestRequireRoleChecksLiveRole(t *testing.T) {
	env := newGateEnv(t)
	user, token := env.newUserToken(t, "bob@x.com", "bob")
	ctx := context.Background()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteData(w, http.StatusOK, "ok")
	})
	srv := env.serve(t, ok,
		authhttp.AuthnMiddleware(env.codec, env.store),
		authhttp.RequireRole(env.store, "admin", "premium"),
	)

	t.Run("role outside the allowed set", func(t *testing.T) {
		code, resp := gateGet(t, srv, token)
		require.Equal(t, http.StatusForbidden, code)
		require.Equal(t, "forbidden", resp.Error)
	})

	admin, err := env.store.Roles().GetRoleByName(ctx, "admin")
	require.NoError(t, err)

	t.Run("promotion passes with the old token", func(t *testing.T) {
		require.NoError(t, env.store.Users().UpdateRole(ctx, user.ID, admin.ID))
		code, _ := gateGet(t, srv, token)
		require.Equal(t, http.StatusOK, code)
	})

	t.Run("deactivated role stops counting", func(t *testing.T) {
		require.NoError(t, env.store.Roles().SetRoleActive(ctx, admin.ID, false))
		code, resp := gateGet(t, srv, token)
		require.Equal(t, http.StatusForbidden, code)
		require.Equal(t, "forbidden", resp.Error)
	})
}
