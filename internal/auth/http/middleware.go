package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/pkg/httpx"
	"github.com/bullionboard/bullionboard/pkg/jwtx"
	"github.com/bullionboard/bullionboard/pkg/slogx"
)

// bearerCookie is checked when no Authorization header is present;
// browser clients keep the bearer token in a cookie instead.
const bearerCookie = "auth_token"

type identityKey struct{}

// Identity is the resolved caller attached to the request context by
// AuthnMiddleware. User is the live record, loaded fresh per request;
// Claims are whatever the bearer token captured at issuance.
type Identity struct {
	User   domain.User
	Claims jwtx.Claims
}

// IdentityFromContext returns the resolved identity, or ok=false on an
// anonymous request.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// bearerFromRequest pulls the raw bearer token out of the Authorization
// header, falling back to the auth cookie. present distinguishes "no
// credential at all" from "a credential we can't use" (a non-Bearer
// Authorization header yields "", true).
func bearerFromRequest(r *http.Request) (token string, present bool) {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if strings.HasPrefix(authz, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer")), true
		}
		return "", true
	}
	if c, err := r.Cookie(bearerCookie); err == nil {
		return c.Value, true
	}
	return "", false
}

// resolveIdentity verifies the bearer token and loads the live user. The
// user must still exist and still be active; the token alone is not
// enough.
func resolveIdentity(r *http.Request, raw string, verifier jwtx.Verifier, st store.Store) (Identity, bool) {
	if raw == "" {
		return Identity{}, false
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		return Identity{}, false
	}

	user, err := st.Users().GetUserByID(r.Context(), claims.Subject)
	if err != nil || !user.IsActive {
		return Identity{}, false
	}

	return Identity{User: user, Claims: claims}, true
}

// AuthnMiddleware enforces bearer authentication. A request carrying no
// credential at all is "no token"; anything presented but unusable — a
// non-Bearer Authorization header, a failed verification, a
// missing/deactivated user — is "invalid token". Both are 401. On
// success the resolved identity rides the request context.
func AuthnMiddleware(verifier jwtx.Verifier, st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			raw, present := bearerFromRequest(r)
			if !present {
				httpx.WriteError(w, http.StatusUnauthorized, "no token")
				return
			}

			id, ok := resolveIdentity(r, raw, verifier, st)
			if !ok {
				log.Warn("bearer auth rejected", "path", r.URL.Path)
				httpx.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			ctx = httpx.WithUserID(ctx, id.User.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthnMiddleware resolves identity when it can and continues
// anonymously when it can't. Downstream handlers must tolerate the
// identity being absent.
func OptionalAuthnMiddleware(verifier jwtx.Verifier, st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := bearerFromRequest(r)
			if id, ok := resolveIdentity(r, raw, verifier, st); ok {
				ctx := context.WithValue(r.Context(), identityKey{}, id)
				ctx = httpx.WithUserID(ctx, id.User.ID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission gates on a single permission, consulting the live
// evaluator rather than the token's captured claims.
func RequirePermission(rbac *service.RBACService, perm domain.Permission) httpx.Middleware {
	return RequireAnyPermission(rbac, perm)
}

// RequireAnyPermission passes when the caller holds at least one of the
// listed permissions.
func RequireAnyPermission(rbac *service.RBACService, perms ...domain.Permission) httpx.Middleware {
	return permissionGate(rbac.HasAnyPermission, perms)
}

// RequireAllPermissions passes only when the caller holds every listed
// permission.
func RequireAllPermissions(rbac *service.RBACService, perms ...domain.Permission) httpx.Middleware {
	return permissionGate(rbac.HasAllPermissions, perms)
}

func permissionGate(
	check func(ctx context.Context, userID string, perms []domain.Permission) (bool, error),
	perms []domain.Permission,
) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id, ok := IdentityFromContext(ctx)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "no token")
				return
			}

			held, err := check(ctx, id.User.ID, perms)
			if err != nil {
				slogx.FromContext(ctx).Error("permission check failed",
					"user_id", id.User.ID, "error", err)
				httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !held {
				httpx.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates on the caller's current role name being in the
// allowed set. The role is re-read from storage, not taken from claims.
func RequireRole(st store.Store, allowed ...string) httpx.Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		want[name] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id, ok := IdentityFromContext(ctx)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "no token")
				return
			}

			role, err := st.Roles().GetRoleByID(ctx, id.User.RoleID)
			if err != nil {
				slogx.FromContext(ctx).Error("role lookup failed",
					"user_id", id.User.ID, "error", err)
				httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if _, ok := want[role.Name]; !ok || !role.IsActive {
				httpx.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
