package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/pkg/httpx"
	"github.com/bullionboard/bullionboard/pkg/jwtx"
	"github.com/bullionboard/bullionboard/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	AuthService     *service.AuthService
	UserService     *service.UserService
	RBACService     *service.RBACService
	ActivityService *service.ActivityService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMe()
	r.registerRoles()
	r.registerUsers()
	r.registerActivity()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn is the standard required-auth stage shared by protected routes.
func (r *Router) authn() httpx.Middleware {
	return AuthnMiddleware(r.verifier, r.store)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(&RegisterHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - moderate by IP; deliberately unauthenticated so a
	// client whose bearer token just expired can still kill its session.
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(&LogoutHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// PUT /change-password - authenticated, strict by user (credential op)
	r.Mux.Handle("PUT /v1/auth/change-password",
		httpx.Chain(&ChangePasswordHandler{AuthService: r.AuthService},
			r.authn(),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{AuthService: r.AuthService, RBACService: r.RBACService}

	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authn(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /v1/me/preferences",
		httpx.Chain(http.HandlerFunc(h.HandlePutPreferences),
			r.authn(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RBACService: r.RBACService, ActivityService: r.ActivityService}

	manageRoles := RequirePermission(r.RBACService, domain.PermManageRoles)

	r.Mux.Handle("GET /v1/roles",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(), manageRoles,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/roles",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(), manageRoles,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/roles/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.authn(), manageRoles,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/roles/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authn(), manageRoles,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Role assignment touches a user record, so either admin concern
	// may perform it.
	r.Mux.Handle("POST /v1/users/{id}/role",
		httpx.Chain(http.HandlerFunc(h.HandleAssign),
			r.authn(),
			RequireAnyPermission(r.RBACService, domain.PermManageRoles, domain.PermManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/permissions",
		httpx.Chain(PermissionsHandler(),
			r.authn(),
			RequireAnyPermission(r.RBACService, domain.PermManageRoles, domain.PermManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		UserService:     r.UserService,
		RBACService:     r.RBACService,
		ActivityService: r.ActivityService,
	}

	manageUsers := RequirePermission(r.RBACService, domain.PermManageUsers)

	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(), manageUsers,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDeactivate),
			r.authn(), manageUsers,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerActivity() {
	r.Mux.Handle("GET /v1/activity",
		httpx.Chain(&ActivityHandler{ActivityService: r.ActivityService},
			r.authn(),
			RequirePermission(r.RBACService, domain.PermViewActivityLogs),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
