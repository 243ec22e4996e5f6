package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/pkg/httpx"
	"github.com/bullionboard/bullionboard/pkg/slogx"
)

// clientAddr returns the best client IP we have for audit rows, honouring
// proxy headers the same way the rate limiter does.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         UserProfile `json:"user"`
	Token        string      `json:"token"`
	SessionToken string      `json:"sessionToken"`
}

// ServeHTTP handles POST /v1/auth/login. Either email or username can
// carry the identifier; unknown identifier and wrong password produce the
// same 401.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.AuthService.Login(ctx, identifier, req.Password, clientAddr(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, loginResponse{
		User:         newUserProfile(result.User, result.Role.Name),
		Token:        result.BearerToken,
		SessionToken: result.SessionToken,
	})
}

type LogoutHandler struct {
	AuthService *service.AuthService
}

type logoutRequest struct {
	SessionToken string `json:"sessionToken"`
}

// ServeHTTP handles POST /v1/auth/logout. Idempotent: revoking an
// unknown or already-revoked session token still returns 200.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.SessionToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "sessionToken is required")
		return
	}

	if err := h.AuthService.Logout(ctx, req.SessionToken, clientAddr(r), r.UserAgent()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, nil)
}

type RegisterHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// ServeHTTP handles POST /v1/auth/register. New accounts always land on
// the default role.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email, username and password are required")
		return
	}

	user, err := h.AuthService.Register(ctx, service.RegisterParams{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}, clientAddr(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user registered", "user_id", user.ID)
	httpx.WriteData(w, http.StatusCreated, newUserProfile(user, service.DefaultRoleName))
}

type ChangePasswordHandler struct {
	AuthService *service.AuthService
}

type changePasswordRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

// ServeHTTP handles PUT /v1/auth/change-password. A successful change
// revokes every session the user holds; the response still says 200, the
// caller just has to log in again.
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no token")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Current == "" || req.New == "" {
		httpx.WriteError(w, http.StatusBadRequest, "current and new passwords are required")
		return
	}

	err := h.AuthService.ChangePassword(ctx, id.User.ID, req.Current, req.New, clientAddr(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, nil)
}
