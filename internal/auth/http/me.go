package http

import (
	"encoding/json"
	"net/http"

	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/pkg/httpx"
	"github.com/bullionboard/bullionboard/pkg/slogx"
)

type MeHandler struct {
	AuthService *service.AuthService
	RBACService *service.RBACService
}

// HandleGet returns the authenticated user's profile. The live role name
// comes from storage, not from the token's captured claims.
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no token")
		return
	}

	role, err := h.RBACService.GetRoleByID(ctx, id.User.RoleID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load role",
			"user_id", id.User.ID, "role_id", id.User.RoleID, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteData(w, http.StatusOK, newUserProfile(id.User, role.Name))
}

type preferencesRequest struct {
	Preferences map[string]string `json:"preferences"`
}

// HandlePutPreferences replaces the caller's preference map wholesale.
func (h *MeHandler) HandlePutPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no token")
		return
	}

	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Preferences == nil {
		req.Preferences = map[string]string{}
	}

	if err := h.AuthService.UpdatePreferences(ctx, id.User.ID, req.Preferences); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, nil)
}
