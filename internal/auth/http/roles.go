package http

import (
	"encoding/json"
	"net/http"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/pkg/httpx"
)

type RolesHandler struct {
	RBACService     *service.RBACService
	ActivityService *service.ActivityService
}

// HandleList returns every role in the system.
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.RBACService.ListRoles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]RoleInfo, len(roles))
	for i, role := range roles {
		out[i] = newRoleInfo(role)
	}
	httpx.WriteData(w, http.StatusOK, out)
}

type roleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// HandleCreate creates a role. Permissions outside the catalog are a 400
// naming the offenders.
func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	role, err := h.RBACService.CreateRole(ctx, req.Name, req.Description, domain.ParsePermissions(req.Permissions))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, newRoleInfo(role))
}

// HandleUpdate replaces a role's description and permission set.
func (h *RolesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roleID := r.PathValue("id")

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	role, err := h.RBACService.UpdateRole(ctx, roleID, req.Description, domain.ParsePermissions(req.Permissions))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, newRoleInfo(role))
}

// HandleDelete removes a role. Refused with 409 while any user still
// holds it.
func (h *RolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.RBACService.DeleteRole(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, nil)
}

type assignRoleRequest struct {
	RoleID string `json:"roleId"`
}

// HandleAssign points a user at a different role. The change is live for
// permission checks on the user's very next request; bearer tokens they
// already hold keep their old claims until expiry.
func (h *RolesHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	var req assignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.RoleID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "roleId is required")
		return
	}

	if err := h.RBACService.AssignRole(ctx, userID, req.RoleID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if actor, ok := IdentityFromContext(ctx); ok {
		h.ActivityService.Record(ctx, userID, domain.ActivityRoleAssigned,
			"role changed", clientAddr(r), r.UserAgent(),
			map[string]string{"role_id": req.RoleID, "assigned_by": actor.User.ID})
	}

	httpx.WriteData(w, http.StatusOK, nil)
}

type permissionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PermissionsHandler lists the closed permission catalog.
func PermissionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := domain.AllPermissions()
		out := make([]permissionInfo, len(all))
		for i, p := range all {
			out[i] = permissionInfo{Name: string(p), Description: p.Description()}
		}
		httpx.WriteData(w, http.StatusOK, out)
	}
}
