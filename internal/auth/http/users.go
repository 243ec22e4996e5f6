package http

import (
	"net/http"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/pkg/httpx"
)

type UsersHandler struct {
	UserService     *service.UserService
	RBACService     *service.RBACService
	ActivityService *service.ActivityService
}

// HandleList returns every user, deactivated accounts included. Role
// names are resolved so admin UIs don't need a second round trip.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	roleNames := map[string]string{}
	out := make([]UserProfile, len(users))
	for i, u := range users {
		name, ok := roleNames[u.RoleID]
		if !ok {
			if role, err := h.RBACService.GetRoleByID(ctx, u.RoleID); err == nil {
				name = role.Name
			}
			roleNames[u.RoleID] = name
		}
		out[i] = newUserProfile(u, name)
	}

	httpx.WriteData(w, http.StatusOK, out)
}

// HandleDeactivate flips a user inactive and revokes their sessions.
// Accounts are never hard-deleted.
func (h *UsersHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	if err := h.UserService.Deactivate(ctx, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if actor, ok := IdentityFromContext(ctx); ok {
		h.ActivityService.Record(ctx, userID, domain.ActivityUserDeactivated,
			"account deactivated", clientAddr(r), r.UserAgent(),
			map[string]string{"deactivated_by": actor.User.ID})
	}

	httpx.WriteData(w, http.StatusOK, nil)
}
