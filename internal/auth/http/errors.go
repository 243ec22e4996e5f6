package http

import (
	"errors"
	"net/http"

	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/pkg/httpx"
	"github.com/bullionboard/bullionboard/pkg/slogx"
)

// writeServiceError translates a typed service error into its HTTP
// status and the flat failure envelope. Anything unrecognised is a 500
// with a generic message; internals never leak to the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var unknownPerm *service.UnknownPermissionError

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrDuplicateIdentity):
		httpx.WriteError(w, http.StatusConflict, service.ErrDuplicateIdentity.Error())
	case errors.Is(err, service.ErrInvalidSession):
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrInvalidSession.Error())
	case errors.Is(err, service.ErrRoleInUse):
		httpx.WriteError(w, http.StatusConflict, service.ErrRoleInUse.Error())
	case errors.Is(err, service.ErrRoleExists):
		httpx.WriteError(w, http.StatusConflict, service.ErrRoleExists.Error())
	case errors.Is(err, service.ErrRoleNotFound):
		httpx.WriteError(w, http.StatusNotFound, service.ErrRoleNotFound.Error())
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, service.ErrUserNotFound.Error())
	case errors.As(err, &unknownPerm):
		httpx.WriteError(w, http.StatusBadRequest, unknownPerm.Error())
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error",
			"path", r.URL.Path, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
