package http

import (
	"net/http"
	"strconv"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/pkg/httpx"
)

type ActivityHandler struct {
	ActivityService *service.ActivityService
}

// ServeHTTP handles GET /v1/activity. Optional ?user_id narrows to one
// user's trail; ?limit caps the page, newest first.
func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	var (
		rows []domain.ActivityRecord
		err  error
	)
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		rows, err = h.ActivityService.ListByUser(ctx, userID, limit)
	} else {
		rows, err = h.ActivityService.List(ctx, limit)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]ActivityInfo, len(rows))
	for i, rec := range rows {
		out[i] = newActivityInfo(rec)
	}
	httpx.WriteData(w, http.StatusOK, out)
}
