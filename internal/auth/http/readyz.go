package http

import (
	"net/http"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/pkg/httpx"
)

// ReadyzHandler reports whether the service can actually serve traffic,
// which here comes down to the database answering.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
