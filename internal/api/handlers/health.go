package handlers

import (
	"net/http"
	"time"

	"github.com/hntwatch/hntwatch/internal/httputil"
	"github.com/hntwatch/hntwatch/internal/poller"
)

// HealthHandler returns a handler for GET /api/health.
func HealthHandler(p *poller.Poller, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"sensors":    p.SensorCount(),
			"uptime_sec": int64(time.Since(startedAt).Seconds()),
			"started_at": startedAt.UTC().Format(time.RFC3339),
		})
	}
}
