package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hntwatch/hntwatch/internal/api/handlers"
	"github.com/hntwatch/hntwatch/internal/api/middleware"
	"github.com/hntwatch/hntwatch/internal/poller"
)

// Dependencies holds all service references needed by the API layer.
type Dependencies struct {
	Poller    *poller.Poller
	StartedAt time.Time
}

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(deps *Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogging)

	r.Get("/api/health", handlers.HealthHandler(deps.Poller, deps.StartedAt))
	r.Get("/api/sensors", handlers.ListSensorsHandler(deps.Poller))
	r.Get("/api/sensors/{id}", handlers.GetSensorHandler(deps.Poller))

	slog.Info("router initialized",
		"middleware", []string{"realIP", "recoverer", "requestLogging"},
	)
	return r
}
