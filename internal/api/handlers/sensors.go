package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hntwatch/hntwatch/internal/config"
	"github.com/hntwatch/hntwatch/internal/httputil"
	"github.com/hntwatch/hntwatch/internal/poller"
)

// ListSensorsHandler returns a handler for GET /api/sensors.
func ListSensorsHandler(p *poller.Poller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, p.Snapshots())
	}
}

// GetSensorHandler returns a handler for GET /api/sensors/{id}.
func GetSensorHandler(p *poller.Poller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		snap, ok := p.Snapshot(id)
		if !ok {
			httputil.Error(w, http.StatusNotFound, config.ErrorSensorNotFound,
				fmt.Sprintf("no sensor with id %q", id))
			return
		}

		httputil.JSON(w, http.StatusOK, snap)
	}
}
