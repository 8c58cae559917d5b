// FilePath: api/resources/api.resource.status.go
package resources

import (
	"net/http"

	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/fieldservice"
	nuts "github.com/vaudience/go-nuts"
)

// StatusHandlers serves the rover registry, the aggregate status snapshot
// and the liveness probe
type StatusHandlers struct {
	service *fieldservice.FieldService
}

// @Summary List rovers
// @Description Get the rover registry
// @Tags rovers
// @Produce json
// @Success 200 {array} models.Rover
// @Router /api/rovers [get]
func (h *StatusHandlers) ListRovers(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	rovers, err := h.service.ListRovers(r.Context())
	if err != nil {
		respondWithError(w, errors.NewDatabaseError("failed to list rovers", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, rovers)
}

// @Summary System status
// @Description Get probe, rover and command counts
// @Tags status
// @Produce json
// @Success 200 {object} fieldservice.SystemStatus
// @Router /api/status [get]
func (h *StatusHandlers) SystemStatus(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	status, err := h.service.Status(r.Context())
	if err != nil {
		respondWithError(w, errors.NewDatabaseError("failed to get system status", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

// Health is the liveness probe
func (h *StatusHandlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
}
