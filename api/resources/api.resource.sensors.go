package resources

import (
	"encoding/json"
	"net/http"

	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/fieldservice"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	service *fieldservice.FieldService
}

// @Summary Latest readings
// @Description Get the newest reading from every soil probe
// @Tags sensors
// @Produce json
// @Success 200 {object} map[string]models.Reading
// @Router /api/sensors/latest [get]
func (h *SensorHandlers) LatestReadings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	readings, err := h.service.LatestReadings(r.Context())
	if err != nil {
		respondWithError(w, errors.NewDatabaseError("failed to get latest readings", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

type historyQuery struct {
	Hours int `schema:"hours"`
}

// @Summary Probe history
// @Description Get historical readings for a specific probe
// @Tags sensors
// @Produce json
// @Param probeId path string true "Probe ID"
// @Param hours query int false "Lookback window in hours (default 24)"
// @Success 200 {array} models.Reading
// @Failure 404 {object} errors.APIError
// @Router /api/sensors/{probeId}/history [get]
func (h *SensorHandlers) ProbeHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	probeID := vars["probeId"]
	requestID := nuts.NID("req", 12)

	query := historyQuery{Hours: 24}
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	readings, err := h.service.ReadingHistory(r.Context(), probeID, query.Hours)
	if err != nil {
		if errors.IsNotFound(err) {
			respondWithError(w, err.(*errors.APIError).WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewDatabaseError("failed to get reading history", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

// Helper functions

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
