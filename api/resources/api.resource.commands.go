// FilePath: api/resources/api.resource.commands.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/fieldservice"
	"github.com/agrosense/fieldhub/internal/models"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// CommandHandlers encapsulates the command-related HTTP handlers
type CommandHandlers struct {
	service *fieldservice.FieldService
}

type submitCommandRequest struct {
	CommandType string      `json:"command_type"`
	Zone        string      `json:"zone"`
	Parameters  models.JSON `json:"parameters"`
}

// @Summary Submit a rover command
// @Description Queue a command for rover execution; returns the pending command immediately
// @Tags commands
// @Accept json
// @Produce json
// @Param command body submitCommandRequest true "Command details"
// @Success 201 {object} models.Command
// @Failure 400 {object} errors.APIError
// @Router /api/commands [post]
func (h *CommandHandlers) SubmitCommand(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req submitCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	command, err := h.service.SubmitCommand(r.Context(), req.CommandType, req.Zone, req.Parameters)
	if err != nil {
		if errors.IsValidation(err) {
			respondWithError(w, err.(*errors.APIError).WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewDatabaseError("failed to submit command", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, command)
}

type commandHistoryQuery struct {
	Limit int `schema:"limit"`
}

// @Summary Command history
// @Description Get the most recent commands, newest first
// @Tags commands
// @Produce json
// @Param limit query int false "Maximum number of commands (default and cap 50)"
// @Success 200 {array} models.Command
// @Router /api/commands/history [get]
func (h *CommandHandlers) CommandHistory(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	query := commandHistoryQuery{}
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	commands, err := h.service.CommandHistory(r.Context(), query.Limit)
	if err != nil {
		respondWithError(w, errors.NewDatabaseError("failed to get command history", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, commands)
}

// @Summary Get a command
// @Description Get a single command by id
// @Tags commands
// @Produce json
// @Param id path string true "Command ID"
// @Success 200 {object} models.Command
// @Failure 404 {object} errors.APIError
// @Router /api/commands/{id} [get]
func (h *CommandHandlers) GetCommand(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	command, err := h.service.GetCommand(r.Context(), id)
	if err != nil {
		if errors.IsNotFound(err) {
			respondWithError(w, err.(*errors.APIError).WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewDatabaseError("failed to get command", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, command)
}
