// FilePath: internal/fieldservice/fieldservice.go
package fieldservice

import (
	"context"
	"fmt"
	"time"

	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/hub"
	"github.com/agrosense/fieldhub/internal/models"
	"github.com/agrosense/fieldhub/internal/repository"
	"github.com/google/uuid"
)

// maxCommandHistory caps how many commands a history query returns
const maxCommandHistory = 50

// FieldService is the facade the API layer talks to. It delegates reads to
// the repositories and coordinates command submission; it holds no state of
// its own and never touches the background schedulers.
type FieldService struct {
	Readings repository.ReadingRepository
	Commands repository.CommandRepository
	Rovers   repository.RoverRepository
	Hub      *hub.Hub
}

// New creates a new FieldService instance
func New(
	readings repository.ReadingRepository,
	commands repository.CommandRepository,
	rovers repository.RoverRepository,
	eventHub *hub.Hub,
) *FieldService {
	return &FieldService{
		Readings: readings,
		Commands: commands,
		Rovers:   rovers,
		Hub:      eventHub,
	}
}

// Validate checks if all required dependencies are initialized
func (s *FieldService) Validate() error {
	if s.Readings == nil {
		return ErrMissingDependency("readings")
	}
	if s.Commands == nil {
		return ErrMissingDependency("commands")
	}
	if s.Rovers == nil {
		return ErrMissingDependency("rovers")
	}
	if s.Hub == nil {
		return ErrMissingDependency("hub")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}

// LatestReadings returns the newest reading per probe
func (s *FieldService) LatestReadings(ctx context.Context) (map[string]*models.Reading, error) {
	return s.Readings.LatestPerProbe(ctx)
}

// ReadingHistory returns the readings of one probe over the last N hours,
// ascending by timestamp. An unknown probe is a not-found error.
func (s *FieldService) ReadingHistory(ctx context.Context, probeID string, hours int) ([]*models.Reading, error) {
	if hours <= 0 {
		hours = 24
	}

	exists, err := s.Readings.ProbeExists(ctx, probeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewNotFoundError(fmt.Sprintf("unknown probe %q", probeID), nil)
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	return s.Readings.History(ctx, probeID, since)
}

// SubmitCommand validates and persists a new rover command. The command is
// returned in pending state immediately; execution happens asynchronously in
// the dispatcher. Nothing is persisted for an unknown command type.
func (s *FieldService) SubmitCommand(ctx context.Context, commandType, zone string, parameters models.JSON) (*models.Command, error) {
	if !models.IsKnownCommandType(commandType) {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown command_type %q", commandType), nil)
	}
	if zone == "" {
		return nil, errors.NewValidationError("zone is required", nil)
	}
	if parameters == nil {
		parameters = models.JSON{}
	}

	command := &models.Command{
		ID:          uuid.NewString(),
		CommandType: commandType,
		Zone:        zone,
		Parameters:  parameters,
		Status:      models.CommandPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Commands.Insert(ctx, command); err != nil {
		return nil, err
	}

	s.Hub.Publish("new_command", command)
	return command, nil
}

// CommandHistory returns the most recent commands, newest first
func (s *FieldService) CommandHistory(ctx context.Context, limit int) ([]*models.Command, error) {
	if limit <= 0 || limit > maxCommandHistory {
		limit = maxCommandHistory
	}
	return s.Commands.History(ctx, limit)
}

// GetCommand returns a single command by id
func (s *FieldService) GetCommand(ctx context.Context, id string) (*models.Command, error) {
	return s.Commands.Get(ctx, id)
}

// ListRovers returns the rover registry
func (s *FieldService) ListRovers(ctx context.Context) ([]*models.Rover, error) {
	return s.Rovers.List(ctx)
}

// ProbeCounts summarizes the probe fleet
type ProbeCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// SystemStatus is the aggregate state snapshot served on /api/status
type SystemStatus struct {
	Probes     ProbeCounts                  `json:"probes"`
	Rovers     map[models.RoverStatus]int   `json:"rovers"`
	Commands   map[models.CommandStatus]int `json:"commands"`
	LastUpdate time.Time                    `json:"last_update"`
}

// Status aggregates probe, rover and command counts
func (s *FieldService) Status(ctx context.Context) (*SystemStatus, error) {
	probes, err := s.Readings.CountProbes(ctx)
	if err != nil {
		return nil, err
	}

	rovers, err := s.Rovers.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	commands, err := s.Commands.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &SystemStatus{
		Probes:     ProbeCounts{Total: probes, Active: probes},
		Rovers:     rovers,
		Commands:   commands,
		LastUpdate: time.Now().UTC(),
	}, nil
}
