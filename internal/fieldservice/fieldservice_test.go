package fieldservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/agrosense/fieldhub/internal/database"
	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/fieldservice"
	"github.com/agrosense/fieldhub/internal/hub"
	"github.com/agrosense/fieldhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReadingRepo struct {
	readings     []*models.Reading
	knownProbes  map[string]bool
	historySince time.Time
}

func (s *stubReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (s *stubReadingRepo) Insert(ctx context.Context, reading *models.Reading) error {
	s.readings = append(s.readings, reading)
	return nil
}

func (s *stubReadingRepo) LatestPerProbe(ctx context.Context) (map[string]*models.Reading, error) {
	latest := make(map[string]*models.Reading)
	for _, r := range s.readings {
		latest[r.ProbeID] = r
	}
	return latest, nil
}

func (s *stubReadingRepo) History(ctx context.Context, probeID string, since time.Time) ([]*models.Reading, error) {
	s.historySince = since
	var out []*models.Reading
	for _, r := range s.readings {
		if r.ProbeID == probeID && r.Timestamp.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubReadingRepo) ProbeExists(ctx context.Context, probeID string) (bool, error) {
	return s.knownProbes[probeID], nil
}

func (s *stubReadingRepo) CountProbes(ctx context.Context) (int, error) {
	return len(s.knownProbes), nil
}

type stubCommandRepo struct {
	inserted     []*models.Command
	historyLimit int
}

func (s *stubCommandRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (s *stubCommandRepo) Insert(ctx context.Context, command *models.Command) error {
	s.inserted = append(s.inserted, command)
	return nil
}

func (s *stubCommandRepo) Get(ctx context.Context, id string) (*models.Command, error) {
	for _, cmd := range s.inserted {
		if cmd.ID == id {
			return cmd, nil
		}
	}
	return nil, errors.NewNotFoundError("command not found", nil)
}

func (s *stubCommandRepo) ListPending(ctx context.Context) ([]*models.Command, error) {
	return nil, nil
}

func (s *stubCommandRepo) ClaimPending(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (s *stubCommandRepo) UpdateStatus(ctx context.Context, id string, status models.CommandStatus, result *string, completedAt *time.Time) (bool, error) {
	return false, nil
}

func (s *stubCommandRepo) ReclaimInProgress(ctx context.Context) (int, error) {
	return 0, nil
}

func (s *stubCommandRepo) History(ctx context.Context, limit int) ([]*models.Command, error) {
	s.historyLimit = limit
	return nil, nil
}

func (s *stubCommandRepo) CountByStatus(ctx context.Context) (map[models.CommandStatus]int, error) {
	return map[models.CommandStatus]int{models.CommandPending: len(s.inserted)}, nil
}

type stubRoverRepo struct {
	rovers []*models.Rover
}

func (s *stubRoverRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (s *stubRoverRepo) List(ctx context.Context) ([]*models.Rover, error) {
	return s.rovers, nil
}

func (s *stubRoverRepo) CountByStatus(ctx context.Context) (map[models.RoverStatus]int, error) {
	counts := make(map[models.RoverStatus]int)
	for _, r := range s.rovers {
		counts[r.Status]++
	}
	return counts, nil
}

func newTestService() (*fieldservice.FieldService, *stubReadingRepo, *stubCommandRepo, *hub.Hub) {
	readings := &stubReadingRepo{knownProbes: map[string]bool{"Probe_1": true}}
	commands := &stubCommandRepo{}
	rovers := &stubRoverRepo{rovers: []*models.Rover{
		{ID: "rover_1", Name: "Irrigation Rover", Type: "irrigation", Status: models.RoverIdle, BatteryLevel: 95, CurrentZone: "zone_a"},
	}}
	eventHub := hub.New(16)
	return fieldservice.New(readings, commands, rovers, eventHub), readings, commands, eventHub
}

func TestValidateRequiresAllDependencies(t *testing.T) {
	svc, _, _, eventHub := newTestService()
	defer eventHub.Close()
	require.NoError(t, svc.Validate())

	svc.Rovers = nil
	assert.Error(t, svc.Validate())
}

func TestSubmitCommandPersistsAndBroadcasts(t *testing.T) {
	svc, _, commands, eventHub := newTestService()
	defer eventHub.Close()
	sub := eventHub.Subscribe()

	cmd, err := svc.SubmitCommand(context.Background(), "irrigation", "zone_b", models.JSON{"duration": 5})
	require.NoError(t, err)

	assert.NotEmpty(t, cmd.ID)
	assert.Equal(t, models.CommandPending, cmd.Status)
	assert.Equal(t, "zone_b", cmd.Zone)
	assert.Nil(t, cmd.CompletedAt)
	require.Len(t, commands.inserted, 1)

	select {
	case evt := <-sub.Events():
		assert.Equal(t, "new_command", evt.Event)
		assert.Equal(t, cmd, evt.Data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for new_command event")
	}
}

func TestSubmitCommandDefaultsNilParameters(t *testing.T) {
	svc, _, _, eventHub := newTestService()
	defer eventHub.Close()

	cmd, err := svc.SubmitCommand(context.Background(), "soil_scan", "zone_a", nil)
	require.NoError(t, err)
	assert.NotNil(t, cmd.Parameters)
}

func TestSubmitCommandRejectsUnknownType(t *testing.T) {
	svc, _, commands, eventHub := newTestService()
	defer eventHub.Close()
	sub := eventHub.Subscribe()

	_, err := svc.SubmitCommand(context.Background(), "self_destruct", "zone_a", nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	// Nothing persisted, nothing broadcast.
	assert.Empty(t, commands.inserted)
	select {
	case evt := <-sub.Events():
		t.Fatalf("unexpected event %v", evt)
	default:
	}
}

func TestSubmitCommandRequiresZone(t *testing.T) {
	svc, _, commands, eventHub := newTestService()
	defer eventHub.Close()

	_, err := svc.SubmitCommand(context.Background(), "irrigation", "", nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, commands.inserted)
}

func TestReadingHistoryUnknownProbe(t *testing.T) {
	svc, _, _, eventHub := newTestService()
	defer eventHub.Close()

	_, err := svc.ReadingHistory(context.Background(), "Probe_99", 24)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestReadingHistoryDefaultsToTwentyFourHours(t *testing.T) {
	svc, readings, _, eventHub := newTestService()
	defer eventHub.Close()

	_, err := svc.ReadingHistory(context.Background(), "Probe_1", 0)
	require.NoError(t, err)

	expected := time.Now().Add(-24 * time.Hour)
	assert.WithinDuration(t, expected, readings.historySince, time.Minute)
}

func TestReadingHistoryCustomWindow(t *testing.T) {
	svc, readings, _, eventHub := newTestService()
	defer eventHub.Close()

	_, err := svc.ReadingHistory(context.Background(), "Probe_1", 6)
	require.NoError(t, err)

	expected := time.Now().Add(-6 * time.Hour)
	assert.WithinDuration(t, expected, readings.historySince, time.Minute)
}

func TestCommandHistoryClampsLimit(t *testing.T) {
	svc, _, commands, eventHub := newTestService()
	defer eventHub.Close()

	for _, limit := range []int{0, -5, 500} {
		_, err := svc.CommandHistory(context.Background(), limit)
		require.NoError(t, err)
		assert.Equal(t, 50, commands.historyLimit)
	}

	_, err := svc.CommandHistory(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, commands.historyLimit)
}

func TestStatusAggregatesCounts(t *testing.T) {
	svc, _, _, eventHub := newTestService()
	defer eventHub.Close()

	status, err := svc.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, status.Probes.Total)
	assert.Equal(t, 1, status.Rovers[models.RoverIdle])
	assert.WithinDuration(t, time.Now(), status.LastUpdate, time.Minute)
}
