// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/agrosense/fieldhub/internal/database"
	"github.com/agrosense/fieldhub/internal/models"
)

// ReadingRepository defines the interface for soil probe reading persistence
type ReadingRepository interface {
	database.Repository
	Insert(ctx context.Context, reading *models.Reading) error
	LatestPerProbe(ctx context.Context) (map[string]*models.Reading, error)
	// History returns readings for one probe since the given time,
	// ordered by ascending timestamp.
	History(ctx context.Context, probeID string, since time.Time) ([]*models.Reading, error)
	ProbeExists(ctx context.Context, probeID string) (bool, error)
	CountProbes(ctx context.Context) (int, error)
}

// CommandRepository defines the interface for rover command persistence.
// Status rows only ever advance pending -> in_progress -> completed/failed;
// the conditional claim and the terminal-state guard enforce that at the
// statement level so concurrent dispatch passes cannot double-advance a row.
type CommandRepository interface {
	database.Repository
	Insert(ctx context.Context, command *models.Command) error
	Get(ctx context.Context, id string) (*models.Command, error)
	// ListPending returns all pending commands ordered by creation time.
	ListPending(ctx context.Context) ([]*models.Command, error)
	// ClaimPending atomically moves a pending command to in_progress.
	// It reports false when the command was no longer pending, so that
	// exactly one caller wins a racing claim.
	ClaimPending(ctx context.Context, id string) (bool, error)
	// UpdateStatus moves a command to the given status. It reports false
	// (and no error) when the command was already terminal; terminal rows
	// are immutable and the update is an idempotent no-op. A missing id is
	// a not-found error.
	UpdateStatus(ctx context.Context, id string, status models.CommandStatus, result *string, completedAt *time.Time) (bool, error)
	// ReclaimInProgress moves every in_progress command back to pending.
	// A row can only be in_progress while a dispatcher execution timer is
	// live, so after a restart such rows are orphans.
	ReclaimInProgress(ctx context.Context) (int, error)
	// History returns the most recent commands, descending by creation time.
	History(ctx context.Context, limit int) ([]*models.Command, error)
	CountByStatus(ctx context.Context) (map[models.CommandStatus]int, error)
}

// RoverRepository defines the interface for the rover registry
type RoverRepository interface {
	database.Repository
	List(ctx context.Context) ([]*models.Rover, error)
	CountByStatus(ctx context.Context) (map[models.RoverStatus]int, error)
}
