// FilePath: internal/repository/postgres/postgres.commands.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/agrosense/fieldhub/internal/database"
	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/models"
)

type CommandRepo struct {
	PostgresBaseRepo
}

func NewCommandRepository(db database.DB) *CommandRepo {
	repo := &PostgresBaseRepo{db: db}
	return &CommandRepo{PostgresBaseRepo: *repo}
}

func (r *CommandRepo) Insert(ctx context.Context, command *models.Command) error {
	query := `
		INSERT INTO commands (
			id, command_type, zone, parameters, status, created_at
		) VALUES (
			:id, :command_type, :zone, :parameters, :status, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, command)
	if err != nil {
		return errors.NewDatabaseError("failed to insert command", err)
	}
	return nil
}

func (r *CommandRepo) Get(ctx context.Context, id string) (*models.Command, error) {
	command := &models.Command{}
	query := `SELECT * FROM commands WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, command, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("command not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get command", err)
	}
	return command, nil
}

func (r *CommandRepo) ListPending(ctx context.Context) ([]*models.Command, error) {
	commands := []*models.Command{}
	query := `SELECT * FROM commands WHERE status = 'pending' ORDER BY created_at ASC`

	err := r.db.GetDB().SelectContext(ctx, &commands, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list pending commands", err)
	}
	return commands, nil
}

// ClaimPending is the dispatcher's claim: the WHERE clause makes the
// pending -> in_progress transition conditional, so of any number of racing
// claimers exactly one sees an affected row.
func (r *CommandRepo) ClaimPending(ctx context.Context, id string) (bool, error) {
	query := `UPDATE commands SET status = 'in_progress' WHERE id = $1 AND status = 'pending'`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return false, errors.NewDatabaseError("failed to claim command", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows > 0, nil
}

func (r *CommandRepo) UpdateStatus(ctx context.Context, id string, status models.CommandStatus, result *string, completedAt *time.Time) (bool, error) {
	// Terminal rows are immutable; the status guard turns a late update
	// into a no-op instead of overwriting completed_at/result.
	query := `
		UPDATE commands
		SET status = $2, result = $3, completed_at = $4
		WHERE id = $1 AND status NOT IN ('completed', 'failed')`

	res, err := r.db.GetDB().ExecContext(ctx, query, id, status, result, completedAt)
	if err != nil {
		return false, errors.NewDatabaseError("failed to update command status", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows > 0 {
		return true, nil
	}

	// Distinguish a vanished command from an already-terminal one.
	var exists bool
	err = r.db.GetDB().GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM commands WHERE id = $1)`, id)
	if err != nil {
		return false, errors.NewDatabaseError("failed to check command", err)
	}
	if !exists {
		return false, errors.NewNotFoundError("command not found", nil)
	}
	return false, nil
}

func (r *CommandRepo) ReclaimInProgress(ctx context.Context) (int, error) {
	query := `UPDATE commands SET status = 'pending' WHERE status = 'in_progress'`

	res, err := r.db.GetDB().ExecContext(ctx, query)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to reclaim in-progress commands", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return int(rows), nil
}

func (r *CommandRepo) History(ctx context.Context, limit int) ([]*models.Command, error) {
	commands := []*models.Command{}
	query := `SELECT * FROM commands ORDER BY created_at DESC LIMIT $1`

	err := r.db.GetDB().SelectContext(ctx, &commands, query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get command history", err)
	}
	return commands, nil
}

func (r *CommandRepo) CountByStatus(ctx context.Context) (map[models.CommandStatus]int, error) {
	rows := []struct {
		Status models.CommandStatus `db:"status"`
		Count  int                  `db:"count"`
	}{}
	query := `SELECT status, COUNT(*) AS count FROM commands GROUP BY status`

	err := r.db.GetDB().SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to count commands", err)
	}

	counts := make(map[models.CommandStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
