// FilePath: internal/repository/postgres/postgres.rovers.go
package postgres

import (
	"context"

	"github.com/agrosense/fieldhub/internal/database"
	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/models"
)

type RoverRepo struct {
	PostgresBaseRepo
}

func NewRoverRepository(db database.DB) *RoverRepo {
	repo := &PostgresBaseRepo{db: db}
	return &RoverRepo{PostgresBaseRepo: *repo}
}

func (r *RoverRepo) List(ctx context.Context) ([]*models.Rover, error) {
	rovers := []*models.Rover{}
	query := `SELECT * FROM rovers ORDER BY id`

	err := r.db.GetDB().SelectContext(ctx, &rovers, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list rovers", err)
	}
	return rovers, nil
}

func (r *RoverRepo) CountByStatus(ctx context.Context) (map[models.RoverStatus]int, error) {
	rows := []struct {
		Status models.RoverStatus `db:"status"`
		Count  int                `db:"count"`
	}{}
	query := `SELECT status, COUNT(*) AS count FROM rovers GROUP BY status`

	err := r.db.GetDB().SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to count rovers", err)
	}

	counts := make(map[models.RoverStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
