// FilePath: internal/repository/postgres/postgres.readings.go
package postgres

import (
	"context"
	"time"

	"github.com/agrosense/fieldhub/internal/database"
	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

type ReadingRepo struct {
	PostgresBaseRepo
}

func NewReadingRepository(db database.DB) *ReadingRepo {
	repo := &PostgresBaseRepo{db: db}
	return &ReadingRepo{PostgresBaseRepo: *repo}
}

func (r *ReadingRepo) Insert(ctx context.Context, reading *models.Reading) error {
	if reading.ID == "" {
		reading.ID = nuts.NID("sr", 12)
	}
	query := `
		INSERT INTO sensor_readings (
			id, probe_id, timestamp, nitrogen, phosphorus, potassium,
			ph, humidity, temperature, soil_moisture, fertility_index
		) VALUES (
			:id, :probe_id, :timestamp, :nitrogen, :phosphorus, :potassium,
			:ph, :humidity, :temperature, :soil_moisture, :fertility_index
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert sensor reading", err)
	}
	return nil
}

func (r *ReadingRepo) LatestPerProbe(ctx context.Context) (map[string]*models.Reading, error) {
	// Window function picks the newest reading per probe in one scan.
	query := `
		WITH ranked AS (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY probe_id ORDER BY timestamp DESC) AS rn
			FROM sensor_readings
		)
		SELECT id, probe_id, timestamp, nitrogen, phosphorus, potassium,
			ph, humidity, temperature, soil_moisture, fertility_index
		FROM ranked
		WHERE rn = 1
		ORDER BY probe_id`

	readings := []*models.Reading{}
	err := r.db.GetDB().SelectContext(ctx, &readings, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get latest readings", err)
	}

	result := make(map[string]*models.Reading, len(readings))
	for _, reading := range readings {
		result[reading.ProbeID] = reading
	}
	return result, nil
}

func (r *ReadingRepo) History(ctx context.Context, probeID string, since time.Time) ([]*models.Reading, error) {
	readings := []*models.Reading{}
	query := `
		SELECT id, probe_id, timestamp, nitrogen, phosphorus, potassium,
			ph, humidity, temperature, soil_moisture, fertility_index
		FROM sensor_readings
		WHERE probe_id = $1 AND timestamp > $2
		ORDER BY timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, probeID, since)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get reading history", err)
	}
	return readings, nil
}

func (r *ReadingRepo) ProbeExists(ctx context.Context, probeID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM sensor_readings WHERE probe_id = $1)`

	err := r.db.GetDB().GetContext(ctx, &exists, query, probeID)
	if err != nil {
		return false, errors.NewDatabaseError("failed to check probe", err)
	}
	return exists, nil
}

func (r *ReadingRepo) CountProbes(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(DISTINCT probe_id) FROM sensor_readings`

	err := r.db.GetDB().GetContext(ctx, &count, query)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to count probes", err)
	}
	return count, nil
}
