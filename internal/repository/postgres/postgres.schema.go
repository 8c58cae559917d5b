// FilePath: internal/repository/postgres/postgres.schema.go
package postgres

import (
	"github.com/agrosense/fieldhub/internal/database"
	"github.com/agrosense/fieldhub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// InitializeSchema creates the three tables the hub works against and seeds
// the rover registry. The deployment is assumed to own its database, so this
// runs unconditionally at startup.
func InitializeSchema(db database.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sensor_readings (
			id TEXT PRIMARY KEY,
			probe_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			nitrogen DOUBLE PRECISION NOT NULL,
			phosphorus DOUBLE PRECISION NOT NULL,
			potassium DOUBLE PRECISION NOT NULL,
			ph DOUBLE PRECISION NOT NULL,
			humidity DOUBLE PRECISION NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			soil_moisture DOUBLE PRECISION NOT NULL,
			fertility_index DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sensor_readings_probe_timestamp
			ON sensor_readings(probe_id, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS commands (
			id TEXT PRIMARY KEY,
			command_type TEXT NOT NULL,
			zone TEXT NOT NULL,
			parameters JSONB NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			result TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_commands_status_created
			ON commands(status, created_at)`,
		`CREATE TABLE IF NOT EXISTS rovers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'idle',
			battery_level DOUBLE PRECISION NOT NULL DEFAULT 100,
			current_zone TEXT NOT NULL DEFAULT ''
		)`,
		`INSERT INTO rovers (id, name, type, status, battery_level)
			VALUES
				('rover_1', 'Irrigation Rover', 'irrigation', 'idle', 100),
				('rover_2', 'Fertilizer Rover', 'fertilizer', 'idle', 95)
			ON CONFLICT (id) DO NOTHING`,
	}

	for _, query := range queries {
		_, err := db.GetDB().Exec(query)
		if err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}

	nuts.L.Infof("[PostgresDB] Schema initialized")
	return nil
}
