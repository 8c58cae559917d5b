// FilePath: internal/models/models.reading.go
package models

import "time"

// Reading represents a single multi-metric soil probe sample.
// Readings are immutable once persisted.
type Reading struct {
	ID             string    `json:"id" db:"id"`
	ProbeID        string    `json:"probe_id" db:"probe_id"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	Nitrogen       float64   `json:"nitrogen" db:"nitrogen"`
	Phosphorus     float64   `json:"phosphorus" db:"phosphorus"`
	Potassium      float64   `json:"potassium" db:"potassium"`
	PH             float64   `json:"ph" db:"ph"`
	Humidity       float64   `json:"humidity" db:"humidity"`
	Temperature    float64   `json:"temperature" db:"temperature"`
	SoilMoisture   float64   `json:"soil_moisture" db:"soil_moisture"`
	FertilityIndex float64   `json:"fertility_index" db:"fertility_index"`
}
