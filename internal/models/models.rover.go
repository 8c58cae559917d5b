// FilePath: internal/models/models.rover.go
package models

// RoverStatus describes whether a rover is available for work
type RoverStatus string

const (
	RoverIdle RoverStatus = "idle"
	RoverBusy RoverStatus = "busy"
)

// Rover represents a simulated field actuator in the registry
type Rover struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Type         string      `json:"type" db:"type"`
	Status       RoverStatus `json:"status" db:"status"`
	BatteryLevel float64     `json:"battery_level" db:"battery_level"`
	CurrentZone  string      `json:"current_zone" db:"current_zone"`
}
