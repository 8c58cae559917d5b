// FilePath: internal/models/models.command.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSON is a wrapper around map[string]interface{} for database storage
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &j)
}

// CommandStatus is the lifecycle state of a rover command
type CommandStatus string

const (
	CommandPending    CommandStatus = "pending"
	CommandInProgress CommandStatus = "in_progress"
	CommandCompleted  CommandStatus = "completed"
	CommandFailed     CommandStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions
func (s CommandStatus) IsTerminal() bool {
	return s == CommandCompleted || s == CommandFailed
}

// Command represents a requested rover action with a tracked lifecycle.
// Status only ever advances pending -> in_progress -> completed/failed.
type Command struct {
	ID          string        `json:"id" db:"id"`
	CommandType string        `json:"command_type" db:"command_type"`
	Zone        string        `json:"zone" db:"zone"`
	Parameters  JSON          `json:"parameters" db:"parameters"`
	Status      CommandStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	Result      *string       `json:"result,omitempty" db:"result"`
}

// knownCommandTypes is the set of command types rovers can execute.
var knownCommandTypes = map[string]bool{
	"irrigate":   true,
	"irrigation": true,
	"fertilize":  true,
	"fertilizer": true,
	"soil_scan":  true,
}

// IsKnownCommandType reports whether commandType can be dispatched to a rover
func IsKnownCommandType(commandType string) bool {
	return knownCommandTypes[commandType]
}
