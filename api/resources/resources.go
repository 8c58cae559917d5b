// FilePath: api/resources/resources.go
package resources

import (
	"github.com/agrosense/fieldhub/internal/fieldservice"
	"github.com/agrosense/fieldhub/internal/hub"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Sensors  *SensorHandlers
	Commands *CommandHandlers
	Status   *StatusHandlers
	Events   *EventHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *fieldservice.FieldService, eventHub *hub.Hub) *Resources {
	return &Resources{
		Sensors:  &SensorHandlers{service: svc},
		Commands: &CommandHandlers{service: svc},
		Status:   &StatusHandlers{service: svc},
		Events:   &EventHandlers{service: svc, hub: eventHub},
	}
}
