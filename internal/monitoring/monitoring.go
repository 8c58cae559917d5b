// FilePath: internal/monitoring/monitoring.go
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReadingsGenerated counts synthetic readings written by the simulator
	ReadingsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldhub_readings_generated_total",
		Help: "Synthetic sensor readings generated, by probe.",
	}, []string{"probe_id"})

	// SimulatorTickFailures counts readings skipped because of storage errors
	SimulatorTickFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldhub_simulator_tick_failures_total",
		Help: "Sensor readings skipped due to storage failures.",
	})

	// CommandsExecuted counts terminal command transitions by outcome
	CommandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldhub_commands_executed_total",
		Help: "Rover commands driven to a terminal state, by outcome.",
	}, []string{"outcome"})

	// HubEventsPublished counts events fanned out to subscribers
	HubEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldhub_hub_events_published_total",
		Help: "Events published on the broadcast hub, by event name.",
	}, []string{"event"})

	// HubEventsDropped counts per-subscriber deliveries dropped by backpressure
	HubEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldhub_hub_events_dropped_total",
		Help: "Event deliveries dropped because a subscriber could not keep up.",
	})

	// HubSubscribers tracks the live subscriber count
	HubSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fieldhub_hub_subscribers",
		Help: "Currently connected hub subscribers.",
	})
)

// Handler exposes the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
