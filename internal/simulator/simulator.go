// FilePath: internal/simulator/simulator.go
package simulator

import (
	"context"
	"time"

	"github.com/agrosense/fieldhub/internal/hub"
	"github.com/agrosense/fieldhub/internal/monitoring"
	"github.com/agrosense/fieldhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Simulator produces one synthetic reading per probe per tick, persists it
// and publishes it on the broadcast hub. A failing probe or a storage hiccup
// skips that reading; the scheduler itself keeps running.
type Simulator struct {
	generator *Generator
	readings  repository.ReadingRepository
	hub       *hub.Hub
	interval  time.Duration
}

// New creates a simulator ticking at the given interval
func New(generator *Generator, readings repository.ReadingRepository, eventHub *hub.Hub, interval time.Duration) *Simulator {
	return &Simulator{
		generator: generator,
		readings:  readings,
		hub:       eventHub,
		interval:  interval,
	}
}

// Run ticks until the context is cancelled
func (s *Simulator) Run(ctx context.Context) {
	nuts.L.Infof("[Simulator] Starting with %d probes, interval %s",
		len(s.generator.Probes()), s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			nuts.L.Infof("[Simulator] Stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick generates, persists and broadcasts one reading per probe
func (s *Simulator) Tick(ctx context.Context) {
	for _, probeID := range s.generator.Probes() {
		reading, err := s.generator.Next(probeID, time.Now())
		if err != nil {
			nuts.L.Errorf("[Simulator] Generation failed for %s: %v", probeID, err)
			continue
		}

		if err := s.readings.Insert(ctx, reading); err != nil {
			monitoring.SimulatorTickFailures.Inc()
			nuts.L.Errorf("[Simulator] Failed to store reading for %s: %v", probeID, err)
			continue
		}

		s.hub.Publish("sensor_data", reading)
		monitoring.ReadingsGenerated.WithLabelValues(probeID).Inc()
	}
}
