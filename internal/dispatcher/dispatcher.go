// FilePath: internal/dispatcher/dispatcher.go
package dispatcher

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/agrosense/fieldhub/internal/config"
	"github.com/agrosense/fieldhub/internal/errors"
	"github.com/agrosense/fieldhub/internal/hub"
	"github.com/agrosense/fieldhub/internal/models"
	"github.com/agrosense/fieldhub/internal/monitoring"
	"github.com/agrosense/fieldhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

const terminalUpdateTimeout = 5 * time.Second

// Dispatcher advances rover commands through their lifecycle. Each poll pass
// claims pending commands (pending -> in_progress, atomic per command) and
// schedules the terminal transition after a simulated execution delay. The
// delay is a scheduled timer, never a sleep inside the poll loop, so one
// long-running command does not stall dispatch of the others.
type Dispatcher struct {
	commands repository.CommandRepository
	hub      *hub.Hub
	cfg      config.DispatcherConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a dispatcher with the given configuration
func New(commands repository.CommandRepository, eventHub *hub.Hub, cfg config.DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		commands: commands,
		hub:      eventHub,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run polls for pending commands until the context is cancelled
func (d *Dispatcher) Run(ctx context.Context) {
	nuts.L.Infof("[Dispatcher] Starting with poll interval %s", d.cfg.PollInterval)

	d.reclaimOrphans(ctx)

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			nuts.L.Infof("[Dispatcher] Stopped")
			return
		case <-ticker.C:
			d.Poll(ctx)
		}
	}
}

// reclaimOrphans requeues commands a previous process left in_progress; their
// execution timers died with that process, so they would otherwise be stuck.
func (d *Dispatcher) reclaimOrphans(ctx context.Context) {
	reclaimed, err := d.commands.ReclaimInProgress(ctx)
	if err != nil {
		nuts.L.Errorf("[Dispatcher] Failed to reclaim orphaned commands: %v", err)
		return
	}
	if reclaimed > 0 {
		nuts.L.Warnf("[Dispatcher] Requeued %d orphaned in_progress commands", reclaimed)
	}
}

// Poll claims every currently pending command and schedules its execution.
// Storage failures skip the pass; the next tick retries.
func (d *Dispatcher) Poll(ctx context.Context) {
	pending, err := d.commands.ListPending(ctx)
	if err != nil {
		nuts.L.Errorf("[Dispatcher] Failed to list pending commands: %v", err)
		return
	}

	for _, cmd := range pending {
		claimed, err := d.commands.ClaimPending(ctx, cmd.ID)
		if err != nil {
			nuts.L.Errorf("[Dispatcher] Failed to claim command %s: %v", cmd.ID, err)
			continue
		}
		if !claimed {
			// Another pass won the claim; nothing to do here.
			continue
		}

		delay := d.executionDelay(cmd)
		success := d.rollOutcome()
		nuts.L.Infof("[Dispatcher] Executing %s (%s in %s), eta %s",
			cmd.ID, cmd.CommandType, cmd.Zone, delay)

		command := cmd
		time.AfterFunc(delay, func() {
			d.finish(command, success)
		})
	}
}

// finish drives a claimed command to its terminal state and broadcasts the
// completion. Runs on the timer goroutine after the simulated execution
// delay, detached from the poll context.
func (d *Dispatcher) finish(cmd *models.Command, success bool) {
	ctx, cancel := context.WithTimeout(context.Background(), terminalUpdateTimeout)
	defer cancel()

	status := models.CommandCompleted
	result := fmt.Sprintf("Successfully executed %s in %s", cmd.CommandType, cmd.Zone)
	if !success {
		status = models.CommandFailed
		result = fmt.Sprintf("Execution of %s in %s failed: rover reported a fault", cmd.CommandType, cmd.Zone)
	}

	now := time.Now().UTC()
	updated, err := d.commands.UpdateStatus(ctx, cmd.ID, status, &result, &now)
	if err != nil {
		if errors.IsNotFound(err) {
			nuts.L.Warnf("[Dispatcher] Command %s vanished before completion", cmd.ID)
			return
		}
		nuts.L.Errorf("[Dispatcher] Failed to complete command %s: %v", cmd.ID, err)
		return
	}
	if !updated {
		nuts.L.Warnf("[Dispatcher] Command %s already terminal, skipping update", cmd.ID)
		return
	}

	monitoring.CommandsExecuted.WithLabelValues(string(status)).Inc()
	d.hub.Publish("command_completed", map[string]interface{}{
		"command_id": cmd.ID,
		"result":     result,
		"status":     status,
		"timestamp":  now.Format(time.RFC3339),
	})
}

// executionDelay simulates work proportional to the requested duration
// parameter, bounded by the configured maximum.
func (d *Dispatcher) executionDelay(cmd *models.Command) time.Duration {
	delay := d.cfg.ExecDelayBase

	if raw, ok := cmd.Parameters["duration"]; ok {
		if units, ok := raw.(float64); ok && units > 0 {
			delay += time.Duration(units * float64(d.cfg.ExecDelayPerUnit))
		}
	}

	// Jitter so simultaneous commands do not complete in lockstep.
	d.mu.Lock()
	jitter := time.Duration(d.rng.Int63n(int64(time.Second)))
	d.mu.Unlock()
	delay += jitter

	if d.cfg.ExecDelayMax > 0 && delay > d.cfg.ExecDelayMax {
		delay = d.cfg.ExecDelayMax
	}
	return delay
}

func (d *Dispatcher) rollOutcome() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() >= d.cfg.FailureProbability
}
