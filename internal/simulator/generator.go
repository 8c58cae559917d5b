// FilePath: internal/simulator/generator.go
package simulator

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/agrosense/fieldhub/internal/models"
)

// Physical bounds for generated metrics. Values outside these ranges would
// not come from a real probe, so the generator clamps to them.
const (
	phMin       = 4.0
	phMax       = 9.0
	moistureMin = 20.0
	moistureMax = 80.0
)

// baseProfiles are the per-probe nominal values the noise is centered on.
// Profiles repeat cyclically when more probes are configured than profiles
// exist.
var baseProfiles = []probeBaseline{
	{nitrogen: 45, phosphorus: 30, potassium: 35, ph: 6.5, humidity: 65, temperature: 24},
	{nitrogen: 40, phosphorus: 25, potassium: 30, ph: 6.8, humidity: 70, temperature: 23},
	{nitrogen: 50, phosphorus: 35, potassium: 40, ph: 6.3, humidity: 60, temperature: 25},
	{nitrogen: 35, phosphorus: 20, potassium: 25, ph: 7.0, humidity: 75, temperature: 22},
}

type probeBaseline struct {
	nitrogen    float64
	phosphorus  float64
	potassium   float64
	ph          float64
	humidity    float64
	temperature float64
}

type probeState struct {
	probeBaseline
	moisture float64
}

// Generator synthesizes readings around slowly drifting per-probe baselines.
// Safe for use from a single simulator goroutine and from tests.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	probes []string
	state  map[string]*probeState
}

// NewGenerator creates a generator for probeCount probes named Probe_1..N
func NewGenerator(probeCount int, seed int64) *Generator {
	rng := rand.New(rand.NewSource(seed))
	g := &Generator{
		rng:    rng,
		probes: make([]string, 0, probeCount),
		state:  make(map[string]*probeState, probeCount),
	}
	for i := 0; i < probeCount; i++ {
		id := fmt.Sprintf("Probe_%d", i+1)
		g.probes = append(g.probes, id)
		g.state[id] = &probeState{
			probeBaseline: baseProfiles[i%len(baseProfiles)],
			moisture:      moistureMin + rng.Float64()*(moistureMax-moistureMin),
		}
	}
	return g
}

// Probes returns the fixed probe identifiers, in order
func (g *Generator) Probes() []string {
	return g.probes
}

// Next synthesizes one reading for the probe. Soil moisture drifts between
// ticks; the remaining metrics are bounded noise around the probe baseline.
func (g *Generator) Next(probeID string, now time.Time) (*models.Reading, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.state[probeID]
	if !ok {
		return nil, fmt.Errorf("unknown probe %q", probeID)
	}

	st.moisture = clamp(st.moisture + g.uniform(-3, 3), moistureMin, moistureMax)

	return &models.Reading{
		ProbeID:        probeID,
		Timestamp:      now.UTC(),
		Nitrogen:       max0(st.nitrogen + g.uniform(-5, 5)),
		Phosphorus:     max0(st.phosphorus + g.uniform(-3, 3)),
		Potassium:      max0(st.potassium + g.uniform(-4, 4)),
		PH:             clamp(st.ph + g.uniform(-0.3, 0.3), phMin, phMax),
		Humidity:       clamp(st.humidity + g.uniform(-5, 5), 0, 100),
		Temperature:    st.temperature + g.uniform(-2, 2),
		SoilMoisture:   st.moisture,
		FertilityIndex: g.uniform(60, 95),
	}, nil
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
