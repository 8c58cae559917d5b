package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneratorNamesProbesSequentially(t *testing.T) {
	g := NewGenerator(4, 1)
	assert.Equal(t, []string{"Probe_1", "Probe_2", "Probe_3", "Probe_4"}, g.Probes())
}

func TestNextUnknownProbe(t *testing.T) {
	g := NewGenerator(2, 1)
	_, err := g.Next("Probe_99", time.Now())
	assert.Error(t, err)
}

func TestNextStaysWithinPhysicalBounds(t *testing.T) {
	g := NewGenerator(6, 42)
	now := time.Now()

	for tick := 0; tick < 500; tick++ {
		for _, probeID := range g.Probes() {
			r, err := g.Next(probeID, now)
			require.NoError(t, err)

			assert.Equal(t, probeID, r.ProbeID)
			assert.GreaterOrEqual(t, r.PH, 4.0)
			assert.LessOrEqual(t, r.PH, 9.0)
			assert.GreaterOrEqual(t, r.SoilMoisture, 20.0)
			assert.LessOrEqual(t, r.SoilMoisture, 80.0)
			assert.GreaterOrEqual(t, r.Humidity, 0.0)
			assert.LessOrEqual(t, r.Humidity, 100.0)
			assert.GreaterOrEqual(t, r.Nitrogen, 0.0)
			assert.GreaterOrEqual(t, r.Phosphorus, 0.0)
			assert.GreaterOrEqual(t, r.Potassium, 0.0)
			assert.GreaterOrEqual(t, r.FertilityIndex, 60.0)
			assert.LessOrEqual(t, r.FertilityIndex, 95.0)
		}
	}
}

func TestNextMoistureDriftsGradually(t *testing.T) {
	g := NewGenerator(1, 7)
	now := time.Now()

	prev, err := g.Next("Probe_1", now)
	require.NoError(t, err)

	for tick := 0; tick < 200; tick++ {
		r, err := g.Next("Probe_1", now)
		require.NoError(t, err)

		step := r.SoilMoisture - prev.SoilMoisture
		assert.LessOrEqual(t, step, 3.0)
		assert.GreaterOrEqual(t, step, -3.0)
		prev = r
	}
}

func TestNextValuesVaryBetweenTicks(t *testing.T) {
	g := NewGenerator(1, 99)
	now := time.Now()

	a, err := g.Next("Probe_1", now)
	require.NoError(t, err)
	b, err := g.Next("Probe_1", now)
	require.NoError(t, err)

	// Bounded noise, not constants.
	assert.NotEqual(t, a.Nitrogen, b.Nitrogen)
	assert.NotEqual(t, a.Temperature, b.Temperature)
}

func TestNextTimestampIsUTC(t *testing.T) {
	g := NewGenerator(1, 1)
	local := time.Date(2026, 8, 31, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	r, err := g.Next("Probe_1", local)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, r.Timestamp.Location())
	assert.True(t, r.Timestamp.Equal(local))
}

func TestProfilesRepeatBeyondProfileCount(t *testing.T) {
	g := NewGenerator(8, 1)
	require.Len(t, g.Probes(), 8)

	now := time.Now()
	for _, probeID := range g.Probes() {
		_, err := g.Next(probeID, now)
		require.NoError(t, err)
	}
}
