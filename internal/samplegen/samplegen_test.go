package samplegen

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piolla/waterpump/internal/ingest"
)

var start = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateScenarios(t *testing.T) {
	bounds := map[Scenario][2]float64{
		ScenarioNormal:        {35, 75},
		ScenarioOverheating:   {40, 100},
		ScenarioMaintenance:   {20, 80},
		ScenarioLoadVariation: {30, 90},
		ScenarioCombined:      {20, 100},
	}

	for _, sc := range Scenarios {
		samples, err := Generate(Config{Scenario: sc, Start: start, Duration: 8 * time.Hour, Interval: 10 * time.Minute, Seed: 7})
		require.NoError(t, err, sc)
		require.NotEmpty(t, samples, sc)

		for i, s := range samples {
			assert.GreaterOrEqual(t, s.Value, bounds[sc][0], sc)
			assert.LessOrEqual(t, s.Value, bounds[sc][1], sc)
			if i > 0 {
				assert.True(t, s.Timestamp.After(samples[i-1].Timestamp), sc)
			}
		}
	}
}

func TestGenerateSampleCount(t *testing.T) {
	samples, err := Generate(Config{Scenario: ScenarioNormal, Start: start, Duration: 24 * time.Hour, Interval: 10 * time.Minute})
	require.NoError(t, err)
	assert.Len(t, samples, 144)

	combined, err := Generate(Config{Scenario: ScenarioCombined, Start: start, Interval: 10 * time.Minute})
	require.NoError(t, err)
	assert.Len(t, combined, 48*6)
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := Config{Scenario: ScenarioOverheating, Start: start, Duration: 4 * time.Hour, Interval: 10 * time.Minute, Seed: 42}
	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, err := Generate(Config{Scenario: "volcano", Interval: time.Minute})
	require.Error(t, err)

	_, err = Generate(Config{Scenario: ScenarioNormal})
	require.Error(t, err)
}

func TestWriteCSVRoundTripsThroughIngest(t *testing.T) {
	samples, err := Generate(Config{Scenario: ScenarioMaintenance, Start: start, Duration: 2 * time.Hour, Interval: 10 * time.Minute, Seed: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samples))

	res, err := ingest.LoadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, res.Samples, len(samples))
	for i := range samples {
		assert.True(t, samples[i].Timestamp.Equal(res.Samples[i].Timestamp))
		assert.InDelta(t, samples[i].Value, res.Samples[i].Value, 1e-9)
	}
}
