package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/liquid/config"
	"github.com/pthm-cable/liquid/telemetry"
)

func tapConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Emitters = []config.EmitterConfig{{Name: "tap", Rate: 20}}
	cfg.Derived.Emitters = []config.EmitterSpec{{Name: "tap", Rate: 20}}
	return cfg
}

func TestParamVectorFromEmitters(t *testing.T) {
	cfg := tapConfig(t)
	pv, err := NewParamVector(cfg)
	require.NoError(t, err)

	require.Equal(t, 1, pv.Dim())
	assert.Equal(t, "tap_rate", pv.Specs[0].Name)
	assert.Equal(t, 80.0, pv.Specs[0].Max)

	norm := pv.Normalize([]float64{20})
	assert.InDelta(t, 0.25, norm[0], 1e-12)
	assert.InDelta(t, 20, pv.Denormalize(norm)[0], 1e-9)
	assert.Equal(t, []float64{80}, pv.Clamp([]float64{500}))

	pv.ApplyToConfig(cfg, []float64{-3})
	assert.Zero(t, cfg.Emitters[0].Rate)
	assert.Zero(t, cfg.Derived.Emitters[0].Rate)
	assert.Equal(t, []float64{0}, pv.ExtractFromConfig(cfg))
}

func TestParamVectorNeedsEmitters(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Emitters = nil

	_, err = NewParamVector(cfg)
	assert.Error(t, err)
}

func TestComputeFitness(t *testing.T) {
	fe := &FitnessEvaluator{target: 100}

	window := func(particles int) telemetry.WindowStats {
		return telemetry.WindowStats{Particles: particles, WindowStartTick: 0, WindowEndTick: 100}
	}

	// Warmup half is ignored; steady at target scores zero
	on, fill := fe.computeFitness(&runResult{windowStats: []telemetry.WindowStats{
		window(0), window(50), window(100), window(100),
	}})
	assert.InDelta(t, 0, on, 1e-12)
	assert.InDelta(t, 1, fill, 1e-12)

	off, fill := fe.computeFitness(&runResult{windowStats: []telemetry.WindowStats{
		window(0), window(0), window(50), window(50),
	}})
	assert.InDelta(t, 0.25, off, 1e-12)
	assert.InDelta(t, 0.5, fill, 1e-12)

	failed, _ := fe.computeFitness(&runResult{failed: true})
	assert.Equal(t, failedFitness, failed)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1m05s", formatDuration(65e9))
	assert.Equal(t, "1h02m03s", formatDuration(3723e9))
}
