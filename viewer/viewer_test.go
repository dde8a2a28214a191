package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/liquid/config"
	"github.com/pthm-cable/liquid/sim"
	"github.com/pthm-cable/liquid/telemetry"
	"github.com/pthm-cable/liquid/ui"
)

func newViewer(t *testing.T) *Viewer {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.View.ShowCells = true

	v := New(800, 600)
	s, err := sim.New(sim.Options{Config: cfg, StatsWindowSec: 0.01, StatsCallback: v.StatsSink()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	v.Attach(s)
	return v
}

func TestAttachAppliesViewConfig(t *testing.T) {
	v := newViewer(t)

	assert.InDelta(t, 60, v.Camera().Scale(), 1e-6)
	assert.True(t, v.Overlays().IsEnabled(ui.OverlayCells))
	assert.True(t, v.Overlays().IsEnabled(ui.OverlayGridBox))
}

func TestPendingStepAndReset(t *testing.T) {
	v := newViewer(t)
	v.sim.SetPaused(true)

	v.pending.Step = true
	require.NoError(t, v.applyActions())
	assert.Equal(t, int32(1), v.sim.Tick())
	assert.Equal(t, int32(1), v.lastStats.WindowEndTick, "stats sink should receive the window")

	// Actions are one-shot
	require.NoError(t, v.applyActions())
	assert.Equal(t, int32(1), v.sim.Tick())

	v.inspector.Select(3)
	v.pending.Reset = true
	require.NoError(t, v.applyActions())
	assert.Equal(t, int32(0), v.sim.Tick())
	assert.Equal(t, telemetry.WindowStats{}, v.lastStats)
	_, selected := v.inspector.Selected()
	assert.False(t, selected)
}
