// Package viewer draws a running simulation with raylib and routes user input
// to it.
package viewer

import (
	"fmt"

	"github.com/pthm-cable/liquid/camera"
	"github.com/pthm-cable/liquid/inspector"
	"github.com/pthm-cable/liquid/renderer"
	"github.com/pthm-cable/liquid/sim"
	"github.com/pthm-cable/liquid/telemetry"
	"github.com/pthm-cable/liquid/ui"
)

const controlsLegend = "SPACE: Pause | N: Step | R: Reset | Arrows: Pan | Wheel/+/-: Zoom | Home: Recenter | Click: Inspect | Tab: Overlays"

// Viewer owns the window-side state for one simulation.
type Viewer struct {
	sim *sim.Simulation
	cam *camera.Camera

	screenWidth, screenHeight float32

	// Renderers
	background *renderer.BackgroundRenderer
	particles  *renderer.ParticleRenderer
	grid       *renderer.GridRenderer

	// UI
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	statsPanel    *ui.FluidStatsPanel
	controlPanel  *ui.ControlPanel
	controlsPanel *ui.ControlsPanel
	overlays      *ui.OverlayRegistry
	inspector     *inspector.Inspector

	lastStats telemetry.WindowStats
	pending   ui.ControlActions
}

// StatsSink returns a callback for sim.Options.StatsCallback that keeps the
// latest window for the stats panel. Attach it before the simulation is built.
func (v *Viewer) StatsSink() func(telemetry.WindowStats) {
	return func(ws telemetry.WindowStats) { v.lastStats = ws }
}

// New creates a viewer for a screen of the given size. Call Attach once the
// simulation exists.
func New(screenWidth, screenHeight int32) *Viewer {
	w, h := float32(screenWidth), float32(screenHeight)
	v := &Viewer{
		screenWidth:   w,
		screenHeight:  h,
		background:    renderer.NewBackgroundRenderer(screenWidth, screenHeight),
		particles:     renderer.NewParticleRenderer(),
		grid:          renderer.NewGridRenderer(),
		hud:           ui.NewHUD(),
		perfPanel:     ui.NewPerfPanel(screenWidth-260, screenHeight-260),
		statsPanel:    ui.NewFluidStatsPanel(10, 100, 240),
		controlPanel:  ui.NewControlPanel(10, h-210, 240),
		controlsPanel: ui.NewControlsPanel(260, 100, 220),
		overlays:      ui.NewOverlayRegistry(),
		inspector:     inspector.NewInspector(screenWidth, screenHeight),
	}
	return v
}

// Attach binds the simulation and centres the camera on the configured view.
func (v *Viewer) Attach(s *sim.Simulation) {
	v.sim = s
	view := s.Config().View
	var cx, cy float32
	if len(view.Center) >= 2 {
		cx, cy = float32(view.Center[0]), float32(view.Center[1])
	}
	v.cam = camera.New(v.screenWidth, v.screenHeight, float32(view.PixelsPerUnit), cx, cy)
	v.overlays.SetEnabled(ui.OverlayCells, view.ShowCells)
}

// Camera returns the view camera.
func (v *Viewer) Camera() *camera.Camera {
	return v.cam
}

// Overlays returns the overlay registry.
func (v *Viewer) Overlays() *ui.OverlayRegistry {
	return v.overlays
}

// Update processes input and advances the simulation.
func (v *Viewer) Update() error {
	v.handleInput()
	if err := v.applyActions(); err != nil {
		return err
	}
	if err := v.sim.Update(); err != nil {
		return err
	}
	v.inspector.Validate(v.sim.Particles().NumParticles())
	return nil
}

// applyActions runs the panel buttons pressed during the previous Draw.
func (v *Viewer) applyActions() error {
	actions := v.pending
	v.pending = ui.ControlActions{}

	if actions.Reset {
		v.reset()
	}
	if actions.Step {
		return v.step()
	}
	return nil
}

// reset rewinds the simulation and drops UI state tied to particle indices.
func (v *Viewer) reset() {
	v.sim.Reset()
	v.inspector.Deselect()
	v.lastStats = telemetry.WindowStats{}
}

// step advances one tick while paused.
func (v *Viewer) step() error {
	if err := v.sim.Step(); err != nil {
		return fmt.Errorf("single step: %w", err)
	}
	return nil
}
