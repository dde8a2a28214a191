package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/liquid/components"
	"github.com/pthm-cable/liquid/inspector"
	"github.com/pthm-cable/liquid/renderer"
	"github.com/pthm-cable/liquid/ui"
)

// Speed mapped to the brightest particle color
const maxDisplaySpeed = 8.0

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.background.Draw(v.cam)
	v.drawGrid()

	if v.overlays.IsEnabled(ui.OverlaySources) {
		v.drawSources()
	}

	p := v.sim.Particles()
	v.particles.Draw(v.cam, p.Position, p.Velocity, p.Size, renderer.ParticleStyle{
		SpeedColors: v.overlays.IsEnabled(ui.OverlaySpeedColors),
		MaxSpeed:    maxDisplaySpeed,
		Velocity:    v.overlays.IsEnabled(ui.OverlayVelocity),
		VectorScale: 0.1,
	})

	v.drawSelection()
	v.drawUI()

	rl.EndDrawing()
}

// drawGrid draws the enabled grid overlays for the last tick.
func (v *Viewer) drawGrid() {
	g := v.sim.Grid()
	if v.overlays.IsEnabled(ui.OverlayOccupancy) {
		v.grid.DrawOccupancy(v.cam, v.sim.Bins())
	}
	if v.overlays.IsEnabled(ui.OverlayCells) {
		v.grid.DrawCells(v.cam, g)
	}
	if v.overlays.IsEnabled(ui.OverlayGridBox) {
		v.grid.DrawBox(v.cam, g)
	}
}

// drawSources draws drains under emitters.
func (v *Viewer) drawSources() {
	v.sim.EachDrain(func(name string, d *components.Drain) {
		renderer.DrawDrain(v.cam, d, name)
	})
	v.sim.EachEmitter(func(name string, e *components.Emitter) {
		renderer.DrawEmitter(v.cam, e, name)
	})
}

// drawSelection highlights the inspected particle and draws its panel.
func (v *Viewer) drawSelection() {
	i, ok := v.inspector.Selected()
	if !ok {
		return
	}
	p := v.sim.Particles()
	if i >= p.NumParticles() {
		return
	}
	h := v.sim.Solver().KernelRadius()
	view := inspector.BuildView(p, v.sim.Predicted(), v.sim.Bins(), h, i)
	v.inspector.DrawSelectionHighlight(v.cam, view, v.sim.Predicted(), p.Size, h)
	v.inspector.Draw(view)
}

// drawUI draws the HUD and panels, and syncs the control panel with the
// simulation and overlay state.
func (v *Viewer) drawUI() {
	g := v.sim.Grid()
	cfg := v.sim.Config()

	v.hud.Draw(ui.HUDData{
		Title:        "Liquid",
		Particles:    v.sim.Particles().NumParticles(),
		Tick:         v.sim.Tick(),
		SimTime:      float32(v.sim.Tick()) * cfg.Derived.DT32,
		KernelRadius: v.sim.Solver().KernelRadius(),
		GridDims:     g.Dims(),
		GridFinite:   g.IsFinite(),
		FPS:          rl.GetFPS(),
		Paused:       v.sim.Paused(),
		GravityScale: v.sim.GravityScale(),
	})

	v.statsPanel.Draw(v.lastStats)
	v.controlsPanel.Draw(v.overlays)
	v.perfPanel.Draw(v.sim.Perf().Stats())

	state := ui.ControlState{
		Paused:       v.sim.Paused(),
		GravityScale: v.sim.GravityScale(),
		ShowGrid:     v.overlays.IsEnabled(ui.OverlayGridBox),
		ShowCells:    v.overlays.IsEnabled(ui.OverlayCells),
	}
	actions := v.controlPanel.Draw(&state)
	v.sim.SetPaused(state.Paused)
	v.sim.SetGravityScale(state.GravityScale)
	v.overlays.SetEnabled(ui.OverlayGridBox, state.ShowGrid)
	v.overlays.SetEnabled(ui.OverlayCells, state.ShowCells)
	v.pending.Reset = v.pending.Reset || actions.Reset
	v.pending.Step = v.pending.Step || actions.Step

	v.hud.DrawControls(int32(v.screenWidth), int32(v.screenHeight), controlsLegend)
}
