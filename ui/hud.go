package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/liquid/systems"
	"github.com/pthm-cable/liquid/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Particles    int
	Tick         int32
	SimTime      float32
	KernelRadius float32
	GridDims     [3]int
	GridFinite   bool
	FPS          int32
	Paused       bool
	GravityScale float32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | h: %.3f | Gravity: %.2fx", data.Particles, data.KernelRadius, data.GravityScale),
		10, 35, 16, rl.LightGray,
	)

	grid := "Grid: empty"
	switch {
	case !data.GridFinite:
		grid = "Grid: non-finite"
	case data.GridDims != [3]int{}:
		grid = fmt.Sprintf("Grid: %dx%dx%d", data.GridDims[0], data.GridDims[1], data.GridDims[2])
	}
	rl.DrawText(
		fmt.Sprintf("Tick: %d | t=%.2fs | FPS: %d | %s", data.Tick, data.SimTime, data.FPS, grid),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase step timings.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.PhaseRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: systems.NewPhaseRegistry(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Tick: %s | %.0f ticks/s | %.2fM particles/s",
			stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond, stats.ParticlesPerSecond/1e6),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, phase := range p.registry.IDs() {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", p.registry.GetName(phase), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
