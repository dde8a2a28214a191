package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/liquid/camera"
	"github.com/pthm-cable/liquid/components"
)

// Source colors
var (
	ColorEmitter = rl.Color{R: 90, G: 230, B: 230, A: 255}
	ColorDrain   = rl.Color{R: 230, G: 80, B: 90, A: 160}
)

// DrawEmitter marks an emitter's origin, jitter square and launch direction.
func DrawEmitter(cam *camera.Camera, e *components.Emitter, name string) {
	sx, sy := cam.WorldToScreen(e.Origin.X(), e.Origin.Y())
	half := e.Jitter * cam.Scale()
	if half < 3 {
		half = 3
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx - half, Y: sy - half, Width: 2 * half, Height: 2 * half}, 1, ColorEmitter)

	tip := e.Origin.Add(e.Velocity.Mul(0.1))
	tx, ty := cam.WorldToScreen(tip.X(), tip.Y())
	rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: tx, Y: ty}, ColorEmitter)

	rl.DrawText(name, int32(sx+half+4), int32(sy-6), 12, ColorEmitter)
}

// DrawDrain outlines a drain box projected onto the x/y plane.
func DrawDrain(cam *camera.Camera, d *components.Drain, name string) {
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	// Clip to the view so huge boxes don't overflow screen coordinates
	x0 := max(d.Min.X(), minX)
	x1 := min(d.Max.X(), maxX)
	y0 := max(d.Min.Y(), minY)
	y1 := min(d.Max.Y(), maxY)
	if x0 > x1 || y0 > y1 {
		return
	}

	sx0, sy0 := cam.WorldToScreen(x0, y1)
	sx1, sy1 := cam.WorldToScreen(x1, y0)
	rect := rl.Rectangle{X: sx0, Y: sy0, Width: sx1 - sx0, Height: sy1 - sy0}
	fill := ColorDrain
	fill.A = 40
	rl.DrawRectangleRec(rect, fill)
	rl.DrawRectangleLinesEx(rect, 1, ColorDrain)
	rl.DrawText(name, int32(sx0+4), int32(sy0+4), 12, ColorDrain)
}
