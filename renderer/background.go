package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/liquid/camera"
)

// BackgroundRenderer draws a vertical gradient with a world-unit reference grid.
type BackgroundRenderer struct {
	screenW, screenH int32
	top, bottom      rl.Color
	line, axis       rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW: screenW,
		screenH: screenH,
		top:     rl.Color{R: 18, G: 22, B: 30, A: 255},
		bottom:  rl.Color{R: 8, G: 10, B: 14, A: 255},
		line:    rl.Color{R: 255, G: 255, B: 255, A: 12},
		axis:    rl.Color{R: 255, G: 255, B: 255, A: 40},
	}
}

// Resize updates the screen dimensions.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW = screenW
	b.screenH = screenH
}

// Draw renders the gradient and reference lines at a spacing that keeps
// them at least 24 pixels apart.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)

	step := ReferenceSpacing(cam.Scale(), 24)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	w, h := float32(b.screenW), float32(b.screenH)

	for x := float32(math.Floor(float64(minX/step))) * step; x <= maxX; x += step {
		sx, _ := cam.WorldToScreen(x, 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: h}, b.line)
	}
	for y := float32(math.Floor(float64(minY/step))) * step; y <= maxY; y += step {
		_, sy := cam.WorldToScreen(0, y)
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: w, Y: sy}, b.line)
	}

	ox, oy := cam.WorldToScreen(0, 0)
	rl.DrawLineV(rl.Vector2{X: ox, Y: 0}, rl.Vector2{X: ox, Y: h}, b.axis)
	rl.DrawLineV(rl.Vector2{X: 0, Y: oy}, rl.Vector2{X: w, Y: oy}, b.axis)
}

// ReferenceSpacing returns the smallest power of ten, in world units, whose
// on-screen length at scale pixels per unit is at least minPixels.
func ReferenceSpacing(scale, minPixels float32) float32 {
	if scale <= 0 {
		return 1
	}
	exp := math.Ceil(math.Log10(float64(minPixels / scale)))
	return float32(math.Pow(10, exp))
}
