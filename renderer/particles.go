package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/camera"
)

// Particle colors
var (
	ColorParticle     = rl.Color{R: 70, G: 150, B: 230, A: 255}
	ColorParticleFast = rl.Color{R: 235, G: 245, B: 255, A: 255}
	ColorVelocity     = rl.Color{R: 255, G: 180, B: 80, A: 200}
)

// ParticleStyle selects how particles are drawn.
type ParticleStyle struct {
	SpeedColors bool    // shade from ColorParticle to ColorParticleFast by speed
	MaxSpeed    float32 // speed mapped to ColorParticleFast
	Velocity    bool    // draw velocity vectors
	VectorScale float32 // seconds of travel drawn per vector
}

// ParticleRenderer renders fluid particles as discs of their radius.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders every visible particle.
func (r *ParticleRenderer) Draw(cam *camera.Camera, positions, velocities []mgl32.Vec3, size float32, style ParticleStyle) {
	radius := size * cam.Scale()
	if radius < 1 {
		radius = 1
	}

	for i, p := range positions {
		if !cam.IsVisible(p.X(), p.Y(), size) {
			continue
		}
		sx, sy := cam.WorldToScreen(p.X(), p.Y())

		color := ColorParticle
		if style.SpeedColors && i < len(velocities) {
			color = SpeedColor(velocities[i].Len(), style.MaxSpeed)
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, color)

		if style.Velocity && i < len(velocities) {
			end := p.Add(velocities[i].Mul(style.VectorScale))
			ex, ey := cam.WorldToScreen(end.X(), end.Y())
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, ColorVelocity)
		}
	}
}

// SpeedColor blends from ColorParticle at rest to ColorParticleFast at maxSpeed.
func SpeedColor(speed, maxSpeed float32) rl.Color {
	t := float32(0)
	if maxSpeed > 0 {
		t = speed / maxSpeed
	}
	if t > 1 || t != t {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	return lerpColor(ColorParticle, ColorParticleFast, t)
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: uint8(float32(a.A) + (float32(b.A)-float32(a.A))*t),
	}
}
