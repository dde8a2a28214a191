// Package components defines the plain-data types shared by the solver, the
// host simulation and the C boundary.
package components

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ParticleData stores particle attributes in parallel arrays.
// The arrays are owned by the caller; the solver only borrows them for the
// duration of a single call.
type ParticleData struct {
	Position     []mgl32.Vec3 // position at current time step
	PositionPrev []mgl32.Vec3 // position at previous time step
	Velocity     []mgl32.Vec3 // velocity at current time step

	// Size is the particle radius, shared by all particles.
	Size float32
}

// NewParticleData allocates zeroed buffers for n particles of the given radius.
func NewParticleData(n int, size float32) *ParticleData {
	return &ParticleData{
		Position:     make([]mgl32.Vec3, n),
		PositionPrev: make([]mgl32.Vec3, n),
		Velocity:     make([]mgl32.Vec3, n),
		Size:         size,
	}
}

// NumParticles returns the particle count, taken from the position array.
func (p *ParticleData) NumParticles() int {
	return len(p.Position)
}

// Validate checks that the parallel arrays agree in length.
func (p *ParticleData) Validate() error {
	n := len(p.Position)
	if len(p.PositionPrev) != n || len(p.Velocity) != n {
		return fmt.Errorf("particle arrays differ in length: position=%d position_prev=%d velocity=%d",
			n, len(p.PositionPrev), len(p.Velocity))
	}
	return nil
}

// Append adds a particle. Its previous position starts equal to pos.
func (p *ParticleData) Append(pos, vel mgl32.Vec3) {
	p.Position = append(p.Position, pos)
	p.PositionPrev = append(p.PositionPrev, pos)
	p.Velocity = append(p.Velocity, vel)
}

// SwapRemove removes particle i by moving the last particle into its slot.
// Particle order is not preserved.
func (p *ParticleData) SwapRemove(i int) {
	last := len(p.Position) - 1
	p.Position[i] = p.Position[last]
	p.PositionPrev[i] = p.PositionPrev[last]
	p.Velocity[i] = p.Velocity[last]

	p.Position = p.Position[:last]
	p.PositionPrev = p.PositionPrev[:last]
	p.Velocity = p.Velocity[:last]
}

// Resize sets the particle count to n. Slots added by growing are zeroed.
func (p *ParticleData) Resize(n int) {
	p.Position = ResizeVec3(p.Position, n)
	p.PositionPrev = ResizeVec3(p.PositionPrev, n)
	p.Velocity = ResizeVec3(p.Velocity, n)
}

// ResizeVec3 returns s with length n, reusing its backing array when possible.
// Every slot past the old length holds the zero vector.
func ResizeVec3(s []mgl32.Vec3, n int) []mgl32.Vec3 {
	old := len(s)
	if n <= cap(s) {
		s = s[:n]
		if n > old {
			clear(s[old:n])
		}
		return s
	}
	grown := make([]mgl32.Vec3, n)
	copy(grown, s)
	return grown
}
