package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/liquid/components"
)

// Integrate applies the external acceleration and a semi-implicit Euler step:
//
//	v += dt * accel
//	predicted = x + dt * v
//
// Velocities are updated in place. Positions are only read; the prediction is
// written to predicted, which must hold exactly NumParticles entries.
func Integrate(p *components.ParticleData, dt float32, accel mgl32.Vec3, predicted []mgl32.Vec3) {
	dv := accel.Mul(dt)
	for i := range p.Velocity {
		p.Velocity[i] = p.Velocity[i].Add(dv)
	}

	PredictPositions(predicted, p.Position, p.Velocity, dt)
}

// PredictPositions writes dst = pos + dt*vel over the flat float views.
func PredictPositions(dst, pos, vel []mgl32.Vec3, dt float32) {
	n := 3 * len(dst)
	if n == 0 {
		return
	}

	copy(dst, pos)

	x := blas32.Vector{N: n, Inc: 1, Data: components.Flatten(vel)}
	y := blas32.Vector{N: n, Inc: 1, Data: components.Flatten(dst)}
	blas32.Axpy(dt, x, y)
}
