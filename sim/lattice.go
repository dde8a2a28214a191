package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
)

// LatticeOrigin returns the default lower-left corner of a block of count
// particles: centred on the origin, then shifted left by half a block and up
// by a third of one.
func LatticeOrigin(count int, spacing float32) mgl32.Vec2 {
	side := float32(latticeSide(count))
	centred := mgl32.Vec2{-side / 2, -side / 2}.Mul(spacing)
	return centred.Add(mgl32.Vec2{-side / 2, side / 3}.Mul(spacing))
}

// SeedLattice appends count resting particles on a square lattice in the z=0
// plane, filling rows of floor(sqrt(count)) particles from the bottom up.
// A nil origin selects LatticeOrigin.
func SeedLattice(p *components.ParticleData, count int, spacing float32, origin *mgl32.Vec2) {
	if count <= 0 {
		return
	}
	o := LatticeOrigin(count, spacing)
	if origin != nil {
		o = *origin
	}

	side := latticeSide(count)
	for k := 0; k < count; k++ {
		i, j := k%side, k/side
		pos := mgl32.Vec3{
			o[0] + float32(i)*spacing,
			o[1] + float32(j)*spacing,
			0,
		}
		p.Append(pos, mgl32.Vec3{})
	}
}

// latticeSide is the row length of a lattice of count particles.
func latticeSide(count int) int {
	side := int(math.Sqrt(float64(count)))
	if side < 1 {
		side = 1
	}
	return side
}
