package components

import "github.com/go-gl/mathgl/mgl32"

// Emitter spawns particles at a fixed rate.
type Emitter struct {
	Origin   mgl32.Vec3 // spawn point
	Velocity mgl32.Vec3 // initial velocity of spawned particles
	Jitter   float32    // half-width of the random x/y offset around Origin
	Rate     float32    // particles per second

	// Fractional particles carried between ticks
	Accum float32
}

// Drain removes every particle whose position enters its box.
type Drain struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Contains reports whether p lies inside the drain box. NaN coordinates are outside.
func (d Drain) Contains(p mgl32.Vec3) bool {
	for a := 0; a < 3; a++ {
		if !(p[a] >= d.Min[a] && p[a] <= d.Max[a]) {
			return false
		}
	}
	return true
}

// Label names an emitter or drain for logging.
type Label struct {
	Name string
}
