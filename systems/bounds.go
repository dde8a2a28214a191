package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EmptyBounds returns the sentinel box for an empty position set:
// min = +Inf and max = -Inf on every axis.
func EmptyBounds() (min, max mgl32.Vec3) {
	inf := float32(math.Inf(1))
	return mgl32.Vec3{inf, inf, inf}, mgl32.Vec3{-inf, -inf, -inf}
}

// IsEmptyBounds reports whether (min, max) is the empty-set sentinel, i.e.
// min exceeds max on some axis.
func IsEmptyBounds(min, max mgl32.Vec3) bool {
	for a := 0; a < 3; a++ {
		if min[a] > max[a] {
			return true
		}
	}
	return false
}

// ComputeBounds returns the componentwise min and max over positions.
// An axis on which any position is NaN reports NaN for both min and max.
func ComputeBounds(positions []mgl32.Vec3) (min, max mgl32.Vec3) {
	min, max = EmptyBounds()

	var nan [3]bool
	for _, p := range positions {
		for a := 0; a < 3; a++ {
			v := p[a]
			if v != v {
				nan[a] = true
				continue
			}
			if v < min[a] {
				min[a] = v
			}
			if v > max[a] {
				max[a] = v
			}
		}
	}

	for a := 0; a < 3; a++ {
		if nan[a] {
			min[a] = float32(math.NaN())
			max[a] = float32(math.NaN())
		}
	}
	return min, max
}
