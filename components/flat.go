package components

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Flatten returns a zero-copy float32 view of v (x0, y0, z0, x1, ...).
// Writes through the view are visible in v.
func Flatten(v []mgl32.Vec3) []float32 {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice(&v[0][0], 3*len(v))
}
