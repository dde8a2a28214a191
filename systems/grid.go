package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
)

// BuildGrid pads [min, max] symmetrically so that every axis spans a whole
// number of cells of side cellSize. The original box stays centred inside the
// padded one. NaN bounds pass through unchanged. An axis whose span in
// cells is infinite, from an infinite bound or overflow, becomes NaN on
// both sides: the grid is reported non-finite rather than infinite.
func BuildGrid(min, max mgl32.Vec3, cellSize float32) (components.Grid, error) {
	if !(cellSize > 0) {
		return components.Grid{}, ErrNonPositiveCellSize
	}
	for a := 0; a < 3; a++ {
		if min[a] > max[a] {
			return components.Grid{}, ErrInvertedBounds
		}
	}

	grid := components.Grid{Min: min, Max: max, CellSize: cellSize}
	for a := 0; a < 3; a++ {
		grid.Min[a], grid.Max[a] = expandToMultiple(min[a], max[a], cellSize)
	}
	return grid, nil
}

// expandToMultiple grows [lo, hi] to the next integer multiple of cellSize.
func expandToMultiple(lo, hi, cellSize float32) (float32, float32) {
	span := (hi - lo) / cellSize
	margin := (float32(math.Ceil(float64(span))) - span) / 2
	return lo - margin*cellSize, hi + margin*cellSize
}
