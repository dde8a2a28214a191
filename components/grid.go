package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Grid describes a uniform partition of space into cubic cells.
// For a grid produced by the solver, (Max-Min)/CellSize is integral on every
// axis, so the box tiles exactly into cells of side CellSize.
type Grid struct {
	// Minimum and maximum coordinates of grid.
	Min mgl32.Vec3
	Max mgl32.Vec3

	CellSize float32
}

// EmptyGrid is the grid returned for a tick with no particles.
func EmptyGrid() Grid {
	return Grid{}
}

// IsEmpty reports whether the grid has no usable cells.
func (g Grid) IsEmpty() bool {
	return g.CellSize <= 0
}

// IsFinite reports whether every bound and the cell size are finite numbers.
func (g Grid) IsFinite() bool {
	if !finite(g.CellSize) {
		return false
	}
	for a := 0; a < 3; a++ {
		if !finite(g.Min[a]) || !finite(g.Max[a]) {
			return false
		}
	}
	return true
}

// Extent returns Max-Min per axis.
func (g Grid) Extent() mgl32.Vec3 {
	return g.Max.Sub(g.Min)
}

// Dims returns the number of cells along each axis.
// An axis with zero extent still holds one cell. Empty or non-finite grids
// have zero cells.
func (g Grid) Dims() [3]int {
	var dims [3]int
	if g.IsEmpty() || !g.IsFinite() {
		return dims
	}
	for a := 0; a < 3; a++ {
		n := math.Round(float64(g.Max[a]-g.Min[a]) / float64(g.CellSize))
		switch {
		case n < 1:
			dims[a] = 1
		case n > math.MaxInt32:
			dims[a] = math.MaxInt32
		default:
			dims[a] = int(n)
		}
	}
	return dims
}

// NumCells returns the total cell count, saturating at math.MaxInt.
func (g Grid) NumCells() int {
	dims := g.Dims()
	total := float64(dims[0]) * float64(dims[1]) * float64(dims[2])
	if total >= math.MaxInt {
		return math.MaxInt
	}
	return int(total)
}

// Contains reports whether p lies inside [Min, Max] on every axis.
func (g Grid) Contains(p mgl32.Vec3) bool {
	for a := 0; a < 3; a++ {
		if p[a] < g.Min[a] || p[a] > g.Max[a] {
			return false
		}
	}
	return true
}

// CellCoord returns the cell containing p, clamped to the grid.
func (g Grid) CellCoord(p mgl32.Vec3) [3]int {
	dims := g.Dims()
	var c [3]int
	for a := 0; a < 3; a++ {
		if dims[a] == 0 {
			continue
		}
		i := int(math.Floor(float64((p[a] - g.Min[a]) / g.CellSize)))
		if i < 0 {
			i = 0
		} else if i >= dims[a] {
			i = dims[a] - 1
		}
		c[a] = i
	}
	return c
}

// CellIndex returns the flat index of the cell containing p (x varies fastest).
func (g Grid) CellIndex(p mgl32.Vec3) int {
	return g.FlatIndex(g.CellCoord(p))
}

// FlatIndex converts a cell coordinate into a flat index.
func (g Grid) FlatIndex(c [3]int) int {
	dims := g.Dims()
	return c[0] + dims[0]*(c[1]+dims[1]*c[2])
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
