package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/liquid/camera"
	"github.com/pthm-cable/liquid/components"
	"github.com/pthm-cable/liquid/systems"
)

// Grid colors
var (
	ColorGridBox  = rl.Color{R: 120, G: 220, B: 140, A: 220}
	ColorGridCell = rl.Color{R: 120, G: 220, B: 140, A: 60}
	ColorOccupied = rl.Color{R: 255, G: 120, B: 60, A: 255}
)

// MaxCellLines caps the lattice lines drawn per axis.
const MaxCellLines = 256

// GridRenderer draws the solver grid projected onto the x/y plane.
type GridRenderer struct {
	// per-column counts summed over z, reused between frames
	columns []int
}

// NewGridRenderer creates a new grid renderer.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{}
}

// DrawBox outlines the grid extent.
func (r *GridRenderer) DrawBox(cam *camera.Camera, g components.Grid) {
	if g.IsEmpty() || !g.IsFinite() {
		return
	}
	x0, y0 := cam.WorldToScreen(g.Min.X(), g.Max.Y())
	x1, y1 := cam.WorldToScreen(g.Max.X(), g.Min.Y())
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1.5, ColorGridBox)
}

// DrawCells draws the cell boundaries inside the grid. Lattices with more than
// MaxCellLines cells on an axis are skipped.
func (r *GridRenderer) DrawCells(cam *camera.Camera, g components.Grid) {
	dims := g.Dims()
	if !CellLinesDrawable(dims) {
		return
	}
	_, top := cam.WorldToScreen(0, g.Max.Y())
	_, bottom := cam.WorldToScreen(0, g.Min.Y())
	left, _ := cam.WorldToScreen(g.Min.X(), 0)
	right, _ := cam.WorldToScreen(g.Max.X(), 0)

	for i := 1; i < dims[0]; i++ {
		sx, _ := cam.WorldToScreen(g.Min.X()+float32(i)*g.CellSize, 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: top}, rl.Vector2{X: sx, Y: bottom}, ColorGridCell)
	}
	for j := 1; j < dims[1]; j++ {
		_, sy := cam.WorldToScreen(0, g.Min.Y()+float32(j)*g.CellSize)
		rl.DrawLineV(rl.Vector2{X: left, Y: sy}, rl.Vector2{X: right, Y: sy}, ColorGridCell)
	}
}

// CellLinesDrawable reports whether a lattice of dims is small enough to draw.
func CellLinesDrawable(dims [3]int) bool {
	return dims[0] > 0 && dims[1] > 0 && dims[0] <= MaxCellLines && dims[1] <= MaxCellLines
}

// DrawOccupancy shades each x/y column of cells by its particle count
// relative to the fullest column.
func (r *GridRenderer) DrawOccupancy(cam *camera.Camera, bins *systems.CellBins) {
	g := bins.Grid()
	dims := g.Dims()
	if bins.NumCells() == 0 || !CellLinesDrawable(dims) {
		return
	}

	var maxCount int
	r.columns, maxCount = ColumnCounts(bins, r.columns)
	if maxCount == 0 {
		return
	}

	scale := cam.Scale()
	size := g.CellSize * scale
	for j := 0; j < dims[1]; j++ {
		for i := 0; i < dims[0]; i++ {
			n := r.columns[i+dims[0]*j]
			if n == 0 {
				continue
			}
			// Top-left corner of cell (i, j) on screen
			sx, sy := cam.WorldToScreen(g.Min.X()+float32(i)*g.CellSize, g.Min.Y()+float32(j+1)*g.CellSize)
			c := ColorOccupied
			c.A = uint8(30 + 150*float32(n)/float32(maxCount))
			rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size, Y: size}, c)
		}
	}
}

// ColumnCounts sums the bins' cell populations over z into dst, indexed
// x + dimX*y, and returns it with the largest column count.
func ColumnCounts(bins *systems.CellBins, dst []int) ([]int, int) {
	dims := bins.Grid().Dims()
	n := dims[0] * dims[1]
	if cap(dst) < n {
		dst = make([]int, n)
	}
	dst = dst[:n]
	clear(dst)

	maxCount := 0
	for c := 0; c < bins.NumCells(); c++ {
		col := c % n
		dst[col] += len(bins.Cell(c))
		if dst[col] > maxCount {
			maxCount = dst[col]
		}
	}
	return dst, maxCount
}
