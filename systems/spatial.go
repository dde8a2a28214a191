package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
)

// Neighbor holds a nearby particle with its squared distance to the query point.
type Neighbor struct {
	Index  int32
	DistSq float32
}

// MaxQueryResults caps the number of neighbors returned by a single query.
const MaxQueryResults = 256

// DefaultMaxCells bounds the cell array CellBins is willing to allocate.
const DefaultMaxCells = 1 << 22

// CellBins sorts particle indices into the cells of a Grid.
// Buffers are reused across Rebuild calls.
type CellBins struct {
	maxCells int

	grid    components.Grid
	dims    [3]int
	invCell float32

	cellStart []int32 // cellStart[c]..cellStart[c+1] indexes entries for cell c
	entries   []int32 // particle indices grouped by cell
	cellOf    []int32 // cell of each particle
	cursor    []int32 // scratch write offsets
}

// NewCellBins creates empty bins. A non-positive maxCells selects DefaultMaxCells.
func NewCellBins(maxCells int) *CellBins {
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	return &CellBins{maxCells: maxCells}
}

// Clear drops all binned particles.
func (b *CellBins) Clear() {
	b.grid = components.EmptyGrid()
	b.dims = [3]int{}
	b.invCell = 0
	b.cellStart = b.cellStart[:0]
	b.entries = b.entries[:0]
	b.cellOf = b.cellOf[:0]
}

// Rebuild bins positions into the cells of grid with a counting sort.
// An empty grid clears the bins. Positions outside the grid are clamped into
// the nearest edge cell.
func (b *CellBins) Rebuild(grid components.Grid, positions []mgl32.Vec3) error {
	b.Clear()
	if grid.IsEmpty() {
		return nil
	}
	if !grid.IsFinite() {
		return ErrNonFiniteGrid
	}
	numCells := grid.NumCells()
	if numCells > b.maxCells {
		return ErrTooManyCells
	}

	b.grid = grid
	b.dims = grid.Dims()
	b.invCell = 1 / grid.CellSize

	b.cellStart = resizeInt32(b.cellStart, numCells+1)
	clear(b.cellStart)
	b.cellOf = resizeInt32(b.cellOf, len(positions))
	b.entries = resizeInt32(b.entries, len(positions))

	for i, p := range positions {
		c := int32(b.flatIndex(b.cellCoord(p)))
		b.cellOf[i] = c
		b.cellStart[c+1]++
	}
	for c := 1; c <= numCells; c++ {
		b.cellStart[c] += b.cellStart[c-1]
	}

	b.cursor = resizeInt32(b.cursor, numCells)
	copy(b.cursor, b.cellStart[:numCells])
	for i, c := range b.cellOf {
		b.entries[b.cursor[c]] = int32(i)
		b.cursor[c]++
	}
	return nil
}

// Grid returns the grid of the last successful Rebuild.
func (b *CellBins) Grid() components.Grid {
	return b.grid
}

// NumCells returns the number of cells currently indexed.
func (b *CellBins) NumCells() int {
	if len(b.cellStart) == 0 {
		return 0
	}
	return len(b.cellStart) - 1
}

// Cell returns the particle indices in cell c. The slice aliases internal storage.
func (b *CellBins) Cell(c int) []int32 {
	if c < 0 || c >= b.NumCells() {
		return nil
	}
	return b.entries[b.cellStart[c]:b.cellStart[c+1]]
}

// CellOf returns the cell index assigned to particle i.
func (b *CellBins) CellOf(i int) int {
	return int(b.cellOf[i])
}

// Occupancy returns the number of non-empty cells and the largest cell population.
func (b *CellBins) Occupancy() (occupied, maxCount int) {
	for c := 0; c < b.NumCells(); c++ {
		n := int(b.cellStart[c+1] - b.cellStart[c])
		if n > 0 {
			occupied++
		}
		if n > maxCount {
			maxCount = n
		}
	}
	return occupied, maxCount
}

// QueryRadiusInto appends particles within radius of p to dst, skipping
// exclude (use -1 to keep all). positions must be the slice passed to the
// last Rebuild.
//
// At most MaxQueryResults neighbours are appended, counted from len(dst) on
// entry. truncated reports that the cap was hit and further neighbours
// were not visited.
func (b *CellBins) QueryRadiusInto(dst []Neighbor, p mgl32.Vec3, radius float32, exclude int32, positions []mgl32.Vec3) (_ []Neighbor, truncated bool) {
	if b.NumCells() == 0 {
		return dst, false
	}
	limit := len(dst) + MaxQueryResults

	r := mgl32.Vec3{radius, radius, radius}
	lo := b.cellCoord(p.Sub(r))
	hi := b.cellCoord(p.Add(r))
	radiusSq := radius * radius

	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				c := b.flatIndex([3]int{x, y, z})
				for _, idx := range b.entries[b.cellStart[c]:b.cellStart[c+1]] {
					if idx == exclude {
						continue
					}
					d := positions[idx].Sub(p)
					distSq := d.Dot(d)
					if distSq <= radiusSq {
						dst = append(dst, Neighbor{Index: idx, DistSq: distSq})
						if len(dst) >= limit {
							return dst, true
						}
					}
				}
			}
		}
	}
	return dst, false
}

// cellCoord returns the clamped cell coordinate for a position.
func (b *CellBins) cellCoord(p mgl32.Vec3) [3]int {
	var c [3]int
	for a := 0; a < 3; a++ {
		f := (p[a] - b.grid.Min[a]) * b.invCell
		var i int
		switch {
		case f != f || f < 0:
			i = 0
		case f >= float32(b.dims[a]):
			i = b.dims[a] - 1
		default:
			i = int(f)
		}
		c[a] = i
	}
	return c
}

func (b *CellBins) flatIndex(c [3]int) int {
	return c[0] + b.dims[0]*(c[1]+b.dims[1]*c[2])
}

func resizeInt32(s []int32, n int) []int32 {
	if n <= cap(s) {
		return s[:n]
	}
	return make([]int32, n, n+n/4)
}
