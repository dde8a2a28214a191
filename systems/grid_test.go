package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBounds(t *testing.T) {
	min, max := ComputeBounds([]mgl32.Vec3{
		{1, -2, 3},
		{-4, 5, 0},
		{2, 0, -6},
	})

	assert.Equal(t, mgl32.Vec3{-4, -2, -6}, min)
	assert.Equal(t, mgl32.Vec3{2, 5, 3}, max)
	assert.False(t, IsEmptyBounds(min, max))
}

func TestComputeBoundsEmpty(t *testing.T) {
	min, max := ComputeBounds(nil)

	for a := 0; a < 3; a++ {
		assert.True(t, math.IsInf(float64(min[a]), 1), "min[%d] = %v", a, min[a])
		assert.True(t, math.IsInf(float64(max[a]), -1), "max[%d] = %v", a, max[a])
	}
	assert.True(t, IsEmptyBounds(min, max))
}

func TestComputeBoundsNaN(t *testing.T) {
	nan := float32(math.NaN())
	min, max := ComputeBounds([]mgl32.Vec3{
		{1, 1, 1},
		{2, nan, 2},
		{3, 3, 3},
	})

	assert.Equal(t, float32(1), min[0])
	assert.Equal(t, float32(3), max[2])
	assert.True(t, math.IsNaN(float64(min[1])))
	assert.True(t, math.IsNaN(float64(max[1])))
}

func TestBuildGridPadsEveryAxis(t *testing.T) {
	grid, err := BuildGrid(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{3, 7, 8}, 5)
	require.NoError(t, err)

	// spans 0.6, 1.4, 1.6 -> 1, 2, 2 cells
	assert.InDelta(t, -1.0, grid.Min[0], 1e-5)
	assert.InDelta(t, 4.0, grid.Max[0], 1e-5)
	assert.InDelta(t, -1.5, grid.Min[1], 1e-5)
	assert.InDelta(t, 8.5, grid.Max[1], 1e-5)
	assert.InDelta(t, -1.0, grid.Min[2], 1e-5)
	assert.InDelta(t, 9.0, grid.Max[2], 1e-5)
	assert.Equal(t, [3]int{1, 2, 2}, grid.Dims())
}

func TestBuildGridIntegralSpanUnchanged(t *testing.T) {
	min := mgl32.Vec3{-5, 0, 10}
	max := mgl32.Vec3{5, 5, 30}

	grid, err := BuildGrid(min, max, 5)
	require.NoError(t, err)

	assert.Equal(t, min, grid.Min)
	assert.Equal(t, max, grid.Max)
}

func TestBuildGridIsPure(t *testing.T) {
	min := mgl32.Vec3{-1.3, 0.77, 2.01}
	max := mgl32.Vec3{4.2, 9.1, 2.02}

	a, err := BuildGrid(min, max, 0.35)
	require.NoError(t, err)
	b, err := BuildGrid(min, max, 0.35)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, math.Float32bits(a.Min[i]), math.Float32bits(b.Min[i]))
		assert.Equal(t, math.Float32bits(a.Max[i]), math.Float32bits(b.Max[i]))
	}
	assert.Equal(t, a.CellSize, b.CellSize)
}

func TestBuildGridTilingAndContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 500; trial++ {
		positions := make([]mgl32.Vec3, 1+rng.Intn(40))
		for i := range positions {
			for a := 0; a < 3; a++ {
				positions[i][a] = (rng.Float32() - 0.5) * 50
			}
		}
		cellSize := 0.05 + rng.Float32()*4

		min, max := ComputeBounds(positions)
		grid, err := BuildGrid(min, max, cellSize)
		require.NoError(t, err)

		ext := grid.Extent()
		for a := 0; a < 3; a++ {
			cells := float64(ext[a]) / float64(cellSize)
			assert.InDelta(t, math.Round(cells), cells, 1e-3,
				"trial %d axis %d: extent %v not a multiple of %v", trial, a, ext[a], cellSize)

			// Centred: equal padding on both sides
			padLo := min[a] - grid.Min[a]
			padHi := grid.Max[a] - max[a]
			assert.InDelta(t, padLo, padHi, 1e-3, "trial %d axis %d", trial, a)
		}

		for i, p := range positions {
			assert.True(t, grid.Contains(p), "trial %d: position %d %v outside %v..%v", trial, i, p, grid.Min, grid.Max)
		}
	}
}

func TestBuildGridPreconditions(t *testing.T) {
	_, err := BuildGrid(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 0)
	assert.True(t, errors.Is(err, ErrNonPositiveCellSize))

	_, err = BuildGrid(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, float32(math.NaN()))
	assert.True(t, errors.Is(err, ErrNonPositiveCellSize))

	min, max := EmptyBounds()
	_, err = BuildGrid(min, max, 1)
	assert.True(t, errors.Is(err, ErrInvertedBounds))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestBuildGridNaNPassesThrough(t *testing.T) {
	nan := float32(math.NaN())
	grid, err := BuildGrid(mgl32.Vec3{nan, 0, 0}, mgl32.Vec3{nan, 1, 1}, 1)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(float64(grid.Min[0])))
	assert.Equal(t, float32(1), grid.Max[1])
}

func TestBuildGridInfiniteSpanBecomesNaN(t *testing.T) {
	inf := float32(math.Inf(1))

	tests := []struct {
		name     string
		min, max mgl32.Vec3
	}{
		{"infinite max", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{inf, 1, 1}},
		{"infinite min", mgl32.Vec3{-inf, 0, 0}, mgl32.Vec3{0, 1, 1}},
		{"both infinite", mgl32.Vec3{-inf, 0, 0}, mgl32.Vec3{inf, 1, 1}},
		{"overflowing span", mgl32.Vec3{-3e38, 0, 0}, mgl32.Vec3{3e38, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := BuildGrid(tt.min, tt.max, 1)
			require.NoError(t, err)

			assert.True(t, math.IsNaN(float64(grid.Min[0])), "min x = %v", grid.Min[0])
			assert.True(t, math.IsNaN(float64(grid.Max[0])), "max x = %v", grid.Max[0])
			assert.Equal(t, float32(1), grid.Max[1], "finite axis is unaffected")
			assert.False(t, grid.IsFinite())
		})
	}
}
