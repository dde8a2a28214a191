package telemetry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
)

func TestCollectorWindowing(t *testing.T) {
	c := NewCollector(0.1, 0.01)

	if c.ShouldFlush(9) {
		t.Error("window of 10 ticks should not flush at tick 9")
	}
	if !c.ShouldFlush(10) {
		t.Error("window of 10 ticks should flush at tick 10")
	}

	c.RecordEmitted(3)
	c.RecordEmitted(2)
	c.RecordDrained(4)
	c.RecordGrid(components.EmptyGrid())
	c.RecordGrid(components.Grid{Min: mgl32.Vec3{float32(math.NaN()), 0, 0}, CellSize: 1})
	c.RecordGrid(components.Grid{Max: mgl32.Vec3{1, 1, 1}, CellSize: 1})
	c.RecordBinningSkipped()

	grid := components.Grid{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{4, 2, 1}, CellSize: 1}
	stats := c.Flush(10, Sample{
		Particles:        2,
		KernelRadius:     1,
		Grid:             grid,
		OccupiedCells:    2,
		MaxCellOccupancy: 1,
		Velocities:       []mgl32.Vec3{{3, 4, 0}, {0, 0, 1}},
	})

	if stats.Emitted != 5 || stats.Drained != 4 {
		t.Errorf("emitted/drained = %d/%d, want 5/4", stats.Emitted, stats.Drained)
	}
	if stats.EmptyTicks != 1 || stats.NonFiniteTicks != 1 || stats.BinningSkipped != 1 {
		t.Errorf("tick classification = empty %d, non-finite %d, skipped %d, want 1/1/1",
			stats.EmptyTicks, stats.NonFiniteTicks, stats.BinningSkipped)
	}
	if stats.CellsX != 4 || stats.CellsY != 2 || stats.CellsZ != 1 {
		t.Errorf("cells = %d,%d,%d, want 4,2,1", stats.CellsX, stats.CellsY, stats.CellsZ)
	}
	if math.Abs(stats.SimTimeSec-0.1) > 1e-6 {
		t.Errorf("sim time = %v, want 0.1", stats.SimTimeSec)
	}
	if math.Abs(stats.SpeedMean-3.0) > 1e-6 {
		t.Errorf("speed mean = %v, want 3", stats.SpeedMean)
	}
	if stats.SpeedMax != 5 {
		t.Errorf("speed max = %v, want 5", stats.SpeedMax)
	}

	// Counters reset after flush
	next := c.Flush(20, Sample{})
	if next.Emitted != 0 || next.Drained != 0 || next.EmptyTicks != 0 {
		t.Errorf("expected counters reset, got %+v", next)
	}
	if next.WindowStartTick != 10 {
		t.Errorf("window start = %d, want 10", next.WindowStartTick)
	}
	if c.ShouldFlush(25) {
		t.Error("new window should not flush before 10 more ticks")
	}
}
