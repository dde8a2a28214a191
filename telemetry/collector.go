package telemetry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	emitted        int
	drained        int
	emptyTicks     int
	nonFiniteTicks int
	binningSkipped int

	speeds []float64
}

// NewCollector creates a stats collector.
// windowDurationSec is the window length in simulation seconds, dt the tick length.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = max(int32(windowDurationSec/float64(dt)), 1)
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// StartAt begins the first window at tick, for runs resumed mid-way.
func (c *Collector) StartAt(tick int32) {
	c.windowStartTick = tick
}

// RecordEmitted records particles added by emitters.
func (c *Collector) RecordEmitted(n int) {
	c.emitted += n
}

// RecordDrained records particles removed by drains.
func (c *Collector) RecordDrained(n int) {
	c.drained += n
}

// RecordGrid classifies the grid produced by a tick.
func (c *Collector) RecordGrid(g components.Grid) {
	switch {
	case g.IsEmpty():
		c.emptyTicks++
	case !g.IsFinite():
		c.nonFiniteTicks++
	}
}

// RecordBinningSkipped records a tick whose grid could not be binned.
func (c *Collector) RecordBinningSkipped() {
	c.binningSkipped++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the end-of-window state passed to Flush.
type Sample struct {
	Particles        int
	KernelRadius     float32
	Grid             components.Grid
	OccupiedCells    int
	MaxCellOccupancy int
	Velocities       []mgl32.Vec3
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	c.speeds = c.speeds[:0]
	for _, v := range s.Velocities {
		c.speeds = append(c.speeds, float64(v.Len()))
	}
	speed := ComputeSpeedStats(c.speeds)

	dims := s.Grid.Dims()
	ext := s.Grid.Extent()

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Particles: s.Particles,
		Emitted:   c.emitted,
		Drained:   c.drained,

		EmptyTicks:     c.emptyTicks,
		NonFiniteTicks: c.nonFiniteTicks,
		BinningSkipped: c.binningSkipped,

		KernelRadius: float64(s.KernelRadius),
		CellsX:       dims[0],
		CellsY:       dims[1],
		CellsZ:       dims[2],
		ExtentX:      float64(ext[0]),
		ExtentY:      float64(ext[1]),
		ExtentZ:      float64(ext[2]),

		OccupiedCells:    s.OccupiedCells,
		MaxCellOccupancy: s.MaxCellOccupancy,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedMax:  speed.Max,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,
	}

	c.windowStartTick = currentTick
	c.emitted = 0
	c.drained = 0
	c.emptyTicks = 0
	c.nonFiniteTicks = 0
	c.binningSkipped = 0

	return stats
}
