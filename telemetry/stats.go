package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Particle counts
	Particles int `csv:"particles"`
	Emitted   int `csv:"emitted"`
	Drained   int `csv:"drained"`

	// Ticks in the window that produced an empty or non-finite grid
	EmptyTicks     int `csv:"empty_ticks"`
	NonFiniteTicks int `csv:"non_finite_ticks"`
	BinningSkipped int `csv:"binning_skipped"`

	// Grid at window end
	KernelRadius float64 `csv:"kernel_radius"`
	CellsX       int     `csv:"cells_x"`
	CellsY       int     `csv:"cells_y"`
	CellsZ       int     `csv:"cells_z"`
	ExtentX      float64 `csv:"extent_x"`
	ExtentY      float64 `csv:"extent_y"`
	ExtentZ      float64 `csv:"extent_z"`

	// Cell occupancy at window end
	OccupiedCells    int `csv:"occupied_cells"`
	MaxCellOccupancy int `csv:"max_cell_occupancy"`

	// Speed distribution at window end
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedMax  float64 `csv:"speed_max"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SpeedStats summarises a set of particle speeds.
type SpeedStats struct {
	Mean, Std, Max float64
	P10, P50, P90  float64
}

// ComputeSpeedStats returns population mean/std, max and percentiles of values.
// values is not modified.
func ComputeSpeedStats(values []float64) SpeedStats {
	if len(values) == 0 {
		return SpeedStats{}
	}

	var s SpeedStats
	s.Mean, s.Std = stat.PopMeanStdDev(values, nil)
	s.Max = floats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P10 = Percentile(sorted, 0.10)
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("emitted", s.Emitted),
		slog.Int("drained", s.Drained),
		slog.Int("empty_ticks", s.EmptyTicks),
		slog.Int("non_finite_ticks", s.NonFiniteTicks),
		slog.Int("binning_skipped", s.BinningSkipped),
		slog.Float64("kernel_radius", s.KernelRadius),
		slog.Int("cells_x", s.CellsX),
		slog.Int("cells_y", s.CellsY),
		slog.Int("cells_z", s.CellsZ),
		slog.Float64("extent_x", s.ExtentX),
		slog.Float64("extent_y", s.ExtentY),
		slog.Float64("extent_z", s.ExtentZ),
		slog.Int("occupied_cells", s.OccupiedCells),
		slog.Int("max_cell_occupancy", s.MaxCellOccupancy),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"emitted", s.Emitted,
		"drained", s.Drained,
		"kernel_radius", s.KernelRadius,
		"cells", []int{s.CellsX, s.CellsY, s.CellsZ},
		"occupied_cells", s.OccupiedCells,
		"max_cell_occupancy", s.MaxCellOccupancy,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
	)
}
