package sim

import (
	"log/slog"

	"github.com/pthm-cable/liquid/telemetry"
)

// flushTelemetry flushes the stats window when it is due and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	occupied, maxOccupancy := s.bins.Occupancy()
	stats := s.collector.Flush(s.tick, telemetry.Sample{
		Particles:        s.particles.NumParticles(),
		KernelRadius:     s.solver.KernelRadius(),
		Grid:             s.grid,
		OccupiedCells:    occupied,
		MaxCellOccupancy: maxOccupancy,
		Velocities:       s.particles.Velocity,
	})
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		bm.LogBookmark()
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		s.saveSnapshot(&bm)
	}
}
