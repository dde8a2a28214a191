package sim

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/telemetry"
)

// Update advances the simulation by the configured number of steps, unless paused.
func (s *Simulation) Update() error {
	s.perf.RecordFrame()
	if s.paused {
		return nil
	}
	return s.UpdateHeadless()
}

// UpdateHeadless advances the simulation by the configured number of steps,
// ignoring the paused flag.
func (s *Simulation) UpdateHeadless() error {
	for i := 0; i < s.stepsPerUpdate; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs a single tick: emit, drain, solve, bin, commit.
func (s *Simulation) Step() error {
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseEmit)
	s.emit()

	s.perf.StartPhase(telemetry.PhaseDrain)
	s.drain()

	dt := s.cfg.Derived.DT32
	grid, err := s.solver.Step(s.particles, dt, s.Force())
	if err != nil {
		s.perf.EndTick(s.particles.NumParticles())
		return fmt.Errorf("tick %d: %w", s.tick, err)
	}
	s.grid = grid
	s.collector.RecordGrid(grid)

	s.perf.StartPhase(telemetry.PhaseBinning)
	s.rebuildBins()

	if err := s.solver.Commit(s.particles, dt); err != nil {
		s.perf.EndTick(s.particles.NumParticles())
		return fmt.Errorf("tick %d: %w", s.tick, err)
	}

	s.tick++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perf.EndTick(s.particles.NumParticles())
	return nil
}

// rebuildBins bins the predicted positions, leaving the bins empty when the
// grid cannot be indexed. A warning is logged once per run of failures.
func (s *Simulation) rebuildBins() {
	err := s.bins.Rebuild(s.grid, s.solver.Predicted())
	if err == nil {
		s.binningFailed = false
		return
	}

	s.collector.RecordBinningSkipped()
	if !s.binningFailed {
		slog.Warn("binning skipped",
			"tick", s.tick,
			"error", err,
			"grid_min", s.grid.Min,
			"grid_max", s.grid.Max,
			"cell_size", s.grid.CellSize,
		)
	}
	s.binningFailed = true
}

// emit spawns particles from every emitter, carrying fractional counts
// between ticks.
func (s *Simulation) emit() {
	dt := s.cfg.Derived.DT32
	maxCount := s.cfg.Particles.MaxCount

	emitted := 0
	query := s.emitters.Query()
	for query.Next() {
		e, _ := query.Get()

		e.Accum += e.Rate * dt
		n := int(e.Accum)
		e.Accum -= float32(n)

		for k := 0; k < n; k++ {
			if maxCount > 0 && s.particles.NumParticles() >= maxCount {
				// Drop the backlog so a full tank doesn't burst when drained
				e.Accum = 0
				break
			}
			pos := e.Origin.Add(mgl32.Vec3{
				(s.rng.Float32()*2 - 1) * e.Jitter,
				(s.rng.Float32()*2 - 1) * e.Jitter,
				0,
			})
			s.particles.Append(pos, e.Velocity)
			emitted++
		}
	}

	if emitted > 0 {
		s.collector.RecordEmitted(emitted)
	}
}

// drain swap-removes every particle inside a drain box.
func (s *Simulation) drain() {
	drained := 0
	query := s.drains.Query()
	for query.Next() {
		d, _ := query.Get()

		// Walk backwards so swap-removal never skips an index
		for i := s.particles.NumParticles() - 1; i >= 0; i-- {
			if d.Contains(s.particles.Position[i]) {
				s.particles.SwapRemove(i)
				drained++
			}
		}
	}

	if drained > 0 {
		s.collector.RecordDrained(drained)
	}
}
