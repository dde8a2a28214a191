// Package sim hosts the fluid: it owns the particle buffers, the emitters and
// drains, and drives the solver one tick at a time.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/liquid/components"
	"github.com/pthm-cable/liquid/config"
	"github.com/pthm-cable/liquid/systems"
	"github.com/pthm-cable/liquid/telemetry"
)

// Stats windows of history the bookmark detector averages over.
const bookmarkHistory = 10

// Options configures a Simulation.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	SnapshotDir    string // "" = <OutputDir>/snapshots; snapshots are saved on bookmarks
	StepsPerUpdate int

	// Resume, if set, replaces the initial lattice with the snapshot's particles.
	Resume *telemetry.Snapshot

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Simulation is the host of a single particle fluid.
type Simulation struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	world      *ecs.World
	emitterMap *ecs.Map2[components.Emitter, components.Label]
	drainMap   *ecs.Map2[components.Drain, components.Label]
	emitters   *ecs.Filter2[components.Emitter, components.Label]
	drains     *ecs.Filter2[components.Drain, components.Label]

	particles *components.ParticleData
	solver    *systems.Solver
	bins      *systems.CellBins
	grid      components.Grid

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	outputManager *telemetry.OutputManager
	snapshotDir   string
	logStats      bool
	statsWindow   float64
	statsCallback func(telemetry.WindowStats)

	// State
	tick           int32
	paused         bool
	gravityScale   float32
	stepsPerUpdate int
	binningFailed  bool
}

// New creates a simulation with the initial particle block, emitters and drains
// from the configuration.
func New(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	snapshotDir := opts.SnapshotDir
	if snapshotDir == "" {
		snapshotDir = om.SnapshotDir()
	}

	s := &Simulation{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		solver:         systems.NewSolver(cfg.Derived.KernelScale32),
		bins:           systems.NewCellBins(cfg.Solver.MaxCells),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:      telemetry.NewBookmarkDetector(bookmarkHistory),
		outputManager:  om,
		snapshotDir:    snapshotDir,
		logStats:       opts.LogStats,
		statsWindow:    statsWindow,
		statsCallback:  opts.StatsCallback,
		gravityScale:   1,
		stepsPerUpdate: steps,
	}
	s.solver.SetPhaseRecorder(s.perf)
	s.Reset()
	if opts.Resume != nil {
		if err := s.Restore(opts.Resume); err != nil {
			om.Close()
			return nil, fmt.Errorf("resuming from snapshot: %w", err)
		}
	}

	slog.Info("simulation created",
		"particles", s.particles.NumParticles(),
		"size", s.particles.Size,
		"kernel_radius", s.cfg.Derived.KernelRadius,
		"emitters", len(cfg.Derived.Emitters),
		"drains", len(cfg.Derived.Drains),
		"output_dir", om.Dir(),
	)
	return s, nil
}

// Reset restores the initial particle block and emitter state and rewinds the tick counter.
func (s *Simulation) Reset() {
	s.particles = components.NewParticleData(0, s.cfg.Derived.Size32)
	SeedLattice(s.particles, s.cfg.Particles.Count, s.cfg.Derived.Spacing32, s.latticeOrigin())

	s.world = ecs.NewWorld()
	s.emitterMap = ecs.NewMap2[components.Emitter, components.Label](s.world)
	s.drainMap = ecs.NewMap2[components.Drain, components.Label](s.world)
	s.emitters = ecs.NewFilter2[components.Emitter, components.Label](s.world)
	s.drains = ecs.NewFilter2[components.Drain, components.Label](s.world)

	for _, e := range s.cfg.Derived.Emitters {
		s.AddEmitter(e.Name, components.Emitter{
			Origin:   e.Origin,
			Velocity: e.Velocity,
			Jitter:   e.Jitter,
			Rate:     e.Rate,
		})
	}
	for _, d := range s.cfg.Derived.Drains {
		s.AddDrain(d.Name, components.Drain{Min: d.Min, Max: d.Max})
	}

	s.bins.Clear()
	s.grid = components.EmptyGrid()
	s.collector = telemetry.NewCollector(s.statsWindow, s.cfg.Derived.DT32)
	s.bookmarks.Reset()
	s.tick = 0
	s.binningFailed = false
}

// latticeOrigin returns the configured lattice origin, or nil for the centred default.
func (s *Simulation) latticeOrigin() *mgl32.Vec2 {
	o := s.cfg.Particles.Origin
	if len(o) < 2 {
		return nil
	}
	return &mgl32.Vec2{float32(o[0]), float32(o[1])}
}

// AddEmitter adds a particle source.
func (s *Simulation) AddEmitter(name string, e components.Emitter) ecs.Entity {
	return s.emitterMap.NewEntity(&e, &components.Label{Name: name})
}

// AddDrain adds a box that removes particles.
func (s *Simulation) AddDrain(name string, d components.Drain) ecs.Entity {
	return s.drainMap.NewEntity(&d, &components.Label{Name: name})
}

// EachEmitter calls fn for every emitter.
func (s *Simulation) EachEmitter(fn func(name string, e *components.Emitter)) {
	query := s.emitters.Query()
	for query.Next() {
		e, label := query.Get()
		fn(label.Name, e)
	}
}

// EachDrain calls fn for every drain.
func (s *Simulation) EachDrain(fn func(name string, d *components.Drain)) {
	query := s.drains.Query()
	for query.Next() {
		d, label := query.Get()
		fn(label.Name, d)
	}
}

// RemoveSource deletes an emitter or drain entity.
func (s *Simulation) RemoveSource(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	s.world.RemoveEntity(e)
}

// Close flushes and closes output files.
func (s *Simulation) Close() error {
	slog.Info("simulation closed", "tick", s.tick, "particles", s.particles.NumParticles())
	return s.outputManager.Close()
}

// Particles returns the authoritative particle buffers.
func (s *Simulation) Particles() *components.ParticleData {
	return s.particles
}

// Predicted returns the predicted positions of the last tick.
func (s *Simulation) Predicted() []mgl32.Vec3 {
	return s.solver.Predicted()
}

// Grid returns the grid produced by the last tick.
func (s *Simulation) Grid() components.Grid {
	return s.grid
}

// Bins returns the cell bins of the last tick.
func (s *Simulation) Bins() *systems.CellBins {
	return s.bins
}

// Solver returns the solver driving the simulation.
func (s *Simulation) Solver() *systems.Solver {
	return s.solver
}

// Perf returns the performance collector.
func (s *Simulation) Perf() *telemetry.PerfCollector {
	return s.perf
}

// Config returns the configuration the simulation was built from.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Tick returns the number of completed ticks since the last reset.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Paused reports whether Update is suspended.
func (s *Simulation) Paused() bool {
	return s.paused
}

// SetPaused suspends or resumes Update.
func (s *Simulation) SetPaused(p bool) {
	s.paused = p
}

// TogglePaused flips the paused state.
func (s *Simulation) TogglePaused() {
	s.paused = !s.paused
}

// GravityScale returns the multiplier applied to configured gravity.
func (s *Simulation) GravityScale() float32 {
	return s.gravityScale
}

// SetGravityScale sets the multiplier applied to configured gravity.
func (s *Simulation) SetGravityScale(k float32) {
	s.gravityScale = k
}

// Force returns the acceleration applied on the next tick.
func (s *Simulation) Force() mgl32.Vec3 {
	return s.cfg.Derived.Gravity.Mul(s.gravityScale)
}
