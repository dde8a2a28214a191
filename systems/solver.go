// Package systems implements the per-tick position-based fluid step:
// integration, bounds reduction, grid construction and cell binning.
package systems

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
	"github.com/pthm-cable/liquid/telemetry"
)

// DefaultKernelScale is the kernel support radius as a multiple of particle radius.
const DefaultKernelScale = 5.0

// PhaseRecorder receives phase boundaries during a step.
// *telemetry.PerfCollector satisfies it.
type PhaseRecorder interface {
	StartPhase(phase string)
}

// Solver owns the scratch state of the fluid step. A Solver is not safe for
// concurrent use; give each simulation thread its own.
type Solver struct {
	kernelScale  float32
	kernelRadius float32

	// Predicted positions, reused between ticks. Fully overwritten each step.
	predicted []mgl32.Vec3

	// Positions seen by the last successful Step, pending its Commit.
	stepped bool
	origin  []mgl32.Vec3

	phases PhaseRecorder
}

// NewSolver creates a solver. A non-positive kernelScale selects DefaultKernelScale.
func NewSolver(kernelScale float32) *Solver {
	if !(kernelScale > 0) {
		kernelScale = DefaultKernelScale
	}
	return &Solver{kernelScale: kernelScale}
}

// SetPhaseRecorder installs r to receive phase timings. nil disables recording.
func (s *Solver) SetPhaseRecorder(r PhaseRecorder) {
	s.phases = r
}

// KernelScale returns the kernel radius multiplier.
func (s *Solver) KernelScale() float32 {
	return s.kernelScale
}

// KernelRadius returns h as computed by the last Step.
func (s *Solver) KernelRadius() float32 {
	return s.kernelRadius
}

// Predicted returns the predicted positions of the last Step.
// The slice is reused by the next Step.
func (s *Solver) Predicted() []mgl32.Vec3 {
	return s.predicted
}

// Resync sizes the predicted-position buffer to n. Slots added by growing
// hold the zero vector.
func (s *Solver) Resync(n int) []mgl32.Vec3 {
	old := len(s.predicted)
	s.predicted = components.ResizeVec3(s.predicted, n)
	if old != n {
		slog.Debug("predicted buffer resized", "from", old, "to", n)
	}
	return s.predicted
}

// Step advances p by dt under the external acceleration force and returns
// the grid that partitions the predicted positions.
//
// Velocities in p are updated in place; positions are left untouched until
// Commit. With no particles, Step returns components.EmptyGrid(). All
// arguments are checked before anything is mutated.
func (s *Solver) Step(p *components.ParticleData, dt float32, force mgl32.Vec3) (components.Grid, error) {
	s.stepped = false
	if err := checkStep(p, dt); err != nil {
		return components.Grid{}, err
	}
	n := p.NumParticles()

	s.startPhase(telemetry.PhaseResync)
	s.Resync(n)
	s.origin = components.ResizeVec3(s.origin, n)
	copy(s.origin, p.Position)
	s.stepped = true

	s.kernelRadius = s.kernelScale * p.Size

	if n == 0 {
		return components.EmptyGrid(), nil
	}

	s.startPhase(telemetry.PhaseIntegrate)
	Integrate(p, dt, force, s.predicted)

	s.startPhase(telemetry.PhaseBounds)
	min, max := ComputeBounds(s.predicted)

	s.startPhase(telemetry.PhaseGrid)
	return BuildGrid(min, max, s.kernelRadius)
}

// MustStep is like Step but panics on a precondition failure.
func (s *Solver) MustStep(p *components.ParticleData, dt float32, force mgl32.Vec3) components.Grid {
	grid, err := s.Step(p, dt, force)
	if err != nil {
		panic(fmt.Sprintf("systems: step: %v", err))
	}
	return grid
}

// Commit moves p onto the predicted positions of the last Step and derives
// velocity from the displacement.
//
// Each successful Step allows exactly one Commit, over the same particles
// at the same positions. A failed Step, a second Commit, or particles added,
// removed or moved in between are rejected and p is left untouched.
func (s *Solver) Commit(p *components.ParticleData, dt float32) error {
	if err := checkStep(p, dt); err != nil {
		return err
	}
	if !s.stepped {
		return ErrNoPendingStep
	}
	if len(s.predicted) != p.NumParticles() {
		s.stepped = false
		return fmt.Errorf("%w: %d predicted positions for %d particles",
			ErrLengthMismatch, len(s.predicted), p.NumParticles())
	}
	if i := firstMoved(s.origin, p.Position); i >= 0 {
		s.stepped = false
		return fmt.Errorf("%w: particle %d", ErrStaleStep, i)
	}

	s.startPhase(telemetry.PhaseCommit)
	CommitPositions(p, s.predicted, dt)
	s.stepped = false
	return nil
}

// firstMoved returns the first index whose position differs bitwise from
// the recorded one, or -1. NaN positions compare equal to themselves.
func firstMoved(recorded, current []mgl32.Vec3) int {
	for i := range recorded {
		for a := 0; a < 3; a++ {
			if math.Float32bits(recorded[i][a]) != math.Float32bits(current[i][a]) {
				return i
			}
		}
	}
	return -1
}

// CommitPositions applies the end-of-step update for every particle:
//
//	v = (x* - x) / dt
//	x_prev = x
//	x = x*
func CommitPositions(p *components.ParticleData, predicted []mgl32.Vec3, dt float32) {
	invDT := 1 / dt
	for i, next := range predicted {
		cur := p.Position[i]
		p.Velocity[i] = next.Sub(cur).Mul(invDT)
		p.PositionPrev[i] = cur
		p.Position[i] = next
	}
}

func (s *Solver) startPhase(phase string) {
	if s.phases != nil {
		s.phases.StartPhase(phase)
	}
}

func checkStep(p *components.ParticleData, dt float32) error {
	if p == nil {
		return ErrNilParticles
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrLengthMismatch, err)
	}
	if !(dt > 0) || math.IsInf(float64(dt), 1) {
		return ErrNonPositiveDT
	}
	if p.NumParticles() > 0 && !(p.Size > 0) {
		return ErrNonPositiveSize
	}
	return nil
}
