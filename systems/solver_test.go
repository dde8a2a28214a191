package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/liquid/components"
	"github.com/pthm-cable/liquid/telemetry"
)

func lattice(n int, size float32) *components.ParticleData {
	p := components.NewParticleData(0, size)
	side := int(math.Ceil(math.Sqrt(float64(n))))
	for i := 0; i < n; i++ {
		x := float32(i%side) * size
		y := float32(i/side) * size
		p.Append(mgl32.Vec3{x, y, 0.1 * float32(i%3)}, mgl32.Vec3{0.5, float32(i%5) - 2, 0.25})
	}
	return p
}

func TestIntegrateSemiImplicitEuler(t *testing.T) {
	p := lattice(37, 0.2)
	dt := float32(0.01)
	force := mgl32.Vec3{0.3, -9.81, 1.5}

	oldPos := append([]mgl32.Vec3(nil), p.Position...)
	oldVel := append([]mgl32.Vec3(nil), p.Velocity...)

	predicted := make([]mgl32.Vec3, p.NumParticles())
	Integrate(p, dt, force, predicted)

	for i := range predicted {
		for a := 0; a < 3; a++ {
			wantVel := oldVel[i][a] + dt*force[a]
			assert.InDelta(t, wantVel, p.Velocity[i][a], 1e-5, "velocity[%d][%d]", i, a)

			wantPos := oldPos[i][a] + dt*p.Velocity[i][a]
			assert.InDelta(t, wantPos, predicted[i][a], 1e-5, "predicted[%d][%d]", i, a)
		}
		assert.Equal(t, oldPos[i], p.Position[i], "position %d must not be overwritten", i)
	}
}

func TestSolverSingleParticleScenario(t *testing.T) {
	p := components.NewParticleData(1, 1.0)
	s := NewSolver(DefaultKernelScale)

	grid, err := s.Step(p, 1.0, mgl32.Vec3{0, -9.8, 0})
	require.NoError(t, err)

	assert.InDelta(t, -9.8, p.Velocity[0][1], 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, p.Position[0])

	pred := s.Predicted()
	require.Len(t, pred, 1)
	assert.InDelta(t, -9.8, pred[0][1], 1e-6)
	assert.InDelta(t, 5.0, s.KernelRadius(), 1e-6)

	// Zero span on every axis: ceil(0) - 0 = 0, so no padding is added.
	assert.Equal(t, float32(5.0), grid.CellSize)
	assert.Equal(t, pred[0], grid.Min)
	assert.Equal(t, pred[0], grid.Max)
	assert.True(t, grid.Contains(pred[0]))
	assert.Equal(t, [3]int{1, 1, 1}, grid.Dims())
}

func TestSolverEmptySet(t *testing.T) {
	p := components.NewParticleData(0, 0.2)
	s := NewSolver(DefaultKernelScale)

	grid, err := s.Step(p, 0.01, mgl32.Vec3{0, -9.81, 0})
	require.NoError(t, err)

	assert.Equal(t, components.EmptyGrid(), grid)
	assert.True(t, grid.IsEmpty())
	assert.Empty(t, s.Predicted())
}

func TestSolverResizeBetweenTicks(t *testing.T) {
	s := NewSolver(DefaultKernelScale)

	pred := s.Resync(10)
	require.Len(t, pred, 10)
	for i := range pred {
		pred[i] = mgl32.Vec3{7, 7, 7}
	}

	pred = s.Resync(25)
	require.Len(t, pred, 25)
	for i := 10; i < 25; i++ {
		assert.Equal(t, mgl32.Vec3{}, pred[i], "new slot %d", i)
	}

	pred = s.Resync(3)
	require.Len(t, pred, 3)

	// Full ticks across the same size changes
	force := mgl32.Vec3{0, -9.81, 0}
	for _, n := range []int{10, 25, 3} {
		p := lattice(n, 0.2)
		grid, err := s.Step(p, 0.01, force)
		require.NoError(t, err)
		require.Len(t, s.Predicted(), n)
		for i, q := range s.Predicted() {
			assert.True(t, grid.Contains(q), "n=%d particle %d at %v outside %v..%v", n, i, q, grid.Min, grid.Max)
		}
	}
}

func TestSolverPreconditions(t *testing.T) {
	s := NewSolver(DefaultKernelScale)
	force := mgl32.Vec3{0, -9.81, 0}

	tests := []struct {
		name string
		p    *components.ParticleData
		dt   float32
		want error
	}{
		{"nil particles", nil, 0.01, ErrNilParticles},
		{"zero dt", lattice(4, 0.2), 0, ErrNonPositiveDT},
		{"negative dt", lattice(4, 0.2), -0.01, ErrNonPositiveDT},
		{"nan dt", lattice(4, 0.2), float32(math.NaN()), ErrNonPositiveDT},
		{"zero size", lattice(4, 0), 0.01, ErrNonPositiveSize},
		{"length mismatch", &components.ParticleData{
			Position:     make([]mgl32.Vec3, 3),
			PositionPrev: make([]mgl32.Vec3, 3),
			Velocity:     make([]mgl32.Vec3, 2),
			Size:         0.2,
		}, 0.01, ErrLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before []mgl32.Vec3
			if tt.p != nil {
				before = append(before, tt.p.Velocity...)
			}

			_, err := s.Step(tt.p, tt.dt, force)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.True(t, errors.Is(err, ErrInvalidArgument))

			if tt.p != nil {
				assert.Equal(t, before, tt.p.Velocity, "rejected step must not mutate velocities")
			}
		})
	}
}

func TestSolverMustStepPanics(t *testing.T) {
	s := NewSolver(DefaultKernelScale)
	assert.Panics(t, func() {
		s.MustStep(nil, 0.01, mgl32.Vec3{})
	})
}

func TestSolverNaNPropagates(t *testing.T) {
	p := lattice(5, 0.2)
	p.Position[2][0] = float32(math.NaN())

	s := NewSolver(DefaultKernelScale)
	grid, err := s.Step(p, 0.01, mgl32.Vec3{0, -9.81, 0})
	require.NoError(t, err)

	assert.True(t, math.IsNaN(float64(grid.Min[0])))
	assert.True(t, math.IsNaN(float64(grid.Max[0])))
	assert.False(t, math.IsNaN(float64(grid.Min[1])), "unaffected axis stays finite")
	assert.False(t, grid.IsFinite())
}

func TestSolverInfinitePositionGivesNaNGrid(t *testing.T) {
	p := lattice(5, 0.2)
	p.Position[1][1] = float32(math.Inf(1))

	s := NewSolver(DefaultKernelScale)
	grid, err := s.Step(p, 0.01, mgl32.Vec3{0, -9.81, 0})
	require.NoError(t, err)

	assert.True(t, math.IsInf(float64(s.Predicted()[1][1]), 1))
	assert.True(t, math.IsNaN(float64(grid.Min[1])))
	assert.True(t, math.IsNaN(float64(grid.Max[1])))
	assert.False(t, math.IsNaN(float64(grid.Min[0])), "unaffected axis stays finite")
	assert.False(t, grid.IsFinite())

	bins := NewCellBins(0)
	assert.ErrorIs(t, bins.Rebuild(grid, s.Predicted()), ErrNonFiniteGrid)
}

func TestSolverCommit(t *testing.T) {
	p := lattice(9, 0.2)
	s := NewSolver(DefaultKernelScale)
	dt := float32(0.01)

	start := append([]mgl32.Vec3(nil), p.Position...)

	_, err := s.Step(p, dt, mgl32.Vec3{0, -9.81, 0})
	require.NoError(t, err)
	velAfterStep := append([]mgl32.Vec3(nil), p.Velocity...)

	require.NoError(t, s.Commit(p, dt))

	for i := range start {
		assert.Equal(t, start[i], p.PositionPrev[i])
		assert.Equal(t, s.Predicted()[i], p.Position[i])
		for a := 0; a < 3; a++ {
			assert.InDelta(t, velAfterStep[i][a], p.Velocity[i][a], 1e-3)
		}
	}

	// One commit per step
	committed := append([]mgl32.Vec3(nil), p.Position...)
	err = s.Commit(p, dt)
	assert.True(t, errors.Is(err, ErrNoPendingStep))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, committed, p.Position)
}

func TestSolverCommitRejectsUnmatchedStep(t *testing.T) {
	dt := float32(0.01)
	gravity := mgl32.Vec3{0, -9.81, 0}

	t.Run("never stepped", func(t *testing.T) {
		s := NewSolver(0)
		err := s.Commit(lattice(4, 0.2), dt)
		assert.True(t, errors.Is(err, ErrNoPendingStep))
	})

	t.Run("after failed step", func(t *testing.T) {
		p := lattice(4, 0.2)
		s := NewSolver(0)
		_, err := s.Step(p, dt, gravity)
		require.NoError(t, err)
		require.NoError(t, s.Commit(p, dt))

		_, err = s.Step(p, 0, gravity)
		require.Error(t, err)

		before := append([]mgl32.Vec3(nil), p.Position...)
		err = s.Commit(p, dt)
		assert.True(t, errors.Is(err, ErrNoPendingStep))
		assert.Equal(t, before, p.Position)
	})

	t.Run("count changed", func(t *testing.T) {
		p := lattice(4, 0.2)
		s := NewSolver(0)
		_, err := s.Step(p, dt, gravity)
		require.NoError(t, err)

		p.Append(mgl32.Vec3{}, mgl32.Vec3{})
		err = s.Commit(p, dt)
		assert.True(t, errors.Is(err, ErrLengthMismatch))
	})

	t.Run("particles replaced with same count", func(t *testing.T) {
		p := components.NewParticleData(0, 0.2)
		p.Append(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
		p.Append(mgl32.Vec3{100, 0, 0}, mgl32.Vec3{})
		s := NewSolver(0)
		_, err := s.Step(p, dt, mgl32.Vec3{})
		require.NoError(t, err)

		p.SwapRemove(0)
		p.Append(mgl32.Vec3{-50, 0, 0}, mgl32.Vec3{})
		before := append([]mgl32.Vec3(nil), p.Position...)
		vel := append([]mgl32.Vec3(nil), p.Velocity...)

		err = s.Commit(p, dt)
		assert.True(t, errors.Is(err, ErrStaleStep))
		assert.Equal(t, before, p.Position)
		assert.Equal(t, vel, p.Velocity)

		// The stale step is discarded; a fresh one commits
		err = s.Commit(p, dt)
		assert.True(t, errors.Is(err, ErrNoPendingStep))
		_, err = s.Step(p, dt, mgl32.Vec3{})
		require.NoError(t, err)
		assert.NoError(t, s.Commit(p, dt))
	})

	t.Run("nan positions still commit", func(t *testing.T) {
		p := lattice(2, 0.2)
		p.Position[0][0] = float32(math.NaN())
		s := NewSolver(0)
		_, err := s.Step(p, dt, gravity)
		require.NoError(t, err)
		assert.NoError(t, s.Commit(p, dt))
	})
}

type phaseLog struct {
	phases []string
}

func (l *phaseLog) StartPhase(phase string) {
	l.phases = append(l.phases, phase)
}

func TestSolverRecordsPhases(t *testing.T) {
	log := &phaseLog{}
	s := NewSolver(0)
	s.SetPhaseRecorder(log)

	_, err := s.Step(lattice(4, 0.2), 0.01, mgl32.Vec3{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		telemetry.PhaseResync,
		telemetry.PhaseIntegrate,
		telemetry.PhaseBounds,
		telemetry.PhaseGrid,
	}, log.phases)
	assert.Equal(t, float32(DefaultKernelScale), s.KernelScale())
}
