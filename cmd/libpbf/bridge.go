package main

import (
	"errors"
	"log/slog"
	"math"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
	"github.com/pthm-cable/liquid/systems"
)

// Status codes returned across the C boundary.
const (
	statusOK              = 0
	statusInvalidArgument = -1
	statusUnknownHandle   = -2
)

// Solver behind pbf_solver2d. C callers may share it across threads.
var (
	defaultMu     sync.Mutex
	defaultSolver = systems.NewSolver(systems.DefaultKernelScale)
)

var errTooManyParticles = errors.New("particle count overflows the address space")

func newSolver(kernelScale float32) uintptr {
	s := systems.NewSolver(kernelScale)
	h := cgo.NewHandle(s)
	slog.Debug("solver created", "handle", uintptr(h), "kernel_scale", s.KernelScale())
	return uintptr(h)
}

// lookupSolver resolves a handle. Zero, freed and foreign handles report false.
func lookupSolver(h uintptr) (s *systems.Solver, ok bool) {
	if h == 0 {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			s, ok = nil, false
		}
	}()
	s, ok = cgo.Handle(h).Value().(*systems.Solver)
	return s, ok
}

func freeSolver(h uintptr) (status int) {
	if _, ok := lookupSolver(h); !ok {
		return statusUnknownHandle
	}
	defer func() {
		if recover() != nil {
			status = statusUnknownHandle
		}
	}()
	cgo.Handle(h).Delete()
	slog.Debug("solver freed", "handle", h)
	return statusOK
}

// resolveCall checks the pointer arguments of an exported call, then its
// handle. Nil pointers win over a bad handle.
func resolveCall(h uintptr, required ...unsafe.Pointer) (*systems.Solver, int) {
	if !allSet(required...) {
		return nil, statusInvalidArgument
	}
	s, ok := lookupSolver(h)
	if !ok {
		return nil, statusUnknownHandle
	}
	return s, statusOK
}

// allSet reports whether no pointer is nil.
func allSet(ptrs ...unsafe.Pointer) bool {
	for _, p := range ptrs {
		if p == nil {
			return false
		}
	}
	return true
}

// viewParticles builds a ParticleData over caller-owned arrays of n vectors.
// The arrays may be nil only when n is zero.
func viewParticles(pos, prev, vel unsafe.Pointer, n uint64, size float32) (*components.ParticleData, error) {
	if n > math.MaxInt32 {
		return nil, errTooManyParticles
	}
	if n > 0 && (pos == nil || prev == nil || vel == nil) {
		return nil, systems.ErrNilParticles
	}
	return &components.ParticleData{
		Position:     vec3Slice(pos, int(n)),
		PositionPrev: vec3Slice(prev, int(n)),
		Velocity:     vec3Slice(vel, int(n)),
		Size:         size,
	}, nil
}

func vec3Slice(p unsafe.Pointer, n int) []mgl32.Vec3 {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*mgl32.Vec3)(p), n)
}

func stepSolver(s *systems.Solver, p *components.ParticleData, dt float32, force mgl32.Vec3) (components.Grid, int) {
	grid, err := s.Step(p, dt, force)
	if err != nil {
		slog.Debug("step rejected", "error", err)
		return components.Grid{}, statusFor(err)
	}
	return grid, statusOK
}

func commitSolver(s *systems.Solver, p *components.ParticleData, dt float32) int {
	if err := s.Commit(p, dt); err != nil {
		slog.Debug("commit rejected", "error", err)
		return statusFor(err)
	}
	return statusOK
}

// stepDefault runs a step and commit on the shared solver.
func stepDefault(p *components.ParticleData, dt float32, force mgl32.Vec3) (components.Grid, int) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	grid, status := stepSolver(defaultSolver, p, dt, force)
	if status != statusOK {
		return grid, status
	}
	return grid, commitSolver(defaultSolver, p, dt)
}

// statusFor maps an error to its C status code.
func statusFor(err error) int {
	if err == nil {
		return statusOK
	}
	return statusInvalidArgument
}
