// Command libpbf builds the fluid solver as a C shared library:
//
//	go build -buildmode=c-shared -o libpbf.so ./cmd/libpbf
//
// Solvers are referenced from C by opaque handles. Particle buffers stay in C
// memory and are only borrowed for the duration of a call.
package main

/*
#include <stdint.h>

typedef struct { float x, y, z; } pbf_vec3;

typedef struct {
	pbf_vec3 *position;
	pbf_vec3 *position_prev;
	pbf_vec3 *velocity;
	unsigned long numParticles;
	float size;
} ParticleData;

typedef struct {
	pbf_vec3 min;
	pbf_vec3 max;
	float cellSize;
} Grid;
*/
import "C"

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/liquid/components"
)

func main() {}

//export pbf_solver_new
func pbf_solver_new(kernelScale C.float) C.uintptr_t {
	return C.uintptr_t(newSolver(float32(kernelScale)))
}

//export pbf_solver_free
func pbf_solver_free(handle C.uintptr_t) C.int {
	return C.int(freeSolver(uintptr(handle)))
}

//export pbf_solver_step
func pbf_solver_step(handle C.uintptr_t, pd *C.ParticleData, dt C.float, force *C.pbf_vec3, out *C.Grid) C.int {
	s, status := resolveCall(uintptr(handle), unsafe.Pointer(pd), unsafe.Pointer(force), unsafe.Pointer(out))
	if status != statusOK {
		return C.int(status)
	}
	p, err := particleView(pd)
	if err != nil {
		return C.int(statusFor(err))
	}
	grid, status := stepSolver(s, p, float32(dt), loadVec3(force))
	if status == statusOK {
		storeGrid(out, grid)
	}
	return C.int(status)
}

//export pbf_solver_commit
func pbf_solver_commit(handle C.uintptr_t, pd *C.ParticleData, dt C.float) C.int {
	s, status := resolveCall(uintptr(handle), unsafe.Pointer(pd))
	if status != statusOK {
		return C.int(status)
	}
	p, err := particleView(pd)
	if err != nil {
		return C.int(statusFor(err))
	}
	return C.int(commitSolver(s, p, float32(dt)))
}

//export pbf_solver2d
func pbf_solver2d(pd *C.ParticleData, dt C.float, force *C.pbf_vec3, out *C.Grid) C.int {
	if !allSet(unsafe.Pointer(pd), unsafe.Pointer(force), unsafe.Pointer(out)) {
		return statusInvalidArgument
	}
	p, err := particleView(pd)
	if err != nil {
		return C.int(statusFor(err))
	}
	grid, status := stepDefault(p, float32(dt), loadVec3(force))
	if status == statusOK {
		storeGrid(out, grid)
	}
	return C.int(status)
}

// particleView wraps the C arrays as Go slices without copying.
func particleView(pd *C.ParticleData) (*components.ParticleData, error) {
	return viewParticles(
		unsafe.Pointer(pd.position),
		unsafe.Pointer(pd.position_prev),
		unsafe.Pointer(pd.velocity),
		uint64(pd.numParticles),
		float32(pd.size),
	)
}

func loadVec3(v *C.pbf_vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.x), float32(v.y), float32(v.z)}
}

func storeGrid(out *C.Grid, g components.Grid) {
	out.min = C.pbf_vec3{x: C.float(g.Min[0]), y: C.float(g.Min[1]), z: C.float(g.Min[2])}
	out.max = C.pbf_vec3{x: C.float(g.Max[0]), y: C.float(g.Max[1]), z: C.float(g.Max[2])}
	out.cellSize = C.float(g.CellSize)
}
