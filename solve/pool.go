// Package solve implements the two per-vertex solvers that move a
// working mesh toward its target: the constrained position step and the
// normal step. Both read and write a single vertex's row of a mesh.Mesh
// in place; neither owns the mesh.
package solve

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// constraintRow is one half-space constraint a·Δ ≤ b on a vertex's
// displacement, plus whether it is currently attached to the active set.
type constraintRow struct {
	a        mgl64.Vec3
	b        float64
	attached bool
}

// scratch holds the constraint-row buffer reused across StepPosition
// calls, mirroring the teacher's gjk.SimplexPool: one allocation shared
// across a whole sweep instead of one per vertex.
type scratch struct {
	rows []constraintRow
}

// Solver bundles the epsilon used by both solvers with a pool of scratch
// constraint buffers. The zero value is not usable; construct with
// NewSolver.
type Solver struct {
	Epsilon float64
	pool    sync.Pool
}

// DefaultEpsilon is the tolerance the active-set loop uses unless a
// caller's Config overrides it.
const DefaultEpsilon = 1e-6

// NewSolver returns a Solver with the given epsilon and a fresh scratch
// pool. epsilon <= 0 falls back to DefaultEpsilon.
func NewSolver(epsilon float64) *Solver {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	s := &Solver{Epsilon: epsilon}
	s.pool.New = func() any { return &scratch{} }
	return s
}
