// Package conform projects a working triangle mesh onto a target
// triangle mesh: every working vertex is moved toward its nearest point
// on the target, subject to hard constraints that forbid flipping a
// triangle or reversing its normal, and the working mesh is locally
// refined wherever the residual stays large after convergence. See
// mesh.Mesh for the data the engine mutates in place, oracle.Oracle for
// the nearest-point contract the caller supplies, solve for the two
// per-vertex solvers, and color for the forward-looking graph coloring.
package conform

import (
	"math/rand"

	"github.com/fathomgeo/conform/color"
	"github.com/fathomgeo/conform/internal/workpool"
	"github.com/fathomgeo/conform/mesh"
	"github.com/fathomgeo/conform/oracle"
	"github.com/fathomgeo/conform/solve"
)

// TopologyError is returned by Project when the working mesh's half-edge
// topology cannot be built: a vertex with no incident corner, a directed
// edge without an opposite, or a broken E2E involution. It is always
// fatal — every other failure mode (geometric degeneracy, constraint
// cone collapse) is handled locally and silently.
type TopologyError = mesh.TopologyError

// Config controls a Project run. The zero value is usable: every field
// defaults to the values below when left at zero.
type Config struct {
	// Ratio scales Len to produce the refinement residual threshold
	// Len*Ratio. Defaults to 1e-3.
	Ratio float64
	// MaxRefinementRounds caps how many refinement rounds Project runs.
	// Defaults to 4.
	MaxRefinementRounds int
	// Epsilon is the tolerance used throughout the solvers and
	// convergence tests. Defaults to solve.DefaultEpsilon.
	Epsilon float64
	// Workers is the number of goroutines used for the order-insensitive
	// batch passes (face/vertex normal recomputation, oracle batch
	// queries). Defaults to 1 (serial).
	Workers int
	// ReactivatePinned, when true, re-adds a pinned vertex (one the
	// position solver returned a zero step for) to the active set
	// whenever a one-ring neighbor moves more than Len*Ratio in a sweep.
	// Defaults to false, matching the reference behavior of leaving
	// pinned vertices out of further activation.
	ReactivatePinned bool
}

func (c Config) withDefaults() Config {
	if c.Ratio <= 0 {
		c.Ratio = 1e-3
	}
	if c.MaxRefinementRounds <= 0 {
		c.MaxRefinementRounds = 4
	}
	if c.Epsilon <= 0 {
		c.Epsilon = solve.DefaultEpsilon
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

// Result summarizes a finished Project run.
type Result struct {
	RefinementRounds int
	VerticesAdded    int
	ColorGroups      int
}

// Project runs the engine on m (read as the initial working mesh,
// overwritten in place with the projected mesh) against the oracle oc,
// which must already be initialized against the target surface. Returns
// a *TopologyError if m's faces don't form a valid half-edge topology
// even after non-manifold repair, or if a refinement round's retriangulation
// produces a topology the half-edge rebuild rejects.
func Project(m *mesh.Mesh, oc oracle.Oracle, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	solver := solve.NewSolver(cfg.Epsilon)

	m.SplitNonManifold()
	if err := m.Build(); err != nil {
		return nil, err
	}

	lenScale := initialLengthScale(m)

	m.UpdateFaceNormals(cfg.Workers)
	// Conservative bootstrap: this is the one-time pass before the first
	// active-set sweep has anything to fall back on. Every later normal
	// update goes through solve.StepNormal, which only ever steps from an
	// already-valid baseline.
	m.UpdateVertexNormals(cfg.Workers, true)
	queryTargets(m, oc, cfg.Workers, allVertices(m.NumV))

	groups := color.Shuffled(m, rand.New(rand.NewSource(1)))

	activeSetLoop(m, oc, solver, cfg, lenScale, allVertices(m.NumV))

	rounds := 0
	added := 0
	prevRoundStart := -1
	for ; rounds < cfg.MaxRefinementRounds; rounds++ {
		startNumV := m.NumV
		newVerts, err := refineRound(m, oc, cfg, lenScale, prevRoundStart)
		if err != nil {
			return nil, err
		}
		if len(newVerts) == 0 {
			break
		}
		added += len(newVerts)
		activeSetLoop(m, oc, solver, cfg, lenScale, newVerts)
		prevRoundStart = startNumV
	}

	return &Result{RefinementRounds: rounds, VerticesAdded: added, ColorGroups: len(groups)}, nil
}

// initialLengthScale returns the length of the working mesh's first
// edge (F[0][0]-F[0][1]), the characteristic length spec uses to turn
// Ratio into an absolute refinement threshold.
func initialLengthScale(m *mesh.Mesh) float64 {
	if m.NumF == 0 {
		return 0
	}
	f := m.F[0]
	return m.V[f[0]].Sub(m.V[f[1]]).Len()
}

func allVertices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// queryTargets batch-queries oc for every vertex in vertices and writes
// back TargetV/SqrD/SrcFace, fanning out across workers goroutines.
func queryTargets(m *mesh.Mesh, oc oracle.Oracle, workers int, vertices []int) {
	workpool.Run(workers, vertices, func(v int) {
		r := oc.Query(m.V[v])
		m.TargetV[v] = r.Point
		m.SqrD[v] = r.SqrDist
		m.SrcFace[v] = r.Face
	})
}
