package conform

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fathomgeo/conform/internal/vecutil"
	"github.com/fathomgeo/conform/mesh"
	"github.com/fathomgeo/conform/oracle"
	"github.com/fathomgeo/conform/solve"
)

// activeSetLoop converges the vertices in initial (and whatever they
// pull into subsequent generations) by repeatedly sweeping from largest
// to smallest residual, stepping position and normal, and rebuilding the
// next generation from whichever vertices actually moved, per spec
// §4.7. Runs until a sweep produces no change beyond 1e-6.
func activeSetLoop(m *mesh.Mesh, oc oracle.Oracle, solver *solve.Solver, cfg Config, lenScale float64, initial []int) {
	active := append([]int(nil), initial...)
	pinned := make(map[int]bool)
	reactivateThreshold := lenScale * cfg.Ratio

	for len(active) > 0 {
		type pair struct {
			residual float64
			v        int
		}
		pairs := make([]pair, len(active))
		for i, v := range active {
			pairs[i] = pair{m.SqrD[v], v}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].residual < pairs[j].residual })

		var nextGen []int
		moved := make(map[int]float64)
		changedAny := false

		for i := len(pairs) - 1; i >= 0; i-- {
			v := pairs[i].v
			d0 := m.V[v].Sub(m.TargetV[v]).Len()
			step := solver.StepPosition(m, v, m.TargetV[v])
			d1 := m.V[v].Sub(m.TargetV[v]).Len()

			m.OneRingFaces(v, func(f int) {
				face := m.F[f]
				n, l := vecutil.TriangleNormal(m.V[face[0]], m.V[face[1]], m.V[face[2]])
				if l >= vecutil.ZeroThreshold {
					m.FN[f] = n.Mul(1 / l)
				}
			})

			prevN := m.N[v]
			targetN := m.ComputeVertexNormal(v)
			newN := solver.StepNormal(m, v, prevN, targetN)

			posChanged := math.Abs(d1-d0) > solver.Epsilon
			normChanged := normalChanged(prevN, newN, solver.Epsilon)
			if posChanged || normChanged {
				nextGen = append(nextGen, v)
			}
			if math.Abs(d1-d0) > 1e-6 {
				changedAny = true
				moved[v] = step
			}
			if step == 0 {
				pinned[v] = true
			} else {
				delete(pinned, v)
			}
		}

		if len(moved)*2 > len(active) {
			queryTargets(m, oc, cfg.Workers, allVertices(m.NumV))
		} else if len(moved) > 0 {
			movedList := make([]int, 0, len(moved))
			for v := range moved {
				movedList = append(movedList, v)
			}
			queryTargets(m, oc, cfg.Workers, movedList)
		}

		if cfg.ReactivatePinned && len(pinned) > 0 {
			for v := range moved {
				m.OneRing(v, func(d int) {
					_, nb, _ := m.Corner(d)
					if pinned[nb] && moved[v] > reactivateThreshold {
						nextGen = append(nextGen, nb)
						delete(pinned, nb)
					}
				})
			}
		}

		if !changedAny {
			return
		}
		active = nextActiveSet(m, nextGen)
	}
}

// normalChanged reports whether prev and next differ by more than
// epsilon once both are normalized (prev/next themselves are stored
// unnormalized by StepNormal; spec compares directions).
func normalChanged(prev, next mgl64.Vec3, epsilon float64) bool {
	pn, pok := vecutil.SafeNormalize(prev)
	nn, nok := vecutil.SafeNormalize(next)
	if !pok || !nok {
		return true
	}
	return pn.Dot(nn) < 1-epsilon
}

// nextActiveSet returns the deduplicated union of moved and every vertex
// in moved's one-ring — the next generation the sweep iterates over.
func nextActiveSet(m *mesh.Mesh, moved []int) []int {
	seen := make(map[int]bool, len(moved)*4)
	var next []int
	add := func(v int) {
		if !seen[v] {
			seen[v] = true
			next = append(next, v)
		}
	}
	for _, v := range moved {
		add(v)
		m.OneRing(v, func(d int) {
			_, nb, _ := m.Corner(d)
			add(nb)
		})
	}
	return next
}
