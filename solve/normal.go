package solve

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fathomgeo/conform/mesh"
)

// StepNormal chooses the largest alpha in [0,1] such that every face
// normal incident to v stays non-negatively aligned with the blended
// normal prev + alpha*(target-prev): for each incident face normal fn
// with fn.(target-prev) < -epsilon, alpha is capped at
// -(fn.prev)/(fn.(target-prev)); the tightest cap wins. Writes the
// result to m.N[v] (unnormalized — later smoothing passes renormalize)
// and returns it.
func (s *Solver) StepNormal(m *mesh.Mesh, v int, prev, target mgl64.Vec3) mgl64.Vec3 {
	delta := target.Sub(prev)
	alpha := 1.0
	m.OneRingFaces(v, func(f int) {
		fn := m.FN[f]
		denom := fn.Dot(delta)
		if denom < -s.Epsilon {
			a := -(fn.Dot(prev)) / denom
			if a < alpha {
				alpha = a
			}
		}
	})
	if alpha < 0 {
		alpha = 0
	}
	result := prev.Add(delta.Mul(alpha))
	m.N[v] = result
	return result
}
