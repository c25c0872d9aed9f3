package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fathomgeo/conform/internal/vecutil"
	"github.com/fathomgeo/conform/internal/workpool"
)

// UpdateFaceNormals recomputes FN for every face from the current V,
// mirroring the original's UpdateFaceNormal: each face normal is the
// normalized (v1-v0)x(v2-v0), left as the zero vector for degenerate
// (near-zero-area) triangles rather than propagating a NaN.
func (m *Mesh) UpdateFaceNormals(workers int) {
	workpool.RunIndices(workers, m.NumF, func(f int) {
		face := m.F[f]
		n, l := vecutil.TriangleNormal(m.V[face[0]], m.V[face[1]], m.V[face[2]])
		if l < vecutil.ZeroThreshold {
			m.FN[f] = mgl64.Vec3{}
			return
		}
		m.FN[f] = n.Mul(1 / l)
	})
}

// UpdateVertexNormals recomputes N for every vertex as the angle-weighted
// average of its incident face normals, mirroring UpdateVertexNormal(s):
// each incident corner contributes its unnormalized face normal direction
// scaled by the interior angle at v, then the sum is renormalized. Faces
// must have up-to-date FN (call UpdateFaceNormals first). conservative
// selects ComputeVertexNormalConservative over the plain angle-weighted
// average — the original calls this true exactly once, on the bootstrap
// pass before the first active-set sweep, since only that pass runs with
// no prior normal to fall back on.
func (m *Mesh) UpdateVertexNormals(workers int, conservative bool) {
	workpool.RunIndices(workers, m.NumV, func(v int) {
		if conservative {
			m.N[v] = m.ComputeVertexNormalConservative(v)
			return
		}
		m.N[v] = m.ComputeVertexNormal(v)
	})
}

// ComputeVertexNormal returns the angle-weighted smoothed normal at v
// without writing it to N — used by the active-set sweep, which needs
// both the previous and newly computed normal before deciding which one
// to store.
func (m *Mesh) ComputeVertexNormal(v int) mgl64.Vec3 {
	var sum mgl64.Vec3
	m.OneRing(v, func(d int) {
		v0, v1, v2 := m.Corner(d)
		sum = sum.Add(vecutil.AngleWeightedNormal(m.V[v0], m.V[v1], m.V[v2]))
	})
	if n, ok := vecutil.SafeNormalize(sum); ok {
		return n
	}
	return mgl64.Vec3{}
}

// ComputeVertexNormalConservative is ComputeVertexNormal with a second
// pass: after the angle-weighted sum, subtract the component of the sum
// along any incident face normal the sum makes a negative dot product
// with, so the result never dips below any incident face plane, then
// renormalize.
func (m *Mesh) ComputeVertexNormalConservative(v int) mgl64.Vec3 {
	var sum mgl64.Vec3
	m.OneRing(v, func(d int) {
		v0, v1, v2 := m.Corner(d)
		sum = sum.Add(vecutil.AngleWeightedNormal(m.V[v0], m.V[v1], m.V[v2]))
	})
	m.OneRingFaces(v, func(f int) {
		fn := m.FN[f]
		if d := sum.Dot(fn); d < 0 {
			sum = sum.Sub(fn.Mul(d))
		}
	})
	if n, ok := vecutil.SafeNormalize(sum); ok {
		return n
	}
	return mgl64.Vec3{}
}

// ResmoothNormals recomputes vertex normals for exactly the vertices in
// dirty with the plain angle-weighted average (ComputeVertexNormal),
// leaving the rest of N untouched. Neither the refinement pass nor
// conform.ResmoothNormals calls it; the latter uses UpdateVertexNormals.
func (m *Mesh) ResmoothNormals(dirty []int) {
	for _, v := range dirty {
		m.N[v] = m.ComputeVertexNormal(v)
	}
}
