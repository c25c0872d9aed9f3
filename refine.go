package conform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fathomgeo/conform/internal/workpool"
	"github.com/fathomgeo/conform/mesh"
	"github.com/fathomgeo/conform/oracle"
)

// refineRound runs one adaptive-refinement round per spec §4.8: find
// candidate edges, midpoint-test them against the oracle, insert a
// vertex for every candidate whose midpoint residual still exceeds
// len*ratio, retriangulate every touched face, and rebuild the half-edge
// topology. onlyTouching < 0 means consider every canonical edge (first
// round); otherwise only edges with an endpoint whose id is >=
// onlyTouching, i.e. a vertex the previous round introduced. Returns the
// ids of the vertices this round added (nil if none), or a non-nil error
// if the rebuilt topology is invalid.
func refineRound(m *mesh.Mesh, oc oracle.Oracle, cfg Config, lenScale float64, onlyTouching int) ([]int, error) {
	var candidates []int
	for d := 0; d < m.NumF*3; d++ {
		if m.E2E[d] <= d {
			continue
		}
		if onlyTouching >= 0 {
			v0, v1, _ := m.Corner(d)
			if v0 < onlyTouching && v1 < onlyTouching {
				continue
			}
		}
		candidates = append(candidates, d)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	midpoints := make([]mgl64.Vec3, len(candidates))
	for i, d := range candidates {
		v0, v1, _ := m.Corner(d)
		midpoints[i] = m.V[v0].Add(m.V[v1]).Mul(0.5)
	}
	results := make([]oracle.Result, len(candidates))
	workpool.RunIndices(cfg.Workers, len(candidates), func(i int) {
		results[i] = oc.Query(midpoints[i])
	})

	threshold := lenScale * cfg.Ratio
	edgeMidVertex := make(map[int]int, len(candidates))
	var newVerts []int
	for i, d := range candidates {
		if math.Sqrt(results[i].SqrDist) <= threshold {
			continue
		}
		v0, _, _ := m.Corner(d)
		r := results[i]
		nv := m.AddVertex(midpoints[i], m.N[v0], r.Point, r.SqrDist, r.Face)
		newVerts = append(newVerts, nv)
		edgeMidVertex[d] = nv
		edgeMidVertex[m.E2E[d]] = nv
	}
	if len(newVerts) == 0 {
		return nil, nil
	}

	splitsByFace := make(map[int]map[int]int)
	for d, nv := range edgeMidVertex {
		f, k := d/3, d%3
		if splitsByFace[f] == nil {
			splitsByFace[f] = make(map[int]int)
		}
		splitsByFace[f][k] = nv
	}
	for f, splits := range splitsByFace {
		retriangulate(m, f, splits)
	}

	if err := m.Build(); err != nil {
		return nil, err
	}
	return newVerts, nil
}

// retriangulate replaces face f (and appends new faces) per the number
// of its edges in splits (keyed by local edge index 0,1,2 -> the
// midpoint vertex id on that edge), following the one/two/three-split
// patterns of spec §4.8 step 4. New faces inherit f's pre-split normal
// as a placeholder; the active-set sweep over the new vertices
// recomputes real face normals for anything that moves.
func retriangulate(m *mesh.Mesh, f int, splits map[int]int) {
	face := m.F[f]
	fn := m.FN[f]

	switch len(splits) {
	case 1:
		var j int
		for k := range splits {
			j = k
		}
		nv := splits[j]
		a, b, c := face[j], face[(j+1)%3], face[(j+2)%3]
		m.F[f] = mesh.Face{a, nv, c}
		m.AddFace(mesh.Face{nv, b, c}, fn)

	case 2:
		var u int
		for k := 0; k < 3; k++ {
			if _, ok := splits[k]; !ok {
				u = k
				break
			}
		}
		v0, v1, v2 := face[(u+2)%3], face[u], face[(u+1)%3]
		mA := splits[(u+2)%3] // midpoint(v0,v1)
		mB := splits[(u+1)%3] // midpoint(v2,v0)
		m.F[f] = mesh.Face{v0, mA, mB}
		m.AddFace(mesh.Face{mA, v1, v2}, fn)
		m.AddFace(mesh.Face{mA, v2, mB}, fn)

	case 3:
		v0, v1, v2 := face[0], face[1], face[2]
		nv0, nv1, nv2 := splits[0], splits[1], splits[2]
		m.F[f] = mesh.Face{v0, nv0, nv2}
		m.AddFace(mesh.Face{nv0, nv1, nv2}, fn)
		m.AddFace(mesh.Face{nv0, v1, nv1}, fn)
		m.AddFace(mesh.Face{nv2, nv1, v2}, fn)
	}
}
