package conform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fathomgeo/conform/mesh"
	"github.com/fathomgeo/conform/oracle"
)

func singleTriangleWithSpares(nExtra int) *mesh.Mesh {
	v := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for i := 0; i < nExtra; i++ {
		v = append(v, mgl64.Vec3{float64(i), float64(i), 0})
	}
	m := mesh.New(v, []mesh.Face{{0, 1, 2}})
	return m
}

func TestRetriangulateOneSplit(t *testing.T) {
	m := singleTriangleWithSpares(1) // vertex 3 is the new midpoint
	retriangulate(m, 0, map[int]int{0: 3})

	if m.F[0] != (mesh.Face{0, 3, 2}) {
		t.Errorf("F[0] = %v, want {0,3,2}", m.F[0])
	}
	if m.NumF != 2 {
		t.Fatalf("NumF = %d, want 2", m.NumF)
	}
	if m.F[1] != (mesh.Face{3, 1, 2}) {
		t.Errorf("F[1] = %v, want {3,1,2}", m.F[1])
	}
}

func TestRetriangulateTwoSplits(t *testing.T) {
	m := singleTriangleWithSpares(2) // vertices 3 (mid 0-1), 4 (mid 2-0)
	retriangulate(m, 0, map[int]int{0: 3, 2: 4})

	if m.F[0] != (mesh.Face{0, 3, 4}) {
		t.Errorf("F[0] = %v, want {0,3,4}", m.F[0])
	}
	if m.NumF != 3 {
		t.Fatalf("NumF = %d, want 3", m.NumF)
	}
	if m.F[1] != (mesh.Face{3, 1, 2}) {
		t.Errorf("F[1] = %v, want {3,1,2}", m.F[1])
	}
	if m.F[2] != (mesh.Face{3, 2, 4}) {
		t.Errorf("F[2] = %v, want {3,2,4}", m.F[2])
	}
}

func TestRetriangulateThreeSplits(t *testing.T) {
	m := singleTriangleWithSpares(3) // vertices 3,4,5: mids of edges 0,1,2
	retriangulate(m, 0, map[int]int{0: 3, 1: 4, 2: 5})

	if m.F[0] != (mesh.Face{0, 3, 5}) {
		t.Errorf("F[0] = %v, want {0,3,5}", m.F[0])
	}
	if m.NumF != 4 {
		t.Fatalf("NumF = %d, want 4", m.NumF)
	}
	want := []mesh.Face{{3, 4, 5}, {3, 1, 4}, {5, 4, 2}}
	for i, w := range want {
		if m.F[i+1] != w {
			t.Errorf("F[%d] = %v, want %v", i+1, m.F[i+1], w)
		}
	}
}

func TestRetriangulateInheritsParentFaceNormal(t *testing.T) {
	m := singleTriangleWithSpares(1)
	m.FN[0] = mgl64.Vec3{0, 0, 1}
	retriangulate(m, 0, map[int]int{0: 3})
	if m.FN[1] != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("new face normal = %v, want inherited (0,0,1)", m.FN[1])
	}
}

// TestRefineRoundDensifiesDimple is spec's E4 scenario in miniature: a
// working tetrahedron projected onto a target with one vertex pulled far
// from its original corner should add a vertex along an edge whose
// midpoint residual exceeds the threshold.
func TestRefineRoundDensifiesDimple(t *testing.T) {
	tv, tf := tetra()
	tv[0] = mgl64.Vec3{1, 1, 1} // pull one target vertex far from its corner
	oc := oracle.NewBruteForce(tv, tf)

	wv, wf := tetra()
	m := mesh.New(wv, toFaces(wf))
	if err := m.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := range m.N {
		m.N[i] = mgl64.Vec3{0, 0, 1}
	}
	queryTargets(m, oc, 1, allVertices(m.NumV))

	numVBefore := m.NumV
	newVerts, err := refineRound(m, oc, Config{Ratio: 1e-3, Workers: 1}.withDefaults(), 1.0, -1)
	if err != nil {
		t.Fatalf("refineRound failed: %v", err)
	}
	if len(newVerts) == 0 {
		t.Fatal("expected refinement to insert at least one vertex given the lifted corner's residual")
	}
	if m.NumV != numVBefore+len(newVerts) {
		t.Errorf("NumV = %d, want %d", m.NumV, numVBefore+len(newVerts))
	}
	if d := m.CheckInvolution(); d != -1 {
		t.Errorf("involution broken at %d after refinement", d)
	}
}
