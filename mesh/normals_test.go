package mesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// tetrahedron (from halfedge_test.go) is the closed, non-degenerate
// fixture used here: a flat open patch has no opposite for its boundary
// edges and Build rejects it, and a folded double-cover of a single
// triangle makes every vertex normal cancel to zero, so neither is a
// useful fixture for normal-smoothing assertions.

func TestUpdateFaceNormalsTetrahedron(t *testing.T) {
	m := tetrahedron()
	if err := m.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	m.UpdateFaceNormals(1)
	want := []mgl64.Vec3{
		{0, 0, -1},
		{0, -1, 0},
		{-1, 0, 0},
		{0.5773502691896258, 0.5773502691896258, 0.5773502691896258},
	}
	for f := 0; f < m.NumF; f++ {
		if got := m.FN[f].Sub(want[f]).Len(); got > 1e-9 {
			t.Errorf("face %d normal = %v, want %v", f, m.FN[f], want[f])
		}
	}
}

func TestUpdateVertexNormalsTetrahedronStaysAlignedWithFaces(t *testing.T) {
	m := tetrahedron()
	if err := m.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	m.UpdateFaceNormals(1)
	m.UpdateVertexNormals(1, false)
	for v := 0; v < m.NumV; v++ {
		if l := m.N[v].Len(); math.Abs(l-1) > 1e-9 {
			t.Errorf("vertex %d normal not unit length: %v", v, l)
		}
		m.OneRingFaces(v, func(f int) {
			if d := m.N[v].Dot(m.FN[f]); d < 1e-6 {
				t.Errorf("vertex %d normal not aligned with incident face %d: dot=%v", v, f, d)
			}
		})
	}
}

func TestUpdateFaceNormalsDegenerateTriangleIsZero(t *testing.T) {
	v := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}} // colinear, zero area
	f := []Face{{0, 1, 2}, {0, 2, 1}}                  // closed so Build succeeds
	m := New(v, f)
	if err := m.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	m.UpdateFaceNormals(1)
	for f := 0; f < m.NumF; f++ {
		if m.FN[f] != (mgl64.Vec3{}) {
			t.Errorf("degenerate face %d normal = %v, want zero vector", f, m.FN[f])
		}
	}
}

func TestResmoothNormalsOnlyTouchesDirty(t *testing.T) {
	m := tetrahedron()
	if err := m.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	m.UpdateFaceNormals(1)
	m.UpdateVertexNormals(1, false)

	stale := mgl64.Vec3{1, 0, 0}
	m.N[0] = stale
	m.N[1] = stale

	m.ResmoothNormals([]int{0})

	if m.N[0] == stale {
		t.Error("vertex 0 should have been resmoothed")
	}
	if m.N[1] != stale {
		t.Error("vertex 1 should have been left untouched")
	}
}
