package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// bowtie builds two otherwise-disjoint triangle fans sharing vertex 0 —
// spec's E3 non-manifold scenario.
func bowtie() *Mesh {
	v := []mgl64.Vec3{
		{0, 0, 0},             // 0: shared apex
		{1, 0, 0}, {0, 1, 0},  // fan A
		{-1, 0, 0}, {0, -1, 0}, // fan B
	}
	f := []Face{
		{0, 1, 2},
		{1, 0, 2}, // opposite of fan A's single triangle, closing it
		{0, 3, 4},
		{3, 0, 4},
	}
	return New(v, f)
}

func TestSplitNonManifoldBowtie(t *testing.T) {
	m := bowtie()
	numVBefore := m.NumV

	added := m.SplitNonManifold()
	if added != 1 {
		t.Fatalf("expected exactly 1 new vertex, got %d", added)
	}
	if m.NumV != numVBefore+1 {
		t.Fatalf("NumV = %d, want %d", m.NumV, numVBefore+1)
	}

	if err := m.Build(); err != nil {
		t.Fatalf("Build after split failed: %v", err)
	}
	for v := 0; v < m.NumV; v++ {
		want := 0
		for f := 0; f < m.NumF; f++ {
			for k := 0; k < 3; k++ {
				if m.F[f][k] == v {
					want++
				}
			}
		}
		if got := m.OneRingDegree(v); got != want {
			t.Errorf("vertex %d still non-manifold: one-ring degree %d, corners %d", v, got, want)
		}
	}
}

func TestSplitNonManifoldIdempotent(t *testing.T) {
	m := bowtie()
	m.SplitNonManifold()
	if err := m.Build(); err != nil {
		t.Fatalf("Build after first split failed: %v", err)
	}

	f1 := append([]Face(nil), m.F...)
	numV1 := m.NumV

	added := m.SplitNonManifold()
	if added != 0 {
		t.Errorf("second split added %d vertices, want 0", added)
	}
	if m.NumV != numV1 {
		t.Errorf("second split changed NumV: %d -> %d", numV1, m.NumV)
	}
	for i := range f1 {
		if f1[i] != m.F[i] {
			t.Errorf("face %d changed across idempotent split: %v -> %v", i, f1[i], m.F[i])
		}
	}
}

func TestSplitNonManifoldLeavesManifoldMeshUntouched(t *testing.T) {
	m := tetrahedron()
	added := m.SplitNonManifold()
	if added != 0 {
		t.Errorf("expected no vertices added on an already-manifold mesh, got %d", added)
	}
}
