// Command project demonstrates a minimal end-to-end run of the
// projection engine on two in-memory tetrahedra: a target tetrahedron
// and a working mesh of the same shape pushed slightly outward from its
// centroid. Real callers supply their own oracle.Oracle backed by a
// spatial index and their own mesh I/O; this example uses neither, per
// the package's own file-I/O boundary. The shape is a tetrahedron rather
// than a flat patch because the engine requires a closed, 2-manifold
// working mesh — an open patch has no opposite for its boundary edges
// and fails at Build.
package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fathomgeo/conform"
	"github.com/fathomgeo/conform/mesh"
	"github.com/fathomgeo/conform/oracle"
)

func main() {
	targetV := []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	}
	targetF := [][3]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}

	var centroid mgl64.Vec3
	for _, p := range targetV {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1.0 / float64(len(targetV)))

	workingV := make([]mgl64.Vec3, len(targetV))
	for i, p := range targetV {
		workingV[i] = centroid.Add(p.Sub(centroid).Mul(1.05))
	}
	workingF := make([]mesh.Face, len(targetF))
	for i, f := range targetF {
		workingF[i] = mesh.Face(f)
	}

	m := mesh.New(workingV, workingF)
	oc := oracle.NewBruteForce(targetV, targetF)

	result, err := conform.Project(m, oc, conform.Config{Workers: 4})
	if err != nil {
		fmt.Println("projection failed:", err)
		return
	}

	fmt.Printf("converged with %d vertices, %d faces, %d refinement rounds (+%d vertices), %d color groups\n",
		m.NumV, m.NumF, result.RefinementRounds, result.VerticesAdded, result.ColorGroups)

	inconsistent := conform.BoundaryCheck(m, 1e-6)
	fmt.Printf("boundary check: %d inconsistent vertices\n", inconsistent)

	for _, wr := range conform.WorstResiduals(m, 3) {
		fmt.Printf("vertex %d residual %.3e\n", wr.Vertex, wr.SqrDist)
	}
}
