// Package mesh implements the half-edge topology layer for the working
// mesh: index-based directed-edge bookkeeping, one-ring traversal, and
// non-manifold vertex splitting. It owns the per-vertex and per-face
// arrays the rest of the engine reads and writes in place.
package mesh

import "github.com/go-gl/mathgl/mgl64"

// Absent is the sentinel value stored in V2E/E2E for "no edge yet" —
// the original C++ uses -1 for the same purpose.
const Absent = -1

// Face is a single triangle: an ordered triple of vertex indices.
type Face [3]int

// Mesh is the working mesh together with its half-edge topology and the
// per-vertex solver state (foot point, source face, residual) that the
// active-set loop and refinement pass read and update. All slices are
// owned exclusively by the engine for the duration of a projection run,
// the way feather's RigidBody arrays are owned by World for a Step.
type Mesh struct {
	// Geometry
	V  []mgl64.Vec3 // vertex positions
	N  []mgl64.Vec3 // smoothed vertex normals (unit after smoothing; StepNormal may store them unnormalized)
	F  []Face       // triangles
	FN []mgl64.Vec3 // unit face normals

	NumV int
	NumF int

	// Half-edge topology, indexed by vertex id and directed-edge id
	// (3*face+corner) respectively.
	V2E []int
	E2E []int

	// Per-vertex projection state.
	TargetV []mgl64.Vec3 // foot point on the target surface
	SqrD    []float64    // squared distance to TargetV
	SrcFace []int        // target face index containing TargetV
}

// New builds a Mesh from vertex positions and faces, sized exactly to
// len(v)/len(f) with no spare capacity — callers that expect refinement
// to grow the mesh should rely on EnsureVertexCapacity/EnsureFaceCapacity
// rather than pre-over-allocating.
func New(v []mgl64.Vec3, f []Face) *Mesh {
	m := &Mesh{
		V:    append([]mgl64.Vec3(nil), v...),
		F:    append([]Face(nil), f...),
		NumV: len(v),
		NumF: len(f),
	}
	m.N = make([]mgl64.Vec3, m.NumV)
	m.FN = make([]mgl64.Vec3, m.NumF)
	m.TargetV = make([]mgl64.Vec3, m.NumV)
	m.SqrD = make([]float64, m.NumV)
	m.SrcFace = make([]int, m.NumV)
	return m
}

// EnsureVertexCapacity grows every per-vertex array so it can hold at
// least n vertices, doubling current capacity as needed (the engine's
// AddVertex path from adaptive refinement) — mirroring the original's
// conservativeResize(rows*2) growth strategy.
func (m *Mesh) EnsureVertexCapacity(n int) {
	if cap(m.V) >= n {
		return
	}
	newCap := max(n, 1)
	if c := cap(m.V); c > 0 {
		newCap = max(n, c*2)
	}
	m.V = growVec3(m.V, newCap)
	m.N = growVec3(m.N, newCap)
	m.TargetV = growVec3(m.TargetV, newCap)
	m.SqrD = growFloat(m.SqrD, newCap)
	m.SrcFace = growInt(m.SrcFace, newCap)
	m.V2E = growInt(m.V2E, newCap)
}

// EnsureFaceCapacity grows every per-face array so it can hold at least
// n faces, doubling as needed.
func (m *Mesh) EnsureFaceCapacity(n int) {
	if cap(m.F) >= n {
		return
	}
	newCap := max(n, 1)
	if c := cap(m.F); c > 0 {
		newCap = max(n, c*2)
	}
	newF := make([]Face, len(m.F), newCap)
	copy(newF, m.F)
	m.F = newF
	m.FN = growVec3(m.FN, newCap)
	m.E2E = growInt(m.E2E, newCap*3)
}

// AddVertex appends a new vertex with the given position, smoothed
// normal, foot point, residual and source face, growing capacity first
// if needed, and returns its new index.
func (m *Mesh) AddVertex(p, n, targetP mgl64.Vec3, sqrD float64, srcFace int) int {
	m.EnsureVertexCapacity(m.NumV + 1)
	id := m.NumV
	m.V = m.V[:id+1]
	m.N = m.N[:id+1]
	m.TargetV = m.TargetV[:id+1]
	m.SqrD = m.SqrD[:id+1]
	m.SrcFace = m.SrcFace[:id+1]
	m.V[id] = p
	m.N[id] = n
	m.TargetV[id] = targetP
	m.SqrD[id] = sqrD
	m.SrcFace[id] = srcFace
	m.NumV++
	return id
}

// AddFace appends a new triangle with the given face normal, growing
// capacity first if needed, and returns its new face index.
func (m *Mesh) AddFace(f Face, fn mgl64.Vec3) int {
	m.EnsureFaceCapacity(m.NumF + 1)
	id := m.NumF
	m.F = m.F[:id+1]
	m.FN = m.FN[:id+1]
	m.F[id] = f
	m.FN[id] = fn
	m.NumF++
	return id
}

func growVec3(s []mgl64.Vec3, n int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(s), n)
	copy(out, s)
	return out
}

func growFloat(s []float64, n int) []float64 {
	out := make([]float64, len(s), n)
	copy(out, s)
	return out
}

func growInt(s []int, n int) []int {
	out := make([]int, len(s), n)
	for i := range out {
		out[i] = Absent
	}
	copy(out, s)
	return out
}
