package mesh

import "fmt"

// TopologyError reports a fatal half-edge topology violation: a vertex
// with no incident corner, a directed edge with no opposite, or a broken
// E2E involution. These are the only errors this package treats as fatal
// (spec's geometric degeneracies are handled locally by the callers that
// build constraint rows, never here).
type TopologyError struct {
	Kind  string
	Index int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("mesh: topology violation (%s) at index %d", e.Kind, e.Index)
}

// dedgeKey identifies a directed edge by its (origin, destination)
// vertex pair, used only while pairing opposites during Build.
type dedgeKey struct{ from, to int }

// Build (re)computes V2E and E2E from m.F, the equivalent of the
// original's ComputeHalfEdge: every directed edge (v0->v1) at position
// d=3f+k records itself as V2E[v0], and is paired with its opposite
// (v1->v0) found elsewhere in the face list. A face list that omits an
// opposite for some directed edge (an open boundary) is a topology
// violation — spec.md assumes a closed, 2-manifold working mesh.
func (m *Mesh) Build() error {
	m.V2E = make([]int, m.NumV)
	for i := range m.V2E {
		m.V2E[i] = Absent
	}
	m.E2E = make([]int, m.NumF*3)
	for i := range m.E2E {
		m.E2E[i] = Absent
	}

	dedges := make(map[dedgeKey]int, m.NumF*3)
	for f := 0; f < m.NumF; f++ {
		for k := 0; k < 3; k++ {
			v0 := m.F[f][k]
			v1 := m.F[f][(k+1)%3]
			d := f*3 + k
			m.V2E[v0] = d

			opp := dedgeKey{v1, v0}
			if rd, ok := dedges[opp]; ok {
				m.E2E[d] = rd
				m.E2E[rd] = d
			} else {
				dedges[dedgeKey{v0, v1}] = d
			}
		}
	}

	for v := 0; v < m.NumV; v++ {
		if m.V2E[v] == Absent {
			return &TopologyError{Kind: "vertex with no incident corner", Index: v}
		}
	}
	for d := 0; d < m.NumF*3; d++ {
		if m.E2E[d] == Absent {
			return &TopologyError{Kind: "directed edge without opposite", Index: d}
		}
		if m.E2E[m.E2E[d]] != d {
			return &TopologyError{Kind: "E2E involution broken", Index: d}
		}
	}
	return nil
}

// NextOut returns the next outgoing directed edge around d's source
// vertex, in fixed rotational order: next_out(d) = E2E[(d/3)*3+(d+2)%3].
func (m *Mesh) NextOut(d int) int {
	return m.E2E[(d/3)*3+(d+2)%3]
}

// OneRing calls visit with every directed edge outgoing from v, in
// NextOut rotation order starting from V2E[v], stopping once the rotation
// returns to the start. Panics if v has no outgoing edge — callers only
// invoke this after a successful Build.
func (m *Mesh) OneRing(v int, visit func(d int)) {
	start := m.V2E[v]
	d := start
	for {
		visit(d)
		d = m.NextOut(d)
		if d == start {
			return
		}
	}
}

// OneRingFaces calls visit with every face index incident to v, once per
// incident corner, in one-ring rotation order.
func (m *Mesh) OneRingFaces(v int, visit func(f int)) {
	m.OneRing(v, func(d int) { visit(d / 3) })
}

// Corner returns the three vertex ids of directed edge d's face, ordered
// so that Corner(d)[0] is d's source vertex: (v0,v1,v2) = (F[f][k],
// F[f][k+1],F[f][k+2]) where d=3f+k.
func (m *Mesh) Corner(d int) (v0, v1, v2 int) {
	f := d / 3
	k := d % 3
	face := m.F[f]
	return face[k], face[(k+1)%3], face[(k+2)%3]
}

// OneRingDegree counts the directed edges visited by a NextOut rotation
// from V2E[v] — used to check the manifoldness testable property (spec §8
// property 2).
func (m *Mesh) OneRingDegree(v int) int {
	n := 0
	m.OneRing(v, func(int) { n++ })
	return n
}

// NumVertices and Neighbors let Mesh satisfy color.Graph directly.
func (m *Mesh) NumVertices() int { return m.NumV }

func (m *Mesh) Neighbors(v int, visit func(n int)) {
	m.OneRing(v, func(d int) {
		_, v1, _ := m.Corner(d)
		visit(v1)
	})
}

// CheckInvolution verifies E2E[E2E[d]]==d for every directed edge and
// that E2E[d]'s destination equals d's source — spec §8 testable
// property 1. Returns the first violating index, or -1 if none.
func (m *Mesh) CheckInvolution() int {
	for d := 0; d < m.NumF*3; d++ {
		if m.E2E[d] == Absent {
			return d
		}
		if m.E2E[m.E2E[d]] != d {
			return d
		}
		if src, _, _ := m.Corner(m.E2E[d]); src != m.F[d/3][(d+1)%3] {
			return d
		}
	}
	return -1
}
