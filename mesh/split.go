package mesh

// SplitNonManifold repairs non-manifold vertices: a vertex referenced by
// faces that fall into more than one connected "fan" (faces pairwise
// joined by a shared edge at that vertex) is duplicated, one id per fan
// beyond the first, so every vertex in the result has exactly one fan —
// the precondition Build's E2E involution check and the one-ring
// traversal both rely on. This mirrors the original's SplitVertices:
// there it walks unvisited directed edges out of v to discover each
// extra fan; here the same grouping is computed with a union-find over
// the corners incident to v, which gives the identical fan partition
// without depending on E2E already being consistent (useful since a
// non-manifold input may have editions where E2E can't be built at all).
//
// Returns the number of vertices duplicated. Callers must call Build
// again afterward; SplitNonManifold only edits V, N, F and appends new
// vertices, it does not touch V2E/E2E itself.
func (m *Mesh) SplitNonManifold() int {
	type corner struct {
		face, k  int
		prev, nx int // the two vertex ids adjacent to v within this face
	}

	originalNumV := m.NumV
	added := 0

	for v := 0; v < originalNumV; v++ {
		var corners []corner
		for f := 0; f < m.NumF; f++ {
			face := m.F[f]
			for k := 0; k < 3; k++ {
				if face[k] != v {
					continue
				}
				corners = append(corners, corner{
					face: f, k: k,
					prev: face[(k+2)%3],
					nx:   face[(k+1)%3],
				})
			}
		}
		if len(corners) <= 1 {
			continue
		}

		parent := make([]int, len(corners))
		for i := range parent {
			parent[i] = i
		}
		var find func(int) int
		find = func(i int) int {
			for parent[i] != i {
				parent[i] = parent[parent[i]]
				i = parent[i]
			}
			return i
		}
		union := func(a, b int) {
			ra, rb := find(a), find(b)
			if ra != rb {
				parent[ra] = rb
			}
		}

		byNeighbor := make(map[int][]int) // neighbor vertex id -> corner indices touching it
		for i, c := range corners {
			byNeighbor[c.prev] = append(byNeighbor[c.prev], i)
			byNeighbor[c.nx] = append(byNeighbor[c.nx], i)
		}
		for _, idxs := range byNeighbor {
			for i := 1; i < len(idxs); i++ {
				union(idxs[0], idxs[i])
			}
		}

		fans := make(map[int][]int)
		for i := range corners {
			r := find(i)
			fans[r] = append(fans[r], i)
		}
		if len(fans) <= 1 {
			continue
		}

		// Keep the first fan (in corner order) as v; every other fan is
		// reassigned to a freshly allocated vertex id with v's geometry.
		keep := find(0)
		for r, idxs := range fans {
			if r == keep {
				continue
			}
			newID := m.AddVertex(m.V[v], m.N[v], m.TargetV[v], m.SqrD[v], m.SrcFace[v])
			added++
			for _, ci := range idxs {
				c := corners[ci]
				m.F[c.face][c.k] = newID
			}
		}
	}
	return added
}
