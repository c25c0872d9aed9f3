package solve

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fathomgeo/conform/internal/vecutil"
	"github.com/fathomgeo/conform/mesh"
)

// buildConstraintRows fills rows (reusing its backing array) with the
// half-space constraints for vertex v, one per (incident corner, one of
// its three vertex normals): a = normalize((V[v2]-V[v1]) x n_j),
// b = a . (V[v1]-V[v]). A constraint whose cross product can't be
// normalized (degenerate triangle or normal) is simply skipped, per the
// edge-case rule that geometric degeneracy drops a row rather than
// failing the vertex.
func buildConstraintRows(m *mesh.Mesh, v int, rows []constraintRow) []constraintRow {
	rows = rows[:0]
	m.OneRing(v, func(d int) {
		v0, v1, v2 := m.Corner(d)
		edge := m.V[v2].Sub(m.V[v1])
		base := m.V[v1].Sub(m.V[v0])
		normals := [3]mgl64.Vec3{m.N[v0], m.N[v1], m.N[v2]}
		for _, nj := range normals {
			cross := edge.Cross(nj)
			l := cross.Len()
			if l < vecutil.ZeroThreshold {
				continue
			}
			a := cross.Mul(1 / l)
			rows = append(rows, constraintRow{a: a, b: a.Dot(base)})
		}
	})
	return rows
}

// StepPosition moves m.V[v] toward target by the largest feasible step
// under the constraint cone built from v's one-ring, per the position
// solver: project the desired direction onto the feasible cone defined
// by the currently tight constraints, take the largest step that doesn't
// cross any other constraint, and repeat, attaching newly-tight
// constraints as they're hit, until either the full step completes, the
// cone collapses (three linearly independent tight constraints), or the
// projected direction degenerates to near zero. Returns the total
// distance actually moved this call — zero means the vertex is pinned.
func (s *Solver) StepPosition(m *mesh.Mesh, v int, target mgl64.Vec3) float64 {
	sc := s.pool.Get().(*scratch)
	defer s.pool.Put(sc)
	sc.rows = buildConstraintRows(m, v, sc.rows)
	rows := sc.rows

	var active []mgl64.Vec3
	var totalStep float64

	maxIterations := len(rows) + 1
	for iter := 0; iter < maxIterations; iter++ {
		offset := target.Sub(m.V[v])
		dist := offset.Len()
		if dist < s.Epsilon {
			return totalStep
		}
		dir := offset.Mul(1 / dist)
		step := dist

		switch len(active) {
		case 0:
			// no projection
		case 1:
			c0 := active[0]
			dir = dir.Sub(c0.Mul(dir.Dot(c0)))
			l := dir.Len()
			if l < s.Epsilon {
				return totalStep
			}
			dir = dir.Mul(1 / l)
			step *= l
		case 2:
			line := active[0].Cross(active[1])
			l := line.Len()
			if l < s.Epsilon {
				return totalStep
			}
			line = line.Mul(1 / l)
			proj := line.Mul(dir.Dot(line))
			l2 := proj.Len()
			if l2 < s.Epsilon {
				return totalStep
			}
			dir = proj.Mul(1 / l2)
			step *= l2
		case 3:
			return totalStep
		}

		var boundary []mgl64.Vec3
		for _, c := range active {
			if c.Dot(dir) >= -s.Epsilon {
				boundary = append(boundary, c)
			}
		}
		if len(boundary) >= 2 {
			// active has at most 2 entries here (3 returns earlier, at the
			// switch above), and boundary is a subset of active, so this is
			// always exactly 2.
			line := boundary[0].Cross(boundary[1])
			l := line.Len()
			if l < s.Epsilon {
				return totalStep
			}
			line = line.Mul(1 / l)
			if line.Dot(dir) < 0 {
				line = line.Mul(-1)
			}
			dir = line
		}

		sMax := step
		jStar := -1
		for i := range rows {
			if rows[i].attached {
				continue
			}
			den := rows[i].a.Dot(dir)
			if den >= s.Epsilon {
				candidate := rows[i].b / den
				if candidate < sMax {
					sMax = candidate
					jStar = i
				}
			}
		}
		if sMax < 1e-6 {
			sMax = 0
		}

		m.V[v] = m.V[v].Add(dir.Mul(sMax))
		totalStep += sMax
		for i := range rows {
			if rows[i].attached {
				continue
			}
			rows[i].b -= rows[i].a.Dot(dir) * sMax
		}

		if sMax == step {
			return totalStep
		}

		if jStar < 0 {
			return totalStep
		}
		rows[jStar].attached = true
		newNormal := rows[jStar].a
		dependent := false
		switch len(active) {
		case 1:
			dependent = vecutil.NearlyParallel(active[0], newNormal)
		case 2:
			dependent = vecutil.NearlyCoplanar(active[0], active[1], newNormal)
		}
		if !dependent && len(active) < 3 {
			active = append(active, newNormal)
		}
	}
	return totalStep
}
