package oracle

import "github.com/go-gl/mathgl/mgl64"

// Triangle is the subset of target-mesh geometry BruteForce needs: three
// corner positions plus the index the mesh itself assigns the triangle.
type Triangle struct {
	V0, V1, V2 mgl64.Vec3
	Index      int
}

// BruteForce is a reference Oracle that scans every target triangle on
// each query. It is exact and simple, at O(len(Triangles)) per query —
// fine for tests and small meshes, not meant for production-sized target
// surfaces (those should wrap a real spatial index instead).
type BruteForce struct {
	Triangles []Triangle
}

// NewBruteForce builds an oracle over a triangle soup given as flat
// vertex/face arrays, the same shape the engine's own Mesh uses.
func NewBruteForce(v []mgl64.Vec3, f [][3]int) *BruteForce {
	tris := make([]Triangle, len(f))
	for i, face := range f {
		tris[i] = Triangle{V0: v[face[0]], V1: v[face[1]], V2: v[face[2]], Index: i}
	}
	return &BruteForce{Triangles: tris}
}

// Query scans every triangle and returns the closest point to p. On a tie
// the first triangle in Triangles order achieving the minimum wins.
func (b *BruteForce) Query(p mgl64.Vec3) Result {
	best := Result{SqrDist: -1}
	for _, t := range b.Triangles {
		cp := closestPointOnTriangle(p, t.V0, t.V1, t.V2)
		d := cp.Sub(p).LenSqr()
		if best.SqrDist < 0 || d < best.SqrDist {
			best = Result{Point: cp, SqrDist: d, Face: t.Index}
		}
	}
	return best
}

// closestPointOnTriangle finds the closest point to p on triangle (a,b,c),
// classifying p against the triangle's Voronoi regions (vertices, edges,
// face) in barycentric coordinates — the standard closest-point-on-
// triangle construction (Ericson, Real-Time Collision Detection §5.1.5).
func closestPointOnTriangle(p, a, b, c mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}
