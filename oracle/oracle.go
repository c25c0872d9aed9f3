// Package oracle defines the nearest-point collaborator the projection
// engine queries against: given a point, find the closest point on the
// target surface and which target triangle it falls in. The engine never
// builds or maintains an acceleration structure itself — that is an
// external concern (an AABB tree, a BVH, a spatial hash) the caller wires
// in by implementing Oracle. This package only ships the interface and a
// brute-force reference implementation suitable for small meshes and
// tests; production callers should supply their own tree-backed Oracle.
package oracle

import "github.com/go-gl/mathgl/mgl64"

// Result is the answer to a single nearest-point query.
type Result struct {
	Point   mgl64.Vec3 // closest point on the target surface
	SqrDist float64    // squared distance from the query point to Point
	Face    int        // index into the target face list Point lies on
}

// Oracle answers nearest-point-on-surface queries against a fixed target
// mesh. Implementations must be safe for concurrent Query calls — the
// engine batches queries across workers (spec's §4.2 UpdateNearestDistance
// analogue) and never serializes them.
type Oracle interface {
	// Query returns the closest point on the target surface to p.
	Query(p mgl64.Vec3) Result
}
