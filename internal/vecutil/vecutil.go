// Package vecutil collects small mgl64.Vec3 helpers shared by the mesh,
// solve, and root conform packages, factoring out patterns that recur across
// the half-edge normal computations and the constraint solver.
package vecutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ZeroThreshold is the default tolerance for "is this effectively zero"
// checks on lengths and dot products across the engine, matching the
// original solver's ZERO_THRES.
const ZeroThreshold = 1e-9

// SafeNormalize returns v normalized, and false if v's length is too
// small to normalize safely. Callers that hit the false case should skip
// the constraint or term being built, mirroring the original's
// "if the triangle geometry degenerates... skip that constraint" rule.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < ZeroThreshold {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// TriangleNormal returns the unnormalized cross product (v1-v0)x(v2-v0)
// for triangle (v0,v1,v2), and its length. Callers divide by the length
// themselves to get the unit normal, or discard the triangle if l is ~0
// (degenerate, zero-area).
func TriangleNormal(v0, v1, v2 mgl64.Vec3) (n mgl64.Vec3, l float64) {
	d0 := v1.Sub(v0)
	d1 := v2.Sub(v0)
	n = d0.Cross(d1)
	l = n.Len()
	return n, l
}

// AngleWeightedNormal computes the interior-angle-weighted contribution
// of one triangle corner to a smoothed vertex normal: the unit face
// normal scaled by the angle at v0, approximated (as in the original)
// by asin(|d0 x d1|)/|d0 x d1| applied to the unnormalized cross product
// of the two unit edge directions out of v0.
func AngleWeightedNormal(v0, v1, v2 mgl64.Vec3) mgl64.Vec3 {
	d0, ok0 := SafeNormalize(v1.Sub(v0))
	d1, ok1 := SafeNormalize(v2.Sub(v0))
	if !ok0 || !ok1 {
		return mgl64.Vec3{}
	}
	cross := d0.Cross(d1)
	l := cross.Len()
	if l < ZeroThreshold {
		return mgl64.Vec3{}
	}
	// clamp for asin's domain: cross product length can exceed 1 by a
	// hair due to floating point error even though d0,d1 are unit.
	clamped := math.Min(1, l)
	return cross.Mul(math.Asin(clamped) / l)
}

// NearlyParallel reports whether two unit vectors are parallel (up to
// sign) within ZeroThreshold, used by the position solver to detect a
// linearly dependent constraint normal before adding it to the active
// set.
func NearlyParallel(a, b mgl64.Vec3) bool {
	return a.Cross(b).Len() < ZeroThreshold
}

// NearlyCoplanar reports whether c lies in the plane spanned by a and b
// (both assumed linearly independent unit vectors), used for the
// three-constraint linear-dependence check.
func NearlyCoplanar(a, b, c mgl64.Vec3) bool {
	n, l := TriangleNormal(mgl64.Vec3{}, a, b)
	if l < ZeroThreshold {
		return true
	}
	n = n.Mul(1 / l)
	return math.Abs(n.Dot(c)) < ZeroThreshold
}
