package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Line and segment intersection in a generic 2D (u, v) frame, plus the
// closest approach of two skew 3D lines. These back the wire crossing
// queries in geometry.go.

// intersectLines finds the crossing of two infinite lines, each given by
// two points. ok is false for parallel or degenerate lines, detected
// with an absolute cutoff of 1e-8 on the denominator.
func intersectLines(aStartU, aStartV, aEndU, aEndV,
	bStartU, bStartV, bEndU, bEndV float64) (u, v float64, ok bool) {

	denom := (aStartU-aEndU)*(bStartV-bEndV) - (aStartV-aEndV)*(bStartU-bEndU)
	if math.Abs(denom) < 1e-8 {
		return 0, 0, false
	}

	a := (aStartU*aEndV - aStartV*aEndU) / denom
	b := (bStartU*bEndV - bStartV*bEndU) / denom

	u = (bStartU-bEndU)*a - (aStartU-aEndU)*b
	v = (bStartV-bEndV)*a - (aStartV-aEndV)*b
	return u, v, true
}

// pointWithinSegments reports whether (u, v) lies inside the coordinate
// ranges of both segments. The point is assumed to be on both carrier
// lines already.
func pointWithinSegments(aStartU, aStartV, aEndU, aEndV,
	bStartU, bStartV, bEndU, bEndV, u, v float64) bool {

	return minf(aStartU, aEndU) <= u && u <= maxf(aStartU, aEndU) &&
		minf(aStartV, aEndV) <= v && v <= maxf(aStartV, aEndV) &&
		minf(bStartU, bEndU) <= u && u <= maxf(bStartU, bEndU) &&
		minf(bStartV, bEndV) <= v && v <= maxf(bStartV, bEndV)
}

// closestApproach finds, on each of two non parallel 3D lines given by
// a point and a unit direction, the point closest to the other line,
// reported as signed offsets along the directions. The caller has to
// keep parallel lines away from here.
func closestApproach(startA, dirA, startB, dirB r3.Vec) (offsetA, offsetB float64) {
	dot := dirA.Dot(dirB)
	delta := startB.Sub(startA)
	deltaA := delta.Dot(dirA)
	deltaB := delta.Dot(dirB)
	den := 1 - dot*dot
	return (deltaA - deltaB*dot) / den, (deltaA*dot - deltaB) / den
}
