package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Projection is a point on a decomposition plane, written in the
// plane's two in-plane axes.
type Projection struct {
	Main, Secondary float64
}

// Length returns the euclidean length of the projection.
func (p Projection) Length() float64 {
	return math.Hypot(p.Main, p.Secondary)
}

// PlaneBase is a right handed orthonormal triple: a main direction, a
// secondary one, and their cross product as normal.
type PlaneBase struct {
	main, secondary, normal r3.Vec
}

// NewPlaneBase normalizes main and secondary and derives the normal.
// The two inputs are expected to be orthogonal already.
func NewPlaneBase(main, secondary r3.Vec) PlaneBase {
	m, s := r3.Unit(main), r3.Unit(secondary)
	return PlaneBase{main: m, secondary: s, normal: r3.Unit(m.Cross(s))}
}

func (b PlaneBase) MainDir() r3.Vec      { return b.main }
func (b PlaneBase) SecondaryDir() r3.Vec { return b.secondary }
func (b PlaneBase) NormalDir() r3.Vec    { return b.normal }

// Decomposer splits points and vectors into a component along the
// normal of a reference plane plus a 2D projection on that plane. The
// reference plane is fixed by a base and an origin point.
type Decomposer struct {
	base   PlaneBase
	origin r3.Vec
}

// NewDecomposer builds a decomposer on the plane through origin spanned
// by main and secondary.
func NewDecomposer(origin, main, secondary r3.Vec) Decomposer {
	return Decomposer{base: NewPlaneBase(main, secondary), origin: origin}
}

func (d Decomposer) Origin() r3.Vec       { return d.origin }
func (d Decomposer) MainDir() r3.Vec      { return d.base.main }
func (d Decomposer) SecondaryDir() r3.Vec { return d.base.secondary }
func (d Decomposer) NormalDir() r3.Vec    { return d.base.normal }

// PointNormalComponent returns the coordinate of p along the normal,
// measured from the reference plane.
func (d Decomposer) PointNormalComponent(p r3.Vec) float64 {
	return p.Sub(d.origin).Dot(d.base.normal)
}

// VectorNormalComponent returns the component of v along the normal.
func (d Decomposer) VectorNormalComponent(v r3.Vec) float64 {
	return v.Dot(d.base.normal)
}

// ProjectPoint returns the in-plane coordinates of p.
func (d Decomposer) ProjectPoint(p r3.Vec) Projection {
	rel := p.Sub(d.origin)
	return Projection{
		Main:      rel.Dot(d.base.main),
		Secondary: rel.Dot(d.base.secondary),
	}
}

// ProjectVector returns the in-plane components of v.
func (d Decomposer) ProjectVector(v r3.Vec) Projection {
	return Projection{
		Main:      v.Dot(d.base.main),
		Secondary: v.Dot(d.base.secondary),
	}
}

// DecomposePoint splits p into its distance from the reference plane
// and its in-plane projection. ComposePoint inverts it.
func (d Decomposer) DecomposePoint(p r3.Vec) (dist float64, proj Projection) {
	return d.PointNormalComponent(p), d.ProjectPoint(p)
}

// DecomposeVector splits v into its normal component and in-plane
// projection. ComposeVector inverts it.
func (d Decomposer) DecomposeVector(v r3.Vec) (norm float64, proj Projection) {
	return d.VectorNormalComponent(v), d.ProjectVector(v)
}

// ComposePoint rebuilds the 3D point at the given distance from the
// reference plane and the given in-plane projection.
func (d Decomposer) ComposePoint(dist float64, proj Projection) r3.Vec {
	return d.origin.Add(d.ComposeVector(dist, proj))
}

// ComposeVector rebuilds the 3D vector with the given normal component
// and in-plane projection.
func (d Decomposer) ComposeVector(norm float64, proj Projection) r3.Vec {
	v := d.base.main.Scale(proj.Main)
	v = v.Add(d.base.secondary.Scale(proj.Secondary))
	return v.Add(d.base.normal.Scale(norm))
}

// roundDir01 snaps direction components within tol of 0 or ±1. Derived
// directions pick up harmless numerical dust; snapping keeps axis
// comparisons exact.
func roundDir01(v r3.Vec, tol float64) r3.Vec {
	return r3.Vec{
		X: round01(v.X, tol),
		Y: round01(v.Y, tol),
		Z: round01(v.Z, tol),
	}
}

func round01(x, tol float64) float64 {
	switch {
	case math.Abs(x) <= tol:
		return 0
	case math.Abs(x-1) <= tol:
		return 1
	case math.Abs(x+1) <= tol:
		return -1
	}
	return x
}

// roundVec0 zeroes components smaller than tol.
func roundVec0(v r3.Vec, tol float64) r3.Vec {
	return r3.Vec{
		X: round0(v.X, tol),
		Y: round0(v.Y, tol),
		Z: round0(v.Z, tol),
	}
}

func round0(x, tol float64) float64 {
	if math.Abs(x) <= tol {
		return 0
	}
	return x
}
