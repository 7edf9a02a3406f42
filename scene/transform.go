package scene

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an affine placement: a rotation followed by a shift. The
// inverse is kept alongside since point location spends most of its time
// mapping world points down into local frames.
type Transform struct {
	m, inv sdf.M44
}

// Identity returns the do-nothing placement.
func Identity() Transform {
	return Transform{m: sdf.Identity3d(), inv: sdf.Identity3d()}
}

// Translate builds a pure shift.
func Translate(shift r3.Vec) Transform {
	m := sdf.Translate3d(v3.Vec{X: shift.X, Y: shift.Y, Z: shift.Z})
	return Transform{m: m, inv: m.Inverse()}
}

// NewTransform builds a placement out of rotations about the fixed x, y
// and z axes, applied in that order, followed by the shift. Angles are in
// radians.
func NewTransform(shift r3.Vec, rx, ry, rz float64) Transform {
	m := sdf.Translate3d(v3.Vec{X: shift.X, Y: shift.Y, Z: shift.Z})
	m = m.Mul(sdf.RotateZ(rz).Mul(sdf.RotateY(ry).Mul(sdf.RotateX(rx))))
	return Transform{m: m, inv: m.Inverse()}
}

// Point maps a local point into the outer frame.
func (t Transform) Point(p r3.Vec) r3.Vec {
	w := t.m.MulPosition(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
	return r3.Vec{X: w.X, Y: w.Y, Z: w.Z}
}

// Vector maps a local direction into the outer frame. Directions see the
// rotation only, never the shift.
func (t Transform) Vector(d r3.Vec) r3.Vec {
	o := t.m.MulPosition(v3.Vec{})
	w := t.m.MulPosition(v3.Vec{X: d.X, Y: d.Y, Z: d.Z})
	return r3.Vec{X: w.X - o.X, Y: w.Y - o.Y, Z: w.Z - o.Z}
}

// PointInv maps an outer-frame point into the local frame.
func (t Transform) PointInv(p r3.Vec) r3.Vec {
	w := t.inv.MulPosition(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
	return r3.Vec{X: w.X, Y: w.Y, Z: w.Z}
}

// VectorInv maps an outer-frame direction into the local frame.
func (t Transform) VectorInv(d r3.Vec) r3.Vec {
	o := t.inv.MulPosition(v3.Vec{})
	w := t.inv.MulPosition(v3.Vec{X: d.X, Y: d.Y, Z: d.Z})
	return r3.Vec{X: w.X - o.X, Y: w.Y - o.Y, Z: w.Z - o.Z}
}

// Mul composes placements: t.Mul(u).Point(p) == t.Point(u.Point(p)).
func (t Transform) Mul(u Transform) Transform {
	return Transform{m: t.m.Mul(u.m), inv: u.inv.Mul(t.inv)}
}
