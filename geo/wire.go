package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WireGeo is one sensing wire: a finite segment with a center, a half
// length and a unit direction. Wires are immutable once built except
// for a single orientation flip the owning plane may apply while it
// normalizes its frame.
type WireGeo struct {
	id     WireID
	center r3.Vec
	dir    r3.Vec
	halfL  float64
}

// NewWireGeo builds a wire. dir need not be normalized.
func NewWireGeo(center, dir r3.Vec, halfL float64) WireGeo {
	return WireGeo{center: center, dir: r3.Unit(dir), halfL: halfL}
}

// ID returns the wire's address. It is authoritative only after the
// owning plane ran its post-sorting update.
func (w *WireGeo) ID() WireID { return w.id }

func (w *WireGeo) Center() r3.Vec     { return w.center }
func (w *WireGeo) Direction() r3.Vec  { return w.dir }
func (w *WireGeo) HalfLength() float64 { return w.halfL }
func (w *WireGeo) Length() float64    { return 2 * w.halfL }

// Start and End are the wire tips; Direction points from Start to End.
func (w *WireGeo) Start() r3.Vec { return w.center.Sub(w.dir.Scale(w.halfL)) }
func (w *WireGeo) End() r3.Vec   { return w.center.Add(w.dir.Scale(w.halfL)) }

// ThetaZ returns the angle between the wire and the z axis, in [0, pi].
func (w *WireGeo) ThetaZ() float64 { return math.Acos(w.dir.Z) }

// PositionFromCenter returns the point at the signed offset along the
// wire, with the offset capped to the wire's extent.
func (w *WireGeo) PositionFromCenter(offset float64) r3.Vec {
	if offset < -w.halfL {
		offset = -w.halfL
	} else if offset > w.halfL {
		offset = w.halfL
	}
	return w.PositionFromCenterUnbounded(offset)
}

// PositionFromCenterUnbounded is PositionFromCenter without the cap;
// the returned point may lie beyond the wire tips.
func (w *WireGeo) PositionFromCenterUnbounded(offset float64) r3.Vec {
	return w.center.Add(w.dir.Scale(offset))
}

// DistanceFrom returns the distance between two parallel wires: the
// length of the separation of their centers once the component along
// the common direction is removed.
func (w *WireGeo) DistanceFrom(other *WireGeo) float64 {
	delta := other.center.Sub(w.center)
	perp := delta.Sub(w.dir.Scale(delta.Dot(w.dir)))
	return r3.Norm(perp)
}

// WirePitch returns the spacing between two parallel wires.
func WirePitch(a, b *WireGeo) float64 { return a.DistanceFrom(b) }

// updateAfterSorting stamps the wire with its final ID and flips its
// direction if the owning plane asks for it.
func (w *WireGeo) updateAfterSorting(id WireID, flip bool) {
	w.id = id
	if flip {
		w.dir = w.dir.Scale(-1)
	}
}
