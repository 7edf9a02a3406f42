package geo

import (
	"math"

	"github.com/sabasehrish/larcorealg/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Direction components this close to 0 or +-1 are snapped; coordinates
// this close to 0 are zeroed. Derived axes of axis-aligned planes come
// out exact this way.
const (
	dirTol   = 1e-6
	coordTol = 1e-7
)

// PlaneGeo is one wire plane: an ordered stack of parallel wires plus
// the coordinate machinery derived from them. Two decompositions are
// maintained, both sharing the plane normal. The wire base follows the
// wires (main = wire direction, secondary = direction of increasing
// wire number) and is what signal processing wants. The frame base
// follows the plane's bounding solid (width and depth) and is what
// containment checks want.
//
// A freshly built plane carries provisional state; every derived
// quantity is only authoritative after UpdateAfterSorting ran.
type PlaneGeo struct {
	id    PlaneID
	wires []WireGeo
	trans scene.Transform
	box   Box

	normal      r3.Vec
	decompWire  Decomposer
	decompFrame Decomposer
	center      r3.Vec
	halfWidth   float64
	halfDepth   float64
	active      ActiveArea
	pitch       float64

	view   View
	orient Orientation

	phiZ, sinPhiZ, cosPhiZ float64
}

// NewPlaneGeo builds a plane from its placement, its world-frame
// bounding box and its wires, in builder order. The result is not
// queryable until UpdateAfterSorting runs.
func NewPlaneGeo(trans scene.Transform, box Box, wires []WireGeo) *PlaneGeo {
	return &PlaneGeo{wires: wires, trans: trans, box: box, view: ViewUnknown}
}

// UpdateAfterSorting stamps the plane and its wires with their final
// IDs and re-derives every quantity that depends on wire order or on
// the containing TPC. tpcBox is the box of the owning TPC, needed to
// point the normal toward the TPC inside.
func (p *PlaneGeo) UpdateAfterSorting(id PlaneID, tpcBox Box) {
	p.id = id
	p.updatePlaneNormal(tpcBox)
	p.updateWireBase()
	p.updateWirePitch()
	p.updateWirePlaneCenter()
	p.updateFrameBase()
	p.updatePhiZ()
	p.updateView()
	p.updateOrientation()
	p.updateActiveArea()
}

// ID returns the plane's address, authoritative after the post-sorting
// update.
func (p *PlaneGeo) ID() PlaneID { return p.id }

func (p *PlaneGeo) NWires() int { return len(p.wires) }

// Wire returns the i-th wire of the plane.
func (p *PlaneGeo) Wire(i int) (*WireGeo, error) {
	if i < 0 || i >= len(p.wires) {
		return nil, notFound("wire", WireID{PlaneID: p.id, Wire: i})
	}
	return &p.wires[i], nil
}

// FirstWire and LastWire exist on any non-empty plane.
func (p *PlaneGeo) FirstWire() *WireGeo { return &p.wires[0] }
func (p *PlaneGeo) LastWire() *WireGeo  { return &p.wires[len(p.wires)-1] }

func (p *PlaneGeo) View() View               { return p.view }
func (p *PlaneGeo) Orientation() Orientation { return p.orient }

// WirePitch returns the spacing between adjacent wire centers.
func (p *PlaneGeo) WirePitch() float64 { return p.pitch }

// PhiZ is the angle of the wire coordinate direction (the direction of
// increasing wire number) from the z axis in the (y, z) plane. SinPhiZ
// and CosPhiZ are cached because the multi-view slope algebra consumes
// them in bulk.
func (p *PlaneGeo) PhiZ() float64    { return p.phiZ }
func (p *PlaneGeo) SinPhiZ() float64 { return p.sinPhiZ }
func (p *PlaneGeo) CosPhiZ() float64 { return p.cosPhiZ }

// ThetaZ is the angle of the wires from the z axis.
func (p *PlaneGeo) ThetaZ() float64 { return math.Acos(p.decompWire.MainDir().Z) }

func (p *PlaneGeo) GetNormalDirection() r3.Vec  { return p.normal }
func (p *PlaneGeo) GetWireDirection() r3.Vec    { return p.decompWire.MainDir() }
func (p *PlaneGeo) GetIncreasingWireDirection() r3.Vec {
	return p.decompWire.SecondaryDir()
}

// GetCenter returns the reference center of the plane: on the wire
// plane exactly, at the bounding box center in width and depth.
func (p *PlaneGeo) GetCenter() r3.Vec { return p.center }

// GetBoxCenter returns the center of the bounding solid, which for a
// thick plane solid need not lie on the wire plane itself.
func (p *PlaneGeo) GetBoxCenter() r3.Vec { return p.box.Center() }

func (p *PlaneGeo) WidthDir() r3.Vec { return p.decompFrame.MainDir() }
func (p *PlaneGeo) DepthDir() r3.Vec { return p.decompFrame.SecondaryDir() }
func (p *PlaneGeo) Width() float64   { return 2 * p.halfWidth }
func (p *PlaneGeo) Depth() float64   { return 2 * p.halfDepth }

func (p *PlaneGeo) BoundingBox() Box { return p.box }

// ActiveArea returns the width/depth rectangle actually covered by
// wires, relative to GetCenter and shrunk by half a pitch on each side.
func (p *PlaneGeo) ActiveArea() ActiveArea { return p.active }

// WireDecomposer and FrameDecomposer expose the two coordinate
// decompositions for callers that want the raw projection machinery.
func (p *PlaneGeo) WireDecomposer() Decomposer  { return p.decompWire }
func (p *PlaneGeo) FrameDecomposer() Decomposer { return p.decompFrame }

// ToWorldPoint and friends map between the plane solid's local frame
// and world coordinates.
func (p *PlaneGeo) ToWorldPoint(l r3.Vec) r3.Vec  { return p.trans.Point(l) }
func (p *PlaneGeo) ToLocalPoint(w r3.Vec) r3.Vec  { return p.trans.PointInv(w) }
func (p *PlaneGeo) ToWorldVector(l r3.Vec) r3.Vec { return p.trans.Vector(l) }
func (p *PlaneGeo) ToLocalVector(w r3.Vec) r3.Vec { return p.trans.VectorInv(w) }

// DistanceFromPlane returns the signed distance of point from the wire
// plane, positive on the side the normal points to.
func (p *PlaneGeo) DistanceFromPlane(point r3.Vec) float64 {
	return p.decompWire.PointNormalComponent(point)
}

// DriftPoint shifts position by distance along the negative normal,
// the way a drifting ionization electron moves toward the plane.
func (p *PlaneGeo) DriftPoint(position r3.Vec, distance float64) r3.Vec {
	return position.Sub(p.normal.Scale(distance))
}

// DriftPointToPlane drops position straight onto the wire plane.
func (p *PlaneGeo) DriftPointToPlane(position r3.Vec) r3.Vec {
	return p.DriftPoint(position, p.DistanceFromPlane(position))
}

// Projection returns the in-plane wire-base coordinates of point:
// Main along the wires, Secondary along increasing wire number.
func (p *PlaneGeo) Projection(point r3.Vec) Projection {
	return p.decompWire.ProjectPoint(point)
}

// VectorProjection is Projection for a displacement.
func (p *PlaneGeo) VectorProjection(v r3.Vec) Projection {
	return p.decompWire.ProjectVector(v)
}

// ComposePoint rebuilds a world point from its distance from the wire
// plane and its wire-base projection; it inverts DecomposePoint.
func (p *PlaneGeo) ComposePoint(drift float64, proj Projection) r3.Vec {
	return p.decompWire.ComposePoint(drift, proj)
}

// DecomposePoint splits point into (distance from plane, wire-base
// projection).
func (p *PlaneGeo) DecomposePoint(point r3.Vec) (float64, Projection) {
	return p.decompWire.DecomposePoint(point)
}

// WireCoordinate returns the wire-number coordinate of point: the
// continuous wire index its projection falls on, 0 at wire 0, growing
// by one every pitch.
func (p *PlaneGeo) WireCoordinate(point r3.Vec) float64 {
	return p.decompWire.ProjectPoint(point).Secondary / p.pitch
}

// NearestWireNumber returns the in-range wire number closest to the
// projection of point, and whether the unclamped nearest number was in
// range at all. The false case flags "outside the active plane" while
// still handing back a usable wire.
func (p *PlaneGeo) NearestWireNumber(point r3.Vec) (int, bool) {
	if p.pitch <= 0 {
		// Fewer than two wires leave no pitch to divide by.
		return 0, false
	}
	w := int(math.Round(p.WireCoordinate(point)))
	if w < 0 {
		return 0, false
	}
	if w >= len(p.wires) {
		return len(p.wires) - 1, false
	}
	return w, true
}

// NearestWireID is NearestWireNumber wrapped into a full wire ID.
func (p *PlaneGeo) NearestWireID(point r3.Vec) (WireID, bool) {
	w, ok := p.NearestWireNumber(point)
	return WireID{PlaneID: p.id, Wire: w}, ok
}

// InterWireProjectedDistance returns the distance covered along the
// given in-plane direction from one wire to the next. The result grows
// without bound, possibly to +Inf, as the direction approaches the
// wire direction; callers must check.
func (p *PlaneGeo) InterWireProjectedDistance(projDir Projection) float64 {
	return p.pitch * projDir.Length() / math.Abs(projDir.Secondary)
}

// InterWireDistance is InterWireProjectedDistance for a full 3D
// direction: the 3D length covered along dir per wire crossed.
func (p *PlaneGeo) InterWireDistance(dir r3.Vec) float64 {
	return p.pitch * r3.Norm(dir) /
		math.Abs(dir.Dot(p.decompWire.SecondaryDir()))
}

// WidthDepthProjection returns the frame-base coordinates of point:
// Main along width, Secondary along depth, relative to GetCenter.
func (p *PlaneGeo) WidthDepthProjection(point r3.Vec) Projection {
	return p.decompFrame.ProjectPoint(point)
}

// ComposeFramePoint inverts the frame-base decomposition.
func (p *PlaneGeo) ComposeFramePoint(drift float64, proj Projection) r3.Vec {
	return p.decompFrame.ComposePoint(drift, proj)
}

// DecomposeFramePoint splits point into (distance from plane,
// frame-base projection).
func (p *PlaneGeo) DecomposeFramePoint(point r3.Vec) (float64, Projection) {
	return p.decompFrame.DecomposePoint(point)
}

// DeltaFromPlane returns the shift, in frame coordinates, that brings
// proj inside the plane frame shrunk by margin on every side. A zero
// delta means the projection is already inside.
func (p *PlaneGeo) DeltaFromPlane(proj Projection, margin float64) Projection {
	w := Range{Lower: -p.halfWidth, Upper: p.halfWidth}
	d := Range{Lower: -p.halfDepth, Upper: p.halfDepth}
	return Projection{
		Main:      w.delta(proj.Main, margin),
		Secondary: d.delta(proj.Secondary, margin),
	}
}

// DeltaFromActivePlane is DeltaFromPlane against the active area
// instead of the full frame.
func (p *PlaneGeo) DeltaFromActivePlane(proj Projection, margin float64) Projection {
	return Projection{
		Main:      p.active.Width.delta(proj.Main, margin),
		Secondary: p.active.Depth.delta(proj.Secondary, margin),
	}
}

// IsProjectionOnPlane reports whether point, projected on the plane,
// falls within the plane frame.
func (p *PlaneGeo) IsProjectionOnPlane(point r3.Vec) bool {
	d := p.DeltaFromPlane(p.WidthDepthProjection(point), 0)
	return d.Main == 0 && d.Secondary == 0
}

// MovePointOverPlane returns point shifted parallel to the plane by
// the smallest amount that puts its projection inside the plane frame.
// The distance from the plane is preserved.
func (p *PlaneGeo) MovePointOverPlane(point r3.Vec) r3.Vec {
	d := p.DeltaFromPlane(p.WidthDepthProjection(point), 0)
	shift := p.decompFrame.MainDir().Scale(d.Main)
	shift = shift.Add(p.decompFrame.SecondaryDir().Scale(d.Secondary))
	return point.Add(shift)
}

// --- derivation steps -------------------------------------------------

// updatePlaneNormal fixes the plane normal: perpendicular to the wires
// and to the direction the wires stack in, signed so it points at the
// inside of the owning TPC.
func (p *PlaneGeo) updatePlaneNormal(tpcBox Box) {
	var n r3.Vec
	if len(p.wires) >= 2 {
		wireDir := p.wires[0].Direction()
		toLast := p.LastWire().Center().Sub(p.FirstWire().Center())
		n = wireDir.Cross(toLast)
	}
	if r3.Norm(n) < dirTol {
		// One wire or a degenerate stack: fall back on the thinnest
		// axis of the plane box.
		n = thinnestAxis(p.box)
	}
	n = r3.Unit(n)
	toTPC := tpcBox.Center().Sub(p.box.Center())
	if n.Dot(toTPC) < 0 {
		n = n.Scale(-1)
	}
	p.normal = roundDir01(n, dirTol)
}

func thinnestAxis(b Box) r3.Vec {
	sx, sy, sz := b.SizeX(), b.SizeY(), b.SizeZ()
	switch {
	case sx <= sy && sx <= sz:
		return r3.Vec{X: 1}
	case sy <= sz:
		return r3.Vec{Y: 1}
	}
	return r3.Vec{Z: 1}
}

// updateWireBase derives the wire decomposition: secondary axis from
// normal x wire direction flipped toward growing wire numbers, main
// axis signed so the triple stays right handed with the plane normal,
// and every wire flipped onto the main axis.
func (p *PlaneGeo) updateWireBase() {
	if len(p.wires) == 0 {
		p.decompWire = NewDecomposer(p.box.Center(), anyOrthogonal(p.normal), p.normal.Cross(anyOrthogonal(p.normal)))
		return
	}
	wireDir := p.wires[0].Direction()
	incr := r3.Unit(p.normal.Cross(wireDir))
	if len(p.wires) >= 2 {
		off := p.LastWire().Center().Sub(p.FirstWire().Center())
		if incr.Dot(off) < 0 {
			incr = incr.Scale(-1)
		}
	}
	main := wireDir
	if main.Cross(incr).Dot(p.normal) < 0 {
		main = main.Scale(-1)
	}
	main = roundDir01(main, dirTol)
	incr = roundDir01(incr, dirTol)

	for i := range p.wires {
		w := &p.wires[i]
		flip := w.Direction().Dot(main) < 0
		w.updateAfterSorting(WireID{PlaneID: p.id, Wire: i}, flip)
	}
	p.decompWire = NewDecomposer(p.wires[0].Center(), main, incr)
}

func anyOrthogonal(v r3.Vec) r3.Vec {
	ref := r3.Vec{X: 1}
	if math.Abs(v.X) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	return r3.Unit(v.Cross(ref))
}

// updateWirePitch measures the pitch from the first adjacent wire
// pair, falling back on a scan of every pair when the plane has few
// wires or the fast answer disagrees with the far end of the stack.
func (p *PlaneGeo) updateWirePitch() {
	n := len(p.wires)
	if n < 2 {
		p.pitch = 0
		return
	}
	incr := p.decompWire.SecondaryDir()
	first := p.wires[1].Center().Sub(p.wires[0].Center()).Dot(incr)
	last := p.wires[n-1].Center().Sub(p.wires[n-2].Center()).Dot(incr)
	if n < 3 || first < dirTol || math.Abs(last-first) > 1e-4*first {
		p.updateWirePitchSlow()
		return
	}
	p.pitch = first
}

// updateWirePitchSlow takes the smallest positive spacing over every
// adjacent pair. Slower, but robust against irregular layouts.
func (p *PlaneGeo) updateWirePitchSlow() {
	incr := p.decompWire.SecondaryDir()
	best := math.Inf(+1)
	for i := 1; i < len(p.wires); i++ {
		d := p.wires[i].Center().Sub(p.wires[i-1].Center()).Dot(incr)
		if d > dirTol && d < best {
			best = d
		}
	}
	if math.IsInf(best, +1) {
		best = 0
	}
	p.pitch = best
}

// updateWirePlaneCenter drops the box center onto the wire plane, so
// the reference center has zero out-of-plane coordinate while keeping
// the box's width/depth location.
func (p *PlaneGeo) updateWirePlaneCenter() {
	c := p.box.Center()
	if len(p.wires) > 0 {
		c = c.Sub(p.normal.Scale(p.DistanceFromPlane(c)))
	}
	p.center = roundVec0(c, coordTol)
}

// updateFrameBase picks the frame axes from the plane box: width along
// the largest in-plane box extent, depth along the other, with depth
// flipped so width x depth agrees with the wire-base normal.
func (p *PlaneGeo) updateFrameBase() {
	axes := [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	sizes := [3]float64{p.box.SizeX(), p.box.SizeY(), p.box.SizeZ()}

	// The axis most parallel to the normal is out of the running.
	ni := 0
	na := math.Abs(p.normal.X)
	if a := math.Abs(p.normal.Y); a > na {
		ni, na = 1, a
	}
	if a := math.Abs(p.normal.Z); a > na {
		ni = 2
	}
	var in [2]int
	k := 0
	for i := 0; i < 3; i++ {
		if i != ni {
			in[k] = i
			k++
		}
	}
	wi, di := in[0], in[1]
	if sizes[di] > sizes[wi] {
		wi, di = di, wi
	}

	width, depth := axes[wi], axes[di]
	if width.Cross(depth).Dot(p.normal) < 0 {
		depth = depth.Scale(-1)
	}
	p.halfWidth = 0.5 * sizes[wi]
	p.halfDepth = 0.5 * sizes[di]
	p.decompFrame = NewDecomposer(p.center, width, depth)
}

func (p *PlaneGeo) updatePhiZ() {
	incr := p.decompWire.SecondaryDir()
	p.sinPhiZ, p.cosPhiZ = incr.Y, incr.Z
	p.phiZ = math.Atan2(p.sinPhiZ, p.cosPhiZ)
}

// updateView classifies what the wires measure. The wire direction is
// first normalized into the +z hemisphere so the classification does
// not depend on the wires' internal orientation.
func (p *PlaneGeo) updateView() {
	if len(p.wires) == 0 {
		p.view = ViewUnknown
		return
	}
	dir := p.decompWire.MainDir()
	if dir.Z < 0 || (dir.Z == 0 && dir.Y < 0) {
		dir = dir.Scale(-1)
	}
	const axisTol = 1e-4
	switch {
	case math.Abs(dir.Y) > 1-axisTol:
		p.view = ViewZ // vertical wires measure z
	case math.Abs(dir.Z) > 1-axisTol:
		p.view = ViewY // horizontal wires measure y
	case dir.Y > 0:
		p.view = ViewU
	case dir.Y < 0:
		p.view = ViewV
	default:
		p.view = ViewUnknown
	}
}

// updateOrientation tags the plane by where its normal points: a
// y-dominated normal means the plane lies flat.
func (p *PlaneGeo) updateOrientation() {
	if math.Abs(p.normal.Y) > math.Abs(p.normal.X) &&
		math.Abs(p.normal.Y) > math.Abs(p.normal.Z) {
		p.orient = Horizontal
		return
	}
	p.orient = Vertical
}

// updateActiveArea covers the projected endpoints of every wire with
// the smallest width/depth rectangle, then shaves half a pitch off
// every side.
func (p *PlaneGeo) updateActiveArea() {
	if len(p.wires) == 0 {
		p.active = ActiveArea{}
		return
	}
	wlo, whi := math.Inf(+1), math.Inf(-1)
	dlo, dhi := math.Inf(+1), math.Inf(-1)
	for i := range p.wires {
		for _, end := range [2]r3.Vec{p.wires[i].Start(), p.wires[i].End()} {
			proj := p.decompFrame.ProjectPoint(end)
			wlo = minf(wlo, proj.Main)
			whi = maxf(whi, proj.Main)
			dlo = minf(dlo, proj.Secondary)
			dhi = maxf(dhi, proj.Secondary)
		}
	}
	half := 0.5 * p.pitch
	p.active = ActiveArea{
		Width: Range{Lower: wlo + half, Upper: whi - half},
		Depth: Range{Lower: dlo + half, Upper: dhi - half},
	}
}
