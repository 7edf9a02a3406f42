package geo

import (
	"math"
	"sort"

	"github.com/sabasehrish/larcorealg/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// TPCGeo is one time projection chamber: an ordered stack of wire
// planes plus the chamber's total and active bounding boxes. The drift
// direction and distance are derived from the first plane once the
// post-sorting update ran.
type TPCGeo struct {
	id        TPCID
	planes    []*PlaneGeo
	trans     scene.Transform
	box       Box
	activeBox Box

	driftDir  r3.Vec
	driftDist float64
}

// NewTPCGeo builds a TPC from its placement, total and active boxes and
// its planes, in builder order.
func NewTPCGeo(trans scene.Transform, box, activeBox Box, planes []*PlaneGeo) *TPCGeo {
	return &TPCGeo{planes: planes, trans: trans, box: box, activeBox: activeBox}
}

// UpdateAfterSorting stamps the TPC with its final ID, sorts its planes
// with the given sorter, re-derives every plane and the drift geometry.
func (t *TPCGeo) UpdateAfterSorting(id TPCID, sorter GeoObjectSorter) {
	t.id = id
	sorter.SortPlanes(t.planes)
	for i, p := range t.planes {
		p.UpdateAfterSorting(PlaneID{TPCID: id, Plane: i}, t.box)
	}
	t.updateDrift()
}

// updateDrift points the drift from the middle of the active volume
// toward the first wire plane. The drift distance reaches the far face
// of the active volume.
func (t *TPCGeo) updateDrift() {
	if len(t.planes) == 0 {
		t.driftDir = r3.Vec{}
		t.driftDist = 0
		return
	}
	first := t.planes[0]
	t.driftDir = first.GetNormalDirection().Scale(-1)
	t.driftDist = 0
	for _, corner := range boxCorners(t.activeBox) {
		if d := first.DistanceFromPlane(corner); d > t.driftDist {
			t.driftDist = d
		}
	}
}

// ID returns the TPC's address, authoritative after the post-sorting
// update.
func (t *TPCGeo) ID() TPCID { return t.id }

func (t *TPCGeo) Nplanes() int { return len(t.planes) }

// Plane returns the i-th plane of the TPC.
func (t *TPCGeo) Plane(i int) (*PlaneGeo, error) {
	if i < 0 || i >= len(t.planes) {
		return nil, notFound("plane", PlaneID{TPCID: t.id, Plane: i})
	}
	return t.planes[i], nil
}

// HasPlane reports whether pid addresses a plane of this TPC.
func (t *TPCGeo) HasPlane(pid PlaneID) bool {
	return pid.InTPC(t.id) && pid.Plane >= 0 && pid.Plane < len(t.planes)
}

// Views returns the sorted set of views measured by the TPC's planes.
func (t *TPCGeo) Views() []View {
	seen := map[View]bool{}
	for _, p := range t.planes {
		seen[p.View()] = true
	}
	views := make([]View, 0, len(seen))
	for v := range seen {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i] < views[j] })
	return views
}

// DriftDir is the direction ionization drifts in, from the active
// volume toward the first wire plane.
func (t *TPCGeo) DriftDir() r3.Vec { return t.driftDir }

// DriftDistance is the longest drift any charge in the active volume
// can make.
func (t *TPCGeo) DriftDistance() float64 { return t.driftDist }

// PlanePitch returns the distance between planes p1 and p2, measured
// along the plane normal.
func (t *TPCGeo) PlanePitch(p1, p2 int) (float64, error) {
	a, err := t.Plane(p1)
	if err != nil {
		return 0, err
	}
	b, err := t.Plane(p2)
	if err != nil {
		return 0, err
	}
	return math.Abs(a.DistanceFromPlane(b.GetCenter())), nil
}

func (t *TPCGeo) BoundingBox() Box { return t.box }
func (t *TPCGeo) ActiveBox() Box   { return t.activeBox }

// Half extents and length of the active volume, the conventional
// detector size numbers.
func (t *TPCGeo) ActiveHalfWidth() float64  { return t.activeBox.HalfSizeX() }
func (t *TPCGeo) ActiveHalfHeight() float64 { return t.activeBox.HalfSizeY() }
func (t *TPCGeo) ActiveLength() float64     { return t.activeBox.SizeZ() }

// GetCenter returns the center of the TPC box.
func (t *TPCGeo) GetCenter() r3.Vec { return t.box.Center() }

// GetActiveVolumeCenter returns the center of the active volume.
func (t *TPCGeo) GetActiveVolumeCenter() r3.Vec { return t.activeBox.Center() }

// ContainsPosition reports whether point is inside the TPC box scaled
// by the wiggle factor.
func (t *TPCGeo) ContainsPosition(point r3.Vec, wiggle float64) bool {
	return t.box.ContainsPosition(point, wiggle)
}

// ActiveContainsPosition is ContainsPosition against the active volume.
func (t *TPCGeo) ActiveContainsPosition(point r3.Vec, wiggle float64) bool {
	return t.activeBox.ContainsPosition(point, wiggle)
}

func boxCorners(b Box) [8]r3.Vec {
	lo, hi := b.Min(), b.Max()
	return [8]r3.Vec{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
	}
}
