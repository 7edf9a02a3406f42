package geo

import (
	"github.com/sabasehrish/larcorealg/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// OpDetGeo is one optical detector: a small sensitive solid mounted
// inside a cryostat. Optical detectors take no part in the TPC/plane
// hierarchy; they are addressed by their index within the cryostat.
type OpDetGeo struct {
	name   string
	center r3.Vec
	box    Box
}

// NewOpDetGeo builds an optical detector from its volume name, world
// center and world bounding box.
func NewOpDetGeo(name string, center r3.Vec, box Box) OpDetGeo {
	return OpDetGeo{name: name, center: center, box: box}
}

func (o *OpDetGeo) Name() string      { return o.name }
func (o *OpDetGeo) GetCenter() r3.Vec { return o.center }
func (o *OpDetGeo) BoundingBox() Box  { return o.box }

// DistanceToPoint returns the distance between the detector center and
// point.
func (o *OpDetGeo) DistanceToPoint(point r3.Vec) float64 {
	return r3.Norm(point.Sub(o.center))
}

// CryostatGeo is one cryostat: the ordered TPCs it encloses, the
// optical detectors mounted in it, and its bounding box.
type CryostatGeo struct {
	id     CryostatID
	tpcs   []*TPCGeo
	opDets []OpDetGeo
	trans  scene.Transform
	box    Box
}

// NewCryostatGeo builds a cryostat from its placement, world box, TPCs
// and optical detectors, in builder order.
func NewCryostatGeo(trans scene.Transform, box Box, tpcs []*TPCGeo, opDets []OpDetGeo) *CryostatGeo {
	return &CryostatGeo{tpcs: tpcs, opDets: opDets, trans: trans, box: box}
}

// UpdateAfterSorting stamps the cryostat with its final ID, sorts its
// TPCs and optical detectors, and re-derives every TPC below.
func (c *CryostatGeo) UpdateAfterSorting(id CryostatID, sorter GeoObjectSorter) {
	c.id = id
	sorter.SortTPCs(c.tpcs)
	sorter.SortOpDets(c.opDets)
	for i, t := range c.tpcs {
		t.UpdateAfterSorting(TPCID{CryostatID: id, TPC: i}, sorter)
	}
}

// ID returns the cryostat's address, authoritative after the
// post-sorting update.
func (c *CryostatGeo) ID() CryostatID { return c.id }

func (c *CryostatGeo) NTPC() int    { return len(c.tpcs) }
func (c *CryostatGeo) NOpDets() int { return len(c.opDets) }

// TPC returns the i-th TPC of the cryostat.
func (c *CryostatGeo) TPC(i int) (*TPCGeo, error) {
	if i < 0 || i >= len(c.tpcs) {
		return nil, notFound("TPC", TPCID{CryostatID: c.id, TPC: i})
	}
	return c.tpcs[i], nil
}

// OpDet returns the i-th optical detector of the cryostat.
func (c *CryostatGeo) OpDet(i int) (*OpDetGeo, error) {
	if i < 0 || i >= len(c.opDets) {
		return nil, notFoundIndex("optical detector", i)
	}
	return &c.opDets[i], nil
}

// HasTPC reports whether tid addresses a TPC of this cryostat.
func (c *CryostatGeo) HasTPC(tid TPCID) bool {
	return tid.InCryostat(c.id) && tid.TPC >= 0 && tid.TPC < len(c.tpcs)
}

func (c *CryostatGeo) BoundingBox() Box  { return c.box }
func (c *CryostatGeo) GetCenter() r3.Vec { return c.box.Center() }

// ContainsPosition reports whether point is inside the cryostat box
// scaled by the wiggle factor.
func (c *CryostatGeo) ContainsPosition(point r3.Vec, wiggle float64) bool {
	return c.box.ContainsPosition(point, wiggle)
}

// PositionToTPCptr returns the first TPC containing point under the
// wiggle factor, or nil.
func (c *CryostatGeo) PositionToTPCptr(point r3.Vec, wiggle float64) *TPCGeo {
	for _, t := range c.tpcs {
		if t.ContainsPosition(point, wiggle) {
			return t
		}
	}
	return nil
}

// PositionToTPCID is PositionToTPCptr by ID; when no TPC contains the
// point the result is invalid with InvalidIndex indices.
func (c *CryostatGeo) PositionToTPCID(point r3.Vec, wiggle float64) TPCID {
	if t := c.PositionToTPCptr(point, wiggle); t != nil {
		return t.ID()
	}
	return InvalidTPCID()
}

// GetClosestOpDet returns the index of the optical detector whose
// center is nearest to point, or -1 when the cryostat has none.
func (c *CryostatGeo) GetClosestOpDet(point r3.Vec) int {
	best, bestDist := -1, 0.0
	for i := range c.opDets {
		d := c.opDets[i].DistanceToPoint(point)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
