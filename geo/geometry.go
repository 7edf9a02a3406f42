package geo

import (
	"fmt"
	"iter"
	"log"
	"math"

	"github.com/sabasehrish/larcorealg/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultWiggle is the default fractional tolerance of bounding box
// containment tests.
const DefaultWiggle = 1e-4

// InvalidOpDetID is the sentinel for "no optical detector found".
const InvalidOpDetID = ^uint32(0)

// massSampleStep is the sampling step of column density integration,
// in cm.
const massSampleStep = 0.1

// GeometryCore is the indexed detector model: it owns every cryostat,
// TPC, plane, wire and auxiliary detector built from a scene tree, and
// answers the spatial, topological and channel-indirection queries of
// the package.
//
// The model is rebuilt wholesale by LoadGeometry, never patched. After
// LoadGeometry and ApplyChannelMap complete, every query is pure and
// safe for any number of concurrent readers; the load itself must not
// race with queries, and the model takes no lock to prevent it.
type GeometryCore struct {
	name     string
	surfaceY float64
	wiggle   float64

	world    *scene.Node
	worldBox Box

	cryostats []*CryostatGeo
	auxDets   []*AuxDetGeo

	chanMap ChannelMap

	// Flat optical channel numbering across cryostats, rebuilt on
	// every ApplyChannelMap.
	opDetFirst []int
	opDetCryo  []int
}

// NewGeometryCore returns an empty model with the default wiggle.
// LoadGeometry and ApplyChannelMap make it queryable.
func NewGeometryCore(name string) *GeometryCore {
	return &GeometryCore{name: name, wiggle: DefaultWiggle}
}

// LoadDescription builds a complete, queryable model from a gcfg
// detector description file, using the standard builder, sorter and
// channel map.
func LoadDescription(fname string) (*GeometryCore, error) {
	cfg, err := scene.LoadConfig(fname)
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg)
}

// LoadDescriptionString is LoadDescription for an in-memory
// description.
func LoadDescriptionString(text string) (*GeometryCore, error) {
	cfg, err := scene.LoadConfigString(text)
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg)
}

func fromConfig(cfg *scene.DescConfig) (*GeometryCore, error) {
	world, err := scene.Build(cfg)
	if err != nil {
		return nil, err
	}
	g := NewGeometryCore(cfg.World.Name)
	g.surfaceY = cfg.World.SurfaceY
	if err := g.LoadGeometry(world, StandardBuilder{}, StandardSorter{}); err != nil {
		return nil, err
	}
	g.ApplyChannelMap(NewStandardChannelMap(g.cryostats))
	return g, nil
}

// LoadGeometry replaces the whole model with the elements the builder
// extracts from world, then sorts, relabels and re-derives everything.
// Queries are legal only after it returns (and, for channel queries,
// after ApplyChannelMap).
func (g *GeometryCore) LoadGeometry(world *scene.Node, builder GeometryBuilder, sorter GeoObjectSorter) error {
	if world == nil {
		return &NotFoundError{What: "volume", ID: "world"}
	}
	g.world = world
	g.worldBox = nodeWorldBox(world.Placement(), world)
	g.chanMap = nil
	g.opDetFirst, g.opDetCryo = nil, nil

	path := []*scene.Node{world}
	g.cryostats = builder.ExtractCryostats(path)
	g.auxDets = builder.ExtractAuxDets(path)
	if len(g.cryostats) == 0 {
		return &NotFoundError{What: "volume", ID: "volCryostat*"}
	}
	g.SortGeometry(sorter)
	return nil
}

// SortGeometry runs the sorter over every container and then the
// relabel/derive pass that makes IDs and plane geometry authoritative.
func (g *GeometryCore) SortGeometry(sorter GeoObjectSorter) {
	sorter.SortAuxDets(g.auxDets)
	sorter.SortCryostats(g.cryostats)
	for i, c := range g.cryostats {
		c.UpdateAfterSorting(NewCryostatID(i), sorter)
	}
}

// ApplyChannelMap hands the model the channel map to answer readout
// queries with, and rebuilds the model-owned optical channel tables.
func (g *GeometryCore) ApplyChannelMap(m ChannelMap) {
	g.chanMap = m
	g.opDetFirst = make([]int, len(g.cryostats)+1)
	g.opDetCryo = g.opDetCryo[:0]
	for i, c := range g.cryostats {
		g.opDetFirst[i+1] = g.opDetFirst[i] + c.NOpDets()
		for j := 0; j < c.NOpDets(); j++ {
			g.opDetCryo = append(g.opDetCryo, i)
		}
	}
}

// DetectorName returns the name the description gave the detector.
func (g *GeometryCore) DetectorName() string { return g.name }

// WorldVolumeName returns the name of the outermost scene volume.
func (g *GeometryCore) WorldVolumeName() string {
	if g.world == nil {
		return ""
	}
	return g.world.Name()
}

// SurfaceY is the depth coordinate of the ground surface above the
// detector.
func (g *GeometryCore) SurfaceY() float64 { return g.surfaceY }

// WorldBox returns the bounding box of the world volume.
func (g *GeometryCore) WorldBox() Box { return g.worldBox }

// PositionWiggle returns the fractional containment tolerance in use.
func (g *GeometryCore) PositionWiggle() float64 { return g.wiggle }

// SetPositionWiggle changes the containment tolerance. Not safe while
// queries are in flight.
func (g *GeometryCore) SetPositionWiggle(w float64) { g.wiggle = w }

// --- counts (SiblingCounts) -------------------------------------------

func (g *GeometryCore) Ncryostats() int { return len(g.cryostats) }

func (g *GeometryCore) NTPCs(cid CryostatID) int {
	if cid.Cryostat < 0 || cid.Cryostat >= len(g.cryostats) {
		return 0
	}
	return g.cryostats[cid.Cryostat].NTPC()
}

func (g *GeometryCore) Nplanes(tid TPCID) int {
	t, err := g.TPC(tid)
	if err != nil {
		return 0
	}
	return t.Nplanes()
}

func (g *GeometryCore) Nwires(pid PlaneID) int {
	p, err := g.Plane(pid)
	if err != nil {
		return 0
	}
	return p.NWires()
}

// TotalNTPCs counts TPCs across all cryostats.
func (g *GeometryCore) TotalNTPCs() int {
	n := 0
	for _, c := range g.cryostats {
		n += c.NTPC()
	}
	return n
}

// Nviews counts the distinct views measured anywhere in the detector.
func (g *GeometryCore) Nviews() int {
	seen := map[View]bool{}
	for p := range g.Planes() {
		seen[p.View()] = true
	}
	return len(seen)
}

// Nchannels returns the channel count of the applied channel map.
func (g *GeometryCore) Nchannels() int {
	if g.chanMap == nil {
		return 0
	}
	return g.chanMap.Nchannels()
}

func (g *GeometryCore) NAuxDets() int { return len(g.auxDets) }

// NOpDetsTotal counts optical detectors across all cryostats.
func (g *GeometryCore) NOpDetsTotal() int {
	if len(g.opDetFirst) == 0 {
		return 0
	}
	return g.opDetFirst[len(g.opDetFirst)-1]
}

// --- element access -----------------------------------------------------

// Cryostat returns the cryostat addressed by cid.
func (g *GeometryCore) Cryostat(cid CryostatID) (*CryostatGeo, error) {
	if cid.Cryostat < 0 || cid.Cryostat >= len(g.cryostats) {
		return nil, notFound("cryostat", cid)
	}
	return g.cryostats[cid.Cryostat], nil
}

// TPC returns the TPC addressed by tid.
func (g *GeometryCore) TPC(tid TPCID) (*TPCGeo, error) {
	c, err := g.Cryostat(tid.CryostatID)
	if err != nil {
		return nil, err
	}
	t, err := c.TPC(tid.TPC)
	if err != nil {
		return nil, notFound("TPC", tid)
	}
	return t, nil
}

// Plane returns the plane addressed by pid.
func (g *GeometryCore) Plane(pid PlaneID) (*PlaneGeo, error) {
	t, err := g.TPC(pid.TPCID)
	if err != nil {
		return nil, err
	}
	p, err := t.Plane(pid.Plane)
	if err != nil {
		return nil, notFound("plane", pid)
	}
	return p, nil
}

// Wire returns the wire addressed by wid.
func (g *GeometryCore) Wire(wid WireID) (*WireGeo, error) {
	p, err := g.Plane(wid.PlaneID)
	if err != nil {
		return nil, err
	}
	w, err := p.Wire(wid.Wire)
	if err != nil {
		return nil, notFound("wire", wid)
	}
	return w, nil
}

// AuxDet returns the i-th auxiliary detector.
func (g *GeometryCore) AuxDet(i int) (*AuxDetGeo, error) {
	if i < 0 || i >= len(g.auxDets) {
		return nil, notFoundIndex("auxiliary detector", i)
	}
	return g.auxDets[i], nil
}

// AuxDets returns the flat, sorted auxiliary detector list. The slice
// is owned by the model; callers must not keep it across reloads.
func (g *GeometryCore) AuxDets() []*AuxDetGeo { return g.auxDets }

func (g *GeometryCore) HasCryostat(cid CryostatID) bool {
	return cid.IsValid() && cid.Cryostat >= 0 && cid.Cryostat < len(g.cryostats)
}

func (g *GeometryCore) HasTPC(tid TPCID) bool {
	return tid.IsValid() && tid.TPC >= 0 && tid.TPC < g.NTPCs(tid.CryostatID)
}

func (g *GeometryCore) HasPlane(pid PlaneID) bool {
	return pid.IsValid() && pid.Plane >= 0 && pid.Plane < g.Nplanes(pid.TPCID)
}

func (g *GeometryCore) HasWire(wid WireID) bool {
	return wid.IsValid() && wid.Wire >= 0 && wid.Wire < g.Nwires(wid.PlaneID)
}

// --- ID range generation ------------------------------------------------

func (g *GeometryCore) GetBeginCryostatID() CryostatID   { return BeginCryostatID() }
func (g *GeometryCore) GetEndCryostatID() CryostatID     { return EndCryostatID(g) }
func (g *GeometryCore) GetBeginTPCID(c CryostatID) TPCID { return BeginTPCID(c) }
func (g *GeometryCore) GetEndTPCID(c CryostatID) TPCID   { return EndTPCID(c, g) }
func (g *GeometryCore) GetBeginPlaneID(t TPCID) PlaneID  { return BeginPlaneID(t) }
func (g *GeometryCore) GetEndPlaneID(t TPCID) PlaneID    { return EndPlaneID(t, g) }
func (g *GeometryCore) GetBeginWireID(p PlaneID) WireID  { return BeginWireID(p) }
func (g *GeometryCore) GetEndWireID(p PlaneID) WireID    { return EndWireID(p, g) }

// --- iteration ------------------------------------------------------------

// Cryostats iterates every cryostat in ID order. The sequence is lazy
// and restartable; each range starts over.
func (g *GeometryCore) Cryostats() iter.Seq[*CryostatGeo] {
	return func(yield func(*CryostatGeo) bool) {
		for _, c := range g.cryostats {
			if !yield(c) {
				return
			}
		}
	}
}

// TPCs iterates every TPC in ID order.
func (g *GeometryCore) TPCs() iter.Seq[*TPCGeo] {
	return func(yield func(*TPCGeo) bool) {
		for _, c := range g.cryostats {
			for i := 0; i < c.NTPC(); i++ {
				t, _ := c.TPC(i)
				if !yield(t) {
					return
				}
			}
		}
	}
}

// Planes iterates every plane in ID order.
func (g *GeometryCore) Planes() iter.Seq[*PlaneGeo] {
	return func(yield func(*PlaneGeo) bool) {
		for t := range g.TPCs() {
			for i := 0; i < t.Nplanes(); i++ {
				p, _ := t.Plane(i)
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Wires iterates every wire in ID order.
func (g *GeometryCore) Wires() iter.Seq[*WireGeo] {
	return func(yield func(*WireGeo) bool) {
		for p := range g.Planes() {
			for i := 0; i < p.NWires(); i++ {
				w, _ := p.Wire(i)
				if !yield(w) {
					return
				}
			}
		}
	}
}

// CryostatIDs iterates every valid cryostat ID in order.
func (g *GeometryCore) CryostatIDs() iter.Seq[CryostatID] {
	return func(yield func(CryostatID) bool) {
		for c := range g.Cryostats() {
			if !yield(c.ID()) {
				return
			}
		}
	}
}

// TPCIDs iterates every valid TPC ID in order.
func (g *GeometryCore) TPCIDs() iter.Seq[TPCID] {
	return func(yield func(TPCID) bool) {
		for t := range g.TPCs() {
			if !yield(t.ID()) {
				return
			}
		}
	}
}

// PlaneIDs iterates every valid plane ID in order.
func (g *GeometryCore) PlaneIDs() iter.Seq[PlaneID] {
	return func(yield func(PlaneID) bool) {
		for p := range g.Planes() {
			if !yield(p.ID()) {
				return
			}
		}
	}
}

// WireIDs iterates every valid wire ID in order.
func (g *GeometryCore) WireIDs() iter.Seq[WireID] {
	return func(yield func(WireID) bool) {
		for w := range g.Wires() {
			if !yield(w.ID()) {
				return
			}
		}
	}
}

// --- position queries -------------------------------------------------

// PositionToCryostatPtr returns the first cryostat, in ID order, whose
// box contains point under the wiggle tolerance, or nil.
func (g *GeometryCore) PositionToCryostatPtr(point r3.Vec) *CryostatGeo {
	for _, c := range g.cryostats {
		if c.ContainsPosition(point, 1+g.wiggle) {
			return c
		}
	}
	return nil
}

// PositionToCryostatID returns the ID of the cryostat containing
// point; the ID is invalid, with an InvalidIndex index, when no
// cryostat does.
func (g *GeometryCore) PositionToCryostatID(point r3.Vec) CryostatID {
	if c := g.PositionToCryostatPtr(point); c != nil {
		return c.ID()
	}
	return InvalidCryostatID()
}

// PositionToCryostat is the hard-failing variant for callers that know
// the point must be inside the detector.
func (g *GeometryCore) PositionToCryostat(point r3.Vec) (*CryostatGeo, error) {
	if c := g.PositionToCryostatPtr(point); c != nil {
		return c, nil
	}
	return nil, &NotFoundError{What: "cryostat at position", ID: vecString(point)}
}

// PositionToTPCptr returns the TPC containing point, or nil.
func (g *GeometryCore) PositionToTPCptr(point r3.Vec) *TPCGeo {
	if c := g.PositionToCryostatPtr(point); c != nil {
		return c.PositionToTPCptr(point, 1+g.wiggle)
	}
	return nil
}

// PositionToTPCID returns the ID of the TPC containing point; fully
// invalid, with InvalidIndex indices, when no TPC contains the point.
func (g *GeometryCore) PositionToTPCID(point r3.Vec) TPCID {
	if t := g.PositionToTPCptr(point); t != nil {
		return t.ID()
	}
	return InvalidTPCID()
}

// PositionToTPC is the hard-failing variant of PositionToTPCptr.
func (g *GeometryCore) PositionToTPC(point r3.Vec) (*TPCGeo, error) {
	if t := g.PositionToTPCptr(point); t != nil {
		return t, nil
	}
	return nil, &NotFoundError{What: "TPC at position", ID: vecString(point)}
}

// FindTPCAtPosition is PositionToTPCID with a partial result: when a
// cryostat contains the point but none of its TPCs does, the returned
// ID is invalid but still carries the cryostat index. A point outside
// every cryostat yields the fully invalid ID instead, whose
// InvalidIndex cryostat index keeps the two cases distinct values.
func (g *GeometryCore) FindTPCAtPosition(point r3.Vec) TPCID {
	c := g.PositionToCryostatPtr(point)
	if c == nil {
		return InvalidTPCID()
	}
	tid := c.PositionToTPCID(point, 1+g.wiggle)
	if tid.IsValid() {
		return tid
	}
	tid.Cryostat = c.ID().Cryostat
	return tid
}

// FindAuxDetAtPosition returns the index of the auxiliary detector
// containing point within tolerance cm, delegated to the channel map.
// Before ApplyChannelMap there is no map to ask and nothing is found.
func (g *GeometryCore) FindAuxDetAtPosition(point r3.Vec, tolerance float64) (int, bool) {
	if g.chanMap == nil {
		return 0, false
	}
	return g.chanMap.NearestAuxDet(point, g.auxDets, tolerance)
}

// FindAuxDetSensitiveAtPosition refines FindAuxDetAtPosition down to
// the sensitive volume.
func (g *GeometryCore) FindAuxDetSensitiveAtPosition(point r3.Vec, tolerance float64) (ad, sv int, ok bool) {
	if g.chanMap == nil {
		return 0, 0, false
	}
	return g.chanMap.NearestSensitiveAuxDet(point, g.auxDets, tolerance)
}

// GetClosestOpDet returns the flat optical detector number nearest to
// point, or InvalidOpDetID when no cryostat contains the point or the
// channel map has not been applied yet.
func (g *GeometryCore) GetClosestOpDet(point r3.Vec) uint32 {
	if g.chanMap == nil || len(g.opDetFirst) == 0 {
		log.Printf("geo: no channel map applied; no optical detector found")
		return InvalidOpDetID
	}
	c := g.PositionToCryostatPtr(point)
	if c == nil {
		log.Printf("geo: no cryostat contains %s; no optical detector found", vecString(point))
		return InvalidOpDetID
	}
	local := c.GetClosestOpDet(point)
	if local < 0 {
		return InvalidOpDetID
	}
	return uint32(g.opDetFirst[c.ID().Cryostat] + local)
}

// OpDetGeoFromOpDet resolves a flat optical detector number.
func (g *GeometryCore) OpDetGeoFromOpDet(opDet uint32) (*OpDetGeo, error) {
	i := int(opDet)
	if i < 0 || i >= len(g.opDetCryo) {
		return nil, notFoundIndex("optical detector", i)
	}
	c := g.cryostats[g.opDetCryo[i]]
	return c.OpDet(i - g.opDetFirst[g.opDetCryo[i]])
}

// --- world classification -----------------------------------------------

// VolumeName returns the name of the deepest scene volume containing
// point, or "unknownVolume" (with a warning) outside the world.
func (g *GeometryCore) VolumeName(point r3.Vec) string {
	path, ok := scene.Locate(g.world, point)
	if !ok {
		log.Printf("geo: point %s is not inside the world volume; returning unknown volume name",
			vecString(point))
		return "unknownVolume"
	}
	return path[len(path)-1].Name()
}

// MaterialName returns the material of the deepest scene volume
// containing point, or "unknownMaterial" (with a warning) outside the
// world.
func (g *GeometryCore) MaterialName(point r3.Vec) string {
	path, ok := scene.Locate(g.world, point)
	if !ok {
		log.Printf("geo: point %s is not inside the world volume; returning unknown material name",
			vecString(point))
		return "unknownMaterial"
	}
	return path[len(path)-1].Material().Name
}

// FindFirstVolumePath returns the path from the world volume to the
// first volume whose name starts with name, empty when none matches.
func (g *GeometryCore) FindFirstVolumePath(name string) []*scene.Node {
	return FindFirstVolume(g.world, name)
}

// TotalMass returns the mass in grams of the named volume and
// everything inside it. Children displace their parent's material.
func (g *GeometryCore) TotalMass(vol string) (float64, error) {
	path := FindFirstVolume(g.world, vol)
	if len(path) == 0 {
		return 0, &NotFoundError{What: "volume", ID: vol}
	}
	return subtreeMass(path[len(path)-1]), nil
}

func subtreeMass(n *scene.Node) float64 {
	own := n.Shape().Volume()
	mass := 0.0
	for i := 0; i < n.NChildren(); i++ {
		c := n.Child(i)
		own -= c.Shape().Volume()
		mass += subtreeMass(c)
	}
	if own < 0 {
		own = 0
	}
	return mass + own*n.Material().Density
}

// MassBetweenPoints integrates the column density between p1 and p2 by
// sampling the material every massSampleStep cm, in g/cm^2.
func (g *GeometryCore) MassBetweenPoints(p1, p2 r3.Vec) float64 {
	sep := p2.Sub(p1)
	length := r3.Norm(sep)
	if length == 0 {
		return 0
	}
	steps := int(math.Ceil(length / massSampleStep))
	if steps < 1 {
		steps = 1
	}
	dl := length / float64(steps)
	column := 0.0
	for i := 0; i < steps; i++ {
		mid := p1.Add(sep.Scale((float64(i) + 0.5) / float64(steps)))
		if path, ok := scene.Locate(g.world, mid); ok {
			column += dl * path[len(path)-1].Material().Density
		}
	}
	return column
}

// --- detector conveniences -------------------------------------------------

// DetHalfWidth, DetHalfHeight and DetLength quote the active volume of
// the first TPC, the conventional "detector size" numbers.
func (g *GeometryCore) DetHalfWidth() float64  { return g.firstTPCSize(func(t *TPCGeo) float64 { return t.ActiveHalfWidth() }) }
func (g *GeometryCore) DetHalfHeight() float64 { return g.firstTPCSize(func(t *TPCGeo) float64 { return t.ActiveHalfHeight() }) }
func (g *GeometryCore) DetLength() float64     { return g.firstTPCSize(func(t *TPCGeo) float64 { return t.ActiveLength() }) }

func (g *GeometryCore) firstTPCSize(f func(*TPCGeo) float64) float64 {
	t, err := g.TPC(NewTPCID(0, 0))
	if err != nil {
		return 0
	}
	return f(t)
}

func vecString(v r3.Vec) string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}
