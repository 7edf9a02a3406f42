package geo

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sabasehrish/larcorealg/scene"
)

// demoGeometry loads the example detector: one cryostat, one TPC with
// three 100-wire planes (u at +60 degrees, v at -60, y at 0) at
// x = -90, -89, -88, pitch 0.3 cm.
func demoGeometry(t testing.TB) *GeometryCore {
	g, err := LoadDescriptionString(scene.ExampleDetectorFile)
	if err != nil {
		t.Fatalf("LoadDescriptionString: %v", err)
	}
	return g
}

func TestGeometryCoreCounts(t *testing.T) {
	g := demoGeometry(t)
	if g.DetectorName() != "demo" {
		t.Errorf("DetectorName = %q.", g.DetectorName())
	}
	if g.WorldVolumeName() != "volWorld" {
		t.Errorf("WorldVolumeName = %q.", g.WorldVolumeName())
	}
	if g.Ncryostats() != 1 || g.TotalNTPCs() != 1 {
		t.Errorf("Ncryostats = %d, TotalNTPCs = %d.",
			g.Ncryostats(), g.TotalNTPCs())
	}
	if n := g.Nplanes(NewTPCID(0, 0)); n != 3 {
		t.Errorf("Nplanes = %d.", n)
	}
	if n := g.Nwires(NewPlaneID(0, 0, 0)); n != 100 {
		t.Errorf("Nwires = %d.", n)
	}
	if g.Nchannels() != 300 {
		t.Errorf("Nchannels = %d.", g.Nchannels())
	}
	if g.Nviews() != 3 {
		t.Errorf("Nviews = %d.", g.Nviews())
	}
	if g.NAuxDets() != 1 {
		t.Errorf("NAuxDets = %d.", g.NAuxDets())
	}
	if g.NOpDetsTotal() != 1 {
		t.Errorf("NOpDetsTotal = %d.", g.NOpDetsTotal())
	}
	// Conventional size numbers quote the first TPC's active volume.
	if g.DetHalfWidth() != 100 || g.DetHalfHeight() != 120 || g.DetLength() != 400 {
		t.Errorf("detector size = %g, %g, %g.",
			g.DetHalfWidth(), g.DetHalfHeight(), g.DetLength())
	}
}

func TestGeometryCorePlaneLayout(t *testing.T) {
	g := demoGeometry(t)
	table := []struct {
		plane int
		x     float64
		view  View
	}{
		{0, -90, ViewU},
		{1, -89, ViewV},
		{2, -88, ViewY},
	}
	for i, line := range table {
		p, err := g.Plane(NewPlaneID(0, 0, line.plane))
		if err != nil {
			t.Fatal(err)
		}
		if got := p.GetBoxCenter().X; !almostEq(got, line.x, 1e-9) {
			t.Errorf("%d) plane %d at x = %g, wanted %g",
				i+1, line.plane, got, line.x)
		}
		if p.View() != line.view {
			t.Errorf("%d) plane %d view = %s, wanted %s",
				i+1, line.plane, p.View(), line.view)
		}
		if !almostEq(p.WirePitch(), 0.3, 1e-9) {
			t.Errorf("%d) plane %d pitch = %g", i+1, line.plane, p.WirePitch())
		}
		if !almostEqVec(p.GetNormalDirection(), r3.Vec{X: 1}, 1e-9) {
			t.Errorf("%d) plane %d normal = %v", i+1, line.plane,
				p.GetNormalDirection())
		}
	}
	pitch, err := g.PlanePitch(NewPlaneID(0, 0, 0), NewPlaneID(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !almostEq(pitch, 1, 1e-9) {
		t.Errorf("PlanePitch(0, 1) = %g, wanted 1", pitch)
	}
	tpc, err := g.TPC(NewTPCID(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqVec(tpc.DriftDir(), r3.Vec{X: -1}, 1e-9) {
		t.Errorf("DriftDir = %v, wanted -x", tpc.DriftDir())
	}
	if !almostEq(tpc.DriftDistance(), 190, 1e-9) {
		t.Errorf("DriftDistance = %g, wanted 190", tpc.DriftDistance())
	}
}

func TestGeometryCoreIterators(t *testing.T) {
	g := demoGeometry(t)
	nPlanes := 0
	for range g.Planes() {
		nPlanes++
	}
	if nPlanes != 3 {
		t.Errorf("Planes() yielded %d planes.", nPlanes)
	}
	nWires := 0
	for range g.Wires() {
		nWires++
	}
	if nWires != 300 {
		t.Errorf("Wires() yielded %d wires.", nWires)
	}
	// Sequences restart on every range.
	ids := g.PlaneIDs()
	first := func() PlaneID {
		for id := range ids {
			return id
		}
		return PlaneID{}
	}
	if a, b := first(), first(); a != b || a != NewPlaneID(0, 0, 0) {
		t.Errorf("PlaneIDs did not restart: %s then %s", a, b)
	}
	// Wire IDs come out in standard order and valid.
	prev := WireID{}
	started := false
	for wid := range g.WireIDs() {
		if !wid.IsValid() {
			t.Fatalf("WireIDs yielded invalid %s", wid)
		}
		if started && wid.Cmp(prev) <= 0 {
			t.Fatalf("WireIDs out of order: %s after %s", wid, prev)
		}
		prev, started = wid, true
	}
}

func TestGeometryCoreEndIDs(t *testing.T) {
	g := demoGeometry(t)
	if got := g.GetEndCryostatID(); got != NewCryostatID(1) {
		t.Errorf("GetEndCryostatID = %s", got)
	}
	if got := g.GetEndTPCID(NewCryostatID(0)); got != NewTPCID(1, 0) {
		t.Errorf("GetEndTPCID = %s", got)
	}
	// The plane carry runs off the single cryostat, so the end plane ID
	// comes back invalid with the indices advanced.
	wantEndPlane := PlaneID{TPCID: NewTPCID(1, 0).AsInvalid()}
	if got := g.GetEndPlaneID(NewTPCID(0, 0)); got != wantEndPlane {
		t.Errorf("GetEndPlaneID = %s (valid=%v)", got, got.IsValid())
	}
	if got := g.GetEndWireID(NewPlaneID(0, 0, 0)); got != NewWireID(0, 0, 1, 0) {
		t.Errorf("GetEndWireID = %s", got)
	}
}

func TestGeometryCorePositionQueries(t *testing.T) {
	g := demoGeometry(t)
	if got := g.PositionToTPCID(r3.Vec{}); got != NewTPCID(0, 0) {
		t.Errorf("PositionToTPCID(origin) = %s", got)
	}
	// Inside the cryostat, outside the TPC: fully invalid from
	// PositionToTPCID, cryostat-tagged invalid from FindTPCAtPosition.
	gap := r3.Vec{X: 150, Y: 140, Z: 240}
	if got := g.PositionToTPCID(gap); got.IsValid() {
		t.Errorf("PositionToTPCID(gap) = %s", got)
	}
	if got := g.FindTPCAtPosition(gap); got.IsValid() || got.Cryostat != 0 {
		t.Errorf("FindTPCAtPosition(gap) = %s (valid=%v)", got, got.IsValid())
	}
	if got := g.PositionToCryostatID(gap); got != NewCryostatID(0) {
		t.Errorf("PositionToCryostatID(gap) = %s", got)
	}
	// Outside every cryostat: everything comes back invalid, with
	// InvalidIndex on every level.
	far := r3.Vec{X: 500, Y: 500, Z: 500}
	if got := g.PositionToCryostatID(far); got.IsValid() || got.Cryostat != InvalidIndex {
		t.Errorf("PositionToCryostatID(far) = %s (valid=%v)", got, got.IsValid())
	}
	if got := g.FindTPCAtPosition(far); got.IsValid() || got != InvalidTPCID() {
		t.Errorf("FindTPCAtPosition(far) = %s (valid=%v)", got, got.IsValid())
	}
	// The two failure modes are distinct values: the partial result keeps
	// the cryostat index, the full miss does not.
	if a, b := g.FindTPCAtPosition(gap), g.FindTPCAtPosition(far); a == b {
		t.Errorf("gap and far results both = %s", a)
	}
	if got := g.FindTPCAtPosition(gap); got.Cryostat != 0 || got.TPC != InvalidIndex {
		t.Errorf("FindTPCAtPosition(gap) = %s, wanted C:0 T:%d invalid",
			got, InvalidIndex)
	}
	if _, err := g.PositionToCryostat(far); err == nil {
		t.Error("PositionToCryostat(far) did not fail.")
	}
	// The wiggle accepts a thin skin around the cryostat boundary.
	if got := g.PositionToCryostatID(r3.Vec{X: 200.01}); !got.IsValid() {
		t.Error("point just inside the wiggle skin rejected.")
	}
	if got := g.PositionToCryostatID(r3.Vec{X: 200.03}); got.IsValid() {
		t.Error("point outside the wiggle skin accepted.")
	}
}

func TestGeometryCorePositionWiggle(t *testing.T) {
	g := demoGeometry(t)
	if got := g.PositionWiggle(); got != DefaultWiggle {
		t.Fatalf("PositionWiggle = %g, wanted %g", got, DefaultWiggle)
	}
	// The TPC face sits at x = 100; skin is 5 hundredths of a cm beyond.
	skin := r3.Vec{X: 100.05}
	inside := r3.Vec{X: 99.95}
	if got := g.FindTPCAtPosition(skin); got.IsValid() {
		t.Errorf("skin point found with the default wiggle: %s", got)
	}
	g.SetPositionWiggle(1e-2)
	if got := g.FindTPCAtPosition(skin); got != NewTPCID(0, 0) {
		t.Errorf("skin point missed with wiggle 1e-2: %s", got)
	}
	g.SetPositionWiggle(0)
	if got := g.FindTPCAtPosition(skin); got.IsValid() {
		t.Errorf("skin point found with wiggle 0: %s", got)
	}
	// Interior points do not care about the tolerance.
	if got := g.FindTPCAtPosition(inside); got != NewTPCID(0, 0) {
		t.Errorf("interior point missed with wiggle 0: %s", got)
	}
}

// Element queries work right after LoadGeometry; readout and aux det
// lookups need the channel map and must fail softly without one.
func TestGeometryCoreQueriesBeforeChannelMap(t *testing.T) {
	cfg, err := scene.LoadConfigString(scene.ExampleDetectorFile)
	if err != nil {
		t.Fatal(err)
	}
	world, err := scene.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	g := NewGeometryCore(cfg.World.Name)
	if err := g.LoadGeometry(world, StandardBuilder{}, StandardSorter{}); err != nil {
		t.Fatal(err)
	}
	if got := g.PositionToTPCID(r3.Vec{}); got != NewTPCID(0, 0) {
		t.Errorf("PositionToTPCID(origin) = %s", got)
	}
	if _, ok := g.FindAuxDetAtPosition(r3.Vec{Y: 300}, 0); ok {
		t.Error("FindAuxDetAtPosition succeeded without a channel map.")
	}
	if _, _, ok := g.FindAuxDetSensitiveAtPosition(r3.Vec{Y: 300, Z: 30}, 0); ok {
		t.Error("FindAuxDetSensitiveAtPosition succeeded without a channel map.")
	}
	if got := g.GetClosestOpDet(r3.Vec{X: 150, Z: -100}); got != InvalidOpDetID {
		t.Errorf("GetClosestOpDet = %d without a channel map.", got)
	}
	if got := g.Nchannels(); got != 0 {
		t.Errorf("Nchannels = %d without a channel map.", got)
	}
}

func TestGeometryCoreVolumeQueries(t *testing.T) {
	g := demoGeometry(t)
	if got := g.VolumeName(r3.Vec{}); got != "volTPCActive_A" {
		t.Errorf("VolumeName(origin) = %q.", got)
	}
	if got := g.MaterialName(r3.Vec{}); got != "LAr" {
		t.Errorf("MaterialName(origin) = %q.", got)
	}
	if got := g.VolumeName(r3.Vec{X: 5000}); got != "unknownVolume" {
		t.Errorf("VolumeName(outside) = %q.", got)
	}
	if got := g.MaterialName(r3.Vec{X: 5000}); got != "unknownMaterial" {
		t.Errorf("MaterialName(outside) = %q.", got)
	}
	path := g.FindFirstVolumePath("volTPC_")
	if len(path) != 3 || path[2].Name() != "volTPC_A" {
		t.Errorf("FindFirstVolumePath(volTPC_) has %d nodes.", len(path))
	}
	mass, err := g.TotalMass("volTPCActive")
	if err != nil {
		t.Fatal(err)
	}
	// 8 * 100 * 120 * 200 cm^3 of liquid argon at 1.39 g/cm^3.
	want := 8.0 * 100 * 120 * 200 * 1.39
	if !almostEq(mass, want, 1e-3*want) {
		t.Errorf("TotalMass(volTPCActive) = %g, wanted %g", mass, want)
	}
	if _, err := g.TotalMass("volNope"); err == nil {
		t.Error("TotalMass of a missing volume did not fail.")
	}
	// A 10 cm argon column through the TPC center.
	col := g.MassBetweenPoints(r3.Vec{Z: -5}, r3.Vec{Z: 5})
	if !almostEq(col, 13.9, 0.01) {
		t.Errorf("MassBetweenPoints = %g, wanted 13.9", col)
	}
}

func TestGeometryCoreOpDets(t *testing.T) {
	g := demoGeometry(t)
	if got := g.GetClosestOpDet(r3.Vec{X: 150, Z: -100}); got != 0 {
		t.Errorf("GetClosestOpDet = %d.", got)
	}
	if got := g.GetClosestOpDet(r3.Vec{X: 500, Y: 500}); got != InvalidOpDetID {
		t.Errorf("GetClosestOpDet(outside) = %d.", got)
	}
	od, err := g.OpDetGeoFromOpDet(0)
	if err != nil {
		t.Fatal(err)
	}
	if od.Name() != "volOpDetSensitive_pmtA0" {
		t.Errorf("OpDetGeoFromOpDet(0) = %q.", od.Name())
	}
	if _, err := g.OpDetGeoFromOpDet(1); err == nil {
		t.Error("OpDetGeoFromOpDet(1) did not fail.")
	}
}

func TestGeometryCoreAuxDets(t *testing.T) {
	g := demoGeometry(t)
	ad, err := g.AuxDet(0)
	if err != nil {
		t.Fatal(err)
	}
	if ad.NSensitiveVolume() != 4 {
		t.Errorf("aux det has %d sensitive volumes.", ad.NSensitiveVolume())
	}
	i, ok := g.FindAuxDetAtPosition(r3.Vec{Y: 300}, 0)
	if !ok || i != 0 {
		t.Errorf("FindAuxDetAtPosition = (%d, %v).", i, ok)
	}
	adi, sv, ok := g.FindAuxDetSensitiveAtPosition(r3.Vec{Y: 300, Z: 30}, 0)
	if !ok || adi != 0 || sv != 3 {
		t.Errorf("FindAuxDetSensitiveAtPosition = (%d, %d, %v), wanted (0, 3, true).",
			adi, sv, ok)
	}
	if _, ok := g.FindAuxDetAtPosition(r3.Vec{Y: 310}, 0); ok {
		t.Error("point off the aux det found without tolerance.")
	}
	if _, ok := g.FindAuxDetAtPosition(r3.Vec{Y: 310}, 10); !ok {
		t.Error("point off the aux det missed with 10 cm tolerance.")
	}
}

func TestGeometryCoreWireQueries(t *testing.T) {
	g := demoGeometry(t)
	yPlane := NewPlaneID(0, 0, 2)
	// Wire 49 of the y plane sits at y = 0.15.
	coord, err := g.WireCoordinate(r3.Vec{Y: 0.15}, yPlane)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEq(coord, 49, 1e-6) {
		t.Errorf("WireCoordinate = %g, wanted 49", coord)
	}
	wid, ok, err := g.NearestWireID(r3.Vec{Y: 0.15}, yPlane)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || wid != NewWireID(0, 0, 2, 49) {
		t.Errorf("NearestWireID = (%s, %v)", wid, ok)
	}
	// Off-range positions still yield the closest existing wire.
	wid, ok, err = g.NearestWireID(r3.Vec{Y: -100}, yPlane)
	if err != nil {
		t.Fatal(err)
	}
	if ok || wid.Wire != 99 {
		t.Errorf("NearestWireID(off range) = (%s, %v)", wid, ok)
	}
	ch, ok, err := g.NearestChannel(r3.Vec{Y: 0.15}, yPlane)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || ch != 249 {
		t.Errorf("NearestChannel = (%d, %v), wanted 249", ch, ok)
	}
	if _, _, err := g.NearestWireID(r3.Vec{}, NewPlaneID(0, 0, 9)); err == nil {
		t.Error("NearestWireID on a missing plane did not fail.")
	}
	pitch, err := g.WirePitch(yPlane)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEq(pitch, 0.3, 1e-9) {
		t.Errorf("WirePitch = %g", pitch)
	}
}

func TestGeometryCoreWireEndPoints(t *testing.T) {
	g := demoGeometry(t)
	for wid := range g.WireIDs() {
		start, end, err := g.WireEndPoints(wid)
		if err != nil {
			t.Fatal(err)
		}
		if end.Z < start.Z {
			t.Fatalf("%s: end.Z %g below start.Z %g", wid, end.Z, start.Z)
		}
		if math.Abs(end.Z-start.Z) < 0.01 && end.Y < start.Y {
			t.Fatalf("%s: near-vertical wire with end.Y below start.Y", wid)
		}
	}
	if _, _, err := g.WireEndPoints(NewWireID(0, 0, 0, 100)); err == nil {
		t.Error("WireEndPoints of a missing wire did not fail.")
	}
}

func TestGeometryCoreWireIDsIntersect(t *testing.T) {
	g := demoGeometry(t)
	u49 := NewWireID(0, 0, 0, 49)
	y49 := NewWireID(0, 0, 2, 49)

	cross, ok := g.WireIDsIntersect(u49, y49)
	if !ok {
		t.Fatal("u49 x y49 reported no crossing.")
	}
	wantZ := -0.05 * math.Sqrt(3)
	if !almostEq(cross.Y, 0.15, 1e-6) || !almostEq(cross.Z, wantZ, 1e-6) {
		t.Errorf("crossing at (%g, %g), wanted (0.15, %g)",
			cross.Y, cross.Z, wantZ)
	}
	if cross.TPC != NewTPCID(0, 0) {
		t.Errorf("crossing TPC = %s", cross.TPC)
	}
	// Symmetric in the wire order.
	swapped, ok2 := g.WireIDsIntersect(y49, u49)
	if !ok2 || !almostEq(swapped.Y, cross.Y, 1e-9) || !almostEq(swapped.Z, cross.Z, 1e-9) {
		t.Errorf("swapped crossing at (%g, %g, %v)", swapped.Y, swapped.Z, ok2)
	}
	y, z, ok := g.IntersectionPoint(u49, y49)
	if !ok || !almostEq(y, cross.Y, 1e-9) || !almostEq(z, cross.Z, 1e-9) {
		t.Errorf("IntersectionPoint = (%g, %g, %v)", y, z, ok)
	}

	// The 3D variant lands on the same transverse coordinates, between
	// the two planes.
	p, ok := g.WiresIntersectPoint(u49, y49)
	if !ok {
		t.Fatal("WiresIntersectPoint reported no crossing.")
	}
	if !almostEq(p.Y, cross.Y, 1e-6) || !almostEq(p.Z, cross.Z, 1e-6) {
		t.Errorf("3D crossing at (%g, %g, %g)", p.X, p.Y, p.Z)
	}
	if !almostEq(p.X, -89, 1e-6) {
		t.Errorf("3D crossing drift coordinate %g is not between the planes", p.X)
	}

	// Precondition violations are soft: +Inf coordinates and false.
	table := []struct {
		a, b WireID
	}{
		{u49, NewWireID(0, 0, 0, 50)},   // same plane
		{u49, NewWireID(0, 1, 2, 49)},   // different TPC
		{u49, NewWireID(0, 0, 2, 1000)}, // no such wire
	}
	for i, line := range table {
		cross, ok := g.WireIDsIntersect(line.a, line.b)
		if ok {
			t.Errorf("%d) intersection reported for %s x %s", i+1, line.a, line.b)
		}
		if !math.IsInf(cross.Y, +1) || !math.IsInf(cross.Z, +1) {
			t.Errorf("%d) miss coordinates = (%g, %g)", i+1, cross.Y, cross.Z)
		}
		if cross.TPC.IsValid() {
			t.Errorf("%d) miss TPC = %s is valid", i+1, cross.TPC)
		}
	}
}

// miniDescription is a toy detector with short (4 cm) wires, so wire
// pairs near opposite stack ends cross outside their segments. The
// second plane carries vertical wires.
const miniDescription = `[World]
Name = mini
DX = 100
DY = 100
DZ = 100

[Cryostat "A"]
X = 0
Y = 0
Z = 0
DX = 50
DY = 50
DZ = 50

[TPC "A"]
Cryostat = A
X = 0
Y = 0
Z = 0
DX = 40
DY = 40
DZ = 40

[Plane "u"]
TPC = A
X = -30
Y = 0
Z = 0
DY = 30
DZ = 30
AngleZ = 45
Pitch = 1
Wires = 11
WireLength = 4

[Plane "y"]
TPC = A
X = -29
Y = 0
Z = 0
DY = 30
DZ = 30
AngleZ = 90
Pitch = 1
Wires = 11
WireLength = 4`

func TestGeometryCoreOffSegmentIntersection(t *testing.T) {
	g, err := LoadDescriptionString(miniDescription)
	if err != nil {
		t.Fatal(err)
	}
	// Opposite stack ends: the carrier lines cross far outside both
	// 4 cm wires. Coordinates come back but the TPC stays invalid.
	cross, ok := g.WireIDsIntersect(NewWireID(0, 0, 0, 0), NewWireID(0, 0, 1, 10))
	if ok || cross.TPC.IsValid() {
		t.Errorf("far wires reported crossing: (%v, TPC %s)", ok, cross.TPC)
	}
	if math.IsInf(cross.Y, 0) || math.IsInf(cross.Z, 0) {
		t.Error("off-segment crossing lost its coordinates.")
	}
	// The middle wires cross right at the TPC axis.
	cross, ok = g.WireIDsIntersect(NewWireID(0, 0, 0, 5), NewWireID(0, 0, 1, 5))
	if !ok || cross.TPC != NewTPCID(0, 0) {
		t.Fatalf("middle wires: (%v, TPC %s)", ok, cross.TPC)
	}
	if !almostEq(cross.Y, 0, 1e-9) || !almostEq(cross.Z, 0, 1e-9) {
		t.Errorf("middle crossing at (%g, %g), wanted the origin",
			cross.Y, cross.Z)
	}
}

func TestGeometryCoreVerticalWireEndPoints(t *testing.T) {
	g, err := LoadDescriptionString(miniDescription)
	if err != nil {
		t.Fatal(err)
	}
	// Plane 1 holds vertical wires: z is constant along each wire, so
	// the tips must come out ordered by y instead.
	for i := 0; i < 11; i++ {
		start, end, err := g.WireEndPoints(NewWireID(0, 0, 1, i))
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(end.Z-start.Z) > 1e-9 {
			t.Fatalf("wire %d is not vertical: dz = %g", i, end.Z-start.Z)
		}
		if end.Y <= start.Y {
			t.Errorf("wire %d tips ordered (%g, %g) in y", i, start.Y, end.Y)
		}
	}
}

func TestGeometryCoreThirdPlane(t *testing.T) {
	g := demoGeometry(t)
	u, v, y := NewPlaneID(0, 0, 0), NewPlaneID(0, 0, 1), NewPlaneID(0, 0, 2)

	third, err := g.ThirdPlane(u, v)
	if err != nil {
		t.Fatal(err)
	}
	if third != y {
		t.Errorf("ThirdPlane(u, v) = %s, wanted %s", third, y)
	}
	if _, err := g.ThirdPlane(u, u); err == nil {
		t.Error("ThirdPlane of a plane with itself did not fail.")
	}
	if _, err := g.ThirdPlane(u, NewPlaneID(0, 1, 1)); err == nil {
		t.Error("ThirdPlane across TPCs did not fail.")
	}
	_, err = g.ThirdPlane(u, NewPlaneID(0, 0, 9))
	if err == nil {
		t.Fatal("ThirdPlane with a missing plane did not fail.")
	}
	if _, ok := err.(*InvalidInputError); !ok {
		t.Errorf("ThirdPlane failed with %T, wanted *InvalidInputError", err)
	}

	// With unit slopes on u and v, the symmetric plane angles give
	// slope 1/2 on y.
	slope, err := g.ThirdPlaneSlope(u, 1, v, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEq(slope, 0.5, 1e-9) {
		t.Errorf("ThirdPlaneSlope = %g, wanted 0.5", slope)
	}
	// All pitches are equal, so dT/dW transforms the same way.
	dtdw, err := g.ThirdPlaneDTDW(u, 1, v, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEq(dtdw, 0.5, 1e-9) {
		t.Errorf("ThirdPlaneDTDW = %g, wanted 0.5", dtdw)
	}
}

func TestComputeThirdPlaneSlopeSentinels(t *testing.T) {
	// Both inputs too flat to resolve.
	if got := ComputeThirdPlaneSlope(0, 0.0005, 1, -0.0004, 2); got != 0.001 {
		t.Errorf("flat slopes gave %g, wanted 0.001", got)
	}
	// Opposite unit slopes on symmetric planes cancel exactly.
	got := ComputeThirdPlaneSlope(math.Pi/3, 1, -math.Pi/3, -1, 0)
	if got != 999 {
		t.Errorf("degenerate slope gave %g, wanted 999", got)
	}
}

func TestGeometryCoreSignalTypes(t *testing.T) {
	g := demoGeometry(t)
	table := []struct {
		rid  ROPID
		want SignalType
	}{
		{NewROPID(0, 0, 0), SignalInduction},
		{NewROPID(0, 0, 1), SignalInduction},
		{NewROPID(0, 0, 2), SignalCollection},
	}
	for i, line := range table {
		if got := g.SignalTypeForROP(line.rid); got != line.want {
			t.Errorf("%d) SignalTypeForROP(%s) = %s, wanted %s",
				i+1, line.rid, got, line.want)
		}
	}
	if got := g.SignalTypeForChannel(250); got != SignalCollection {
		t.Errorf("SignalTypeForChannel(250) = %s", got)
	}
	if got := g.ChannelToROP(150); got != NewROPID(0, 0, 1) {
		t.Errorf("ChannelToROP(150) = %s", got)
	}
	if got := g.FirstChannelInROP(NewROPID(0, 0, 2)); got != 200 {
		t.Errorf("FirstChannelInROP = %d, wanted 200.", got)
	}
}

func BenchmarkPositionToTPCID(b *testing.B) {
	g := demoGeometry(b)
	p := r3.Vec{X: 10, Y: -20, Z: 30}
	for i := 0; i < b.N; i++ {
		g.PositionToTPCID(p)
	}
}

func BenchmarkNearestWireID(b *testing.B) {
	g := demoGeometry(b)
	pid := NewPlaneID(0, 0, 0)
	p := r3.Vec{Y: 0.15}
	for i := 0; i < b.N; i++ {
		g.NearestWireID(p, pid)
	}
}

func BenchmarkWireIDsIntersect(b *testing.B) {
	g := demoGeometry(b)
	u49 := NewWireID(0, 0, 0, 49)
	y49 := NewWireID(0, 0, 2, 49)
	for i := 0; i < b.N; i++ {
		g.WireIDsIntersect(u49, y49)
	}
}
