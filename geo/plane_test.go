package geo

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sabasehrish/larcorealg/scene"
)

// verticalWirePlane builds a plane of 21 vertical wires (along y), half
// length 8, stacked along z with a 0.5 cm pitch from z = -5 to z = +5.
// The plane box is thin along x, and the fake TPC box sits on its +x
// side, so the derived normal must come out as +x.
func verticalWirePlane() (*PlaneGeo, Box) {
	wires := make([]WireGeo, 21)
	for i := range wires {
		z := -5 + 0.5*float64(i)
		wires[i] = NewWireGeo(r3.Vec{Z: z}, r3.Vec{Y: 1}, 8)
	}
	box := NewBox(r3.Vec{X: -0.1, Y: -10, Z: -10}, r3.Vec{X: 0.1, Y: 10, Z: 10})
	tpcBox := NewBox(r3.Vec{Y: -10, Z: -10}, r3.Vec{X: 20, Y: 10, Z: 10})
	p := NewPlaneGeo(scene.Identity(), box, wires)
	p.UpdateAfterSorting(NewPlaneID(0, 0, 0), tpcBox)
	return p, tpcBox
}

func TestPlaneGeoDerivedFrame(t *testing.T) {
	p, _ := verticalWirePlane()
	if !almostEqVec(p.GetNormalDirection(), r3.Vec{X: 1}, 1e-12) {
		t.Errorf("normal = %v, wanted +x", p.GetNormalDirection())
	}
	if !almostEqVec(p.GetWireDirection(), r3.Vec{Y: 1}, 1e-12) {
		t.Errorf("wire direction = %v, wanted +y", p.GetWireDirection())
	}
	if !almostEqVec(p.GetIncreasingWireDirection(), r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("increasing wire direction = %v, wanted +z",
			p.GetIncreasingWireDirection())
	}
	if !almostEq(p.WirePitch(), 0.5, 1e-12) {
		t.Errorf("pitch = %g, wanted 0.5", p.WirePitch())
	}
	if !almostEqVec(p.GetCenter(), r3.Vec{}, 1e-12) {
		t.Errorf("center = %v, wanted the origin", p.GetCenter())
	}
	if p.Width() != 20 || p.Depth() != 20 {
		t.Errorf("width, depth = %g, %g, wanted 20, 20", p.Width(), p.Depth())
	}
	if p.View() != ViewZ {
		t.Errorf("view = %s, wanted Z", p.View())
	}
	if p.Orientation() != Vertical {
		t.Errorf("orientation = %s, wanted vertical", p.Orientation())
	}
	if !almostEq(p.PhiZ(), 0, 1e-12) {
		t.Errorf("PhiZ = %g, wanted 0", p.PhiZ())
	}
	if !almostEq(p.ThetaZ(), math.Pi/2, 1e-12) {
		t.Errorf("ThetaZ = %g, wanted pi/2", p.ThetaZ())
	}
}

func TestPlaneGeoActiveArea(t *testing.T) {
	p, _ := verticalWirePlane()
	a := p.ActiveArea()
	// Wire tips reach y = +-8; wires sit at z in [-5, 5]. Each bound is
	// pulled in by half a pitch.
	if !almostEq(a.Width.Lower, -7.75, 1e-12) || !almostEq(a.Width.Upper, 7.75, 1e-12) {
		t.Errorf("active width = [%g, %g]", a.Width.Lower, a.Width.Upper)
	}
	if !almostEq(a.Depth.Lower, -4.75, 1e-12) || !almostEq(a.Depth.Upper, 4.75, 1e-12) {
		t.Errorf("active depth = [%g, %g]", a.Depth.Lower, a.Depth.Upper)
	}
}

func TestPlaneGeoDistanceAndDrift(t *testing.T) {
	p, _ := verticalWirePlane()
	point := r3.Vec{X: 3, Y: 2, Z: 1}
	if got := p.DistanceFromPlane(point); !almostEq(got, 3, 1e-12) {
		t.Errorf("DistanceFromPlane = %g, wanted 3", got)
	}
	if got := p.DriftPoint(point, 2); !almostEqVec(got, r3.Vec{X: 1, Y: 2, Z: 1}, 1e-12) {
		t.Errorf("DriftPoint = %v", got)
	}
	dropped := p.DriftPointToPlane(point)
	if !almostEqVec(dropped, r3.Vec{Y: 2, Z: 1}, 1e-12) {
		t.Errorf("DriftPointToPlane = %v", dropped)
	}
	if got := p.DistanceFromPlane(dropped); !almostEq(got, 0, 1e-12) {
		t.Errorf("dropped point is %g away from the plane", got)
	}
}

func TestPlaneGeoWireCoordinate(t *testing.T) {
	p, _ := verticalWirePlane()
	table := []struct {
		point r3.Vec
		want  float64
	}{
		{r3.Vec{Z: -5}, 0},
		{r3.Vec{}, 10},
		{r3.Vec{Z: 5}, 20},
		{r3.Vec{X: 7, Y: -3, Z: 1.25}, 12.5}, // off-plane points project down
	}
	for i, line := range table {
		if got := p.WireCoordinate(line.point); !almostEq(got, line.want, 1e-9) {
			t.Errorf("%d) WireCoordinate(%v) = %g, wanted %g",
				i+1, line.point, got, line.want)
		}
	}
}

func TestPlaneGeoNearestWire(t *testing.T) {
	p, _ := verticalWirePlane()
	table := []struct {
		point r3.Vec
		wire  int
		ok    bool
	}{
		{r3.Vec{Z: 1.3}, 13, true},
		{r3.Vec{Z: -5}, 0, true},
		{r3.Vec{Z: 100}, 20, false}, // clamped to the last wire
		{r3.Vec{Z: -100}, 0, false}, // clamped to the first
	}
	for i, line := range table {
		w, ok := p.NearestWireNumber(line.point)
		if w != line.wire || ok != line.ok {
			t.Errorf("%d) NearestWireNumber(%v) = (%d, %v), wanted (%d, %v)",
				i+1, line.point, w, ok, line.wire, line.ok)
		}
	}
	// The wire a point snaps to snaps to itself.
	wid, ok := p.NearestWireID(r3.Vec{Z: 1.3})
	if !ok || wid.Wire != 13 || !wid.InPlane(p.ID()) {
		t.Fatalf("NearestWireID = (%s, %v)", wid, ok)
	}
	w, err := p.Wire(wid.Wire)
	if err != nil {
		t.Fatal(err)
	}
	wid2, ok2 := p.NearestWireID(w.Center())
	if !ok2 || wid2 != wid {
		t.Errorf("NearestWireID(wire center) = (%s, %v), wanted %s",
			wid2, ok2, wid)
	}
}

func TestPlaneGeoComposeRoundTrips(t *testing.T) {
	p, _ := verticalWirePlane()
	points := []r3.Vec{
		{},
		{X: 3, Y: -7, Z: 2},
		{X: -0.5, Y: 8.25, Z: -9.75},
	}
	for i, pt := range points {
		drift, proj := p.DecomposePoint(pt)
		if got := p.ComposePoint(drift, proj); !almostEqVec(got, pt, 1e-12) {
			t.Errorf("%d) wire-base round trip: %v, wanted %v", i+1, got, pt)
		}
		drift, proj = p.DecomposeFramePoint(pt)
		if got := p.ComposeFramePoint(drift, proj); !almostEqVec(got, pt, 1e-12) {
			t.Errorf("%d) frame-base round trip: %v, wanted %v", i+1, got, pt)
		}
	}
}

func TestPlaneGeoInterWireDistance(t *testing.T) {
	p, _ := verticalWirePlane()
	if got := p.InterWireDistance(r3.Vec{Z: 1}); !almostEq(got, 0.5, 1e-12) {
		t.Errorf("along increasing wire direction: %g, wanted the pitch", got)
	}
	want := 0.5 * math.Sqrt2
	if got := p.InterWireDistance(r3.Vec{Y: 1, Z: 1}); !almostEq(got, want, 1e-12) {
		t.Errorf("45 degree direction: %g, wanted %g", got, want)
	}
	// A direction along the wires never crosses another wire.
	if got := p.InterWireDistance(r3.Vec{Y: 1}); !math.IsInf(got, +1) {
		t.Errorf("wire-parallel direction: %g, wanted +Inf", got)
	}
	proj := p.VectorProjection(r3.Vec{Y: 1, Z: 1})
	if got := p.InterWireProjectedDistance(proj); !almostEq(got, want, 1e-12) {
		t.Errorf("projected variant: %g, wanted %g", got, want)
	}
}

func TestPlaneGeoProjectionOnPlane(t *testing.T) {
	p, _ := verticalWirePlane()
	if !p.IsProjectionOnPlane(r3.Vec{X: 5, Y: 9, Z: 9}) {
		t.Error("interior projection reported off plane.")
	}
	if p.IsProjectionOnPlane(r3.Vec{X: 5, Y: 11, Z: 0}) {
		t.Error("exterior projection reported on plane.")
	}
	moved := p.MovePointOverPlane(r3.Vec{X: 5, Y: 11, Z: 0})
	if !almostEqVec(moved, r3.Vec{X: 5, Y: 10, Z: 0}, 1e-12) {
		t.Errorf("MovePointOverPlane = %v, wanted (5, 10, 0)", moved)
	}
	if !p.IsProjectionOnPlane(moved) {
		t.Error("moved point still projects off plane.")
	}
	// Moving keeps the drift coordinate.
	if got := p.DistanceFromPlane(moved); !almostEq(got, 5, 1e-12) {
		t.Errorf("moved point is %g from the plane, wanted 5", got)
	}
}

// slantedWirePlane builds a 60 degree plane in the style of an induction
// view: wires along (0, sin60, cos60), stacked along (0, -cos60, sin60).
func slantedWirePlane(angle float64) *PlaneGeo {
	dir := r3.Vec{Y: math.Sin(angle), Z: math.Cos(angle)}
	pdir := r3.Vec{Y: -math.Cos(angle), Z: math.Sin(angle)}
	wires := make([]WireGeo, 5)
	for i := range wires {
		off := (float64(i) - 2) * 0.3
		wires[i] = NewWireGeo(pdir.Scale(off), dir, 3)
	}
	box := NewBox(r3.Vec{X: -0.05, Y: -4, Z: -4}, r3.Vec{X: 0.05, Y: 4, Z: 4})
	tpcBox := NewBox(r3.Vec{Y: -4, Z: -4}, r3.Vec{X: 10, Y: 4, Z: 4})
	p := NewPlaneGeo(scene.Identity(), box, wires)
	p.UpdateAfterSorting(NewPlaneID(0, 0, 0), tpcBox)
	return p
}

func TestPlaneGeoSlantedViews(t *testing.T) {
	u := slantedWirePlane(math.Pi / 3)
	if u.View() != ViewU {
		t.Errorf("+60 degree plane view = %s, wanted U", u.View())
	}
	if !almostEq(u.WirePitch(), 0.3, 1e-12) {
		t.Errorf("+60 degree plane pitch = %g, wanted 0.3", u.WirePitch())
	}
	if !almostEq(u.ThetaZ(), math.Pi/3, 1e-12) {
		t.Errorf("+60 degree plane ThetaZ = %g", u.ThetaZ())
	}
	if !almostEq(u.PhiZ(), -math.Pi/6, 1e-12) {
		t.Errorf("+60 degree plane PhiZ = %g, wanted -pi/6", u.PhiZ())
	}

	v := slantedWirePlane(-math.Pi / 3)
	if v.View() != ViewV {
		t.Errorf("-60 degree plane view = %s, wanted V", v.View())
	}

	y := slantedWirePlane(0)
	if y.View() != ViewY {
		t.Errorf("horizontal-wire plane view = %s, wanted Y", y.View())
	}
	z := slantedWirePlane(math.Pi / 2)
	if z.View() != ViewZ {
		t.Errorf("vertical-wire plane view = %s, wanted Z", z.View())
	}
}

func TestPlaneGeoWireOrientationNormalized(t *testing.T) {
	// Wires fed in with alternating directions all end up pointing the
	// same way after the update.
	wires := make([]WireGeo, 6)
	for i := range wires {
		dir := r3.Vec{Y: 1}
		if i%2 == 1 {
			dir = r3.Vec{Y: -1}
		}
		wires[i] = NewWireGeo(r3.Vec{Z: 0.5 * float64(i)}, dir, 4)
	}
	box := NewBox(r3.Vec{X: -0.1, Y: -5, Z: -1}, r3.Vec{X: 0.1, Y: 5, Z: 4})
	tpcBox := NewBox(r3.Vec{Y: -5, Z: -1}, r3.Vec{X: 10, Y: 5, Z: 4})
	p := NewPlaneGeo(scene.Identity(), box, wires)
	p.UpdateAfterSorting(NewPlaneID(0, 0, 0), tpcBox)

	main := p.GetWireDirection()
	for i := 0; i < p.NWires(); i++ {
		w, err := p.Wire(i)
		if err != nil {
			t.Fatal(err)
		}
		if w.Direction().Dot(main) < 0.999999 {
			t.Errorf("wire %d points along %v, plane along %v",
				i, w.Direction(), main)
		}
		if w.ID() != NewWireID(0, 0, 0, i) {
			t.Errorf("wire %d stamped as %s", i, w.ID())
		}
	}
}

func TestPlaneGeoSingleWire(t *testing.T) {
	// A single wire leaves no pitch; the nearest-wire queries must stay
	// finite and report out of range instead of dividing by zero.
	wires := []WireGeo{NewWireGeo(r3.Vec{}, r3.Vec{Y: 1}, 8)}
	box := NewBox(r3.Vec{X: -0.1, Y: -10, Z: -10}, r3.Vec{X: 0.1, Y: 10, Z: 10})
	tpcBox := NewBox(r3.Vec{Y: -10, Z: -10}, r3.Vec{X: 20, Y: 10, Z: 10})
	p := NewPlaneGeo(scene.Identity(), box, wires)
	p.UpdateAfterSorting(NewPlaneID(0, 0, 0), tpcBox)

	if got := p.WirePitch(); got != 0 {
		t.Fatalf("WirePitch = %g, wanted 0", got)
	}
	w, ok := p.NearestWireNumber(r3.Vec{Z: 3})
	if w != 0 || ok {
		t.Errorf("NearestWireNumber = (%d, %v), wanted (0, false)", w, ok)
	}
	wid, ok := p.NearestWireID(r3.Vec{Z: 3})
	if wid != NewWireID(0, 0, 0, 0) || ok {
		t.Errorf("NearestWireID = (%s, %v), wanted (W:0, false)", wid, ok)
	}
}

func TestPlaneGeoWireOutOfRange(t *testing.T) {
	p, _ := verticalWirePlane()
	if _, err := p.Wire(-1); err == nil {
		t.Error("Wire(-1) did not fail.")
	}
	_, err := p.Wire(p.NWires())
	if err == nil {
		t.Fatal("Wire(NWires) did not fail.")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("Wire(NWires) failed with %T, wanted *NotFoundError", err)
	}
}
