package geo

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Multi-view queries: wire crossings and the slope algebra that fuses
// 2D plane projections into 3D information.

// WireIDIntersection is the crossing of two wires in the transverse
// (y, z) coordinates. TPC is the shared TPC when the crossing lies on
// both physical wires, invalid otherwise.
type WireIDIntersection struct {
	Y, Z float64
	TPC  TPCID
}

// WireEndPoints returns the tips of a wire, ordered so the end has the
// higher z; for near-vertical wires (|dz| below 0.01 cm) the higher y.
func (g *GeometryCore) WireEndPoints(wid WireID) (start, end r3.Vec, err error) {
	w, err := g.Wire(wid)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	start, end = w.Start(), w.End()
	if end.Z < start.Z {
		start, end = end, start
	}
	if end.Y < start.Y && math.Abs(end.Z-start.Z) < 0.01 {
		start, end = end, start
	}
	return start, end, nil
}

// wireIDIntersectionCheck verifies the preconditions of a wire pair
// query: both wires exist, share a TPC and sit on different planes.
// Violations are soft: a warning and false, never an error.
func (g *GeometryCore) wireIDIntersectionCheck(wid1, wid2 WireID) bool {
	if !g.HasWire(wid1) || !g.HasWire(wid2) {
		log.Printf("geo: wire intersection of non-existing wires %s, %s", wid1, wid2)
		return false
	}
	if !wid1.InTPC(wid2.TPCID) {
		log.Printf("geo: wire intersection across TPCs %s, %s", wid1.TPCID, wid2.TPCID)
		return false
	}
	if wid1.Plane == wid2.Plane {
		log.Printf("geo: wire intersection on the same plane %s", wid1.PlaneID)
		return false
	}
	return true
}

// WireIDsIntersect finds the crossing of two wires in the transverse
// (y, z) coordinates. It reports whether the crossing lies within both
// physical wire segments; a precondition failure or parallel wires
// yield +Inf coordinates, an invalid TPC field and false.
func (g *GeometryCore) WireIDsIntersect(wid1, wid2 WireID) (WireIDIntersection, bool) {
	inf := math.Inf(+1)
	miss := WireIDIntersection{Y: inf, Z: inf, TPC: wid1.TPCID.AsInvalid()}

	if !g.wireIDIntersectionCheck(wid1, wid2) {
		return miss, false
	}
	s1, e1, _ := g.WireEndPoints(wid1)
	s2, e2, _ := g.WireEndPoints(wid2)

	y, z, ok := intersectLines(s1.Y, s1.Z, e1.Y, e1.Z, s2.Y, s2.Z, e2.Y, e2.Z)
	if !ok {
		return miss, false
	}
	within := pointWithinSegments(s1.Y, s1.Z, e1.Y, e1.Z, s2.Y, s2.Z, e2.Y, e2.Z, y, z)
	out := WireIDIntersection{Y: y, Z: z, TPC: wid1.TPCID.AsInvalid()}
	if within {
		out.TPC = wid1.TPCID
	}
	return out, within
}

// WiresIntersectPoint is the 3D flavor of WireIDsIntersect: the wires
// sit on different planes and never truly cross, so it returns the
// midpoint between the two points of closest approach. It reports
// whether both closest-approach offsets fall within the wires' extents.
func (g *GeometryCore) WiresIntersectPoint(wid1, wid2 WireID) (r3.Vec, bool) {
	inf := math.Inf(+1)
	if !g.wireIDIntersectionCheck(wid1, wid2) {
		return r3.Vec{X: inf, Y: inf, Z: inf}, false
	}
	w1, _ := g.Wire(wid1)
	w2, _ := g.Wire(wid2)

	off1, off2 := closestApproach(w1.Center(), w1.Direction(), w2.Center(), w2.Direction())
	p1 := w1.PositionFromCenterUnbounded(off1)
	p2 := w2.PositionFromCenterUnbounded(off2)
	mid := p1.Add(p2).Scale(0.5)

	within := math.Abs(off1) <= w1.HalfLength() && math.Abs(off2) <= w2.HalfLength()
	return mid, within
}

// IntersectionPoint unpacks WireIDsIntersect into bare coordinates.
func (g *GeometryCore) IntersectionPoint(wid1, wid2 WireID) (y, z float64, ok bool) {
	cross, ok := g.WireIDsIntersect(wid1, wid2)
	return cross.Y, cross.Z, ok
}

// checkIndependentPlanesOnSameTPC guards the multi-plane slope
// queries: the planes must exist, differ and share a TPC.
func (g *GeometryCore) checkIndependentPlanesOnSameTPC(pid1, pid2 PlaneID, op string) error {
	if !pid1.InTPC(pid2.TPCID) {
		return &InvalidInputError{Op: op,
			Reason: fmt.Sprintf("planes %s and %s are in different TPCs", pid1, pid2)}
	}
	if pid1.Plane == pid2.Plane {
		return &InvalidInputError{Op: op,
			Reason: fmt.Sprintf("the two planes are the same (%s)", pid1)}
	}
	if !g.HasPlane(pid1) || !g.HasPlane(pid2) {
		return &InvalidInputError{Op: op,
			Reason: fmt.Sprintf("non-existing plane among %s, %s", pid1, pid2)}
	}
	return nil
}

// ThirdPlane identifies, by exclusion, the plane of the TPC that is
// neither pid1 nor pid2. The TPC must have exactly three planes.
func (g *GeometryCore) ThirdPlane(pid1, pid2 PlaneID) (PlaneID, error) {
	if err := g.checkIndependentPlanesOnSameTPC(pid1, pid2, "ThirdPlane"); err != nil {
		return PlaneID{}, err
	}
	nPlanes := g.Nplanes(pid1.TPCID)
	if nPlanes != 3 {
		return PlaneID{}, &InvalidInputError{Op: "ThirdPlane",
			Reason: fmt.Sprintf("only TPCs with 3 planes are supported, %s has %d", pid1.TPCID, nPlanes)}
	}
	target := -1
	for i := 0; i < nPlanes; i++ {
		if i == pid1.Plane || i == pid2.Plane {
			continue
		}
		if target >= 0 {
			return PlaneID{}, &InvalidInputError{Op: "ThirdPlane",
				Reason: fmt.Sprintf("too many planes that are neither %s nor %s", pid1, pid2)}
		}
		target = i
	}
	if target < 0 {
		return PlaneID{}, &InvalidInputError{Op: "ThirdPlane",
			Reason: fmt.Sprintf("no plane that is neither %s nor %s", pid1, pid2)}
	}
	return PlaneID{TPCID: pid1.TPCID, Plane: target}, nil
}

// ThirdPlaneSlope converts two slopes measured in two planes into the
// slope the third plane of the TPC would see. Slopes are d(drift
// coordinate)/d(wire coordinate).
func (g *GeometryCore) ThirdPlaneSlope(pid1 PlaneID, slope1 float64, pid2 PlaneID, slope2 float64) (float64, error) {
	target, err := g.ThirdPlane(pid1, pid2)
	if err != nil {
		return 0, err
	}
	return g.ThirdPlaneSlopeOn(pid1, slope1, pid2, slope2, target)
}

// ThirdPlaneSlopeOn is ThirdPlaneSlope with an explicit output plane,
// which may belong to a TPC with any number of planes.
func (g *GeometryCore) ThirdPlaneSlopeOn(pid1 PlaneID, slope1 float64, pid2 PlaneID, slope2 float64, output PlaneID) (float64, error) {
	if err := g.checkIndependentPlanesOnSameTPC(pid1, pid2, "ThirdPlaneSlope"); err != nil {
		return 0, err
	}
	p1, err := g.Plane(pid1)
	if err != nil {
		return 0, err
	}
	p2, err := g.Plane(pid2)
	if err != nil {
		return 0, err
	}
	p3, err := g.Plane(output)
	if err != nil {
		return 0, err
	}
	return ComputeThirdPlaneSlope(p1.PhiZ(), slope1, p2.PhiZ(), slope2, p3.PhiZ()), nil
}

// ThirdPlaneDTDW is the pitch-normalized variant of ThirdPlaneSlope:
// slopes are d(ticks)/d(wire number), and each plane's wire pitch is
// needed to cancel the shared time constant.
func (g *GeometryCore) ThirdPlaneDTDW(pid1 PlaneID, dTdW1 float64, pid2 PlaneID, dTdW2 float64) (float64, error) {
	target, err := g.ThirdPlane(pid1, pid2)
	if err != nil {
		return 0, err
	}
	return g.ThirdPlaneDTDWOn(pid1, dTdW1, pid2, dTdW2, target)
}

// ThirdPlaneDTDWOn is ThirdPlaneDTDW with an explicit output plane.
func (g *GeometryCore) ThirdPlaneDTDWOn(pid1 PlaneID, dTdW1 float64, pid2 PlaneID, dTdW2 float64, output PlaneID) (float64, error) {
	if err := g.checkIndependentPlanesOnSameTPC(pid1, pid2, "ThirdPlane_dTdW"); err != nil {
		return 0, err
	}
	p1, err := g.Plane(pid1)
	if err != nil {
		return 0, err
	}
	p2, err := g.Plane(pid2)
	if err != nil {
		return 0, err
	}
	p3, err := g.Plane(output)
	if err != nil {
		return 0, err
	}
	return ComputeThirdPlaneDTDW(
		p1.PhiZ(), p1.WirePitch(), dTdW1,
		p2.PhiZ(), p2.WirePitch(), dTdW2,
		p3.PhiZ(), p3.WirePitch()), nil
}

// ComputeThirdPlaneSlope applies the sine identity relating slopes
// seen from three wire coordinate directions. Slopes below 1e-3 in
// both input planes are too flat to resolve and map to the sentinel
// 0.001; a vanishing denominator maps to 999.
func ComputeThirdPlaneSlope(angle1, slope1, angle2, slope2, angle3 float64) float64 {
	if math.Abs(slope1) < 0.001 && math.Abs(slope2) < 0.001 {
		return 0.001
	}
	slope3 := 0.001
	if math.Abs(slope1) > 0.001 && math.Abs(slope2) > 0.001 {
		slope3 = ((1/slope1)*math.Sin(angle3-angle2) -
			(1/slope2)*math.Sin(angle3-angle1)) /
			math.Sin(angle1 - angle2)
	}
	if slope3 != 0 {
		return 1 / slope3
	}
	return 999
}

// ComputeThirdPlaneDTDW is ComputeThirdPlaneSlope in time/wire-number
// units: dividing each slope by its plane's pitch makes the shared
// drift-time constant cancel, and the target pitch scales back.
func ComputeThirdPlaneDTDW(angle1, pitch1, dTdW1, angle2, pitch2, dTdW2, angleTarget, pitchTarget float64) float64 {
	return pitchTarget *
		ComputeThirdPlaneSlope(angle1, dTdW1/pitch1, angle2, dTdW2/pitch2, angleTarget)
}

// --- per-plane wire queries ------------------------------------------------

// WireCoordinate returns the continuous wire-number coordinate of
// point on the given plane.
func (g *GeometryCore) WireCoordinate(point r3.Vec, pid PlaneID) (float64, error) {
	p, err := g.Plane(pid)
	if err != nil {
		return 0, err
	}
	return p.WireCoordinate(point), nil
}

// NearestWireID returns the in-range wire of pid nearest to point and
// whether the position actually projected inside the plane's wire
// range; outside positions still get the closest existing wire.
func (g *GeometryCore) NearestWireID(point r3.Vec, pid PlaneID) (WireID, bool, error) {
	p, err := g.Plane(pid)
	if err != nil {
		return WireID{}, false, err
	}
	wid, ok := p.NearestWireID(point)
	return wid, ok, nil
}

// PlanePitch returns the distance between two planes of one TPC along
// the plane normal.
func (g *GeometryCore) PlanePitch(pid1, pid2 PlaneID) (float64, error) {
	if !pid1.InTPC(pid2.TPCID) {
		return 0, &InvalidInputError{Op: "PlanePitch",
			Reason: fmt.Sprintf("planes %s and %s are in different TPCs", pid1, pid2)}
	}
	t, err := g.TPC(pid1.TPCID)
	if err != nil {
		return 0, err
	}
	return t.PlanePitch(pid1.Plane, pid2.Plane)
}

// WirePitch returns the wire spacing of the given plane.
func (g *GeometryCore) WirePitch(pid PlaneID) (float64, error) {
	p, err := g.Plane(pid)
	if err != nil {
		return 0, err
	}
	return p.WirePitch(), nil
}

// --- channel map indirection ------------------------------------------------

// PlaneWireToChannel maps a wire to its readout channel; false when
// the wire has no channel.
func (g *GeometryCore) PlaneWireToChannel(wid WireID) (ChannelID, bool) {
	return g.chanMap.PlaneWireToChannel(wid)
}

// ChannelToWire maps a channel to the wires it reads.
func (g *GeometryCore) ChannelToWire(ch ChannelID) ([]WireID, bool) {
	return g.chanMap.ChannelToWire(ch)
}

// NearestChannel returns the channel reading the wire nearest to
// point on the given plane; false when the position projects outside
// the plane or the wire has no channel.
func (g *GeometryCore) NearestChannel(point r3.Vec, pid PlaneID) (ChannelID, bool, error) {
	wid, ok, err := g.NearestWireID(point, pid)
	if err != nil {
		return InvalidChannelID, false, err
	}
	if !ok {
		return InvalidChannelID, false, nil
	}
	ch, ok := g.PlaneWireToChannel(wid)
	return ch, ok, nil
}

// HasChannel reports whether the channel exists in the applied map.
func (g *GeometryCore) HasChannel(ch ChannelID) bool {
	return g.chanMap != nil && g.chanMap.HasChannel(ch)
}

// ChannelToROP maps a channel to its readout plane.
func (g *GeometryCore) ChannelToROP(ch ChannelID) ROPID {
	return g.chanMap.ChannelToROP(ch)
}

// SignalTypeForROP classifies what a readout plane records.
func (g *GeometryCore) SignalTypeForROP(rid ROPID) SignalType {
	return g.chanMap.SignalType(rid)
}

// SignalTypeForChannel classifies what a channel records.
func (g *GeometryCore) SignalTypeForChannel(ch ChannelID) SignalType {
	return g.chanMap.SignalType(g.chanMap.ChannelToROP(ch))
}

// TPC set and readout plane passthroughs, all owned by the channel
// map.
func (g *GeometryCore) NTPCsets(cid CryostatID) int         { return g.chanMap.NTPCsets(cid) }
func (g *GeometryCore) HasTPCset(sid TPCSetID) bool         { return g.chanMap.HasTPCset(sid) }
func (g *GeometryCore) TPCtoTPCset(tid TPCID) TPCSetID      { return g.chanMap.TPCtoTPCset(tid) }
func (g *GeometryCore) TPCsetToTPCs(sid TPCSetID) []TPCID   { return g.chanMap.TPCsetToTPCs(sid) }
func (g *GeometryCore) NROPs(sid TPCSetID) int              { return g.chanMap.NROPs(sid) }
func (g *GeometryCore) HasROP(rid ROPID) bool               { return g.chanMap.HasROP(rid) }
func (g *GeometryCore) WirePlaneToROP(pid PlaneID) ROPID    { return g.chanMap.WirePlaneToROP(pid) }
func (g *GeometryCore) ROPtoWirePlanes(rid ROPID) []PlaneID { return g.chanMap.ROPtoWirePlanes(rid) }
func (g *GeometryCore) FirstChannelInROP(rid ROPID) ChannelID {
	return g.chanMap.FirstChannelInROP(rid)
}
