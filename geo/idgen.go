package geo

// SiblingCounts supplies the container sizes that ID sequence generation
// needs. Implementations must report zero for parents that do not exist.
type SiblingCounts interface {
	Ncryostats() int
	NTPCs(CryostatID) int
	Nplanes(TPCID) int
	Nwires(PlaneID) int
}

// The Begin/End pairs below delimit half open ID ranges in the standard
// order. End IDs of non-empty containers advance the parent index by one
// with the lower indices zeroed; the end ID of an EMPTY container is the
// begin ID of that same container marked invalid, indices kept. Next*
// functions step through a range one ID at a time, carrying into the
// following parent; an ID that is already invalid never becomes valid by
// stepping it.

// BeginCryostatID returns the first cryostat ID of the standard order.
func BeginCryostatID() CryostatID { return NewCryostatID(0) }

// EndCryostatID returns the ID one past the last cryostat.
func EndCryostatID(n SiblingCounts) CryostatID {
	if n.Ncryostats() == 0 {
		return BeginCryostatID().AsInvalid()
	}
	return NewCryostatID(n.Ncryostats())
}

// NextCryostatID returns the ID following id, marked invalid once the
// detector runs out of cryostats.
func NextCryostatID(id CryostatID, n SiblingCounts) CryostatID {
	id.Cryostat++
	if id.isValid {
		id.isValid = id.Cryostat < n.Ncryostats()
	}
	return id
}

// BeginTPCID returns the first TPC ID under cid, inheriting cid's
// validity.
func BeginTPCID(cid CryostatID) TPCID { return TPCID{CryostatID: cid, TPC: 0} }

// EndTPCID returns the ID one past the last TPC of cid.
func EndTPCID(cid CryostatID, n SiblingCounts) TPCID {
	if n.NTPCs(cid) == 0 {
		return BeginTPCID(cid).AsInvalid()
	}
	return TPCID{CryostatID: NewCryostatID(cid.Cryostat + 1), TPC: 0}
}

// NextTPCID returns the TPC ID following id, carrying into the next
// cryostat when this one runs out of TPCs.
func NextTPCID(id TPCID, n SiblingCounts) TPCID {
	id.TPC++
	if id.TPC < n.NTPCs(id.CryostatID) {
		return id
	}
	id.TPC = 0
	id.CryostatID = NextCryostatID(id.CryostatID, n)
	return id
}

// BeginPlaneID returns the first plane ID under tid, inheriting tid's
// validity.
func BeginPlaneID(tid TPCID) PlaneID { return PlaneID{TPCID: tid, Plane: 0} }

// EndPlaneID returns the ID one past the last plane of tid.
func EndPlaneID(tid TPCID, n SiblingCounts) PlaneID {
	if n.Nplanes(tid) == 0 {
		return BeginPlaneID(tid).AsInvalid()
	}
	return PlaneID{TPCID: NextTPCID(tid, n), Plane: 0}
}

// NextPlaneID returns the plane ID following id, carrying into the next
// TPC when this one runs out of planes.
func NextPlaneID(id PlaneID, n SiblingCounts) PlaneID {
	id.Plane++
	if id.Plane < n.Nplanes(id.TPCID) {
		return id
	}
	id.Plane = 0
	id.TPCID = NextTPCID(id.TPCID, n)
	return id
}

// BeginWireID returns the first wire ID under pid, inheriting pid's
// validity.
func BeginWireID(pid PlaneID) WireID { return WireID{PlaneID: pid, Wire: 0} }

// EndWireID returns the ID one past the last wire of pid.
func EndWireID(pid PlaneID, n SiblingCounts) WireID {
	if n.Nwires(pid) == 0 {
		return BeginWireID(pid).AsInvalid()
	}
	return WireID{PlaneID: NextPlaneID(pid, n), Wire: 0}
}

// NextWireID returns the wire ID following id, carrying into the next
// plane when this one runs out of wires.
func NextWireID(id WireID, n SiblingCounts) WireID {
	id.Wire++
	if id.Wire < n.Nwires(id.PlaneID) {
		return id
	}
	id.Wire = 0
	id.PlaneID = NextPlaneID(id.PlaneID, n)
	return id
}
