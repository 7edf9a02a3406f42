package geo

import "fmt"

// The identifier hierarchy mirrors the detector nesting: a cryostat
// holds TPCs, a TPC holds wire planes, a plane holds wires. Each level
// embeds its parent, so a WireID carries the full address of its wire.
// IDs are plain values; the validity flag lives on the innermost
// CryostatID and speaks for the whole ID. An ID marked invalid keeps
// whatever index values it had, which the end-of-container sentinels
// below rely on.

// InvalidIndex is the index carried by IDs returned from queries that
// found nothing, so a fully invalid result never aliases element 0.
const InvalidIndex = -1

// InvalidCryostatID and InvalidTPCID are fully invalid IDs with every
// index set to InvalidIndex. They differ, by index, from the invalid
// partial results that keep a real parent index.
func InvalidCryostatID() CryostatID { return CryostatID{Cryostat: InvalidIndex} }

func InvalidTPCID() TPCID {
	return TPCID{CryostatID: InvalidCryostatID(), TPC: InvalidIndex}
}

// CryostatID identifies one cryostat. The zero value is invalid.
type CryostatID struct {
	Cryostat int
	isValid  bool
}

// NewCryostatID returns a valid ID for cryostat c.
func NewCryostatID(c int) CryostatID {
	return CryostatID{Cryostat: c, isValid: true}
}

// IsValid reports whether the ID addresses anything at all.
func (id CryostatID) IsValid() bool { return id.isValid }

// AsInvalid returns id with the validity flag cleared and every index
// kept as is.
func (id CryostatID) AsInvalid() CryostatID {
	id.isValid = false
	return id
}

func (id CryostatID) String() string { return fmt.Sprintf("C:%d", id.Cryostat) }

// Cmp orders IDs lexicographically by index, ignoring validity. It
// returns -1, 0 or +1.
func (id CryostatID) Cmp(other CryostatID) int {
	return cmpInt(id.Cryostat, other.Cryostat)
}

func (id CryostatID) Less(other CryostatID) bool { return id.Cmp(other) < 0 }

// TPCID identifies one TPC within a cryostat.
type TPCID struct {
	CryostatID
	TPC int
}

// NewTPCID returns a valid ID for TPC t of cryostat c.
func NewTPCID(c, t int) TPCID {
	return TPCID{CryostatID: NewCryostatID(c), TPC: t}
}

func (id TPCID) AsInvalid() TPCID {
	id.isValid = false
	return id
}

func (id TPCID) String() string {
	return fmt.Sprintf("%s T:%d", id.CryostatID, id.TPC)
}

// InCryostat reports whether id addresses something inside cid.
func (id TPCID) InCryostat(cid CryostatID) bool {
	return id.Cryostat == cid.Cryostat
}

func (id TPCID) Cmp(other TPCID) int {
	if c := id.CryostatID.Cmp(other.CryostatID); c != 0 {
		return c
	}
	return cmpInt(id.TPC, other.TPC)
}

func (id TPCID) Less(other TPCID) bool { return id.Cmp(other) < 0 }

// PlaneID identifies one wire plane within a TPC.
type PlaneID struct {
	TPCID
	Plane int
}

// NewPlaneID returns a valid ID for plane p of TPC t of cryostat c.
func NewPlaneID(c, t, p int) PlaneID {
	return PlaneID{TPCID: NewTPCID(c, t), Plane: p}
}

func (id PlaneID) AsInvalid() PlaneID {
	id.isValid = false
	return id
}

func (id PlaneID) String() string {
	return fmt.Sprintf("%s P:%d", id.TPCID, id.Plane)
}

func (id PlaneID) InCryostat(cid CryostatID) bool {
	return id.Cryostat == cid.Cryostat
}

// InTPC reports whether id addresses something inside tid.
func (id PlaneID) InTPC(tid TPCID) bool {
	return id.Cryostat == tid.Cryostat && id.TPC == tid.TPC
}

func (id PlaneID) Cmp(other PlaneID) int {
	if c := id.TPCID.Cmp(other.TPCID); c != 0 {
		return c
	}
	return cmpInt(id.Plane, other.Plane)
}

func (id PlaneID) Less(other PlaneID) bool { return id.Cmp(other) < 0 }

// WireID identifies one wire within a plane.
type WireID struct {
	PlaneID
	Wire int
}

// NewWireID returns a valid ID for wire w of plane p of TPC t of
// cryostat c.
func NewWireID(c, t, p, w int) WireID {
	return WireID{PlaneID: NewPlaneID(c, t, p), Wire: w}
}

func (id WireID) AsInvalid() WireID {
	id.isValid = false
	return id
}

func (id WireID) String() string {
	return fmt.Sprintf("%s W:%d", id.PlaneID, id.Wire)
}

func (id WireID) InCryostat(cid CryostatID) bool {
	return id.Cryostat == cid.Cryostat
}

func (id WireID) InTPC(tid TPCID) bool {
	return id.Cryostat == tid.Cryostat && id.TPC == tid.TPC
}

// InPlane reports whether id addresses a wire of plane pid.
func (id WireID) InPlane(pid PlaneID) bool {
	return id.Cryostat == pid.Cryostat && id.TPC == pid.TPC &&
		id.Plane == pid.Plane
}

func (id WireID) Cmp(other WireID) int {
	if c := id.PlaneID.Cmp(other.PlaneID); c != 0 {
		return c
	}
	return cmpInt(id.Wire, other.Wire)
}

func (id WireID) Less(other WireID) bool { return id.Cmp(other) < 0 }

// TPCSetID identifies an electronics-side grouping of TPCs within a
// cryostat. TPC sets are owned and assigned by the channel map, never by
// the geometry itself.
type TPCSetID struct {
	CryostatID
	TPCSet int
}

// NewTPCSetID returns a valid ID for TPC set s of cryostat c.
func NewTPCSetID(c, s int) TPCSetID {
	return TPCSetID{CryostatID: NewCryostatID(c), TPCSet: s}
}

func (id TPCSetID) AsInvalid() TPCSetID {
	id.isValid = false
	return id
}

func (id TPCSetID) String() string {
	return fmt.Sprintf("%s S:%d", id.CryostatID, id.TPCSet)
}

func (id TPCSetID) InCryostat(cid CryostatID) bool {
	return id.Cryostat == cid.Cryostat
}

func (id TPCSetID) Cmp(other TPCSetID) int {
	if c := id.CryostatID.Cmp(other.CryostatID); c != 0 {
		return c
	}
	return cmpInt(id.TPCSet, other.TPCSet)
}

func (id TPCSetID) Less(other TPCSetID) bool { return id.Cmp(other) < 0 }

// ROPID identifies one readout plane within a TPC set. Like TPC sets,
// readout planes belong to the channel map.
type ROPID struct {
	TPCSetID
	ROP int
}

// NewROPID returns a valid ID for readout plane r of TPC set s of
// cryostat c.
func NewROPID(c, s, r int) ROPID {
	return ROPID{TPCSetID: NewTPCSetID(c, s), ROP: r}
}

func (id ROPID) AsInvalid() ROPID {
	id.isValid = false
	return id
}

func (id ROPID) String() string {
	return fmt.Sprintf("%s R:%d", id.TPCSetID, id.ROP)
}

func (id ROPID) InTPCSet(sid TPCSetID) bool {
	return id.Cryostat == sid.Cryostat && id.TPCSet == sid.TPCSet
}

func (id ROPID) Cmp(other ROPID) int {
	if c := id.TPCSetID.Cmp(other.TPCSetID); c != 0 {
		return c
	}
	return cmpInt(id.ROP, other.ROP)
}

func (id ROPID) Less(other ROPID) bool { return id.Cmp(other) < 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	}
	return 0
}
