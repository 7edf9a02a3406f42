package geo

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// ChannelID numbers one electronics readout channel. Channels are
// assigned by the channel map, not by the geometry.
type ChannelID uint32

// InvalidChannelID is the sentinel for "no channel here".
const InvalidChannelID = ^ChannelID(0)

// SignalType classifies what a channel records: the bipolar induction
// signal of a wire the charge passes by, or the unipolar collection
// signal of the wire that collects it.
type SignalType int

const (
	SignalInduction SignalType = iota
	SignalCollection
	SignalUnknown
)

func (s SignalType) String() string {
	switch s {
	case SignalInduction:
		return "induction"
	case SignalCollection:
		return "collection"
	}
	return "unknown"
}

// ChannelMap assigns electronics channels to wires and groups planes
// into readout units: TPC sets (TPCs read out together) and readout
// planes (wire planes read out as one). The geometry core queries it,
// never mutates it. Soft failures are boolean, not errors: wires
// without channels are expected at the detector edges.
type ChannelMap interface {
	Nchannels() int
	HasChannel(ChannelID) bool
	PlaneWireToChannel(WireID) (ChannelID, bool)
	ChannelToWire(ChannelID) ([]WireID, bool)

	NTPCsets(CryostatID) int
	HasTPCset(TPCSetID) bool
	TPCtoTPCset(TPCID) TPCSetID
	TPCsetToTPCs(TPCSetID) []TPCID

	NROPs(TPCSetID) int
	HasROP(ROPID) bool
	WirePlaneToROP(PlaneID) ROPID
	ROPtoWirePlanes(ROPID) []PlaneID
	FirstChannelInROP(ROPID) ChannelID
	ChannelToROP(ChannelID) ROPID

	SignalType(ROPID) SignalType

	NearestAuxDet(point r3.Vec, auxDets []*AuxDetGeo, tolerance float64) (int, bool)
	NearestSensitiveAuxDet(point r3.Vec, auxDets []*AuxDetGeo, tolerance float64) (ad, sv int, ok bool)
}

// ropEntry is one readout plane of the standard map: exactly one wire
// plane, with a contiguous channel block.
type ropEntry struct {
	plane   PlaneID
	first   ChannelID
	nWires  int
	signal  SignalType
	tpcSets int // TPC sets in this cryostat, for grouping queries
}

// StandardChannelMap numbers channels sequentially in wire ID order,
// maps one TPC set per TPC and one readout plane per wire plane, and
// classifies the last plane of each TPC (the one deepest along the
// drift) as collection, every other as induction.
type StandardChannelMap struct {
	rops      []ropEntry // in plane ID order
	byPlane   map[PlaneID]int
	nchannels ChannelID
	nTPCs     map[CryostatID]int
	nPlanes   map[TPCID]int
}

var _ ChannelMap = (*StandardChannelMap)(nil)

// NewStandardChannelMap builds the map from sorted, relabeled
// cryostats. It must be rebuilt from scratch on every geometry load.
func NewStandardChannelMap(cryostats []*CryostatGeo) *StandardChannelMap {
	m := &StandardChannelMap{
		byPlane: map[PlaneID]int{},
		nTPCs:   map[CryostatID]int{},
		nPlanes: map[TPCID]int{},
	}
	next := ChannelID(0)
	for _, c := range cryostats {
		m.nTPCs[c.ID()] = c.NTPC()
		for ti := 0; ti < c.NTPC(); ti++ {
			t, _ := c.TPC(ti)
			m.nPlanes[t.ID()] = t.Nplanes()
			for pi := 0; pi < t.Nplanes(); pi++ {
				p, _ := t.Plane(pi)
				signal := SignalInduction
				if pi == t.Nplanes()-1 {
					signal = SignalCollection
				}
				m.byPlane[p.ID()] = len(m.rops)
				m.rops = append(m.rops, ropEntry{
					plane:  p.ID(),
					first:  next,
					nWires: p.NWires(),
					signal: signal,
				})
				next += ChannelID(p.NWires())
			}
		}
	}
	m.nchannels = next
	return m
}

func (m *StandardChannelMap) Nchannels() int { return int(m.nchannels) }

func (m *StandardChannelMap) HasChannel(ch ChannelID) bool {
	return ch < m.nchannels
}

// PlaneWireToChannel returns the channel reading the given wire.
func (m *StandardChannelMap) PlaneWireToChannel(wid WireID) (ChannelID, bool) {
	i, ok := m.byPlane[wid.PlaneID]
	if !ok || wid.Wire < 0 || wid.Wire >= m.rops[i].nWires {
		return InvalidChannelID, false
	}
	return m.rops[i].first + ChannelID(wid.Wire), true
}

// ChannelToWire returns the wires read by the given channel; exactly
// one in the standard map, kept a slice for maps with wire ganging.
func (m *StandardChannelMap) ChannelToWire(ch ChannelID) ([]WireID, bool) {
	i, ok := m.ropIndexOf(ch)
	if !ok {
		return nil, false
	}
	e := m.rops[i]
	return []WireID{{PlaneID: e.plane, Wire: int(ch - e.first)}}, true
}

// ropIndexOf locates the readout plane owning ch by binary search on
// the first-channel table.
func (m *StandardChannelMap) ropIndexOf(ch ChannelID) (int, bool) {
	if ch >= m.nchannels {
		return 0, false
	}
	i := sort.Search(len(m.rops), func(i int) bool {
		return m.rops[i].first > ch
	}) - 1
	if i < 0 || int(ch-m.rops[i].first) >= m.rops[i].nWires {
		return 0, false
	}
	return i, true
}

func (m *StandardChannelMap) NTPCsets(cid CryostatID) int { return m.nTPCs[cid] }

func (m *StandardChannelMap) HasTPCset(sid TPCSetID) bool {
	return sid.IsValid() && sid.TPCSet >= 0 &&
		sid.TPCSet < m.nTPCs[sid.CryostatID]
}

// TPCtoTPCset maps a TPC to its set; in the standard map the two
// coincide index for index.
func (m *StandardChannelMap) TPCtoTPCset(tid TPCID) TPCSetID {
	if !tid.IsValid() || tid.TPC < 0 || tid.TPC >= m.nTPCs[tid.CryostatID] {
		return TPCSetID{}
	}
	return NewTPCSetID(tid.Cryostat, tid.TPC)
}

func (m *StandardChannelMap) TPCsetToTPCs(sid TPCSetID) []TPCID {
	if !m.HasTPCset(sid) {
		return nil
	}
	return []TPCID{NewTPCID(sid.Cryostat, sid.TPCSet)}
}

func (m *StandardChannelMap) NROPs(sid TPCSetID) int {
	if !m.HasTPCset(sid) {
		return 0
	}
	return m.nPlanes[NewTPCID(sid.Cryostat, sid.TPCSet)]
}

func (m *StandardChannelMap) HasROP(rid ROPID) bool {
	return rid.IsValid() && rid.ROP >= 0 && rid.ROP < m.NROPs(rid.TPCSetID)
}

func (m *StandardChannelMap) WirePlaneToROP(pid PlaneID) ROPID {
	if _, ok := m.byPlane[pid]; !ok {
		return ROPID{}
	}
	return NewROPID(pid.Cryostat, pid.TPC, pid.Plane)
}

func (m *StandardChannelMap) ROPtoWirePlanes(rid ROPID) []PlaneID {
	if !m.HasROP(rid) {
		return nil
	}
	return []PlaneID{NewPlaneID(rid.Cryostat, rid.TPCSet, rid.ROP)}
}

func (m *StandardChannelMap) FirstChannelInROP(rid ROPID) ChannelID {
	if !m.HasROP(rid) {
		return InvalidChannelID
	}
	return m.rops[m.byPlane[NewPlaneID(rid.Cryostat, rid.TPCSet, rid.ROP)]].first
}

func (m *StandardChannelMap) ChannelToROP(ch ChannelID) ROPID {
	i, ok := m.ropIndexOf(ch)
	if !ok {
		return ROPID{}
	}
	pid := m.rops[i].plane
	return NewROPID(pid.Cryostat, pid.TPC, pid.Plane)
}

func (m *StandardChannelMap) SignalType(rid ROPID) SignalType {
	if !m.HasROP(rid) {
		return SignalUnknown
	}
	return m.rops[m.byPlane[NewPlaneID(rid.Cryostat, rid.TPCSet, rid.ROP)]].signal
}

// NearestAuxDet returns the index of the first auxiliary detector
// whose box contains point within tolerance cm.
func (m *StandardChannelMap) NearestAuxDet(point r3.Vec, auxDets []*AuxDetGeo, tolerance float64) (int, bool) {
	for i, ad := range auxDets {
		if ad.ContainsPosition(point, tolerance) {
			return i, true
		}
	}
	return 0, false
}

// NearestSensitiveAuxDet refines NearestAuxDet down to the containing
// sensitive volume.
func (m *StandardChannelMap) NearestSensitiveAuxDet(point r3.Vec, auxDets []*AuxDetGeo, tolerance float64) (ad, sv int, ok bool) {
	ad, ok = m.NearestAuxDet(point, auxDets, tolerance)
	if !ok {
		return 0, 0, false
	}
	det := auxDets[ad]
	for i := 0; i < det.NSensitiveVolume(); i++ {
		s, _ := det.SensitiveVolume(i)
		if s.ContainsPosition(point, tolerance) {
			return ad, i, true
		}
	}
	return ad, 0, false
}
