package geo

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// GeoObjectSorter puts sibling elements into their canonical order
// before IDs are assigned. Every method permutes its argument in
// place; the geometry core never inspects the criteria.
type GeoObjectSorter interface {
	SortCryostats([]*CryostatGeo)
	SortTPCs([]*TPCGeo)
	SortPlanes([]*PlaneGeo)
	SortOpDets([]OpDetGeo)
	SortAuxDets([]*AuxDetGeo)
}

// StandardSorter orders everything by position: cryostats and TPCs by
// center (x, then y, then z), planes by drift coordinate so plane 0 is
// the one charge reaches first, optical detectors by center, auxiliary
// detectors by name. Ties resolve deterministically, so a given scene
// always yields the same IDs.
type StandardSorter struct{}

var _ GeoObjectSorter = StandardSorter{}

func lessVec(a, b r3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

func (StandardSorter) SortCryostats(cryos []*CryostatGeo) {
	sort.SliceStable(cryos, func(i, j int) bool {
		return lessVec(cryos[i].GetCenter(), cryos[j].GetCenter())
	})
}

func (StandardSorter) SortTPCs(tpcs []*TPCGeo) {
	sort.SliceStable(tpcs, func(i, j int) bool {
		return lessVec(tpcs[i].GetCenter(), tpcs[j].GetCenter())
	})
}

func (StandardSorter) SortPlanes(planes []*PlaneGeo) {
	sort.SliceStable(planes, func(i, j int) bool {
		return lessVec(planes[i].GetBoxCenter(), planes[j].GetBoxCenter())
	})
}

func (StandardSorter) SortOpDets(opDets []OpDetGeo) {
	sort.SliceStable(opDets, func(i, j int) bool {
		return lessVec(opDets[i].GetCenter(), opDets[j].GetCenter())
	})
}

func (StandardSorter) SortAuxDets(auxDets []*AuxDetGeo) {
	sort.SliceStable(auxDets, func(i, j int) bool {
		return auxDets[i].Name() < auxDets[j].Name()
	})
}
