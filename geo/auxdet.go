package geo

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// AuxDetSensitiveGeo is one sensitive sub-volume of an auxiliary
// detector, e.g. a scintillator strip.
type AuxDetSensitiveGeo struct {
	name   string
	center r3.Vec
	box    Box
}

// NewAuxDetSensitiveGeo builds a sensitive volume from its volume name,
// world center and world bounding box.
func NewAuxDetSensitiveGeo(name string, center r3.Vec, box Box) AuxDetSensitiveGeo {
	return AuxDetSensitiveGeo{name: name, center: center, box: box}
}

func (s *AuxDetSensitiveGeo) Name() string      { return s.name }
func (s *AuxDetSensitiveGeo) GetCenter() r3.Vec { return s.center }
func (s *AuxDetSensitiveGeo) BoundingBox() Box  { return s.box }

// DistanceToPoint returns the distance between the volume center and
// point.
func (s *AuxDetSensitiveGeo) DistanceToPoint(point r3.Vec) float64 {
	return r3.Norm(point.Sub(s.center))
}

// ContainsPosition reports whether point is inside the volume box,
// expanded by tolerance on every side.
func (s *AuxDetSensitiveGeo) ContainsPosition(point r3.Vec, tolerance float64) bool {
	return boxContainsWithTolerance(s.box, point, tolerance)
}

// AuxDetGeo is one auxiliary detector: a solid outside the cryostats
// (a cosmic ray tagger, a beam counter) with an ordered list of
// sensitive sub-volumes. Auxiliary detectors are tied to the rest of
// the detector only by spatial coincidence.
type AuxDetGeo struct {
	name      string
	center    r3.Vec
	box       Box
	sensitive []AuxDetSensitiveGeo
}

// NewAuxDetGeo builds an auxiliary detector from its volume name, world
// center, world bounding box and sensitive volumes, in builder order.
func NewAuxDetGeo(name string, center r3.Vec, box Box, sensitive []AuxDetSensitiveGeo) *AuxDetGeo {
	return &AuxDetGeo{name: name, center: center, box: box, sensitive: sensitive}
}

func (a *AuxDetGeo) Name() string      { return a.name }
func (a *AuxDetGeo) GetCenter() r3.Vec { return a.center }
func (a *AuxDetGeo) BoundingBox() Box  { return a.box }

func (a *AuxDetGeo) NSensitiveVolume() int { return len(a.sensitive) }

// SensitiveVolume returns the i-th sensitive volume of the detector.
func (a *AuxDetGeo) SensitiveVolume(i int) (*AuxDetSensitiveGeo, error) {
	if i < 0 || i >= len(a.sensitive) {
		return nil, notFoundIndex("auxiliary detector sensitive volume", i)
	}
	return &a.sensitive[i], nil
}

// DistanceToPoint returns the distance between the detector center and
// point.
func (a *AuxDetGeo) DistanceToPoint(point r3.Vec) float64 {
	return r3.Norm(point.Sub(a.center))
}

// ContainsPosition reports whether point is inside the detector box,
// expanded by tolerance on every side.
func (a *AuxDetGeo) ContainsPosition(point r3.Vec, tolerance float64) bool {
	return boxContainsWithTolerance(a.box, point, tolerance)
}

// boxContainsWithTolerance is the additive cousin of the wiggle test:
// auxiliary detector searches quote their tolerance as an absolute
// skin thickness in cm, not as a fraction of the box.
func boxContainsWithTolerance(b Box, p r3.Vec, tolerance float64) bool {
	return p.X >= b.Min().X-tolerance && p.X <= b.Max().X+tolerance &&
		p.Y >= b.Min().Y-tolerance && p.Y <= b.Max().Y+tolerance &&
		p.Z >= b.Min().Z-tolerance && p.Z <= b.Max().Z+tolerance
}
