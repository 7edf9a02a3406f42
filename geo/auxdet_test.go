package geo

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestAuxDetGeoContains(t *testing.T) {
	strips := []AuxDetSensitiveGeo{
		NewAuxDetSensitiveGeo("s0", r3.Vec{Z: -2.5},
			NewBox(r3.Vec{X: -5, Y: -1, Z: -5}, r3.Vec{X: 5, Y: 1, Z: 0})),
		NewAuxDetSensitiveGeo("s1", r3.Vec{Z: 2.5},
			NewBox(r3.Vec{X: -5, Y: -1, Z: 0}, r3.Vec{X: 5, Y: 1, Z: 5})),
	}
	ad := NewAuxDetGeo("volAuxDet_crt0", r3.Vec{},
		NewBox(r3.Vec{X: -5, Y: -1, Z: -5}, r3.Vec{X: 5, Y: 1, Z: 5}),
		strips,
	)
	if ad.Name() != "volAuxDet_crt0" || ad.NSensitiveVolume() != 2 {
		t.Fatalf("name %q, %d sensitive volumes.",
			ad.Name(), ad.NSensitiveVolume())
	}
	if _, err := ad.SensitiveVolume(2); err == nil {
		t.Error("SensitiveVolume(2) did not fail.")
	}
	s, err := ad.SensitiveVolume(1)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "s1" {
		t.Errorf("SensitiveVolume(1) is %q.", s.Name())
	}

	// The tolerance is an absolute skin, unlike the multiplicative
	// wiggle on cryostat and TPC boxes.
	table := []struct {
		point     r3.Vec
		tolerance float64
		want      bool
	}{
		{r3.Vec{}, 0, true},
		{r3.Vec{Y: 1}, 0, true},
		{r3.Vec{Y: 1.5}, 0, false},
		{r3.Vec{Y: 1.5}, 1, true},
		{r3.Vec{X: 5.5, Y: 1.5, Z: -5.5}, 1, true},
		{r3.Vec{X: 7}, 1, false},
	}
	for i, line := range table {
		if got := ad.ContainsPosition(line.point, line.tolerance); got != line.want {
			t.Errorf("%d) ContainsPosition(%v, %g) = %v",
				i+1, line.point, line.tolerance, got)
		}
	}
	if got := ad.DistanceToPoint(r3.Vec{X: 3, Y: 4}); !almostEq(got, 5, 1e-12) {
		t.Errorf("DistanceToPoint = %g, wanted 5", got)
	}
}
