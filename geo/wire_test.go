package geo

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestWireGeoBasics(t *testing.T) {
	// Direction gets normalized on the way in.
	w := NewWireGeo(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{Z: 10}, 5)
	if !almostEqVec(w.Direction(), r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("Direction() = %v", w.Direction())
	}
	if w.Length() != 2*w.HalfLength() || w.Length() != 10 {
		t.Errorf("Length() = %g, HalfLength() = %g", w.Length(), w.HalfLength())
	}
	start, end := w.Start(), w.End()
	if !almostEqVec(start, r3.Vec{X: 1, Y: 2, Z: -2}, 1e-12) ||
		!almostEqVec(end, r3.Vec{X: 1, Y: 2, Z: 8}, 1e-12) {
		t.Errorf("Start() = %v, End() = %v", start, end)
	}
	mid := start.Add(end).Scale(0.5)
	if !almostEqVec(mid, w.Center(), 1e-12) {
		t.Errorf("tip midpoint %v is not the center %v", mid, w.Center())
	}
}

func TestWireGeoThetaZ(t *testing.T) {
	table := []struct {
		dir  r3.Vec
		want float64
	}{
		{r3.Vec{Z: 1}, 0},
		{r3.Vec{Y: 1}, math.Pi / 2},
		{r3.Vec{Z: -1}, math.Pi},
		{r3.Vec{Y: math.Sin(math.Pi / 3), Z: math.Cos(math.Pi / 3)}, math.Pi / 3},
	}
	for i, line := range table {
		w := NewWireGeo(r3.Vec{}, line.dir, 1)
		if got := w.ThetaZ(); !almostEq(got, line.want, 1e-12) {
			t.Errorf("%d) ThetaZ() = %g, wanted %g", i+1, got, line.want)
		}
	}
}

func TestWireGeoPositionFromCenter(t *testing.T) {
	w := NewWireGeo(r3.Vec{}, r3.Vec{Y: 1}, 3)
	if got := w.PositionFromCenter(2); !almostEqVec(got, r3.Vec{Y: 2}, 1e-12) {
		t.Errorf("PositionFromCenter(2) = %v", got)
	}
	// Offsets beyond the tips are capped...
	if got := w.PositionFromCenter(100); !almostEqVec(got, r3.Vec{Y: 3}, 1e-12) {
		t.Errorf("PositionFromCenter(100) = %v", got)
	}
	if got := w.PositionFromCenter(-100); !almostEqVec(got, r3.Vec{Y: -3}, 1e-12) {
		t.Errorf("PositionFromCenter(-100) = %v", got)
	}
	// ...unless the unbounded variant is asked.
	got := w.PositionFromCenterUnbounded(100)
	if !almostEqVec(got, r3.Vec{Y: 100}, 1e-12) {
		t.Errorf("PositionFromCenterUnbounded(100) = %v", got)
	}
}

func TestWireGeoDistanceFrom(t *testing.T) {
	a := NewWireGeo(r3.Vec{}, r3.Vec{Z: 1}, 10)
	// Separation along the common direction does not count.
	b := NewWireGeo(r3.Vec{X: 3, Y: 4, Z: 100}, r3.Vec{Z: 1}, 10)
	if got := a.DistanceFrom(&b); !almostEq(got, 5, 1e-12) {
		t.Errorf("DistanceFrom = %g, wanted 5", got)
	}
	if got := WirePitch(&a, &b); !almostEq(got, 5, 1e-12) {
		t.Errorf("WirePitch = %g, wanted 5", got)
	}
}

func TestWireGeoUpdateAfterSorting(t *testing.T) {
	w := NewWireGeo(r3.Vec{}, r3.Vec{Y: 1}, 1)
	id := NewWireID(0, 1, 2, 3)
	w.updateAfterSorting(id, true)
	if w.ID() != id {
		t.Errorf("ID() = %s, wanted %s", w.ID(), id)
	}
	if !almostEqVec(w.Direction(), r3.Vec{Y: -1}, 1e-12) {
		t.Errorf("flip left the direction at %v", w.Direction())
	}
	w.updateAfterSorting(id, false)
	if !almostEqVec(w.Direction(), r3.Vec{Y: -1}, 1e-12) {
		t.Errorf("no-flip update changed the direction to %v", w.Direction())
	}
}
