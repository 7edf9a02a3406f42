package geo

import "gonum.org/v1/gonum/spatial/r3"

// Box is an axis aligned box in world coordinates, the bounding volume
// of every geometry element. Corners are kept sorted per coordinate.
type Box struct {
	min, max r3.Vec
}

// NewBox builds a box from two opposite corners, sorting each
// coordinate.
func NewBox(a, b r3.Vec) Box {
	lo := r3.Vec{X: minf(a.X, b.X), Y: minf(a.Y, b.Y), Z: minf(a.Z, b.Z)}
	hi := r3.Vec{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y), Z: maxf(a.Z, b.Z)}
	return Box{min: lo, max: hi}
}

func (b Box) Min() r3.Vec { return b.min }
func (b Box) Max() r3.Vec { return b.max }

func (b Box) Center() r3.Vec {
	return b.min.Add(b.max).Scale(0.5)
}

func (b Box) SizeX() float64 { return b.max.X - b.min.X }
func (b Box) SizeY() float64 { return b.max.Y - b.min.Y }
func (b Box) SizeZ() float64 { return b.max.Z - b.min.Z }

func (b Box) HalfSizeX() float64 { return 0.5 * b.SizeX() }
func (b Box) HalfSizeY() float64 { return 0.5 * b.SizeY() }
func (b Box) HalfSizeZ() float64 { return 0.5 * b.SizeZ() }

// ExtendToInclude grows the box just enough to contain p.
func (b Box) ExtendToInclude(p r3.Vec) Box {
	b.min = r3.Vec{X: minf(b.min.X, p.X), Y: minf(b.min.Y, p.Y), Z: minf(b.min.Z, p.Z)}
	b.max = r3.Vec{X: maxf(b.max.X, p.X), Y: maxf(b.max.Y, p.Y), Z: maxf(b.max.Z, p.Z)}
	return b
}

// ContainsPosition reports whether p is inside the box scaled by the
// wiggle factor: 1 tests the exact box, more accepts a skin around it,
// less shaves one off.
func (b Box) ContainsPosition(p r3.Vec, wiggle float64) bool {
	return CoordinateContained(p.X, b.min.X, b.max.X, wiggle) &&
		CoordinateContained(p.Y, b.min.Y, b.max.Y, wiggle) &&
		CoordinateContained(p.Z, b.min.Z, b.max.Z, wiggle)
}

// CoordinateContained reports whether c lies in [min, max] once both
// bounds are scaled by the wiggle factor. Bounds scale away from zero,
// so a factor above 1 always widens the interval.
func CoordinateContained(c, min, max, wiggle float64) bool {
	lo := min * wiggle
	if min > 0 {
		lo = min / wiggle
	}
	hi := max * wiggle
	if max < 0 {
		hi = max / wiggle
	}
	return c >= lo && c <= hi
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
