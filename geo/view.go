package geo

// View classifies which coordinate a plane's wires measure. Slanted
// planes lean one of two ways (U or V), vertical wires measure z,
// horizontal wires measure y.
type View int

const (
	ViewU View = iota
	ViewV
	ViewZ
	ViewY
	ViewUnknown
)

func (v View) String() string {
	switch v {
	case ViewU:
		return "U"
	case ViewV:
		return "V"
	case ViewZ:
		return "Z"
	case ViewY:
		return "Y"
	}
	return "?"
}

// Orientation tags whether a plane stands vertically or lies
// horizontally.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Range is a closed 1D interval.
type Range struct {
	Lower, Upper float64
}

// Size returns the length of the interval.
func (r Range) Size() float64 { return r.Upper - r.Lower }

// delta returns the shift that brings v inside the interval shrunk by
// margin at both ends: zero when v is already inside.
func (r Range) delta(v, margin float64) float64 {
	if v < r.Lower+margin {
		return r.Lower + margin - v
	}
	if v > r.Upper-margin {
		return r.Upper - margin - v
	}
	return 0
}

// ActiveArea is the in-plane rectangle actually covered by wires,
// written in frame (width, depth) coordinates relative to the plane
// center.
type ActiveArea struct {
	Width, Depth Range
}
