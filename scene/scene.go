/*
Package scene represents a detector geometry as a tree of named, placed
solid volumes. The solid modeling itself is handed off to the sdfx engine:
every node owns an sdf.SDF3 describing its shape in the node's local frame,
plus an affine transform placing that frame inside its parent's. On top of
the tree the package provides a single-use depth-first iterator, point
location, and a loader that builds trees out of gcfg description files.

Lengths are in cm and densities in g/cm^3 throughout.
*/
package scene

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ShapeKind selects one of the primitive solids the loader knows how to
// build.
type ShapeKind int

const (
	Box ShapeKind = iota
	Tube
)

// Shape is the analytic description of a primitive solid. Dx, Dy and Dz
// are half extents. Tubes run along the local z axis with radius R and
// half length Dz.
type Shape struct {
	Kind       ShapeKind
	Dx, Dy, Dz float64
	R          float64
}

// Solid builds the sdfx solid for s, centered on the local origin.
func (s Shape) Solid() (sdf.SDF3, error) {
	switch s.Kind {
	case Box:
		return sdf.Box3D(v3.Vec{X: 2 * s.Dx, Y: 2 * s.Dy, Z: 2 * s.Dz}, 0)
	case Tube:
		return sdf.Cylinder3D(2*s.Dz, s.R, 0)
	}
	return nil, fmt.Errorf("unknown shape kind %d", s.Kind)
}

// Volume returns the analytic volume of s in cm^3.
func (s Shape) Volume() float64 {
	switch s.Kind {
	case Box:
		return 8 * s.Dx * s.Dy * s.Dz
	case Tube:
		return 2 * math.Pi * s.R * s.R * s.Dz
	}
	return 0
}

// Material tags a volume with what it is made of.
type Material struct {
	Name    string
	Density float64
}
