package scene

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Node is one placed volume in a geometry tree. Children are ordered and
// the order is meaningful: traversal and downstream index assignment both
// follow it.
type Node struct {
	name     string
	shape    Shape
	solid    sdf.SDF3
	mat      Material
	trans    Transform
	children []*Node
}

// NewNode builds a childless node. The solid is built from shape and
// lives in the node's local frame; trans places that frame inside the
// parent's.
func NewNode(name string, shape Shape, mat Material, trans Transform) (*Node, error) {
	solid, err := shape.Solid()
	if err != nil {
		return nil, fmt.Errorf("node '%s': %v", name, err)
	}
	return &Node{name: name, shape: shape, solid: solid, mat: mat, trans: trans}, nil
}

func (n *Node) Name() string         { return n.name }
func (n *Node) Shape() Shape         { return n.shape }
func (n *Node) Material() Material   { return n.mat }
func (n *Node) Placement() Transform { return n.trans }
func (n *Node) Solid() sdf.SDF3      { return n.solid }

func (n *Node) NChildren() int    { return len(n.children) }
func (n *Node) Child(i int) *Node { return n.children[i] }

// AddChild appends c to the node's ordered child list.
func (n *Node) AddChild(c *Node) { n.children = append(n.children, c) }

// Contains reports whether the local-frame point p is inside the node's
// solid, surface included.
func (n *Node) Contains(p r3.Vec) bool {
	return n.solid.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z}) <= 0
}

// Bounds returns the local-frame bounding box of the node's solid.
func (n *Node) Bounds() (min, max r3.Vec) {
	bb := n.solid.BoundingBox()
	min = r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}
	max = r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
	return min, max
}

// PathTransform composes the placements along path, root first. The
// result maps the last node's local frame out to the frame the first
// node is placed in.
func PathTransform(path []*Node) Transform {
	t := Identity()
	for _, n := range path {
		t = t.Mul(n.Placement())
	}
	return t
}

// Locate descends from root and returns the path to the deepest node
// containing the world point p. Overlapping siblings resolve to the
// first child in order. ok is false when p is outside root.
func Locate(root *Node, p r3.Vec) (path []*Node, ok bool) {
	if root == nil {
		return nil, false
	}
	local := root.trans.PointInv(p)
	if !root.Contains(local) {
		return nil, false
	}
	path = []*Node{root}
	cur := root
descend:
	for {
		for _, c := range cur.children {
			cl := c.trans.PointInv(local)
			if c.Contains(cl) {
				cur, local = c, cl
				path = append(path, c)
				continue descend
			}
		}
		return path, true
	}
}
