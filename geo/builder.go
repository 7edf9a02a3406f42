package geo

import (
	"strings"

	"github.com/sabasehrish/larcorealg/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// GeometryBuilder turns a path-rooted view of the scene tree into
// geometry elements. The geometry core drives it once per load and
// takes ownership of everything it returns.
type GeometryBuilder interface {
	ExtractCryostats(path []*scene.Node) []*CryostatGeo
	ExtractAuxDets(path []*scene.Node) []*AuxDetGeo
}

// StandardBuilder recognizes detector volumes by the conventional name
// prefixes: volCryostat, volTPC, volTPCActive, volTPCPlane, volTPCWire,
// volOpDetSensitive, volAuxDet and volAuxDetSensitive.
type StandardBuilder struct{}

var _ GeometryBuilder = StandardBuilder{}

func isCryostatNode(name string) bool { return strings.HasPrefix(name, "volCryostat") }

func isTPCNode(name string) bool {
	return strings.HasPrefix(name, "volTPC") &&
		!strings.HasPrefix(name, "volTPCActive") &&
		!strings.HasPrefix(name, "volTPCPlane") &&
		!strings.HasPrefix(name, "volTPCWire")
}

func isActiveNode(name string) bool { return strings.HasPrefix(name, "volTPCActive") }
func isPlaneNode(name string) bool  { return strings.HasPrefix(name, "volTPCPlane") }
func isWireNode(name string) bool   { return strings.HasPrefix(name, "volTPCWire") }
func isOpDetNode(name string) bool  { return strings.HasPrefix(name, "volOpDetSensitive") }

func isAuxDetNode(name string) bool {
	return strings.HasPrefix(name, "volAuxDet") &&
		!strings.HasPrefix(name, "volAuxDetSensitive")
}

func isAuxDetSensitiveNode(name string) bool {
	return strings.HasPrefix(name, "volAuxDetSensitive")
}

// ExtractCryostats collects every cryostat under the last node of path.
func (b StandardBuilder) ExtractCryostats(path []*scene.Node) []*CryostatGeo {
	var out []*CryostatGeo
	collectPaths(path, isCryostatNode, func(p []*scene.Node) {
		out = append(out, b.makeCryostat(p))
	})
	return out
}

// ExtractAuxDets collects every auxiliary detector under the last node
// of path.
func (b StandardBuilder) ExtractAuxDets(path []*scene.Node) []*AuxDetGeo {
	var out []*AuxDetGeo
	collectPaths(path, isAuxDetNode, func(p []*scene.Node) {
		out = append(out, b.makeAuxDet(p))
	})
	return out
}

// collectPaths runs visit on the full path of every node under path
// whose name satisfies match. Matched nodes are not descended into:
// a cryostat never contains another cryostat.
func collectPaths(path []*scene.Node, match func(string) bool, visit func([]*scene.Node)) {
	if len(path) == 0 || path[len(path)-1] == nil {
		return
	}
	cur := path[len(path)-1]
	if match(cur.Name()) {
		visit(append([]*scene.Node(nil), path...))
		return
	}
	for i := 0; i < cur.NChildren(); i++ {
		collectPaths(append(path, cur.Child(i)), match, visit)
	}
}

func (b StandardBuilder) makeCryostat(path []*scene.Node) *CryostatGeo {
	node := path[len(path)-1]
	trans := scene.PathTransform(path)

	var tpcs []*TPCGeo
	collectPaths(path, isTPCNode, func(p []*scene.Node) {
		tpcs = append(tpcs, b.makeTPC(p))
	})
	var opDets []OpDetGeo
	collectPaths(path, isOpDetNode, func(p []*scene.Node) {
		n := p[len(p)-1]
		t := scene.PathTransform(p)
		opDets = append(opDets, NewOpDetGeo(n.Name(), t.Point(r3.Vec{}), nodeWorldBox(t, n)))
	})
	return NewCryostatGeo(trans, nodeWorldBox(trans, node), tpcs, opDets)
}

func (b StandardBuilder) makeTPC(path []*scene.Node) *TPCGeo {
	node := path[len(path)-1]
	trans := scene.PathTransform(path)
	box := nodeWorldBox(trans, node)

	activeBox := box
	collectPaths(path, isActiveNode, func(p []*scene.Node) {
		activeBox = nodeWorldBox(scene.PathTransform(p), p[len(p)-1])
	})

	var planes []*PlaneGeo
	collectPaths(path, isPlaneNode, func(p []*scene.Node) {
		planes = append(planes, b.makePlane(p))
	})
	return NewTPCGeo(trans, box, activeBox, planes)
}

func (b StandardBuilder) makePlane(path []*scene.Node) *PlaneGeo {
	node := path[len(path)-1]
	trans := scene.PathTransform(path)

	var wires []WireGeo
	collectPaths(path, isWireNode, func(p []*scene.Node) {
		n := p[len(p)-1]
		wt := scene.PathTransform(p)
		center := wt.Point(r3.Vec{})
		dir := wt.Vector(r3.Vec{Z: 1}) // wire solids run along local z
		wires = append(wires, NewWireGeo(center, dir, n.Shape().Dz))
	})
	return NewPlaneGeo(trans, nodeWorldBox(trans, node), wires)
}

func (b StandardBuilder) makeAuxDet(path []*scene.Node) *AuxDetGeo {
	node := path[len(path)-1]
	trans := scene.PathTransform(path)

	var sensitive []AuxDetSensitiveGeo
	collectPaths(path, isAuxDetSensitiveNode, func(p []*scene.Node) {
		n := p[len(p)-1]
		st := scene.PathTransform(p)
		sensitive = append(sensitive,
			NewAuxDetSensitiveGeo(n.Name(), st.Point(r3.Vec{}), nodeWorldBox(st, n)))
	})
	return NewAuxDetGeo(node.Name(), trans.Point(r3.Vec{}),
		nodeWorldBox(trans, node), sensitive)
}

// nodeWorldBox maps the node's local bounding box out to world
// coordinates, corner by corner, so rotated placements stay covered.
func nodeWorldBox(t scene.Transform, n *scene.Node) Box {
	lo, hi := n.Bounds()
	local := NewBox(lo, hi)
	corners := boxCorners(local)
	box := NewBox(t.Point(corners[0]), t.Point(corners[1]))
	for _, c := range corners[2:] {
		box = box.ExtendToInclude(t.Point(c))
	}
	return box
}
