package geo

import (
	"strings"

	"github.com/sabasehrish/larcorealg/scene"
)

// Read-only consumers of the scene tree walker. The builder uses these
// to find the detector volumes by name; nothing here mutates the tree.

// nameMatcher matches node names against a fixed set. An empty set
// matches every node.
type nameMatcher map[string]bool

func newNameMatcher(names []string) nameMatcher {
	m := make(nameMatcher, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func (m nameMatcher) matches(n *scene.Node) bool {
	return len(m) == 0 || m[n.Name()]
}

// CollectNodesByName returns every node under root (root included)
// whose name is in names, in depth-first order. An empty name set
// collects every node.
func CollectNodesByName(root *scene.Node, names []string) []*scene.Node {
	match := newNameMatcher(names)
	var out []*scene.Node
	it := scene.NewNodeIterator(root)
	for n := it.Current(); n != nil; n = it.Next() {
		if match.matches(n) {
			out = append(out, n)
		}
	}
	return out
}

// CollectPathsByName is CollectNodesByName, but each hit comes with its
// full ancestry from root, as a fresh slice.
func CollectPathsByName(root *scene.Node, names []string) [][]*scene.Node {
	match := newNameMatcher(names)
	var out [][]*scene.Node
	it := scene.NewNodeIterator(root)
	for n := it.Current(); n != nil; n = it.Next() {
		if match.matches(n) {
			out = append(out, it.Path())
		}
	}
	return out
}

// FindFirstVolume returns the path from root to the first node, in
// depth-first order, whose name STARTS WITH name. The prefix match is
// deliberate: description conventions tag volumes with decorated names
// ("volCryostat_A") and historical callers search for the bare prefix.
// The path is empty when nothing matches.
func FindFirstVolume(root *scene.Node, name string) []*scene.Node {
	if root == nil {
		return nil
	}
	path := []*scene.Node{root}
	if findFirstVolume(name, &path) {
		return path
	}
	return nil
}

func findFirstVolume(name string, path *[]*scene.Node) bool {
	cur := (*path)[len(*path)-1]
	if strings.HasPrefix(cur.Name(), name) {
		return true
	}
	for i := 0; i < cur.NChildren(); i++ {
		*path = append(*path, cur.Child(i))
		if findFirstVolume(name, path) {
			return true
		}
		*path = (*path)[:len(*path)-1]
	}
	return false
}
