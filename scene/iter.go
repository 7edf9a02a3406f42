package scene

// NodeIterator walks a node tree depth first, visiting every parent
// before its children and children in their stored order. The traversal
// state is an explicit stack of (node, next child) frames, so callers can
// pause between nodes for as long as they like. Each iterator is good for
// one traversal only: once exhausted it stays exhausted.
type NodeIterator struct {
	stack []iterFrame
}

type iterFrame struct {
	node *Node
	next int
}

// NewNodeIterator starts a traversal at root; root itself is the first
// current node. A nil root yields an already exhausted iterator.
func NewNodeIterator(root *Node) *NodeIterator {
	it := &NodeIterator{}
	if root != nil {
		it.stack = append(it.stack, iterFrame{node: root})
	}
	return it
}

// Current returns the node the iterator is on, or nil once the traversal
// is done.
func (it *NodeIterator) Current() *Node {
	if len(it.stack) == 0 {
		return nil
	}
	return it.stack[len(it.stack)-1].node
}

// Next advances to the next node in depth-first order and returns it, or
// nil when the traversal is done.
func (it *NodeIterator) Next() *Node {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.next < top.node.NChildren() {
			child := top.node.Child(top.next)
			top.next++
			it.stack = append(it.stack, iterFrame{node: child})
			return child
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return nil
}

// Path returns the ancestry of the current node, root first and current
// node last, as a fresh slice. It is empty once the traversal is done.
func (it *NodeIterator) Path() []*Node {
	path := make([]*Node, len(it.stack))
	for i := range it.stack {
		path[i] = it.stack[i].node
	}
	return path
}
