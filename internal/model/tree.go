package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when a snapshot reuses an element ID.
var ErrDuplicateID = errors.New("duplicate element id")

// Tree is an index-based control tree built from a snapshot. Nodes refer to
// their parent and children by ID; top-level elements are roots.
type Tree struct {
	nodes []Node
	index map[int]int // element ID -> position in nodes
	roots []int
}

// NewTree flattens a nested snapshot into a Tree. Element IDs must be unique
// across the whole snapshot.
func NewTree(elements []Element) (*Tree, error) {
	t := &Tree{index: make(map[int]int)}
	for _, el := range elements {
		if err := t.add(el, el.ID); err != nil {
			return nil, err
		}
		t.roots = append(t.roots, el.ID)
	}
	return t, nil
}

func (t *Tree) add(el Element, parent int) error {
	if _, dup := t.index[el.ID]; dup {
		return fmt.Errorf("%w: %d", ErrDuplicateID, el.ID)
	}
	t.index[el.ID] = len(t.nodes)
	t.nodes = append(t.nodes, Node{
		ID:            el.ID,
		Parent:        parent,
		ControlType:   el.ControlType,
		PreferredName: preferredName(el),
		TextNames:     textNames(el),
		Rect:          el.Rect,
	})
	pos := len(t.nodes) - 1
	for _, child := range el.Children {
		if err := t.add(child, el.ID); err != nil {
			return err
		}
		// nodes may have been reallocated by the recursive append
		t.nodes[pos].Children = append(t.nodes[pos].Children, child.ID)
	}
	return nil
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given element ID, or nil.
func (t *Tree) Node(id int) *Node {
	if t == nil {
		return nil
	}
	pos, ok := t.index[id]
	if !ok {
		return nil
	}
	return &t.nodes[pos]
}

// Parent returns the parent of n. A root is its own parent.
func (t *Tree) Parent(n *Node) *Node {
	if n == nil {
		return nil
	}
	return t.Node(n.Parent)
}

// Root walks parents until it reaches the top-level element containing n.
func (t *Tree) Root(n *Node) *Node {
	for n != nil && !n.IsRoot() {
		n = t.Parent(n)
	}
	return n
}

// Roots returns the top-level nodes in snapshot order.
func (t *Tree) Roots() []*Node {
	out := make([]*Node, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.Node(id))
	}
	return out
}

// NodeFromPoint returns the deepest node whose rectangle contains the point,
// searching roots and children in snapshot order. It returns nil when no
// element lies under the point.
func (t *Tree) NodeFromPoint(x, y int) *Node {
	if t == nil {
		return nil
	}
	for _, id := range t.roots {
		if found := t.deepestAt(t.Node(id), x, y); found != nil {
			return found
		}
	}
	return nil
}

func (t *Tree) deepestAt(n *Node, x, y int) *Node {
	if n == nil || !n.Rect.Contains(x, y) {
		return nil
	}
	for _, id := range n.Children {
		if found := t.deepestAt(t.Node(id), x, y); found != nil {
			return found
		}
	}
	return n
}

// SubTreeFrom returns n followed by all of its descendants in depth-first
// order. The first element is always n itself.
func (t *Tree) SubTreeFrom(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var result []*Node
	t.collect(n, &result)
	return result
}

func (t *Tree) collect(n *Node, result *[]*Node) {
	*result = append(*result, n)
	for _, id := range n.Children {
		if child := t.Node(id); child != nil {
			t.collect(child, result)
		}
	}
}
