package motionplan

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph/simple"

	"go.viam.com/chainplan/referenceframe"
)

// NoParent is the parent id of a tree's root.
const NoParent = -1

// TreeID names one of the trees of a planning session.
type TreeID int

const (
	// StartTree is rooted at the start configuration.
	StartTree TreeID = iota
	// GoalTree is rooted at the goal configuration. It exists only in bidirectional sessions.
	GoalTree
)

func (id TreeID) String() string {
	switch id {
	case StartTree:
		return "start"
	case GoalTree:
		return "goal"
	}
	return "unknown"
}

// Node is a committed, collision-free configuration. Ids are assigned in insertion order starting at
// 0 for the root, and a node's parent always has a smaller id.
type Node struct {
	ID     int
	Q      referenceframe.Configuration
	Parent int
}

// Tree is an append-only store of nodes forming a spanning tree rooted at node 0.
//
// The tree also tracks the last node committed to it. That frontier only moves when a node is
// added; rejected candidates are never inserted, so they cannot shift it.
type Tree struct {
	id            TreeID
	nodes         []*Node
	lastCommitted int
}

// NewTree creates a tree holding only a root at the given configuration.
func NewTree(id TreeID, root referenceframe.Configuration) *Tree {
	return &Tree{
		id:    id,
		nodes: []*Node{{ID: 0, Q: root.Clone(), Parent: NoParent}},
	}
}

// ID returns which tree of the session this is.
func (t *Tree) ID() TreeID {
	return t.id
}

// Size returns the number of nodes.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// EdgeCount returns the number of parent links, always Size()-1 for a non-empty tree.
func (t *Tree) EdgeCount() int {
	edges := 0
	for _, n := range t.nodes {
		if n.Parent != NoParent {
			edges++
		}
	}
	return edges
}

// Root returns node 0.
func (t *Tree) Root() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[0]
}

// Node returns the node with the given id.
func (t *Tree) Node(id int) (*Node, error) {
	if id < 0 || id >= len(t.nodes) {
		return nil, errors.Wrapf(ErrUnknownNode, "%s tree has %d nodes, asked for %d", t.id, len(t.nodes), id)
	}
	return t.nodes[id], nil
}

// Nodes returns the nodes in insertion order. The slice is a copy; the nodes are shared and must not
// be modified.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Configurations returns every node's configuration in insertion order.
func (t *Tree) Configurations() []referenceframe.Configuration {
	return lo.Map(t.nodes, func(n *Node, _ int) referenceframe.Configuration {
		return n.Q
	})
}

// LastCommitted returns the most recently committed node, or the root if nothing has been added.
func (t *Tree) LastCommitted() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[t.lastCommitted]
}

// add appends q as a child of parent and makes it the last committed node.
func (t *Tree) add(q referenceframe.Configuration, parent int) (*Node, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return nil, errors.Wrapf(ErrUnknownNode, "cannot attach to parent %d", parent)
	}
	n := &Node{ID: len(t.nodes), Q: q, Parent: parent}
	t.nodes = append(t.nodes, n)
	t.lastCommitted = n.ID
	return n, nil
}

// Validate checks the structural invariants: node 0 is the only root, ids match positions, every
// parent was inserted before its child, and every parent walk reaches the root.
func (t *Tree) Validate() error {
	if len(t.nodes) == 0 {
		return ErrEmptyTree
	}
	for i, n := range t.nodes {
		if n.ID != i {
			return errors.Errorf("node at position %d has id %d", i, n.ID)
		}
		if i == 0 {
			if n.Parent != NoParent {
				return errors.Errorf("root has parent %d", n.Parent)
			}
			continue
		}
		if n.Parent < 0 || n.Parent >= i {
			return errors.Errorf("node %d has parent %d which was not inserted before it", i, n.Parent)
		}
	}
	if t.EdgeCount() != len(t.nodes)-1 {
		return errors.Errorf("tree has %d edges for %d nodes", t.EdgeCount(), len(t.nodes))
	}
	for i := range t.nodes {
		if _, err := t.ancestry(i); err != nil {
			return err
		}
	}
	if t.lastCommitted < 0 || t.lastCommitted >= len(t.nodes) {
		return errors.Errorf("last committed id %d out of range", t.lastCommitted)
	}
	return nil
}

// ancestry returns the ids from id back to the root. It fails rather than loop forever if the parent
// links contain a cycle.
func (t *Tree) ancestry(id int) ([]int, error) {
	if _, err := t.Node(id); err != nil {
		return nil, err
	}
	ids := []int{}
	for cur := id; cur != NoParent; cur = t.nodes[cur].Parent {
		if len(ids) >= len(t.nodes) {
			return nil, errors.Errorf("parent links from node %d do not reach the root", id)
		}
		if cur < 0 || cur >= len(t.nodes) {
			return nil, errors.Wrapf(ErrUnknownNode, "node %d has dangling ancestor %d", id, cur)
		}
		ids = append(ids, cur)
	}
	return ids, nil
}

// Graph exports the tree as an undirected graph whose node ids are the tree's node ids.
func (t *Tree) Graph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for _, n := range t.nodes {
		g.AddNode(simple.Node(n.ID))
	}
	for _, n := range t.nodes {
		if n.Parent != NoParent {
			g.SetEdge(g.NewEdge(simple.Node(n.Parent), simple.Node(n.ID)))
		}
	}
	return g
}
