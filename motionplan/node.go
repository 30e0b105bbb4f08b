package motionplan

import (
	"github.com/golang/geo/r3"

	"github.com/starfield-nav/starplan/spatialmath"
)

// Node is a read-only view of one vertex of a search tree.
type Node interface {
	// Pose returns the node's position in planning space.
	Pose() r3.Vector
	// Cost returns the cumulative path length from the tree root.
	Cost() float64
	// Parent returns the node this one extends, nil at the root.
	Parent() Node
}

type basicNode struct {
	pose     r3.Vector
	cost     float64
	parent   *basicNode
	children []*basicNode
}

// newBasicNode attaches a node under parent, deriving its cumulative cost
// from the connecting edge. A nil parent makes a root node.
func newBasicNode(pose r3.Vector, parent *basicNode) *basicNode {
	n := &basicNode{pose: pose, parent: parent}
	if parent != nil {
		n.cost = parent.cost + pose.Sub(parent.pose).Norm()
		parent.children = append(parent.children, n)
	}
	return n
}

func (n *basicNode) Pose() r3.Vector { return n.pose }

func (n *basicNode) Cost() float64 { return n.cost }

func (n *basicNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// rewireTo re-parents n under parent, recomputes its cost, and pushes the
// change through its descendants.
func (n *basicNode) rewireTo(parent *basicNode) {
	n.detach()
	n.parent = parent
	parent.children = append(parent.children, n)
	n.cost = parent.cost + n.pose.Sub(parent.pose).Norm()
	n.updateDescendantCosts()
}

// detach removes n from its parent's child list.
func (n *basicNode) detach() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

func (n *basicNode) updateDescendantCosts() {
	for _, c := range n.children {
		c.cost = n.cost + c.pose.Sub(n.pose).Norm()
		c.updateDescendantCosts()
	}
}

// fixedStepInterpolation returns a pose at most stepSize from start toward
// target, or target itself when it is already that close.
func fixedStepInterpolation(start, target r3.Vector, stepSize float64) r3.Vector {
	diff := target.Sub(start)
	dist := diff.Norm()
	if dist <= stepSize {
		return target
	}
	return start.Add(diff.Mul(stepSize / dist))
}

// extractPath walks the parent chain from the winning node back to the root,
// reverses it, and appends the true goal pose unless the chain already ends
// there.
func extractPath(last *basicNode, goal r3.Vector) Path {
	path := Path{}
	for n := last; n != nil; n = n.parent {
		path = append(path, n.pose)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	if len(path) > 0 && spatialmath.R3VectorAlmostEqual(path[len(path)-1], goal, defaultEpsilon) {
		return path
	}
	return append(path, goal)
}
