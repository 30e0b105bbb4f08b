package motionplan

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/starfield-nav/starplan/obstacle"
	"github.com/starfield-nav/starplan/spatialmath"
)

// dynamicRRTMotionPlanner retains its tree between calls. Asked to plan the
// same start and goal again, it prunes whatever the current obstacle set
// invalidates and extends the surviving subtree instead of growing from
// scratch; a different query falls back to plain static growth.
type dynamicRRTMotionPlanner struct {
	*planner
	prevRoot *basicNode
	prevGoal r3.Vector
}

// newDynamicRRTMotionPlanner creates the tree-reusing RRT variant.
func newDynamicRRTMotionPlanner(opt *PlannerOptions, logger golog.Logger) (MotionPlanner, error) {
	p, err := newPlanner(opt, logger)
	if err != nil {
		return nil, err
	}
	return &dynamicRRTMotionPlanner{planner: p}, nil
}

func (mp *dynamicRRTMotionPlanner) Plan(
	ctx context.Context,
	start, goal r3.Vector,
	obstacles obstacle.Set,
	bounds spatialmath.Bounds,
) ([]Node, Path, error) {
	if err := validatePlanInputs(start, goal, bounds); err != nil {
		return nil, nil, err
	}
	root := newBasicNode(start, nil)
	tree := []*basicNode{root}
	if mp.reusable(start, goal) {
		if pruned := pruneTree(mp.prevRoot, obstacles, bounds, mp.opt.StepSize); len(pruned) > 0 {
			root = mp.prevRoot
			tree = pruned
			mp.logger.Debugf("reusing %d surviving nodes from previous tree", len(tree))
		} else {
			mp.logger.Debug("previous tree fully invalidated, replanning from scratch")
		}
	}
	mp.prevRoot, mp.prevGoal = root, goal

	// a pruned tree may already hold a node satisfying the goal
	if best := goalSatisfyingNode(tree, goal, mp.opt.GoalRadius); best != nil {
		return asNodes(tree), extractPath(best, goal), nil
	}
	last, tree, err := mp.growTree(ctx, tree, goal, obstacles, bounds)
	if err != nil {
		return nil, nil, err
	}
	if last == nil {
		mp.logger.Debugf("no path found within %d iterations", mp.opt.MaxNodes)
		return asNodes(tree), nil, nil
	}
	return asNodes(tree), extractPath(last, goal), nil
}

// reusable reports whether the previous call's tree answers the same query.
func (mp *dynamicRRTMotionPlanner) reusable(start, goal r3.Vector) bool {
	return mp.prevRoot != nil &&
		spatialmath.R3VectorAlmostEqual(mp.prevRoot.pose, start, defaultEpsilon) &&
		spatialmath.R3VectorAlmostEqual(mp.prevGoal, goal, defaultEpsilon)
}

// pruneTree walks a retained tree from its root, dropping every node whose
// pose now collides or strays out of bounds, or whose edge from its parent no
// longer validates. Dropping a node drops its whole subtree. An invalidated
// root drops everything.
func pruneTree(root *basicNode, obstacles obstacle.Set, bounds spatialmath.Bounds, resolution float64) []*basicNode {
	if root == nil || !bounds.Contains(root.pose) || obstacles.Collides(root.pose) {
		return nil
	}
	survivors := []*basicNode{root}
	queue := []*basicNode{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		kept := make([]*basicNode, 0, len(n.children))
		for _, c := range n.children {
			if bounds.Contains(c.pose) && !obstacles.Collides(c.pose) &&
				validSegment(n.pose, c.pose, obstacles, resolution) {
				kept = append(kept, c)
				survivors = append(survivors, c)
				queue = append(queue, c)
			} else {
				c.parent = nil
			}
		}
		n.children = kept
	}
	return survivors
}

// goalSatisfyingNode returns the cheapest node already within radius of the
// goal, or nil.
func goalSatisfyingNode(tree []*basicNode, goal r3.Vector, radius float64) *basicNode {
	var best *basicNode
	for _, n := range tree {
		if n.pose.Sub(goal).Norm() > radius {
			continue
		}
		if best == nil || n.cost < best.cost {
			best = n
		}
	}
	return best
}
