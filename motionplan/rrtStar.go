package motionplan

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/starfield-nav/starplan/obstacle"
	"github.com/starfield-nav/starplan/spatialmath"
)

// rrtStarMotionPlanner adds cost-aware rewiring to the static growth loop:
// after every insertion, nearby nodes that would be cheaper to reach through
// the new node are re-parented onto it and their subtree costs updated.
type rrtStarMotionPlanner struct {
	*planner
}

// newRRTStarMotionPlanner creates the asymptotically optimal RRT variant.
func newRRTStarMotionPlanner(opt *PlannerOptions, logger golog.Logger) (MotionPlanner, error) {
	p, err := newPlanner(opt, logger)
	if err != nil {
		return nil, err
	}
	return &rrtStarMotionPlanner{planner: p}, nil
}

func (mp *rrtStarMotionPlanner) Plan(
	ctx context.Context,
	start, goal r3.Vector,
	obstacles obstacle.Set,
	bounds spatialmath.Bounds,
) ([]Node, Path, error) {
	if err := validatePlanInputs(start, goal, bounds); err != nil {
		return nil, nil, err
	}
	tree := []*basicNode{newBasicNode(start, nil)}
	radius := defaultRewireFactor * mp.opt.StepSize
	for i := 0; i < mp.opt.MaxNodes; i++ {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}
		target := mp.sampleTarget(goal, bounds)
		nearest := mp.nm.nearestNeighbor(target, tree)
		candidate := fixedStepInterpolation(nearest.pose, target, mp.opt.StepSize)
		if !validSegment(nearest.pose, candidate, obstacles, mp.opt.StepSize) {
			continue
		}
		node := newBasicNode(candidate, nearest)
		tree = append(tree, node)
		mp.rewire(node, tree, obstacles, radius)
		if candidate.Sub(goal).Norm() <= mp.opt.GoalRadius {
			return asNodes(tree), extractPath(node, goal), nil
		}
	}
	mp.logger.Debugf("no path found within %d iterations", mp.opt.MaxNodes)
	return asNodes(tree), nil, nil
}

// rewire re-parents every neighbor whose cumulative cost strictly improves by
// routing through node. Strict improvement plus non-negative edge lengths
// keeps the tree acyclic: an ancestor never gets cheaper through its own
// descendant.
func (mp *rrtStarMotionPlanner) rewire(node *basicNode, tree []*basicNode, obstacles obstacle.Set, radius float64) {
	for _, nb := range mp.nm.neighborsWithinRadius(node.pose, radius, tree) {
		if nb == node || nb == node.parent || nb.parent == nil {
			continue
		}
		newCost := node.cost + nb.pose.Sub(node.pose).Norm()
		if newCost >= nb.cost {
			continue
		}
		if !validSegment(node.pose, nb.pose, obstacles, mp.opt.StepSize) {
			continue
		}
		nb.rewireTo(node)
	}
}
