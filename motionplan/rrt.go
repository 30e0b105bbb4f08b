package motionplan

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/starfield-nav/starplan/obstacle"
	"github.com/starfield-nav/starplan/spatialmath"
)

// rrtMotionPlanner grows a single goal-biased rapidly-exploring random tree
// from the start pose until a node lands within GoalRadius of the goal.
type rrtMotionPlanner struct {
	*planner
}

// newRRTMotionPlanner creates the static RRT variant.
func newRRTMotionPlanner(opt *PlannerOptions, logger golog.Logger) (MotionPlanner, error) {
	p, err := newPlanner(opt, logger)
	if err != nil {
		return nil, err
	}
	return &rrtMotionPlanner{planner: p}, nil
}

func (mp *rrtMotionPlanner) Plan(
	ctx context.Context,
	start, goal r3.Vector,
	obstacles obstacle.Set,
	bounds spatialmath.Bounds,
) ([]Node, Path, error) {
	if err := validatePlanInputs(start, goal, bounds); err != nil {
		return nil, nil, err
	}
	tree := []*basicNode{newBasicNode(start, nil)}
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
