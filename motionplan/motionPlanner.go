// Package motionplan plans collision-free paths through a bounded 3D volume
// populated with obstacles.
package motionplan

import (
	"context"
	"math/rand"
	"runtime"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/starfield-nav/starplan/obstacle"
	"github.com/starfield-nav/starplan/spatialmath"
)

// MotionPlanner provides an interface to the tree-growth planning variants: a
// planner takes a start and goal pose and returns the explored node set and a
// path from start to goal, the path empty when none was found within the node
// budget.
type MotionPlanner interface {
	Plan(
		ctx context.Context,
		start, goal r3.Vector,
		obstacles obstacle.Set,
		bounds spatialmath.Bounds,
	) ([]Node, Path, error)
}

// plannerConstructor builds a variant from validated options.
type plannerConstructor func(opt *PlannerOptions, logger golog.Logger) (MotionPlanner, error)

// planner carries the state shared by every variant.
type planner struct {
	opt      *PlannerOptions
	logger   golog.Logger
	randseed *rand.Rand
	nm       *neighborManager
}

func newPlanner(opt *PlannerOptions, logger golog.Logger) (*planner, error) {
	if opt == nil {
		opt = newBasicPlannerOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	//nolint:gosec
	return &planner{
		opt:      opt,
		logger:   logger,
		randseed: rand.New(rand.NewSource(int64(opt.RandomSeed))),
		nm:       &neighborManager{nCPU: runtime.NumCPU()},
	}, nil
}

// sampleTarget returns the goal with probability GoalBias, otherwise a
// uniform random pose within bounds.
func (p *planner) sampleTarget(goal r3.Vector, bounds spatialmath.Bounds) r3.Vector {
	if p.randseed.Float64() < p.opt.GoalBias {
		return goal
	}
	return bounds.SampleUniform(p.randseed)
}

// growTree runs the shared growth loop: sample a target, steer from the
// nearest tree node by at most StepSize, reject colliding extensions, and
// stop at the first node landing within GoalRadius of the goal. It returns
// that node, or nil with the grown tree once the iteration budget runs out.
func (p *planner) growTree(
	ctx context.Context,
	tree []*basicNode,
	goal r3.Vector,
	obstacles obstacle.Set,
	bounds spatialmath.Bounds,
) (*basicNode, []*basicNode, error) {
	for i := 0; i < p.opt.MaxNodes; i++ {
		select {
		case <-ctx.Done():
			return nil, tree, ctx.Err()
		default:
		}
		target := p.sampleTarget(goal, bounds)
		nearest := p.nm.nearestNeighbor(target, tree)
		candidate := fixedStepInterpolation(nearest.pose, target, p.opt.StepSize)
		if !validSegment(nearest.pose, candidate, obstacles, p.opt.StepSize) {
			continue
		}
		node := newBasicNode(candidate, nearest)
		tree = append(tree, node)
		if candidate.Sub(goal).Norm() <= p.opt.GoalRadius {
			return node, tree, nil
		}
	}
	return nil, tree, nil
}

// validatePlanInputs fast-fails malformed planning inputs before any growth.
func validatePlanInputs(start, goal r3.Vector, bounds spatialmath.Bounds) error {
	if err := bounds.Validate(); err != nil {
		return errors.Wrap(ErrInvalidConfiguration, err.Error())
	}
	if !bounds.Contains(start) {
		return errors.Wrapf(ErrInvalidConfiguration, "start %v outside planning bounds", start)
	}
	if !bounds.Contains(goal) {
		return errors.Wrapf(ErrInvalidConfiguration, "goal %v outside planning bounds", goal)
	}
	return nil
}

// asNodes exposes a tree as the read-only public node set.
func asNodes(tree []*basicNode) []Node {
	nodes := make([]Node, 0, len(tree))
	for _, n := range tree {
		nodes = append(nodes, n)
	}
	return nodes
}
