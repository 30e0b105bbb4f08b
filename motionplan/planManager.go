package motionplan

import (
	"context"
	"strings"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/starfield-nav/starplan/obstacle"
	"github.com/starfield-nav/starplan/spatialmath"
)

// PlanningAlgorithm selects a tree-growth variant.
type PlanningAlgorithm string

// The supported planning algorithms.
const (
	StaticRRT  PlanningAlgorithm = "static_rrt"
	DynamicRRT PlanningAlgorithm = "dynamic_rrt"
	RRTStar    PlanningAlgorithm = "rrt_star"
)

// ParsePlanningAlgorithm maps a user-facing name, case-insensitively and
// including the common aliases, onto a PlanningAlgorithm.
func ParsePlanningAlgorithm(name string) (PlanningAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "static", "rrt", "static_rrt":
		return StaticRRT, nil
	case "dynamic", "dynamic_rrt", "drrt":
		return DynamicRRT, nil
	case "optimal", "rrtstar", "rrt_star", "rrt*":
		return RRTStar, nil
	default:
		return "", errors.Wrapf(ErrInvalidConfiguration, "unknown planning algorithm %q", name)
	}
}

// CollisionMode selects how a planned path is certified collision free.
type CollisionMode string

// The supported collision modes.
const (
	// PointSampled trusts the collision checks made during tree growth.
	PointSampled CollisionMode = "point_sampled"
	// EdgeValidated re-validates the full path at a finer resolution and
	// discards plans that fail.
	EdgeValidated CollisionMode = "edge_validated"
)

// ParseCollisionMode maps a user-facing name onto a CollisionMode.
func ParseCollisionMode(name string) (CollisionMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "point", "point_sampled":
		return PointSampled, nil
	case "edge", "edge_validated":
		return EdgeValidated, nil
	default:
		return "", errors.Wrapf(ErrInvalidConfiguration, "unknown collision mode %q", name)
	}
}

// PlanManager is the single planning entry point. It owns the configured
// algorithm, collision mode and options, resolves the active planner whenever
// the configuration changes, and re-validates paths in edge mode.
type PlanManager struct {
	logger        golog.Logger
	registry      map[PlanningAlgorithm]plannerConstructor
	algorithm     PlanningAlgorithm
	collisionMode CollisionMode
	opt           *PlannerOptions
	planner       MotionPlanner
}

// NewPlanManager returns a manager configured for static RRT planning with
// point-sampled collision checking and default options.
func NewPlanManager(logger golog.Logger) (*PlanManager, error) {
	pm := &PlanManager{
		logger: logger,
		registry: map[PlanningAlgorithm]plannerConstructor{
			StaticRRT:  newRRTMotionPlanner,
			DynamicRRT: newDynamicRRTMotionPlanner,
			RRTStar:    newRRTStarMotionPlanner,
		},
		algorithm:     StaticRRT,
		collisionMode: PointSampled,
		opt:           newBasicPlannerOptions(),
	}
	planner, err := pm.buildPlanner(pm.algorithm, pm.opt)
	if err != nil {
		return nil, err
	}
	pm.planner = planner
	return pm, nil
}

// buildPlanner resolves alg through the registry. A recognized algorithm with
// no registered constructor falls back to static RRT; the fallback is logged,
// never an error.
func (pm *PlanManager) buildPlanner(alg PlanningAlgorithm, opt *PlannerOptions) (MotionPlanner, error) {
	construct, ok := pm.registry[alg]
	if !ok {
		pm.logger.Warnw("no planner registered for algorithm, falling back to static RRT", "algorithm", alg)
		construct = newRRTMotionPlanner
	}
	return construct(opt.clone(), pm.logger)
}

// SetAlgorithm selects the tree-growth variant used by subsequent Plan calls.
// Re-selecting the current algorithm keeps the active planner, and with it
// any tree retained across calls.
func (pm *PlanManager) SetAlgorithm(name string) error {
	alg, err := ParsePlanningAlgorithm(name)
	if err != nil {
		return err
	}
	if alg == pm.algorithm && pm.planner != nil {
		return nil
	}
	planner, err := pm.buildPlanner(alg, pm.opt)
	if err != nil {
		return err
	}
	pm.algorithm = alg
	pm.planner = planner
	return nil
}

// SetCollisionMode selects how Plan certifies returned paths.
func (pm *PlanManager) SetCollisionMode(name string) error {
	mode, err := ParseCollisionMode(name)
	if err != nil {
		return err
	}
	pm.collisionMode = mode
	return nil
}

// SetOptions layers overrides onto the current options: hard defaults at the
// bottom, previously set values next, the new overrides on top, each layer
// touching only the fields it names. Invalid overrides leave the
// configuration unchanged.
func (pm *PlanManager) SetOptions(overrides map[string]interface{}) error {
	merged, err := pm.opt.withOverrides(overrides)
	if err != nil {
		return err
	}
	if *merged == *pm.opt {
		return nil
	}
	planner, err := pm.buildPlanner(pm.algorithm, merged)
	if err != nil {
		return err
	}
	pm.opt = merged
	pm.planner = planner
	return nil
}

// Options returns a copy of the active parameter set.
func (pm *PlanManager) Options() PlannerOptions {
	return *pm.opt
}

// Algorithm returns the configured tree-growth variant.
func (pm *PlanManager) Algorithm() PlanningAlgorithm {
	return pm.algorithm
}

// CollisionMode returns the configured path certification mode.
func (pm *PlanManager) CollisionMode() CollisionMode {
	return pm.collisionMode
}

// Plan runs the configured variant from start to goal against a snapshot of
// the given obstacle set. It returns the explored nodes and the found path;
// an empty path with a nil error means no path exists within the node budget.
// In edge-validated mode a path failing re-validation discards the node set
// too, indistinguishable from no path found.
func (pm *PlanManager) Plan(
	ctx context.Context,
	start, goal r3.Vector,
	obstacles obstacle.Set,
	bounds spatialmath.Bounds,
) ([]Node, Path, error) {
	if err := validatePlanInputs(start, goal, bounds); err != nil {
		return nil, nil, err
	}
	snapshot := obstacles.Clone()
	opID := uuid.NewString()
	pm.logger.Debugw("planning",
		"op", opID,
		"algorithm", pm.algorithm,
		"collision_mode", pm.collisionMode,
		"obstacles", len(snapshot),
		"max_nodes", pm.opt.MaxNodes,
		"step_size", pm.opt.StepSize,
	)
	nodes, path, err := pm.planner.Plan(ctx, start, goal, snapshot, bounds)
	if err != nil {
		return nil, nil, NewPlanningFailedError(err)
	}
	if pm.collisionMode == EdgeValidated && len(path) > 0 && !ValidatePath(path, snapshot, defaultValidationStepSize) {
		pm.logger.Warnw("path failed edge re-validation, discarding plan", "op", opID)
		return nil, nil, nil
	}
	pm.logger.Debugw("planning complete",
		"op", opID, "nodes", len(nodes), "waypoints", len(path), "found", len(path) > 0)
	return nodes, path, nil
}
