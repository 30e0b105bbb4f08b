package motionplan

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// default values for planning options.
const (
	// Max number of tree nodes grown before a planning call gives up.
	defaultMaxNodes = 4000

	// Maximum extension distance per iteration.
	defaultStepSize = 0.06

	// A node landing within this distance of the goal terminates growth.
	defaultGoalRadius = 0.12

	// Probability of sampling the goal pose instead of a random one.
	defaultGoalBias = 0.20

	// Seed for each planner's private random source.
	defaultRandomSeed = 1

	// Sampling resolution of the post-hoc path re-validation pass.
	defaultValidationStepSize = 0.02

	// Multiplied by the step size to get the rewiring radius of RRT*.
	defaultRewireFactor = 3.0

	// Distance below which two poses count as the same pose.
	defaultEpsilon = 1e-6
)

// PlannerOptions parameterize a planning call.
type PlannerOptions struct {
	// Max number of tree nodes to grow before giving up
	MaxNodes int `json:"max_nodes"`

	// Maximum extension distance per iteration
	StepSize float64 `json:"step_size"`

	// The goal counts as reached once a node lands within this distance
	GoalRadius float64 `json:"goal_radius"`

	// Probability in [0, 1] of sampling the goal pose directly
	GoalBias float64 `json:"goal_bias"`

	// Seed for the planner's private random source
	RandomSeed int `json:"rseed"`
}

// newBasicPlannerOptions specifies the default set of options for a planner.
func newBasicPlannerOptions() *PlannerOptions {
	opt := &PlannerOptions{}
	opt.MaxNodes = defaultMaxNodes
	opt.StepSize = defaultStepSize
	opt.GoalRadius = defaultGoalRadius
	opt.GoalBias = defaultGoalBias
	opt.RandomSeed = defaultRandomSeed
	return opt
}

// DefaultPlannerOptions returns the hard-coded default parameter set.
func DefaultPlannerOptions() *PlannerOptions {
	return newBasicPlannerOptions()
}

// Validate rejects non-positive budgets and distances and an out-of-range
// goal bias.
func (opt *PlannerOptions) Validate() error {
	if opt.MaxNodes <= 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "max_nodes must be positive, got %d", opt.MaxNodes)
	}
	if opt.StepSize <= 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "step_size must be positive, got %v", opt.StepSize)
	}
	if opt.GoalRadius <= 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "goal_radius must be positive, got %v", opt.GoalRadius)
	}
	if opt.GoalBias < 0 || opt.GoalBias > 1 {
		return errors.Wrapf(ErrInvalidConfiguration, "goal_bias must be within [0, 1], got %v", opt.GoalBias)
	}
	return nil
}

func (opt *PlannerOptions) clone() *PlannerOptions {
	c := *opt
	return &c
}

// withOverrides layers the override map over opt: fields present in the map
// win, everything else keeps its current value. The merged result is
// validated before being returned, so a bad override cannot corrupt opt.
func (opt *PlannerOptions) withOverrides(overrides map[string]interface{}) (*PlannerOptions, error) {
	merged := opt.clone()
	// convert map to json, then to a struct, overwriting present values
	jsonString, err := json.Marshal(overrides)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidConfiguration, err.Error())
	}
	if err := json.Unmarshal(jsonString, merged); err != nil {
		return nil, errors.Wrap(ErrInvalidConfiguration, err.Error())
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
