// Package scene loads planning scenes from disk. A scene file bundles a
// complete planning problem: the bounded volume, the start and goal
// positions, the obstacle field to generate, and the planner configuration
// to run against it. Files are parsed as JSON5 so fixtures can carry
// comments.
package scene

import (
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/starfield-nav/starplan/motionplan"
	"github.com/starfield-nav/starplan/obstacle"
	"github.com/starfield-nav/starplan/spatialmath"
)

// A CustomField requests a generated obstacle field by count, size range,
// and placement distribution instead of a named preset.
type CustomField struct {
	Count        int     `json:"count"`
	MinSize      float64 `json:"min_size"`
	MaxSize      float64 `json:"max_size"`
	Distribution string  `json:"distribution,omitempty"`
}

// Validate ensures the requested field can be generated.
func (cf *CustomField) Validate(path string) error {
	var err error
	if cf.Count < 0 {
		err = multierr.Append(err, goutils.NewConfigValidationError(path,
			errors.Errorf("count must be non-negative, got %d", cf.Count)))
	}
	if cf.MinSize <= 0 || cf.MinSize > cf.MaxSize {
		err = multierr.Append(err, goutils.NewConfigValidationError(path,
			obstacle.NewInvalidRangeError(cf.MinSize, cf.MaxSize)))
	}
	if _, distErr := obstacle.ParseDistribution(cf.Distribution); distErr != nil {
		err = multierr.Append(err, goutils.NewConfigValidationError(path, distErr))
	}
	return err
}

// A Scene is one planning problem as described on disk. Bounds, start, and
// goal are required; every other field falls back to a planner or generator
// default. Preset and Custom are mutually exclusive ways to populate the
// volume, and a scene with neither plans through empty space.
type Scene struct {
	// Bounds is the planning volume in the 6-scalar form
	// [xmin, xmax, ymin, ymax, zmin, zmax].
	Bounds []float64 `json:"bounds"`
	Start  []float64 `json:"start"`
	Goal   []float64 `json:"goal"`

	Preset string       `json:"preset,omitempty"`
	Custom *CustomField `json:"custom,omitempty"`

	Algorithm     string                 `json:"algorithm,omitempty"`
	CollisionMode string                 `json:"collision_mode,omitempty"`
	Options       map[string]interface{} `json:"options,omitempty"`

	// Seed drives both obstacle generation and, unless the options block
	// sets rseed itself, planner sampling. Zero leaves the planner on its
	// default seed.
	Seed int64 `json:"seed,omitempty"`
}

// Load reads, parses, and validates the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read scene %q", path)
	}
	var s Scene
	if err := json5.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "cannot parse scene %q", path)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every field of the scene and reports all problems at
// once rather than stopping at the first.
func (s *Scene) Validate() error {
	var err error

	var bounds spatialmath.Bounds
	haveBounds := false
	if len(s.Bounds) == 0 {
		err = multierr.Append(err, goutils.NewConfigValidationFieldRequiredError("", "bounds"))
	} else if b, boundsErr := spatialmath.NewBoundsFromSlice(s.Bounds); boundsErr != nil {
		err = multierr.Append(err, goutils.NewConfigValidationError("bounds", boundsErr))
	} else {
		bounds, haveBounds = b, true
	}

	err = multierr.Append(err, validateWaypoint("start", s.Start, bounds, haveBounds))
	err = multierr.Append(err, validateWaypoint("goal", s.Goal, bounds, haveBounds))

	if s.Preset != "" && s.Custom != nil {
		err = multierr.Append(err, goutils.NewConfigValidationError("",
			errors.New("preset and custom are mutually exclusive")))
	}
	if s.Custom != nil {
		err = multierr.Append(err, s.Custom.Validate("custom"))
	}

	if s.Algorithm != "" {
		if _, algErr := motionplan.ParsePlanningAlgorithm(s.Algorithm); algErr != nil {
			err = multierr.Append(err, goutils.NewConfigValidationError("algorithm", algErr))
		}
	}
	if s.CollisionMode != "" {
		if _, modeErr := motionplan.ParseCollisionMode(s.CollisionMode); modeErr != nil {
			err = multierr.Append(err, goutils.NewConfigValidationError("collision_mode", modeErr))
		}
	}
	return err
}

// validateWaypoint checks one required [x y z] position, including
// containment when the volume itself parsed.
func validateWaypoint(field string, coords []float64, bounds spatialmath.Bounds, haveBounds bool) error {
	if len(coords) == 0 {
		return goutils.NewConfigValidationFieldRequiredError("", field)
	}
	if len(coords) != 3 {
		return goutils.NewConfigValidationError(field,
			errors.Errorf("need 3 values [x y z], got %d", len(coords)))
	}
	if haveBounds && !bounds.Contains(vecFromSlice(coords)) {
		return goutils.NewConfigValidationError(field, errors.New("position lies outside bounds"))
	}
	return nil
}

// PlanningBounds returns the scene's volume as planner bounds.
func (s *Scene) PlanningBounds() (spatialmath.Bounds, error) {
	return spatialmath.NewBoundsFromSlice(s.Bounds)
}

// StartPose returns the start position of a validated scene.
func (s *Scene) StartPose() r3.Vector {
	return vecFromSlice(s.Start)
}

// GoalPose returns the goal position of a validated scene.
func (s *Scene) GoalPose() r3.Vector {
	return vecFromSlice(s.Goal)
}

// BuildField constructs an obstacle manager over the scene's volume and
// generates whichever field the scene asks for.
func (s *Scene) BuildField(logger golog.Logger) (*obstacle.Manager, obstacle.Set, error) {
	bounds, err := s.PlanningBounds()
	if err != nil {
		return nil, nil, err
	}
	mgr, err := obstacle.NewManager(bounds, s.Seed, logger)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case s.Custom != nil:
		dist, err := obstacle.ParseDistribution(s.Custom.Distribution)
		if err != nil {
			return nil, nil, err
		}
		set, err := mgr.GenerateCustom(s.Custom.Count, s.Custom.MinSize, s.Custom.MaxSize, dist)
		if err != nil {
			return nil, nil, err
		}
		return mgr, set, nil
	case s.Preset != "":
		set, err := mgr.GeneratePreset(s.Preset)
		if err != nil {
			return nil, nil, err
		}
		return mgr, set, nil
	default:
		return mgr, obstacle.Set{}, nil
	}
}

// Configure applies the scene's planner selection to pm in file order:
// algorithm, collision mode, then options. A non-zero scene seed reaches the
// planner as the rseed option unless the options block already sets one.
func (s *Scene) Configure(pm *motionplan.PlanManager) error {
	if s.Algorithm != "" {
		if err := pm.SetAlgorithm(s.Algorithm); err != nil {
			return err
		}
	}
	if s.CollisionMode != "" {
		if err := pm.SetCollisionMode(s.CollisionMode); err != nil {
			return err
		}
	}
	overrides := map[string]interface{}{}
	if s.Seed != 0 {
		overrides["rseed"] = s.Seed
	}
	for k, v := range s.Options {
		overrides[k] = v
	}
	if len(overrides) == 0 {
		return nil
	}
	return pm.SetOptions(overrides)
}

func vecFromSlice(s []float64) r3.Vector {
	return r3.Vector{X: s[0], Y: s[1], Z: s[2]}
}
