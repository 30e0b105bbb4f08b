package motionplan

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestDefaultPlannerOptions(t *testing.T) {
	opt := DefaultPlannerOptions()
	test.That(t, opt.MaxNodes, test.ShouldEqual, 4000)
	test.That(t, opt.StepSize, test.ShouldEqual, 0.06)
	test.That(t, opt.GoalRadius, test.ShouldEqual, 0.12)
	test.That(t, opt.GoalBias, test.ShouldEqual, 0.20)
	test.That(t, opt.Validate(), test.ShouldBeNil)
}

func TestPlannerOptionsValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PlannerOptions)
	}{
		{"zero max nodes", func(o *PlannerOptions) { o.MaxNodes = 0 }},
		{"negative max nodes", func(o *PlannerOptions) { o.MaxNodes = -5 }},
		{"zero step size", func(o *PlannerOptions) { o.StepSize = 0 }},
		{"negative step size", func(o *PlannerOptions) { o.StepSize = -0.01 }},
		{"zero goal radius", func(o *PlannerOptions) { o.GoalRadius = 0 }},
		{"goal bias above one", func(o *PlannerOptions) { o.GoalBias = 1.2 }},
		{"negative goal bias", func(o *PlannerOptions) { o.GoalBias = -0.1 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opt := newBasicPlannerOptions()
			c.mutate(opt)
			err := opt.Validate()
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, errors.Is(err, ErrInvalidConfiguration), test.ShouldBeTrue)
		})
	}

	t.Run("zero goal bias is allowed", func(t *testing.T) {
		opt := newBasicPlannerOptions()
		opt.GoalBias = 0
		test.That(t, opt.Validate(), test.ShouldBeNil)
	})
}

func TestPlannerOptionsWithOverrides(t *testing.T) {
	opt := newBasicPlannerOptions()

	merged, err := opt.withOverrides(map[string]interface{}{"max_nodes": 500})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, merged.MaxNodes, test.ShouldEqual, 500)
	test.That(t, merged.StepSize, test.ShouldEqual, defaultStepSize)
	test.That(t, merged.GoalRadius, test.ShouldEqual, defaultGoalRadius)

	// layering: a second override only touches the field it names
	merged2, err := merged.withOverrides(map[string]interface{}{"step_size": 0.1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, merged2.MaxNodes, test.ShouldEqual, 500)
	test.That(t, merged2.StepSize, test.ShouldEqual, 0.1)

	// an empty override map changes nothing
	merged3, err := merged2.withOverrides(map[string]interface{}{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, merged3, test.ShouldResemble, merged2)

	// unknown keys are ignored
	merged4, err := opt.withOverrides(map[string]interface{}{"warp_factor": 9})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, merged4, test.ShouldResemble, opt)
}

func TestPlannerOptionsWithOverridesRejectsBadValues(t *testing.T) {
	opt := newBasicPlannerOptions()

	for _, overrides := range []map[string]interface{}{
		{"max_nodes": 0},
		{"goal_bias": 1.5},
		{"step_size": "fast"},
	} {
		merged, err := opt.withOverrides(overrides)
		test.That(t, merged, test.ShouldBeNil)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, ErrInvalidConfiguration), test.ShouldBeTrue)
	}

	// the receiving options are never corrupted by a failed merge
	test.That(t, opt, test.ShouldResemble, newBasicPlannerOptions())
}
