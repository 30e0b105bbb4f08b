package motionplan

import (
	"context"
	"errors"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/starfield-nav/starplan/obstacle"
	"github.com/starfield-nav/starplan/spatialmath"
)

func unitBounds(t *testing.T) spatialmath.Bounds {
	t.Helper()
	b, err := spatialmath.NewBounds(0, 1, 0, 1, 0, 1)
	test.That(t, err, test.ShouldBeNil)
	return b
}

// wallField builds a solid slab of cubes at x=0.5 spanning the full yz
// cross-section of the unit volume; no step can cross or tunnel it.
func wallField() obstacle.Set {
	set := obstacle.Set{}
	for _, y := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		for _, z := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
			set = append(set, obstacle.Obstacle{
				Shape:    obstacle.Cube,
				Position: r3.Vector{X: 0.5, Y: y, Z: z},
				Size:     0.12,
			})
		}
	}
	return set
}

func testPlannerOptions(seed int) *PlannerOptions {
	opt := newBasicPlannerOptions()
	opt.RandomSeed = seed
	return opt
}

// assertStepBounded checks that no segment exceeds the extension step except
// the final hop onto the goal, which may be up to the goal radius.
func assertStepBounded(t *testing.T, path Path, stepSize, goalRadius float64) {
	t.Helper()
	segs := path.SegmentLengths()
	for i, s := range segs {
		if i == len(segs)-1 {
			test.That(t, s, test.ShouldBeLessThanOrEqualTo, goalRadius+1e-9)
			continue
		}
		test.That(t, s, test.ShouldBeLessThanOrEqualTo, stepSize+1e-9)
	}
}

func TestRRTPlanFreeField(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mp, err := newRRTMotionPlanner(testPlannerOptions(42), logger)
	test.That(t, err, test.ShouldBeNil)

	bounds := unitBounds(t)
	start := r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}
	goal := r3.Vector{X: 0.9, Y: 0.9, Z: 0.9}

	nodes, path, err := mp.Plan(context.Background(), start, goal, obstacle.Set{}, bounds)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(nodes), test.ShouldBeGreaterThan, 0)
	test.That(t, nodes[0].Pose(), test.ShouldResemble, start)
	test.That(t, len(path), test.ShouldBeGreaterThanOrEqualTo, 2)
	test.That(t, path[0], test.ShouldResemble, start)
	test.That(t, path[len(path)-1], test.ShouldResemble, goal)
	assertStepBounded(t, path, defaultStepSize, defaultGoalRadius)
	for _, p := range path {
		test.That(t, bounds.Contains(p), test.ShouldBeTrue)
	}
}

func TestRRTPlanAroundObstacle(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mp, err := newRRTMotionPlanner(testPlannerOptions(42), logger)
	test.That(t, err, test.ShouldBeNil)

	bounds := unitBounds(t)
	start := r3.Vector{X: 0.2, Y: 0.5, Z: 0.5}
	goal := r3.Vector{X: 0.8, Y: 0.5, Z: 0.5}
	blocker := obstacle.Set{{
		Shape:    obstacle.Sphere,
		Position: r3.Vector{X: 0.5, Y: 0.5, Z: 0.5},
		Size:     0.15,
	}}

	_, path, err := mp.Plan(context.Background(), start, goal, blocker, bounds)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(path), test.ShouldBeGreaterThan, 0)
	test.That(t, path[0], test.ShouldResemble, start)
	test.That(t, path[len(path)-1], test.ShouldResemble, goal)
	for _, p := range path {
		test.That(t, blocker.Collides(p), test.ShouldBeFalse)
	}
}

func TestRRTPlanWalled(t *testing.T) {
	logger := golog.NewTestLogger(t)
	opt := testPlannerOptions(42)
	opt.MaxNodes = 600
	mp, err := newRRTMotionPlanner(opt, logger)
	test.That(t, err, test.ShouldBeNil)

	bounds := unitBounds(t)
	start := r3.Vector{X: 0.2, Y: 0.5, Z: 0.5}
	goal := r3.Vector{X: 0.8, Y: 0.5, Z: 0.5}

	// exhausting the budget without reaching the goal is not an error
	nodes, path, err := mp.Plan(context.Background(), start, goal, wallField(), bounds)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(nodes), test.ShouldBeGreaterThan, 0)
	test.That(t, path, test.ShouldHaveLength, 0)
}

func TestRRTPlanDeterministic(t *testing.T) {
	logger := golog.NewTestLogger(t)
	bounds := unitBounds(t)
	start := r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}
	goal := r3.Vector{X: 0.9, Y: 0.9, Z: 0.9}

	planOnce := func() ([]Node, Path) {
		mp, err := newRRTMotionPlanner(testPlannerOptions(7), logger)
		test.That(t, err, test.ShouldBeNil)
		nodes, path, err := mp.Plan(context.Background(), start, goal, obstacle.Set{}, bounds)
		test.That(t, err, test.ShouldBeNil)
		return nodes, path
	}

	nodes1, path1 := planOnce()
	nodes2, path2 := planOnce()
	test.That(t, path2, test.ShouldResemble, path1)
	test.That(t, len(nodes2), test.ShouldEqual, len(nodes1))
}

func TestRRTPlanCancelled(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mp, err := newRRTMotionPlanner(testPlannerOptions(1), logger)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, path, err := mp.Plan(ctx, r3.Vector{X: 0.1}, r3.Vector{X: 0.9}, obstacle.Set{}, unitBounds(t))
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	test.That(t, path, test.ShouldHaveLength, 0)
}

func TestRRTPlanInvalidInputs(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mp, err := newRRTMotionPlanner(testPlannerOptions(1), logger)
	test.That(t, err, test.ShouldBeNil)
	bounds := unitBounds(t)

	cases := []struct {
		name        string
		start, goal r3.Vector
		bounds      spatialmath.Bounds
	}{
		{"start outside", r3.Vector{X: -0.1, Y: 0.5, Z: 0.5}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, bounds},
		{"goal outside", r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vector{X: 0.5, Y: 2, Z: 0.5}, bounds},
		{
			"inverted bounds",
			r3.Vector{X: 0.5, Y: 0.5, Z: 0.5},
			r3.Vector{X: 0.6, Y: 0.5, Z: 0.5},
			spatialmath.Bounds{Min: r3.Vector{X: 1, Y: 1, Z: 1}, Max: r3.Vector{}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := mp.Plan(context.Background(), c.start, c.goal, obstacle.Set{}, c.bounds)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, errors.Is(err, ErrInvalidConfiguration), test.ShouldBeTrue)
		})
	}
}

func TestRRTPlanStartNearGoal(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mp, err := newRRTMotionPlanner(testPlannerOptions(3), logger)
	test.That(t, err, test.ShouldBeNil)

	start := r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}
	goal := r3.Vector{X: 0.55, Y: 0.5, Z: 0.5}
	_, path, err := mp.Plan(context.Background(), start, goal, obstacle.Set{}, unitBounds(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(path), test.ShouldBeGreaterThanOrEqualTo, 2)
	test.That(t, path[0], test.ShouldResemble, start)
	test.That(t, path[len(path)-1], test.ShouldResemble, goal)
}

func TestNewRRTMotionPlannerRejectsBadOptions(t *testing.T) {
	logger := golog.NewTestLogger(t)
	opt := newBasicPlannerOptions()
	opt.StepSize = -1
	_, err := newRRTMotionPlanner(opt, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrInvalidConfiguration), test.ShouldBeTrue)
}
