package obstacle

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/starfield-nav/starplan/spatialmath"
)

func TestNewManager(t *testing.T) {
	logger := golog.NewTestLogger(t)

	_, err := NewManager(spatialmath.Bounds{}, 1, logger)
	test.That(t, err, test.ShouldNotBeNil)

	m, err := NewManager(unitBounds(t), 1, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Obstacles(), test.ShouldHaveLength, 0)
	test.That(t, m.Bounds(), test.ShouldResemble, unitBounds(t))
}

func TestManagerGeneratePreset(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m, err := NewManager(unitBounds(t), 42, logger)
	test.That(t, err, test.ShouldBeNil)

	set, err := m.GeneratePreset("dense_belt")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, set, test.ShouldHaveLength, 75)
	test.That(t, m.Obstacles(), test.ShouldResemble, set)

	// unknown names fall back to the default scatter
	set, err = m.GeneratePreset("kessel_run")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, set, test.ShouldHaveLength, 50)
}

func TestManagerGenerateCustom(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m, err := NewManager(unitBounds(t), 42, logger)
	test.That(t, err, test.ShouldBeNil)

	set, err := m.GenerateCustom(12, 0.02, 0.05, DistributionClustered)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, set, test.ShouldHaveLength, 12)

	_, err = m.GenerateCustom(12, 0.06, 0.05, DistributionClustered)
	test.That(t, err, test.ShouldNotBeNil)
	// a failed generation leaves the previous field in place
	test.That(t, m.Obstacles(), test.ShouldResemble, set)
}

func TestManagerSnapshotIsolation(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m, err := NewManager(unitBounds(t), 42, logger)
	test.That(t, err, test.ShouldBeNil)

	_, err = m.GeneratePreset("light_debris")
	test.That(t, err, test.ShouldBeNil)

	snapshot := m.Obstacles()
	snapshot[0].Position = r3.Vector{X: -100, Y: -100, Z: -100}
	test.That(t, m.Obstacles()[0].Position, test.ShouldNotResemble, snapshot[0].Position)
}

func TestManagerSetObstacles(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m, err := NewManager(unitBounds(t), 42, logger)
	test.That(t, err, test.ShouldBeNil)

	good := Set{{Shape: Cube, Position: r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, Size: 0.25}}
	test.That(t, m.SetObstacles(good), test.ShouldBeNil)
	test.That(t, m.Obstacles(), test.ShouldResemble, good)

	protruding := Set{{Shape: Cube, Position: r3.Vector{X: 0.9, Y: 0.5, Z: 0.5}, Size: 0.25}}
	test.That(t, m.SetObstacles(protruding), test.ShouldNotBeNil)
	test.That(t, m.Obstacles(), test.ShouldResemble, good)
}
