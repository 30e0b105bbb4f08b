// Package obstacle generates and manages the obstacle fields the planners
// navigate: procedurally placed cubes and spheres inside a bounded volume.
package obstacle

import (
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/starfield-nav/starplan/spatialmath"
)

// ShapeType selects the collision geometry of an obstacle.
type ShapeType int

const (
	// Cube is an axis-aligned cube; Size is its half extent.
	Cube ShapeType = iota
	// Sphere is a ball; Size is its radius.
	Sphere
)

func (s ShapeType) String() string {
	switch s {
	case Cube:
		return "cube"
	case Sphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Obstacle is one solid in the planning volume.
type Obstacle struct {
	Shape    ShapeType
	Position r3.Vector
	Size     float64
	Color    colorful.Color
}

// ContainsPoint reports whether pt lies inside the obstacle, boundary inclusive.
func (o Obstacle) ContainsPoint(pt r3.Vector) bool {
	switch o.Shape {
	case Sphere:
		return spatialmath.SphereContainsPoint(o.Position, o.Size, pt)
	default:
		return spatialmath.CubeContainsPoint(o.Position, o.Size, pt)
	}
}

// validate checks the size invariant and that the obstacle cannot protrude
// through the boundary of the planning volume.
func (o Obstacle) validate(bounds spatialmath.Bounds) error {
	if o.Size <= 0 {
		return errors.Errorf("obstacle size must be positive, got %f", o.Size)
	}
	margin := r3.Vector{X: o.Size, Y: o.Size, Z: o.Size}
	if !bounds.Contains(o.Position.Sub(margin)) || !bounds.Contains(o.Position.Add(margin)) {
		return errors.Errorf("%s at %v with size %f protrudes outside bounds", o.Shape, o.Position, o.Size)
	}
	return nil
}

// Set is an ordered collection of obstacles.
type Set []Obstacle

// Collides reports whether pt lies inside any obstacle in the set. Shrinking
// an obstacle or removing it can only turn a colliding point non-colliding,
// never the reverse.
func (s Set) Collides(pt r3.Vector) bool {
	for _, o := range s {
		if o.ContainsPoint(pt) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Validate checks every obstacle's size and containment against bounds.
func (s Set) Validate(bounds spatialmath.Bounds) error {
	if err := bounds.Validate(); err != nil {
		return err
	}
	for i, o := range s {
		if err := o.validate(bounds); err != nil {
			return errors.Wrapf(err, "obstacle %d", i)
		}
	}
	return nil
}
