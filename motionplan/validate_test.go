package motionplan

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/starfield-nav/starplan/obstacle"
)

// thinBlocker is small enough to slip between coarse segment samples.
func thinBlocker() obstacle.Set {
	return obstacle.Set{{
		Shape:    obstacle.Sphere,
		Position: r3.Vector{X: 0.33},
		Size:     0.02,
	}}
}

func TestValidSegment(t *testing.T) {
	from := r3.Vector{}
	to := r3.Vector{X: 1}

	// fine sampling catches the blocker, coarse sampling steps over it
	test.That(t, validSegment(from, to, thinBlocker(), 0.02), test.ShouldBeFalse)
	test.That(t, validSegment(from, to, thinBlocker(), 0.5), test.ShouldBeTrue)

	// both endpoints are always checked, even on a zero-length segment
	occupied := obstacle.Set{{Shape: obstacle.Sphere, Position: to, Size: 0.01}}
	test.That(t, validSegment(from, to, occupied, 0.5), test.ShouldBeFalse)
	test.That(t, validSegment(to, to, occupied, 0.5), test.ShouldBeFalse)
	test.That(t, validSegment(from, from, occupied, 0.5), test.ShouldBeTrue)
}

func TestValidatePath(t *testing.T) {
	offset := Path{{X: 0, Y: 0.5}, {X: 1, Y: 0.5}}
	through := Path{{}, {X: 1}}

	test.That(t, ValidatePath(offset, thinBlocker(), 0.02), test.ShouldBeTrue)
	test.That(t, ValidatePath(through, thinBlocker(), 0.02), test.ShouldBeFalse)

	// a non-positive step size selects the default re-validation resolution,
	// fine enough to catch the blocker
	test.That(t, ValidatePath(through, thinBlocker(), 0), test.ShouldBeFalse)
	test.That(t, ValidatePath(through, thinBlocker(), 0.5), test.ShouldBeTrue)
}

func TestValidatePathDegenerate(t *testing.T) {
	test.That(t, ValidatePath(Path{}, obstacle.Set{}, 0.02), test.ShouldBeFalse)

	free := Path{{X: 0.9}}
	test.That(t, ValidatePath(free, thinBlocker(), 0.02), test.ShouldBeTrue)

	occupied := Path{{X: 0.33}}
	test.That(t, ValidatePath(occupied, thinBlocker(), 0.02), test.ShouldBeFalse)
}
