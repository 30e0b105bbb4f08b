package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/starfield-nav/starplan/utils"
)

// CubeContainsPoint reports whether pt lies inside an axis-aligned cube of the
// given half extent centered at center, boundary inclusive.
func CubeContainsPoint(center r3.Vector, halfExtent float64, pt r3.Vector) bool {
	d := pt.Sub(center)
	return math.Abs(d.X) <= halfExtent &&
		math.Abs(d.Y) <= halfExtent &&
		math.Abs(d.Z) <= halfExtent
}

// SphereContainsPoint reports whether pt lies inside a sphere of the given
// radius centered at center, boundary inclusive.
func SphereContainsPoint(center r3.Vector, radius float64, pt r3.Vector) bool {
	return pt.Sub(center).Norm2() <= utils.Square(radius)
}

// Interpolate returns the point at fraction t along the segment from start to end.
func Interpolate(start, end r3.Vector, t float64) r3.Vector {
	return start.Add(end.Sub(start).Mul(t))
}
