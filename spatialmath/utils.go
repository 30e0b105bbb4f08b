package spatialmath

import (
	"github.com/golang/geo/r3"

	"github.com/starfield-nav/starplan/utils"
)

// R3VectorAlmostEqual compares two vectors componentwise within epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
