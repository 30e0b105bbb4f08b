package motionplan

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/starfield-nav/starplan/obstacle"
	"github.com/starfield-nav/starplan/spatialmath"
	vutil "github.com/starfield-nav/starplan/utils"
)

// ValidatePath densely samples every segment of path and reports whether all
// samples clear the obstacle set. A stepSize at or below zero selects the
// default re-validation resolution, which is finer than the growth-time
// collision checks. An empty path is invalid; a single-waypoint path is valid
// iff its one pose is collision free.
func ValidatePath(path Path, obstacles obstacle.Set, stepSize float64) bool {
	if stepSize <= 0 {
		stepSize = defaultValidationStepSize
	}
	if len(path) == 0 {
		return false
	}
	if len(path) == 1 {
		return !obstacles.Collides(path[0])
	}
	for i := 1; i < len(path); i++ {
		if !validSegment(path[i-1], path[i], obstacles, stepSize) {
			return false
		}
	}
	return true
}

// validSegment samples the straight segment between two poses at spacing no
// coarser than resolution, both endpoints always included.
func validSegment(from, to r3.Vector, obstacles obstacle.Set, resolution float64) bool {
	length := to.Sub(from).Norm()
	sampleCount := vutil.MaxInt(2, int(math.Ceil(length/resolution))+1)
	for i := 0; i < sampleCount; i++ {
		t := float64(i) / float64(sampleCount-1)
		if obstacles.Collides(spatialmath.Interpolate(from, to, t)) {
			return false
		}
	}
	return true
}
