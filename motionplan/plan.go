package motionplan

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

// Path is an ordered sequence of poses from start to goal inclusive, empty
// when planning found no path.
type Path []r3.Vector

// SegmentLengths returns the Euclidean length of each consecutive segment.
func (p Path) SegmentLengths() []float64 {
	if len(p) < 2 {
		return nil
	}
	segs := make([]float64, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		segs = append(segs, p[i].Sub(p[i-1]).Norm())
	}
	return segs
}

// Length returns the total length of the path.
func (p Path) Length() float64 {
	return floats.Sum(p.SegmentLengths())
}
