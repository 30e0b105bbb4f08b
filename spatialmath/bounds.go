// Package spatialmath defines the axis-aligned planning volume and the
// geometric primitives the planner uses for sampling and collision checking.
package spatialmath

import (
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/starfield-nav/starplan/utils"
)

// Bounds is an axis-aligned box delimiting the planning volume.
type Bounds struct {
	Min r3.Vector `json:"min"`
	Max r3.Vector `json:"max"`
}

// NewBounds constructs a Bounds from per-axis extrema, rejecting any axis
// whose minimum is not strictly below its maximum.
func NewBounds(xmin, xmax, ymin, ymax, zmin, zmax float64) (Bounds, error) {
	b := Bounds{
		Min: r3.Vector{X: xmin, Y: ymin, Z: zmin},
		Max: r3.Vector{X: xmax, Y: ymax, Z: zmax},
	}
	if err := b.Validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// NewBoundsFromSlice builds a Bounds from the 6-scalar interop form
// [xmin, xmax, ymin, ymax, zmin, zmax].
func NewBoundsFromSlice(s []float64) (Bounds, error) {
	if len(s) != 6 {
		return Bounds{}, errors.Errorf("bounds need 6 values [xmin xmax ymin ymax zmin zmax], got %d", len(s))
	}
	return NewBounds(s[0], s[1], s[2], s[3], s[4], s[5])
}

// AsSlice returns the 6-scalar interop form of the bounds.
func (b Bounds) AsSlice() []float64 {
	return []float64{b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z}
}

// Validate returns an error unless min < max holds on every axis.
func (b Bounds) Validate() error {
	if b.Min.X >= b.Max.X {
		return newInvalidBoundsError("x", b.Min.X, b.Max.X)
	}
	if b.Min.Y >= b.Max.Y {
		return newInvalidBoundsError("y", b.Min.Y, b.Max.Y)
	}
	if b.Min.Z >= b.Max.Z {
		return newInvalidBoundsError("z", b.Min.Z, b.Max.Z)
	}
	return nil
}

func newInvalidBoundsError(axis string, min, max float64) error {
	return errors.Errorf("invalid bounds: %s min %f must be less than %s max %f", axis, min, axis, max)
}

// Contains reports whether pt lies within the volume, boundary inclusive.
func (b Bounds) Contains(pt r3.Vector) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X &&
		pt.Y >= b.Min.Y && pt.Y <= b.Max.Y &&
		pt.Z >= b.Min.Z && pt.Z <= b.Max.Z
}

// Center returns the midpoint of the volume.
func (b Bounds) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the per-axis side lengths of the volume.
func (b Bounds) Extents() r3.Vector {
	return b.Max.Sub(b.Min)
}

// SampleUniform returns a uniformly distributed random point inside the volume.
func (b Bounds) SampleUniform(rnd *rand.Rand) r3.Vector {
	ext := b.Extents()
	return r3.Vector{
		X: b.Min.X + rnd.Float64()*ext.X,
		Y: b.Min.Y + rnd.Float64()*ext.Y,
		Z: b.Min.Z + rnd.Float64()*ext.Z,
	}
}

// ClampWithMargin constrains pt per axis to [min+margin, max-margin]. An axis
// whose extent is smaller than twice the margin degenerates to its midpoint,
// keeping the result interior for any margin.
func (b Bounds) ClampWithMargin(pt r3.Vector, margin float64) r3.Vector {
	return r3.Vector{
		X: clampAxis(pt.X, b.Min.X, b.Max.X, margin),
		Y: clampAxis(pt.Y, b.Min.Y, b.Max.Y, margin),
		Z: clampAxis(pt.Z, b.Min.Z, b.Max.Z, margin),
	}
}

func clampAxis(v, min, max, margin float64) float64 {
	lo, hi := min+margin, max-margin
	if lo > hi {
		return (min + max) / 2
	}
	return utils.Clamp(v, lo, hi)
}
