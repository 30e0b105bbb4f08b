package obstacle

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/starfield-nav/starplan/spatialmath"
	"github.com/starfield-nav/starplan/utils"
)

// Canonical preset names. GeneratePreset also accepts the short aliases
// listed in normalizePreset.
const (
	PresetEmpty         = "empty"
	PresetLightDebris   = "light_debris"
	PresetDenseBelt     = "dense_belt"
	PresetTrench        = "death_star_trench"
	PresetHothField     = "hoth_field"
	PresetRingFormation = "ring_formation"
)

// ErrInvalidRange flags custom generation requests whose size range is
// inverted or non-positive.
var ErrInvalidRange = errors.New("invalid obstacle size range")

// NewInvalidRangeError describes a rejected [minSize, maxSize] request.
func NewInvalidRangeError(minSize, maxSize float64) error {
	return errors.Wrapf(ErrInvalidRange, "min %f, max %f", minSize, maxSize)
}

// Distribution selects the placement strategy for custom generation.
type Distribution string

const (
	DistributionRandom    Distribution = "random"
	DistributionClustered Distribution = "clustered"
	DistributionLayered   Distribution = "layered"
	DistributionRing      Distribution = "ring"
)

// ParseDistribution maps a user-facing name onto a Distribution. An empty
// name means random placement.
func ParseDistribution(name string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "random", "uniform":
		return DistributionRandom, nil
	case "clustered", "cluster":
		return DistributionClustered, nil
	case "layered", "layers":
		return DistributionLayered, nil
	case "ring":
		return DistributionRing, nil
	default:
		return "", errors.Errorf("unknown obstacle distribution %q", name)
	}
}

// placement produces the pre-clamp position of obstacle i of count.
type placement func(i, count int, bounds spatialmath.Bounds, rnd *rand.Rand) r3.Vector

// normalizePreset lowercases name and resolves aliases to a canonical preset
// name, reporting whether the name was recognized.
func normalizePreset(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "empty", "none":
		return PresetEmpty, true
	case "light_debris", "light":
		return PresetLightDebris, true
	case "dense_belt", "dense":
		return PresetDenseBelt, true
	case "death_star_trench", "trench":
		return PresetTrench, true
	case "hoth_field", "hoth":
		return PresetHothField, true
	case "ring_formation", "ring":
		return PresetRingFormation, true
	default:
		return "", false
	}
}

// GeneratePreset populates a named obstacle field inside bounds. Unrecognized
// names produce the default medium scatter rather than failing. A nil rnd
// falls back to a time-seeded source; pass a fixed-seed rand.Rand for
// reproducible fields.
func GeneratePreset(name string, bounds spatialmath.Bounds, rnd *rand.Rand) (Set, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	rnd = ensureRand(rnd)
	canonical, _ := normalizePreset(name)
	switch canonical {
	case PresetEmpty:
		return Set{}, nil
	case PresetLightDebris:
		return generate(20, 0.03, 0.08, placeUniform, bounds, rnd), nil
	case PresetDenseBelt:
		return generate(75, 0.04, 0.10, placeBelt, bounds, rnd), nil
	case PresetTrench:
		set := generate(80, 0.03, 0.10, placeTrench, bounds, rnd)
		for i := range set {
			// alternate shapes down the corridor
			if i%3 == 0 {
				set[i].Shape = Cube
			} else {
				set[i].Shape = Sphere
			}
		}
		return set, nil
	case PresetHothField:
		return generate(60, 0.05, 0.09, placeHoth, bounds, rnd), nil
	case PresetRingFormation:
		return generate(50, 0.04, 0.08, placeRing, bounds, rnd), nil
	default:
		return generate(50, 0.03, 0.08, placeUniform, bounds, rnd), nil
	}
}

// GenerateCustom produces count obstacles sized within [minSize, maxSize]
// placed by the given distribution.
func GenerateCustom(
	count int,
	minSize, maxSize float64,
	dist Distribution,
	bounds spatialmath.Bounds,
	rnd *rand.Rand,
) (Set, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errors.Errorf("obstacle count must be non-negative, got %d", count)
	}
	if minSize <= 0 || minSize > maxSize {
		return nil, NewInvalidRangeError(minSize, maxSize)
	}
	rnd = ensureRand(rnd)
	switch dist {
	case DistributionRandom:
		return generate(count, minSize, maxSize, placeUniform, bounds, rnd), nil
	case DistributionClustered:
		return generate(count, minSize, maxSize, clusteredPlacement(bounds, rnd), bounds, rnd), nil
	case DistributionLayered:
		return generate(count, minSize, maxSize, layeredPlacement(bounds), bounds, rnd), nil
	case DistributionRing:
		return generate(count, minSize, maxSize, placeRing, bounds, rnd), nil
	default:
		return nil, errors.Errorf("unknown obstacle distribution %q", dist)
	}
}

// generate builds count obstacles, clamping every position so the obstacle
// (position plus size on every axis) stays inside bounds.
func generate(count int, minSize, maxSize float64, place placement, bounds spatialmath.Bounds, rnd *rand.Rand) Set {
	set := make(Set, 0, count)
	for i := 0; i < count; i++ {
		size := minSize + rnd.Float64()*(maxSize-minSize)
		set = append(set, Obstacle{
			Shape:    randomShape(rnd),
			Position: bounds.ClampWithMargin(place(i, count, bounds, rnd), size),
			Size:     size,
			Color:    randomWarmColor(rnd),
		})
	}
	return set
}

func placeUniform(_, _ int, bounds spatialmath.Bounds, rnd *rand.Rand) r3.Vector {
	return bounds.SampleUniform(rnd)
}

// placeBelt scatters along an annulus around the volume center on the xy
// plane, with radial jitter and a loose spread in z.
func placeBelt(_, _ int, bounds spatialmath.Bounds, rnd *rand.Rand) r3.Vector {
	center := bounds.Center()
	ext := bounds.Extents()
	theta := rnd.Float64() * 2 * math.Pi
	radius := 0.35 * math.Min(ext.X, ext.Y) * (0.85 + 0.3*rnd.Float64())
	return r3.Vector{
		X: center.X + radius*math.Cos(theta),
		Y: center.Y + radius*math.Sin(theta),
		Z: center.Z + (rnd.Float64()-0.5)*0.3*ext.Z,
	}
}

// placeTrench confines positions to a corridor running the length of x,
// tightly jittered around the center in y and z.
func placeTrench(_, _ int, bounds spatialmath.Bounds, rnd *rand.Rand) r3.Vector {
	center := bounds.Center()
	ext := bounds.Extents()
	return r3.Vector{
		X: bounds.Min.X + rnd.Float64()*ext.X,
		Y: center.Y + (rnd.Float64()-0.5)*0.12*ext.Y,
		Z: center.Z + (rnd.Float64()-0.5)*0.12*ext.Z,
	}
}

// placeHoth spreads across the full x/y footprint with a tight band in z.
func placeHoth(_, _ int, bounds spatialmath.Bounds, rnd *rand.Rand) r3.Vector {
	center := bounds.Center()
	ext := bounds.Extents()
	return r3.Vector{
		X: bounds.Min.X + rnd.Float64()*ext.X,
		Y: bounds.Min.Y + rnd.Float64()*ext.Y,
		Z: center.Z + (rnd.Float64()-0.5)*0.12*ext.Z,
	}
}

// placeRing spaces positions evenly around a ring of radius half the smaller
// xy extent, with radial and z jitter.
func placeRing(i, count int, bounds spatialmath.Bounds, rnd *rand.Rand) r3.Vector {
	center := bounds.Center()
	ext := bounds.Extents()
	ringRadius := 0.5 * math.Min(ext.X, ext.Y)
	theta := 2 * math.Pi * float64(i) / float64(count)
	radius := ringRadius + (rnd.Float64()-0.5)*0.2*ringRadius
	return r3.Vector{
		X: center.X + radius*math.Cos(theta),
		Y: center.Y + radius*math.Sin(theta),
		Z: center.Z + (rnd.Float64()-0.5)*0.2*ext.Z,
	}
}

// clusteredPlacement samples a handful of cluster centers up front and packs
// obstacles around them.
func clusteredPlacement(bounds spatialmath.Bounds, rnd *rand.Rand) placement {
	centers := make([]r3.Vector, utils.SampleRandomIntRange(2, 4, rnd))
	for i := range centers {
		centers[i] = bounds.SampleUniform(rnd)
	}
	ext := bounds.Extents()
	return func(i, _ int, _ spatialmath.Bounds, rnd *rand.Rand) r3.Vector {
		c := centers[i%len(centers)]
		return r3.Vector{
			X: c.X + (rnd.Float64()-0.5)*0.25*ext.X,
			Y: c.Y + (rnd.Float64()-0.5)*0.25*ext.Y,
			Z: c.Z + (rnd.Float64()-0.5)*0.25*ext.Z,
		}
	}
}

// layeredPlacement spreads obstacles across evenly spaced z planes.
func layeredPlacement(bounds spatialmath.Bounds) placement {
	layers := make([]float64, 4)
	floats.Span(layers, bounds.Min.Z, bounds.Max.Z)
	ext := bounds.Extents()
	return func(i, _ int, b spatialmath.Bounds, rnd *rand.Rand) r3.Vector {
		return r3.Vector{
			X: b.Min.X + rnd.Float64()*ext.X,
			Y: b.Min.Y + rnd.Float64()*ext.Y,
			Z: layers[i%len(layers)] + (rnd.Float64()-0.5)*0.05*ext.Z,
		}
	}
}

func randomShape(rnd *rand.Rand) ShapeType {
	if rnd.Intn(2) == 0 {
		return Cube
	}
	return Sphere
}

// randomWarmColor biases hues into the red-orange and magenta bands so
// generated fields render warm and bright.
func randomWarmColor(rnd *rand.Rand) colorful.Color {
	hue := rnd.Float64() * 60
	if rnd.Intn(2) == 0 {
		hue = 300 + rnd.Float64()*60
	}
	return colorful.Hsv(hue, 0.55+0.45*rnd.Float64(), 0.7+0.3*rnd.Float64())
}

func ensureRand(rnd *rand.Rand) *rand.Rand {
	if rnd != nil {
		return rnd
	}
	//nolint:gosec
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
