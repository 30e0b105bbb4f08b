package obstacle

import (
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// RecordWidth is the number of scalar fields in one obstacle interop record.
const RecordWidth = 8

// Records flattens the set into fixed-width records in the order
// [shapeFlag, x, y, z, size, r, g, b]. Color channels stay in [0, 1].
func (s Set) Records() [][]float64 {
	records := make([][]float64, 0, len(s))
	for _, o := range s {
		records = append(records, []float64{
			float64(o.Shape),
			o.Position.X, o.Position.Y, o.Position.Z,
			o.Size,
			o.Color.R, o.Color.G, o.Color.B,
		})
	}
	return records
}

// SetFromRecords parses records produced by Records, rejecting malformed
// widths, unknown shape flags and non-positive sizes.
func SetFromRecords(records [][]float64) (Set, error) {
	set := make(Set, 0, len(records))
	for i, rec := range records {
		if len(rec) != RecordWidth {
			return nil, errors.Errorf("record %d has %d fields, want %d", i, len(rec), RecordWidth)
		}
		if rec[0] != float64(Cube) && rec[0] != float64(Sphere) {
			return nil, errors.Errorf("record %d has unknown shape flag %v", i, rec[0])
		}
		if rec[4] <= 0 {
			return nil, errors.Errorf("record %d has non-positive size %v", i, rec[4])
		}
		set = append(set, Obstacle{
			Shape:    ShapeType(rec[0]),
			Position: r3.Vector{X: rec[1], Y: rec[2], Z: rec[3]},
			Size:     rec[4],
			Color:    colorful.Color{R: rec[5], G: rec[6], B: rec[7]},
		})
	}
	return set, nil
}
