package cam

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/tensor"
)

// Array is the stored state of one simulated CAM array.
//
// Binary and ternary arrays hold a single (rows, columns) pattern tensor;
// analog arrays hold two, the per-cell acceptance bounds. The array is
// single-writer: only Write and WriteBounds mutate it, and concurrent
// writes and reads against the same array require external serialization
// by the caller. Match never mutates.
type Array[B tensor.Backend] struct {
	variant Variant
	rows    int
	columns int
	backend B

	store *tensor.RawTensor // binary/ternary pattern, (rows, columns)
	low   *tensor.RawTensor // analog lower bounds, (rows, columns)
	high  *tensor.RawTensor // analog upper bounds, (rows, columns)

	defects *tensor.RawTensor // cached bool defect mask, see defectMask
}

// NewArray creates a CAM array initialized to all-don't-care (ternary) or
// all-zero (binary, analog) state.
//
// A zero-row array is legal: it is an empty search target that matches
// nothing. Zero or negative columns are not, since no query can ever have
// matching width.
func NewArray[B tensor.Backend](v Variant, rows, columns int, b B) (*Array[B], error) {
	if rows < 0 {
		return nil, fmt.Errorf("%w: rows must be >= 0, got %d", ErrShape, rows)
	}
	if columns <= 0 {
		return nil, fmt.Errorf("%w: columns must be > 0, got %d", ErrShape, columns)
	}

	a := &Array[B]{
		variant: v,
		rows:    rows,
		columns: columns,
		backend: b,
	}

	shape := tensor.Shape{rows, columns}
	switch v {
	case Binary:
		a.store = mustRaw(shape, b)
	case Ternary:
		a.store = mustRaw(shape, b)
		fill(a.store, DontCare)
	case Analog:
		a.low = mustRaw(shape, b)
		a.high = mustRaw(shape, b)
	default:
		return nil, fmt.Errorf("%w: unrecognized variant %d", ErrVariant, int(v))
	}

	return a, nil
}

// Rows returns the number of stored rows.
func (a *Array[B]) Rows() int {
	return a.rows
}

// Columns returns the query width of the array.
func (a *Array[B]) Columns() int {
	return a.columns
}

// Variant returns the array's CAM variant.
func (a *Array[B]) Variant() Variant {
	return a.variant
}

// Backend returns the compute backend the array was created on.
func (a *Array[B]) Backend() B {
	return a.backend
}

// Stored returns a copy of the stored pattern as a (rows, columns) tensor.
// For analog arrays this is the interval centers.
func (a *Array[B]) Stored() *tensor.Tensor[float32, B] {
	if a.variant != Analog {
		return tensor.New[float32, B](a.store.DeepClone(), a.backend)
	}
	centers := a.backend.MulScalar(a.backend.Add(a.low, a.high), float32(0.5))
	return tensor.New[float32, B](centers, a.backend)
}

// Bounds returns copies of the analog acceptance bounds.
// Returns ErrVariant for binary and ternary arrays.
func (a *Array[B]) Bounds() (low, high *tensor.Tensor[float32, B], err error) {
	if a.variant != Analog {
		return nil, nil, fmt.Errorf("%w: %s arrays have no bounds", ErrVariant, a.variant)
	}
	return tensor.New[float32, B](a.low.DeepClone(), a.backend),
		tensor.New[float32, B](a.high.DeepClone(), a.backend), nil
}

// defectMask lazily generates and caches the array's stuck-cell mask from
// the profile. Caching keeps the defect pattern consistent across repeated
// writes against the same simulated hardware instance; the mask is
// regenerable deterministically from the profile seed.
func (a *Array[B]) defectMask(p *DeviceProfile) (*tensor.RawTensor, error) {
	if a.defects == nil {
		mask, err := GenerateDefectMask[B](a.rows, a.columns, p.StuckAtRate, p.Seed, a.backend)
		if err != nil {
			return nil, err
		}
		a.defects = mask.Raw()
	}
	return a.defects, nil
}

// ResetDefects discards the cached defect mask, modeling a swap to a fresh
// simulated device. The next profiled write regenerates it.
func (a *Array[B]) ResetDefects() {
	a.defects = nil
}

func mustRaw[B tensor.Backend](shape tensor.Shape, b B) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, tensor.Float32, b.Device())
	if err != nil {
		panic(fmt.Sprintf("new array: %v", err))
	}
	return raw
}

func fill(r *tensor.RawTensor, v float32) {
	data := r.AsFloat32()
	for i := range data {
		data[i] = v
	}
}
