package cam

import (
	"fmt"
	"math/rand"

	"github.com/camsim-dev/camsim/internal/tensor"
)

// Write programs the given rows with new reference patterns.
//
// newRows must have shape (len(rowIndices), columns); every index must lie
// in [0, rows). Validation happens before any state is touched, so a failed
// call leaves the array exactly as it was. Duplicate indices are legal; the
// last occurrence wins, matching the order the rows would be programmed in
// hardware.
//
// With a profile, the injector pipeline (quantization, programming noise,
// stuck-cell overwrite) is applied to the incoming rows first, modeling
// imperfect programming. Quantization applies to analog arrays only. The
// defect pattern is generated once per array from the profile seed and
// reused, so repeated writes see the same broken cells.
//
// For analog arrays, Write programs point intervals (low = high = value);
// use WriteBounds to program explicit acceptance windows.
func (a *Array[B]) Write(rowIndices []int, newRows *tensor.Tensor[float32, B], profile *DeviceProfile) error {
	if err := a.validateRows(rowIndices, newRows, "write"); err != nil {
		return err
	}

	committed, err := a.programRows(rowIndices, newRows, profile)
	if err != nil {
		return err
	}

	if a.variant == Analog {
		commitRows(a.low, rowIndices, committed, a.columns)
		commitRows(a.high, rowIndices, committed, a.columns)
		return nil
	}
	commitRows(a.store, rowIndices, committed, a.columns)
	return nil
}

// WriteBounds programs explicit acceptance intervals into an analog array.
// low and high must both have shape (len(rowIndices), columns).
func (a *Array[B]) WriteBounds(rowIndices []int, low, high *tensor.Tensor[float32, B], profile *DeviceProfile) error {
	if a.variant != Analog {
		return fmt.Errorf("%w: bounds writes require an analog array, have %s", ErrVariant, a.variant)
	}
	if err := a.validateRows(rowIndices, low, "write bounds"); err != nil {
		return err
	}
	if !high.Shape().Equal(low.Shape()) {
		return fmt.Errorf("%w: low shape %v does not match high shape %v", ErrShape, low.Shape(), high.Shape())
	}

	lo, err := a.programRows(rowIndices, low, profile)
	if err != nil {
		return err
	}
	hi, err := a.programRows(rowIndices, high, profile)
	if err != nil {
		return err
	}

	commitRows(a.low, rowIndices, lo, a.columns)
	commitRows(a.high, rowIndices, hi, a.columns)
	return nil
}

func (a *Array[B]) validateRows(rowIndices []int, newRows *tensor.Tensor[float32, B], op string) error {
	shape := newRows.Shape()
	if len(shape) != 2 {
		return fmt.Errorf("%w: %s expects a 2D row tensor, got %v", ErrShape, op, shape)
	}
	if shape[0] != len(rowIndices) || shape[1] != a.columns {
		return fmt.Errorf("%w: %s expects shape (%d, %d), got %v", ErrShape, op, len(rowIndices), a.columns, shape)
	}
	for _, idx := range rowIndices {
		if idx < 0 || idx >= a.rows {
			return fmt.Errorf("%w: row %d outside [0, %d)", ErrIndex, idx, a.rows)
		}
	}
	return nil
}

// programRows runs the programming-time injector pipeline over the incoming
// rows and returns the values that will actually land in the cells.
func (a *Array[B]) programRows(rowIndices []int, newRows *tensor.Tensor[float32, B], profile *DeviceProfile) (*tensor.RawTensor, error) {
	if profile == nil {
		return newRows.Raw(), nil
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	rows := newRows
	// Quantization models discrete analog conductance levels. Digital
	// arrays store bits (and the don't-care sentinel), which would be
	// dragged onto the wrong level by the min/max range.
	if profile.QuantLevels > 0 && a.variant == Analog {
		q, err := Quantize(rows, profile.QuantLevels)
		if err != nil {
			return nil, err
		}
		rows = q
	}

	if profile.Noise != "" && profile.Noise != NoiseNone {
		// Programming noise is drawn from a generator seeded by the profile,
		// so identical writes against identically profiled arrays land the
		// same perturbed values.
		rng := rand.New(rand.NewSource(profile.Seed))
		noisy, err := ApplyNoise(rows, profile.Noise, profile.NoiseScale, rng)
		if err != nil {
			return nil, err
		}
		rows = noisy
	}

	if profile.StuckAtRate > 0 {
		mask, err := a.defectMask(profile)
		if err != nil {
			return nil, err
		}
		maskRows := gatherRows(mask, rowIndices, a.columns, a.backend)
		stuck := tensor.Full[float32, B](rows.Shape(), profile.StuckAtValue, a.backend)
		rows = tensor.New[float32, B](a.backend.Where(maskRows, stuck.Raw(), rows.Raw()), a.backend)
	}

	return rows.Raw(), nil
}

// commitRows copies programmed rows into the state tensor.
func commitRows(store *tensor.RawTensor, rowIndices []int, rows *tensor.RawTensor, columns int) {
	dst := store.AsFloat32()
	src := rows.AsFloat32()
	for i, r := range rowIndices {
		copy(dst[r*columns:(r+1)*columns], src[i*columns:(i+1)*columns])
	}
}

// gatherRows assembles the defect-mask rows addressed by rowIndices into a
// (len(rowIndices), columns) bool tensor.
func gatherRows(mask *tensor.RawTensor, rowIndices []int, columns int, b tensor.Backend) *tensor.RawTensor {
	out, err := tensor.NewRaw(tensor.Shape{len(rowIndices), columns}, tensor.Bool, b.Device())
	if err != nil {
		panic(fmt.Sprintf("gather rows: %v", err))
	}
	src := mask.AsBool()
	dst := out.AsBool()
	for i, r := range rowIndices {
		copy(dst[i*columns:(i+1)*columns], src[r*columns:(r+1)*columns])
	}
	return out
}
