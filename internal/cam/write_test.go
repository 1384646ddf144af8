package cam

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camsim-dev/camsim/internal/backend/cpu"
)

func TestWriteReadConsistency(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Ternary, 4, 3, backend)
	require.NoError(t, err)

	rows := fromRows(t, backend, 2, 3, []float32{
		1, 0, 1,
		0, DontCare, 1,
	})
	require.NoError(t, arr.Write([]int{1, 3}, rows, nil))

	stored := arr.Stored()
	assert.Equal(t, []float32{1, 0, 1}, stored.Data()[3:6], "row 1")
	assert.Equal(t, []float32{0, DontCare, 1}, stored.Data()[9:12], "row 3")

	// Untouched rows keep their pre-write state.
	assert.Equal(t, []float32{DontCare, DontCare, DontCare}, stored.Data()[0:3], "row 0")
	assert.Equal(t, []float32{DontCare, DontCare, DontCare}, stored.Data()[6:9], "row 2")

	// A noise-free exact query equal to a written row matches that row.
	q := fromRows(t, backend, 1, 3, []float32{1, 0, 1})
	res, err := arr.Match(q, Exact)
	require.NoError(t, err)
	assert.True(t, res.Matches.At(0, 1))
}

func TestWriteShapeMismatch(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Binary, 4, 3, backend)
	require.NoError(t, err)

	rows := fromRows(t, backend, 1, 2, []float32{1, 0})
	err = arr.Write([]int{0}, rows, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestWriteIndexOutOfRangeIsAtomic(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Binary, 2, 2, backend)
	require.NoError(t, err)

	before := arr.Stored().Data()

	rows := fromRows(t, backend, 2, 2, []float32{1, 1, 1, 1})
	err = arr.Write([]int{0, 5}, rows, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndex))

	// The valid index must not have been written either.
	assert.Equal(t, before, arr.Stored().Data(), "failed write must leave the array untouched")
}

func TestWriteDuplicateIndicesLastWins(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Binary, 2, 2, backend)
	require.NoError(t, err)

	rows := fromRows(t, backend, 2, 2, []float32{
		1, 1,
		0, 1,
	})
	require.NoError(t, arr.Write([]int{0, 0}, rows, nil))

	stored := arr.Stored()
	assert.Equal(t, float32(0), stored.At(0, 0))
	assert.Equal(t, float32(1), stored.At(0, 1))
}

func TestWriteAnalogProgramsPointIntervals(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Analog, 2, 2, backend)
	require.NoError(t, err)

	rows := fromRows(t, backend, 1, 2, []float32{1.5, -0.5})
	require.NoError(t, arr.Write([]int{1}, rows, nil))

	low, high, err := arr.Bounds()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), low.At(1, 0))
	assert.Equal(t, float32(1.5), high.At(1, 0))
	assert.Equal(t, float32(-0.5), low.At(1, 1))
	assert.Equal(t, float32(-0.5), high.At(1, 1))
}

func TestWriteBoundsRequiresAnalog(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Binary, 2, 2, backend)
	require.NoError(t, err)

	low := fromRows(t, backend, 1, 2, []float32{0, 0})
	high := fromRows(t, backend, 1, 2, []float32{1, 1})
	err = arr.WriteBounds([]int{0}, low, high, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVariant))
}

func TestWriteBoundsShapeMismatch(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Analog, 2, 2, backend)
	require.NoError(t, err)

	low := fromRows(t, backend, 1, 2, []float32{0, 0})
	high := fromRows(t, backend, 2, 2, []float32{1, 1, 1, 1})
	err = arr.WriteBounds([]int{0}, low, high, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestWriteWithQuantizationProfile(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Analog, 1, 5, backend)
	require.NoError(t, err)

	profile := &DeviceProfile{QuantLevels: 2}
	rows := fromRows(t, backend, 1, 5, []float32{0, 0.2, 0.5, 0.8, 1})
	require.NoError(t, arr.Write([]int{0}, rows, profile))

	// Two levels snap everything to the range endpoints.
	stored := arr.Stored().Data()
	assert.Equal(t, []float32{0, 0, 1, 1, 1}, stored)
}

func TestWriteQuantizationSkipsDigitalVariants(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Ternary, 1, 3, backend)
	require.NoError(t, err)

	profile := &DeviceProfile{QuantLevels: 2}
	rows := fromRows(t, backend, 1, 3, []float32{1, 0, DontCare})
	require.NoError(t, arr.Write([]int{0}, rows, profile))

	// Bits and the wildcard land untouched, so the row keeps matching
	// its own pattern.
	assert.Equal(t, []float32{1, 0, DontCare}, arr.Stored().Data())

	query := fromRows(t, backend, 1, 3, []float32{1, 0, 0})
	res, err := arr.Match(query, Exact)
	require.NoError(t, err)
	assert.True(t, res.Matches.At(0, 0))
}

func TestWriteWithStuckCellsIsDeterministic(t *testing.T) {
	backend := cpu.New()
	profile := &DeviceProfile{StuckAtRate: 0.5, StuckAtValue: 9, Seed: 11}

	writeOnce := func() []float32 {
		arr, err := NewArray(Binary, 8, 8, backend)
		require.NoError(t, err)
		rows := fromRows(t, backend, 8, 8, make([]float32, 64))
		require.NoError(t, arr.Write(indices(8), rows, profile))
		return arr.Stored().Data()
	}

	first := writeOnce()
	second := writeOnce()
	assert.Equal(t, first, second, "same profile seed, same stuck cells")

	stuck := 0
	for _, v := range first {
		if v == 9 {
			stuck++
		}
	}
	assert.Greater(t, stuck, 0, "a 0.5 stuck rate over 64 cells should hit something")
	assert.Less(t, stuck, 64, "and should not hit everything")
}

func TestWriteStuckCellsPersistAcrossWrites(t *testing.T) {
	backend := cpu.New()
	profile := &DeviceProfile{StuckAtRate: 0.5, StuckAtValue: 9, Seed: 11}

	arr, err := NewArray(Binary, 8, 8, backend)
	require.NoError(t, err)

	zeros := fromRows(t, backend, 8, 8, make([]float32, 64))
	require.NoError(t, arr.Write(indices(8), zeros, profile))
	first := arr.Stored().Data()

	require.NoError(t, arr.Write(indices(8), zeros, profile))
	assert.Equal(t, first, arr.Stored().Data(), "cached defect mask, same cells stuck")
}

func TestResetDefectsRegeneratesMask(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Binary, 8, 8, backend)
	require.NoError(t, err)

	zeros := fromRows(t, backend, 8, 8, make([]float32, 64))
	profileA := &DeviceProfile{StuckAtRate: 0.5, StuckAtValue: 9, Seed: 11}
	require.NoError(t, arr.Write(indices(8), zeros, profileA))
	first := arr.Stored().Data()

	arr.ResetDefects()
	profileB := &DeviceProfile{StuckAtRate: 0.5, StuckAtValue: 9, Seed: 12}
	require.NoError(t, arr.Write(indices(8), zeros, profileB))
	assert.NotEqual(t, first, arr.Stored().Data(), "a fresh seed describes a different device")
}

func TestWriteInvalidProfileRejected(t *testing.T) {
	backend := cpu.New()
	arr, err := NewArray(Binary, 2, 2, backend)
	require.NoError(t, err)

	rows := fromRows(t, backend, 1, 2, []float32{1, 0})
	err = arr.Write([]int{0}, rows, &DeviceProfile{StuckAtRate: 1.5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
