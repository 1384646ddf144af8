package cam

import (
	"fmt"
	"math/rand"

	"github.com/camsim-dev/camsim/internal/tensor"
)

// Non-ideality injector. Every function here is pure: inputs are never
// mutated in place, so the same call works on a query batch or on stored
// array values without aliasing hazards.

// Quantize maps continuous values onto `levels` uniformly spaced
// representable values over the tensor's own [min, max] range, rounding to
// the nearest level. Deterministic; idempotent, since the range endpoints
// are themselves levels.
func Quantize[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], levels int) (*tensor.Tensor[T, B], error) {
	if levels < 1 {
		return nil, fmt.Errorf("%w: quantization levels must be >= 1, got %d", ErrConfig, levels)
	}
	if !t.DType().IsFloat() {
		return nil, fmt.Errorf("%w: quantize requires a float tensor, got %s", ErrConfig, t.DType())
	}

	b := t.Backend()
	raw := t.Raw()
	n := raw.NumElements()
	if n == 0 {
		return t.Clone(), nil
	}

	flat := raw.WithShape(tensor.Shape{n})
	lo := scalarValue(b.MinDim(flat, 0, false))
	hi := scalarValue(b.MaxDim(flat, 0, false))

	if levels == 1 || hi == lo {
		if levels == 1 {
			return fullLike(t, lo), nil
		}
		return t.Clone(), nil
	}

	step := (hi - lo) / float64(levels-1)
	// round((x - lo) / step) * step + lo
	q := b.DivScalar(b.SubScalar(raw, lo), step)
	q = b.AddScalar(b.MulScalar(b.Round(q), step), lo)
	return tensor.New[T, B](q, b), nil
}

// ApplyNoise perturbs a tensor with the given stochastic model. All draws
// come from the caller-supplied generator; the same seed reproduces the
// same perturbation exactly.
func ApplyNoise[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], model NoiseModel, scale float64, rng *rand.Rand) (*tensor.Tensor[T, B], error) {
	if scale < 0 {
		return nil, fmt.Errorf("%w: noise scale must be >= 0, got %v", ErrConfig, scale)
	}
	if !model.valid() {
		return nil, fmt.Errorf("%w: unknown noise model %q", ErrConfig, model)
	}
	if !t.DType().IsFloat() {
		return nil, fmt.Errorf("%w: noise requires a float tensor, got %s", ErrConfig, t.DType())
	}

	b := t.Backend()
	raw := t.Raw()

	switch model {
	case NoiseNone:
		return t.Clone(), nil

	case NoiseGaussian:
		noise := b.RandNormal(raw.Shape(), 0, scale, raw.DType(), rng)
		return tensor.New[T, B](b.Add(raw, noise), b), nil

	case NoiseLognormal:
		factors := b.Exp(b.RandNormal(raw.Shape(), 0, scale, raw.DType(), rng))
		return tensor.New[T, B](b.Mul(raw, factors), b), nil

	case NoiseBitflip:
		if scale > 1 {
			return nil, fmt.Errorf("%w: bitflip probability must be in [0, 1], got %v", ErrConfig, scale)
		}
		flips := b.RandBernoulli(raw.Shape(), scale, rng)
		// Don't-care cells keep their wildcard role through programming noise.
		flippable := b.And(flips, b.NotEqual(raw, scalarRaw(b, raw.DType(), float64(DontCare))))
		inverted := b.SubScalar(b.MulScalar(raw, -1.0), -1.0) // 1 - x
		return tensor.New[T, B](b.Where(flippable, inverted, raw), b), nil

	default:
		return nil, fmt.Errorf("%w: unknown noise model %q", ErrConfig, model)
	}
}

// GenerateDefectMask draws an independent Bernoulli(stuckAtRate) mask per
// cell. The mask is fully determined by (shape, rate, seed), so the same
// simulated device always exhibits the same defects.
func GenerateDefectMask[B tensor.Backend](rows, columns int, stuckAtRate float64, seed int64, b B) (*tensor.Tensor[bool, B], error) {
	if rows < 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: invalid mask shape (%d, %d)", ErrShape, rows, columns)
	}
	if stuckAtRate < 0 || stuckAtRate > 1 {
		return nil, fmt.Errorf("%w: stuck_at_rate must be in [0, 1], got %v", ErrConfig, stuckAtRate)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // Deterministic seed is the point: defect masks must be regenerable.
	mask := b.RandBernoulli(tensor.Shape{rows, columns}, stuckAtRate, rng)
	return tensor.New[bool, B](mask, b), nil
}

// ApplyDefects overwrites cells where mask is true with stuckValue and
// passes all other cells through unchanged.
func ApplyDefects[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], mask *tensor.Tensor[bool, B], stuckValue T) (*tensor.Tensor[T, B], error) {
	if !t.Shape().Equal(mask.Shape()) {
		return nil, fmt.Errorf("%w: tensor shape %v does not match mask shape %v", ErrShape, t.Shape(), mask.Shape())
	}

	b := t.Backend()
	stuck := tensor.Full[T, B](t.Shape(), stuckValue, b)
	return tensor.New[T, B](b.Where(mask.Raw(), stuck.Raw(), t.Raw()), b), nil
}

// scalarValue reads the single element of a 0-D float tensor.
func scalarValue(r *tensor.RawTensor) float64 {
	switch r.DType() {
	case tensor.Float32:
		return float64(r.AsFloat32()[0])
	case tensor.Float64:
		return r.AsFloat64()[0]
	default:
		panic(fmt.Sprintf("scalar value: unsupported dtype %s", r.DType()))
	}
}

// scalarRaw builds a broadcastable single-element tensor of the given dtype.
func scalarRaw(b tensor.Backend, dtype tensor.DataType, v float64) *tensor.RawTensor {
	raw, err := tensor.NewRaw(tensor.Shape{1}, dtype, b.Device())
	if err != nil {
		panic(fmt.Sprintf("scalar raw: %v", err))
	}
	switch dtype {
	case tensor.Float32:
		raw.AsFloat32()[0] = float32(v)
	case tensor.Float64:
		raw.AsFloat64()[0] = v
	default:
		panic(fmt.Sprintf("scalar raw: unsupported dtype %s", dtype))
	}
	return raw
}

func fullLike[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], v float64) *tensor.Tensor[T, B] {
	b := t.Backend()
	out := tensor.Zeros[T, B](t.Shape(), b)
	raw := out.Raw()
	switch raw.DType() {
	case tensor.Float32:
		data := raw.AsFloat32()
		for i := range data {
			data[i] = float32(v)
		}
	case tensor.Float64:
		data := raw.AsFloat64()
		for i := range data {
			data[i] = v
		}
	}
	return out
}
