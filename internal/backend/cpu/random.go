package cpu

import (
	"fmt"
	"math/rand"

	"github.com/camsim-dev/camsim/internal/tensor"
)

// Random sampling. Every draw comes from the caller-supplied generator, so
// two calls with identically seeded generators produce identical tensors.
// Draw order is row-major; these kernels intentionally stay sequential.

// RandUniform fills a tensor with uniform samples from [0, 1).
func (cpu *CPUBackend) RandUniform(shape tensor.Shape, dtype tensor.DataType, rng *rand.Rand) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("randuniform: %v", err))
	}

	switch dtype {
	case tensor.Float32:
		out := result.AsFloat32()
		for i := range out {
			out[i] = float32(rng.Float64())
		}
	case tensor.Float64:
		out := result.AsFloat64()
		for i := range out {
			out[i] = rng.Float64()
		}
	default:
		panic(fmt.Sprintf("randuniform: unsupported dtype %s", dtype))
	}

	return result
}

// RandNormal fills a tensor with samples from N(mean, std²).
func (cpu *CPUBackend) RandNormal(shape tensor.Shape, mean, std float64, dtype tensor.DataType, rng *rand.Rand) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("randnormal: %v", err))
	}

	switch dtype {
	case tensor.Float32:
		out := result.AsFloat32()
		for i := range out {
			out[i] = float32(rng.NormFloat64()*std + mean)
		}
	case tensor.Float64:
		out := result.AsFloat64()
		for i := range out {
			out[i] = rng.NormFloat64()*std + mean
		}
	default:
		panic(fmt.Sprintf("randnormal: unsupported dtype %s", dtype))
	}

	return result
}

// RandBernoulli fills a bool tensor with independent Bernoulli(p) draws.
func (cpu *CPUBackend) RandBernoulli(shape tensor.Shape, p float64, rng *rand.Rand) *tensor.RawTensor {
	if p < 0 || p > 1 {
		panic(fmt.Sprintf("randbernoulli: probability %v outside [0, 1]", p))
	}

	result, err := tensor.NewRaw(shape, tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("randbernoulli: %v", err))
	}

	out := result.AsBool()
	for i := range out {
		out[i] = rng.Float64() < p
	}

	return result
}
