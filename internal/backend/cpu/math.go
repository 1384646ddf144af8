package cpu

import (
	"fmt"
	"math"

	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Unary element-wise math operations.

// Abs returns the element-wise absolute value.
func (cpu *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("abs", x, math.Abs)
}

// Exp returns the element-wise exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("exp", x, math.Exp)
}

// Sqrt returns the element-wise square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("sqrt", x, math.Sqrt)
}

// Round rounds every element to the nearest integer, halves away from zero.
func (cpu *CPUBackend) Round(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("round", x, math.Round)
}

func (cpu *CPUBackend) unaryOp(name string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		in, out := x.AsFloat32(), result.AsFloat32()
		parallel.ForRange(len(in), func(s, e int) {
			for i := s; i < e; i++ {
				out[i] = float32(f(float64(in[i])))
			}
		}, par)
	case tensor.Float64:
		in, out := x.AsFloat64(), result.AsFloat64()
		parallel.ForRange(len(in), func(s, e int) {
			for i := s; i < e; i++ {
				out[i] = f(in[i])
			}
		}, par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}
