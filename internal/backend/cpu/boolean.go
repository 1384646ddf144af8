package cpu

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Boolean operations: element-wise on bool tensors, with broadcasting.

// And computes element-wise logical AND.
func (cpu *CPUBackend) And(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.boolOp("and", a, b, func(x, y bool) bool { return x && y })
}

// Or computes element-wise logical OR.
func (cpu *CPUBackend) Or(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.boolOp("or", a, b, func(x, y bool) bool { return x || y })
}

// Xor computes element-wise logical XOR.
func (cpu *CPUBackend) Xor(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.boolOp("xor", a, b, func(x, y bool) bool { return x != y })
}

// Not computes element-wise logical NOT.
func (cpu *CPUBackend) Not(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Bool {
		panic("not: tensor must be bool dtype")
	}

	result, err := tensor.NewRaw(x.Shape(), tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("not: %v", err))
	}

	in, out := x.AsBool(), result.AsBool()
	parallel.ForRange(len(in), func(s, e int) {
		for i := s; i < e; i++ {
			out[i] = !in[i]
		}
	}, par)

	return result
}

func (cpu *CPUBackend) boolOp(name string, a, b *tensor.RawTensor, f func(x, y bool) bool) *tensor.RawTensor {
	if a.DType() != tensor.Bool || b.DType() != tensor.Bool {
		panic(fmt.Sprintf("%s: both tensors must be bool dtype", name))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	av, bv, out := a.AsBool(), b.AsBool(), result.AsBool()

	if a.Shape().Equal(b.Shape()) {
		parallel.ForRange(len(av), func(s, e int) {
			for i := s; i < e; i++ {
				out[i] = f(av[i], bv[i])
			}
		}, par)
		return result
	}

	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(a.Shape(), outShape)
	bStrides := computeBroadcastStridesForShape(b.Shape(), outShape)
	parallel.ForRange(len(out), func(s, e int) {
		for i := s; i < e; i++ {
			out[i] = f(av[computeFlatIndex(i, outStrides, aStrides)], bv[computeFlatIndex(i, outStrides, bStrides)])
		}
	}, par)

	return result
}
