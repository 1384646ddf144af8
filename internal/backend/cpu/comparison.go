package cpu

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Comparison operations: element-wise with broadcasting, bool results.

// Greater returns a > b element-wise.
func (cpu *CPUBackend) Greater(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("greater", a, b,
		func(x, y float32) bool { return x > y },
		func(x, y float64) bool { return x > y })
}

// Lower returns a < b element-wise.
func (cpu *CPUBackend) Lower(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("lower", a, b,
		func(x, y float32) bool { return x < y },
		func(x, y float64) bool { return x < y })
}

// GreaterEqual returns a >= b element-wise.
func (cpu *CPUBackend) GreaterEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("greaterEqual", a, b,
		func(x, y float32) bool { return x >= y },
		func(x, y float64) bool { return x >= y })
}

// LowerEqual returns a <= b element-wise.
func (cpu *CPUBackend) LowerEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("lowerEqual", a, b,
		func(x, y float32) bool { return x <= y },
		func(x, y float64) bool { return x <= y })
}

// Equal returns a == b element-wise.
// NaN compares unequal to everything, including itself.
func (cpu *CPUBackend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("equal", a, b,
		func(x, y float32) bool { return x == y },
		func(x, y float64) bool { return x == y })
}

// NotEqual returns a != b element-wise.
func (cpu *CPUBackend) NotEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("notEqual", a, b,
		func(x, y float32) bool { return x != y },
		func(x, y float64) bool { return x != y })
}

func (cpu *CPUBackend) compareOp(name string, a, b *tensor.RawTensor,
	f32 func(x, y float32) bool, f64 func(x, y float64) bool) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	out := result.AsBool()
	fastPath := a.Shape().Equal(b.Shape())

	switch a.DType() {
	case tensor.Float32:
		av, bv := a.AsFloat32(), b.AsFloat32()
		if fastPath {
			parallel.ForRange(len(av), func(s, e int) {
				for i := s; i < e; i++ {
					out[i] = f32(av[i], bv[i])
				}
			}, par)
		} else {
			outStrides := outShape.ComputeStrides()
			aStrides := computeBroadcastStridesForShape(a.Shape(), outShape)
			bStrides := computeBroadcastStridesForShape(b.Shape(), outShape)
			parallel.ForRange(len(out), func(s, e int) {
				for i := s; i < e; i++ {
					out[i] = f32(av[computeFlatIndex(i, outStrides, aStrides)], bv[computeFlatIndex(i, outStrides, bStrides)])
				}
			}, par)
		}
	case tensor.Float64:
		av, bv := a.AsFloat64(), b.AsFloat64()
		if fastPath {
			parallel.ForRange(len(av), func(s, e int) {
				for i := s; i < e; i++ {
					out[i] = f64(av[i], bv[i])
				}
			}, par)
		} else {
			outStrides := outShape.ComputeStrides()
			aStrides := computeBroadcastStridesForShape(a.Shape(), outShape)
			bStrides := computeBroadcastStridesForShape(b.Shape(), outShape)
			parallel.ForRange(len(out), func(s, e int) {
				for i := s; i < e; i++ {
					out[i] = f64(av[computeFlatIndex(i, outStrides, aStrides)], bv[computeFlatIndex(i, outStrides, bStrides)])
				}
			}, par)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}
