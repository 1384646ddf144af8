// Package cpu implements the host-vectorized compute backend.
//
// Operations take a flat-loop fast path when operand shapes already agree
// and fall back to stride-computed broadcasting otherwise. Large kernels
// are chunked across goroutines via internal/parallel.
package cpu

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// par controls goroutine chunking for the flat-loop kernels.
var par = parallel.DefaultConfig()

// CPUBackend implements tensor.Backend on the host CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, addKernels)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, subKernels)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, mulKernels)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b, divKernels)
}

// binaryKernels bundles the per-dtype implementations of one elementwise op.
type binaryKernels struct {
	f32 func(dst, a, b []float32)
	f64 func(dst, a, b []float64)
	i64 func(dst, a, b []int64)

	f32Broadcast func(dst, a, b []float32, aShape, bShape, outShape tensor.Shape)
	f64Broadcast func(dst, a, b []float64, aShape, bShape, outShape tensor.Shape)
	i64Broadcast func(dst, a, b []int64, aShape, bShape, outShape tensor.Shape)
}

func (cpu *CPUBackend) binaryOp(name string, a, b *tensor.RawTensor, k binaryKernels) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	fastPath := a.Shape().Equal(b.Shape())

	switch a.DType() {
	case tensor.Float32:
		if fastPath {
			k.f32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
		} else {
			k.f32Broadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape)
		}
	case tensor.Float64:
		if fastPath {
			k.f64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
		} else {
			k.f64Broadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape)
		}
	case tensor.Int64:
		if fastPath {
			k.i64(result.AsInt64(), a.AsInt64(), b.AsInt64())
		} else {
			k.i64Broadcast(result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}
