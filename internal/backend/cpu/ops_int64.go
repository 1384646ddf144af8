package cpu

import (
	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Int64 vectorized kernels (same-shape fast path).

func addVectorizedInt64(dst, a, b []int64) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] + b[i]
		}
	}, par)
}

func subVectorizedInt64(dst, a, b []int64) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] - b[i]
		}
	}, par)
}

func mulVectorizedInt64(dst, a, b []int64) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] * b[i]
		}
	}, par)
}

func divVectorizedInt64(dst, a, b []int64) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] / b[i]
		}
	}, par)
}

// Int64 broadcasting kernels.

func addBroadcastInt64(dst, a, b []int64, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] + b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func subBroadcastInt64(dst, a, b []int64, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] - b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func mulBroadcastInt64(dst, a, b []int64, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] * b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func divBroadcastInt64(dst, a, b []int64, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] / b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

// Kernel tables used by the binaryOp dispatcher.

var addKernels = binaryKernels{
	f32: addVectorizedFloat32, f64: addVectorizedFloat64, i64: addVectorizedInt64,
	f32Broadcast: addBroadcastFloat32, f64Broadcast: addBroadcastFloat64, i64Broadcast: addBroadcastInt64,
}

var subKernels = binaryKernels{
	f32: subVectorizedFloat32, f64: subVectorizedFloat64, i64: subVectorizedInt64,
	f32Broadcast: subBroadcastFloat32, f64Broadcast: subBroadcastFloat64, i64Broadcast: subBroadcastInt64,
}

var mulKernels = binaryKernels{
	f32: mulVectorizedFloat32, f64: mulVectorizedFloat64, i64: mulVectorizedInt64,
	f32Broadcast: mulBroadcastFloat32, f64Broadcast: mulBroadcastFloat64, i64Broadcast: mulBroadcastInt64,
}

var divKernels = binaryKernels{
	f32: divVectorizedFloat32, f64: divVectorizedFloat64, i64: divVectorizedInt64,
	f32Broadcast: divBroadcastFloat32, f64Broadcast: divBroadcastFloat64, i64Broadcast: divBroadcastInt64,
}
