package cpu

import (
	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Float32 vectorized kernels (same-shape fast path).

func addVectorizedFloat32(dst, a, b []float32) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] + b[i]
		}
	}, par)
}

func subVectorizedFloat32(dst, a, b []float32) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] - b[i]
		}
	}, par)
}

func mulVectorizedFloat32(dst, a, b []float32) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] * b[i]
		}
	}, par)
}

func divVectorizedFloat32(dst, a, b []float32) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] / b[i]
		}
	}, par)
}

// Float32 broadcasting kernels.

func addBroadcastFloat32(dst, a, b []float32, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] + b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func subBroadcastFloat32(dst, a, b []float32, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] - b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func mulBroadcastFloat32(dst, a, b []float32, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] * b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func divBroadcastFloat32(dst, a, b []float32, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] / b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}
