package cpu

import (
	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Float64 vectorized kernels (same-shape fast path).

func addVectorizedFloat64(dst, a, b []float64) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] + b[i]
		}
	}, par)
}

func subVectorizedFloat64(dst, a, b []float64) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] - b[i]
		}
	}, par)
}

func mulVectorizedFloat64(dst, a, b []float64) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] * b[i]
		}
	}, par)
}

func divVectorizedFloat64(dst, a, b []float64) {
	parallel.ForRange(len(a), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[i] / b[i]
		}
	}, par)
}

// Float64 broadcasting kernels.

func addBroadcastFloat64(dst, a, b []float64, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] + b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func subBroadcastFloat64(dst, a, b []float64, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] - b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func mulBroadcastFloat64(dst, a, b []float64, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] * b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}

func divBroadcastFloat64(dst, a, b []float64, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] / b[computeFlatIndex(i, outStrides, bStrides)]
		}
	}, par)
}
