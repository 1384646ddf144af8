package cpu

import (
	"github.com/camsim-dev/camsim/internal/tensor"
)

// computeBroadcastStridesForShape returns strides for reading inShape as if
// it had outShape. Stretched axes (size 1 or left-padded) get stride 0 so
// the same element is revisited across the axis.
func computeBroadcastStridesForShape(inShape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	in := inShape.ComputeStrides()

	pad := len(outShape) - len(inShape)
	for i := pad; i < len(outShape); i++ {
		if d := inShape[i-pad]; d != 1 {
			strides[i] = in[i-pad]
		}
	}
	return strides
}

// computeFlatIndex converts a flat index in the output layout to the flat
// index of the corresponding source element under broadcast strides.
func computeFlatIndex(outIdx int, outStrides, inStrides []int) int {
	flat := 0
	for i, os := range outStrides {
		flat += (outIdx / os) * inStrides[i]
		outIdx %= os
	}
	return flat
}
