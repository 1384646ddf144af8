package cpu

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/tensor"
)

// Shape manipulation. These kernels move whole elements, so they are
// written once over raw bytes instead of per dtype.

// Expand broadcasts a tensor to a larger shape, materializing the result.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), shape)
	if err != nil || !outShape.Equal(shape) {
		panic(fmt.Sprintf("expand: cannot broadcast %v to %v", x.Shape(), shape))
	}

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}

	elem := x.DType().Size()
	outStrides := shape.ComputeStrides()
	inStrides := computeBroadcastStridesForShape(x.Shape(), shape)

	in, out := x.Data(), result.Data()
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		src := computeFlatIndex(i, outStrides, inStrides) * elem
		copy(out[i*elem:(i+1)*elem], in[src:src+elem])
	}

	return result
}

// Unsqueeze adds a dimension of size 1 at the given position (zero-copy view).
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	return x.WithShape(newShape)
}

// Squeeze removes a dimension of size 1 at the given position (zero-copy view).
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)

	return x.WithShape(newShape)
}

// Stack joins same-shape tensors along a new dimension.
//
// Example:
//
//	a, b := …(2, 3)…
//	s := backend.Stack([]*RawTensor{a, b}, 0) // Shape: [2, 2, 3]
func (cpu *CPUBackend) Stack(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("stack: at least one tensor required")
	}

	shape := tensors[0].Shape()
	dtype := tensors[0].DType()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("stack: dimension %d out of range for %dD tensors", dim, ndim))
	}

	for i, t := range tensors {
		if !t.Shape().Equal(shape) {
			panic(fmt.Sprintf("stack: tensor %d has shape %v, expected %v", i, t.Shape(), shape))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("stack: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
	}

	outShape := make(tensor.Shape, 0, ndim+1)
	outShape = append(outShape, shape[:dim]...)
	outShape = append(outShape, len(tensors))
	outShape = append(outShape, shape[dim:]...)

	result, err := tensor.NewRaw(outShape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("stack: %v", err))
	}

	elem := dtype.Size()
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	blockBytes := shape.NumElements() / max(outer, 1) * elem

	out := result.Data()
	pos := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			src := t.Data()[o*blockBytes : (o+1)*blockBytes]
			copy(out[pos:pos+blockBytes], src)
			pos += blockBytes
		}
	}

	return result
}

// Chunk splits a tensor into n equal parts along the given dimension.
func (cpu *CPUBackend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("chunk: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if n <= 0 || shape[dim]%n != 0 {
		panic(fmt.Sprintf("chunk: dimension of size %d not divisible into %d parts", shape[dim], n))
	}

	partDim := shape[dim] / n
	partShape := shape.Clone()
	partShape[dim] = partDim

	elem := x.DType().Size()
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	innerBytes := elem
	for i := dim + 1; i < ndim; i++ {
		innerBytes *= shape[i]
	}

	in := x.Data()
	parts := make([]*tensor.RawTensor, n)
	for j := 0; j < n; j++ {
		part, err := tensor.NewRaw(partShape, x.DType(), cpu.device)
		if err != nil {
			panic(fmt.Sprintf("chunk: %v", err))
		}
		out := part.Data()
		partBytes := partDim * innerBytes
		for o := 0; o < outer; o++ {
			src := o*shape[dim]*innerBytes + j*partBytes
			copy(out[o*partBytes:(o+1)*partBytes], in[src:src+partBytes])
		}
		parts[j] = part
	}

	return parts
}
