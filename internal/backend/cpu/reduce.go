package cpu

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Reductions along a single dimension. The reduced axis is decomposed as
// outer*n*inner so every kernel is a flat double loop over (outer, inner)
// pairs with stride inner along the reduced axis.

// reduceDims normalizes dim and returns (dim, outer, n, inner).
func reduceDims(name string, shape tensor.Shape, dim int) (int, int, int, int) {
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", name, dim, ndim))
	}

	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	return dim, outer, shape[dim], inner
}

// reducedShape computes the output shape after reducing dim.
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, d := range shape {
		if i != dim {
			out = append(out, d)
		}
	}
	return out
}

// SumDim sums tensor elements along the specified dimension.
// Supports negative indexing (-1 = last dim).
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	dim, outer, n, inner := reduceDims("sumdim", x.Shape(), dim)

	result, err := tensor.NewRaw(reducedShape(x.Shape(), dim, keepDim), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		sumDimFloat32(x.AsFloat32(), result.AsFloat32(), outer, n, inner)
	case tensor.Float64:
		sumDimFloat64(x.AsFloat64(), result.AsFloat64(), outer, n, inner)
	case tensor.Int64:
		sumDimInt64(x.AsInt64(), result.AsInt64(), outer, n, inner)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumDimFloat32(in, out []float32, outer, n, inner int) {
	parallel.ForRange(outer*inner, func(s, e int) {
		for oi := s; oi < e; oi++ {
			o, i := oi/inner, oi%inner
			base := o*n*inner + i
			var acc float32
			for k := 0; k < n; k++ {
				acc += in[base+k*inner]
			}
			out[oi] = acc
		}
	}, par)
}

func sumDimFloat64(in, out []float64, outer, n, inner int) {
	parallel.ForRange(outer*inner, func(s, e int) {
		for oi := s; oi < e; oi++ {
			o, i := oi/inner, oi%inner
			base := o*n*inner + i
			var acc float64
			for k := 0; k < n; k++ {
				acc += in[base+k*inner]
			}
			out[oi] = acc
		}
	}, par)
}

func sumDimInt64(in, out []int64, outer, n, inner int) {
	parallel.ForRange(outer*inner, func(s, e int) {
		for oi := s; oi < e; oi++ {
			o, i := oi/inner, oi%inner
			base := o*n*inner + i
			var acc int64
			for k := 0; k < n; k++ {
				acc += in[base+k*inner]
			}
			out[oi] = acc
		}
	}, par)
}

// MinDim takes the minimum along the specified dimension.
func (cpu *CPUBackend) MinDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.extremeDim("mindim", x, dim, keepDim, true)
}

// MaxDim takes the maximum along the specified dimension.
func (cpu *CPUBackend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.extremeDim("maxdim", x, dim, keepDim, false)
}

func (cpu *CPUBackend) extremeDim(name string, x *tensor.RawTensor, dim int, keepDim, wantMin bool) *tensor.RawTensor {
	dim, outer, n, inner := reduceDims(name, x.Shape(), dim)
	if n == 0 {
		panic(fmt.Sprintf("%s: cannot reduce an empty dimension", name))
	}

	result, err := tensor.NewRaw(reducedShape(x.Shape(), dim, keepDim), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		in, out := x.AsFloat32(), result.AsFloat32()
		parallel.ForRange(outer*inner, func(s, e int) {
			for oi := s; oi < e; oi++ {
				o, i := oi/inner, oi%inner
				base := o*n*inner + i
				best := in[base]
				for k := 1; k < n; k++ {
					v := in[base+k*inner]
					if (wantMin && v < best) || (!wantMin && v > best) {
						best = v
					}
				}
				out[oi] = best
			}
		}, par)
	case tensor.Float64:
		in, out := x.AsFloat64(), result.AsFloat64()
		parallel.ForRange(outer*inner, func(s, e int) {
			for oi := s; oi < e; oi++ {
				o, i := oi/inner, oi%inner
				base := o*n*inner + i
				best := in[base]
				for k := 1; k < n; k++ {
					v := in[base+k*inner]
					if (wantMin && v < best) || (!wantMin && v > best) {
						best = v
					}
				}
				out[oi] = best
			}
		}, par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

// ArgminDim returns the index of the minimum along the dimension (Int64).
func (cpu *CPUBackend) ArgminDim(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.argExtremeDim("argmindim", x, dim, true)
}

// ArgmaxDim returns the index of the maximum along the dimension (Int64).
func (cpu *CPUBackend) ArgmaxDim(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.argExtremeDim("argmaxdim", x, dim, false)
}

func (cpu *CPUBackend) argExtremeDim(name string, x *tensor.RawTensor, dim int, wantMin bool) *tensor.RawTensor {
	dim, outer, n, inner := reduceDims(name, x.Shape(), dim)
	if n == 0 {
		panic(fmt.Sprintf("%s: cannot reduce an empty dimension", name))
	}

	result, err := tensor.NewRaw(reducedShape(x.Shape(), dim, false), tensor.Int64, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	out := result.AsInt64()

	switch x.DType() {
	case tensor.Float32:
		in := x.AsFloat32()
		parallel.ForRange(outer*inner, func(s, e int) {
			for oi := s; oi < e; oi++ {
				o, i := oi/inner, oi%inner
				base := o*n*inner + i
				best, bestIdx := in[base], int64(0)
				for k := 1; k < n; k++ {
					v := in[base+k*inner]
					if (wantMin && v < best) || (!wantMin && v > best) {
						best, bestIdx = v, int64(k)
					}
				}
				out[oi] = bestIdx
			}
		}, par)
	case tensor.Float64:
		in := x.AsFloat64()
		parallel.ForRange(outer*inner, func(s, e int) {
			for oi := s; oi < e; oi++ {
				o, i := oi/inner, oi%inner
				base := o*n*inner + i
				best, bestIdx := in[base], int64(0)
				for k := 1; k < n; k++ {
					v := in[base+k*inner]
					if (wantMin && v < best) || (!wantMin && v > best) {
						best, bestIdx = v, int64(k)
					}
				}
				out[oi] = bestIdx
			}
		}, par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

// AllDim reduces a bool tensor with logical AND along the dimension.
// An empty dimension reduces to true (vacuous truth).
func (cpu *CPUBackend) AllDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.boolReduceDim("alldim", x, dim, keepDim, true)
}

// AnyDim reduces a bool tensor with logical OR along the dimension.
// An empty dimension reduces to false.
func (cpu *CPUBackend) AnyDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.boolReduceDim("anydim", x, dim, keepDim, false)
}

func (cpu *CPUBackend) boolReduceDim(name string, x *tensor.RawTensor, dim int, keepDim, all bool) *tensor.RawTensor {
	if x.DType() != tensor.Bool {
		panic(fmt.Sprintf("%s: tensor must be bool dtype", name))
	}

	dim, outer, n, inner := reduceDims(name, x.Shape(), dim)

	result, err := tensor.NewRaw(reducedShape(x.Shape(), dim, keepDim), tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	in, out := x.AsBool(), result.AsBool()
	parallel.ForRange(outer*inner, func(s, e int) {
		for oi := s; oi < e; oi++ {
			o, i := oi/inner, oi%inner
			base := o*n*inner + i
			acc := all
			for k := 0; k < n; k++ {
				v := in[base+k*inner]
				if all {
					acc = acc && v
					if !acc {
						break
					}
				} else {
					acc = acc || v
					if acc {
						break
					}
				}
			}
			out[oi] = acc
		}
	}, par)

	return result
}
