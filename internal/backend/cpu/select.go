package cpu

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/parallel"
	"github.com/camsim-dev/camsim/internal/tensor"
)

// Where selects elements from x where condition is true, otherwise from y.
// All three operands broadcast against each other; the result dtype follows x.
func (cpu *CPUBackend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic("where: condition must be bool dtype")
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("where: dtype mismatch: %s vs %s", x.DType(), y.DType()))
	}

	pairShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("where: %v", err))
	}
	outShape, _, err := tensor.BroadcastShapes(condition.Shape(), pairShape)
	if err != nil {
		panic(fmt.Sprintf("where: %v", err))
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("where: %v", err))
	}

	outStrides := outShape.ComputeStrides()
	cStrides := computeBroadcastStridesForShape(condition.Shape(), outShape)
	xStrides := computeBroadcastStridesForShape(x.Shape(), outShape)
	yStrides := computeBroadcastStridesForShape(y.Shape(), outShape)
	cond := condition.AsBool()
	n := outShape.NumElements()

	switch x.DType() {
	case tensor.Float32:
		xv, yv, out := x.AsFloat32(), y.AsFloat32(), result.AsFloat32()
		parallel.ForRange(n, func(s, e int) {
			for i := s; i < e; i++ {
				if cond[computeFlatIndex(i, outStrides, cStrides)] {
					out[i] = xv[computeFlatIndex(i, outStrides, xStrides)]
				} else {
					out[i] = yv[computeFlatIndex(i, outStrides, yStrides)]
				}
			}
		}, par)
	case tensor.Float64:
		xv, yv, out := x.AsFloat64(), y.AsFloat64(), result.AsFloat64()
		parallel.ForRange(n, func(s, e int) {
			for i := s; i < e; i++ {
				if cond[computeFlatIndex(i, outStrides, cStrides)] {
					out[i] = xv[computeFlatIndex(i, outStrides, xStrides)]
				} else {
					out[i] = yv[computeFlatIndex(i, outStrides, yStrides)]
				}
			}
		}, par)
	case tensor.Int64:
		xv, yv, out := x.AsInt64(), y.AsInt64(), result.AsInt64()
		parallel.ForRange(n, func(s, e int) {
			for i := s; i < e; i++ {
				if cond[computeFlatIndex(i, outStrides, cStrides)] {
					out[i] = xv[computeFlatIndex(i, outStrides, xStrides)]
				} else {
					out[i] = yv[computeFlatIndex(i, outStrides, yStrides)]
				}
			}
		}, par)
	case tensor.Bool:
		xv, yv, out := x.AsBool(), y.AsBool(), result.AsBool()
		parallel.ForRange(n, func(s, e int) {
			for i := s; i < e; i++ {
				if cond[computeFlatIndex(i, outStrides, cStrides)] {
					out[i] = xv[computeFlatIndex(i, outStrides, xStrides)]
				} else {
					out[i] = yv[computeFlatIndex(i, outStrides, yStrides)]
				}
			}
		}, par)
	default:
		panic(fmt.Sprintf("where: unsupported dtype %s", x.DType()))
	}

	return result
}

// Cast converts a tensor to a different data type.
// Numeric casts go through float64; bool maps false/true to 0/1 and back via
// non-zero.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.DeepClone()
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}

	n := x.NumElements()
	read := castReader(x)
	write := castWriter(result)
	for i := 0; i < n; i++ {
		write(i, read(i))
	}

	return result
}

func castReader(x *tensor.RawTensor) func(i int) float64 {
	switch x.DType() {
	case tensor.Float32:
		v := x.AsFloat32()
		return func(i int) float64 { return float64(v[i]) }
	case tensor.Float64:
		v := x.AsFloat64()
		return func(i int) float64 { return v[i] }
	case tensor.Int32:
		v := x.AsInt32()
		return func(i int) float64 { return float64(v[i]) }
	case tensor.Int64:
		v := x.AsInt64()
		return func(i int) float64 { return float64(v[i]) }
	case tensor.Uint8:
		v := x.AsUint8()
		return func(i int) float64 { return float64(v[i]) }
	case tensor.Bool:
		v := x.AsBool()
		return func(i int) float64 {
			if v[i] {
				return 1
			}
			return 0
		}
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}
}

func castWriter(r *tensor.RawTensor) func(i int, v float64) {
	switch r.DType() {
	case tensor.Float32:
		out := r.AsFloat32()
		return func(i int, v float64) { out[i] = float32(v) }
	case tensor.Float64:
		out := r.AsFloat64()
		return func(i int, v float64) { out[i] = v }
	case tensor.Int32:
		out := r.AsInt32()
		return func(i int, v float64) { out[i] = int32(v) }
	case tensor.Int64:
		out := r.AsInt64()
		return func(i int, v float64) { out[i] = int64(v) }
	case tensor.Uint8:
		out := r.AsUint8()
		return func(i int, v float64) { out[i] = uint8(v) }
	case tensor.Bool:
		out := r.AsBool()
		return func(i int, v float64) { out[i] = v != 0 }
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", r.DType()))
	}
}
