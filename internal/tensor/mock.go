package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// AddScalar adds a scalar to every element.
func (m *MockBackend) AddScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64Scalar(scalar)
	return m.unary(x, func(v float64) float64 { return v + s })
}

// SubScalar subtracts a scalar from every element.
func (m *MockBackend) SubScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64Scalar(scalar)
	return m.unary(x, func(v float64) float64 { return v - s })
}

// MulScalar multiplies every element by a scalar.
func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64Scalar(scalar)
	return m.unary(x, func(v float64) float64 { return v * s })
}

// DivScalar divides every element by a scalar.
func (m *MockBackend) DivScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64Scalar(scalar)
	return m.unary(x, func(v float64) float64 { return v / s })
}

// Abs returns the element-wise absolute value.
func (m *MockBackend) Abs(x *RawTensor) *RawTensor {
	return m.unary(x, math.Abs)
}

// Exp returns the element-wise exponential.
func (m *MockBackend) Exp(x *RawTensor) *RawTensor {
	return m.unary(x, math.Exp)
}

// Sqrt returns the element-wise square root.
func (m *MockBackend) Sqrt(x *RawTensor) *RawTensor {
	return m.unary(x, math.Sqrt)
}

// Round rounds every element to the nearest integer.
func (m *MockBackend) Round(x *RawTensor) *RawTensor {
	return m.unary(x, math.Round)
}

// Greater compares element-wise, returning a bool tensor.
func (m *MockBackend) Greater(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x > y })
}

// Lower compares element-wise, returning a bool tensor.
func (m *MockBackend) Lower(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x < y })
}

// GreaterEqual compares element-wise, returning a bool tensor.
func (m *MockBackend) GreaterEqual(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x >= y })
}

// LowerEqual compares element-wise, returning a bool tensor.
func (m *MockBackend) LowerEqual(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x <= y })
}

// Equal compares element-wise, returning a bool tensor.
func (m *MockBackend) Equal(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x == y })
}

// NotEqual compares element-wise, returning a bool tensor.
func (m *MockBackend) NotEqual(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x != y })
}

// And performs element-wise logical and.
func (m *MockBackend) And(a, b *RawTensor) *RawTensor {
	return m.boolWise(a, b, func(x, y bool) bool { return x && y })
}

// Or performs element-wise logical or.
func (m *MockBackend) Or(a, b *RawTensor) *RawTensor {
	return m.boolWise(a, b, func(x, y bool) bool { return x || y })
}

// Xor performs element-wise logical xor.
func (m *MockBackend) Xor(a, b *RawTensor) *RawTensor {
	return m.boolWise(a, b, func(x, y bool) bool { return x != y })
}

// Not performs element-wise logical negation.
func (m *MockBackend) Not(x *RawTensor) *RawTensor {
	result, err := NewRaw(x.Shape(), Bool, m.Device())
	if err != nil {
		panic(err)
	}
	src := x.AsBool()
	dst := result.AsBool()
	for i, v := range src {
		dst[i] = !v
	}
	return result
}

// SumDim sums along a dimension.
func (m *MockBackend) SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.reduce(x, dim, keepDim, 0, func(acc, v float64) float64 { return acc + v })
}

// MinDim takes the minimum along a dimension.
func (m *MockBackend) MinDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.reduce(x, dim, keepDim, math.Inf(1), math.Min)
}

// MaxDim takes the maximum along a dimension.
func (m *MockBackend) MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.reduce(x, dim, keepDim, math.Inf(-1), math.Max)
}

// ArgminDim returns the index of the minimum along a dimension.
func (m *MockBackend) ArgminDim(x *RawTensor, dim int) *RawTensor {
	return m.argReduce(x, dim, func(v, best float64) bool { return v < best })
}

// ArgmaxDim returns the index of the maximum along a dimension.
func (m *MockBackend) ArgmaxDim(x *RawTensor, dim int) *RawTensor {
	return m.argReduce(x, dim, func(v, best float64) bool { return v > best })
}

// AllDim reduces a bool tensor with logical and along a dimension.
func (m *MockBackend) AllDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.boolReduce(x, dim, keepDim, true, func(acc, v bool) bool { return acc && v })
}

// AnyDim reduces a bool tensor with logical or along a dimension.
func (m *MockBackend) AnyDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.boolReduce(x, dim, keepDim, false, func(acc, v bool) bool { return acc || v })
}

// Where selects elements from x where the condition is true, otherwise y.
func (m *MockBackend) Where(condition, x, y *RawTensor) *RawTensor {
	outShape, _, err := BroadcastShapes(condition.Shape(), x.Shape())
	if err != nil {
		panic(err)
	}
	outShape, _, err = BroadcastShapes(outShape, y.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, x.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	cond := condition.AsBool()
	xData := m.toFloat64Slice(x)
	yData := m.toFloat64Slice(y)
	resultData := make([]float64, outShape.NumElements())
	for i := range resultData {
		cIdx := m.broadcastIndex(i, outShape, condition.Shape())
		if cond[cIdx] {
			resultData[i] = xData[m.broadcastIndex(i, outShape, x.Shape())]
		} else {
			resultData[i] = yData[m.broadcastIndex(i, outShape, y.Shape())]
		}
	}
	m.fromFloat64Slice(resultData, result)
	return result
}

// Expand broadcasts a tensor to a larger shape, materializing the copies.
func (m *MockBackend) Expand(x *RawTensor, shape Shape) *RawTensor {
	result, err := NewRaw(shape, x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	src := m.toFloat64Slice(x)
	dst := make([]float64, shape.NumElements())
	for i := range dst {
		dst[i] = src[m.broadcastIndex(i, shape, x.Shape())]
	}
	m.fromFloat64Slice(dst, result)
	return result
}

// Unsqueeze inserts a size-1 dimension at dim.
func (m *MockBackend) Unsqueeze(x *RawTensor, dim int) *RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim = len(shape) + 1 + dim
	}
	newShape := make(Shape, 0, len(shape)+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return x.WithShape(newShape)
}

// Squeeze removes a size-1 dimension at dim.
func (m *MockBackend) Squeeze(x *RawTensor, dim int) *RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim = len(shape) + dim
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("cannot squeeze dimension %d of shape %v", dim, shape))
	}
	newShape := make(Shape, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	return x.WithShape(newShape)
}

// Stack joins tensors along a new dimension.
func (m *MockBackend) Stack(tensors []*RawTensor, dim int) *RawTensor {
	if len(tensors) == 0 {
		panic("stack of zero tensors")
	}
	if dim != 0 {
		panic("mock backend only stacks along dim 0")
	}
	base := tensors[0]
	outShape := append(Shape{len(tensors)}, base.Shape()...)
	result, err := NewRaw(outShape, base.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	chunk := base.ByteSize()
	for i, t := range tensors {
		if !t.Shape().Equal(base.Shape()) {
			panic("stack of mismatched shapes")
		}
		copy(result.Data()[i*chunk:], t.Data()[:chunk])
	}
	return result
}

// Chunk splits a tensor into n equal parts along dim.
func (m *MockBackend) Chunk(x *RawTensor, n, dim int) []*RawTensor {
	if dim != 0 {
		panic("mock backend only chunks along dim 0")
	}
	shape := x.Shape()
	if shape[0]%n != 0 {
		panic(fmt.Sprintf("cannot chunk dimension of size %d into %d parts", shape[0], n))
	}
	partShape := shape.Clone()
	partShape[0] = shape[0] / n
	partBytes := partShape.NumElements() * x.DType().Size()
	parts := make([]*RawTensor, n)
	for i := range parts {
		part, err := NewRaw(partShape, x.DType(), m.Device())
		if err != nil {
			panic(err)
		}
		copy(part.Data(), x.Data()[i*partBytes:(i+1)*partBytes])
		parts[i] = part
	}
	return parts
}

// Cast converts a tensor to another dtype.
func (m *MockBackend) Cast(x *RawTensor, dtype DataType) *RawTensor {
	result, err := NewRaw(x.Shape(), dtype, m.Device())
	if err != nil {
		panic(err)
	}
	m.fromFloat64Slice(m.toFloat64Slice(x), result)
	return result
}

// RandUniform fills a tensor with uniform samples in [0, 1).
func (m *MockBackend) RandUniform(shape Shape, dtype DataType, rng *rand.Rand) *RawTensor {
	result, err := NewRaw(shape, dtype, m.Device())
	if err != nil {
		panic(err)
	}
	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = rng.Float64()
	}
	m.fromFloat64Slice(data, result)
	return result
}

// RandNormal fills a tensor with normal samples.
func (m *MockBackend) RandNormal(shape Shape, mean, std float64, dtype DataType, rng *rand.Rand) *RawTensor {
	result, err := NewRaw(shape, dtype, m.Device())
	if err != nil {
		panic(err)
	}
	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = rng.NormFloat64()*std + mean
	}
	m.fromFloat64Slice(data, result)
	return result
}

// RandBernoulli fills a bool tensor with Bernoulli(p) samples.
func (m *MockBackend) RandBernoulli(shape Shape, p float64, rng *rand.Rand) *RawTensor {
	result, err := NewRaw(shape, Bool, m.Device())
	if err != nil {
		panic(err)
	}
	data := result.AsBool()
	for i := range data {
		data[i] = rng.Float64() < p
	}
	return result
}

// elementWise performs element-wise operations with broadcasting.
func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	resultData := make([]float64, outShape.NumElements())
	for i := range resultData {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())
		resultData[i] = op(aData[aIdx], bData[bIdx])
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

func (m *MockBackend) unary(x *RawTensor, op func(float64) float64) *RawTensor {
	result, err := NewRaw(x.Shape(), x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	src := m.toFloat64Slice(x)
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = op(v)
	}
	m.fromFloat64Slice(dst, result)
	return result
}

func (m *MockBackend) compare(a, b *RawTensor, pred func(float64, float64) bool) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}
	result, err := NewRaw(outShape, Bool, m.Device())
	if err != nil {
		panic(err)
	}
	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	dst := result.AsBool()
	for i := range dst {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())
		dst[i] = pred(aData[aIdx], bData[bIdx])
	}
	return result
}

func (m *MockBackend) boolWise(a, b *RawTensor, op func(bool, bool) bool) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}
	result, err := NewRaw(outShape, Bool, m.Device())
	if err != nil {
		panic(err)
	}
	aData := a.AsBool()
	bData := b.AsBool()
	dst := result.AsBool()
	for i := range dst {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())
		dst[i] = op(aData[aIdx], bData[bIdx])
	}
	return result
}

func reduceGeometry(shape Shape, dim int) (int, int, int, int) {
	if dim < 0 {
		dim = len(shape) + dim
	}
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return dim, outer, shape[dim], inner
}

func reducedShape(shape Shape, dim int, keepDim bool) Shape {
	out := make(Shape, 0, len(shape))
	for i, d := range shape {
		if i == dim {
			if keepDim {
				out = append(out, 1)
			}
			continue
		}
		out = append(out, d)
	}
	return out
}

func (m *MockBackend) reduce(x *RawTensor, dim int, keepDim bool, init float64, op func(float64, float64) float64) *RawTensor {
	dim, outer, n, inner := reduceGeometry(x.Shape(), dim)
	result, err := NewRaw(reducedShape(x.Shape(), dim, keepDim), x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	src := m.toFloat64Slice(x)
	dst := make([]float64, outer*inner)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			acc := init
			for k := 0; k < n; k++ {
				acc = op(acc, src[(o*n+k)*inner+in])
			}
			dst[o*inner+in] = acc
		}
	}
	m.fromFloat64Slice(dst, result)
	return result
}

func (m *MockBackend) argReduce(x *RawTensor, dim int, better func(v, best float64) bool) *RawTensor {
	dim, outer, n, inner := reduceGeometry(x.Shape(), dim)
	result, err := NewRaw(reducedShape(x.Shape(), dim, false), Int64, m.Device())
	if err != nil {
		panic(err)
	}
	src := m.toFloat64Slice(x)
	dst := result.AsInt64()
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			best := src[o*n*inner+in]
			bestIdx := int64(0)
			for k := 1; k < n; k++ {
				if v := src[(o*n+k)*inner+in]; better(v, best) {
					best = v
					bestIdx = int64(k)
				}
			}
			dst[o*inner+in] = bestIdx
		}
	}
	return result
}

func (m *MockBackend) boolReduce(x *RawTensor, dim int, keepDim bool, init bool, op func(bool, bool) bool) *RawTensor {
	dim, outer, n, inner := reduceGeometry(x.Shape(), dim)
	result, err := NewRaw(reducedShape(x.Shape(), dim, keepDim), Bool, m.Device())
	if err != nil {
		panic(err)
	}
	src := x.AsBool()
	dst := result.AsBool()
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			acc := init
			for k := 0; k < n; k++ {
				acc = op(acc, src[(o*n+k)*inner+in])
			}
			dst[o*inner+in] = acc
		}
	}
	return result
}

// Helper functions

func toFloat64Scalar(scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", scalar))
	}
}

func (m *MockBackend) toFloat64Slice(t *RawTensor) []float64 {
	switch t.DType() {
	case Float32:
		src := t.AsFloat32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case Float64:
		return t.AsFloat64()
	case Int32:
		src := t.AsInt32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case Int64:
		src := t.AsInt64()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case Bool:
		src := t.AsBool()
		dst := make([]float64, len(src))
		for i, v := range src {
			if v {
				dst[i] = 1
			}
		}
		return dst
	default:
		panic(fmt.Sprintf("unsupported dtype: %s", t.DType()))
	}
}

func (m *MockBackend) fromFloat64Slice(src []float64, t *RawTensor) {
	switch t.DType() {
	case Float32:
		dst := t.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case Float64:
		copy(t.AsFloat64(), src)
	case Int32:
		dst := t.AsInt32()
		for i, v := range src {
			dst[i] = int32(v)
		}
	case Int64:
		dst := t.AsInt64()
		for i, v := range src {
			dst[i] = int64(v)
		}
	case Bool:
		dst := t.AsBool()
		for i, v := range src {
			dst[i] = v != 0
		}
	}
}

func (m *MockBackend) broadcastIndex(flatIdx int, outShape, inShape Shape) int {
	outStrides := outShape.ComputeStrides()
	indices := make([]int, len(outShape))

	temp := flatIdx
	for i := 0; i < len(outShape); i++ {
		indices[i] = temp / outStrides[i]
		temp %= outStrides[i]
	}

	inStrides := inShape.ComputeStrides()
	inIdx := 0

	offset := len(outShape) - len(inShape)
	for i := 0; i < len(inShape); i++ {
		outDimIdx := indices[offset+i]
		if inShape[i] == 1 {
			outDimIdx = 0
		}
		inIdx += outDimIdx * inStrides[i]
	}

	return inIdx
}
