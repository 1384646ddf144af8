package tensor

import "math/rand"

// Backend is the array-compute capability the engine programs against.
// It supplies elementwise arithmetic, broadcasting comparisons, reductions
// and seeded random sampling over RawTensors; concrete implementations
// (host-vectorized CPU, GPU) are swappable without the engine knowing which
// is in use.
//
// Backend operations panic on shape or dtype violations: the engine
// validates at its own API boundary before dispatching, so a panic here is
// a programming error, not a user error.
//
// All random sampling takes an explicit *rand.Rand. There is no implicit
// global random state anywhere in the engine; callers seed generators
// themselves for reproducibility.
type Backend interface {
	// Element-wise binary operations with broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise).
	Abs(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Round(x *RawTensor) *RawTensor

	// Comparison operations (element-wise, return bool tensor).
	Greater(a, b *RawTensor) *RawTensor
	Lower(a, b *RawTensor) *RawTensor
	GreaterEqual(a, b *RawTensor) *RawTensor
	LowerEqual(a, b *RawTensor) *RawTensor
	Equal(a, b *RawTensor) *RawTensor
	NotEqual(a, b *RawTensor) *RawTensor

	// Boolean operations (element-wise on bool tensors).
	And(a, b *RawTensor) *RawTensor
	Or(a, b *RawTensor) *RawTensor
	Xor(a, b *RawTensor) *RawTensor
	Not(x *RawTensor) *RawTensor

	// Reduction operations along a dimension.
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MinDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	ArgminDim(x *RawTensor, dim int) *RawTensor // Int64 result
	ArgmaxDim(x *RawTensor, dim int) *RawTensor // Int64 result
	AllDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	AnyDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Selection.
	Where(condition, x, y *RawTensor) *RawTensor

	// Shape manipulation.
	Expand(x *RawTensor, shape Shape) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor
	Squeeze(x *RawTensor, dim int) *RawTensor
	Stack(tensors []*RawTensor, dim int) *RawTensor
	Chunk(x *RawTensor, n, dim int) []*RawTensor

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Random sampling with explicit, caller-seeded generators.
	RandUniform(shape Shape, dtype DataType, rng *rand.Rand) *RawTensor
	RandNormal(shape Shape, mean, std float64, dtype DataType, rng *rand.Rand) *RawTensor
	RandBernoulli(shape Shape, p float64, rng *rand.Rand) *RawTensor // Bool result

	// Metadata.
	Name() string
	Device() Device
}
