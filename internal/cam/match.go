package cam

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/tensor"
)

// Match searches the array with a batch of queries under the given metric.
//
// queries must have shape (numQueries, columns). The kernels are pure
// broadcast-then-reduce pipelines: queries are expanded against stored rows
// on a new axis and the column axis is reduced in a single backend call,
// never with per-cell loops. A zero-row array produces an empty result,
// not an error.
func (a *Array[B]) Match(queries *tensor.Tensor[float32, B], metric Metric) (*MatchResult[B], error) {
	if err := a.validateQueries(queries); err != nil {
		return nil, err
	}

	b := tensor.Backend(a.backend)
	q := queries.Raw()

	switch {
	case a.variant != Analog && metric == Exact:
		agree := agreementKernel(b, a.store, q, a.variant == Ternary)
		matches := b.AllDim(agree, -1, false)
		return &MatchResult[B]{Matches: tensor.New[bool, B](matches, a.backend)}, nil

	case a.variant != Analog:
		return nil, fmt.Errorf("%w: metric %s requires an analog array, have %s", ErrVariant, metric, a.variant)

	case metric == Exact:
		within := intervalKernel(b, a.low, a.high, q)
		matches := b.AllDim(within, -1, false)
		return &MatchResult[B]{Matches: tensor.New[bool, B](matches, a.backend)}, nil

	default:
		centers := b.MulScalar(b.Add(a.low, a.high), float32(0.5))
		scores := distanceKernel(b, centers, q, metric)
		res := &MatchResult[B]{Scores: tensor.New[float32, B](scores, a.backend)}
		if a.rows > 0 {
			res.BestIndex, res.BestScore = bestOf(b, scores, metric)
		}
		return res, nil
	}
}

// CountMismatches returns, per (query, row) pair, the number of columns
// that fail the cell match rule. For ternary arrays this is the hamming
// distance with wildcards excluded; for analog arrays it counts cells whose
// query value falls outside the acceptance interval.
func (a *Array[B]) CountMismatches(queries *tensor.Tensor[float32, B]) (*tensor.Tensor[int64, B], error) {
	if err := a.validateQueries(queries); err != nil {
		return nil, err
	}

	b := tensor.Backend(a.backend)
	q := queries.Raw()

	var agree *tensor.RawTensor
	if a.variant == Analog {
		agree = intervalKernel(b, a.low, a.high, q)
	} else {
		agree = agreementKernel(b, a.store, q, a.variant == Ternary)
	}

	mismatches := b.SumDim(b.Cast(b.Not(agree), tensor.Int64), -1, false)
	return tensor.New[int64, B](mismatches, a.backend), nil
}

// ReduceSum matches each query and sums the reduction values of every
// matching row, collapsing each query to a single value. values must hold
// one entry per stored row; the result dtype follows values.
func ReduceSum[T tensor.DType, B tensor.Backend](a *Array[B], queries *tensor.Tensor[float32, B], values *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	if err := a.validateQueries(queries); err != nil {
		return nil, err
	}
	if !values.Shape().Equal(tensor.Shape{a.rows}) {
		return nil, fmt.Errorf("%w: reduction values must have shape (%d,), got %v", ErrShape, a.rows, values.Shape())
	}
	switch values.DType() {
	case tensor.Float32, tensor.Float64, tensor.Int64:
	default:
		return nil, fmt.Errorf("%w: unsupported reduction dtype %s", ErrConfig, values.DType())
	}

	res, err := a.Match(queries, Exact)
	if err != nil {
		return nil, err
	}

	b := tensor.Backend(a.backend)
	zeros := tensor.Zeros[T, B](tensor.Shape{a.rows}, a.backend)
	picked := b.Where(res.Matches.Raw(), values.Raw(), zeros.Raw())
	return tensor.New[T, B](b.SumDim(picked, -1, false), a.backend), nil
}

func (a *Array[B]) validateQueries(queries *tensor.Tensor[float32, B]) error {
	shape := queries.Shape()
	if len(shape) != 2 {
		return fmt.Errorf("%w: queries must be 2D (numQueries, columns), got %v", ErrShape, shape)
	}
	if shape[1] != a.columns {
		return fmt.Errorf("%w: query width %d does not match array columns %d", ErrShape, shape[1], a.columns)
	}
	return nil
}

// Kernels below accept stored tensors of shape (..., rows, columns) and
// query tensors of shape (..., queries, columns) with identical leading
// batch dims, producing (..., queries, rows, columns) cell verdicts. The
// batch orchestrator reuses them on stacked higher-rank inputs.

// agreementKernel computes the per-cell match verdict for bit patterns:
// stored equals query, or (ternary) stored is a wildcard.
func agreementKernel(b tensor.Backend, store, queries *tensor.RawTensor, wildcard bool) *tensor.RawTensor {
	s := b.Unsqueeze(store, -3)   // (..., 1, rows, columns)
	q := b.Unsqueeze(queries, -2) // (..., queries, 1, columns)

	agree := b.Equal(s, q)
	if wildcard {
		agree = b.Or(agree, b.Equal(s, scalarRaw(b, store.DType(), float64(DontCare))))
	}
	return agree
}

// intervalKernel computes per-cell interval containment: low <= q <= high.
func intervalKernel(b tensor.Backend, low, high, queries *tensor.RawTensor) *tensor.RawTensor {
	lo := b.Unsqueeze(low, -3)
	hi := b.Unsqueeze(high, -3)
	q := b.Unsqueeze(queries, -2)

	return b.And(b.GreaterEqual(q, lo), b.LowerEqual(q, hi))
}

// distanceKernel computes per-(query, row) scores under an analog metric,
// reduced over the column axis.
func distanceKernel(b tensor.Backend, store, queries *tensor.RawTensor, metric Metric) *tensor.RawTensor {
	s := b.Unsqueeze(store, -3)
	q := b.Unsqueeze(queries, -2)

	switch metric {
	case Euclidean:
		diff := b.Sub(q, s)
		return b.SumDim(b.Mul(diff, diff), -1, false)
	case Manhattan:
		return b.SumDim(b.Abs(b.Sub(q, s)), -1, false)
	case Dot:
		return b.SumDim(b.Mul(q, s), -1, false)
	default:
		panic(fmt.Sprintf("distance kernel: unexpected metric %s", metric))
	}
}

// bestOf reduces a (queries, rows) score tensor to the winning row and its
// score per query: arg-min for distances, arg-max for similarities.
func bestOf(b tensor.Backend, scores *tensor.RawTensor, metric Metric) ([]int64, []float32) {
	var idx, val *tensor.RawTensor
	if metric.IsDistance() {
		idx = b.ArgminDim(scores, -1)
		val = b.MinDim(scores, -1, false)
	} else {
		idx = b.ArgmaxDim(scores, -1)
		val = b.MaxDim(scores, -1, false)
	}

	bestIdx := append([]int64(nil), idx.AsInt64()...)
	bestVal := append([]float32(nil), val.AsFloat32()...)
	return bestIdx, bestVal
}
