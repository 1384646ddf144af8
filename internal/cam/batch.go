package cam

import (
	"fmt"

	"github.com/camsim-dev/camsim/internal/tensor"
)

// Batch orchestration: many independent (array, query batch) lookups mapped
// onto a handful of large stacked kernel launches. Results are always
// returned aligned to the input order and are identical to calling Match
// per array; grouping by shape (rather than padding) guarantees that no
// filler value can leak into a reduction.

// batchKey groups lookups that can share one stacked kernel launch.
type batchKey struct {
	variant    Variant
	rows       int
	columns    int
	numQueries int
}

// BatchMatch runs Match for every (arrays[i], queries[i]) pair.
//
// Lookups with equal array shape, variant and query count are stacked into
// a single higher-rank tensor and executed as one kernel across the batch
// axis; the remainder fall back to per-array calls. All pairs are validated
// before any kernel is dispatched, so a failed call computes nothing.
func BatchMatch[B tensor.Backend](arrays []*Array[B], queries []*tensor.Tensor[float32, B], metric Metric) ([]*MatchResult[B], error) {
	if len(arrays) != len(queries) {
		return nil, fmt.Errorf("%w: %d arrays but %d query batches", ErrShape, len(arrays), len(queries))
	}
	if len(arrays) == 0 {
		return nil, nil
	}

	// Eager validation across the whole batch, before any compute.
	for i, a := range arrays {
		if err := a.validateQueries(queries[i]); err != nil {
			return nil, fmt.Errorf("lookup %d: %w", i, err)
		}
		if a.variant != Analog && metric != Exact {
			return nil, fmt.Errorf("lookup %d: %w: metric %s requires an analog array, have %s", i, ErrVariant, metric, a.variant)
		}
	}

	groups := make(map[batchKey][]int)
	for i, a := range arrays {
		key := batchKey{a.variant, a.rows, a.columns, queries[i].Shape()[0]}
		groups[key] = append(groups[key], i)
	}

	results := make([]*MatchResult[B], len(arrays))
	for key, members := range groups {
		if len(members) == 1 || key.rows == 0 {
			for _, i := range members {
				res, err := arrays[i].Match(queries[i], metric)
				if err != nil {
					return nil, fmt.Errorf("lookup %d: %w", i, err)
				}
				results[i] = res
			}
			continue
		}
		if err := matchGroup(arrays, queries, metric, members, results); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// matchGroup stacks same-shaped lookups along a new batch axis and runs the
// shared kernels once, then splits the (batch, queries, rows) result back
// out per member.
func matchGroup[B tensor.Backend](arrays []*Array[B], queries []*tensor.Tensor[float32, B], metric Metric, members []int, results []*MatchResult[B]) error {
	b := tensor.Backend(arrays[members[0]].backend)
	variant := arrays[members[0]].variant
	n := len(members)

	queryRaws := make([]*tensor.RawTensor, n)
	for i, m := range members {
		queryRaws[i] = queries[m].Raw()
	}
	stackedQ := b.Stack(queryRaws, 0) // (batch, queries, columns)

	var verdicts *tensor.RawTensor // (batch, queries, rows) bool or float32
	switch {
	case variant != Analog:
		stores := make([]*tensor.RawTensor, n)
		for i, m := range members {
			stores[i] = arrays[m].store
		}
		agree := agreementKernel(b, b.Stack(stores, 0), stackedQ, variant == Ternary)
		verdicts = b.AllDim(agree, -1, false)

	case metric == Exact:
		lows := make([]*tensor.RawTensor, n)
		highs := make([]*tensor.RawTensor, n)
		for i, m := range members {
			lows[i] = arrays[m].low
			highs[i] = arrays[m].high
		}
		within := intervalKernel(b, b.Stack(lows, 0), b.Stack(highs, 0), stackedQ)
		verdicts = b.AllDim(within, -1, false)

	default:
		centers := make([]*tensor.RawTensor, n)
		for i, m := range members {
			a := arrays[m]
			centers[i] = b.MulScalar(b.Add(a.low, a.high), float32(0.5))
		}
		verdicts = distanceKernel(b, b.Stack(centers, 0), stackedQ, metric)
	}

	slices := b.Chunk(verdicts, n, 0)
	for i, m := range members {
		slice := b.Squeeze(slices[i], 0) // (queries, rows)
		backend := arrays[m].backend

		if verdicts.DType() == tensor.Bool {
			results[m] = &MatchResult[B]{Matches: tensor.New[bool, B](slice, backend)}
			continue
		}

		res := &MatchResult[B]{Scores: tensor.New[float32, B](slice, backend)}
		res.BestIndex, res.BestScore = bestOf(b, slice, metric)
		results[m] = res
	}

	return nil
}
