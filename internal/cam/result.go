package cam

import (
	"github.com/camsim-dev/camsim/internal/tensor"
)

// MatchResult carries the outcome of one match operation over a query batch.
//
// Exactly one of Matches or Scores is set, depending on the metric. The
// engine never resolves multi-match: several rows matching one query is a
// normal outcome, and priority policies (lowest index, priority order) are
// a caller concern.
type MatchResult[B tensor.Backend] struct {
	// Matches is the (queries, rows) boolean match tensor, set for the
	// Exact metric.
	Matches *tensor.Tensor[bool, B]

	// Scores is the (queries, rows) distance or similarity tensor, set for
	// analog metrics. NaN and Inf from the inputs propagate here
	// unsanitized; detecting them is the caller's concern.
	Scores *tensor.Tensor[float32, B]

	// BestIndex and BestScore give the winning row per query for analog
	// metrics: arg-min of Scores for distances, arg-max for similarities.
	// Empty when the array has zero rows or the metric is Exact.
	BestIndex []int64
	BestScore []float32
}

// NumQueries returns the query count the result answers for.
func (r *MatchResult[B]) NumQueries() int {
	if r.Matches != nil {
		return r.Matches.Shape()[0]
	}
	if r.Scores != nil {
		return r.Scores.Shape()[0]
	}
	return 0
}
