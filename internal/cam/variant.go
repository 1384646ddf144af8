// Package cam implements the CAM array simulation engine: array state,
// write/program, exact and distance-based match kernels, non-ideality
// injection and batched execution, all expressed as vectorized operations
// over a swappable tensor backend.
package cam

import "fmt"

// Variant identifies the CAM cell arithmetic of an array.
type Variant int

// Supported CAM variants.
const (
	// Binary stores {0, 1} and matches on exact equality.
	Binary Variant = iota

	// Ternary stores {0, 1, don't-care}; a don't-care cell matches any
	// query value.
	Ternary

	// Analog stores a continuous acceptance interval [low, high] per cell.
	// Interval containment gives the exact-match rule; distance metrics
	// operate on the interval centers.
	Analog
)

// CellWidth returns the number of stored values encoding one CAM cell.
// Analog cells carry two values (the interval bounds).
func (v Variant) CellWidth() int {
	if v == Analog {
		return 2
	}
	return 1
}

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case Binary:
		return "binary"
	case Ternary:
		return "ternary"
	case Analog:
		return "analog"
	default:
		return "unknown"
	}
}

// ParseVariant converts a variant name to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "binary":
		return Binary, nil
	case "ternary":
		return Ternary, nil
	case "analog":
		return Analog, nil
	default:
		return 0, fmt.Errorf("%w: unknown variant %q", ErrVariant, s)
	}
}

// Metric selects the match rule applied by Match.
type Metric int

// Supported match metrics.
const (
	// Exact is the associative match: cell equality (binary), equality or
	// wildcard (ternary), interval containment (analog).
	Exact Metric = iota

	// Euclidean scores each (query, row) pair with the sum of squared
	// differences; lower is better.
	Euclidean

	// Manhattan scores with the sum of absolute differences; lower is better.
	Manhattan

	// Dot scores with the inner product; higher is better.
	Dot
)

// IsDistance reports whether lower scores indicate better matches.
func (m Metric) IsDistance() bool {
	return m == Euclidean || m == Manhattan
}

// String returns the metric name.
func (m Metric) String() string {
	switch m {
	case Exact:
		return "exact"
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case Dot:
		return "dot"
	default:
		return "unknown"
	}
}

// ParseMetric converts a metric name to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "exact":
		return Exact, nil
	case "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	case "dot":
		return Dot, nil
	default:
		return 0, fmt.Errorf("%w: unknown metric %q", ErrConfig, s)
	}
}

// DontCare is the stored sentinel marking a ternary wildcard cell.
// It sits outside the {0, 1} bit domain, so it can never collide with a
// programmed bit.
const DontCare float32 = -1
