package tensor

import "fmt"

// Shape is the dimension list of a tensor, outermost first.
type Shape []int

// NumElements returns the element count. A rank-0 shape is a scalar
// and counts as one element; any zero dimension makes the count zero.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate rejects negative dimensions.
// Zero-size dimensions are allowed: an array with zero rows is a legal
// (empty) search target, so empty tensors must be representable.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("dimension %d is negative: %d", i, dim)
		}
	}
	return nil
}

// Equal reports whether both shapes have the same rank and dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides returns row-major strides: the innermost dimension has
// stride 1 and each outer stride is the product of the inner dimensions.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// BroadcastShapes applies NumPy broadcasting rules to a pair of shapes.
// Dimensions are aligned from the right; a pair is compatible when the
// dimensions are equal or one of them is 1 (a missing dimension counts
// as 1). It returns the combined shape and whether any axis actually
// needs stretching, or an error for an incompatible pair.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	rank := max(len(a), len(b))
	out := make(Shape, rank)
	stretched := false

	for i := range rank {
		da, db := 1, 1
		if j := len(a) - rank + i; j >= 0 {
			da = a[j]
		}
		if j := len(b) - rank + i; j >= 0 {
			db = b[j]
		}

		switch {
		case da == db:
			out[i] = da
		case da == 1:
			out[i] = db
			stretched = true
		case db == 1:
			out[i] = da
			stretched = true
		default:
			return nil, false, fmt.Errorf("cannot broadcast %v with %v: axis %d has %d vs %d", a, b, i, da, db)
		}
	}

	return out, stretched, nil
}
