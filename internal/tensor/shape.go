package tensor

import (
	"fmt"
	"slices"
)

// Shape lists tensor dimensions, outermost first. An empty Shape is a scalar.
type Shape []int

// NumElements returns the product of the dimensions.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Validate reports the first dimension that is not positive.
func (s Shape) Validate() error {
	if i := slices.IndexFunc(s, func(d int) bool { return d <= 0 }); i >= 0 {
		return fmt.Errorf("dimension %d is %d, want > 0", i, s[i])
	}
	return nil
}

// Equal reports whether both shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool { return slices.Equal(s, other) }

// Clone returns an independent copy of s.
func (s Shape) Clone() Shape { return append(make(Shape, 0, len(s)), s...) }

// ComputeStrides returns row-major strides for s.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	step := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = step
		step *= s[i]
	}
	return strides
}

// Spatial returns the trailing (height, width) pair of an NCHW shape.
// Panics if the shape is not 4D.
func (s Shape) Spatial() (h, w int) {
	if len(s) != 4 {
		panic(fmt.Sprintf("Spatial: expected 4D shape [N,C,H,W], got %v", s))
	}
	return s[2], s[3]
}

// BroadcastShapes aligns a and b from the right and returns the broadcast
// result. Dimensions match when equal or when either is 1; a missing
// leading dimension counts as 1. The bool reports whether either input
// differs from the result.
//
//	[3 1] with [3 5] gives [3 5], true
//	[3 5] with [3 5] gives [3 5], false
//	[3 4] with [3 5] is an error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	n := max(len(a), len(b))
	out := make(Shape, n)
	dim := func(s Shape, i int) int {
		if j := i - (n - len(s)); j >= 0 {
			return s[j]
		}
		return 1
	}
	for i := range out {
		da, db := dim(a, i), dim(b, i)
		switch {
		case da == db, db == 1:
			out[i] = da
		case da == 1:
			out[i] = db
		default:
			return nil, false, fmt.Errorf("shapes %v and %v do not broadcast at dimension %d (%d vs %d)", a, b, i, da, db)
		}
	}
	return out, !a.Equal(out) || !b.Equal(out), nil
}
