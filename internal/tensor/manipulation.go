package tensor

import (
	"errors"
	"fmt"
	"sort"
)

// ErrShapeMismatch is returned when tensors that must agree in shape do not.
var ErrShapeMismatch = errors.New("shape mismatch")

// Stack joins tensors of identical shape along a new leading dimension.
//
// The result is allocated on the given device, so Stack also moves inputs
// to where the consumer expects them:
//
//	batch, err := tensor.Stack(images, model.Device()) // [N, C, H, W]
func Stack(tensors []*RawTensor, device Device) (*RawTensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("stack: %w: no tensors given", ErrShapeMismatch)
	}

	elemShape := tensors[0].Shape()
	for i, t := range tensors[1:] {
		if !t.Shape().Equal(elemShape) {
			return nil, fmt.Errorf("stack: %w: tensor %d has shape %v, expected %v",
				ErrShapeMismatch, i+1, t.Shape(), elemShape)
		}
	}

	outShape := append(Shape{len(tensors)}, elemShape...)
	out, err := NewRaw(outShape, device)
	if err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}

	n := elemShape.NumElements()
	data := out.AsFloat32()
	for i, t := range tensors {
		copy(data[i*n:(i+1)*n], t.AsFloat32())
	}
	return out, nil
}

// SortDesc sorts every row of a 2D tensor in descending order.
//
// Returns the sorted values and, for every row, the original column index of
// each sorted value. Ties keep their original column order.
func SortDesc(x *RawTensor) (*RawTensor, [][]int) {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("SortDesc: expected 2D tensor, got shape %v", shape))
	}
	rows, cols := shape[0], shape[1]

	values := MustRaw(shape, x.Device())
	indices := make([][]int, rows)

	for r := 0; r < rows; r++ {
		src := x.Row(r)
		idx := make([]int, cols)
		for c := range idx {
			idx[c] = c
		}
		sort.SliceStable(idx, func(i, j int) bool {
			return src[idx[i]] > src[idx[j]]
		})

		dst := values.Row(r)
		for c, orig := range idx {
			dst[c] = src[orig]
		}
		indices[r] = idx
	}

	return values, indices
}
