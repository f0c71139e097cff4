package cpu

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// SumDim sums x along dim. With keepDim the reduced dimension stays as size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumdim: invalid dimension %d for shape %v", dim, shape))
	}

	// View the tensor as [outer, size, inner] and reduce the middle axis.
	outer := 1
	for _, d := range shape[:dim] {
		outer *= d
	}
	size := shape[dim]
	inner := 1
	for _, d := range shape[dim+1:] {
		inner *= d
	}

	outShape := shape.Clone()
	outShape[dim] = 1
	result := tensor.MustRaw(outShape, cpu.device)
	out := result.AsFloat32()
	src := x.AsFloat32()

	for o := 0; o < outer; o++ {
		for s := 0; s < size; s++ {
			base := (o*size + s) * inner
			dst := out[o*inner : (o+1)*inner]
			for i := range dst {
				dst[i] += src[base+i]
			}
		}
	}

	if keepDim {
		return result
	}
	squeezed := make(tensor.Shape, 0, len(shape)-1)
	squeezed = append(squeezed, shape[:dim]...)
	squeezed = append(squeezed, shape[dim+1:]...)
	return result.View(squeezed)
}
