package cpu

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// UpsampleBilinear2D resizes the spatial dimensions of an NCHW tensor with
// bilinear interpolation.
//
// With alignCorners=false, pixels are treated as areas: the source coordinate
// of output pixel i is (i+0.5)*in/out - 0.5, clamped at 0. With
// alignCorners=true, the corner pixels of input and output coincide and the
// source coordinate is i*(in-1)/(out-1).
func (cpu *CPUBackend) UpsampleBilinear2D(x *tensor.RawTensor, outH, outW int, alignCorners bool) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("upsample: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("upsample: invalid output size %dx%d", outH, outW))
	}

	N, C, H, W := shape[0], shape[1], shape[2], shape[3]
	result := tensor.MustRaw(tensor.Shape{N, C, outH, outW}, cpu.device)
	out := result.AsFloat32()
	src := x.AsFloat32()

	ys := bilinearTaps(H, outH, alignCorners)
	xs := bilinearTaps(W, outW, alignCorners)

	for nc := 0; nc < N*C; nc++ {
		plane := src[nc*H*W : (nc+1)*H*W]
		dst := out[nc*outH*outW : (nc+1)*outH*outW]
		for oy, ty := range ys {
			r0 := plane[ty.i0*W : (ty.i0+1)*W]
			r1 := plane[ty.i1*W : (ty.i1+1)*W]
			for ox, tx := range xs {
				top := tx.w0*r0[tx.i0] + tx.w1*r0[tx.i1]
				bottom := tx.w0*r1[tx.i0] + tx.w1*r1[tx.i1]
				dst[oy*outW+ox] = ty.w0*top + ty.w1*bottom
			}
		}
	}

	return result
}

// tap is the pair of source indices and weights contributing to one output
// coordinate along a single axis.
type tap struct {
	i0, i1 int
	w0, w1 float32
}

// bilinearTaps precomputes interpolation taps for one axis.
func bilinearTaps(in, out int, alignCorners bool) []tap {
	taps := make([]tap, out)

	var scale float64
	switch {
	case alignCorners && out > 1:
		scale = float64(in-1) / float64(out-1)
	case alignCorners:
		scale = 0
	default:
		scale = float64(in) / float64(out)
	}

	for i := range taps {
		var src float64
		if alignCorners {
			src = float64(i) * scale
		} else {
			src = (float64(i)+0.5)*scale - 0.5
			if src < 0 {
				src = 0
			}
		}

		i0 := int(src)
		if i0 > in-1 {
			i0 = in - 1
		}
		i1 := i0
		if i0 < in-1 {
			i1 = i0 + 1
		}
		frac := float32(src - float64(i0))

		taps[i] = tap{i0: i0, i1: i1, w0: 1 - frac, w1: frac}
	}

	return taps
}
