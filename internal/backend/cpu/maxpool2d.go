package cpu

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// MaxPool2D performs 2D max pooling without padding.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_h, out_w]
//
// out_h = (height - kernelSize) / stride + 1.
//
// The second result holds, for every output element, the flat index of the
// input element that produced it; backward passes route gradients with it.
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) (*tensor.RawTensor, []int) {
	return cpu.maxPool2D(input, kernelSize, stride)
}

func (cpu *CPUBackend) maxPool2D(input *tensor.RawTensor, kernelSize, stride int) (*tensor.RawTensor, []int) {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("maxpool2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	if kernelSize <= 0 || stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d or stride %d", kernelSize, stride))
	}

	N, C, H, W := shape[0], shape[1], shape[2], shape[3]
	HOut := (H-kernelSize)/stride + 1
	WOut := (W-kernelSize)/stride + 1
	if HOut <= 0 || WOut <= 0 {
		panic(fmt.Sprintf("maxpool2d: kernel %d larger than input %dx%d", kernelSize, H, W))
	}

	output := tensor.MustRaw(tensor.Shape{N, C, HOut, WOut}, cpu.device)
	out := output.AsFloat32()
	src := input.AsFloat32()
	indices := make([]int, len(out))

	for nc := 0; nc < N*C; nc++ {
		base := nc * H * W
		for oh := 0; oh < HOut; oh++ {
			for ow := 0; ow < WOut; ow++ {
				best := base + oh*stride*W + ow*stride
				for kh := 0; kh < kernelSize; kh++ {
					row := base + (oh*stride+kh)*W + ow*stride
					for kw := 0; kw < kernelSize; kw++ {
						if src[row+kw] > src[best] {
							best = row + kw
						}
					}
				}
				o := (nc*HOut+oh)*WOut + ow
				out[o] = src[best]
				indices[o] = best
			}
		}
	}

	return output, indices
}

// MaxPool2DBackward routes each output gradient to the input position that
// held the window maximum. All other input positions receive zero.
func (cpu *CPUBackend) MaxPool2DBackward(input, grad *tensor.RawTensor, maxIndices []int, _, _ int) *tensor.RawTensor {
	if len(maxIndices) != grad.NumElements() {
		panic(fmt.Sprintf("maxpool2d backward: %d indices for %d gradient elements", len(maxIndices), grad.NumElements()))
	}

	inputGrad := tensor.MustRaw(input.Shape(), cpu.device)
	dst := inputGrad.AsFloat32()
	for i, g := range grad.AsFloat32() {
		dst[maxIndices[i]] += g
	}
	return inputGrad
}
