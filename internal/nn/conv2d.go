package nn

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Conv2D is a square-stride 2D convolution over NCHW input.
//
// The weight is [out, in, kh, kw]. The optional bias is [out] and is added
// per output channel. Each spatial output size is
// (size + 2*padding - kernel)/stride + 1.
type Conv2D[B tensor.Backend] struct {
	in, out         int
	kh, kw          int
	stride, padding int

	weight, bias *Parameter[B]
	backend      B
}

// NewConv2D returns a Conv2D with Xavier weights and, if useBias, a zero
// bias. Panics on non-positive sizes or negative padding.
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	switch {
	case inChannels <= 0 || outChannels <= 0:
		panic(fmt.Sprintf("conv2d: channels must be positive, got in=%d out=%d", inChannels, outChannels))
	case kernelH <= 0 || kernelW <= 0:
		panic(fmt.Sprintf("conv2d: kernel must be positive, got %dx%d", kernelH, kernelW))
	case stride <= 0 || padding < 0:
		panic(fmt.Sprintf("conv2d: bad stride %d or padding %d", stride, padding))
	}

	c := &Conv2D[B]{
		in: inChannels, out: outChannels,
		kh: kernelH, kw: kernelW,
		stride: stride, padding: padding,
		backend: backend,
	}
	receptive := kernelH * kernelW
	c.weight = NewParameter("weight", Xavier(inChannels*receptive, outChannels*receptive,
		tensor.Shape{outChannels, inChannels, kernelH, kernelW}, backend))
	if useBias {
		c.bias = NewParameter("bias", tensor.Zeros(tensor.Shape{outChannels}, backend))
	}
	return c
}

// Forward convolves input and adds the bias, if any.
func (c *Conv2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[1] != c.in {
		panic(fmt.Sprintf("conv2d: want input [N,%d,H,W], got %v", c.in, shape))
	}

	y := tensor.New(c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.stride, c.padding), c.backend)
	if c.bias == nil {
		return y
	}
	return y.Add(c.bias.Tensor().Reshape(1, c.out, 1, 1))
}

// Parameters returns the weight followed by the bias when present.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	if c.bias == nil {
		return []*Parameter[B]{c.weight}
	}
	return []*Parameter[B]{c.weight, c.bias}
}

// Weight returns the kernel parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] { return c.weight }

// Bias returns the bias parameter, or nil.
func (c *Conv2D[B]) Bias() *Parameter[B] { return c.bias }

// ComputeOutputSize returns the output height and width for an input size.
func (c *Conv2D[B]) ComputeOutputSize(h, w int) [2]int {
	return [2]int{
		(h+2*c.padding-c.kh)/c.stride + 1,
		(w+2*c.padding-c.kw)/c.stride + 1,
	}
}

func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(in_channels=%d, out_channels=%d, kernel_size=(%d, %d), stride=%d, padding=%d, bias=%v)",
		c.in, c.out, c.kh, c.kw, c.stride, c.padding, c.bias != nil)
}
