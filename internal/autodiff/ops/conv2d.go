package ops

import "github.com/born-ml/gradcam/internal/tensor"

// Conv2DOp records Conv2D(input, kernel). The bias is a separate AddOp.
type Conv2DOp struct {
	node
	stride, padding int
}

// NewConv2DOp creates a new Conv2DOp.
func NewConv2DOp(input, kernel, output *tensor.RawTensor, stride, padding int) *Conv2DOp {
	return &Conv2DOp{node: newNode(output, input, kernel), stride: stride, padding: padding}
}

// Backward returns the transposed convolution of the gradient for the input
// and its correlation with the input for the kernel.
func (op *Conv2DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	input, kernel := op.in(0), op.in(1)
	return grads(
		backend.Conv2DInputBackward(input, kernel, outputGrad, op.stride, op.padding),
		backend.Conv2DKernelBackward(input, kernel, outputGrad, op.stride, op.padding),
	)
}
