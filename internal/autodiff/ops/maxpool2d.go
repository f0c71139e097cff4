package ops

import "github.com/born-ml/gradcam/internal/tensor"

// MaxPool2DOp records max pooling. Each output gradient goes to the input
// position that held its window maximum, as reported by the forward kernel.
type MaxPool2DOp struct {
	node
	maxIndices         []int // flat input index per output element
	kernelSize, stride int
}

// NewMaxPool2DOp creates a new MaxPool2DOp.
func NewMaxPool2DOp(input, output *tensor.RawTensor, maxIndices []int, kernelSize, stride int) *MaxPool2DOp {
	return &MaxPool2DOp{
		node:       newNode(output, input),
		maxIndices: maxIndices,
		kernelSize: kernelSize,
		stride:     stride,
	}
}

// Backward implements Operation.
func (op *MaxPool2DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return grads(backend.MaxPool2DBackward(op.in(0), outputGrad, op.maxIndices, op.kernelSize, op.stride))
}
