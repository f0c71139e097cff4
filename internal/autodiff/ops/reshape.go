package ops

import "github.com/born-ml/gradcam/internal/tensor"

// ReshapeOp records a reshape, such as a [C] bias viewed as [1, C, 1, 1].
type ReshapeOp struct{ node }

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{newNode(output, input)}
}

// Backward reshapes the gradient back to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return grads(backend.Reshape(outputGrad, op.in(0).Shape()))
}
