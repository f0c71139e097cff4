package ops

import "github.com/born-ml/gradcam/internal/tensor"

// AddOp records a + b. Each side gets the output gradient summed over the
// dimensions it was broadcast along.
type AddOp struct{ node }

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{newNode(output, a, b)}
}

// Backward implements Operation.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return grads(
		reduceBroadcast(outputGrad, op.in(0).Shape(), backend),
		reduceBroadcast(outputGrad, op.in(1).Shape(), backend),
	)
}
