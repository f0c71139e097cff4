package ops

import "github.com/born-ml/gradcam/internal/tensor"

// ObserveOp is an identity that reports the gradient reaching its output.
// Named layers use it for backward hooks.
//
// The reported gradient is complete: every consumer of the output was
// recorded later on the tape and has contributed before the reverse walk
// reaches this op.
type ObserveOp struct {
	node
	fn func(grad *tensor.RawTensor)
}

// NewObserveOp creates a new ObserveOp.
func NewObserveOp(input, output *tensor.RawTensor, fn func(grad *tensor.RawTensor)) *ObserveOp {
	return &ObserveOp{node: newNode(output, input), fn: fn}
}

// Backward calls the observer and passes the gradient through.
func (op *ObserveOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	op.fn(outputGrad)
	return grads(outputGrad)
}
