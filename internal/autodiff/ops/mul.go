package ops

import "github.com/born-ml/gradcam/internal/tensor"

// MulOp records a * b element-wise: grad_a = grad*b and grad_b = grad*a,
// reduced over broadcast dimensions.
type MulOp struct{ node }

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{newNode(output, a, b)}
}

// Backward implements Operation.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.in(0), op.in(1)
	return grads(
		reduceBroadcast(backend.Mul(outputGrad, b), a.Shape(), backend),
		reduceBroadcast(backend.Mul(outputGrad, a), b.Shape(), backend),
	)
}
