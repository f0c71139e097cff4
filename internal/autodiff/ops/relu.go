package ops

import "github.com/born-ml/gradcam/internal/tensor"

// ReLUOp records max(0, x). The gradient passes where x > 0.
type ReLUOp struct{ node }

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{newNode(output, input)}
}

// Backward implements Operation.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.in(0)
	mask := tensor.MustRaw(x.Shape(), backend.Device())
	m := mask.AsFloat32()
	for i, v := range x.AsFloat32() {
		if v > 0 {
			m[i] = 1
		}
	}
	return grads(backend.Mul(outputGrad, mask))
}
