package ops

import "github.com/born-ml/gradcam/internal/tensor"

// TransposeOp records a dimension permutation.
type TransposeOp struct {
	node
	axes []int // full permutation used in the forward pass
}

// NewTransposeOp creates a new TransposeOp. axes must be a full permutation.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{node: newNode(output, input), axes: axes}
}

// Backward applies the inverse permutation.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return grads(backend.Transpose(outputGrad, inverse...))
}
