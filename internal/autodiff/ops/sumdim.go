package ops

import "github.com/born-ml/gradcam/internal/tensor"

// SumDimOp records a sum along one dimension.
type SumDimOp struct {
	node
	dim     int // non-negative
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp. dim must already be non-negative.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{node: newNode(output, input), dim: dim, keepDim: keepDim}
}

// Backward broadcasts the gradient back over the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := op.in(0).Shape()
	grad := outputGrad
	if !op.keepDim {
		kept := shape.Clone()
		kept[op.dim] = 1
		grad = backend.Reshape(outputGrad, kept)
	}
	return grads(backend.Add(tensor.MustRaw(shape, backend.Device()), grad))
}
