// Package ops defines the differentiable operations recorded on a gradient tape.
//
// Each operation keeps its inputs and output from the forward pass and
// computes input gradients from the output gradient in Backward:
//   - AddOp, MulOp: element-wise with broadcast reduction
//   - MatMulOp: d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad
//   - ReshapeOp, TransposeOp: shape bookkeeping
//   - ReLUOp, Conv2DOp, MaxPool2DOp, SumDimOp
//   - ObserveOp: identity that reports the gradient passing through it
package ops

import "github.com/born-ml/gradcam/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input, in Inputs order. A nil entry means
	// no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// node holds the tensors every operation records.
type node struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

func newNode(output *tensor.RawTensor, inputs ...*tensor.RawTensor) node {
	return node{inputs: inputs, output: output}
}

// Inputs returns the forward inputs in argument order.
func (n *node) Inputs() []*tensor.RawTensor { return n.inputs }

// Output returns the forward result.
func (n *node) Output() *tensor.RawTensor { return n.output }

// in returns input i.
func (n *node) in(i int) *tensor.RawTensor { return n.inputs[i] }

func grads(g ...*tensor.RawTensor) []*tensor.RawTensor { return g }
