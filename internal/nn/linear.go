package nn

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Linear maps [N, in] to [N, out] as x @ Wᵀ + b, with W stored [out, in].
type Linear[B tensor.Backend] struct {
	in, out      int
	weight, bias *Parameter[B]
}

// NewLinear returns a Linear with Xavier weights and a zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return &Linear[B]{
		in:     inFeatures,
		out:    outFeatures,
		weight: NewParameter("weight", Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend)),
		bias:   NewParameter("bias", tensor.Zeros(tensor.Shape{outFeatures}, backend)),
	}
}

// Forward panics unless input is [N, in].
func (l *Linear[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	if s := input.Shape(); len(s) != 2 || s[1] != l.in {
		panic(fmt.Sprintf("linear: want input [N,%d], got %v", l.in, s))
	}
	return input.MatMul(l.weight.Tensor().T()).Add(l.bias.Tensor().Reshape(1, l.out))
}

// Parameters returns the weight and the bias.
func (l *Linear[B]) Parameters() []*Parameter[B] { return []*Parameter[B]{l.weight, l.bias} }

// Weight returns the [out, in] weight.
func (l *Linear[B]) Weight() *Parameter[B] { return l.weight }

// Bias returns the [out] bias.
func (l *Linear[B]) Bias() *Parameter[B] { return l.bias }

func (l *Linear[B]) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d)", l.in, l.out)
}
