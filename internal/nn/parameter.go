package nn

import (
	"github.com/born-ml/gradcam/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// The name is local to the owning module ("weight", "bias"). Network
// qualifies it with the layer path, e.g. "features.0.weight".
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[B]
	grad   *tensor.RawTensor // accumulated by Network.Backward, nil after ZeroGrad
}

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter's local name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter's tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}

// Grad returns the accumulated gradient, or nil if none was computed.
func (p *Parameter[B]) Grad() *tensor.RawTensor {
	return p.grad
}

// AccumulateGrad adds grad to the stored gradient.
func (p *Parameter[B]) AccumulateGrad(grad *tensor.RawTensor) {
	if p.grad == nil {
		p.grad = grad.Clone()
		return
	}
	dst := p.grad.AsFloat32()
	for i, v := range grad.AsFloat32() {
		dst[i] += v
	}
}

// ZeroGrad clears the gradient.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}
