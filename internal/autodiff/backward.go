package autodiff

import "github.com/born-ml/gradcam/internal/tensor"

// BackwardCapable is a backend that records a tape, such as AutodiffBackend.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// Observer is implemented by backends that can report the gradient of a
// tensor during the backward pass.
type Observer interface {
	Observe(x *tensor.RawTensor, fn func(grad *tensor.RawTensor)) *tensor.RawTensor
}

// GetTape returns the tape shared with Tape.
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t seeded by seed using the backend's tape.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	y := x.Mul(x)
//	ones := tensor.Full(y.Shape(), 1, backend)
//	gradients := autodiff.Backward(y, ones.Raw(), backend)
//	grad := gradients[x.Raw()]
func Backward[B BackwardCapable](t *tensor.Tensor[B], seed *tensor.RawTensor, backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: empty tape; start recording before the forward pass")
	}
	return tape.Backward(t.Raw(), seed, backend)
}
