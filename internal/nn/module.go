// Package nn implements the neural network modules behind the Grad-CAM
// model capability.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - Conv2D, Linear, MaxPool2D, Flatten, Dropout, ReLU
//   - Layer: a named module with forward and backward hooks
//   - Sequential: Container for stacking layers
//   - Network: the root of a named layer tree, with forward/backward passes
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/gradcam/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	features := nn.NewSequential[Backend](
//	    nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewMaxPool2D[Backend](2, 2),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// Panics on an input shape the module cannot process.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns the module's own trainable parameters.
	// Containers return the parameters of every descendant.
	Parameters() []*Parameter[B]
}

// Container is implemented by modules that hold named child layers.
type Container[B tensor.Backend] interface {
	Children() []*Layer[B]
}

// TrainingAware is implemented by modules whose forward pass depends on
// the train/eval mode, such as Dropout.
type TrainingAware interface {
	SetTraining(training bool)
}
