package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Sequential is a container that chains modules in order.
//
// Each module becomes a child layer named by its position ("0", "1", ...),
// so a Sequential registered as "features" yields layers "features.0",
// "features.1" and so on.
//
// Example:
//
//	features := nn.NewSequential[Backend](
//	    nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend),
//	    nn.NewReLU[Backend](),
//	)
type Sequential[B tensor.Backend] struct {
	layers []*Layer[B]
}

// NewSequential creates a new Sequential container with the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	s := &Sequential[B]{}
	for _, m := range modules {
		s.Add(m)
	}
	return s
}

// NewNamedSequential creates a Sequential whose children keep the given
// names instead of their positions.
func NewNamedSequential[B tensor.Backend](layers ...*Layer[B]) *Sequential[B] {
	return &Sequential[B]{layers: layers}
}

// Add appends a module to the sequence, named by its position.
func (s *Sequential[B]) Add(module Module[B]) {
	s.layers = append(s.layers, Named(strconv.Itoa(len(s.layers)), module))
}

// Forward passes the input through every layer in order.
func (s *Sequential[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	output := input
	for _, layer := range s.layers {
		output = layer.Forward(output)
	}
	return output
}

// Parameters returns all parameters from all layers.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, layer := range s.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// Children returns the child layers in order.
func (s *Sequential[B]) Children() []*Layer[B] {
	return s.layers
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.layers)
}

func (s *Sequential[B]) String() string {
	return fmt.Sprintf("Sequential(%d)", s.Len())
}
