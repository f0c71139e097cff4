package nn

import (
	"errors"
	"fmt"
	"sort"

	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Errors returned by Network.
var (
	// ErrNoAutodiff is returned by Backward when the backend records no tape.
	ErrNoAutodiff = errors.New("backend does not record gradients")

	// ErrStateDict is returned by LoadStateDict for missing or malformed entries.
	ErrStateDict = errors.New("invalid state dict")
)

// Network is the root of a named layer tree.
//
// Forward runs the top-level layers in order. On an autodiff backend every
// Forward starts a fresh tape, and Backward propagates an arbitrary seed
// from the output and accumulates parameter gradients.
//
// A new Network is in training mode, like its modules.
type Network[B tensor.Backend] struct {
	backend  B
	layers   []*Layer[B]
	training bool
}

// NewNetwork creates a network from top-level layers and assigns every
// layer its qualified name. Panics on duplicate names.
func NewNetwork[B tensor.Backend](backend B, layers ...*Layer[B]) *Network[B] {
	n := &Network[B]{
		backend:  backend,
		layers:   layers,
		training: true,
	}

	seen := make(map[string]bool)
	for _, l := range layers {
		l.qualify("")
		l.walk(func(layer *Layer[B]) {
			if seen[layer.name] {
				panic(fmt.Sprintf("network: duplicate layer name %q", layer.name))
			}
			seen[layer.name] = true
		})
	}

	n.setTraining(true)
	return n
}

// Backend returns the network's backend.
func (n *Network[B]) Backend() B {
	return n.backend
}

// Device returns the compute device of the network's parameters.
func (n *Network[B]) Device() tensor.Device {
	return n.backend.Device()
}

// Layers returns every layer in pre-order, containers before their children.
func (n *Network[B]) Layers() []*Layer[B] {
	var all []*Layer[B]
	for _, l := range n.layers {
		l.walk(func(layer *Layer[B]) { all = append(all, layer) })
	}
	return all
}

// Layer looks up a layer by qualified name.
func (n *Network[B]) Layer(name string) (*Layer[B], bool) {
	for _, l := range n.Layers() {
		if l.name == name {
			return l, true
		}
	}
	return nil, false
}

// Forward runs the network on input.
func (n *Network[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	if bc, ok := any(n.backend).(autodiff.BackwardCapable); ok {
		tape := bc.GetTape()
		tape.Clear()
		tape.StartRecording()
	}

	output := input
	for _, l := range n.layers {
		output = l.Forward(output)
	}
	return output
}

// Backward propagates seed from output through the last forward pass.
//
// Parameter gradients are accumulated until ZeroGrad. The tape is kept, so
// Backward may be called again with another seed.
func (n *Network[B]) Backward(output *tensor.Tensor[B], seed *tensor.RawTensor) error {
	bc, ok := any(n.backend).(autodiff.BackwardCapable)
	if !ok {
		return fmt.Errorf("network backward on %s: %w", n.backend.Name(), ErrNoAutodiff)
	}
	if !seed.Shape().Equal(output.Shape()) {
		return fmt.Errorf("network backward: seed %v for output %v: %w", seed.Shape(), output.Shape(), tensor.ErrShapeMismatch)
	}

	grads := bc.GetTape().Backward(output.Raw(), seed, n.backend)

	for _, p := range n.Parameters() {
		if g, ok := grads[p.Tensor().Raw()]; ok {
			p.AccumulateGrad(g)
		}
	}
	return nil
}

// Parameters returns every parameter in layer order.
func (n *Network[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, l := range n.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// ZeroGrad clears the gradients of all parameters.
func (n *Network[B]) ZeroGrad() {
	for _, p := range n.Parameters() {
		p.ZeroGrad()
	}
}

// Eval switches every module to evaluation mode.
func (n *Network[B]) Eval() {
	n.setTraining(false)
}

// Train switches every module to training mode.
func (n *Network[B]) Train() {
	n.setTraining(true)
}

// IsTraining reports whether the network is in training mode.
func (n *Network[B]) IsTraining() bool {
	return n.training
}

func (n *Network[B]) setTraining(training bool) {
	n.training = training
	for _, l := range n.Layers() {
		if ta, ok := l.module.(TrainingAware); ok {
			ta.SetTraining(training)
		}
	}
}

// NamedParameters returns parameters keyed by qualified name, e.g.
// "features.0.weight". Only leaf layers contribute, so every parameter
// appears once.
func (n *Network[B]) NamedParameters() map[string]*Parameter[B] {
	named := make(map[string]*Parameter[B])
	for _, l := range n.Layers() {
		if _, ok := l.module.(Container[B]); ok {
			continue
		}
		for _, p := range l.module.Parameters() {
			named[l.name+"."+p.Name()] = p
		}
	}
	return named
}

// StateDict returns the raw parameter tensors keyed by qualified name.
// The tensors share memory with the parameters.
func (n *Network[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for name, p := range n.NamedParameters() {
		stateDict[name] = p.Tensor().Raw()
	}
	return stateDict
}

// LoadStateDict copies values into the network's parameters.
//
// Every parameter must be present with its exact shape. Entries the network
// does not have are reported as an error as well, so a weight file for a
// different architecture is never half-applied.
func (n *Network[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	named := n.NamedParameters()

	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, ok := stateDict[name]
		if !ok {
			return fmt.Errorf("missing parameter %q: %w", name, ErrStateDict)
		}
		want := named[name].Tensor().Shape()
		if !raw.Shape().Equal(want) {
			return fmt.Errorf("parameter %q: shape %v, expected %v: %w", name, raw.Shape(), want, ErrStateDict)
		}
	}
	for name := range stateDict {
		if _, ok := named[name]; !ok {
			return fmt.Errorf("unexpected parameter %q: %w", name, ErrStateDict)
		}
	}

	for _, name := range names {
		copy(named[name].Tensor().Data(), stateDict[name].AsFloat32())
	}
	return nil
}
