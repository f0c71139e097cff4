package nn

import (
	"slices"

	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/tensor"
)

// ForwardHook observes the output of a named layer after its forward pass.
// The output must not be modified.
type ForwardHook[B tensor.Backend] func(name string, output *tensor.Tensor[B])

// BackwardHook observes the gradient of a named layer's output during a
// backward pass. The gradient must not be modified.
type BackwardHook func(name string, grad *tensor.RawTensor)

// HookHandle removes a registered hook. Remove may be called any number of
// times; only the first call has an effect.
type HookHandle struct {
	remove func()
}

// Remove unregisters the hook.
func (h *HookHandle) Remove() {
	if h.remove != nil {
		h.remove()
		h.remove = nil
	}
}

type hook[F any] struct {
	id int
	fn F
}

// Layer is a module with a qualified name in a Network's layer tree.
//
// Hooks fire synchronously. Forward hooks run after the wrapped module's
// forward pass. Backward hooks run when the gradient of the layer output is
// complete, provided the backend records a tape (autodiff.Observer) and the
// hook was registered before the forward pass.
type Layer[B tensor.Backend] struct {
	local  string
	name   string
	module Module[B]

	forwardHooks  []hook[ForwardHook[B]]
	backwardHooks []hook[BackwardHook]
	nextID        int
}

// Named wraps a module as a layer with a local name.
// The qualified name is assigned when the layer joins a Network.
func Named[B tensor.Backend](name string, m Module[B]) *Layer[B] {
	return &Layer[B]{
		local:  name,
		name:   name,
		module: m,
	}
}

// Name returns the layer's qualified name, e.g. "features.3".
func (l *Layer[B]) Name() string {
	return l.name
}

// Module returns the wrapped module.
func (l *Layer[B]) Module() Module[B] {
	return l.module
}

// RegisterForwardHook adds a hook fired after every forward pass.
func (l *Layer[B]) RegisterForwardHook(fn ForwardHook[B]) *HookHandle {
	id := l.nextID
	l.nextID++
	l.forwardHooks = append(l.forwardHooks, hook[ForwardHook[B]]{id: id, fn: fn})
	return &HookHandle{remove: func() {
		l.forwardHooks = slices.DeleteFunc(l.forwardHooks, func(h hook[ForwardHook[B]]) bool { return h.id == id })
	}}
}

// RegisterBackwardHook adds a hook fired with the gradient of the layer output.
func (l *Layer[B]) RegisterBackwardHook(fn BackwardHook) *HookHandle {
	id := l.nextID
	l.nextID++
	l.backwardHooks = append(l.backwardHooks, hook[BackwardHook]{id: id, fn: fn})
	return &HookHandle{remove: func() {
		l.backwardHooks = slices.DeleteFunc(l.backwardHooks, func(h hook[BackwardHook]) bool { return h.id == id })
	}}
}

// NumHooks returns the number of registered forward and backward hooks.
func (l *Layer[B]) NumHooks() int {
	return len(l.forwardHooks) + len(l.backwardHooks)
}

// Forward runs the wrapped module and fires the layer's hooks.
func (l *Layer[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	output := l.module.Forward(input)

	if len(l.backwardHooks) > 0 {
		backend := output.Backend()
		if obs, ok := any(backend).(autodiff.Observer); ok {
			output = tensor.New(obs.Observe(output.Raw(), l.fireBackward), backend)
		}
	}

	// Copy so hooks may remove themselves while firing.
	for _, h := range slices.Clone(l.forwardHooks) {
		h.fn(l.name, output)
	}

	return output
}

// fireBackward runs the hooks registered at the time the gradient arrives.
func (l *Layer[B]) fireBackward(grad *tensor.RawTensor) {
	for _, h := range slices.Clone(l.backwardHooks) {
		h.fn(l.name, grad)
	}
}

// Parameters returns the wrapped module's parameters.
func (l *Layer[B]) Parameters() []*Parameter[B] {
	return l.module.Parameters()
}

// qualify assigns qualified names to l and its descendants.
func (l *Layer[B]) qualify(prefix string) {
	l.name = prefix + l.local
	if c, ok := l.module.(Container[B]); ok {
		for _, child := range c.Children() {
			child.qualify(l.name + ".")
		}
	}
}

// walk visits l and its descendants in pre-order.
func (l *Layer[B]) walk(visit func(*Layer[B])) {
	visit(l)
	if c, ok := l.module.(Container[B]); ok {
		for _, child := range c.Children() {
			child.walk(visit)
		}
	}
}
