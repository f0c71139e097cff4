// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/tensor"
)

// Module is the interface of every neural network module.
type Module[B tensor.Backend] = nn.Module[B]

// Container is a module with named child layers.
type Container[B tensor.Backend] = nn.Container[B]

// TrainingAware modules behave differently in train and eval mode.
type TrainingAware = nn.TrainingAware

// Parameter is a trainable tensor with an accumulated gradient.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// SeedInit seeds the weight initializer.
func SeedInit(seed int64) {
	nn.SeedInit(seed)
}

// Layer is a module with a qualified name in a Network.
type Layer[B tensor.Backend] = nn.Layer[B]

// ForwardHook observes the output of a layer.
type ForwardHook[B tensor.Backend] = nn.ForwardHook[B]

// BackwardHook observes the gradient of a layer's output.
type BackwardHook = nn.BackwardHook

// HookHandle removes a registered hook.
type HookHandle = nn.HookHandle

// Named wraps a module as a layer with a local name.
func Named[B tensor.Backend](name string, m Module[B]) *Layer[B] {
	return nn.Named(name, m)
}

// Network is a tree of named layers run in order.
type Network[B tensor.Backend] = nn.Network[B]

// NewNetwork creates a network. Panics when two layers share a
// qualified name.
func NewNetwork[B tensor.Backend](backend B, layers ...*Layer[B]) *Network[B] {
	return nn.NewNetwork(backend, layers...)
}

// Errors returned by Network.
var (
	ErrNoAutodiff = nn.ErrNoAutodiff
	ErrStateDict  = nn.ErrStateDict
)

// Sequential chains modules in order.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential whose children are named "0", "1", ...
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// NewNamedSequential creates a Sequential of already named layers.
func NewNamedSequential[B tensor.Backend](layers ...*Layer[B]) *Sequential[B] {
	return nn.NewNamedSequential(layers...)
}

// Linear is a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Conv2D is a 2D convolution layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a 2D convolution layer.
//
// Example:
//
//	conv := nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend) // 3x3 kernel, stride 1, padding 1
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend)
}

// MaxPool2D is a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int) *MaxPool2D[B] {
	return nn.NewMaxPool2D[B](kernelSize, stride)
}

// Flatten reshapes [N, ...] into [N, features].
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// ReLU is the rectified linear activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Dropout zeroes random elements in training mode.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a Dropout module with drop probability p.
func NewDropout[B tensor.Backend](p float64) *Dropout[B] {
	return nn.NewDropout[B](p)
}
