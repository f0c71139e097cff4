// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Backend wraps any tensor backend and records the operations executed
// through it on a gradient tape. Backward walks the tape from an output
// seeded with an arbitrary gradient, which is how a class score is
// backpropagated to a network's layers.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, tensor.Full(y.Shape(), 1, backend).Raw(), backend)
//	// grads[x.Raw()] == [2, 4]
package autodiff

import (
	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// BackwardCapable is a backend that exposes its gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// Observer is a backend that can report the gradient of a tensor during a
// backward pass.
type Observer = autodiff.Observer

// Backward computes gradients of every recorded input of t, seeded with
// seed. The tape is kept, so Backward may run again with another seed.
func Backward[B BackwardCapable](t *tensor.Tensor[B], seed *tensor.RawTensor, backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, seed, backend)
}
