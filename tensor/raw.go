// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/gradcam/internal/tensor"

// Shape lists the size of every dimension.
type Shape = tensor.Shape

// Device identifies where tensor storage lives.
type Device = tensor.Device

// Supported devices.
const (
	CPU = tensor.CPU
)

// RawTensor is backend-independent tensor storage.
type RawTensor = tensor.RawTensor

// NewRaw allocates a zero-filled tensor.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, device)
}

// RawFromSlice copies data into a new tensor of the given shape.
func RawFromSlice(data []float32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.RawFromSlice(data, shape, device)
}

// ErrShapeMismatch is returned when tensors that must agree in shape do not.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// Stack joins [C, H, W] images of identical shape into an [N, C, H, W]
// batch on device.
func Stack(tensors []*RawTensor, device Device) (*RawTensor, error) {
	return tensor.Stack(tensors, device)
}

// SortDesc sorts every row of a 2D tensor in descending order and returns
// the original column of each sorted value.
func SortDesc(x *RawTensor) (*RawTensor, [][]int) {
	return tensor.SortDesc(x)
}
