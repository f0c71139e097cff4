// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float32 tensors the Grad-CAM engine works on.
//
// # Overview
//
// A RawTensor is shape plus contiguous row-major storage. A Tensor pairs a
// RawTensor with the Backend that executes its operations, so wrapping the
// backend (for example with autodiff.New) changes how every operation on
// the tensor is carried out.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/gradcam/autodiff"
//	    "github.com/born-ml/gradcam/backend/cpu"
//	    "github.com/born-ml/gradcam/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
//	    y := x.MatMul(x.T()).ReLU()
//	}
//
// # Images
//
// Image batches use the [N, C, H, W] layout. Stack builds a batch from
// [C, H, W] images and SortDesc ranks class scores:
//
//	batch, err := tensor.Stack(images, tensor.CPU)
//	values, classes := tensor.SortDesc(scores)
package tensor
