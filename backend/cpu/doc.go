// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go backend.
//
// The backend implements every tensor.Backend operation the Grad-CAM engine
// needs: elementwise arithmetic with broadcasting, matrix multiplication,
// 2D convolution, max pooling and bilinear resizing, plus the backward
// kernels autodiff uses.
//
// Wrap it with autodiff.New to record operations for gradient computation:
//
//	backend := autodiff.New(cpu.New())
package cpu
