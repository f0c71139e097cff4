// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader reads and writes model weights in the SafeTensors format.
//
// Weights are keyed by qualified parameter name ("features.0.weight"), so a
// file exported from a model with the same layer layout loads directly:
//
//	net, _ := models.New[B]("cifar-vgg", 10, backend)
//	if err := loader.LoadWeights(net, "cifar-vgg.safetensors"); err != nil {
//	    log.Fatal(err)
//	}
package loader

import (
	"io"

	"github.com/born-ml/gradcam/internal/loader"
	"github.com/born-ml/gradcam/nn"
	"github.com/born-ml/gradcam/tensor"
)

// Reader gives access to the tensors of a SafeTensors file.
type Reader = loader.Reader

// DType is a SafeTensors element type.
type DType = loader.DType

// TensorInfo describes one tensor of a file.
type TensorInfo = loader.TensorInfo

// ValidationError reports a malformed tensor entry.
type ValidationError = loader.ValidationError

// Errors returned while reading files.
var (
	ErrHeaderTooLarge   = loader.ErrHeaderTooLarge
	ErrOffsetOverlap    = loader.ErrOffsetOverlap
	ErrOutOfBounds      = loader.ErrOutOfBounds
	ErrSizeMismatch     = loader.ErrSizeMismatch
	ErrUnsupportedDType = loader.ErrUnsupportedDType
	ErrTensorNotFound   = loader.ErrTensorNotFound
)

// Open opens a SafeTensors file and validates its header.
func Open(path string) (*Reader, error) {
	return loader.Open(path)
}

// Write encodes tensors as F32 SafeTensors.
func Write(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	return loader.Write(w, tensors, metadata)
}

// WriteFile writes tensors to a SafeTensors file.
func WriteFile(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	return loader.WriteFile(path, tensors, metadata)
}

// LoadWeights loads every parameter of net from a file. Missing, unexpected
// or wrongly shaped tensors are an error.
func LoadWeights[B tensor.Backend](net *nn.Network[B], path string) error {
	return loader.LoadWeights(net, path)
}

// SaveWeights writes every parameter of net to a file.
func SaveWeights[B tensor.Backend](net *nn.Network[B], path string, metadata map[string]string) error {
	return loader.SaveWeights(net, path, metadata)
}
