// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package models provides built-in classifiers to explain.
//
// Layer names follow the torchvision layout of a "features" block and a
// "classifier" head:
//
//	net, err := models.New("cifar-vgg", 10, backend)
//	info, _ := models.Lookup("cifar-vgg")
//	fmt.Println(info.DefaultLayers) // [features.3 features.8 features.11]
package models

import (
	"github.com/born-ml/gradcam/internal/models"
	"github.com/born-ml/gradcam/nn"
	"github.com/born-ml/gradcam/tensor"
)

// Info describes a built-in architecture.
type Info = models.Info

// ErrUnknownModel is returned for a name not in Names.
var ErrUnknownModel = models.ErrUnknownModel

// Names returns the built-in model names, sorted.
func Names() []string {
	return models.Names()
}

// Lookup returns the description of a built-in model.
func Lookup(name string) (Info, error) {
	return models.Lookup(name)
}

// New builds a freshly initialized model with numClasses outputs.
func New[B tensor.Backend](name string, numClasses int, backend B) (*nn.Network[B], error) {
	return models.New(name, numClasses, backend)
}
