// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gradcam computes Grad-CAM saliency maps for convolutional
// classifiers.
//
// A Recorder hooks a model's named layers, caches their outputs during a
// forward pass and the gradients of those outputs during a backward pass
// seeded with selected classes. Generate turns the pair into a map per
// image: channel weights are the spatial mean of the gradient, the map is
// the rectified weighted sum of activation channels, upsampled to the input
// size and rescaled to [0, 1].
//
// Run drives the whole sequence for a batch:
//
//	backend := autodiff.New(cpu.New())
//	net, _ := models.New("cifar-vgg", 10, backend)
//
//	res, err := gradcam.Run(net, images, labels, []string{"features.3", "features.8"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range res.Maps {
//	    fmt.Println(m.Layer, m.Values.Shape()) // [N, 1, H, W]
//	}
//
// The Recorder gives finer control, such as explaining several classes for
// one forward pass:
//
//	rec, err := gradcam.NewRecorder(net, gradcam.WithLayers("features.8"))
//	if err != nil {
//	    return err
//	}
//	defer rec.Detach()
//
//	scores, classes, err := rec.Forward(batch)
//	...
//	err = rec.Backward([][]int{{classes[0][1]}}) // runner-up class
//	m, err := rec.Generate("features.8")
package gradcam

import (
	"log"

	"github.com/born-ml/gradcam/internal/gradcam"
	"github.com/born-ml/gradcam/tensor"
)

// Model is the capability a Recorder needs. nn.Network implements it.
type Model[B tensor.Backend] = gradcam.Model[B]

// Recorder captures layer activations and gradients of a model.
type Recorder[B tensor.Backend] = gradcam.Recorder[B]

// SaliencyMap is the Grad-CAM output of one layer for a batch.
type SaliencyMap = gradcam.SaliencyMap

// Result holds the output of Run.
type Result = gradcam.Result

// Option configures a Recorder.
type Option = gradcam.Option

// LookupError reports a layer missing from a cache or from the model.
type LookupError = gradcam.LookupError

// Caches named by LookupError.
const (
	CacheModel      = gradcam.CacheModel
	CacheActivation = gradcam.CacheActivation
	CacheGradient   = gradcam.CacheGradient
)

// Errors returned by the engine.
var (
	ErrLayerNotFound  = gradcam.ErrLayerNotFound
	ErrShapeMismatch  = gradcam.ErrShapeMismatch
	ErrTrainingMode   = gradcam.ErrTrainingMode
	ErrNoForward      = gradcam.ErrNoForward
	ErrDetached       = gradcam.ErrDetached
	ErrAmbiguousLayer = gradcam.ErrAmbiguousLayer
)

// NewRecorder hooks the model's layers, all of them unless WithLayers is
// given.
func NewRecorder[B tensor.Backend](model Model[B], opts ...Option) (*Recorder[B], error) {
	return gradcam.NewRecorder(model, opts...)
}

// WithLayers restricts a recorder to the given layers.
func WithLayers(layers ...string) Option {
	return gradcam.WithLayers(layers...)
}

// WithLogger enables warnings about degenerate saliency maps.
func WithLogger(logger *log.Logger) Option {
	return gradcam.WithLogger(logger)
}

// Run computes Grad-CAM maps of targetLayers for [C, H, W] images,
// explaining class labels[i] for image i. Hooks are removed before Run
// returns.
func Run[B tensor.Backend](model Model[B], images []*tensor.RawTensor, labels []int, targetLayers []string, opts ...Option) (*Result, error) {
	return gradcam.Run(model, images, labels, targetLayers, opts...)
}
