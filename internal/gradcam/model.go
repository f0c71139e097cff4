// Package gradcam computes Grad-CAM saliency maps.
//
// A Recorder hooks named layers of a model, caches their outputs during the
// forward pass and the gradients of those outputs during a class-seeded
// backward pass, and combines each pair into a saliency map: the activation
// channels weighted by their average gradient, rectified, upsampled to the
// input size and normalized per image.
//
// Run drives one forward/backward/generate cycle over a batch:
//
//	res, err := gradcam.Run(net, images, labels, []string{"features.12"})
//	if err != nil {
//	    return err
//	}
//	heat := res.Maps[0].Image(0) // H*W values in [0, 1]
package gradcam

import (
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Model is the capability the recorder needs from a classifier.
// *nn.Network implements it.
type Model[B tensor.Backend] interface {
	// Layers enumerates the named layers that hooks can attach to.
	Layers() []*nn.Layer[B]

	// Forward maps an [N, C, H, W] batch to [N, K] class scores.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Backward propagates seed, shaped like output, through the last
	// forward pass.
	Backward(output *tensor.Tensor[B], seed *tensor.RawTensor) error

	ZeroGrad()
	Eval()
	Train()
	IsTraining() bool

	// Device is where inputs must be placed.
	Device() tensor.Device
	Backend() B
}

var _ Model[tensor.Backend] = (*nn.Network[tensor.Backend])(nil)
