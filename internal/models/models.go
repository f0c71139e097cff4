// Package models builds the classifiers the command line tool can explain.
//
// Layer names follow the torchvision convention of a "features" block of
// convolutions and a "classifier" head, so weights exported from a PyTorch
// model with the same layout load by name.
package models

import (
	"errors"
	"fmt"
	"sort"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// ErrUnknownModel is returned by New for a name not in Names.
var ErrUnknownModel = errors.New("unknown model")

// Info describes a built-in architecture.
type Info struct {
	Name string

	// Input image shape [C, H, W].
	Channels, Height, Width int

	// DefaultLayers are the layers explained when none are requested.
	DefaultLayers []string
}

var registry = map[string]Info{
	"cifar-vgg": {
		Name:          "cifar-vgg",
		Channels:      3,
		Height:        32,
		Width:         32,
		DefaultLayers: []string{"features.3", "features.8", "features.11"},
	},
	"probe-224": {
		Name:          "probe-224",
		Channels:      3,
		Height:        224,
		Width:         224,
		DefaultLayers: []string{"features.conv"},
	},
}

// Names returns the built-in model names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the description of a built-in model.
func Lookup(name string) (Info, error) {
	info, ok := registry[name]
	if !ok {
		return Info{}, fmt.Errorf("%q (have %v): %w", name, Names(), ErrUnknownModel)
	}
	return info, nil
}

// New builds a freshly initialized model with numClasses outputs.
func New[B tensor.Backend](name string, numClasses int, backend B) (*nn.Network[B], error) {
	if numClasses <= 0 {
		return nil, fmt.Errorf("model %s: invalid class count %d", name, numClasses)
	}

	switch name {
	case "cifar-vgg":
		return CIFARVGG(numClasses, backend), nil
	case "probe-224":
		return Probe224(numClasses, backend), nil
	default:
		_, err := Lookup(name)
		return nil, err
	}
}

// CIFARVGG is a small VGG-style network for 3x32x32 images.
//
//	features.0-4   conv 3->16, relu, conv 16->16, relu, pool  (32 -> 16)
//	features.5-9   conv 16->32, relu, conv 32->32, relu, pool (16 -> 8)
//	features.10-12 conv 32->64, relu, pool                    (8 -> 4)
//	classifier     flatten, dropout, linear 1024->128, relu, dropout, linear 128->K
func CIFARVGG[B tensor.Backend](numClasses int, backend B) *nn.Network[B] {
	conv := func(in, out int) *nn.Conv2D[B] {
		return nn.NewConv2D(in, out, 3, 3, 1, 1, true, backend)
	}

	features := nn.NewSequential[B](
		conv(3, 16), nn.NewReLU[B](), conv(16, 16), nn.NewReLU[B](), nn.NewMaxPool2D[B](2, 2),
		conv(16, 32), nn.NewReLU[B](), conv(32, 32), nn.NewReLU[B](), nn.NewMaxPool2D[B](2, 2),
		conv(32, 64), nn.NewReLU[B](), nn.NewMaxPool2D[B](2, 2),
	)

	classifier := nn.NewSequential[B](
		nn.NewFlatten[B](),
		nn.NewDropout[B](0.5),
		nn.NewLinear(64*4*4, 128, backend),
		nn.NewReLU[B](),
		nn.NewDropout[B](0.5),
		nn.NewLinear(128, numClasses, backend),
	)

	return nn.NewNetwork(backend,
		nn.Named[B]("features", features),
		nn.Named[B]("classifier", classifier),
	)
}

// Probe224 is a minimal network for 3x224x224 images whose "features.conv"
// layer produces a 512x7x7 feature map, the shape of the last block of
// ImageNet backbones such as VGG16 and ResNet.
func Probe224[B tensor.Backend](numClasses int, backend B) *nn.Network[B] {
	features := nn.NewNamedSequential(
		nn.Named[B]("pool", nn.NewMaxPool2D[B](32, 32)),
		nn.Named[B]("conv", nn.NewConv2D(3, 512, 1, 1, 1, 0, true, backend)),
		nn.Named[B]("relu", nn.NewReLU[B]()),
	)

	classifier := nn.NewSequential[B](
		nn.NewFlatten[B](),
		nn.NewLinear(512*7*7, numClasses, backend),
	)

	return nn.NewNetwork(backend,
		nn.Named[B]("features", features),
		nn.Named[B]("classifier", classifier),
	)
}
