package main

import (
	"fmt"
	"strconv"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/render"
	"github.com/born-ml/gradcam/internal/tensor"
)

// loadImages decodes, resizes and normalizes image files into [C, H, W]
// tensors.
func loadImages(paths []string, size int, mean, std []float64) ([]*tensor.RawTensor, error) {
	images := make([]*tensor.RawTensor, 0, len(paths))
	for _, path := range paths {
		img, err := render.Load(path)
		if err != nil {
			return nil, err
		}
		x, err := render.Normalize(img, size, size, mean, std)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		images = append(images, x)
	}
	return images, nil
}

// parseLabels parses a comma-separated class id list. An empty list returns
// nil.
func parseLabels(s string, n, numClasses int) ([]int, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	if len(parts) != n {
		return nil, fmt.Errorf("%d labels for %d images", len(parts), n)
	}

	labels := make([]int, n)
	for i, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", p, err)
		}
		if id < 0 || id >= numClasses {
			return nil, fmt.Errorf("label %d outside [0, %d)", id, numClasses)
		}
		labels[i] = id
	}
	return labels, nil
}

// predict returns the top-1 class of every image.
func predict[B tensor.Backend](net *nn.Network[B], images []*tensor.RawTensor) ([]int, error) {
	batch, err := tensor.Stack(images, net.Device())
	if err != nil {
		return nil, err
	}

	net.Eval()
	scores := net.Forward(tensor.New(batch, net.Backend()))
	_, indices := tensor.SortDesc(scores.Raw())

	top := make([]int, len(indices))
	for i, row := range indices {
		top[i] = row[0]
	}
	return top, nil
}
