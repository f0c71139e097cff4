package gradcam

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Result holds the output of Run.
type Result struct {
	// Maps has one entry per target layer, in the requested order.
	Maps []*SaliencyMap

	// Scores is [N, K], sorted descending per row.
	Scores *tensor.RawTensor

	// Indices[i][j] is the class of Scores[i][j].
	Indices [][]int
}

// Predicted returns the top-scoring class of image i.
func (r *Result) Predicted(i int) int {
	return r.Indices[i][0]
}

// Run computes Grad-CAM maps of targetLayers for a batch of [C, H, W]
// images, backpropagating the class labels[i] for image i.
//
// The model is switched to eval mode. Hooks are always removed before Run
// returns, on success and on error.
func Run[B tensor.Backend](model Model[B], images []*tensor.RawTensor, labels []int, targetLayers []string, opts ...Option) (*Result, error) {
	if len(targetLayers) == 0 {
		return nil, fmt.Errorf("gradcam: no target layers: %w", ErrLayerNotFound)
	}

	model.Eval()

	batch, err := tensor.Stack(images, model.Device())
	if err != nil {
		return nil, fmt.Errorf("gradcam: %w", err)
	}
	if len(labels) != len(images) {
		return nil, fmt.Errorf("gradcam: %d labels for %d images: %w", len(labels), len(images), ErrShapeMismatch)
	}

	rec, err := NewRecorder(model, append(opts[:len(opts):len(opts)], WithLayers(targetLayers...))...)
	if err != nil {
		return nil, fmt.Errorf("gradcam: %w", err)
	}
	defer rec.Detach()

	scores, indices, err := rec.Forward(tensor.New(batch, model.Backend()))
	if err != nil {
		return nil, fmt.Errorf("gradcam: %w", err)
	}

	classIDs := make([][]int, len(labels))
	for i, label := range labels {
		classIDs[i] = []int{label}
	}
	if err := rec.Backward(classIDs); err != nil {
		return nil, fmt.Errorf("gradcam: %w", err)
	}

	maps := make([]*SaliencyMap, 0, len(targetLayers))
	for _, layer := range targetLayers {
		m, err := rec.Generate(layer)
		if err != nil {
			return nil, fmt.Errorf("gradcam: %w", err)
		}
		maps = append(maps, m)
	}

	return &Result{
		Maps:    maps,
		Scores:  scores,
		Indices: indices,
	}, nil
}
