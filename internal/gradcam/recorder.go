package gradcam

import (
	"fmt"
	"log"
	"sort"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Recorder captures layer activations and gradients of a model.
//
// Hooks are registered by NewRecorder and stay until Detach. Each Forward
// replaces both caches; each Backward replaces the gradient cache. Generate
// therefore always combines an activation and a gradient from the same
// forward pass.
//
// A Recorder is not safe for concurrent use.
type Recorder[B tensor.Backend] struct {
	model   Model[B]
	logger  *log.Logger
	watched []string
	handles []*nn.HookHandle

	activations map[string]*tensor.RawTensor
	gradients   map[string]*tensor.RawTensor
	calls       map[string]int // forward hook firings in the current pass

	output         *tensor.Tensor[B] // unsorted scores of the last forward pass
	imageH, imageW int
	detached       bool
}

// NewRecorder hooks the model's layers.
//
// An unknown layer in WithLayers fails with a *LookupError before any hook
// is registered.
func NewRecorder[B tensor.Backend](model Model[B], opts ...Option) (*Recorder[B], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	byName := make(map[string]*nn.Layer[B])
	var all []string
	for _, l := range model.Layers() {
		byName[l.Name()] = l
		all = append(all, l.Name())
	}

	watched := all
	if len(o.layers) > 0 {
		watched = make([]string, 0, len(o.layers))
		seen := make(map[string]bool)
		for _, name := range o.layers {
			if _, ok := byName[name]; !ok {
				return nil, fmt.Errorf("new recorder: %w", &LookupError{Layer: name, Cache: CacheModel})
			}
			if !seen[name] {
				seen[name] = true
				watched = append(watched, name)
			}
		}
	}

	r := &Recorder[B]{
		model:       model,
		logger:      o.logger,
		watched:     watched,
		activations: make(map[string]*tensor.RawTensor),
		gradients:   make(map[string]*tensor.RawTensor),
		calls:       make(map[string]int),
	}

	for _, name := range watched {
		layer := byName[name]
		r.handles = append(r.handles,
			layer.RegisterForwardHook(r.saveActivation),
			layer.RegisterBackwardHook(r.saveGradient),
		)
	}

	return r, nil
}

func (r *Recorder[B]) saveActivation(name string, output *tensor.Tensor[B]) {
	r.activations[name] = output.Raw().Clone()
	r.calls[name]++
}

func (r *Recorder[B]) saveGradient(name string, grad *tensor.RawTensor) {
	r.gradients[name] = grad.Clone()
}

// Watched returns the watched layer names.
func (r *Recorder[B]) Watched() []string {
	return append([]string(nil), r.watched...)
}

// Forward runs the model on an [N, C, H, W] batch.
//
// Returns the class scores sorted in descending order per row and, for
// each row, the class index of every sorted score.
func (r *Recorder[B]) Forward(images *tensor.Tensor[B]) (*tensor.RawTensor, [][]int, error) {
	if r.detached {
		return nil, nil, fmt.Errorf("forward: %w", ErrDetached)
	}
	if r.model.IsTraining() {
		return nil, nil, fmt.Errorf("forward: %w", ErrTrainingMode)
	}
	shape := images.Shape()
	if len(shape) != 4 {
		return nil, nil, fmt.Errorf("forward: input shape %v is not [N, C, H, W]: %w", shape, ErrShapeMismatch)
	}

	if images.Device() != r.model.Device() {
		images = tensor.New(images.Raw().To(r.model.Device()), r.model.Backend())
	}

	clear(r.activations)
	clear(r.gradients)
	clear(r.calls)
	r.imageH, r.imageW = shape.Spatial()

	output := r.model.Forward(images)
	if outShape := output.Shape(); len(outShape) != 2 || outShape[0] != shape[0] {
		r.output = nil
		return nil, nil, fmt.Errorf("forward: model output %v is not [%d, K]: %w", outShape, shape[0], ErrShapeMismatch)
	}
	r.output = output

	scores, indices := tensor.SortDesc(output.Raw())
	return scores, indices, nil
}

// Backward propagates the gradient of the selected classes, one or more
// ids per image, into the watched layers.
//
// Parameter gradients are reset first. The forward graph is kept, so
// Backward may be repeated with other classes without a new Forward.
func (r *Recorder[B]) Backward(classIDs [][]int) error {
	if r.detached {
		return fmt.Errorf("backward: %w", ErrDetached)
	}
	if r.output == nil {
		return fmt.Errorf("backward: %w", ErrNoForward)
	}

	seed, err := oneHot(classIDs, r.output.Shape(), r.model.Device())
	if err != nil {
		return fmt.Errorf("backward: %w", err)
	}

	clear(r.gradients)
	r.model.ZeroGrad()
	if err := r.model.Backward(r.output, seed); err != nil {
		return fmt.Errorf("backward: %w", err)
	}
	return nil
}

// oneHot builds the [N, K] seed with 1 at every selected class.
func oneHot(classIDs [][]int, shape tensor.Shape, device tensor.Device) (*tensor.RawTensor, error) {
	n, k := shape[0], shape[1]
	if len(classIDs) != n {
		return nil, fmt.Errorf("%d class id rows for batch of %d: %w", len(classIDs), n, ErrShapeMismatch)
	}

	seed, err := tensor.NewRaw(shape, device)
	if err != nil {
		return nil, err
	}
	for i, ids := range classIDs {
		if len(ids) == 0 {
			return nil, fmt.Errorf("no class id for image %d: %w", i, ErrShapeMismatch)
		}
		row := seed.Row(i)
		for _, id := range ids {
			if id < 0 || id >= k {
				return nil, fmt.Errorf("class id %d for image %d outside [0, %d): %w", id, i, k, ErrShapeMismatch)
			}
			row[id] = 1
		}
	}
	return seed, nil
}

// Activation returns the cached output of a layer from the last forward pass.
func (r *Recorder[B]) Activation(layer string) (*tensor.RawTensor, error) {
	act, ok := r.activations[layer]
	if !ok {
		return nil, &LookupError{Layer: layer, Cache: CacheActivation}
	}
	return act, nil
}

// Gradient returns the cached output gradient of a layer from the last
// backward pass.
func (r *Recorder[B]) Gradient(layer string) (*tensor.RawTensor, error) {
	grad, ok := r.gradients[layer]
	if !ok {
		return nil, &LookupError{Layer: layer, Cache: CacheGradient}
	}
	return grad, nil
}

// CachedLayers returns the layers with a cached activation, sorted.
func (r *Recorder[B]) CachedLayers() []string {
	names := make([]string, 0, len(r.activations))
	for name := range r.activations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate computes the saliency map of a layer from its cached activation
// and gradient.
func (r *Recorder[B]) Generate(layer string) (*SaliencyMap, error) {
	if r.detached {
		return nil, fmt.Errorf("generate %s: %w", layer, ErrDetached)
	}

	act, err := r.Activation(layer)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	grad, err := r.Gradient(layer)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if r.calls[layer] > 1 {
		return nil, fmt.Errorf("generate %s: %d calls: %w", layer, r.calls[layer], ErrAmbiguousLayer)
	}
	if len(act.Shape()) != 4 {
		return nil, fmt.Errorf("generate %s: activation %v is not [N, C, H, W]: %w", layer, act.Shape(), ErrShapeMismatch)
	}
	if !grad.Shape().Equal(act.Shape()) {
		return nil, fmt.Errorf("generate %s: gradient %v for activation %v: %w", layer, grad.Shape(), act.Shape(), ErrShapeMismatch)
	}

	cam := weightedActivations(act, grad)
	up := r.model.Backend().UpsampleBilinear2D(cam, r.imageH, r.imageW, false)
	degenerate := normalize(up)

	for i, d := range degenerate {
		if d && r.logger != nil {
			r.logger.Printf("gradcam: layer %s image %d: no positive evidence, map is all zeros", layer, i)
		}
	}

	return &SaliencyMap{
		Layer:      layer,
		Values:     up,
		Degenerate: degenerate,
	}, nil
}

// Detach removes every hook. The recorder is inert afterwards and its
// methods return ErrDetached. Detach may be called more than once.
func (r *Recorder[B]) Detach() {
	if r.detached {
		return
	}
	for _, h := range r.handles {
		h.Remove()
	}
	r.handles = nil
	r.output = nil
	r.detached = true
}

// Detached reports whether Detach has been called.
func (r *Recorder[B]) Detached() bool {
	return r.detached
}
