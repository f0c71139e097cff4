package gradcam

import (
	"errors"
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Errors returned by the recorder and Run.
var (
	// ErrLayerNotFound is wrapped by every *LookupError.
	ErrLayerNotFound = errors.New("layer not found")

	// ErrShapeMismatch covers label counts, image shapes, class ids out of
	// range and activations that are not 4D. It is the tensor package's
	// sentinel, so stacking errors match it as well.
	ErrShapeMismatch = tensor.ErrShapeMismatch

	ErrTrainingMode   = errors.New("model is in training mode")
	ErrNoForward      = errors.New("no forward pass recorded")
	ErrDetached       = errors.New("recorder is detached")
	ErrAmbiguousLayer = errors.New("layer ran more than once in the forward pass")
)

// Cache names reported by LookupError.
const (
	CacheModel      = "model"
	CacheActivation = "activation"
	CacheGradient   = "gradient"
)

// LookupError reports a layer missing from the model or from one of the
// recorder's caches.
type LookupError struct {
	Layer string
	Cache string // CacheModel, CacheActivation or CacheGradient
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("layer %q not found in %s", e.Layer, e.Cache)
}

// Unwrap returns ErrLayerNotFound.
func (e *LookupError) Unwrap() error {
	return ErrLayerNotFound
}
