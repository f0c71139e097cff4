package gradcam

import "log"

type options struct {
	layers []string
	logger *log.Logger
}

// Option configures a Recorder.
type Option func(*options)

// WithLayers restricts the recorder to the given layers.
// Without it every named layer of the model is watched.
func WithLayers(layers ...string) Option {
	return func(o *options) {
		o.layers = append(o.layers, layers...)
	}
}

// WithLogger enables warnings about degenerate saliency maps.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
