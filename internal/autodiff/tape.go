package autodiff

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/autodiff/ops"
	"github.com/born-ml/gradcam/internal/tensor"
)

// GradientTape is an append-only log of operations executed while
// recording. Backward replays it in reverse.
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// forward pass
//	grads := tape.Backward(output, seed, backend)
type GradientTape struct {
	ops       []ops.Operation
	recording bool
}

// NewGradientTape returns an empty tape that is not recording.
func NewGradientTape() *GradientTape {
	return &GradientTape{ops: make([]ops.Operation, 0, 64)}
}

// StartRecording makes Record append operations.
func (t *GradientTape) StartRecording() { t.recording = true }

// StopRecording makes Record a no-op.
func (t *GradientTape) StopRecording() { t.recording = false }

// IsRecording reports whether Record appends.
func (t *GradientTape) IsRecording() bool { return t.recording }

// Record appends op while recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.ops = append(t.ops, op)
	}
}

// Clear drops every recorded operation. The recording flag is unchanged.
func (t *GradientTape) Clear() {
	clear(t.ops)
	t.ops = t.ops[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int { return len(t.ops) }

// Backward propagates seed from root through the recorded operations.
//
// The seed has the shape of root and is dL/d(root) for whatever scalar L
// the caller has in mind: a one-hot seed on class scores selects one class
// per row. Operations that do not lead to root are skipped. The tape is
// left intact, so Backward may run again with a different seed.
//
// The result maps every reached tensor to its accumulated gradient.
// Panics if the seed shape differs from the root shape.
func (t *GradientTape) Backward(root, seed *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	if !root.Shape().Equal(seed.Shape()) {
		panic(fmt.Sprintf("backward: seed shape %v does not match output shape %v", seed.Shape(), root.Shape()))
	}

	// Gradient kernels run on the same backend; keep them off the tape.
	defer func(was bool) { t.recording = was }(t.recording)
	t.recording = false

	grads := map[*tensor.RawTensor]*tensor.RawTensor{root: seed}
	for i := len(t.ops) - 1; i >= 0; i-- {
		op := t.ops[i]
		g, ok := grads[op.Output()]
		if !ok {
			continue
		}
		in := op.Inputs()
		for j, gj := range op.Backward(g, backend) {
			if gj == nil || j >= len(in) {
				continue
			}
			if prev, seen := grads[in[j]]; seen {
				gj = backend.Add(prev, gj)
			}
			grads[in[j]] = gj
		}
	}
	return grads
}
