package cpu

import (
	"testing"

	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestMaxPool2D_BasicForward(t *testing.T) {
	backend := New()

	// 4x4 with values 1..16
	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i + 1)
	}
	input := raw(t, data, 1, 1, 4, 4)

	out, indices := backend.MaxPool2D(input, 2, 2)

	assert.True(t, tensor.Shape{1, 1, 2, 2}.Equal(out.Shape()))
	assert.Equal(t, []float32{6, 8, 14, 16}, out.AsFloat32())
	assert.Equal(t, []int{5, 7, 13, 15}, indices)
}

func TestMaxPool2D_LargeWindow(t *testing.T) {
	backend := New()

	// 224 / 32 windows -> 7x7, as used by the probe model.
	input := tensor.MustRaw(tensor.Shape{2, 3, 224, 224}, tensor.CPU)
	out, _ := backend.MaxPool2D(input, 32, 32)

	assert.True(t, tensor.Shape{2, 3, 7, 7}.Equal(out.Shape()))
}

func TestMaxPool2D_Backward(t *testing.T) {
	backend := New()

	input := raw(t, []float32{
		1, 9, 2, 3,
		4, 5, 8, 1,
		0, 1, 2, 3,
		7, 1, 4, 6,
	}, 1, 1, 4, 4)

	out, indices := backend.MaxPool2D(input, 2, 2)
	assert.Equal(t, []float32{9, 8, 7, 6}, out.AsFloat32())

	grad := raw(t, []float32{1, 2, 3, 4}, 1, 1, 2, 2)
	inputGrad := backend.MaxPool2DBackward(input, grad, indices, 2, 2)

	assert.Equal(t, []float32{
		0, 1, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 0,
		3, 0, 0, 4,
	}, inputGrad.AsFloat32())
}

func TestMaxPool2D_InvalidInputPanics(t *testing.T) {
	backend := New()
	assert.Panics(t, func() { backend.MaxPool2D(tensor.MustRaw(tensor.Shape{4, 4}, tensor.CPU), 2, 2) })
	assert.Panics(t, func() { backend.MaxPool2D(tensor.MustRaw(tensor.Shape{1, 1, 2, 2}, tensor.CPU), 3, 1) })
}
