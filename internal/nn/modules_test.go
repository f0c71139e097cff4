package nn

import (
	"testing"

	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConv2D_OutputShape(t *testing.T) {
	backend := newBackend()
	conv := NewConv2D(3, 8, 3, 3, 2, 1, true, backend)

	out := conv.Forward(tensor.Zeros(tensor.Shape{2, 3, 8, 8}, backend))

	assert.True(t, tensor.Shape{2, 8, 4, 4}.Equal(out.Shape()))
	assert.Equal(t, [2]int{4, 4}, conv.ComputeOutputSize(8, 8))
	assert.Len(t, conv.Parameters(), 2)
	assert.Contains(t, conv.String(), "Conv2D(in_channels=3, out_channels=8")
}

func TestConv2D_BiasIsAdded(t *testing.T) {
	backend := newBackend()
	conv := NewConv2D(1, 2, 1, 1, 1, 0, true, backend)
	copy(conv.Weight().Tensor().Data(), []float32{0, 0})
	copy(conv.Bias().Tensor().Data(), []float32{1.5, -2})

	out := conv.Forward(tensor.Zeros(tensor.Shape{1, 1, 2, 2}, backend))
	assert.Equal(t, []float32{1.5, 1.5, 1.5, 1.5, -2, -2, -2, -2}, out.Data())
}

func TestConv2D_InvalidInputPanics(t *testing.T) {
	backend := newBackend()
	conv := NewConv2D(3, 8, 3, 3, 1, 1, false, backend)

	assert.Nil(t, conv.Bias())
	assert.Panics(t, func() { conv.Forward(tensor.Zeros(tensor.Shape{3, 8, 8}, backend)) })
	assert.Panics(t, func() { conv.Forward(tensor.Zeros(tensor.Shape{1, 1, 8, 8}, backend)) })
	assert.Panics(t, func() { NewConv2D(0, 8, 3, 3, 1, 1, false, backend) })
}

func TestLinear_Forward(t *testing.T) {
	backend := newBackend()
	linear := NewLinear(2, 2, backend)
	copy(linear.Weight().Tensor().Data(), []float32{1, 2, 3, 4})
	copy(linear.Bias().Tensor().Data(), []float32{10, 20})

	x, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	out := linear.Forward(x)
	assert.Equal(t, []float32{13, 27}, out.Data())
	assert.Panics(t, func() { linear.Forward(tensor.Zeros(tensor.Shape{1, 3}, backend)) })
}

func TestMaxPool2DAndFlatten(t *testing.T) {
	backend := newBackend()

	x := ramp(32, backend, 2, 1, 4, 4)
	pooled := NewMaxPool2D[Backend](2, 2).Forward(x)
	assert.True(t, tensor.Shape{2, 1, 2, 2}.Equal(pooled.Shape()))

	flat := NewFlatten[Backend]().Forward(pooled)
	assert.True(t, tensor.Shape{2, 4}.Equal(flat.Shape()))
	assert.Equal(t, pooled.Data(), flat.Data())
}

func TestDropout_TrainAndEval(t *testing.T) {
	backend := newBackend()
	SeedInit(5)
	dropout := NewDropout[Backend](0.5)

	x := tensor.Full(tensor.Shape{1, 1000}, 1, backend)

	out := dropout.Forward(x)
	zeros := 0
	for _, v := range out.Data() {
		if v == 0 {
			zeros++
		} else {
			assert.Equal(t, float32(2), v)
		}
	}
	assert.Greater(t, zeros, 350)
	assert.Less(t, zeros, 650)

	dropout.SetTraining(false)
	assert.Same(t, x, dropout.Forward(x))

	assert.Panics(t, func() { NewDropout[Backend](1) })
}

func TestModules_String(t *testing.T) {
	backend := newBackend()

	assert.Equal(t, "ReLU()", NewReLU[Backend]().String())
	assert.Equal(t, "Flatten()", NewFlatten[Backend]().String())
	assert.Equal(t, "MaxPool2D(kernel_size=2, stride=2)", NewMaxPool2D[Backend](2, 2).String())
	assert.Equal(t, "Dropout(p=0.25)", NewDropout[Backend](0.25).String())
	assert.Equal(t, "Linear(in_features=4, out_features=3)", NewLinear(4, 3, backend).String())
	assert.Equal(t, "Sequential(2)", NewSequential[Backend](NewReLU[Backend](), NewFlatten[Backend]()).String())
}
