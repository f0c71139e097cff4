package nn

import (
	"testing"

	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayer_ForwardHook(t *testing.T) {
	backend := newBackend()
	net := tinyNet(backend)
	net.Eval()

	layer, ok := net.Layer("features.1")
	require.True(t, ok)

	var gotName string
	var gotShape tensor.Shape
	calls := 0
	handle := layer.RegisterForwardHook(func(name string, output *tensor.Tensor[Backend]) {
		calls++
		gotName = name
		gotShape = output.Shape().Clone()
	})

	net.Forward(ramp(32, backend, 2, 1, 4, 4))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "features.1", gotName)
	assert.True(t, tensor.Shape{2, 2, 4, 4}.Equal(gotShape))

	handle.Remove()
	handle.Remove()
	net.Forward(ramp(32, backend, 2, 1, 4, 4))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, layer.NumHooks())
}

func TestLayer_BackwardHookReceivesOutputGradient(t *testing.T) {
	backend := newBackend()
	net := tinyNet(backend)
	net.Eval()

	layer, ok := net.Layer("classifier.0")
	require.True(t, ok)

	var grad *tensor.RawTensor
	layer.RegisterBackwardHook(func(name string, g *tensor.RawTensor) {
		assert.Equal(t, "classifier.0", name)
		grad = g.Clone()
	})

	out := net.Forward(ramp(32, backend, 2, 1, 4, 4))

	// Seed class 1 for both images: the gradient of the flattened features
	// is row 1 of the linear weight.
	seed := tensor.Zeros(out.Shape(), backend)
	seed.Set(1, 0, 1)
	seed.Set(1, 1, 1)
	require.NoError(t, net.Backward(out, seed.Raw()))

	require.NotNil(t, grad)
	assert.True(t, tensor.Shape{2, 8}.Equal(grad.Shape()))

	linear := net.Parameters()[2]
	require.Equal(t, "weight", linear.Name())
	row := linear.Tensor().Raw().Row(1)
	assert.InDeltaSlice(t, row, grad.Row(0), 1e-6)
	assert.InDeltaSlice(t, row, grad.Row(1), 1e-6)
}

func TestLayer_HooksDoNotChangeOutput(t *testing.T) {
	backend := newBackend()
	net := tinyNet(backend)
	net.Eval()
	x := ramp(32, backend, 2, 1, 4, 4)

	plain := net.Forward(x).Detach()

	for _, l := range net.Layers() {
		l.RegisterForwardHook(func(string, *tensor.Tensor[Backend]) {})
		l.RegisterBackwardHook(func(string, *tensor.RawTensor) {})
	}
	hooked := net.Forward(x)

	assert.Equal(t, plain.Data(), hooked.Data())
}

func TestLayer_RemovedBackwardHookDoesNotFire(t *testing.T) {
	backend := newBackend()
	net := tinyNet(backend)
	net.Eval()

	layer, ok := net.Layer("features.2")
	require.True(t, ok)
	handle := layer.RegisterBackwardHook(func(string, *tensor.RawTensor) {
		t.Fatal("removed hook fired")
	})

	out := net.Forward(ramp(16, backend, 1, 1, 4, 4))
	handle.Remove()

	require.NoError(t, net.Backward(out, tensor.Full(out.Shape(), 1, backend).Raw()))
}

func TestLayer_ContainerHookSeesSequentialOutput(t *testing.T) {
	backend := newBackend()
	net := tinyNet(backend)
	net.Eval()

	layer, ok := net.Layer("features")
	require.True(t, ok)

	var shape tensor.Shape
	layer.RegisterForwardHook(func(_ string, output *tensor.Tensor[Backend]) {
		shape = output.Shape().Clone()
	})

	net.Forward(ramp(16, backend, 1, 1, 4, 4))
	assert.True(t, tensor.Shape{1, 2, 2, 2}.Equal(shape))
}

func TestNewNamedSequential_KeepsNames(t *testing.T) {
	backend := newBackend()
	net := NewNetwork(backend,
		Named[Backend]("features", NewNamedSequential(
			Named[Backend]("pool", NewMaxPool2D[Backend](2, 2)),
			Named[Backend]("act", NewReLU[Backend]()),
		)),
	)

	var names []string
	for _, l := range net.Layers() {
		names = append(names, l.Name())
	}
	assert.Equal(t, []string{"features", "features.pool", "features.act"}, names)
}
