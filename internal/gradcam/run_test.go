package gradcam

import (
	"testing"

	"github.com/born-ml/gradcam/internal/models"
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Probe224(t *testing.T) {
	backend := newBackend()
	nn.SeedInit(42)
	net := models.Probe224(10, backend)

	images := []*tensor.RawTensor{image(3, 224, 224, 1), image(3, 224, 224, 2)}

	res, err := Run(net, images, []int{3, 7}, []string{"features.conv"})
	require.NoError(t, err)

	require.Len(t, res.Maps, 1)
	m := res.Maps[0]
	assert.Equal(t, "features.conv", m.Layer)
	assert.True(t, tensor.Shape{2, 1, 224, 224}.Equal(m.Values.Shape()))
	for i, v := range m.Values.AsFloat32() {
		require.True(t, v >= 0 && v <= 1, "value %d = %v", i, v)
	}

	assert.True(t, tensor.Shape{2, 10}.Equal(res.Scores.Shape()))
	require.Len(t, res.Indices, 2)
	for i := 0; i < 2; i++ {
		row := res.Scores.Row(i)
		for j := 1; j < len(row); j++ {
			assert.GreaterOrEqual(t, row[j-1], row[j])
		}
		assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, res.Indices[i])
		assert.Equal(t, res.Indices[i][0], res.Predicted(i))
	}

	assert.False(t, net.IsTraining())
	assert.Zero(t, hookCount(net))
}

func TestRun_LayersInRequestedOrder(t *testing.T) {
	backend := newBackend()
	nn.SeedInit(1)
	net := models.CIFARVGG(10, backend)

	images := []*tensor.RawTensor{image(3, 32, 32, 5)}
	layers := []string{"features.11", "features.3", "features.8"}

	res, err := Run(net, images, []int{0}, layers)
	require.NoError(t, err)

	require.Len(t, res.Maps, 3)
	for i, layer := range layers {
		assert.Equal(t, layer, res.Maps[i].Layer)
		h, w := res.Maps[i].Size()
		assert.Equal(t, 32, h)
		assert.Equal(t, 32, w)
	}
}

func TestRun_KnownMap(t *testing.T) {
	backend := newBackend()
	net := handNet(backend)

	images := []*tensor.RawTensor{
		rawOf(t, []float32{1, 2, 3, 4}, 1, 2, 2),
		rawOf(t, []float32{4, 3, 2, 1}, 1, 2, 2),
	}

	res, err := Run(net, images, []int{0, 1}, []string{"feat"})
	require.NoError(t, err)

	m := res.Maps[0]
	assert.InDeltaSlice(t, []float32{0, 1.0 / 3, 2.0 / 3, 1}, m.Image(0), 1e-6)
	assert.Equal(t, []bool{false, true}, m.Degenerate)
	assert.Equal(t, 0, res.Predicted(0))
	assert.Equal(t, 0, res.Predicted(1))
}

func TestRun_Errors(t *testing.T) {
	backend := newBackend()
	img := rawOf(t, []float32{1, 2, 3, 4}, 1, 2, 2)

	tests := []struct {
		name    string
		net     *nn.Network[Backend]
		images  []*tensor.RawTensor
		labels  []int
		layers  []string
		wantErr error
	}{
		{
			name:    "no target layers",
			net:     handNet(backend),
			images:  []*tensor.RawTensor{img},
			labels:  []int{0},
			wantErr: ErrLayerNotFound,
		},
		{
			name:    "unknown layer",
			net:     handNet(backend),
			images:  []*tensor.RawTensor{img},
			labels:  []int{0},
			layers:  []string{"features.3"},
			wantErr: ErrLayerNotFound,
		},
		{
			name:    "label count",
			net:     handNet(backend),
			images:  []*tensor.RawTensor{img, img},
			labels:  []int{0},
			layers:  []string{"feat"},
			wantErr: ErrShapeMismatch,
		},
		{
			name:    "label out of range",
			net:     handNet(backend),
			images:  []*tensor.RawTensor{img},
			labels:  []int{2},
			layers:  []string{"feat"},
			wantErr: ErrShapeMismatch,
		},
		{
			name:    "mixed image sizes",
			net:     handNet(backend),
			images:  []*tensor.RawTensor{img, rawOf(t, make([]float32, 9), 1, 3, 3)},
			labels:  []int{0, 0},
			layers:  []string{"feat"},
			wantErr: ErrShapeMismatch,
		},
		{
			name:    "no images",
			net:     handNet(backend),
			layers:  []string{"feat"},
			wantErr: ErrShapeMismatch,
		},
		{
			name:    "layer called twice",
			net:     reusedLayerNet(backend),
			images:  []*tensor.RawTensor{img},
			labels:  []int{0},
			layers:  []string{"block", "block.relu"},
			wantErr: ErrAmbiguousLayer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(tt.net, tt.images, tt.labels, tt.layers)

			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, hookCount(tt.net), "hooks must be released on error")
		})
	}
}

func TestRun_SwitchesToEval(t *testing.T) {
	backend := newBackend()
	net := handNet(backend)
	net.Train()

	_, err := Run(net, []*tensor.RawTensor{rawOf(t, []float32{1, 2, 3, 4}, 1, 2, 2)}, []int{0}, []string{"feat"})
	require.NoError(t, err)
	assert.False(t, net.IsTraining())
}
