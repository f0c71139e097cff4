package gradcam

import (
	"math"
	"testing"

	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawOf(t *testing.T, data []float32, shape ...int) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.RawFromSlice(data, shape, tensor.CPU)
	require.NoError(t, err)
	return r
}

func TestWeightedActivations(t *testing.T) {
	// One image, two channels of 1x2.
	act := rawOf(t, []float32{
		1, 2,
		3, -4,
	}, 1, 2, 1, 2)
	grad := rawOf(t, []float32{
		1, 3, // mean 2
		-1, -1, // mean -1
	}, 1, 2, 1, 2)

	cam := weightedActivations(act, grad)

	assert.True(t, tensor.Shape{1, 1, 1, 2}.Equal(cam.Shape()))
	// 2*[1 2] - [3 -4] = [-1 8], rectified.
	assert.Equal(t, []float32{0, 8}, cam.AsFloat32())
}

func TestWeightedActivations_PerImage(t *testing.T) {
	act := rawOf(t, []float32{1, 1, 2, 2}, 2, 1, 1, 2)
	grad := rawOf(t, []float32{1, 1, -1, -1}, 2, 1, 1, 2)

	cam := weightedActivations(act, grad)

	assert.Equal(t, []float32{1, 1, 0, 0}, cam.AsFloat32())
}

func TestNormalize(t *testing.T) {
	maps := rawOf(t, []float32{
		2, 4, 6,
		5, 5, 5,
		0, 0, 0,
		1, float32(math.Inf(1)), 0,
	}, 4, 1, 1, 3)

	degenerate := normalize(maps)

	assert.Equal(t, []bool{false, true, true, true}, degenerate)
	assert.InDeltaSlice(t, []float32{0, 0.5, 1}, maps.Row(0), 1e-7)
	assert.Equal(t, []float32{0, 0, 0}, maps.Row(1))
	assert.Equal(t, []float32{0, 0, 0}, maps.Row(2))
	assert.Equal(t, []float32{0, 0, 0}, maps.Row(3))
}

func TestSaliencyMap_Accessors(t *testing.T) {
	m := &SaliencyMap{
		Layer:      "features.3",
		Values:     rawOf(t, []float32{0, 1, 0.5, 0.25, 1, 0}, 2, 1, 1, 3),
		Degenerate: []bool{false, false},
	}

	h, w := m.Size()
	assert.Equal(t, 1, h)
	assert.Equal(t, 3, w)
	assert.Equal(t, []float32{0.25, 1, 0}, m.Image(1))
}
