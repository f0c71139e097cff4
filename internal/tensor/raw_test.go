package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRaw_ZeroFilled(t *testing.T) {
	r, err := NewRaw(Shape{2, 3}, CPU)
	require.NoError(t, err)

	assert.Equal(t, 6, r.NumElements())
	assert.Equal(t, []int{3, 1}, r.Strides())
	for _, v := range r.AsFloat32() {
		assert.Equal(t, float32(0), v)
	}
}

func TestNewRaw_InvalidShape(t *testing.T) {
	_, err := NewRaw(Shape{2, 0}, CPU)
	assert.Error(t, err)
}

func TestRawFromSlice_LengthMismatch(t *testing.T) {
	_, err := RawFromSlice([]float32{1, 2, 3}, Shape{2, 2}, CPU)
	assert.Error(t, err)
}

func TestRawTensor_CloneOwnsMemory(t *testing.T) {
	r, err := RawFromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, CPU)
	require.NoError(t, err)

	c := r.Clone()
	c.AsFloat32()[0] = 42

	assert.Equal(t, float32(1), r.AsFloat32()[0], "clone must not alias the source")
	assert.True(t, c.Shape().Equal(r.Shape()))
}

func TestRawTensor_ViewSharesMemory(t *testing.T) {
	r, err := RawFromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, CPU)
	require.NoError(t, err)

	v := r.View(Shape{3, 2})
	v.AsFloat32()[5] = 60

	assert.Equal(t, float32(60), r.AsFloat32()[5])
	assert.NotSame(t, r, v)
	assert.Panics(t, func() { r.View(Shape{4, 2}) })
}

func TestRawTensor_To(t *testing.T) {
	r := MustRaw(Shape{2}, CPU)
	moved := r.To(WebGPU)

	assert.Equal(t, WebGPU, moved.Device())
	assert.Equal(t, CPU, r.Device())
}

func TestRawTensor_Row(t *testing.T) {
	r, err := RawFromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, CPU)
	require.NoError(t, err)

	assert.Equal(t, []float32{4, 5, 6}, r.Row(1))
	assert.Panics(t, func() { r.Row(2) })
}

func TestDevice_String(t *testing.T) {
	assert.Equal(t, "CPU", CPU.String())
	assert.Equal(t, "WebGPU", WebGPU.String())
	assert.Equal(t, "Unknown", Device(99).String())
}
