package cpu

import (
	"testing"

	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(t *testing.T, data []float32, shape ...int) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.RawFromSlice(data, tensor.Shape(shape), tensor.CPU)
	require.NoError(t, err)
	return r
}

func TestCPUBackend_Metadata(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}

func TestCPUBackend_Add(t *testing.T) {
	backend := New()

	a := raw(t, []float32{1, 2, 3, 4}, 2, 2)
	b := raw(t, []float32{10, 20, 30, 40}, 2, 2)

	out := backend.Add(a, b)
	assert.Equal(t, []float32{11, 22, 33, 44}, out.AsFloat32())
}

func TestCPUBackend_AddBroadcastBias(t *testing.T) {
	backend := New()

	// [1, 2, 2, 2] + [1, 2, 1, 1]: per-channel bias
	x := raw(t, []float32{0, 0, 0, 0, 1, 1, 1, 1}, 1, 2, 2, 2)
	bias := raw(t, []float32{5, -1}, 1, 2, 1, 1)

	out := backend.Add(x, bias)
	assert.True(t, tensor.Shape{1, 2, 2, 2}.Equal(out.Shape()))
	assert.Equal(t, []float32{5, 5, 5, 5, 0, 0, 0, 0}, out.AsFloat32())
}

func TestCPUBackend_AddBroadcastRow(t *testing.T) {
	backend := New()

	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	row := raw(t, []float32{10, 20, 30}, 3)

	out := backend.Add(x, row)
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.AsFloat32())
}

func TestCPUBackend_AddIncompatiblePanics(t *testing.T) {
	backend := New()
	assert.Panics(t, func() {
		backend.Add(tensor.MustRaw(tensor.Shape{2, 3}, tensor.CPU), tensor.MustRaw(tensor.Shape{2, 4}, tensor.CPU))
	})
}

func TestCPUBackend_Mul(t *testing.T) {
	backend := New()

	x := raw(t, []float32{1, 2, 3, 4}, 2, 2)
	col := raw(t, []float32{2, 3}, 2, 1)

	out := backend.Mul(x, col)
	assert.Equal(t, []float32{2, 4, 9, 12}, out.AsFloat32())
}

func TestCPUBackend_MatMul(t *testing.T) {
	backend := New()

	a := raw(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := raw(t, []float32{7, 8, 9, 10, 11, 12}, 3, 2)

	out := backend.MatMul(a, b)
	assert.True(t, tensor.Shape{2, 2}.Equal(out.Shape()))
	assert.Equal(t, []float32{58, 64, 139, 154}, out.AsFloat32())
}

func TestCPUBackend_MatMulShapeMismatch(t *testing.T) {
	backend := New()
	assert.Panics(t, func() {
		backend.MatMul(tensor.MustRaw(tensor.Shape{2, 3}, tensor.CPU), tensor.MustRaw(tensor.Shape{2, 3}, tensor.CPU))
	})
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := New()

	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	out := backend.Transpose(x)

	assert.True(t, tensor.Shape{3, 2}.Equal(out.Shape()))
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32())
}

func TestCPUBackend_TransposeAxes(t *testing.T) {
	backend := New()

	// [1, 2, 3] -> [3, 1, 2]
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, 1, 2, 3)
	out := backend.Transpose(x, 2, 0, 1)

	assert.True(t, tensor.Shape{3, 1, 2}.Equal(out.Shape()))
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32())
	assert.Panics(t, func() { backend.Transpose(x, 0, 0, 1) })
}

func TestCPUBackend_Reshape(t *testing.T) {
	backend := New()

	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	out := backend.Reshape(x, tensor.Shape{3, 2})

	assert.True(t, tensor.Shape{3, 2}.Equal(out.Shape()))
	assert.Equal(t, x.AsFloat32(), out.AsFloat32())
	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{4}) })
}

func TestCPUBackend_ReLU(t *testing.T) {
	backend := New()

	x := raw(t, []float32{-2, -0.5, 0, 0.5, 2}, 5)
	out := backend.ReLU(x)

	assert.Equal(t, []float32{0, 0, 0, 0.5, 2}, out.AsFloat32())
	assert.Equal(t, float32(-2), x.AsFloat32()[0], "input must not be modified")
}

func TestCPUBackend_SumDim(t *testing.T) {
	backend := New()

	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)

	rows := backend.SumDim(x, 1, true)
	assert.True(t, tensor.Shape{2, 1}.Equal(rows.Shape()))
	assert.Equal(t, []float32{6, 15}, rows.AsFloat32())

	cols := backend.SumDim(x, 0, false)
	assert.True(t, tensor.Shape{3}.Equal(cols.Shape()))
	assert.Equal(t, []float32{5, 7, 9}, cols.AsFloat32())

	last := backend.SumDim(x, -1, false)
	assert.Equal(t, []float32{6, 15}, last.AsFloat32())
}
