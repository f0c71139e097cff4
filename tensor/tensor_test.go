// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/gradcam/backend/cpu"
	"github.com/born-ml/gradcam/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, -2, 3, -4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	y := x.ReLU()
	assert.Equal(t, []float32{1, 0, 3, 0}, y.Data())
	assert.Equal(t, tensor.CPU, y.Device())
}

func TestZerosAndFull(t *testing.T) {
	backend := cpu.New()

	assert.Equal(t, []float32{0, 0, 0}, tensor.Zeros(tensor.Shape{3}, backend).Data())
	assert.Equal(t, []float32{2, 2}, tensor.Full(tensor.Shape{1, 2}, 2, backend).Data())
}

func TestStack(t *testing.T) {
	a, err := tensor.RawFromSlice([]float32{1, 2}, tensor.Shape{1, 1, 2}, tensor.CPU)
	require.NoError(t, err)
	b, err := tensor.RawFromSlice([]float32{3, 4}, tensor.Shape{1, 1, 2}, tensor.CPU)
	require.NoError(t, err)

	batch, err := tensor.Stack([]*tensor.RawTensor{a, b}, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 1, 1, 2}, batch.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4}, batch.AsFloat32())

	_, err = tensor.Stack(nil, tensor.CPU)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestSortDesc(t *testing.T) {
	scores, err := tensor.RawFromSlice([]float32{0.1, 0.7, 0.2}, tensor.Shape{1, 3}, tensor.CPU)
	require.NoError(t, err)

	values, classes := tensor.SortDesc(scores)
	assert.Equal(t, []float32{0.7, 0.2, 0.1}, values.AsFloat32())
	assert.Equal(t, [][]int{{1, 2, 0}}, classes)
}
