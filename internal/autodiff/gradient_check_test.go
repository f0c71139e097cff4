package autodiff

import (
	"testing"

	"github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
)

// convNet computes sum(seed * maxpool(relu(conv(x, k) + b))) on the plain
// CPU backend. It is the reference for the finite-difference checks.
func convNet(x, k, b, seed *tensor.RawTensor) float64 {
	backend := cpu.New()
	out := backend.Conv2D(x, k, 1, 1)
	out = backend.Add(out, b.View(tensor.Shape{1, b.NumElements(), 1, 1}))
	out = backend.ReLU(out)
	out, _ = backend.MaxPool2D(out, 2, 2)

	var s float64
	for i, v := range out.AsFloat32() {
		s += float64(v) * float64(seed.AsFloat32()[i])
	}
	return s
}

func fill(shape tensor.Shape, fn func(i int) float32) *tensor.RawTensor {
	r := tensor.MustRaw(shape, tensor.CPU)
	for i := range r.AsFloat32() {
		r.AsFloat32()[i] = fn(i)
	}
	return r
}

func TestGradientCheck_ConvReLUPool(t *testing.T) {
	const eps = 1e-2

	x := fill(tensor.Shape{1, 2, 4, 4}, func(i int) float32 { return float32((i*7)%11)*0.1 - 0.5 })
	k := fill(tensor.Shape{3, 2, 3, 3}, func(i int) float32 { return float32((i*5)%9)*0.1 - 0.4 })
	b := fill(tensor.Shape{3}, func(i int) float32 { return float32(i) * 0.1 })
	seed := fill(tensor.Shape{1, 3, 2, 2}, func(i int) float32 { return float32(i%4) - 1.5 })

	backend := newRecording()
	xt := tensor.New(x.Clone(), backend)
	kt := tensor.New(k.Clone(), backend)
	bt := tensor.New(b.Clone(), backend)

	out := tensor.New(backend.Conv2D(xt.Raw(), kt.Raw(), 1, 1), backend)
	out = out.Add(bt.Reshape(1, 3, 1, 1)).ReLU()
	pooled, _ := backend.MaxPool2D(out.Raw(), 2, 2)

	grads := backend.Tape().Backward(pooled, seed, backend)

	check := func(name string, param *tensor.RawTensor, grad *tensor.RawTensor) {
		t.Helper()
		if !assert.NotNil(t, grad, name) {
			return
		}
		data := param.AsFloat32()
		for i := range data {
			orig := data[i]
			data[i] = orig + eps
			plus := convNet(x, k, b, seed)
			data[i] = orig - eps
			minus := convNet(x, k, b, seed)
			data[i] = orig

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, grad.AsFloat32()[i], 5e-2, "%s[%d]", name, i)
		}
	}

	check("input", x, grads[xt.Raw()])
	check("kernel", k, grads[kt.Raw()])
	check("bias", b, grads[bt.Raw()])
}
