package gradcam

import (
	"testing"

	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/require"
)

type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

// handNet is a two-class network with hand-set weights:
//
//	feat: 1x1 conv 1->2 with kernel [1, -1]    => channels x and -x
//	head: flatten, linear with class 0 = sum of channel 0, class 1 = sum of channel 1
//
// For class 0 the channel weights are (1, 0) and the map is x itself.
// For class 1 they are (0, 1) and the rectified map is zero.
func handNet(backend Backend) *nn.Network[Backend] {
	conv := nn.NewConv2D(1, 2, 1, 1, 1, 0, false, backend)
	copy(conv.Weight().Tensor().Data(), []float32{1, -1})

	linear := nn.NewLinear(8, 2, backend)
	copy(linear.Weight().Tensor().Data(), []float32{
		1, 1, 1, 1, 0, 0, 0, 0,
		0, 0, 0, 0, 1, 1, 1, 1,
	})

	net := nn.NewNetwork(backend,
		nn.Named[Backend]("feat", conv),
		nn.Named[Backend]("head", nn.NewSequential[Backend](nn.NewFlatten[Backend](), linear)),
	)
	net.Eval()
	return net
}

// handBatch returns two 1x2x2 images: [1 2; 3 4] and [4 3; 2 1].
func handBatch(t *testing.T, backend Backend) *tensor.Tensor[Backend] {
	t.Helper()
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 4, 3, 2, 1}, tensor.Shape{2, 1, 2, 2}, backend)
	require.NoError(t, err)
	return x
}

// twice runs its child layer two times per forward pass.
type twice struct {
	inner *nn.Layer[Backend]
}

func (m *twice) Forward(x *tensor.Tensor[Backend]) *tensor.Tensor[Backend] {
	return m.inner.Forward(m.inner.Forward(x))
}

func (m *twice) Parameters() []*nn.Parameter[Backend] { return m.inner.Parameters() }

func (m *twice) Children() []*nn.Layer[Backend] { return []*nn.Layer[Backend]{m.inner} }

func reusedLayerNet(backend Backend) *nn.Network[Backend] {
	net := nn.NewNetwork(backend,
		nn.Named[Backend]("block", &twice{inner: nn.Named[Backend]("relu", nn.NewReLU[Backend]())}),
		nn.Named[Backend]("head", nn.NewSequential[Backend](nn.NewFlatten[Backend](), nn.NewLinear(4, 2, backend))),
	)
	net.Eval()
	return net
}

func hookCount(net *nn.Network[Backend]) int {
	n := 0
	for _, l := range net.Layers() {
		n += l.NumHooks()
	}
	return n
}

// image fills a [C, H, W] tensor with a deterministic pattern in [-1, 1].
func image(c, h, w, seed int) *tensor.RawTensor {
	r := tensor.MustRaw(tensor.Shape{c, h, w}, tensor.CPU)
	for i := range r.AsFloat32() {
		r.AsFloat32()[i] = float32((i*7+seed*13)%17)/8 - 1
	}
	return r
}
