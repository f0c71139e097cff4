package gradcam

import (
	"math"

	"github.com/born-ml/gradcam/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SaliencyMap is the Grad-CAM output of one layer for a batch.
type SaliencyMap struct {
	Layer string

	// Values has shape [N, 1, H, W] with H, W the input image size.
	// Every value is in [0, 1].
	Values *tensor.RawTensor

	// Degenerate[i] is true when image i had no positive evidence for
	// the selected class. Its map is all zeros.
	Degenerate []bool
}

// Image returns the H*W map of image i in row-major order.
func (m *SaliencyMap) Image(i int) []float32 {
	return m.Values.Row(i)
}

// Size returns the map's spatial size.
func (m *SaliencyMap) Size() (h, w int) {
	return m.Values.Shape().Spatial()
}

// weightedActivations computes relu(sum_c w_c * A_c) per image, where w_c
// is the spatial mean of the gradient of channel c. act and grad are
// [N, C, h, w]; the result is [N, 1, h, w].
func weightedActivations(act, grad *tensor.RawTensor) *tensor.RawTensor {
	shape := act.Shape()
	n, c := shape[0], shape[1]
	h, w := shape.Spatial()
	hw := h * w

	out := tensor.MustRaw(tensor.Shape{n, 1, h, w}, act.Device())

	for i := 0; i < n; i++ {
		// [C, h*w] views of image i
		g := mat.NewDense(c, hw, toFloat64(grad.Row(i)))
		a := mat.NewDense(c, hw, toFloat64(act.Row(i)))

		weights := mat.NewVecDense(c, nil)
		for ch := 0; ch < c; ch++ {
			weights.SetVec(ch, floats.Sum(g.RawRowView(ch))/float64(hw))
		}

		var cam mat.VecDense
		cam.MulVec(a.T(), weights)

		dst := out.Row(i)
		for j := range dst {
			dst[j] = float32(math.Max(cam.AtVec(j), 0))
		}
	}

	return out
}

// normalize rescales every image of an [N, 1, H, W] map to [0, 1] in place.
// Images whose range is zero or not finite are zeroed and reported.
func normalize(maps *tensor.RawTensor) []bool {
	n := maps.Shape()[0]
	degenerate := make([]bool, n)

	for i := 0; i < n; i++ {
		dst := maps.Row(i)
		v := toFloat64(dst)

		floats.AddConst(-floats.Min(v), v)
		peak := floats.Max(v)

		if !(peak > 0) || math.IsInf(peak, 0) {
			degenerate[i] = true
			clear(dst)
			continue
		}

		floats.Scale(1/peak, v)
		for j, x := range v {
			dst[j] = float32(math.Min(math.Max(x, 0), 1))
		}
	}

	return degenerate
}

func toFloat64(src []float32) []float64 {
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}
