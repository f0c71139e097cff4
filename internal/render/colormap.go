package render

import (
	"image"
	"image/color"
	"math"
)

// jet maps x in [0, 1] to the JET colormap, blue through red.
func jet(x float64) (r, g, b float64) {
	ramp := func(center float64) float64 {
		return math.Min(math.Max(1.5-math.Abs(4*x-center), 0), 1)
	}
	return ramp(3), ramp(2), ramp(1)
}

// Heat returns the overlay color of a saliency value in [0, 1].
//
// The value is inverted and looked up in a BGR JET table whose channels are
// then read as RGB, so salient regions render red and cold ones blue.
func Heat(v float32) color.RGBA {
	x := 1 - math.Min(math.Max(float64(v), 0), 1)
	r, g, b := jet(x)
	return color.RGBA{R: to8(b), G: to8(g), B: to8(r), A: 0xff}
}

// Overlay blends the heat colors of a row-major saliency map with base,
// half and half. The map must have one value per pixel of base.
func Overlay(base *image.RGBA, saliency []float32) *image.RGBA {
	bounds := base.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if len(saliency) != w*h {
		panic("render: saliency map does not match image size")
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := base.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			heat := Heat(saliency[y*w+x])
			out.SetRGBA(x, y, color.RGBA{
				R: blend(src.R, heat.R),
				G: blend(src.G, heat.G),
				B: blend(src.B, heat.B),
				A: 0xff,
			})
		}
	}
	return out
}

func blend(a, b uint8) uint8 {
	return uint8((uint16(a) + uint16(b) + 1) / 2)
}

func to8(x float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(x, 0), 1) * 255))
}
