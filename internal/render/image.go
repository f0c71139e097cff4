package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	// Decoders for Load.
	_ "image/jpeg"

	"github.com/born-ml/gradcam/internal/tensor"
	"golang.org/x/image/draw"
)

// Unnormalize converts a normalized [C, H, W] image back to RGBA:
// every channel becomes x*std[c] + mean[c], clamped to [0, 1].
// One-channel images are rendered as grayscale.
func Unnormalize(img *tensor.RawTensor, mean, std []float64) (*image.RGBA, error) {
	shape := img.Shape()
	if len(shape) != 3 || (shape[0] != 1 && shape[0] != 3) {
		return nil, fmt.Errorf("unnormalize: image shape %v is not [1|3, H, W]: %w", shape, tensor.ErrShapeMismatch)
	}
	c, h, w := shape[0], shape[1], shape[2]
	if len(mean) != c || len(std) != c {
		return nil, fmt.Errorf("unnormalize: %d channels, %d means, %d stds: %w", c, len(mean), len(std), tensor.ErrShapeMismatch)
	}

	data := img.AsFloat32()
	channel := func(ch, y, x int) uint8 {
		return to8(float64(data[(ch*h+y)*w+x])*std[ch] + mean[ch])
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c == 1 {
				v := channel(0, y, x)
				out.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 0xff})
				continue
			}
			out.SetRGBA(x, y, color.RGBA{
				R: channel(0, y, x),
				G: channel(1, y, x),
				B: channel(2, y, x),
				A: 0xff,
			})
		}
	}
	return out, nil
}

// Normalize resizes img to w x h and converts it to a [C, H, W] tensor with
// (x/255 - mean[c]) / std[c] per channel. C is len(mean): 3 for RGB, 1 for
// grayscale.
func Normalize(img image.Image, w, h int, mean, std []float64) (*tensor.RawTensor, error) {
	c := len(mean)
	if (c != 1 && c != 3) || len(std) != c {
		return nil, fmt.Errorf("normalize: %d means, %d stds: %w", len(mean), len(std), tensor.ErrShapeMismatch)
	}

	resized := Resize(img, w, h)
	out, err := tensor.NewRaw(tensor.Shape{c, h, w}, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	data := out.AsFloat32()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := resized.RGBAAt(x, y)
			values := []uint8{px.R, px.G, px.B}
			if c == 1 {
				values = []uint8{color.GrayModel.Convert(px).(color.Gray).Y}
			}
			for ch, v := range values {
				data[(ch*h+y)*w+x] = float32((float64(v)/255 - mean[ch]) / std[ch])
			}
		}
	}
	return out, nil
}

// Resize scales img to w x h with bilinear interpolation.
func Resize(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Load decodes a PNG or JPEG file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG writes img to a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
