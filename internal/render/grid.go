package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/born-ml/gradcam/internal/gradcam"
	"github.com/born-ml/gradcam/internal/tensor"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultTileSize is the edge length of one grid cell in pixels.
const DefaultTileSize = 128

// Options configures Grid.
type Options struct {
	// Mean and Std undo the input normalization, one entry per channel.
	Mean, Std []float64

	// ClassNames labels class ids. Ids without a name are printed as numbers.
	ClassNames []string

	// TileSize is the cell edge length; DefaultTileSize when zero.
	TileSize int
}

// Grid lays out a Grad-CAM result as an image.
//
// Column 0 holds row labels; column j+1 belongs to image j. Row 0 prints the
// predicted and actual class, row 1 shows the input and every further row the
// overlay of one layer's map, in the order of res.Maps.
func Grid(images []*tensor.RawTensor, labels []int, res *gradcam.Result, opts Options) (*image.RGBA, error) {
	if len(labels) != len(images) {
		return nil, fmt.Errorf("grid: %d labels for %d images: %w", len(labels), len(images), tensor.ErrShapeMismatch)
	}
	if len(res.Indices) != len(images) {
		return nil, fmt.Errorf("grid: %d predictions for %d images: %w", len(res.Indices), len(images), tensor.ErrShapeMismatch)
	}
	tile := opts.TileSize
	if tile <= 0 {
		tile = DefaultTileSize
	}

	cols, rows := len(images)+1, len(res.Maps)+2
	canvas := image.NewRGBA(image.Rect(0, 0, cols*tile, rows*tile))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	cell := func(row, col int) image.Rectangle {
		return image.Rect(col*tile, row*tile, (col+1)*tile, (row+1)*tile)
	}

	label(canvas, cell(1, 0), "INPUT")
	for i, m := range res.Maps {
		label(canvas, cell(i+2, 0), m.Layer)
	}

	for j, img := range images {
		base, err := Unnormalize(img, opts.Mean, opts.Std)
		if err != nil {
			return nil, fmt.Errorf("grid: image %d: %w", j, err)
		}

		label(canvas, cell(0, j+1),
			"pred="+className(opts.ClassNames, res.Predicted(j)),
			"actual="+className(opts.ClassNames, labels[j]),
		)
		draw.BiLinear.Scale(canvas, cell(1, j+1), base, base.Bounds(), draw.Src, nil)

		for i, m := range res.Maps {
			if h, w := m.Size(); h != base.Bounds().Dy() || w != base.Bounds().Dx() {
				return nil, fmt.Errorf("grid: map %s is %dx%d, image %d is %v: %w",
					m.Layer, h, w, j, base.Bounds().Size(), tensor.ErrShapeMismatch)
			}
			overlay := Overlay(base, m.Image(j))
			draw.BiLinear.Scale(canvas, cell(i+2, j+1), overlay, overlay.Bounds(), draw.Src, nil)
		}
	}

	return canvas, nil
}

// label writes lines of text into the vertical middle of r.
func label(dst draw.Image, r image.Rectangle, lines ...string) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	top := r.Min.Y + (r.Dy()-lineHeight*len(lines))/2 + face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(r.Min.X+4, top+i*lineHeight)
		d.DrawString(line)
	}
}

func className(names []string, id int) string {
	if id >= 0 && id < len(names) {
		return names[id]
	}
	return strconv.Itoa(id)
}
