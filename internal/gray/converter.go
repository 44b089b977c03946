package gray

import (
	"image"

	"github.com/ivlev/bvlc/internal/descriptor"
)

// Mode selects how a multi-channel image is reduced to one channel
type Mode string

const (
	// ModeGrayscale is the standard luma 0.299R + 0.587G + 0.114B.
	ModeGrayscale Mode = "grayscale"
	// ModeAverage is the unweighted mean of R, G and B.
	ModeAverage Mode = "avg"
)

// Converter turns a decoded image into a grid of intensities in [0, 255]
type Converter interface {
	Mode() Mode
	Convert(img image.Image) *descriptor.Grid
	// ConvertInto fills dst from the top-left dst.Rows x dst.Cols pixels of
	// img. dst must not be larger than img.
	ConvertInto(img image.Image, dst *descriptor.Grid)
}

// LumaConverter implements ModeGrayscale
type LumaConverter struct{}

func (LumaConverter) Mode() Mode { return ModeGrayscale }

func (c LumaConverter) Convert(img image.Image) *descriptor.Grid {
	dst := descriptor.NewGrid(img.Bounds().Dy(), img.Bounds().Dx())
	c.ConvertInto(img, dst)
	return dst
}

func (LumaConverter) ConvertInto(img image.Image, dst *descriptor.Grid) {
	convert(img, dst, luma)
}

func luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// AverageConverter implements ModeAverage. The sum is taken in float64, so
// bright pixels never wrap around.
type AverageConverter struct{}

func (AverageConverter) Mode() Mode { return ModeAverage }

func (c AverageConverter) Convert(img image.Image) *descriptor.Grid {
	dst := descriptor.NewGrid(img.Bounds().Dy(), img.Bounds().Dx())
	c.ConvertInto(img, dst)
	return dst
}

func (AverageConverter) ConvertInto(img image.Image, dst *descriptor.Grid) {
	convert(img, dst, average)
}

func average(r, g, b float64) float64 {
	return (r + g + b) / 3
}

// convert walks the image once. Single-channel sources are copied directly,
// since every reduction of R = G = B is the identity.
func convert(img image.Image, out *descriptor.Grid, reduce func(r, g, b float64) float64) {
	bounds := img.Bounds()

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < out.Rows; y++ {
			row := out.Row(y)
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for x := range row {
				row[x] = float64(src.Pix[off+x])
			}
		}
		return
	case *image.Gray16:
		for y := 0; y < out.Rows; y++ {
			row := out.Row(y)
			for x := range row {
				row[x] = float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y) / 257
			}
		}
		return
	}

	for y := 0; y < out.Rows; y++ {
		row := out.Row(y)
		for x := range row {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			row[x] = reduce(float64(r)/257, float64(g)/257, float64(b)/257)
		}
	}
}
