// Package synth draws deterministic test images: flat fields, checkerboards,
// stripes, a slide-like layout of filled rectangles and QR codes. They are
// used by the tests and by the -synthetic input of the command line tool.
package synth

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/skip2/go-qrcode"
)

// Constant returns a width x height image filled with v
func Constant(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// Checkerboard alternates lo and hi in square cells of the given side,
// starting with lo in the top-left corner.
func Checkerboard(width, height, cell int, lo, hi uint8) *image.Gray {
	if cell < 1 {
		cell = 1
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := lo
			if (x/cell+y/cell)%2 == 1 {
				v = hi
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

// Stripes draws alternating black and white bands of the given period.
// Vertical bands vary along x.
func Stripes(width, height, period int, vertical bool) *image.Gray {
	if period < 1 {
		period = 1
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := y
			if vertical {
				pos = x
			}
			if (pos/period)%2 == 1 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// Slide draws a light background with dark title, subtitle, content and
// footer blocks, scaled to the requested size.
func Slide(width, height int) *image.Gray {
	img := Constant(width, height, 240)
	sx := func(v int) int { return v * width / 1920 }
	sy := func(v int) int { return v * height / 1080 }

	DrawRect(img, sx(200), sy(100), sx(1520), sy(250), color.Gray{Y: 50})
	DrawRect(img, sx(200), sy(300), sx(1520), sy(380), color.Gray{Y: 80})
	DrawRect(img, sx(200), sy(450), sx(900), sy(700), color.Gray{Y: 60})
	DrawRect(img, sx(1020), sy(450), sx(1720), sy(700), color.Gray{Y: 60})
	DrawRect(img, sx(200), sy(950), sx(1720), sy(1020), color.Gray{Y: 100})
	return img
}

// DrawRect fills [x1,x2) x [y1,y2), clipped to the image
func DrawRect(img *image.Gray, x1, y1, x2, y2 int, c color.Gray) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, c)
		}
	}
}

// QR renders content as a size x size QR code without the quiet zone.
func QR(content string, size int) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	q.DisableBorder = true
	return q.Image(size), nil
}

// New builds a pattern by name: constant, checkerboard, stripes, slide or
// qr. For qr the size is min(width, height) and the content is arg; for the
// other patterns arg is ignored.
func New(kind string, width, height int, arg string) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid pattern size %dx%d", width, height)
	}
	switch strings.ToLower(kind) {
	case "constant":
		return Constant(width, height, 128), nil
	case "checkerboard", "checker":
		return Checkerboard(width, height, 1, 0, 255), nil
	case "stripes":
		return Stripes(width, height, 2, true), nil
	case "slide":
		return Slide(width, height), nil
	case "qr":
		if arg == "" {
			arg = "bvlc"
		}
		size := width
		if height < size {
			size = height
		}
		return QR(arg, size)
	default:
		return nil, fmt.Errorf("unknown pattern: %s", kind)
	}
}
