package gray

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ivlev/bvlc/internal/descriptor"
	"github.com/ivlev/bvlc/internal/synth"
)

func TestNewConverter(t *testing.T) {
	tests := []struct {
		mode     string
		wantMode Mode
		wantErr  bool
	}{
		{"grayscale", ModeGrayscale, false},
		{"", ModeGrayscale, false}, // default
		{"avg", ModeAverage, false},
		{"hsv", "", true},
		{"Grayscale", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			conv, err := NewConverter(tt.mode)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Errorf("Expected ErrInvalidMode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if conv.Mode() != tt.wantMode {
				t.Errorf("Mode() = %q, want %q", conv.Mode(), tt.wantMode)
			}
		})
	}
}

func TestConvertRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	luma := LumaConverter{}.Convert(img)
	if math.Abs(luma.At(0, 0)-255) > 1e-9 {
		t.Errorf("luma white = %v, want 255", luma.At(0, 0))
	}
	if want := 0.299*200 + 0.587*100 + 0.114*50; math.Abs(luma.At(0, 1)-want) > 1e-9 {
		t.Errorf("luma = %v, want %v", luma.At(0, 1), want)
	}

	avg := AverageConverter{}.Convert(img)
	if math.Abs(avg.At(0, 0)-255) > 1e-9 {
		t.Errorf("avg white = %v, want 255 (no wrap-around)", avg.At(0, 0))
	}
	if math.Abs(avg.At(0, 1)-350.0/3) > 1e-9 {
		t.Errorf("avg = %v, want %v", avg.At(0, 1), 350.0/3)
	}
}

func TestConvertGrayFastPath(t *testing.T) {
	src := synth.Checkerboard(5, 3, 1, 10, 200)
	sub := src.SubImage(image.Rect(1, 1, 4, 3)).(*image.Gray)

	for _, conv := range []Converter{LumaConverter{}, AverageConverter{}} {
		g := conv.Convert(sub)
		if g.Rows != 2 || g.Cols != 3 {
			t.Fatalf("%s: size %dx%d, want 2x3", conv.Mode(), g.Rows, g.Cols)
		}
		for y := 0; y < g.Rows; y++ {
			for x := 0; x < g.Cols; x++ {
				want := float64(src.GrayAt(x+1, y+1).Y)
				if g.At(y, x) != want {
					t.Errorf("%s: (%d,%d) = %v, want %v", conv.Mode(), y, x, g.At(y, x), want)
				}
			}
		}
	}
}

func TestConvertGray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 1, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 0xffff})
	g := LumaConverter{}.Convert(img)
	if g.At(0, 0) != 255 {
		t.Errorf("Gray16 max = %v, want 255", g.At(0, 0))
	}
}

func TestConvertIntoCropsRightEdge(t *testing.T) {
	src := synth.Stripes(5, 2, 1, true) // columns 0,255,0,255,0
	rgba := image.NewRGBA(src.Bounds())
	for y := 0; y < 2; y++ {
		for x := 0; x < 5; x++ {
			rgba.Set(x, y, src.At(x, y))
		}
	}

	for _, img := range []image.Image{src, rgba} {
		dst := descriptor.NewGrid(2, 4)
		LumaConverter{}.ConvertInto(img, dst)
		want := []float64{0, 255, 0, 255}
		for x, w := range want {
			if got := dst.At(1, x); math.Abs(got-w) > 1e-9 {
				t.Errorf("%T: At(1,%d) = %v, want %v", img, x, got, w)
			}
		}
	}
}
