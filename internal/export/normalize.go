package export

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ivlev/bvlc/internal/descriptor"
)

// Normalize rescales a descriptor map linearly to [0, 255]:
//
//	round(255 * (v - min) / (max - min))
//
// A map whose values are all equal (or an empty map) has no range to stretch
// and yields an all-zero image.
func Normalize(m *descriptor.Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	if len(m.Pix) == 0 {
		return img
	}

	lo, hi := floats.Min(m.Pix), floats.Max(m.Pix)
	span := hi - lo
	if !(span > 0) || math.IsInf(span, 0) {
		return img
	}

	for y := 0; y < m.Rows; y++ {
		row := m.Row(y)
		off := img.PixOffset(0, y)
		for x, v := range row {
			img.Pix[off+x] = uint8(math.Round(255 * (v - lo) / span))
		}
	}
	return img
}

// Summary describes the value distribution of a descriptor map
type Summary struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Mean  float64 `yaml:"mean"`
	Std   float64 `yaml:"std"`
	Zeros int     `yaml:"zeros"` // cells equal to 0, visited or not
	Cells int     `yaml:"cells"`
}

// Summarize computes a Summary; an empty map yields the zero value.
func Summarize(m *descriptor.Grid) Summary {
	s := Summary{Cells: len(m.Pix)}
	if s.Cells == 0 {
		return s
	}
	s.Min = floats.Min(m.Pix)
	s.Max = floats.Max(m.Pix)
	s.Mean, s.Std = stat.PopMeanStdDev(m.Pix, nil)
	for _, v := range m.Pix {
		if v == 0 {
			s.Zeros++
		}
	}
	return s
}
