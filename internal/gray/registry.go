package gray

import (
	"errors"
	"fmt"
)

// ErrInvalidMode is returned for a conversion mode other than "grayscale" or "avg"
var ErrInvalidMode = errors.New("invalid conversion mode")

// NewConverter creates a converter for the given mode. An empty mode selects
// the luma conversion.
func NewConverter(mode string) (Converter, error) {
	switch Mode(mode) {
	case ModeGrayscale, "":
		return LumaConverter{}, nil
	case ModeAverage:
		return AverageConverter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidMode, mode, ModeGrayscale, ModeAverage)
	}
}
