package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Format is the raster container of an exported map
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// ErrUnsupportedFormat is returned for an image format other than png or tiff
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ParseFormat accepts "png", "tif" and "tiff" (case-insensitive, optional dot).
// An empty string selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "", "png":
		return FormatPNG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension including the dot
func (f Format) Ext() string {
	if f == FormatTIFF {
		return ".tif"
	}
	return ".png"
}

// WriteImage encodes img to w.
func WriteImage(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG, "":
		return png.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// SaveImage writes img to path, choosing the format from the extension.
func SaveImage(path string, img image.Image) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteImage(file, img, f); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
