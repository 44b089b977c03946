package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImageExtensions lists the raster formats ImageSource decodes
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp"}

// IsImage reports whether path has one of ImageExtensions
func IsImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ImageSource reads a single image file or every image of a folder, sorted
// by name.
type ImageSource struct {
	paths []string
	names []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && IsImage(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths, names: uniqueStems(paths)}, nil
}

// uniqueStems names every path by its stem. Paths sharing a stem, such as
// scan.png and scan.jpg, keep their extension: scan_png, scan_jpg.
func uniqueStems(paths []string) []string {
	count := make(map[string]int, len(paths))
	for _, p := range paths {
		count[stem(p)]++
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		name := stem(p)
		if count[name] > 1 {
			name += "_" + strings.TrimPrefix(strings.ToLower(filepath.Ext(p)), ".")
		}
		names[i] = name
	}
	return names
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

func (s *ImageSource) Name(index int) string {
	return s.names[index]
}

func (s *ImageSource) Load(index int) (image.Image, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.paths[index], err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}

// MemorySource serves images that are already decoded, e.g. synthetic patterns
type MemorySource struct {
	names  []string
	images []image.Image
}

func NewMemorySource(names []string, images []image.Image) *MemorySource {
	return &MemorySource{names: names, images: images}
}

func (s *MemorySource) Count() int { return len(s.images) }

func (s *MemorySource) Name(index int) string {
	if index < len(s.names) && s.names[index] != "" {
		return s.names[index]
	}
	return fmt.Sprintf("image_%03d", index+1)
}

func (s *MemorySource) Load(index int) (image.Image, error) {
	return s.images[index], nil
}

func (s *MemorySource) Close() error { return nil }
