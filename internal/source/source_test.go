package source

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/bvlc/internal/synth"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageSourceFolder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b slide.png"), synth.Slide(64, 36))
	writePNG(t, filepath.Join(dir, "a.png"), synth.Checkerboard(8, 8, 1, 0, 255))
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644)

	src, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if src.Count() != 2 {
		t.Fatalf("Count = %d, want 2", src.Count())
	}
	if src.Name(0) != "a" || src.Name(1) != "b_slide" {
		t.Errorf("names %q, %q", src.Name(0), src.Name(1))
	}

	img, err := src.Load(1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 36 {
		t.Errorf("bounds %v", img.Bounds())
	}
}

func TestImageSourceSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tissue.png")
	writePNG(t, path, synth.Constant(4, 4, 10))

	src, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if src.Count() != 1 || src.Name(0) != "tissue" {
		t.Errorf("count %d name %q", src.Count(), src.Name(0))
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.png"), 0); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestIsImage(t *testing.T) {
	for _, p := range []string{"a.PNG", "b.jpeg", "c.tif", "d.bmp"} {
		if !IsImage(p) {
			t.Errorf("IsImage(%q) = false", p)
		}
	}
	for _, p := range []string{"a.pdf", "b.dcm", "c"} {
		if IsImage(p) {
			t.Errorf("IsImage(%q) = true", p)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 50, 0, 100, 50},
		{100, 50, 200, 100, 50},
		{100, 50, 40, 40, 20},
		{30, 90, 45, 15, 45},
	}
	for _, tt := range tests {
		got := Fit(synth.Constant(tt.w, tt.h, 100), tt.max).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("Fit(%dx%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestMemorySourceNames(t *testing.T) {
	src := NewMemorySource([]string{"qr"}, []image.Image{synth.Constant(2, 2, 0), synth.Constant(2, 2, 1)})
	if src.Name(0) != "qr" || src.Name(1) != "image_002" {
		t.Errorf("names %q, %q", src.Name(0), src.Name(1))
	}
}

func TestImageSourceSameStem(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "scan.png"), synth.Checkerboard(8, 8, 1, 0, 255))
	writePNG(t, filepath.Join(dir, "scan.tif.png"), synth.Constant(4, 4, 0))
	f, err := os.Create(filepath.Join(dir, "scan.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, synth.Slide(64, 36), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"scan_jpg", "scan_png", "scan.tif"}
	if src.Count() != len(want) {
		t.Fatalf("Count = %d, want %d", src.Count(), len(want))
	}
	for i, w := range want {
		if got := src.Name(i); got != w {
			t.Errorf("Name(%d) = %q, want %q", i, got, w)
		}
	}
}
