package synth

import "testing"

func TestCheckerboard(t *testing.T) {
	img := Checkerboard(4, 4, 1, 0, 255)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint8(0)
			if (x+y)%2 == 1 {
				want = 255
			}
			if got := img.GrayAt(x, y).Y; got != want {
				t.Errorf("(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"constant", false},
		{"checkerboard", false},
		{"stripes", false},
		{"slide", false},
		{"qr", false},
		{"noise", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			img, err := New(tt.kind, 64, 48, "")
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
				t.Errorf("empty image: %v", img.Bounds())
			}
		})
	}
}

func TestQRHasBothLevels(t *testing.T) {
	img, err := QR("https://example.com/tissue/047", 100)
	if err != nil {
		t.Fatalf("QR failed: %v", err)
	}
	var dark, light bool
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r == 0 {
				dark = true
			} else {
				light = true
			}
		}
	}
	if !dark || !light {
		t.Errorf("QR image is flat (dark=%v light=%v)", dark, light)
	}
}
