package source

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
	"github.com/suyashkumar/dicom/pkg/uid"
)

func mustElement(t *testing.T, tg tag.Tag, data any) *dicom.Element {
	t.Helper()
	el, err := dicom.NewElement(tg, data)
	if err != nil {
		t.Fatalf("NewElement %v: %v", tg, err)
	}
	return el
}

// writeDicom stores a single 12-bit native frame of 2x2 samples.
func writeDicom(t *testing.T, path string, samples []uint16) {
	t.Helper()
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(t, tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.1.2"}),
		mustElement(t, tag.MediaStorageSOPInstanceUID, []string{"1.2.3.4.5.6.7"}),
		mustElement(t, tag.TransferSyntaxUID, []string{uid.ImplicitVRLittleEndian}),
		mustElement(t, tag.Rows, []int{2}),
		mustElement(t, tag.Columns, []int{2}),
		mustElement(t, tag.BitsAllocated, []int{16}),
		mustElement(t, tag.BitsStored, []int{12}),
		mustElement(t, tag.NumberOfFrames, []string{"1"}),
		mustElement(t, tag.SamplesPerPixel, []int{1}),
		mustElement(t, tag.PixelData, dicom.PixelDataInfo{
			Frames: []*frame.Frame{{
				NativeData: &frame.NativeFrame[uint16]{
					InternalBitsPerSample:   16,
					InternalRows:            2,
					InternalCols:            2,
					InternalSamplesPerPixel: 1,
					RawData:                 samples,
				},
			}},
		}),
	}}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := dicom.Write(f, ds); err != nil {
		t.Fatalf("dicom.Write: %v", err)
	}
}

func TestDicomSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ct slice.dcm")
	writeDicom(t, path, []uint16{0, 4095, 2048, 100})

	src, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if src.Count() != 1 || src.Name(0) != "ct_slice" {
		t.Fatalf("count %d name %q", src.Count(), src.Name(0))
	}
	img, err := src.Load(0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	g, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("frame decoded to %T", img)
	}
	if g.Gray16At(0, 0).Y != 0 || g.Gray16At(1, 0).Y != 0xffff {
		t.Errorf("12-bit range not widened: %d, %d", g.Gray16At(0, 0).Y, g.Gray16At(1, 0).Y)
	}
}

func TestDicomSourceRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.dcm")
	os.WriteFile(path, []byte("not a dicom file"), 0644)
	if _, err := Open(path, 0); err == nil {
		t.Error("expected error for malformed DICOM")
	}
}

func TestWiden(t *testing.T) {
	tests := []struct {
		bits     int
		in, want uint16
	}{
		{12, 0, 0},
		{12, 4095, 0xffff},
		{12, 5000, 0xffff}, // above the stored range
		{8, 255, 0xffff},
		{8, 128, 32896},
		{16, 1234, 1234},
		{0, 1234, 1234},
	}
	for _, tt := range tests {
		img := image.NewGray16(image.Rect(0, 0, 1, 1))
		img.Pix[0], img.Pix[1] = uint8(tt.in>>8), uint8(tt.in)
		widen(img, tt.bits)
		if got := img.Gray16At(0, 0).Y; got != tt.want {
			t.Errorf("widen(%d, %d bits) = %d, want %d", tt.in, tt.bits, got, tt.want)
		}
	}
}
