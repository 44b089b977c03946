package source

import (
	"fmt"
	"image"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// DicomSource serves the frames of a DICOM file's pixel data.
// Native frames decode to image.Gray16 holding the stored sample values;
// encapsulated JPEG frames to whatever the JPEG decoder yields.
type DicomSource struct {
	path       string
	info       dicom.PixelDataInfo
	bitsStored int
}

func NewDicomSource(path string) (*DicomSource, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse dicom %s: %w", path, err)
	}
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("dicom %s has no pixel data: %w", path, err)
	}
	if el.Value.ValueType() != dicom.PixelData {
		return nil, fmt.Errorf("dicom %s: unexpected pixel data value type %v", path, el.Value.ValueType())
	}

	s := &DicomSource{path: path, info: dicom.MustGetPixelDataInfo(el.Value)}
	if bs, err := ds.FindElementByTag(tag.BitsStored); err == nil && bs.Value.ValueType() == dicom.Ints {
		if v := dicom.MustGetInts(bs.Value); len(v) > 0 {
			s.bitsStored = v[0]
		}
	}
	return s, nil
}

func (s *DicomSource) Count() int {
	return len(s.info.Frames)
}

func (s *DicomSource) Name(index int) string {
	if s.Count() == 1 {
		return stem(s.path)
	}
	return fmt.Sprintf("%s_f%03d", stem(s.path), index+1)
}

func (s *DicomSource) Load(index int) (image.Image, error) {
	img, err := s.info.Frames[index].GetImage()
	if err != nil {
		return nil, fmt.Errorf("dicom frame %d: %w", index, err)
	}
	if g, ok := img.(*image.Gray16); ok {
		widen(g, s.bitsStored)
	}
	return img, nil
}

func (s *DicomSource) Close() error {
	return nil
}

// widen rescales samples of a bits-deep image to the full 16-bit range in
// place, so the gray conversion maps the stored maximum to 255. bits outside
// 1..15 leave img untouched.
func widen(img *image.Gray16, bits int) {
	if bits <= 0 || bits >= 16 {
		return
	}
	maxStored := uint32(1)<<bits - 1
	for i := 0; i+1 < len(img.Pix); i += 2 {
		v := uint32(img.Pix[i])<<8 | uint32(img.Pix[i+1])
		if v > maxStored {
			v = maxStored
		}
		v = (v*0xffff + maxStored/2) / maxStored
		img.Pix[i] = uint8(v >> 8)
		img.Pix[i+1] = uint8(v)
	}
}
