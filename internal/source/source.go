package source

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source is an ordered set of input images
type Source interface {
	Count() int
	// Name identifies input i in reports and output file names
	Name(index int) string
	Load(index int) (image.Image, error)
	Close() error
}

// Open chooses a backend for path: a PDF document, a DICOM file, or an image
// file / folder of images.
func Open(path string, dpi int) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFSource(path, dpi)
	case ".dcm", ".dicom":
		return NewDicomSource(path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return NewImageSource(path)
}

// PDFSource renders every page of a PDF document
type PDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &PDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (s *PDFSource) Count() int {
	return s.doc.NumPage()
}

func (s *PDFSource) Name(index int) string {
	return fmt.Sprintf("%s_p%03d", stem(s.path), index+1)
}

func (s *PDFSource) Load(index int) (image.Image, error) {
	// A document handle is not safe for concurrent rendering, so each call
	// opens its own.
	doc, err := fitz.New(s.path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return doc.ImageDPI(index, float64(s.dpi))
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}

// stem returns the file name without directory and extension, spaces replaced
func stem(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(name, " ", "_")
}
