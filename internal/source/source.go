package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// BackgroundDPI is enough for a 1080p frame from an A4/letter page.
const BackgroundDPI = 150

// Source yields the background raster of a render.
type Source interface {
	Background() (image.Image, error)
	Close() error
}

// Open picks a source by file extension: PDF booklets are rendered through
// MuPDF, everything else is decoded as an image.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path, 0)
	}
	return NewImageSource(path)
}

// LoadBackground opens, decodes and closes in one go.
func LoadBackground(path string) (image.Image, error) {
	src, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("фон %s: %w", path, err)
	}
	defer src.Close()

	img, err := src.Background()
	if err != nil {
		return nil, fmt.Errorf("фон %s: %w", path, err)
	}
	return img, nil
}

// FitzPDFSource renders one page of a PDF, e.g. an album booklet cover.
type FitzPDFSource struct {
	doc  *fitz.Document
	page int
}

func NewFitzPDFSource(path string, page int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if page < 0 || page >= doc.NumPage() {
		n := doc.NumPage()
		doc.Close()
		return nil, fmt.Errorf("страница %d вне диапазона (всего %d)", page+1, n)
	}
	return &FitzPDFSource{doc: doc, page: page}, nil
}

func (f *FitzPDFSource) Background() (image.Image, error) {
	return f.doc.ImageDPI(f.page, BackgroundDPI)
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
