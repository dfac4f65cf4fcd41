// Package pagedim determines the pixel (or point) dimensions of a scanned
// document's pages and stamps them onto the PAGE blocks of a parsed
// document, so downstream consumers can denormalize geometry without access
// to the source file.
//
// PDF page sizes are read from the media boxes via pdfcpu; raster images
// (PNG, JPEG, TIFF, BMP) are probed with the standard image decoders.
package pagedim

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Raster formats the dimension probe understands.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/halldor/geofind/pkg/textract"
)

var pdfSuffixes = []string{".pdf"}
var imageSuffixes = []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp"}

// FromFile reads the per-page dimensions of a PDF or image file.
// Image files contribute a single page.
func FromFile(path string) ([]textract.PageDimension, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case contains(pdfSuffixes, ext):
		return fromPDF(path)
	case contains(imageSuffixes, ext):
		dim, err := fromImage(path)
		if err != nil {
			return nil, err
		}
		return []textract.PageDimension{dim}, nil
	default:
		return nil, fmt.Errorf("%s: unsupported input type %q (want one of %v)",
			path, ext, append(pdfSuffixes, imageSuffixes...))
	}
}

func fromPDF(path string) ([]textract.PageDimension, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dims, err := api.PageDims(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions of %s: %w", path, err)
	}
	result := make([]textract.PageDimension, 0, len(dims))
	for _, d := range dims {
		result = append(result, textract.PageDimension{Width: d.Width, Height: d.Height})
	}
	return result, nil
}

func fromImage(path string) (textract.PageDimension, error) {
	f, err := os.Open(path)
	if err != nil {
		return textract.PageDimension{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return textract.PageDimension{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return textract.PageDimension{Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}

// Apply stamps one dimension entry per page onto the document's PAGE blocks.
// The dimension list must cover every page of the document.
func Apply(doc *textract.Document, dims []textract.PageDimension) error {
	if len(dims) != doc.PageCount() {
		return fmt.Errorf("got %d page dimensions for a document with %d pages", len(dims), doc.PageCount())
	}
	for page := 1; page <= doc.PageCount(); page++ {
		block, ok := doc.PageBlock(page)
		if !ok {
			return fmt.Errorf("page %d has no PAGE block", page)
		}
		block.SetPageDimension(dims[page-1])
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
