// Package overlay renders the bounding boxes of an indexed document onto a
// PDF for visual inspection: words, lines, keys, values and selection
// elements each get their own outline color, optionally with the recognized
// text drawn next to the box.
//
// The output pages are sized to the index's pixel dimensions, so the boxes
// line up 1:1 with the coordinates geometric queries operate on.
package overlay

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/halldor/geofind/pkg/geofind"
)

// Color is an RGB triple in the 0-255 range
type Color struct {
	R, G, B int
}

// Config holds user options for the overlay rendering
type Config struct {
	DrawWords      bool // Outline WORD boxes
	DrawLines      bool // Outline LINE boxes
	DrawKeys       bool // Outline form key boxes
	DrawValues     bool // Outline form value boxes
	DrawSelections bool // Outline selection element boxes
	Labels         bool // Draw the recognized text next to each box

	LineWidth float64
	FontSize  float64

	WordColor      Color
	LineColor      Color
	KeyColor       Color
	ValueColor     Color
	SelectionColor Color
}

// DefaultConfig returns a config with sensible defaults: keys, values and
// selection elements outlined, labels off.
func DefaultConfig() Config {
	return Config{
		DrawKeys:       true,
		DrawValues:     true,
		DrawSelections: true,
		LineWidth:      0.75,
		FontSize:       7,
		WordColor:      Color{R: 128, G: 128, B: 128},
		LineColor:      Color{R: 0, G: 128, B: 255},
		KeyColor:       Color{R: 255, G: 0, B: 0},
		ValueColor:     Color{R: 0, G: 160, B: 0},
		SelectionColor: Color{R: 255, G: 128, B: 0},
	}
}

// Render draws the enabled box types of every page onto a new PDF and
// returns its bytes.
func Render(ix *geofind.Index, cfg Config) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size: fpdf.SizeType{
			Wd: float64(ix.Width()),
			Ht: float64(ix.Height()),
		},
	})
	pdf.SetFont("Helvetica", "", cfg.FontSize)
	pdf.SetLineWidth(cfg.LineWidth)

	for page := 1; page <= ix.PageCount(); page++ {
		pdf.AddPage()

		if cfg.DrawWords {
			drawBoxes(pdf, ix.Words(page, geofind.WordTypeWord), cfg.WordColor, cfg)
		}
		if cfg.DrawLines {
			drawBoxes(pdf, ix.Words(page, geofind.WordTypeLine), cfg.LineColor, cfg)
		}
		if cfg.DrawSelections {
			drawBoxes(pdf, ix.Words(page, geofind.WordTypeSelectionElement), cfg.SelectionColor, cfg)
		}
		if cfg.DrawKeys || cfg.DrawValues {
			for _, kv := range ix.KeyValues(page) {
				if cfg.DrawKeys {
					drawBoxes(pdf, []*geofind.Word{kv.Key}, cfg.KeyColor, cfg)
				}
				if cfg.DrawValues {
					drawBoxes(pdf, []*geofind.Word{kv.Value}, cfg.ValueColor, cfg)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render overlay PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBoxes outlines each word's box and optionally labels it
func drawBoxes(pdf *fpdf.Fpdf, words []*geofind.Word, color Color, cfg Config) {
	pdf.SetDrawColor(color.R, color.G, color.B)
	pdf.SetTextColor(color.R, color.G, color.B)
	for _, w := range words {
		pdf.Rect(float64(w.XMin), float64(w.YMin), float64(w.Width()), float64(w.Height()), "D")
		if cfg.Labels && w.OriginalText != "" {
			pdf.Text(float64(w.XMin), float64(w.YMin)-1, latin1(w.OriginalText))
		}
	}
}

// latin1 converts text to ISO-8859-1 to avoid PDF encoding issues,
// falling back to the raw text when conversion fails
func latin1(s string) string {
	converted, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return converted
}
