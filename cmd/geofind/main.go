// geofind is a command-line tool for locating information in Amazon Textract
// output using geometry: it searches anchor phrases, extracts the form
// fields between them, and re-labels fields with hierarchical names driven
// by a YAML extraction template.
//
// Usage:
//
//	geofind -json response.json [options]
//	geofind -docai-config config.yml -input document.pdf [options]
//
// Input (one of these is required):
//
//	-json string          Path to the Textract AnalyzeDocument response JSON
//	-docai-config string  Path to a Google Document AI config YAML; the -input
//	                      file is sent to the processor and its response used
//	                      instead of a Textract JSON
//
// Page scale (one of these is required):
//
//	-input string   Path to the source PDF or image; page sizes are read from it
//	-width int      Page width in pixels
//	-height int     Page height in pixels
//
// Extraction:
//
//	-template string  YAML extraction template with anchored sections;
//	                  matched form fields get prefixed virtual keys appended
//
// Output options (at least one required):
//
//	-forms string     Path to save form fields CSV
//	-markdown string  Path to save form fields as markdown tables
//	-text string      Path to save recognized lines as plain text
//	-words string     Path to save words with geometry as CSV
//	-overlay string   Path to save a PDF with bounding boxes drawn
//	-out string       Path to save the augmented response JSON
//
// Debug options:
//
//	-labels            Draw recognized text next to overlay boxes
//	-debug             Enable debug logging
//	-debug-api string  Path to save the raw Document AI response as JSON
//
// Example:
//
//	geofind -json intake.json -input intake.pdf -template intake.yml \
//	        -forms fields.csv -overlay boxes.pdf -out augmented.json
//
// Example template:
//
//	page: 1
//	sections:
//	  - prefix: PATIENT
//	    top:    {phrase: "patient information", edge: ymax}
//	    bottom: {phrase: "emergency contact 1:", edge: ymin, min_text_distance: 0.99}
//	selections:
//	  - name: FEVER
//	    phrase: "did you feel fever or feverish lately"
//	    margin: 50
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/halldor/geofind/pkg/docai"
	"github.com/halldor/geofind/pkg/geofind"
	"github.com/halldor/geofind/pkg/overlay"
	"github.com/halldor/geofind/pkg/pagedim"
	"github.com/halldor/geofind/pkg/prettyprint"
	"github.com/halldor/geofind/pkg/textract"
)

// loadDocaiConfig reads the Document AI processor coordinates from YAML
func loadDocaiConfig(path string) (*docai.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg docai.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mimeType maps an input file extension to the MIME type Document AI expects
func mimeType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf", nil
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".tiff", ".tif":
		return "image/tiff", nil
	case ".bmp":
		return "image/bmp", nil
	default:
		return "", fmt.Errorf("%s: no known MIME type", path)
	}
}

func main() {
	// Input flags.
	jsonPath := flag.String("json", "", "Path to the Textract response JSON")
	docaiConfigPath := flag.String("docai-config", "", "Path to a Document AI config YAML; processes -input instead of reading -json")

	// Page scale flags.
	inputPath := flag.String("input", "", "Path to the source PDF or image for page dimensions")
	width := flag.Int("width", 0, "Page width in pixels (required if -input not specified)")
	height := flag.Int("height", 0, "Page height in pixels (required if -input not specified)")

	// Extraction flags.
	templatePath := flag.String("template", "", "Path to the YAML extraction template")

	// Output flags.
	formsPath := flag.String("forms", "", "Path to save form fields CSV")
	markdownPath := flag.String("markdown", "", "Path to save form fields markdown")
	textPath := flag.String("text", "", "Path to save recognized lines as text")
	wordsPath := flag.String("words", "", "Path to save words CSV")
	overlayPath := flag.String("overlay", "", "Path to save the bounding box overlay PDF")
	outPath := flag.String("out", "", "Path to save the augmented response JSON")

	// Debug flags.
	labels := flag.Bool("labels", false, "Draw recognized text next to overlay boxes")
	debug := flag.Bool("debug", false, "Enable debug logging")
	debugAPIPath := flag.String("debug-api", "", "Path to save the raw Document AI response as JSON")

	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *jsonPath == "" && *docaiConfigPath == "" {
		fmt.Fprintln(os.Stderr, "Error: either -json or -docai-config must be provided")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *docaiConfigPath != "" && *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -docai-config requires -input with the document to process")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *inputPath == "" && (*width <= 0 || *height <= 0) {
		fmt.Fprintln(os.Stderr, "Error: either -input or both -width and -height must be provided")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	hasOutputFlag := *formsPath != "" || *markdownPath != "" || *textPath != "" ||
		*wordsPath != "" || *overlayPath != "" || *outPath != ""
	if !hasOutputFlag {
		fmt.Fprintln(os.Stderr, "Error: at least one output flag must be provided (-forms, -markdown, -text, -words, -overlay, or -out)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Obtain the recognized document: a Textract response from disk, or a
	// fresh Document AI response converted into the same block model.
	var doc *textract.Document
	var err error
	if *docaiConfigPath != "" {
		cfg, err := loadDocaiConfig(*docaiConfigPath)
		if err != nil {
			log.Fatalf("Failed to load Document AI config: %v", err)
		}
		docBytes, err := os.ReadFile(*inputPath)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *inputPath, err)
		}
		mime, err := mimeType(*inputPath)
		if err != nil {
			log.Fatalf("Failed to determine input type: %v", err)
		}
		resp, err := docai.ProcessDocument(context.Background(), docBytes, mime, cfg)
		if err != nil {
			log.Fatalf("Document AI processing failed: %v", err)
		}
		if *debugAPIPath != "" {
			apiJSON, err := docai.ToJSON(resp)
			if err != nil {
				log.Fatalf("Failed to serialize API response: %v", err)
			}
			writeFile(*debugAPIPath, []byte(apiJSON))
		}
		doc, err = docai.DocumentFromProto(resp)
		if err != nil {
			log.Fatalf("Failed to convert Document AI response: %v", err)
		}
	} else {
		doc, err = textract.ParseFile(*jsonPath)
		if err != nil {
			log.Fatalf("Failed to parse response: %v", err)
		}
	}

	// Determine the page scale.
	pageWidth, pageHeight := *width, *height
	if *inputPath != "" {
		dims, err := pagedim.FromFile(*inputPath)
		if err != nil {
			log.Fatalf("Failed to read page dimensions: %v", err)
		}
		if err := pagedim.Apply(doc, dims); err != nil {
			log.Fatalf("Failed to apply page dimensions: %v", err)
		}
		pageWidth = int(math.Round(dims[0].Width))
		pageHeight = int(math.Round(dims[0].Height))
		fmt.Printf("Using page dimensions %dx%d from %s\n", pageWidth, pageHeight, *inputPath)
	}

	// Build the index.
	ix, err := geofind.NewIndex(doc, pageWidth, pageHeight)
	if err != nil {
		log.Fatalf("Failed to index document: %v", err)
	}

	// Run the extraction template.
	if *templatePath != "" {
		tpl, err := loadTemplate(*templatePath)
		if err != nil {
			log.Fatalf("Failed to load template: %v", err)
		}
		if err := runTemplate(ix, tpl); err != nil {
			log.Fatalf("Extraction failed: %v", err)
		}
		fmt.Println("Extraction template applied:", *templatePath)
	}

	// Write the requested outputs.
	if *formsPath != "" {
		writeWith(*formsPath, func(f *os.File) error { return prettyprint.FormsCSV(ix, f) })
	}
	if *markdownPath != "" {
		writeFile(*markdownPath, []byte(prettyprint.FormsMarkdown(ix)))
	}
	if *textPath != "" {
		writeFile(*textPath, []byte(prettyprint.LinesText(ix)))
	}
	if *wordsPath != "" {
		writeWith(*wordsPath, func(f *os.File) error { return prettyprint.WordsCSV(ix, f) })
	}
	if *overlayPath != "" {
		cfg := overlay.DefaultConfig()
		cfg.DrawWords = true
		cfg.DrawLines = true
		cfg.Labels = *labels
		pdfBytes, err := overlay.Render(ix, cfg)
		if err != nil {
			log.Fatalf("Failed to render overlay: %v", err)
		}
		writeFile(*overlayPath, pdfBytes)
	}
	if *outPath != "" {
		data, err := doc.MarshalJSON()
		if err != nil {
			log.Fatalf("Failed to marshal augmented document: %v", err)
		}
		writeFile(*outPath, data)
	}
}

func writeFile(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Println("Wrote", path)
}

func writeWith(path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Println("Wrote", path)
}
