// Package docai is an input adapter for Google Document AI. It sends
// documents to a Document AI OCR processor and converts the response into
// the block model of pkg/textract, so the geometric finder works the same
// over either recognizer's output.
//
// The conversion maps Document AI pages, lines and tokens to PAGE, LINE and
// WORD blocks and pairs of form fields to KEY/VALUE KEY_VALUE_SET blocks.
// Document AI elements carry no identifiers, so block ids are freshly
// allocated during conversion.
//
// Usage Requirements:
//
// - Google Cloud project with the Document AI API enabled
// - Document AI processor configured for OCR (form parser for key/value data)
// - Authentication via the GOOGLE_APPLICATION_CREDENTIALS environment variable
package docai

// Config holds the Document AI processor coordinates
type Config struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}
