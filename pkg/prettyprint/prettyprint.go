// Package prettyprint renders the contents of a geofind index in formats
// meant for people and spreadsheets: CSV and GitHub-flavored markdown tables
// of form fields, plus plain-text line and word listings.
//
// Output serialization beyond these convenience formats (Excel, overlays)
// lives in dedicated packages; this one never mutates the index.
package prettyprint

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/halldor/geofind/pkg/geofind"
)

// FormsCSV writes every page's key/value pairs as CSV rows of
// page, key, value, confidence.
func FormsCSV(ix *geofind.Index, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Page", "Key", "Value", "Confidence"}); err != nil {
		return err
	}
	for page := 1; page <= ix.PageCount(); page++ {
		for _, kv := range ix.KeyValues(page) {
			row := []string{
				fmt.Sprintf("%d", page),
				kv.Key.OriginalText,
				kv.Value.OriginalText,
				fmt.Sprintf("%.2f", kv.Key.Confidence),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormsMarkdown renders every page's key/value pairs as one GitHub-flavored
// markdown table per page.
func FormsMarkdown(ix *geofind.Index) string {
	var sb strings.Builder
	for page := 1; page <= ix.PageCount(); page++ {
		kvs := ix.KeyValues(page)
		if len(kvs) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## Page %d\n\n", page)
		sb.WriteString("| Key | Value |\n")
		sb.WriteString("| --- | --- |\n")
		for _, kv := range kvs {
			fmt.Fprintf(&sb, "| %s | %s |\n", escapeCell(kv.Key.OriginalText), escapeCell(kv.Value.OriginalText))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// LinesText renders every page's lines in reading order, one per row
func LinesText(ix *geofind.Index) string {
	var sb strings.Builder
	for page := 1; page <= ix.PageCount(); page++ {
		for _, line := range ix.Words(page, geofind.WordTypeLine) {
			sb.WriteString(line.OriginalText)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WordsCSV writes every page's words with their pixel geometry as CSV rows
func WordsCSV(ix *geofind.Index, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Page", "Text", "Confidence", "XMin", "YMin", "XMax", "YMax"}); err != nil {
		return err
	}
	for page := 1; page <= ix.PageCount(); page++ {
		for _, word := range ix.Words(page, geofind.WordTypeWord) {
			row := []string{
				fmt.Sprintf("%d", page),
				word.OriginalText,
				fmt.Sprintf("%.2f", word.Confidence),
				fmt.Sprintf("%d", word.XMin),
				fmt.Sprintf("%d", word.YMin),
				fmt.Sprintf("%d", word.XMax),
				fmt.Sprintf("%d", word.YMax),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// escapeCell keeps markdown table cells on one row
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
