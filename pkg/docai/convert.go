package docai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/google/uuid"

	"github.com/halldor/geofind/pkg/textract"
)

// DocumentFromProto converts a Document AI response into the Textract-style
// block model: one PAGE block per page owning LINE and KEY_VALUE_SET blocks,
// WORD blocks under their lines, and form fields paired through VALUE edges.
func DocumentFromProto(doc *documentaipb.Document) (*textract.Document, error) {
	var blocks []*textract.Block

	for i, page := range doc.Pages {
		pageNum := int(page.PageNumber)
		if pageNum == 0 {
			pageNum = i + 1
		}

		pageBlock := &textract.Block{
			ID:        uuid.NewString(),
			BlockType: textract.BlockTypePage,
			Geometry: textract.Geometry{
				BoundingBox: textract.BoundingBox{Width: 1, Height: 1},
			},
			Page: pageNum,
		}
		if page.Dimension != nil {
			pageBlock.SetPageDimension(textract.PageDimension{
				Width:  float64(page.Dimension.Width),
				Height: float64(page.Dimension.Height),
			})
		}
		var pageChildren []string
		var content []*textract.Block

		// Tokens first so lines can claim them by text anchor range.
		tokens := make([]*textract.Block, 0, len(page.Tokens))
		for _, token := range page.Tokens {
			tokens = append(tokens, &textract.Block{
				ID:         uuid.NewString(),
				BlockType:  textract.BlockTypeWord,
				Text:       tokenText(token, doc.Text),
				Confidence: confidencePercent(token.Layout),
				Geometry:   geometryFromLayout(token.Layout),
				Page:       pageNum,
			})
		}

		for _, line := range page.Lines {
			lineBlock := &textract.Block{
				ID:         uuid.NewString(),
				BlockType:  textract.BlockTypeLine,
				Text:       strings.TrimSpace(textFromLayout(line.Layout, doc.Text)),
				Confidence: confidencePercent(line.Layout),
				Geometry:   geometryFromLayout(line.Layout),
				Page:       pageNum,
			}
			var childIDs []string
			for j, token := range page.Tokens {
				if anchorWithin(token.Layout, line.Layout) {
					childIDs = append(childIDs, tokens[j].ID)
				}
			}
			if len(childIDs) > 0 {
				lineBlock.Relationships = []textract.Relationship{
					{Type: textract.RelationshipChild, IDs: childIDs},
				}
			}
			content = append(content, lineBlock)
			pageChildren = append(pageChildren, lineBlock.ID)
		}
		content = append(content, tokens...)

		for _, field := range page.FormFields {
			keyText := strings.TrimSpace(textFromLayout(field.FieldName, doc.Text))
			if keyText == "" {
				continue
			}
			valueBlock := &textract.Block{
				ID:          uuid.NewString(),
				BlockType:   textract.BlockTypeKeyValueSet,
				Text:        strings.TrimSpace(textFromLayout(field.FieldValue, doc.Text)),
				Confidence:  confidencePercent(field.FieldValue),
				Geometry:    geometryFromLayout(field.FieldValue),
				EntityTypes: []textract.EntityType{textract.EntityTypeValue},
				Page:        pageNum,
			}
			keyBlock := &textract.Block{
				ID:          uuid.NewString(),
				BlockType:   textract.BlockTypeKeyValueSet,
				Text:        keyText,
				Confidence:  confidencePercent(field.FieldName),
				Geometry:    geometryFromLayout(field.FieldName),
				EntityTypes: []textract.EntityType{textract.EntityTypeKey},
				Page:        pageNum,
				Relationships: []textract.Relationship{
					{Type: textract.RelationshipValue, IDs: []string{valueBlock.ID}},
				},
			}
			content = append(content, keyBlock, valueBlock)
			pageChildren = append(pageChildren, keyBlock.ID)
		}

		if len(pageChildren) > 0 {
			pageBlock.Relationships = []textract.Relationship{
				{Type: textract.RelationshipChild, IDs: pageChildren},
			}
		}
		blocks = append(blocks, pageBlock)
		blocks = append(blocks, content...)
	}

	return textract.NewDocument(blocks)
}

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	result := strings.Builder{}
	totalRunes := len(runes)

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > totalRunes {
			end = totalRunes
		}
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}

// tokenText extracts a token's text, trimming the trailing whitespace of a
// detected break
func tokenText(token *documentaipb.Document_Page_Token, fullText string) string {
	txt := textFromLayout(token.Layout, fullText)
	if token.DetectedBreak != nil &&
		token.DetectedBreak.Type != documentaipb.Document_Page_Token_DetectedBreak_TYPE_UNSPECIFIED {
		runes := []rune(txt)
		if len(runes) > 0 {
			last := runes[len(runes)-1]
			if last == ' ' || last == '\n' || last == '\r' || last == '\t' {
				txt = string(runes[:len(runes)-1])
			}
		}
	}
	return txt
}

// anchorWithin reports whether the child layout's text range lies within the
// parent layout's text range
func anchorWithin(child, parent *documentaipb.Document_Page_Layout) bool {
	if child == nil || child.TextAnchor == nil || len(child.TextAnchor.TextSegments) == 0 {
		return false
	}
	if parent == nil || parent.TextAnchor == nil || len(parent.TextAnchor.TextSegments) == 0 {
		return false
	}
	childStart := child.TextAnchor.TextSegments[0].StartIndex
	childEnd := child.TextAnchor.TextSegments[0].EndIndex
	parentStart := parent.TextAnchor.TextSegments[0].StartIndex
	parentEnd := parent.TextAnchor.TextSegments[0].EndIndex
	return childStart >= parentStart && childEnd <= parentEnd
}

// geometryFromLayout converts a layout's normalized bounding poly into a
// bounding box spanning all of its vertices
func geometryFromLayout(layout *documentaipb.Document_Page_Layout) textract.Geometry {
	if layout == nil || layout.BoundingPoly == nil || len(layout.BoundingPoly.NormalizedVertices) == 0 {
		return textract.Geometry{}
	}
	vertices := layout.BoundingPoly.NormalizedVertices
	minX, minY := float64(vertices[0].X), float64(vertices[0].Y)
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		x, y := float64(v.X), float64(v.Y)
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	return textract.Geometry{
		BoundingBox: textract.BoundingBox{
			Left:   minX,
			Top:    minY,
			Width:  maxX - minX,
			Height: maxY - minY,
		},
	}
}

// confidencePercent scales a layout confidence (0-1) to the 0-100 range the
// block model uses
func confidencePercent(layout *documentaipb.Document_Page_Layout) float64 {
	if layout == nil {
		return 0
	}
	return float64(layout.Confidence) * 100
}
