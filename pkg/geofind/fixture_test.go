package geofind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halldor/geofind/pkg/textract"
)

// Fixture helpers building a small patient intake form. Coordinates are
// normalized; the test index denormalizes them to a 1000x1000 page, so a
// block at Left 0.05 starts at pixel 50.

func block(id string, bt textract.BlockType, text string, x0, y0, x1, y1 float64, rels ...textract.Relationship) *textract.Block {
	return &textract.Block{
		ID:         id,
		BlockType:  bt,
		Text:       text,
		Confidence: 99,
		Geometry: textract.Geometry{BoundingBox: textract.BoundingBox{
			Left: x0, Top: y0, Width: x1 - x0, Height: y1 - y0,
		}},
		Relationships: rels,
	}
}

func children(ids ...string) textract.Relationship {
	return textract.Relationship{Type: textract.RelationshipChild, IDs: ids}
}

func valueEdge(id string) textract.Relationship {
	return textract.Relationship{Type: textract.RelationshipValue, IDs: []string{id}}
}

func keyBlock(id string, x0, y0, x1, y1 float64, rels ...textract.Relationship) *textract.Block {
	b := block(id, textract.BlockTypeKeyValueSet, "", x0, y0, x1, y1, rels...)
	b.EntityTypes = []textract.EntityType{textract.EntityTypeKey}
	return b
}

func valBlock(id string, x0, y0, x1, y1 float64, rels ...textract.Relationship) *textract.Block {
	b := block(id, textract.BlockTypeKeyValueSet, "", x0, y0, x1, y1, rels...)
	b.EntityTypes = []textract.EntityType{textract.EntityTypeValue}
	return b
}

func selectionBlock(id, status string, x0, y0, x1, y1 float64) *textract.Block {
	b := block(id, textract.BlockTypeSelectionElement, "", x0, y0, x1, y1)
	b.SelectionStatus = status
	return b
}

// intakeBlocks lays out a single-page form:
//
//	Patient Information                 (section header, y 0.10)
//	First Name: ALEJANDRO               (form field, y 0.20)
//	Emergency Contact 1:                (section header, y 0.40)
//	First Name: MIGUEL                  (form field, y 0.55)
//	Do you have a cough?  [ ]           (checkbox, y 0.70)
func intakeBlocks() []*textract.Block {
	return []*textract.Block{
		block("page-1", textract.BlockTypePage, "", 0, 0, 1, 1,
			children("line-1", "line-2", "line-3", "key-1",
				"line-4", "line-5", "line-6", "key-2",
				"line-7", "key-3", "sel-1")),

		block("line-1", textract.BlockTypeLine, "Patient Information", 0.05, 0.10, 0.35, 0.13,
			children("word-1", "word-2")),
		block("word-1", textract.BlockTypeWord, "Patient", 0.05, 0.10, 0.17, 0.13),
		block("word-2", textract.BlockTypeWord, "Information", 0.18, 0.10, 0.35, 0.13),

		block("line-2", textract.BlockTypeLine, "First Name:", 0.05, 0.20, 0.15, 0.23,
			children("word-3", "word-4")),
		block("word-3", textract.BlockTypeWord, "First", 0.05, 0.20, 0.10, 0.23),
		block("word-4", textract.BlockTypeWord, "Name:", 0.11, 0.20, 0.15, 0.23),
		block("line-3", textract.BlockTypeLine, "ALEJANDRO", 0.17, 0.20, 0.30, 0.23,
			children("word-5")),
		block("word-5", textract.BlockTypeWord, "ALEJANDRO", 0.17, 0.20, 0.30, 0.23),
		keyBlock("key-1", 0.05, 0.20, 0.15, 0.23,
			valueEdge("value-1"), children("word-3", "word-4")),
		valBlock("value-1", 0.17, 0.20, 0.30, 0.23, children("word-5")),

		block("line-4", textract.BlockTypeLine, "Emergency Contact 1:", 0.05, 0.40, 0.30, 0.43,
			children("word-6", "word-7", "word-8")),
		block("word-6", textract.BlockTypeWord, "Emergency", 0.05, 0.40, 0.15, 0.43),
		block("word-7", textract.BlockTypeWord, "Contact", 0.16, 0.40, 0.25, 0.43),
		block("word-8", textract.BlockTypeWord, "1:", 0.26, 0.40, 0.30, 0.43),

		block("line-5", textract.BlockTypeLine, "First Name:", 0.05, 0.55, 0.15, 0.58,
			children("word-9", "word-10")),
		block("word-9", textract.BlockTypeWord, "First", 0.05, 0.55, 0.10, 0.58),
		block("word-10", textract.BlockTypeWord, "Name:", 0.11, 0.55, 0.15, 0.58),
		block("line-6", textract.BlockTypeLine, "MIGUEL", 0.17, 0.55, 0.28, 0.58,
			children("word-11")),
		block("word-11", textract.BlockTypeWord, "MIGUEL", 0.17, 0.55, 0.28, 0.58),
		keyBlock("key-2", 0.05, 0.55, 0.15, 0.58,
			valueEdge("value-2"), children("word-9", "word-10")),
		valBlock("value-2", 0.17, 0.55, 0.28, 0.58, children("word-11")),

		block("line-7", textract.BlockTypeLine, "Do you have a cough?", 0.05, 0.70, 0.25, 0.73,
			children("word-12", "word-13", "word-14", "word-15", "word-16")),
		block("word-12", textract.BlockTypeWord, "Do", 0.05, 0.70, 0.07, 0.73),
		block("word-13", textract.BlockTypeWord, "you", 0.08, 0.70, 0.10, 0.73),
		block("word-14", textract.BlockTypeWord, "have", 0.11, 0.70, 0.14, 0.73),
		block("word-15", textract.BlockTypeWord, "a", 0.15, 0.70, 0.16, 0.73),
		block("word-16", textract.BlockTypeWord, "cough?", 0.17, 0.70, 0.25, 0.73),
		keyBlock("key-3", 0.05, 0.70, 0.25, 0.73,
			valueEdge("value-3"), children("word-12", "word-13", "word-14", "word-15", "word-16")),
		valBlock("value-3", 0.60, 0.70, 0.63, 0.73, children("sel-1")),
		selectionBlock("sel-1", textract.SelectionNotSelected, 0.60, 0.70, 0.63, 0.73),
	}
}

func intakeDocument(t *testing.T) *textract.Document {
	t.Helper()
	doc, err := textract.NewDocument(intakeBlocks())
	require.NoError(t, err)
	return doc
}

func intakeIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := NewIndex(intakeDocument(t), 1000, 1000)
	require.NoError(t, err)
	return ix
}

func mustArea(t *testing.T, x0, y0, x1, y1 float64, page int) Area {
	t.Helper()
	area, err := NewArea(Point{X: x0, Y: y0}, Point{X: x1, Y: y1}, page)
	require.NoError(t, err)
	return area
}
