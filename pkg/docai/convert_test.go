package docai

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halldor/geofind/pkg/geofind"
	"github.com/halldor/geofind/pkg/textract"
)

func layout(start, end int64, x0, y0, x1, y1 float32) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
				{StartIndex: start, EndIndex: end},
			},
		},
		Confidence: 0.99,
		BoundingPoly: &documentaipb.BoundingPoly{
			NormalizedVertices: []*documentaipb.NormalizedVertex{
				{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
			},
		},
	}
}

func token(start, end int64, x0, y0, x1, y1 float32) *documentaipb.Document_Page_Token {
	return &documentaipb.Document_Page_Token{
		Layout: layout(start, end, x0, y0, x1, y1),
		DetectedBreak: &documentaipb.Document_Page_Token_DetectedBreak{
			Type: documentaipb.Document_Page_Token_DetectedBreak_SPACE,
		},
	}
}

// formResponse mimics one recognized page reading "First Name: ALEJANDRO"
// with a form field pairing the two halves.
func formResponse() *documentaipb.Document {
	return &documentaipb.Document{
		Text: "First Name: ALEJANDRO\n",
		Pages: []*documentaipb.Document_Page{
			{
				PageNumber: 1,
				Dimension:  &documentaipb.Document_Page_Dimension{Width: 1549, Height: 370},
				Tokens: []*documentaipb.Document_Page_Token{
					token(0, 6, 0.05, 0.20, 0.10, 0.23),
					token(6, 12, 0.11, 0.20, 0.15, 0.23),
					token(12, 22, 0.17, 0.20, 0.30, 0.23),
				},
				Lines: []*documentaipb.Document_Page_Line{
					{Layout: layout(0, 12, 0.05, 0.20, 0.15, 0.23)},
					{Layout: layout(12, 22, 0.17, 0.20, 0.30, 0.23)},
				},
				FormFields: []*documentaipb.Document_Page_FormField{
					{
						FieldName:  layout(0, 11, 0.05, 0.20, 0.15, 0.23),
						FieldValue: layout(12, 21, 0.17, 0.20, 0.30, 0.23),
					},
				},
			},
		},
	}
}

func TestDocumentFromProto(t *testing.T) {
	doc, err := DocumentFromProto(formResponse())
	require.NoError(t, err)

	assert.Equal(t, 1, doc.PageCount())

	byType := map[textract.BlockType][]*textract.Block{}
	for _, b := range doc.Blocks {
		byType[b.BlockType] = append(byType[b.BlockType], b)
		assert.Equal(t, 1, b.Page, b.BlockType)
	}
	require.Len(t, byType[textract.BlockTypePage], 1)
	require.Len(t, byType[textract.BlockTypeLine], 2)
	require.Len(t, byType[textract.BlockTypeWord], 3)
	require.Len(t, byType[textract.BlockTypeKeyValueSet], 2)

	// Page dimension carried over from the response.
	dim, ok := byType[textract.BlockTypePage][0].PageDimension()
	require.True(t, ok)
	assert.Equal(t, 1549.0, dim.Width)
	assert.Equal(t, 370.0, dim.Height)

	// Detected breaks are trimmed off the token text.
	var words []string
	for _, b := range byType[textract.BlockTypeWord] {
		words = append(words, b.Text)
	}
	assert.Equal(t, []string{"First", "Name:", "ALEJANDRO"}, words)

	// Lines claim the tokens whose anchor range they cover.
	first := byType[textract.BlockTypeLine][0]
	assert.Equal(t, "First Name:", first.Text)
	assert.Len(t, first.ChildIDs(), 2)
	second := byType[textract.BlockTypeLine][1]
	assert.Equal(t, "ALEJANDRO", second.Text)
	assert.Len(t, second.ChildIDs(), 1)

	// The converted form field pairing satisfies the index's structural
	// validation and surfaces as a key/value pair.
	ix, err := geofind.NewIndex(doc, 1549, 370)
	require.NoError(t, err)
	kvs := ix.KeyValues(1)
	require.Len(t, kvs, 1)
	assert.Equal(t, "First Name:", kvs[0].Key.OriginalText)
	assert.Equal(t, "ALEJANDRO", kvs[0].Value.OriginalText)
}

func TestDocumentFromProtoSkipsEmptyFieldNames(t *testing.T) {
	resp := formResponse()
	resp.Pages[0].FormFields = append(resp.Pages[0].FormFields,
		&documentaipb.Document_Page_FormField{
			FieldName:  &documentaipb.Document_Page_Layout{},
			FieldValue: layout(12, 21, 0.17, 0.20, 0.30, 0.23),
		})

	doc, err := DocumentFromProto(resp)
	require.NoError(t, err)

	count := 0
	for _, b := range doc.Blocks {
		if b.IsKey() {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestTextFromLayout(t *testing.T) {
	full := "Hello wörld"

	assert.Equal(t, "", textFromLayout(nil, full))
	assert.Equal(t, "Hello", textFromLayout(layout(0, 5, 0, 0, 0, 0), full))
	assert.Equal(t, "wörld", textFromLayout(layout(6, 11, 0, 0, 0, 0), full))

	// Out-of-range segments are clamped, not a panic.
	assert.Equal(t, "d", textFromLayout(layout(10, 99, 0, 0, 0, 0), full))
}

func TestTokenTextKeepsTrailingRuneWithoutBreak(t *testing.T) {
	tok := &documentaipb.Document_Page_Token{Layout: layout(0, 6, 0, 0, 0, 0)}
	assert.Equal(t, "First ", tokenText(tok, "First Name:"))
}

func TestGeometryFromLayout(t *testing.T) {
	// Vertex order does not matter; the box spans all of them.
	l := &documentaipb.Document_Page_Layout{
		BoundingPoly: &documentaipb.BoundingPoly{
			NormalizedVertices: []*documentaipb.NormalizedVertex{
				{X: 0.30, Y: 0.23}, {X: 0.05, Y: 0.20},
			},
		},
	}
	g := geometryFromLayout(l)
	assert.InDelta(t, 0.05, g.BoundingBox.Left, 1e-6)
	assert.InDelta(t, 0.20, g.BoundingBox.Top, 1e-6)
	assert.InDelta(t, 0.25, g.BoundingBox.Width, 1e-6)
	assert.InDelta(t, 0.03, g.BoundingBox.Height, 1e-6)

	assert.Equal(t, textract.Geometry{}, geometryFromLayout(nil))
}
