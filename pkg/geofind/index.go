package geofind

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/halldor/geofind/pkg/textract"
)

// Box is an axis-aligned rectangle in pixel space
type Box struct {
	XMin, YMin int
	XMax, YMax int
}

// Width returns the pixel width of the box
func (b Box) Width() int { return b.XMax - b.XMin }

// Height returns the pixel height of the box
func (b Box) Height() int { return b.YMax - b.YMin }

// Index is the query-ready view over a document: per-page element lists with
// pixel-space geometry and the pre-linked key/value pairing.
type Index struct {
	doc    *textract.Document
	width  int
	height int

	pages     []*pageIndex
	words     map[string]*Word
	keyValues [][]KeyValue
}

// pageIndex groups one page's elements by type, in document (reading) order
type pageIndex struct {
	number     int
	words      []*Word
	lines      []*Word
	selections []*Word
	keys       []*Word
}

// NewIndex builds the index for a document, denormalizing all geometry to
// the given page width and height. It validates the key/value structure up
// front and fails with *MalformedDocumentError on dangling relationship ids
// or keys without a resolvable value target; no partial index is returned.
func NewIndex(doc *textract.Document, width, height int) (*Index, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("page width and height are required, got %dx%d", width, height)
	}
	ix := &Index{doc: doc, width: width, height: height}
	if err := ix.build(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Refresh rebuilds the index from the underlying document, making blocks
// appended since the last build (virtual keys) visible to queries.
func (ix *Index) Refresh() error {
	return ix.build()
}

func (ix *Index) build() error {
	pages := make([]*pageIndex, 0, ix.doc.PageCount())
	words := make(map[string]*Word)
	keyValues := make([][]KeyValue, 0, ix.doc.PageCount())

	for page := 1; page <= ix.doc.PageCount(); page++ {
		pi := &pageIndex{number: page}
		var kvs []KeyValue

		for _, block := range ix.doc.BlocksOnPage(page) {
			switch block.BlockType {
			case textract.BlockTypeWord:
				w := ix.wordFromBlock(block, WordTypeWord)
				pi.words = append(pi.words, w)
				words[w.ID] = w

			case textract.BlockTypeLine:
				if err := ix.checkChildren(block); err != nil {
					return err
				}
				w := ix.wordFromBlock(block, WordTypeLine)
				pi.lines = append(pi.lines, w)
				words[w.ID] = w

			case textract.BlockTypeSelectionElement:
				w := ix.wordFromBlock(block, WordTypeSelectionElement)
				pi.selections = append(pi.selections, w)
				words[w.ID] = w

			case textract.BlockTypeKeyValueSet:
				if !block.IsKey() {
					continue // value halves are indexed through their key
				}
				key, value, err := ix.linkKeyValue(block)
				if err != nil {
					return err
				}
				pi.keys = append(pi.keys, key)
				words[key.ID] = key
				if _, seen := words[value.ID]; !seen {
					words[value.ID] = value
				}
				kvs = append(kvs, KeyValue{Key: key, Value: value})
			}
		}

		pages = append(pages, pi)
		keyValues = append(keyValues, kvs)
		log.WithFields(map[string]interface{}{
			"page":  page,
			"words": len(pi.words),
			"lines": len(pi.lines),
			"keys":  len(pi.keys),
		}).Debug("indexed page")
	}

	ix.pages = pages
	ix.words = words
	ix.keyValues = keyValues
	return nil
}

// linkKeyValue resolves a KEY block's value target and children into the
// denormalized key and value elements of one pairing.
func (ix *Index) linkKeyValue(key *textract.Block) (*Word, *Word, error) {
	valueIDs := key.ValueIDs()
	if len(valueIDs) != 1 {
		return nil, nil, &MalformedDocumentError{
			BlockID: key.ID,
			Reason:  fmt.Sprintf("key must reference exactly one value target, got %d", len(valueIDs)),
		}
	}
	valueBlock, ok := ix.doc.BlockByID(valueIDs[0])
	if !ok {
		return nil, nil, &MalformedDocumentError{
			BlockID: key.ID,
			Reason:  fmt.Sprintf("value target %s does not resolve", valueIDs[0]),
		}
	}
	if !valueBlock.IsValue() {
		return nil, nil, &MalformedDocumentError{
			BlockID: key.ID,
			Reason:  fmt.Sprintf("value target %s is not a VALUE block", valueBlock.ID),
		}
	}
	if err := ix.checkChildren(key); err != nil {
		return nil, nil, err
	}
	if err := ix.checkChildren(valueBlock); err != nil {
		return nil, nil, err
	}

	keyText := key.Text
	if keyText == "" {
		keyText = ix.childText(key)
	}
	if keyText == "" {
		return nil, nil, &MalformedDocumentError{
			BlockID: key.ID,
			Reason:  "key has neither text nor child words",
		}
	}

	keyWord := ix.wordFromBlock(key, WordTypeKey)
	keyWord.Text = NormalizeText(keyText)
	keyWord.OriginalText = keyText
	keyWord.Reference = valueBlock.ID

	valueWord := ix.wordFromBlock(valueBlock, WordTypeValue)
	valueText := valueBlock.Text
	if valueText == "" {
		valueText = ix.childText(valueBlock)
	}
	valueWord.Text = NormalizeText(valueText)
	valueWord.OriginalText = valueText

	return keyWord, valueWord, nil
}

// checkChildren verifies that every CHILD edge of a block resolves
func (ix *Index) checkChildren(block *textract.Block) error {
	for _, id := range block.ChildIDs() {
		if _, ok := ix.doc.BlockByID(id); !ok {
			return &MalformedDocumentError{
				BlockID: block.ID,
				Reason:  fmt.Sprintf("child %s does not resolve", id),
			}
		}
	}
	return nil
}

// childText joins the text of a block's child words; selection children
// contribute their selection status (SELECTED / NOT_SELECTED).
func (ix *Index) childText(block *textract.Block) string {
	var parts []string
	for _, id := range block.ChildIDs() {
		child, ok := ix.doc.BlockByID(id)
		if !ok {
			continue
		}
		switch child.BlockType {
		case textract.BlockTypeWord:
			if child.Text != "" {
				parts = append(parts, child.Text)
			}
		case textract.BlockTypeSelectionElement:
			parts = append(parts, child.SelectionStatus)
		}
	}
	return strings.Join(parts, " ")
}

// wordFromBlock denormalizes one block into a Word at the index scale
func (ix *Index) wordFromBlock(b *textract.Block, t WordType) *Word {
	box := ix.PixelBox(b)
	text := b.Text
	if t == WordTypeSelectionElement && text == "" {
		text = b.SelectionStatus
	}
	normalized := NormalizeText(text)
	if normalized == "" {
		normalized = strings.ToLower(text)
	}
	return &Word{
		ID:           b.ID,
		Type:         t,
		Text:         normalized,
		OriginalText: text,
		Confidence:   b.Confidence,
		Page:         b.Page,
		XMin:         box.XMin,
		YMin:         box.YMin,
		XMax:         box.XMax,
		YMax:         box.YMax,
		ChildIDs:     b.ChildIDs(),
	}
}

// PixelBox scales a block's normalized bounding box to the index's pixel
// dimensions. The left/top corner is rounded first and the extents are
// added to it, so boxes keep their width and height across the conversion.
func (ix *Index) PixelBox(b *textract.Block) Box {
	bb := b.Geometry.BoundingBox
	xmin := int(math.Round(bb.Left * float64(ix.width)))
	ymin := int(math.Round(bb.Top * float64(ix.height)))
	return Box{
		XMin: xmin,
		YMin: ymin,
		XMax: int(math.Round(float64(xmin) + bb.Width*float64(ix.width))),
		YMax: int(math.Round(float64(ymin) + bb.Height*float64(ix.height))),
	}
}

// Document returns the underlying document
func (ix *Index) Document() *textract.Document { return ix.doc }

// PageCount returns the number of indexed pages
func (ix *Index) PageCount() int { return len(ix.pages) }

// Width returns the pixel width geometry was denormalized to
func (ix *Index) Width() int { return ix.width }

// Height returns the pixel height geometry was denormalized to
func (ix *Index) Height() int { return ix.height }

// BlockByID resolves a block identifier, failing with *NotFoundError
func (ix *Index) BlockByID(id string) (*textract.Block, error) {
	b, ok := ix.doc.BlockByID(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return b, nil
}

// WordByID resolves the denormalized view of a block identifier,
// failing with *NotFoundError
func (ix *Index) WordByID(id string) (*Word, error) {
	w, ok := ix.words[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return w, nil
}

// KeyValues returns the page's key/value pairs in the order they were
// encountered in the document. Pages outside the document return nil.
func (ix *Index) KeyValues(page int) []KeyValue {
	if page < 1 || page > len(ix.keyValues) {
		return nil
	}
	return ix.keyValues[page-1]
}

// Words returns the page's elements of the requested types in reading order
// (top-to-bottom, then left-to-right). With no types given, all element
// types are returned.
func (ix *Index) Words(page int, types ...WordType) []*Word {
	pi := ix.pageIndex(page)
	if pi == nil {
		return nil
	}
	var result []*Word
	for _, t := range expandTypes(types) {
		switch t {
		case WordTypeWord:
			result = append(result, pi.words...)
		case WordTypeLine:
			result = append(result, pi.lines...)
		case WordTypeSelectionElement:
			result = append(result, pi.selections...)
		case WordTypeKey:
			result = append(result, pi.keys...)
		}
	}
	sortReadingOrder(result)
	return result
}

func (ix *Index) pageIndex(page int) *pageIndex {
	if page < 1 || page > len(ix.pages) {
		return nil
	}
	return ix.pages[page-1]
}

// expandTypes substitutes the full type list when none was requested
func expandTypes(types []WordType) []WordType {
	if len(types) > 0 {
		return types
	}
	return []WordType{WordTypeWord, WordTypeLine, WordTypeSelectionElement, WordTypeKey}
}

// sortReadingOrder orders elements top-to-bottom, then left-to-right.
// The sort is stable so repeated calls on an unmutated index agree.
func sortReadingOrder(words []*Word) {
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].YMin != words[j].YMin {
			return words[i].YMin < words[j].YMin
		}
		return words[i].XMin < words[j].XMin
	})
}
